package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports the first rule a product or order record broke at the ingestion boundary.
type ValidationError struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Rule     string `json:"rule"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s failed %q", e.Kind, e.RecordID, e.Field, e.Rule)
}

func toValidationError(kind, recordID string, err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ValidationError{Kind: kind, RecordID: recordID, Field: field, Rule: fe.Tag()}
	}
	return &ValidationError{Kind: kind, RecordID: recordID, Field: "", Rule: err.Error()}
}

// ValidateProduct checks a single product record.
func ValidateProduct(p Product) error {
	if err := validate.Struct(p); err != nil {
		return toValidationError("product", p.ID, err)
	}
	return nil
}

// ValidateOrder checks a single order record and each of its items.
func ValidateOrder(o Order) error {
	if err := validate.Struct(o); err != nil {
		return toValidationError("order", o.ID, err)
	}
	return nil
}

// PartitionProducts splits products into valid records and the errors of the rejected ones.
// Input order is preserved in the valid slice.
func PartitionProducts(products []Product) ([]Product, []*ValidationError) {
	valid := make([]Product, 0, len(products))
	var rejected []*ValidationError
	for _, p := range products {
		if err := ValidateProduct(p); err != nil {
			var verr *ValidationError
			errors.As(err, &verr)
			rejected = append(rejected, verr)
			continue
		}
		valid = append(valid, p)
	}
	return valid, rejected
}

// PartitionOrders splits orders into valid records and the errors of the rejected ones.
func PartitionOrders(orders []Order) ([]Order, []*ValidationError) {
	valid := make([]Order, 0, len(orders))
	var rejected []*ValidationError
	for _, o := range orders {
		if err := ValidateOrder(o); err != nil {
			var verr *ValidationError
			errors.As(err, &verr)
			rejected = append(rejected, verr)
			continue
		}
		valid = append(valid, o)
	}
	return valid, rejected
}
