package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockpulse/internal/analytics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExportResult struct {
	FileName        string
	FileContent     string
	RecordsExported int
}

var (
	stockHeader = []string{"product_id", "product_name", "current_stock", "sales_velocity", "days_cover", "status", "value"}
	salesHeader = []string{"date", "revenue", "orders_count", "average_basket"}
)

// WriteStockCSV writes a header row followed by one row per stock metric.
func WriteStockCSV(w io.Writer, stock []analytics.StockMetric) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(stockHeader); err != nil {
		return err
	}
	for _, m := range stock {
		record := []string{
			m.ProductID,
			m.ProductName,
			strconv.Itoa(m.CurrentStock),
			decimal.NewFromFloat(m.SalesVelocity).StringFixed(analytics.VelocityPlaces),
			strconv.Itoa(m.DaysCover),
			string(m.Status),
			money(m.Value),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSalesCSV writes a header row followed by one row per day.
func WriteSalesCSV(w io.Writer, sales []analytics.SalesMetric) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(salesHeader); err != nil {
		return err
	}
	for _, m := range sales {
		record := []string{
			m.Date,
			money(m.Revenue),
			strconv.Itoa(m.OrdersCount),
			money(m.AverageBasket),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportStock(tenantID uuid.UUID, stock []analytics.StockMetric, at time.Time) (*ExportResult, error) {
	var sb strings.Builder
	if err := WriteStockCSV(&sb, stock); err != nil {
		return nil, fmt.Errorf("write stock csv: %w", err)
	}
	return &ExportResult{
		FileName:        FileName("stock", tenantID, at, "csv"),
		FileContent:     sb.String(),
		RecordsExported: len(stock),
	}, nil
}

func ExportSales(tenantID uuid.UUID, sales []analytics.SalesMetric, at time.Time) (*ExportResult, error) {
	var sb strings.Builder
	if err := WriteSalesCSV(&sb, sales); err != nil {
		return nil, fmt.Errorf("write sales csv: %w", err)
	}
	return &ExportResult{
		FileName:        FileName("sales", tenantID, at, "csv"),
		FileContent:     sb.String(),
		RecordsExported: len(sales),
	}, nil
}

// FileName builds "<kind>_<tenant>_<YYYYMMDD>.<ext>".
func FileName(kind string, tenantID uuid.UUID, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", kind, tenantID, at.UTC().Format("20060102"), ext)
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
