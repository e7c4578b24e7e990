package middleware

import (
	"context"

	"stockpulse/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TenantHeader = "X-Tenant-ID"

// TenantMiddleware resolves the tenant from the X-Tenant-ID header and stores it in the request context.
func TenantMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, err := common.ValidateUUID(c.Request().Header.Get(TenantHeader), TenantHeader)
			if err != nil {
				return common.SendValidationError(c, TenantHeader, err.Error())
			}

			ctx := common.WithTenantID(c.Request().Context(), tenantID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(TenantHeader, tenantID.String())

			return next(c)
		}
	}
}

// GetTenantIDFromContext extracts tenant ID from request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return common.GetTenantIDFromContext(ctx)
}
