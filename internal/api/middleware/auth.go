package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireIdentity rejects visitors who are not signed in. It must run after
// Visitor.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(ContextIdentityID).(string)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
