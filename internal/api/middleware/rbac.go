package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// RBAC enforces role-based access control using the profile role set by
// Visitor. Anonymous visitors get 401, other roles 403.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, _ := c.Get(ContextIdentityID).(string); id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
