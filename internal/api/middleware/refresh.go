package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// RefreshProfile re-reads the signed-in visitor's profile before the request
// continues, so RBAC sees the role currently stored rather than the cached
// one. It must run after Visitor.
func RefreshProfile() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := c.Get(ContextVisitor).(*ports.Visitor)
			id, _ := c.Get(ContextIdentityID).(string)
			if !ok || v == nil || id == "" {
				return next(c)
			}

			v.Store.FetchProfile(c.Request().Context(), id)
			st := v.Store.State()
			c.Set(ContextRole, string(st.Role()))
			if st.Identity == nil {
				c.Set(ContextIdentityID, "")
			}
			return next(c)
		}
	}
}
