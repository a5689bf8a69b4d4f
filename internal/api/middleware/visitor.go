package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// Context keys set by Visitor.
const (
	ContextVisitor    = "visitor"
	ContextRole       = "role"
	ContextIdentityID = "identity_id"
)

const (
	defaultCookieName = "sid"
	cookieMaxAge      = 30 * 24 * 60 * 60
)

// VisitorConfig configures the Visitor middleware.
type VisitorConfig struct {
	Registry   ports.SessionRegistry
	CookieName string
	Secure     bool
}

// Visitor identifies the browser by its visitor cookie, minting one when it is
// absent or malformed, and attaches that visitor's session store. The role and
// identity id seen at the start of the request are exposed for RBAC.
func Visitor(cfg VisitorConfig) echo.MiddlewareFunc {
	name := cfg.CookieName
	if name == "" {
		name = defaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(name); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			c.SetCookie(&http.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				MaxAge:   cookieMaxAge,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			v, err := cfg.Registry.Acquire(c.Request().Context(), id)
			if err != nil {
				return err
			}

			st := v.Store.State()
			c.Set(ContextVisitor, v)
			c.Set(ContextRole, string(st.Role()))
			if st.Identity != nil {
				c.Set(ContextIdentityID, st.Identity.ID)
			}
			return next(c)
		}
	}
}
