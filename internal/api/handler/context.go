package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/api/middleware"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// ctxVisitor returns the visitor attached by the Visitor middleware. A missing
// visitor means the route was registered outside the visitor group.
func ctxVisitor(c echo.Context) (*ports.Visitor, error) {
	v, ok := c.Get(middleware.ContextVisitor).(*ports.Visitor)
	if !ok || v == nil || v.Store == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "visitor session unavailable")
	}
	return v, nil
}

// ctxIdentity returns the visitor together with the signed-in identity id,
// failing with ErrUnauthenticated for anonymous visitors.
func ctxIdentity(c echo.Context) (*ports.Visitor, string, error) {
	v, err := ctxVisitor(c)
	if err != nil {
		return nil, "", err
	}
	st := v.Store.State()
	if st.Identity == nil || st.Identity.ID == "" {
		return nil, "", domain.ErrUnauthenticated
	}
	return v, st.Identity.ID, nil
}
