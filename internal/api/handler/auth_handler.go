package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/api/metrics"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

const (
	redirectAdmin = "/admin"
	redirectHome  = "/"
)

// AuthHandler exposes the visitor's session store actions.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Session reports who the visitor is.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	v, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(v.Store.State()))
}

// Register creates an account with a "user" profile and signs the visitor in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	v, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	v.Store.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	st := v.Store.State()

	switch {
	case st.Err == nil:
		metrics.AuthActionsTotal.WithLabelValues("register", "ok").Inc()
		return c.JSON(http.StatusCreated, toSessionResponse(st))
	case errors.Is(st.Err, domain.ErrPartialRegistration):
		// The account exists without a profile row and the store stays signed out.
		metrics.AuthActionsTotal.WithLabelValues("register", "partial").Inc()
		resp := toSessionResponse(st)
		resp.Warning = "account created but profile could not be saved"
		return c.JSON(http.StatusCreated, resp)
	default:
		metrics.AuthActionsTotal.WithLabelValues("register", "error").Inc()
		return st.Err
	}
}

// Login signs the visitor in and tells the client where to go next.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	v, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	role, ok := v.Store.Login(c.Request().Context(), req.Email, req.Password)
	if !ok {
		metrics.AuthActionsTotal.WithLabelValues("login", "error").Inc()
		if st := v.Store.State(); st.Err != nil {
			return st.Err
		}
		return domain.ErrProfileNotFound
	}

	metrics.AuthActionsTotal.WithLabelValues("login", "ok").Inc()
	redirect := redirectHome
	if role == domain.RoleAdmin {
		redirect = redirectAdmin
	}
	return c.JSON(http.StatusOK, loginResponse{Role: string(role), Redirect: redirect})
}

// Logout ends the visitor's session. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	v, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	v.Store.Logout(c.Request().Context())
	metrics.AuthActionsTotal.WithLabelValues("logout", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}
