package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

// errorMapping ties a domain sentinel to its HTTP status. An empty message
// means the wrapped error text is shown as is.
type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{domain.ErrInvalidDestination, http.StatusBadRequest, ""},
	{domain.ErrInvalidFeedback, http.StatusBadRequest, ""},
	{domain.ErrInvalidAvatar, http.StatusBadRequest, ""},
	{domain.ErrInvalidSignUp, http.StatusBadRequest, ""},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{domain.ErrNoSession, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},

	{domain.ErrDestinationNotFound, http.StatusNotFound, "destination not found"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
	{domain.ErrRecordNotFound, http.StatusNotFound, "profile not found"},
	{domain.ErrFileNotFound, http.StatusNotFound, "file not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},

	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrDuplicateFeedback, http.StatusConflict, "message already received"},

	{domain.ErrIdentityMissing, http.StatusBadGateway, "auth backend returned no identity"},
}

// NewHTTPErrorHandler renders every handler error as {"error": "..."}.
// Echo errors keep their own status; domain sentinels go through
// errorMappings; anything else is logged and reported as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		_ = c.JSON(status, errorBody{Error: message})
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.message == "" {
			return m.status, err.Error()
		}
		return m.status, m.message
	}
	return http.StatusInternalServerError, "internal server error"
}
