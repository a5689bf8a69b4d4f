package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/api/middleware"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// stubStore is a SessionStore whose actions are scripted per test.
type stubStore struct {
	state ports.SessionState

	registerFn     func(st *ports.SessionState, email, password, fullName string)
	loginFn        func(st *ports.SessionState, email, password string) (domain.Role, bool)
	fetchProfileFn func(st *ports.SessionState, identityID string)

	loggedOut bool
	fetched   []string
}

func (s *stubStore) State() ports.SessionState                 { return s.state }
func (s *stubStore) Subscribe(func(ports.SessionState)) func() { return func() {} }
func (s *stubStore) CheckSession(context.Context)              {}
func (s *stubStore) Logout(context.Context)                    { s.loggedOut = true; s.state = ports.SessionState{} }
func (s *stubStore) Register(_ context.Context, email, password, name string) {
	s.registerFn(&s.state, email, password, name)
}

func (s *stubStore) Login(_ context.Context, email, password string) (domain.Role, bool) {
	return s.loginFn(&s.state, email, password)
}

func (s *stubStore) FetchProfile(_ context.Context, identityID string) {
	s.fetched = append(s.fetched, identityID)
	if s.fetchProfileFn != nil {
		s.fetchProfileFn(&s.state, identityID)
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withVisitor(c echo.Context, store ports.SessionStore) {
	c.Set(middleware.ContextVisitor, &ports.Visitor{ID: "visitor-1", Store: store})
}

func signedIn(id string, role domain.Role) ports.SessionState {
	return ports.SessionState{
		Identity: &domain.Identity{ID: id, Email: id + "@example.com"},
		Profile:  &domain.Profile{ID: id, Email: id + "@example.com", FullName: "Ana", Role: role},
	}
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
