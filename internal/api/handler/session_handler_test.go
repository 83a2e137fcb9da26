package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
)

type stubSession struct {
	ident     *domain.Identity
	loginFn   func(ctx context.Context, email, secret string) (bool, error)
	logoutErr error
	logouts   int
}

func (s *stubSession) Login(ctx context.Context, email, secret string) (bool, error) {
	ok, err := s.loginFn(ctx, email, secret)
	if ok {
		s.ident = &domain.Identity{ID: "2", Name: "Doctor", Email: email, Role: domain.RoleDoctor}
	}
	return ok, err
}

func (s *stubSession) Logout(context.Context) error {
	s.logouts++
	s.ident = nil
	return s.logoutErr
}

func (s *stubSession) CurrentIdentity() *domain.Identity { return s.ident }
func (s *stubSession) IsAuthenticated() bool             { return s.ident != nil }
func (s *stubSession) Restore(context.Context)           {}

type stubGuard struct {
	resolveFn func() (domain.Path, error)
}

func (g *stubGuard) Authorize(domain.RoleSet) domain.Decision { return domain.DecisionAllow }

func (g *stubGuard) LandingRouteFor(ident domain.Identity) (domain.Path, error) {
	return domain.LandingRouteFor(ident.Role)
}

func (g *stubGuard) Resolve() (domain.Path, error) { return g.resolveFn() }

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionHandler_SignIn_Success(t *testing.T) {
	stub := &stubSession{
		loginFn: func(ctx context.Context, email, secret string) (bool, error) {
			if email != "doctor@thynkpro.com" || secret != "password123" {
				t.Fatalf("unexpected args: %s %s", email, secret)
			}
			return true, nil
		},
	}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"email":"doctor@thynkpro.com","password":"password123"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect"] != "/dashboard" {
		t.Fatalf("unexpected redirect: %v", resp["redirect"])
	}
	ident, ok := resp["identity"].(map[string]any)
	if !ok || ident["role"] != "doctor" {
		t.Fatalf("unexpected identity payload: %+v", resp["identity"])
	}
}

func TestSessionHandler_SignIn_Rejected(t *testing.T) {
	stub := &stubSession{
		loginFn: func(context.Context, string, string) (bool, error) { return false, nil },
	}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"email":"doctor@thynkpro.com","password":"nope"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgInvalidCredentials) {
		t.Fatalf("expected credential message, got %s", rec.Body.String())
	}
	if stub.IsAuthenticated() {
		t.Fatalf("rejected login must not authenticate")
	}
}

func TestSessionHandler_SignIn_BadPayload(t *testing.T) {
	called := false
	stub := &stubSession{
		loginFn: func(context.Context, string, string) (bool, error) {
			called = true
			return false, nil
		},
	}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"email":"","password":""}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if called {
		t.Fatalf("login should not run on an invalid payload")
	}
}

func TestSessionHandler_SignIn_InfrastructureError(t *testing.T) {
	boom := errors.New("slot unavailable")
	stub := &stubSession{
		loginFn: func(context.Context, string, string) (bool, error) { return false, boom },
	}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, _ := newTestContext(http.MethodPost, "/auth/signin", `{"email":"doctor@thynkpro.com","password":"password123"}`)
	if err := h.SignIn(c); !errors.Is(err, boom) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestSessionHandler_SignInPage_RedirectsWhenAuthenticated(t *testing.T) {
	stub := &stubSession{ident: &domain.Identity{Email: "nurse@thynkpro.com", Role: domain.RoleNurse}}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodGet, "/auth/signin", "")
	if err := h.SignInPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected 302 to /dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestSessionHandler_SignOut(t *testing.T) {
	stub := &stubSession{
		ident:     &domain.Identity{Email: "admin@thynkpro.com", Role: domain.RoleAdmin},
		logoutErr: errors.New("slot write failed"),
	}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodPost, "/auth/signout", "")
	if err := h.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/auth/signin" {
		t.Fatalf("expected 302 to /auth/signin, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if stub.IsAuthenticated() {
		t.Fatalf("sign-out must clear the identity even when persistence fails")
	}
}

func TestSessionHandler_Session(t *testing.T) {
	stub := &stubSession{ident: &domain.Identity{Email: "patient@thynkpro.com", Role: domain.RolePatient}}
	h := NewSessionHandler(stub, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodGet, "/auth/session", "")
	if err := h.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Authenticated || resp.Landing != "/patient/dashboard" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestSessionHandler_Dashboard_RedirectsToLanding(t *testing.T) {
	guard := &stubGuard{resolveFn: func() (domain.Path, error) { return "/doctor/dashboard", nil }}
	h := NewSessionHandler(&stubSession{}, guard, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodGet, "/dashboard", "")
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderLocation) != "/doctor/dashboard" {
		t.Fatalf("unexpected location %q", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestSessionHandler_Dashboard_UnmappedRole(t *testing.T) {
	guard := &stubGuard{resolveFn: func() (domain.Path, error) {
		return "", domain.ErrUnmappedRole
	}}

	t.Run("production signs out", func(t *testing.T) {
		stub := &stubSession{ident: &domain.Identity{Email: "x@thynkpro.com", Role: "ghost"}}
		h := NewSessionHandler(stub, guard, true, zerolog.Nop())

		c, rec := newTestContext(http.MethodGet, "/dashboard", "")
		if err := h.Dashboard(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Header().Get(echo.HeaderLocation) != "/auth/signin" {
			t.Fatalf("unexpected location %q", rec.Header().Get(echo.HeaderLocation))
		}
		if stub.logouts != 1 {
			t.Fatalf("expected one logout, got %d", stub.logouts)
		}
	})

	t.Run("development panics", func(t *testing.T) {
		h := NewSessionHandler(&stubSession{}, guard, false, zerolog.Nop())
		c, _ := newTestContext(http.MethodGet, "/dashboard", "")

		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic")
			}
		}()
		_ = h.Dashboard(c)
	})
}

func TestSessionHandler_Navigation(t *testing.T) {
	h := NewSessionHandler(&stubSession{}, &stubGuard{}, false, zerolog.Nop())

	c, rec := newTestContext(http.MethodGet, "/navigation", "")
	c.Set(ContextKeyIdentity, &domain.Identity{Email: "nurse@thynkpro.com", Role: domain.RoleNurse})
	if err := h.Navigation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp navigationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, item := range resp.Items {
		if item.Path == "/upload" || item.Path == "/doctor/details" {
			t.Fatalf("nurse should not see %s", item.Path)
		}
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"slot":     PingFunc(func(context.Context) error { return nil }),
		"identity": PingFunc(func(context.Context) error { return errors.New("down") }),
	})

	c, rec := newTestContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["slot"].Status != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
