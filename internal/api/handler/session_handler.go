package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
	"github.com/thynkpro/portal/internal/pkg/metrics"
)

const msgInvalidCredentials = "Invalid email or password. Please try again."

// SessionHandler serves sign-in, sign-out and the neutral dashboard.
type SessionHandler struct {
	session    ports.SessionService
	guard      ports.RouteGuard
	production bool
	log        zerolog.Logger
}

// NewSessionHandler wires the handler. In production an unmapped role at
// the dashboard signs the user out; otherwise it panics.
func NewSessionHandler(session ports.SessionService, guard ports.RouteGuard, production bool, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{session: session, guard: guard, production: production, log: log}
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type signInResponse struct {
	Identity *domain.Identity `json:"identity"`
	Redirect domain.Path      `json:"redirect"`
}

type signInPageResponse struct {
	Path          domain.Path `json:"path"`
	Authenticated bool        `json:"authenticated"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Identity      *domain.Identity `json:"identity,omitempty"`
	Landing       domain.Path      `json:"landing,omitempty"`
}

type navigationResponse struct {
	Items []domain.NavItem `json:"items"`
}

// SignInPage describes the sign-in entry point, or sends an authenticated
// caller on to the dashboard.
//
// @Summary      Sign-in entry point
// @Tags         auth
// @Produce      json
// @Success      200  {object}  signInPageResponse
// @Success      302
// @Router       /auth/signin [get]
func (h *SessionHandler) SignInPage(c echo.Context) error {
	if h.session.IsAuthenticated() {
		return c.Redirect(http.StatusFound, string(domain.PathDashboard))
	}
	return c.JSON(http.StatusOK, signInPageResponse{Path: domain.PathSignIn})
}

// SignIn authenticates the posted credentials.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	start := time.Now()
	ok, err := h.session.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case err != nil:
		metrics.LoginDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	case !ok:
		metrics.LoginDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msgInvalidCredentials})
	}
	metrics.LoginDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, signInResponse{
		Identity: h.session.CurrentIdentity(),
		Redirect: domain.PathDashboard,
	})
}

// SignOut ends the session and sends the caller to sign-in.
//
// @Summary      Sign out
// @Tags         auth
// @Success      302
// @Router       /auth/signout [post]
func (h *SessionHandler) SignOut(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		// Memory is already cleared at this point.
		h.log.Error().Err(err).Msg("sign-out left a persisted session behind")
	}
	return c.Redirect(http.StatusFound, string(domain.PathSignIn))
}

// Session reports the current identity and its landing route.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	ident := h.session.CurrentIdentity()
	if ident == nil {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	landing, err := h.guard.LandingRouteFor(*ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, Identity: ident, Landing: landing})
}

// Dashboard redirects to the caller's role-specific landing route.
//
// @Summary      Role-based dashboard redirect
// @Tags         views
// @Success      302
// @Router       /dashboard [get]
func (h *SessionHandler) Dashboard(c echo.Context) error {
	target, err := h.guard.Resolve()
	if err != nil {
		if !errors.Is(err, domain.ErrUnmappedRole) {
			return err
		}
		if !h.production {
			panic(err)
		}
		h.log.Error().Err(err).Msg("identity without landing route, signing out")
		if logoutErr := h.session.Logout(c.Request().Context()); logoutErr != nil {
			h.log.Error().Err(logoutErr).Msg("sign-out after unmapped role failed")
		}
		target = domain.PathSignIn
	}
	return c.Redirect(http.StatusFound, string(target))
}

// Navigation lists the sidebar entries visible to the current role.
//
// @Summary      Sidebar navigation
// @Tags         views
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Success      302
// @Router       /navigation [get]
func (h *SessionHandler) Navigation(c echo.Context) error {
	ident := ctxIdentity(c)
	if ident == nil {
		return c.Redirect(http.StatusFound, string(domain.PathSignIn))
	}
	return c.JSON(http.StatusOK, navigationResponse{Items: domain.NavigationFor(ident.Role)})
}
