package ports

import (
	"context"

	"github.com/thynkpro/portal/internal/core/domain"
)

// SessionService owns the process's current identity.
type SessionService interface {
	Login(ctx context.Context, email, secret string) (bool, error)
	Logout(ctx context.Context) error
	CurrentIdentity() *domain.Identity
	IsAuthenticated() bool
	Restore(ctx context.Context)
}

// RouteGuard decides access to protected views.
type RouteGuard interface {
	Authorize(required domain.RoleSet) domain.Decision
	LandingRouteFor(ident domain.Identity) (domain.Path, error)
	Resolve() (domain.Path, error)
}
