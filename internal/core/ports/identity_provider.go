package ports

import (
	"context"

	"github.com/thynkpro/portal/internal/core/domain"
)

// IdentityProvider authenticates an email/secret pair. A non-matching pair
// yields domain.ErrInvalidCredentials; any other error is an
// infrastructure fault.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, secret string) (*domain.Identity, error)
}

// PrincipalRepository stores registered principals. Lookups by email are
// case-insensitive.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	Upsert(ctx context.Context, p *domain.Principal) error
}
