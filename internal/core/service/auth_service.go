package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// AuthService is the identity provider backed by a principal repository.
// Secrets are stored as bcrypt hashes.
type AuthService struct {
	repo ports.PrincipalRepository
	cost int
	now  func() time.Time
}

var _ ports.IdentityProvider = (*AuthService)(nil)

func NewAuthService(repo ports.PrincipalRepository, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, cost: cost, now: time.Now}
}

// Register hashes secret and stores the principal, replacing any existing
// principal with the same email.
func (s *AuthService) Register(ctx context.Context, ident domain.Identity, secret string) (*domain.Principal, error) {
	if err := ident.Validate(); err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	now := s.now().UTC()
	p := &domain.Principal{
		Identity:   ident,
		SecretHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("register %s: %w", ident.Email, err)
	}
	return p, nil
}

// Authenticate matches email case-insensitively and checks secret.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) (*domain.Identity, error) {
	if email == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(p.SecretHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	ident := p.Identity
	return &ident, nil
}
