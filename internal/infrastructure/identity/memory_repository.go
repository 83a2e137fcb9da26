// Package identity provides the principal registry used to seed identity
// backends, and an in-memory principal repository.
package identity

import (
	"context"
	"sync"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// MemoryRepository is a PrincipalRepository held in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Principal
}

var _ ports.PrincipalRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]domain.Principal)}
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return &p, nil
}

// Upsert stores p, replacing any principal with the same id or email.
func (r *MemoryRepository) Upsert(_ context.Context, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeEmail(p.Email)
	for email, existing := range r.byEmail {
		if existing.ID == p.ID && email != key {
			delete(r.byEmail, email)
		}
	}
	r.byEmail[key] = *p
	return nil
}

// Len reports the number of stored principals.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
