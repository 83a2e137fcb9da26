package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// PrincipalRepository persists principals in PostgreSQL.
type PrincipalRepository struct {
	pool *pgxpool.Pool
}

var _ ports.PrincipalRepository = (*PrincipalRepository)(nil)

func NewPrincipalRepository(pool *pgxpool.Pool) *PrincipalRepository {
	return &PrincipalRepository{pool: pool}
}

// Upsert inserts a principal or replaces the row with the same id.
func (r *PrincipalRepository) Upsert(ctx context.Context, p *domain.Principal) error {
	const query = `
INSERT INTO principals (id, name, email, email_key, role, avatar, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    email_key = EXCLUDED.email_key,
    role = EXCLUDED.role,
    avatar = EXCLUDED.avatar,
    password_hash = EXCLUDED.password_hash,
    updated_at = EXCLUDED.updated_at
`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		domain.NormalizeEmail(p.Email),
		string(p.Role),
		p.Avatar,
		p.SecretHash,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPrincipalExists
		}
		return fmt.Errorf("upsert principal: %w", err)
	}
	return nil
}

// FindByEmail fetches a principal by case-insensitive email.
func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	const query = `
SELECT id, name, email, role, avatar, password_hash, created_at, updated_at
FROM principals WHERE email_key = $1
`
	var (
		p    domain.Principal
		role string
	)
	err := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&role,
		&p.Avatar,
		&p.SecretHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}

	p.Role, err = domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("principal %s: %w", p.ID, err)
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
