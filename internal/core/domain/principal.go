package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPrincipalExists   = errors.New("principal already exists")
)

// Principal is a registered account known to an identity provider.
type Principal struct {
	Identity
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NormalizeEmail is the lookup key used by every principal store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
