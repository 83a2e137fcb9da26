package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCorruptSession     = errors.New("corrupt persisted session")
)

// Identity is an authenticated principal as held by the session.
type Identity struct {
	ID     string `json:"id"     bson:"id"     yaml:"id"`
	Name   string `json:"name"   bson:"name"   yaml:"name"`
	Email  string `json:"email"  bson:"email"  yaml:"email"`
	Role   Role   `json:"role"   bson:"role"   yaml:"role"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// NewIdentity constructs a validated Identity.
func NewIdentity(id, name, email string, role Role, avatar string) (Identity, error) {
	ident := Identity{ID: id, Name: name, Email: email, Role: role, Avatar: avatar}
	if err := ident.Validate(); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// Validate checks the invariants every held or persisted identity must satisfy.
func (i Identity) Validate() error {
	if !i.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, i.Role)
	}
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidIdentity)
	}
	if strings.TrimSpace(i.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidIdentity)
	}
	return nil
}

// Equal compares every field.
func (i Identity) Equal(other Identity) bool {
	return i == other
}

// Credentials is the email/secret pair offered at sign-in. It is never
// persisted.
type Credentials struct {
	Email  string
	Secret string
}

// Empty reports whether either half of the pair is blank.
func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Secret) == ""
}
