package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

const issuer = "thynkpro-portal"

// Signed stores the identity as an HS256 JWT so that an edited slot is
// detected on restore. A positive ttl also expires persisted sessions.
type Signed struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

var _ ports.IdentityCodec = (*Signed)(nil)

func NewSigned(key string, ttl time.Duration) *Signed {
	return &Signed{key: []byte(key), ttl: ttl, now: time.Now}
}

type identityClaims struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Avatar string      `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

func (s *Signed) Encode(ident domain.Identity) ([]byte, error) {
	now := s.now().UTC()
	claims := identityClaims{
		Name:   ident.Name,
		Email:  ident.Email,
		Role:   ident.Role,
		Avatar: ident.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  ident.ID,
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("sign identity: %w", err)
	}
	return []byte(token), nil
}

func (s *Signed) Decode(data []byte) (domain.Identity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(string(data), claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify identity: %w", err)
	}
	if !token.Valid {
		return domain.Identity{}, errors.New("verify identity: token invalid")
	}

	return domain.Identity{
		ID:     claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
		Avatar: claims.Avatar,
	}, nil
}
