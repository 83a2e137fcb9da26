package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

const principalCollection = "principals"

// PrincipalRepository implements ports.PrincipalRepository using MongoDB.
type PrincipalRepository struct {
	coll *mongo.Collection
}

var _ ports.PrincipalRepository = (*PrincipalRepository)(nil)

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(principalCollection)}
}

// mongoPrincipal stores the normalized email separately so lookups stay
// case-insensitive while the display form is preserved.
type mongoPrincipal struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	EmailKey     string `bson:"email_key"`
	Role         string `bson:"role"`
	Avatar       string `bson:"avatar,omitempty"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// Upsert inserts or replaces the principal keyed by its id.
func (r *PrincipalRepository) Upsert(ctx context.Context, p *domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPrincipal{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		EmailKey:     domain.NormalizeEmail(p.Email),
		Role:         string(p.Role),
		Avatar:       p.Avatar,
		PasswordHash: p.SecretHash,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPrincipalExists
		}
		return fmt.Errorf("upsert principal: %w", err)
	}
	return nil
}

// FindByEmail retrieves a principal by case-insensitive email.
func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, bson.M{"email_key": domain.NormalizeEmail(email)}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}

	role, err := domain.ParseRole(mp.Role)
	if err != nil {
		return nil, fmt.Errorf("principal %s: %w", mp.ID, err)
	}

	return &domain.Principal{
		Identity: domain.Identity{
			ID:     mp.ID,
			Name:   mp.Name,
			Email:  mp.Email,
			Role:   role,
			Avatar: mp.Avatar,
		},
		SecretHash: mp.PasswordHash,
		CreatedAt:  unixToTime(mp.CreatedAt),
		UpdatedAt:  unixToTime(mp.UpdatedAt),
	}, nil
}

// EnsureIndexes creates the unique email index.
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
