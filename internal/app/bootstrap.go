// Package app assembles the portal's infrastructure from configuration.
// Both the HTTP server and portalctl start from Build.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/api/handler"
	"github.com/thynkpro/portal/internal/core/ports"
	"github.com/thynkpro/portal/internal/core/service"
	"github.com/thynkpro/portal/internal/infrastructure/codec"
	mongodb "github.com/thynkpro/portal/internal/infrastructure/db/mongo"
	"github.com/thynkpro/portal/internal/infrastructure/db/postgres"
	redisdb "github.com/thynkpro/portal/internal/infrastructure/db/redis"
	"github.com/thynkpro/portal/internal/infrastructure/identity"
	"github.com/thynkpro/portal/internal/infrastructure/slot"
	"github.com/thynkpro/portal/internal/pkg/config"
)

// Components is the wired infrastructure behind a SessionStore.
type Components struct {
	Provider ports.IdentityProvider
	Slot     ports.DurableSlot
	Codec    ports.IdentityCodec

	// Events persists the audit trail. Nil when the backend has no
	// event store.
	Events ports.EventRepository

	// Checks feeds the readiness probe.
	Checks map[string]handler.Pinger

	closers []func(context.Context) error
}

// Build connects every backend named by cfg. On error, anything already
// opened is closed again.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *Components, err error) {
	c := &Components{Checks: make(map[string]handler.Pinger)}
	defer func() {
		if err != nil {
			_ = c.Close(context.Background())
		}
	}()

	if err = c.buildIdentity(ctx, cfg, log); err != nil {
		return nil, err
	}
	if err = c.buildSlot(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.Session.SigningKey != "" {
		c.Codec = codec.NewSigned(cfg.Session.SigningKey, cfg.Session.TTL)
	} else {
		c.Codec = codec.JSON{}
	}

	log.Info().
		Str("identity_backend", cfg.Identity.Backend).
		Str("slot_backend", cfg.Session.SlotBackend).
		Bool("signed", cfg.Session.SigningKey != "").
		Msg("session infrastructure ready")
	return c, nil
}

func (c *Components) buildIdentity(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var repo ports.PrincipalRepository
	seed := cfg.Identity.Seed

	switch cfg.Identity.Backend {
	case config.BackendStatic:
		repo = identity.NewMemoryRepository()
		seed = true

	case config.BackendMongo:
		store, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		c.closers = append(c.closers, store.Close)
		c.Checks["mongo"] = handler.PingFunc(store.Ping)

		principals := mongodb.NewPrincipalRepository(store.DB)
		if err := principals.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = principals
		c.Events = mongodb.NewEventRepository(store.DB)

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func(context.Context) error {
			db.Close()
			return nil
		})
		c.Checks["postgres"] = handler.PingFunc(db.Ping)

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		repo = postgres.NewPrincipalRepository(db.Pool)

	default:
		return fmt.Errorf("unknown identity backend %q", cfg.Identity.Backend)
	}

	auth := service.NewAuthService(repo, cfg.Identity.BcryptCost)
	c.Provider = auth

	if !seed {
		return nil
	}
	entries := identity.DefaultRegistry()
	if cfg.Identity.RegistryFile != "" {
		loaded, err := identity.LoadRegistryFile(cfg.Identity.RegistryFile)
		if err != nil {
			return err
		}
		entries = loaded
	}
	if err := identity.Seed(ctx, auth, entries); err != nil {
		return err
	}
	log.Debug().Int("principals", len(entries)).Msg("identity registry seeded")
	return nil
}

func (c *Components) buildSlot(ctx context.Context, cfg *config.Config) error {
	switch cfg.Session.SlotBackend {
	case config.SlotFile:
		c.Slot = slot.NewFile(filepath.Clean(cfg.Session.SlotDir), cfg.Session.SlotKey)
	case config.SlotMemory:
		c.Slot = slot.NewMemory()
	case config.SlotRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func(context.Context) error { return client.Close() })

		s := redisdb.NewSessionSlot(client, cfg.Session.SlotKey, cfg.Session.TTL)
		c.Checks["redis"] = handler.PingFunc(s.Ping)
		c.Slot = s
	default:
		return fmt.Errorf("unknown slot backend %q", cfg.Session.SlotBackend)
	}
	return nil
}

// Close releases every backend connection in reverse order of opening.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
