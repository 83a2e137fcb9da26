package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SlotFile   = "file"
	SlotRedis  = "redis"
	SlotMemory = "memory"

	BackendStatic   = "static"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Identity IdentityConfig
	Audit    AuditConfig

	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type SessionConfig struct {
	SlotBackend string        `env:"SESSION_SLOT_BACKEND, default=file"`
	SlotKey     string        `env:"SESSION_SLOT_KEY,     default=thynkpro_user"`
	SlotDir     string        `env:"SESSION_SLOT_DIR,     default=.thynkpro"`
	SigningKey  string        `env:"SESSION_SIGNING_KEY"`
	TTL         time.Duration `env:"SESSION_TTL,          default=0s"`
	LoginDelay  time.Duration `env:"SESSION_LOGIN_DELAY,  default=0s"`
}

type IdentityConfig struct {
	Backend      string `env:"IDENTITY_BACKEND,       default=static"`
	RegistryFile string `env:"IDENTITY_REGISTRY_FILE"`
	BcryptCost   int    `env:"IDENTITY_BCRYPT_COST,   default=10"`
	Seed         bool   `env:"IDENTITY_SEED,          default=true"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=2"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=thynkpro"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/thynkpro?sslmode=disable"`
}

// IsProduction reports whether the process runs with production semantics.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate rejects unknown backend names.
func (c *Config) Validate() error {
	switch c.Session.SlotBackend {
	case SlotFile, SlotRedis, SlotMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_SLOT_BACKEND %q", c.Session.SlotBackend)
	}
	switch c.Identity.Backend {
	case BackendStatic, BackendMongo, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown IDENTITY_BACKEND %q", c.Identity.Backend)
	}
	if c.Session.SlotKey == "" {
		return errors.New("config: SESSION_SLOT_KEY must not be empty")
	}
	return nil
}

// Load reads an optional .env file, then the environment, using
// go-envconfig. Variables already set in the environment win over .env.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for main packages: it panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
