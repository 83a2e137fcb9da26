package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != EnvDevelopment || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Session.SlotBackend != SlotFile || cfg.Session.SlotKey != "thynkpro_user" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Session.LoginDelay != 0 || cfg.Session.TTL != 0 {
		t.Fatalf("unexpected durations: %+v", cfg.Session)
	}
	if cfg.Identity.Backend != BackendStatic || !cfg.Identity.Seed {
		t.Fatalf("unexpected identity defaults: %+v", cfg.Identity)
	}
	if cfg.IsProduction() {
		t.Fatalf("default env must not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                  "production",
		"SESSION_SLOT_BACKEND": "redis",
		"SESSION_LOGIN_DELAY":  "800ms",
		"SESSION_SIGNING_KEY":  "k",
		"IDENTITY_BACKEND":     "postgres",
		"REDIS_DB":             "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() || cfg.Session.SlotBackend != SlotRedis || cfg.Identity.Backend != BackendPostgres {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Session.LoginDelay != 800*time.Millisecond {
		t.Fatalf("login delay = %s", cfg.Session.LoginDelay)
	}
	if cfg.Redis.DB != 3 || cfg.Session.SigningKey != "k" {
		t.Fatalf("unexpected values: %+v %+v", cfg.Redis, cfg.Session)
	}
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	for _, env := range []map[string]string{
		{"SESSION_SLOT_BACKEND": "etcd"},
		{"IDENTITY_BACKEND": "ldap"},
	} {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("expected error for %v", env)
		}
	}
}

func TestMustLoad(t *testing.T) {
	t.Setenv("SESSION_SLOT_BACKEND", "memory")
	if cfg := MustLoad(context.Background()); cfg.Session.SlotBackend != SlotMemory {
		t.Fatalf("unexpected slot backend %q", cfg.Session.SlotBackend)
	}

	t.Setenv("SESSION_SLOT_BACKEND", "floppy")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an invalid environment")
		}
	}()
	MustLoad(context.Background())
}
