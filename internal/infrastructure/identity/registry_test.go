package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/service"
)

func TestDefaultRegistry_OnePrincipalPerRole(t *testing.T) {
	roles := domain.NewRoleSet()
	for _, e := range DefaultRegistry() {
		if err := e.Validate(); err != nil {
			t.Fatalf("%s: %v", e.Email, err)
		}
		if e.Secret != DefaultSecret {
			t.Fatalf("%s: unexpected secret", e.Email)
		}
		roles[e.Role] = struct{}{}
	}
	if len(roles) != len(domain.AllRoles()) {
		t.Fatalf("registry covers %v", roles.Roles())
	}
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`
principals:
  - id: "7"
    name: Night Nurse
    email: Night@ThynkPro.com
    role: nurse
    secret: s3cret
  - name: Locum
    email: locum@thynkpro.com
    role: doctor
    avatar: /avatars/locum.png
    secret: other
`)
	entries, err := ParseRegistry(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID != "7" || entries[0].Role != domain.RoleNurse || entries[0].Secret != "s3cret" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].ID == "" {
		t.Fatalf("expected generated id")
	}
	if entries[1].Avatar != "/avatars/locum.png" {
		t.Fatalf("avatar lost: %+v", entries[1])
	}
}

func TestParseRegistry_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad role":       "principals:\n  - {id: '1', email: a@b.c, role: janitor, secret: x}\n",
		"missing secret": "principals:\n  - {id: '1', email: a@b.c, role: admin}\n",
		"duplicate":      "principals:\n  - {id: '1', email: a@b.c, role: admin, secret: x}\n  - {id: '2', email: A@B.C, role: nurse, secret: y}\n",
		"not yaml":       "principals: [",
	}
	for name, doc := range cases {
		if _, err := ParseRegistry([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "principals.yaml")
	if err := os.WriteFile(path, []byte("principals:\n  - {id: '1', email: a@b.c, role: patient, secret: x}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := LoadRegistryFile(path)
	if err != nil || len(entries) != 1 || entries[0].Role != domain.RolePatient {
		t.Fatalf("load = %+v, %v", entries, err)
	}
	if _, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSeed_AuthenticatesEveryPrincipal(t *testing.T) {
	repo := NewMemoryRepository()
	auth := service.NewAuthService(repo, bcrypt.MinCost)

	if err := Seed(context.Background(), auth, DefaultRegistry()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if repo.Len() != 5 {
		t.Fatalf("repo holds %d principals", repo.Len())
	}
	for _, e := range DefaultRegistry() {
		ident, err := auth.Authenticate(context.Background(), e.Email, DefaultSecret)
		if err != nil {
			t.Fatalf("%s: %v", e.Email, err)
		}
		if !ident.Equal(e.Identity) {
			t.Fatalf("got %+v, want %+v", ident, e.Identity)
		}
	}
	if _, err := auth.Authenticate(context.Background(), "admin@thynkpro.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMemoryRepository_UpsertReplacesByID(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p := &domain.Principal{Identity: domain.Identity{ID: "1", Email: "old@thynkpro.com", Role: domain.RoleAdmin}}
	_ = repo.Upsert(ctx, p)
	p2 := &domain.Principal{Identity: domain.Identity{ID: "1", Email: "new@thynkpro.com", Role: domain.RoleAdmin}}
	_ = repo.Upsert(ctx, p2)

	if repo.Len() != 1 {
		t.Fatalf("expected one principal, got %d", repo.Len())
	}
	if _, err := repo.FindByEmail(ctx, "OLD@thynkpro.com"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("old email still resolves: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "NEW@thynkpro.com"); err != nil {
		t.Fatalf("new email: %v", err)
	}
}
