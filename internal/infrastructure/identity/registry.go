package identity

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/thynkpro/portal/internal/core/domain"
)

// DefaultSecret is the shared secret of the built-in demo principals.
const DefaultSecret = "password123"

// Entry is one registry record: an identity and its plain-text secret.
// Secrets are hashed on Seed and never kept beyond that.
type Entry struct {
	domain.Identity `yaml:",inline"`
	Secret          string `yaml:"secret"`
}

// registryFile is the on-disk layout:
//
//	principals:
//	  - id: "2"
//	    name: Doctor Smith
//	    email: doctor@thynkpro.com
//	    role: doctor
//	    avatar: /avatars/doctor.png
//	    secret: password123
type registryFile struct {
	Principals []Entry `yaml:"principals"`
}

// DefaultRegistry returns the built-in demo principals, one per role.
func DefaultRegistry() []Entry {
	return []Entry{
		{Identity: domain.Identity{ID: "1", Name: "Admin User", Email: "admin@thynkpro.com", Role: domain.RoleAdmin, Avatar: "https://randomuser.me/api/portraits/women/55.jpg"}, Secret: DefaultSecret},
		{Identity: domain.Identity{ID: "2", Name: "Doctor Smith", Email: "doctor@thynkpro.com", Role: domain.RoleDoctor, Avatar: "/avatars/doctor.png"}, Secret: DefaultSecret},
		{Identity: domain.Identity{ID: "3", Name: "Nurse Johnson", Email: "nurse@thynkpro.com", Role: domain.RoleNurse, Avatar: "/avatars/nurse.png"}, Secret: DefaultSecret},
		{Identity: domain.Identity{ID: "4", Name: "Patient Doe", Email: "patient@thynkpro.com", Role: domain.RolePatient, Avatar: "/avatars/patient.png"}, Secret: DefaultSecret},
		{Identity: domain.Identity{ID: "5", Name: "Super Admin", Email: "superadmin@thynkpro.com", Role: domain.RoleSuperAdmin, Avatar: "https://randomuser.me/api/portraits/women/55.jpg"}, Secret: DefaultSecret},
	}
}

// LoadRegistryFile parses a YAML registry. Entries without an id get a
// random one; every entry must carry a valid role, an email and a secret.
func LoadRegistryFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry is LoadRegistryFile without the file read.
func ParseRegistry(data []byte) ([]Entry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Principals))
	for i := range file.Principals {
		e := &file.Principals[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("registry entry %d: %w", i, err)
		}
		if e.Secret == "" {
			return nil, fmt.Errorf("registry entry %d (%s): missing secret", i, e.Email)
		}
		key := domain.NormalizeEmail(e.Email)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("registry entry %d: %w: %s", i, domain.ErrPrincipalExists, e.Email)
		}
		seen[key] = struct{}{}
	}
	return file.Principals, nil
}

// Registrar stores a principal with a hashed secret.
type Registrar interface {
	Register(ctx context.Context, ident domain.Identity, secret string) (*domain.Principal, error)
}

// Seed registers every entry.
func Seed(ctx context.Context, r Registrar, entries []Entry) error {
	for _, e := range entries {
		if _, err := r.Register(ctx, e.Identity, e.Secret); err != nil {
			return fmt.Errorf("seed %s: %w", e.Email, err)
		}
	}
	return nil
}
