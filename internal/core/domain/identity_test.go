package domain

import (
	"errors"
	"testing"
)

func TestNewIdentity_RejectsInvalidRole(t *testing.T) {
	if _, err := NewIdentity("9", "Ghost", "ghost@thynkpro.com", "", ""); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for empty role, got %v", err)
	}
	if _, err := NewIdentity("9", "Ghost", "ghost@thynkpro.com", Role("janitor"), ""); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
}

func TestNewIdentity_RequiresIDAndEmail(t *testing.T) {
	if _, err := NewIdentity("", "Ghost", "ghost@thynkpro.com", RoleNurse, ""); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity for missing id, got %v", err)
	}
	if _, err := NewIdentity("9", "Ghost", " ", RoleNurse, ""); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity for missing email, got %v", err)
	}
}

func TestNewIdentity_AvatarOptional(t *testing.T) {
	ident, err := NewIdentity("3", "Nurse Johnson", "nurse@thynkpro.com", RoleNurse, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.Avatar != "" || ident.Role != RoleNurse {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles() {
		got, err := ParseRole(string(r))
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %q, %v", r, got, err)
		}
	}
	if _, err := ParseRole("Admin"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected case-sensitive rejection, got %v", err)
	}
}

func TestRoleSet(t *testing.T) {
	var none RoleSet
	if !none.Empty() || none.Contains(RoleAdmin) {
		t.Fatalf("zero RoleSet should be empty")
	}
	set := NewRoleSet(RoleNurse, RoleAdmin, RoleNurse)
	if set.Empty() || !set.Contains(RoleNurse) || set.Contains(RoleDoctor) {
		t.Fatalf("unexpected membership: %v", set)
	}
	roles := set.Roles()
	if len(roles) != 2 || roles[0] != RoleAdmin || roles[1] != RoleNurse {
		t.Fatalf("unexpected order: %v", roles)
	}
}

func TestCredentialsEmpty(t *testing.T) {
	if !(Credentials{Email: "a@b.c", Secret: "  "}).Empty() {
		t.Fatalf("blank secret should count as empty")
	}
	if (Credentials{Email: "a@b.c", Secret: "x"}).Empty() {
		t.Fatalf("full pair should not be empty")
	}
}
