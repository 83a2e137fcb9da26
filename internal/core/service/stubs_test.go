package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/thynkpro/portal/internal/core/domain"
)

const testSecret = "password123"

func testIdentities() []domain.Identity {
	return []domain.Identity{
		{ID: "1", Name: "Admin User", Email: "admin@thynkpro.com", Role: domain.RoleAdmin, Avatar: "https://randomuser.me/api/portraits/women/55.jpg"},
		{ID: "2", Name: "Doctor Smith", Email: "doctor@thynkpro.com", Role: domain.RoleDoctor, Avatar: "/avatars/doctor.png"},
		{ID: "3", Name: "Nurse Johnson", Email: "nurse@thynkpro.com", Role: domain.RoleNurse, Avatar: "/avatars/nurse.png"},
		{ID: "4", Name: "Patient Doe", Email: "patient@thynkpro.com", Role: domain.RolePatient, Avatar: "/avatars/patient.png"},
		{ID: "5", Name: "Super Admin", Email: "superadmin@thynkpro.com", Role: domain.RoleSuperAdmin},
	}
}

// memorySlot is an in-memory DurableSlot that counts writes.
type memorySlot struct {
	mu       sync.Mutex
	data     []byte
	ok       bool
	sets     int
	clears   int
	getErr   error
	setErr   error
	clearErr error
}

func (s *memorySlot) Get(context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	return append([]byte(nil), s.data...), s.ok, nil
}

func (s *memorySlot) Set(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.data = append([]byte(nil), data...)
	s.ok = true
	return nil
}

func (s *memorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.clears++
	s.data = nil
	s.ok = false
	return nil
}

func (s *memorySlot) occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ok
}

type jsonCodec struct{}

func (jsonCodec) Encode(ident domain.Identity) ([]byte, error) {
	return json.Marshal(ident)
}

func (jsonCodec) Decode(data []byte) (domain.Identity, error) {
	var ident domain.Identity
	err := json.Unmarshal(data, &ident)
	return ident, err
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (r *recordingSink) Record(e domain.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) kinds() []domain.SessionEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SessionEventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// stubProvider answers from a fixed map and can be forced to fail.
type stubProvider struct {
	identities map[string]domain.Identity
	err        error
	calls      int
}

func (p *stubProvider) Authenticate(_ context.Context, email, secret string) (*domain.Identity, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	ident, ok := p.identities[domain.NormalizeEmail(email)]
	if !ok || secret != testSecret {
		return nil, domain.ErrInvalidCredentials
	}
	return &ident, nil
}

var errBoom = errors.New("boom")
