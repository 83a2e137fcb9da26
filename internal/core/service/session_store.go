package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// SessionOptions tunes a SessionStore.
type SessionOptions struct {
	// LoginDelay simulates the identity-provider round trip before the
	// credentials are checked. Zero disables it.
	LoginDelay time.Duration
	// Events receives the session audit trail. Nil discards events.
	Events ports.SessionEventSink
	// Now is the clock used for event timestamps. Defaults to time.Now.
	Now func() time.Time
}

// SessionStore is the single source of truth for who is logged in. One
// instance is constructed at process start and handed to every consumer.
type SessionStore struct {
	provider ports.IdentityProvider
	slot     ports.DurableSlot
	codec    ports.IdentityCodec
	opts     SessionOptions
	log      zerolog.Logger

	// commitMu serializes slot writes with the in-memory commit so the
	// slot always mirrors the held identity.
	commitMu sync.Mutex

	mu      sync.RWMutex
	current *domain.Identity
}

var _ ports.SessionService = (*SessionStore)(nil)

// NewSessionStore wires a store. The store starts logged out; call Restore
// once at startup to pick up a persisted identity.
func NewSessionStore(
	provider ports.IdentityProvider,
	slot ports.DurableSlot,
	codec ports.IdentityCodec,
	opts SessionOptions,
	log zerolog.Logger,
) *SessionStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionStore{
		provider: provider,
		slot:     slot,
		codec:    codec,
		opts:     opts,
		log:      log,
	}
}

// Login authenticates the pair and, on success, persists and holds the
// identity. Wrong or unknown credentials report false with a nil error and
// leave the session untouched; a non-nil error means the provider or the
// slot failed.
func (s *SessionStore) Login(ctx context.Context, email, secret string) (bool, error) {
	creds := domain.Credentials{Email: email, Secret: secret}
	if creds.Empty() {
		s.emit(domain.EventLoginFailed, email, "", "empty credentials")
		return false, nil
	}

	if s.opts.LoginDelay > 0 {
		timer := time.NewTimer(s.opts.LoginDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	ident, err := s.provider.Authenticate(ctx, email, secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Str("email", email).Msg("login rejected")
			s.emit(domain.EventLoginFailed, email, "", "invalid credentials")
			return false, nil
		}
		return false, fmt.Errorf("login: authenticate: %w", err)
	}
	if err := ident.Validate(); err != nil {
		return false, fmt.Errorf("login: provider returned %w", err)
	}

	data, err := s.codec.Encode(*ident)
	if err != nil {
		return false, fmt.Errorf("login: encode identity: %w", err)
	}
	held := *ident
	s.commitMu.Lock()
	if err := s.slot.Set(ctx, data); err != nil {
		s.commitMu.Unlock()
		return false, fmt.Errorf("login: persist session: %w", err)
	}
	s.mu.Lock()
	s.current = &held
	s.mu.Unlock()
	s.commitMu.Unlock()

	s.log.Info().Str("email", held.Email).Str("role", string(held.Role)).Msg("login succeeded")
	s.emit(domain.EventLoginSucceeded, held.Email, held.Role, "")
	return true, nil
}

// Logout drops the identity from memory and from the slot. Logging out
// while logged out is a no-op and never fails. Memory is cleared even if
// the slot clear fails; the slot error is returned when an identity was held.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.commitMu.Lock()
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	err := s.slot.Clear(ctx)
	s.commitMu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("failed to clear session slot")
		if prev == nil {
			return nil
		}
		return fmt.Errorf("logout: clear session: %w", err)
	}

	if prev != nil {
		s.log.Info().Str("email", prev.Email).Msg("logged out")
		s.emit(domain.EventLogout, prev.Email, prev.Role, "")
	}
	return nil
}

// CurrentIdentity returns a copy of the held identity, or nil.
func (s *SessionStore) CurrentIdentity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// IsAuthenticated reports whether an identity is held.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Restore loads the persisted identity, if any. A slot that cannot be
// decoded into a valid identity is cleared and the store stays logged
// out. Restore never fails.
func (s *SessionStore) Restore(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	data, ok, err := s.slot.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session slot unreadable, starting logged out")
		return
	}
	if !ok {
		return
	}

	ident, err := s.decode(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding persisted session")
		if clearErr := s.slot.Clear(ctx); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("failed to clear corrupt session slot")
		}
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		s.emit(domain.EventRestoreDiscarded, "", "", err.Error())
		return
	}

	s.mu.Lock()
	s.current = &ident
	s.mu.Unlock()
	s.log.Info().Str("email", ident.Email).Str("role", string(ident.Role)).Msg("session restored")
	s.emit(domain.EventRestored, ident.Email, ident.Role, "")
}

func (s *SessionStore) decode(data []byte) (domain.Identity, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: empty payload", domain.ErrCorruptSession)
	}
	ident, err := s.codec.Decode(data)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	if err := ident.Validate(); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return ident, nil
}

func (s *SessionStore) emit(kind domain.SessionEventKind, email string, role domain.Role, reason string) {
	if s.opts.Events == nil {
		return
	}
	s.opts.Events.Record(domain.SessionEvent{
		Kind:      kind,
		Email:     email,
		Role:      role,
		Reason:    reason,
		Timestamp: s.opts.Now().UTC(),
	})
}
