package ports

import (
	"context"

	"github.com/thynkpro/portal/internal/core/domain"
)

// DurableSlot is a single named key surviving process restarts. Only the
// session store reads or writes it.
type DurableSlot interface {
	// Get returns the stored bytes and whether the slot is occupied.
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, data []byte) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}

// IdentityCodec serializes identities for the durable slot.
// Decode(Encode(i)) must equal i for every valid identity.
type IdentityCodec interface {
	Encode(ident domain.Identity) ([]byte, error)
	Decode(data []byte) (domain.Identity, error)
}

// SessionEventSink receives session audit events. Record must not block.
type SessionEventSink interface {
	Record(event domain.SessionEvent)
}
