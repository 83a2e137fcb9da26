package ports

import (
	"context"

	"github.com/thynkpro/portal/internal/core/domain"
)

// EventRepository persists the session audit trail.
type EventRepository interface {
	// InsertEvent appends one event to the session_events collection.
	InsertEvent(ctx context.Context, event *domain.SessionEvent) error
}
