package attendance

import (
	"context"
	"time"
)

// EventRepository defines data access methods for attendance events.
type EventRepository interface {
	// Create persists a new attendance event.
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves an event by ID.
	GetByID(ctx context.Context, id string) (Event, error)

	// ListByUser retrieves a user's events with filters and pagination,
	// joined with the owner's display name.
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Event, int64, error)

	// ListAll retrieves events for every user with filters and pagination
	// (admin view).
	ListAll(ctx context.Context, filter ListFilter) ([]Event, int64, error)

	// HistoryByUser retrieves a user's full event history ordered ascending
	// by timestamp. Input to the pairing engine.
	HistoryByUser(ctx context.Context, userID string) ([]Event, error)

	// HistorySince retrieves all users' events with timestamp >= since,
	// ordered ascending by timestamp. Input to the overall statistics
	// computation, which is bounded to a trailing window.
	HistorySince(ctx context.Context, since time.Time) ([]Event, error)

	// Update updates an existing event's kind and/or timestamp.
	Update(ctx context.Context, event Event) (Event, error)

	// Delete removes an event.
	Delete(ctx context.Context, id string) error
}
