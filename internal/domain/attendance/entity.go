package attendance

import (
	"time"
)

// Kind is the event type of an attendance punch.
type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

func (k Kind) Valid() bool {
	return k == KindCheckIn || k == KindCheckOut
}

// Event is a single check-in or check-out punch. Timestamps are stored in
// UTC; projection into the display timezone happens only when bucketing or
// formatting.
type Event struct {
	ID        string
	UserID    string
	Kind      Kind
	Timestamp time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	DisplayName *string
}
