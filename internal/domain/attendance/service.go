package attendance

import (
	"context"
)

// EventService defines business logic for attendance punches.
type EventService interface {
	// RecordCheckIn records a check-in punch for the Slack user, creating
	// the user on first contact.
	RecordCheckIn(ctx context.Context, slackUserID string) (EventResponse, error)

	// RecordCheckOut records a check-out punch for the Slack user.
	RecordCheckOut(ctx context.Context, slackUserID string) (EventResponse, error)

	// GetEvent retrieves a single punch. Non-admin callers may only read
	// their own.
	GetEvent(ctx context.Context, id string, callerID string, isAdmin bool) (EventResponse, error)

	// GetMyEvents retrieves punches for the authenticated user.
	GetMyEvents(ctx context.Context, userID string, filter ListFilter) (ListEventsResponse, error)

	// ListEvents retrieves punches across all users (admin).
	ListEvents(ctx context.Context, filter ListFilter) (ListEventsResponse, error)

	// UpdateEvent updates a punch. Non-admin callers may only touch their own.
	UpdateEvent(ctx context.Context, req UpdateEventRequest, callerID string, isAdmin bool) (EventResponse, error)

	// DeleteEvent removes a punch. Non-admin callers may only touch their own.
	DeleteEvent(ctx context.Context, id string, callerID string, isAdmin bool) error
}
