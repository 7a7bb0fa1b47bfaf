package user

import "time"

// User is a chat-platform account known to the tracker. Accounts are created
// lazily on the first bot punch or the first web login.
type User struct {
	ID          string
	SlackUserID string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}
