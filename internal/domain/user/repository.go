package user

import "context"

// UserRepository defines data access methods for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by internal ID.
	GetByID(ctx context.Context, id string) (User, error)

	// GetBySlackID retrieves a user by Slack user ID.
	GetBySlackID(ctx context.Context, slackUserID string) (User, error)

	// List retrieves all users.
	List(ctx context.Context) ([]User, error)
}
