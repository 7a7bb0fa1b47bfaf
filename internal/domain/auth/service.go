package auth

import (
	"context"

	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/oauth"
)

// AuthService defines business logic for Slack-based login.
type AuthService interface {
	// LoginFromSlack resolves a verified Slack identity into a local user,
	// creating one on first login, and reports whether the user is the
	// configured administrator.
	LoginFromSlack(ctx context.Context, identity oauth.SlackIdentity) (user.User, bool, error)

	// GetMe returns the authenticated user's profile.
	GetMe(ctx context.Context, userID string) (MeResponse, error)

	// IsAdmin reports whether the Slack user ID is the configured admin.
	IsAdmin(slackUserID string) bool
}
