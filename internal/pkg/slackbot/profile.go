package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// ProfileFetcher resolves Slack user profiles through the Web API.
type ProfileFetcher struct {
	api *slack.Client
}

func NewProfileFetcher(api *slack.Client) *ProfileFetcher {
	return &ProfileFetcher{api: api}
}

func (f *ProfileFetcher) FetchProfile(ctx context.Context, slackUserID string) (string, string, error) {
	user, err := f.api.GetUserInfoContext(ctx, slackUserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch slack user info: %w", err)
	}

	name := user.Profile.DisplayName
	if name == "" {
		name = user.RealName
	}
	if name == "" {
		name = user.Name
	}

	return name, user.Profile.Email, nil
}
