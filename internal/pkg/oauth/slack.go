package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
)

// slackEndpoint is Slack's OAuth 2.0 (v2) endpoint pair.
var slackEndpoint = oauth2.Endpoint{
	AuthURL:  "https://slack.com/oauth/v2/authorize",
	TokenURL: "https://slack.com/api/oauth.v2.access",
}

type SlackService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState(userAgent string) string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// VerifyToken exchanges the code for an OAuth2 token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches and verifies the Slack user identity.
	VerifyUser(ctx context.Context, token *oauth2.Token) (SlackIdentity, error)
}

type SlackServiceImpl struct {
	config *oauth2.Config
}

func NewSlackService(clientID string, clientSecret string, redirectURL string, scopes []string) SlackService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     slackEndpoint,
	}
	return &SlackServiceImpl{config: config}
}

type SlackIdentity struct {
	SlackUserID string
	Name        string
	Email       string
}

// identityResponse mirrors Slack's users.identity payload.
type identityResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// GenerateState generates a random state string for OAuth2 flows.
func (s *SlackServiceImpl) GenerateState(userAgent string) string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	state := fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(b), userAgent)
	return base64.URLEncoding.EncodeToString([]byte(state))
}

func (s *SlackServiceImpl) RedirectURL(state string) string {
	return s.config.AuthCodeURL(state)
}

func (s *SlackServiceImpl) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return &oauth2.Token{}, err
	}
	return token, nil
}

func (s *SlackServiceImpl) VerifyUser(ctx context.Context, token *oauth2.Token) (SlackIdentity, error) {
	var resp identityResponse

	client := s.config.Client(ctx, token)

	res, err := client.Get("https://slack.com/api/users.identity")
	if err != nil {
		return SlackIdentity{}, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SlackIdentity{}, err
	}

	if !resp.OK {
		return SlackIdentity{}, fmt.Errorf("slack users.identity failed: %s", resp.Error)
	}

	return SlackIdentity{
		SlackUserID: resp.User.ID,
		Name:        resp.User.Name,
		Email:       resp.User.Email,
	}, nil
}
