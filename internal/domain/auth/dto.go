package auth

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type MeResponse struct {
	UserID      string `json:"user_id"`
	SlackUserID string `json:"slack_user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"is_admin"`
}
