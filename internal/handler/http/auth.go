package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/kintaihub/kintai-backend-go/internal/domain/auth"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/response"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/oauth"
)

const oauthStateCookie = "oauth_state"

type AuthHandler interface {
	LoginWithSlack(w http.ResponseWriter, r *http.Request)
	OAuthCallbackSlack(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService   jwt.Service
	authService  auth.AuthService
	slackService oauth.SlackService
	frontendURL  string
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, slackService oauth.SlackService, frontendURL string) AuthHandler {
	return &authHandlerImpl{
		jwtService:   jwtService,
		authService:  authService,
		slackService: slackService,
		frontendURL:  frontendURL,
	}
}

// LoginWithSlack implements AuthHandler.
func (h *authHandlerImpl) LoginWithSlack(w http.ResponseWriter, r *http.Request) {
	state := h.slackService.GenerateState(r.UserAgent())
	if state == "" {
		response.InternalServerError(w, "Failed to generate OAuth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.slackService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackSlack implements AuthHandler.
func (h *authHandlerImpl) OAuthCallbackSlack(w http.ResponseWriter, r *http.Request) {
	// Helper function to redirect to frontend with error
	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/callback/slack?error=%s", h.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" {
		slog.Error("State cookie not found", "error", auth.ErrInvalidState)
		redirectWithError("state_cookie_not_found")
		return
	}

	if errorValue := r.URL.Query().Get("error"); errorValue != "" {
		slog.Error("Error in OAuth callback", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		slog.Error("State mismatch", "error", auth.ErrInvalidState)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Error("Code value is empty", "error", auth.ErrOAuthFailed)
		redirectWithError("code_empty")
		return
	}

	token, err := h.slackService.VerifyToken(r.Context(), code)
	if err != nil {
		slog.Error("Failed to verify token", "error", err)
		redirectWithError("token_verification_failed")
		return
	}

	identity, err := h.slackService.VerifyUser(r.Context(), token)
	if err != nil {
		slog.Error("Failed to verify user", "error", err)
		redirectWithError("user_verification_failed")
		return
	}

	u, isAdmin, err := h.authService.LoginFromSlack(r.Context(), identity)
	if err != nil {
		slog.Error("Failed to login with Slack", "error", err)
		redirectWithError("login_failed")
		return
	}

	accessToken, expiresAt, err := h.jwtService.GenerateAccessToken(u.ID, u.SlackUserID, isAdmin)
	if err != nil {
		slog.Error("Failed to generate access token", "error", err)
		redirectWithError("token_generation_failed")
		return
	}

	refreshToken, refreshExpiresAt, err := h.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		slog.Error("Failed to generate refresh token", "error", err)
		redirectWithError("token_generation_failed")
		return
	}
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(refreshToken, refreshExpiresAt))

	slog.Info("User logged in successfully via Slack OAuth", "slack_user_id", u.SlackUserID)

	// Redirect to frontend with access token
	redirectURL := fmt.Sprintf("%s/auth/callback/slack?access_token=%s&expires_at=%d",
		h.frontendURL,
		url.QueryEscape(accessToken),
		expiresAt,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// RefreshToken implements AuthHandler.
func (h *authHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if h.jwtService.IsTokenRevoked(cookie.Value) {
		response.HandleError(w, auth.ErrRefreshTokenRevoked)
		return
	}

	token, err := h.jwtService.JWTAuth().Decode(cookie.Value)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	tokenType, _ := token.Get("type")
	if tokenType != "refresh" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	userIDVal, ok := token.Get("user_id")
	userID, isString := userIDVal.(string)
	if !ok || !isString || userID == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	me, err := h.authService.GetMe(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	accessToken, expiresAt, err := h.jwtService.GenerateAccessToken(me.UserID, me.SlackUserID, me.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, auth.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		h.jwtService.RevokeToken(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.SuccessWithMessage(w, "Logged out", nil)
}

// Me implements AuthHandler.
func (h *authHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, err := callerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	me, err := h.authService.GetMe(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}
