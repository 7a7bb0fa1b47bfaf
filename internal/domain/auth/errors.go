package auth

import "errors"

// Auth domain errors
var (
	ErrInvalidToken        = errors.New("invalid or missing token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrOAuthFailed         = errors.New("slack authentication failed")
	ErrInvalidState        = errors.New("oauth state mismatch")
)
