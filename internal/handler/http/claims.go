package http

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// callerFromContext extracts the authenticated caller's identity from the
// verified JWT claims.
func callerFromContext(ctx context.Context) (userID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false, fmt.Errorf("user_id claim is missing or invalid")
	}

	isAdmin, _ = claims["is_admin"].(bool)
	return userID, isAdmin, nil
}
