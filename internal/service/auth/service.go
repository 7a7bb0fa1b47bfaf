package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kintaihub/kintai-backend-go/internal/domain/auth"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/oauth"
)

type AuthServiceImpl struct {
	userRepo     user.UserRepository
	adminSlackID string
}

func NewAuthService(userRepo user.UserRepository, adminSlackID string) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		adminSlackID: adminSlackID,
	}
}

// LoginFromSlack implements auth.AuthService.
func (s *AuthServiceImpl) LoginFromSlack(ctx context.Context, identity oauth.SlackIdentity) (user.User, bool, error) {
	u, err := s.userRepo.GetBySlackID(ctx, identity.SlackUserID)
	if errors.Is(err, user.ErrUserNotFound) {
		u, err = s.userRepo.Create(ctx, user.User{
			SlackUserID: identity.SlackUserID,
			DisplayName: identity.Name,
			Email:       identity.Email,
		})
	}
	if err != nil {
		return user.User{}, false, fmt.Errorf("failed to resolve slack user: %w", err)
	}

	return u, s.IsAdmin(u.SlackUserID), nil
}

// GetMe implements auth.AuthService.
func (s *AuthServiceImpl) GetMe(ctx context.Context, userID string) (auth.MeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.MeResponse{}, err
	}

	return auth.MeResponse{
		UserID:      u.ID,
		SlackUserID: u.SlackUserID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		IsAdmin:     s.IsAdmin(u.SlackUserID),
	}, nil
}

// IsAdmin implements auth.AuthService.
func (s *AuthServiceImpl) IsAdmin(slackUserID string) bool {
	return s.adminSlackID != "" && slackUserID == s.adminSlackID
}
