package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, slack_user_id, display_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, slack_user_id, display_name, email, created_at
	`

	var created user.User
	err := q.QueryRow(ctx, query, uuid.NewString(), u.SlackUserID, u.DisplayName, u.Email).Scan(
		&created.ID,
		&created.SlackUserID,
		&created.DisplayName,
		&created.Email,
		&created.CreatedAt,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, slack_user_id, display_name, email, created_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.SlackUserID,
		&u.DisplayName,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

// GetBySlackID implements user.UserRepository.
func (r *userRepositoryImpl) GetBySlackID(ctx context.Context, slackUserID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, slack_user_id, display_name, email, created_at
		FROM users
		WHERE slack_user_id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, slackUserID).Scan(
		&u.ID,
		&u.SlackUserID,
		&u.DisplayName,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by slack id: %w", err)
	}

	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, slack_user_id, display_name, email, created_at
		FROM users
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.SlackUserID, &u.DisplayName, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
