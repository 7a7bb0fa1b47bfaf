package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
	"github.com/kintaihub/kintai-backend-go/internal/repository/postgresql"
)

// ProfileFetcher resolves a Slack user ID into profile information. Backed by
// the Slack Web API in production.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, slackUserID string) (displayName string, email string, err error)
}

type EventServiceImpl struct {
	db        *database.DB
	eventRepo attendance.EventRepository
	userRepo  user.UserRepository
	profiles  ProfileFetcher
	loc       *time.Location
	now       func() time.Time
}

func NewEventService(db *database.DB, eventRepo attendance.EventRepository, userRepo user.UserRepository, profiles ProfileFetcher, loc *time.Location) *EventServiceImpl {
	return &EventServiceImpl{
		db:        db,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		profiles:  profiles,
		loc:       loc,
		now:       time.Now,
	}
}

// RecordCheckIn implements attendance.EventService.
func (s *EventServiceImpl) RecordCheckIn(ctx context.Context, slackUserID string) (attendance.EventResponse, error) {
	return s.record(ctx, slackUserID, attendance.KindCheckIn)
}

// RecordCheckOut implements attendance.EventService.
func (s *EventServiceImpl) RecordCheckOut(ctx context.Context, slackUserID string) (attendance.EventResponse, error) {
	return s.record(ctx, slackUserID, attendance.KindCheckOut)
}

// record creates the user (on first contact) and the punch as one
// transactional unit, so a failed insert never leaves a half-registered user.
func (s *EventServiceImpl) record(ctx context.Context, slackUserID string, kind attendance.Kind) (attendance.EventResponse, error) {
	var resp attendance.EventResponse

	err := s.inTx(ctx, func(ctx context.Context) error {
		u, err := s.getOrCreateUser(ctx, slackUserID)
		if err != nil {
			return err
		}

		created, err := s.eventRepo.Create(ctx, attendance.Event{
			UserID:    u.ID,
			Kind:      kind,
			Timestamp: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", kind, err)
		}

		created.DisplayName = &u.DisplayName
		resp = s.toResponse(created)
		return nil
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	return resp, nil
}

// inTx runs fn inside a database transaction, exposing it to the repositories
// through the context. Without a configured pool fn runs as-is.
func (s *EventServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// getOrCreateUser registers a Slack user on first contact. A profile lookup
// failure falls back to a placeholder name so the punch is never lost.
func (s *EventServiceImpl) getOrCreateUser(ctx context.Context, slackUserID string) (user.User, error) {
	u, err := s.userRepo.GetBySlackID(ctx, slackUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, err
	}

	displayName, email, err := s.profiles.FetchProfile(ctx, slackUserID)
	if err != nil {
		slog.Error("Failed to fetch slack profile", "slack_user_id", slackUserID, "error", err)
		displayName = "User_" + slackUserID
		email = ""
	}

	return s.userRepo.Create(ctx, user.User{
		SlackUserID: slackUserID,
		DisplayName: displayName,
		Email:       email,
	})
}

// GetEvent implements attendance.EventService.
func (s *EventServiceImpl) GetEvent(ctx context.Context, id string, callerID string, isAdmin bool) (attendance.EventResponse, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	if ev.UserID != callerID && !isAdmin {
		return attendance.EventResponse{}, attendance.ErrNotOwner
	}

	return s.toResponse(ev), nil
}

// GetMyEvents implements attendance.EventService.
func (s *EventServiceImpl) GetMyEvents(ctx context.Context, userID string, filter attendance.ListFilter) (attendance.ListEventsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventsResponse{}, err
	}

	events, total, err := s.eventRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListEventsResponse{}, fmt.Errorf("failed to list events: %w", err)
	}

	return s.toListResponse(events, total, filter), nil
}

// ListEvents implements attendance.EventService.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filter attendance.ListFilter) (attendance.ListEventsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventsResponse{}, err
	}

	events, total, err := s.eventRepo.ListAll(ctx, filter)
	if err != nil {
		return attendance.ListEventsResponse{}, fmt.Errorf("failed to list events: %w", err)
	}

	return s.toListResponse(events, total, filter), nil
}

// UpdateEvent implements attendance.EventService.
func (s *EventServiceImpl) UpdateEvent(ctx context.Context, req attendance.UpdateEventRequest, callerID string, isAdmin bool) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	existing, err := s.eventRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	if existing.UserID != callerID && !isAdmin {
		return attendance.EventResponse{}, attendance.ErrNotOwner
	}

	if req.Kind != nil {
		existing.Kind = attendance.Kind(*req.Kind)
	}
	if req.Timestamp != nil {
		ts, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			return attendance.EventResponse{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		existing.Timestamp = ts.UTC()
	}

	updated, err := s.eventRepo.Update(ctx, existing)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to update event: %w", err)
	}

	updated.DisplayName = existing.DisplayName
	return s.toResponse(updated), nil
}

// DeleteEvent implements attendance.EventService.
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id string, callerID string, isAdmin bool) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID != callerID && !isAdmin {
		return attendance.ErrNotOwner
	}

	return s.eventRepo.Delete(ctx, id)
}

func (s *EventServiceImpl) toResponse(ev attendance.Event) attendance.EventResponse {
	resp := attendance.EventResponse{
		ID:        ev.ID,
		UserID:    ev.UserID,
		Kind:      ev.Kind,
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
		LocalTime: ev.Timestamp.In(s.loc).Format("2006-01-02 15:04:05"),
		CreatedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: ev.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if ev.DisplayName != nil {
		resp.DisplayName = *ev.DisplayName
	}
	return resp
}

func (s *EventServiceImpl) toListResponse(events []attendance.Event, total int64, filter attendance.ListFilter) attendance.ListEventsResponse {
	responses := make([]attendance.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, s.toResponse(ev))
	}

	return attendance.ListEventsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Events:     responses,
	}
}
