package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Create implements attendance.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (id, user_id, kind, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, kind, timestamp, created_at, updated_at
	`

	var created attendance.Event
	err := q.QueryRow(ctx, query, uuid.NewString(), event.UserID, event.Kind, event.Timestamp).Scan(
		&created.ID,
		&created.UserID,
		&created.Kind,
		&created.Timestamp,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.user_id, e.kind, e.timestamp, e.created_at, e.updated_at, u.display_name
		FROM attendance_events e
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1
	`

	var ev attendance.Event
	err := q.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.UserID, &ev.Kind, &ev.Timestamp, &ev.CreatedAt, &ev.UpdatedAt, &ev.DisplayName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance event: %w", err)
	}

	return ev, nil
}

// ListByUser implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListByUser(ctx context.Context, userID string, filter attendance.ListFilter) ([]attendance.Event, int64, error) {
	conditions := []string{"e.user_id = $1"}
	args := []interface{}{userID}
	return r.list(ctx, filter, conditions, args)
}

// ListAll implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.Event, int64, error) {
	return r.list(ctx, filter, nil, nil)
}

func (r *eventRepositoryImpl) list(ctx context.Context, filter attendance.ListFilter, conditions []string, args []interface{}) ([]attendance.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		conditions = append(conditions, fmt.Sprintf("e.kind = $%d", len(args)))
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("e.timestamp >= $%d::date", len(args)))
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("e.timestamp < $%d::date + interval '1 day'", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendance_events e %s`, where)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT e.id, e.user_id, e.kind, e.timestamp, e.created_at, e.updated_at, u.display_name
		FROM attendance_events e
		JOIN users u ON u.id = e.user_id
		%s
		ORDER BY e.timestamp %s
		LIMIT $%d OFFSET $%d
	`, where, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var ev attendance.Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Kind, &ev.Timestamp, &ev.CreatedAt, &ev.UpdatedAt, &ev.DisplayName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	return events, total, rows.Err()
}

// HistoryByUser implements attendance.EventRepository.
func (r *eventRepositoryImpl) HistoryByUser(ctx context.Context, userID string) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, timestamp, created_at, updated_at
		FROM attendance_events
		WHERE user_id = $1
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// HistorySince implements attendance.EventRepository.
func (r *eventRepositoryImpl) HistorySince(ctx context.Context, since time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, timestamp, created_at, updated_at
		FROM attendance_events
		WHERE timestamp >= $1
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Update implements attendance.EventRepository.
func (r *eventRepositoryImpl) Update(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_events
		SET kind = $1, timestamp = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, user_id, kind, timestamp, created_at, updated_at
	`

	var updated attendance.Event
	err := q.QueryRow(ctx, query, event.Kind, event.Timestamp, event.ID).Scan(
		&updated.ID,
		&updated.UserID,
		&updated.Kind,
		&updated.Timestamp,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to update attendance event: %w", err)
	}

	return updated, nil
}

// Delete implements attendance.EventRepository.
func (r *eventRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEventNotFound
	}

	return nil
}

func scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var ev attendance.Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Kind, &ev.Timestamp, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
