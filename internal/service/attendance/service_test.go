package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintaihub/kintai-backend-go/internal/domain/attendance"
	"github.com/kintaihub/kintai-backend-go/internal/domain/user"
)

var testJST = time.FixedZone("JST", 9*60*60)

type fakeUserRepo struct {
	users  map[string]user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetBySlackID(ctx context.Context, slackUserID string) (user.User, error) {
	for _, u := range r.users {
		if u.SlackUserID == slackUserID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	result := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeEventRepo struct {
	events     map[string]attendance.Event
	nextID     int
	failCreate bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]attendance.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	if r.failCreate {
		return attendance.Event{}, fmt.Errorf("insert failed")
	}
	r.nextID++
	event.ID = fmt.Sprintf("evt-%d", r.nextID)
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = event
	return event, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return attendance.Event{}, attendance.ErrEventNotFound
	}
	return ev, nil
}

func (r *fakeEventRepo) sorted() []attendance.Event {
	result := make([]attendance.Event, 0, len(r.events))
	for _, ev := range r.events {
		result = append(result, ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result
}

func (r *fakeEventRepo) ListByUser(ctx context.Context, userID string, filter attendance.ListFilter) ([]attendance.Event, int64, error) {
	var result []attendance.Event
	for _, ev := range r.sorted() {
		if ev.UserID == userID {
			result = append(result, ev)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeEventRepo) ListAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.Event, int64, error) {
	result := r.sorted()
	return result, int64(len(result)), nil
}

func (r *fakeEventRepo) HistoryByUser(ctx context.Context, userID string) ([]attendance.Event, error) {
	var result []attendance.Event
	for _, ev := range r.sorted() {
		if ev.UserID == userID {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (r *fakeEventRepo) HistorySince(ctx context.Context, since time.Time) ([]attendance.Event, error) {
	var result []attendance.Event
	for _, ev := range r.sorted() {
		if !ev.Timestamp.Before(since) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	if _, ok := r.events[event.ID]; !ok {
		return attendance.Event{}, attendance.ErrEventNotFound
	}
	event.UpdatedAt = time.Now().UTC()
	r.events[event.ID] = event
	return event, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return attendance.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeProfileFetcher struct {
	names map[string]string
	fail  bool
}

func (f *fakeProfileFetcher) FetchProfile(ctx context.Context, slackUserID string) (string, string, error) {
	if f.fail {
		return "", "", fmt.Errorf("slack api unavailable")
	}
	name, ok := f.names[slackUserID]
	if !ok {
		name = "Unknown"
	}
	return name, strings.ToLower(name) + "@example.com", nil
}

func newTestService(profiles ProfileFetcher) (*EventServiceImpl, *fakeUserRepo, *fakeEventRepo) {
	userRepo := newFakeUserRepo()
	eventRepo := newFakeEventRepo()
	svc := NewEventService(nil, eventRepo, userRepo, profiles, testJST)
	svc.now = func() time.Time { return time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC) }
	return svc, userRepo, eventRepo
}

func TestEventService_RecordCheckIn_CreatesUserOnFirstContact(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	resp, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	assert.Equal(t, attendance.KindCheckIn, resp.Kind)
	assert.Equal(t, "Alice", resp.DisplayName)
	assert.Equal(t, "2026-03-03T09:00:00Z", resp.Timestamp)
	assert.Equal(t, "2026-03-03 18:00:00", resp.LocalTime)

	u, err := userRepo.GetBySlackID(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestEventService_RecordCheckIn_ReusesExistingUser(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	_, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)
	_, err = svc.RecordCheckOut(ctx, "U123")
	require.NoError(t, err)

	users, err := userRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEventService_RecordCheckIn_ProfileFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService(&fakeProfileFetcher{fail: true})

	resp, err := svc.RecordCheckIn(ctx, "U999")
	require.NoError(t, err)
	assert.Equal(t, "User_U999", resp.DisplayName)

	u, err := userRepo.GetBySlackID(ctx, "U999")
	require.NoError(t, err)
	assert.Equal(t, "User_U999", u.DisplayName)
	assert.Empty(t, u.Email)
}

func TestEventService_Record_FailedInsertReturnsError(t *testing.T) {
	ctx := context.Background()
	svc, _, eventRepo := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})
	eventRepo.failCreate = true

	_, err := svc.RecordCheckIn(ctx, "U123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record check_in")
}

func TestEventService_GetMyEvents_Pagination(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	_, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)
	_, err = svc.RecordCheckOut(ctx, "U123")
	require.NoError(t, err)

	_, err = svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	resp, err := svc.GetMyEvents(ctx, "user-1", attendance.ListFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Events, 3)
}

func TestEventService_GetMyEvents_InvalidFilter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{})

	badKind := "lunch"
	_, err := svc.GetMyEvents(ctx, "user-1", attendance.ListFilter{Kind: &badKind})
	assert.Error(t, err)
}

func TestEventService_GetEvent_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	resp, err := svc.GetEvent(ctx, created.ID, created.UserID, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)

	_, err = svc.GetEvent(ctx, created.ID, "someone-else", false)
	assert.ErrorIs(t, err, attendance.ErrNotOwner)

	_, err = svc.GetEvent(ctx, created.ID, "someone-else", true)
	assert.NoError(t, err)
}

func TestEventService_UpdateEvent_Owner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	kind := string(attendance.KindCheckOut)
	ts := "2026-03-03T10:30:00Z"
	resp, err := svc.UpdateEvent(ctx, attendance.UpdateEventRequest{
		ID:        created.ID,
		Kind:      &kind,
		Timestamp: &ts,
	}, created.UserID, false)
	require.NoError(t, err)

	assert.Equal(t, attendance.KindCheckOut, resp.Kind)
	assert.Equal(t, "2026-03-03T10:30:00Z", resp.Timestamp)
}

func TestEventService_UpdateEvent_NotOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	kind := string(attendance.KindCheckOut)
	_, err = svc.UpdateEvent(ctx, attendance.UpdateEventRequest{
		ID:   created.ID,
		Kind: &kind,
	}, "someone-else", false)
	assert.ErrorIs(t, err, attendance.ErrNotOwner)
}

func TestEventService_UpdateEvent_AdminOverride(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	kind := string(attendance.KindCheckOut)
	resp, err := svc.UpdateEvent(ctx, attendance.UpdateEventRequest{
		ID:   created.ID,
		Kind: &kind,
	}, "admin-user", true)
	require.NoError(t, err)
	assert.Equal(t, attendance.KindCheckOut, resp.Kind)
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{})

	kind := string(attendance.KindCheckOut)
	_, err := svc.UpdateEvent(ctx, attendance.UpdateEventRequest{
		ID:   "missing",
		Kind: &kind,
	}, "user-1", true)
	assert.ErrorIs(t, err, attendance.ErrEventNotFound)
}

func TestEventService_DeleteEvent_Owner(t *testing.T) {
	ctx := context.Background()
	svc, _, eventRepo := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, created.ID, created.UserID, false))

	_, err = eventRepo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrEventNotFound)
}

func TestEventService_DeleteEvent_NotOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&fakeProfileFetcher{names: map[string]string{"U123": "Alice"}})

	created, err := svc.RecordCheckIn(ctx, "U123")
	require.NoError(t, err)

	err = svc.DeleteEvent(ctx, created.ID, "someone-else", false)
	assert.ErrorIs(t, err, attendance.ErrNotOwner)
}
