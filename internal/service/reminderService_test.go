package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/timezone"
)

type fakeReminderRepo struct {
	reminders map[string]*entity.Reminder

	conflict    *entity.Reminder
	conflictErr error

	cleanupCount   int64
	cleanupWindow  time.Duration
	lastPatch      *entity.ReminderPatch
	deletedIDs     []string
	insertErr      error
	insertedLastID string
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: make(map[string]*entity.Reminder)}
}

func (f *fakeReminderRepo) Insert(ctx context.Context, r *entity.Reminder) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.reminders[r.ID] = r
	f.insertedLastID = r.ID
	return nil
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, id string) (*entity.Reminder, error) {
	r, ok := f.reminders[id]
	if !ok {
		return nil, entity.ErrReminderNotFound
	}
	return r, nil
}

func (f *fakeReminderRepo) GetDue(ctx context.Context, now time.Time, batch int) ([]*entity.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) GetUserReminders(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error) {
	var out []*entity.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) GetAllActive(ctx context.Context, limit int) ([]*entity.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) GetDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, id string, patch *entity.ReminderPatch) error {
	if _, ok := f.reminders[id]; !ok {
		return entity.ErrReminderNotFound
	}
	f.lastPatch = patch
	return nil
}

func (f *fakeReminderRepo) MarkCompleted(ctx context.Context, id string, note string, now time.Time) error {
	return nil
}

func (f *fakeReminderRepo) Delete(ctx context.Context, id string) error {
	delete(f.reminders, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeReminderRepo) CleanupCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.cleanupWindow = olderThan
	return f.cleanupCount, nil
}

func (f *fakeReminderRepo) CheckConflict(ctx context.Context, userID string, due time.Time, window time.Duration) (*entity.Reminder, error) {
	if f.conflictErr != nil {
		return nil, f.conflictErr
	}
	return f.conflict, nil
}

type staticPreferenceRepo struct{ zone string }

func (s *staticPreferenceRepo) GetUserTimezone(ctx context.Context, userID string) (string, error) {
	return s.zone, nil
}

func (s *staticPreferenceRepo) SetUserTimezone(ctx context.Context, userID, zone string) error {
	s.zone = zone
	return nil
}

type noopPreferenceCache struct{}

func (noopPreferenceCache) GetUserTimezone(ctx context.Context, userID string) (string, bool) {
	return "", false
}
func (noopPreferenceCache) SetUserTimezone(ctx context.Context, userID, zone string)  {}
func (noopPreferenceCache) InvalidateUserTimezone(ctx context.Context, userID string) {}

func newTestService(zone string) (ReminderService, *fakeReminderRepo) {
	repo := newFakeReminderRepo()
	registry := timezone.NewRegistry(&staticPreferenceRepo{zone: zone}, noopPreferenceCache{})
	return NewReminderService(repo, registry), repo
}

func TestCreateParsesRawInUserZone(t *testing.T) {
	svc, repo := newTestService("America/La_Paz")

	result, err := svc.Create(context.Background(), &CreateInput{
		UserID:    "user-1",
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		Raw:       "in 2 hours take pills",
	})
	require.NoError(t, err)

	r := result.Reminder
	assert.Equal(t, "take pills", r.Text)
	assert.Equal(t, "America/La_Paz", r.Timezone)
	assert.Equal(t, entity.StatusActive, r.Status)
	assert.True(t, strings.HasPrefix(r.ID, "user-1_"))
	assert.Equal(t, time.UTC, r.Due.Location())
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), r.Due, 5*time.Second)

	stored, err := repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, stored)
}

func TestCreateWithPreParsedDue(t *testing.T) {
	svc, _ := newTestService("UTC")

	due := time.Now().Add(time.Hour)
	result, err := svc.Create(context.Background(), &CreateInput{
		UserID:    "user-1",
		Due:       due,
		Text:      "water plants",
		Recurring: entity.RecurringDaily,
	})
	require.NoError(t, err)
	assert.True(t, result.Reminder.Due.Equal(due.UTC()))
	assert.Equal(t, entity.RecurringDaily, result.Reminder.Recurring)
}

func TestCreateRejections(t *testing.T) {
	svc, _ := newTestService("UTC")
	ctx := context.Background()

	tests := []struct {
		name    string
		input   *CreateInput
		wantErr error
	}{
		{
			name:    "unparsable time",
			input:   &CreateInput{UserID: "u", Raw: "hello world"},
			wantErr: entity.ErrUnparsableTime,
		},
		{
			name:    "pre-parsed due in the past",
			input:   &CreateInput{UserID: "u", Due: time.Now().Add(-time.Hour), Text: "x"},
			wantErr: entity.ErrTimeInPast,
		},
		{
			name:    "no message text",
			input:   &CreateInput{UserID: "u", Raw: "in 2 hours"},
			wantErr: entity.ErrEmptyText,
		},
		{
			name:    "text over the cap",
			input:   &CreateInput{UserID: "u", Due: time.Now().Add(time.Hour), Text: strings.Repeat("a", entity.MaxReminderTextLen+1)},
			wantErr: entity.ErrTextTooLong,
		},
		{
			name:    "bad recurrence",
			input:   &CreateInput{UserID: "u", Due: time.Now().Add(time.Hour), Text: "x", Recurring: "hourly"},
			wantErr: entity.ErrInvalidRecurring,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateConflictIsAdvisory(t *testing.T) {
	svc, repo := newTestService("UTC")
	ctx := context.Background()

	repo.conflict = &entity.Reminder{ID: "existing", Text: "other thing"}
	result, err := svc.Create(ctx, &CreateInput{UserID: "u", Due: time.Now().Add(time.Hour), Text: "x"})
	require.NoError(t, err)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, "existing", result.Conflict.ID)

	// A failing conflict check never blocks creation.
	repo.conflict = nil
	repo.conflictErr = errors.New("db down")
	result, err = svc.Create(ctx, &CreateInput{UserID: "u", Due: time.Now().Add(time.Hour), Text: "x"})
	require.NoError(t, err)
	assert.Nil(t, result.Conflict)
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo := newTestService("UTC")
	ctx := context.Background()

	repo.reminders["r1"] = &entity.Reminder{ID: "r1", UserID: "owner", Status: entity.StatusActive}

	err := svc.Delete(ctx, "r1", "someone-else", false)
	assert.ErrorIs(t, err, entity.ErrNotOwner)
	assert.Empty(t, repo.deletedIDs)

	err = svc.Delete(ctx, "r1", "someone-else", true) // admin bypass
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, repo.deletedIDs)

	err = svc.Delete(ctx, "missing", "owner", false)
	assert.ErrorIs(t, err, entity.ErrReminderNotFound)
}

func TestSnoozeReactivates(t *testing.T) {
	svc, repo := newTestService("UTC")
	ctx := context.Background()

	repo.reminders["r1"] = &entity.Reminder{
		ID:          "r1",
		UserID:      "owner",
		Status:      entity.StatusActive,
		Undelivered: true,
		FailedTicks: 3,
	}

	reminder, err := svc.Snooze(ctx, "r1", "owner", false, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), reminder.Due, 5*time.Second)

	patch := repo.lastPatch
	require.NotNil(t, patch)
	assert.Equal(t, entity.StatusActive, *patch.Status)
	assert.False(t, *patch.Undelivered)
	assert.Zero(t, *patch.FailedTicks)
}

func TestSetPausedOnCompleted(t *testing.T) {
	svc, repo := newTestService("UTC")
	ctx := context.Background()

	repo.reminders["r1"] = &entity.Reminder{ID: "r1", UserID: "owner", Status: entity.StatusCompleted}

	err := svc.SetPaused(ctx, "r1", "owner", false, true)
	assert.ErrorIs(t, err, entity.ErrReminderNotFound)
}

func TestEditTextSanitizes(t *testing.T) {
	svc, repo := newTestService("UTC")
	ctx := context.Background()

	repo.reminders["r1"] = &entity.Reminder{ID: "r1", UserID: "owner", Status: entity.StatusActive}

	err := svc.EditText(ctx, "r1", "owner", false, "  new --- text\t ")
	require.NoError(t, err)
	require.NotNil(t, repo.lastPatch)
	assert.Equal(t, "new - text", *repo.lastPatch.Text)

	err = svc.EditText(ctx, "r1", "owner", false, "   ")
	assert.ErrorIs(t, err, entity.ErrEmptyText)
}

func TestCleanupWindow(t *testing.T) {
	svc, repo := newTestService("UTC")
	repo.cleanupCount = 7

	count, err := svc.Cleanup(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, 14*24*time.Hour, repo.cleanupWindow)

	// Non-positive days fall back to the default retention.
	_, err = svc.Cleanup(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, repo.cleanupWindow)
}
