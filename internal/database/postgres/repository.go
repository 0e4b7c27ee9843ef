package repository

import (
	"context"
	"time"

	"github.com/modbot/remindersvc/internal/entity"
)

// ReminderRepository is the durable CRUD surface over reminder records.
type ReminderRepository interface {
	Insert(ctx context.Context, reminder *entity.Reminder) error
	GetByID(ctx context.Context, id string) (*entity.Reminder, error)
	// GetDue returns active reminders with due <= now, ordered by (due, id),
	// at most batch rows.
	GetDue(ctx context.Context, now time.Time, batch int) ([]*entity.Reminder, error)
	GetUserReminders(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error)
	GetAllActive(ctx context.Context, limit int) ([]*entity.Reminder, error)
	GetDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error)
	Update(ctx context.Context, id string, patch *entity.ReminderPatch) error
	MarkCompleted(ctx context.Context, id string, note string, now time.Time) error
	Delete(ctx context.Context, id string) error
	CleanupCompleted(ctx context.Context, olderThan time.Duration) (int64, error)
	// CheckConflict reports any active reminder of the user within ±window
	// of due; advisory only, never blocks creation.
	CheckConflict(ctx context.Context, userID string, due time.Time, window time.Duration) (*entity.Reminder, error)
}

// SettingsRepository persists user timezone preferences and guild configs.
type SettingsRepository interface {
	GetUserTimezone(ctx context.Context, userID string) (string, error)
	SetUserTimezone(ctx context.Context, userID, zone string) error
	GetGuildConfig(ctx context.Context, guildID string) (*entity.GuildConfig, error)
	UpsertGuildConfig(ctx context.Context, cfg *entity.GuildConfig) error
}
