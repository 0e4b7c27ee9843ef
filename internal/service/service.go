package service

import (
	"context"
	"time"

	"github.com/modbot/remindersvc/internal/entity"
)

// ReminderService is the use-case layer over the reminder store. All
// mutations that come from users carry the requester for the ownership
// check; isAdmin bypasses it.
type ReminderService interface {
	Create(ctx context.Context, input *CreateInput) (*CreateResult, error)
	Get(ctx context.Context, id string) (*entity.Reminder, error)
	ListUser(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error)
	Delete(ctx context.Context, id, requesterID string, isAdmin bool) error
	EditText(ctx context.Context, id, requesterID string, isAdmin bool, text string) error
	EditDue(ctx context.Context, id, requesterID string, isAdmin bool, due time.Time) error
	Snooze(ctx context.Context, id, requesterID string, isAdmin bool, d time.Duration) (*entity.Reminder, error)
	SetRecurring(ctx context.Context, id, requesterID string, isAdmin bool, freq string) error
	SetPaused(ctx context.Context, id, requesterID string, isAdmin bool, paused bool) error

	// Admin surface
	ListAllActive(ctx context.Context, limit int) ([]*entity.Reminder, error)
	ListDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error)
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

// CreateInput is one reminder creation: raw user input, to be parsed in the
// owner's timezone.
type CreateInput struct {
	UserID    string
	GuildID   string
	ChannelID string
	// Raw is the full "time and text" string ("in 2 hours take pills").
	Raw string
	// Due and Text are the pre-parsed alternative used by the HTTP API.
	Due  time.Time
	Text string

	Recurring string
}

type CreateResult struct {
	Reminder *entity.Reminder
	// Conflict is an advisory: another active reminder within ±5 minutes.
	Conflict *entity.Reminder
	Timezone string
}

// GuildService is the read-through guild configuration cache.
type GuildService interface {
	GetConfig(ctx context.Context, guildID string) (*entity.GuildConfig, error)
	SetConfig(ctx context.Context, cfg *entity.GuildConfig) error
	// ResolveChannel maps a channel name ("general") to its id within the
	// guild, consulting the host-synced channel table.
	ResolveChannel(ctx context.Context, guildID, name string) (string, bool)
}
