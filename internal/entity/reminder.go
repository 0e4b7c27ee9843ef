package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

const (
	RecurringNone    = ""
	RecurringDaily   = "daily"
	RecurringWeekly  = "weekly"
	RecurringMonthly = "monthly"
)

const (
	// MaxReminderTextLen is the hard cap on reminder text.
	MaxReminderTextLen = 400

	// MaxFailedTicks is the number of consecutive failed delivery ticks
	// after which a one-shot reminder is force-completed.
	MaxFailedTicks = 10
)

type Reminder struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	GuildID         string     `json:"guild_id,omitempty"`
	ChannelID       string     `json:"channel_id,omitempty"`
	Text            string     `json:"text"`
	Due             time.Time  `json:"due"`
	CreatedAt       time.Time  `json:"created_at"`
	Timezone        string     `json:"timezone"`
	Recurring       string     `json:"recurring,omitempty"`
	Status          string     `json:"status"`
	Undelivered     bool       `json:"undelivered"`
	FailedTicks     int        `json:"failed_ticks"`
	Note            string     `json:"note,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastDeliveredAt *time.Time `json:"last_delivered_at,omitempty"`
}

// ReminderPatch is a partial update; nil fields are left untouched.
type ReminderPatch struct {
	Text            *string
	Due             *time.Time
	Recurring       *string
	Status          *string
	Undelivered     *bool
	FailedTicks     *int
	Note            *string
	LastDeliveredAt *time.Time
}

// CreateReminderRequest is the body of the host-facing create endpoint. The
// reminder's timezone is not part of the request; it comes from the owner's
// stored preference.
type CreateReminderRequest struct {
	UserID    string    `json:"user_id" binding:"required"`
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	Text      string    `json:"text" binding:"required"`
	Due       time.Time `json:"due" binding:"required"`
	Recurring string    `json:"recurring"`
}

// NewReminderID builds the synthesized id {user_id}_{due_epoch}. The uuid
// fragment keeps ids unique when the same user retries within one second.
func NewReminderID(userID string, due time.Time) string {
	return fmt.Sprintf("%s_%d_%s", userID, due.Unix(), uuid.New().String()[:8])
}

func ValidRecurring(freq string) bool {
	switch freq {
	case RecurringNone, RecurringDaily, RecurringWeekly, RecurringMonthly:
		return true
	}
	return false
}

// SanitizeReminderText strips control characters, collapses the markdown
// triple-dash and trims the result. Returns ErrTextTooLong past the cap.
func SanitizeReminderText(text string) (string, error) {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	out := strings.ReplaceAll(b.String(), "---", "-")
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(out) > MaxReminderTextLen {
		return "", ErrTextTooLong
	}
	return out, nil
}

// NextOccurrence advances due by one recurrence step in the owner's zone.
// The arithmetic has to happen in local wall-clock time: adding 24h of UTC
// across a DST boundary would shift the local delivery hour.
func NextOccurrence(due time.Time, freq string, loc *time.Location) time.Time {
	local := due.In(loc)
	switch freq {
	case RecurringDaily:
		local = local.AddDate(0, 0, 1)
	case RecurringWeekly:
		local = local.AddDate(0, 0, 7)
	case RecurringMonthly:
		local = local.AddDate(0, 1, 0)
	default:
		return due
	}
	return local.UTC()
}
