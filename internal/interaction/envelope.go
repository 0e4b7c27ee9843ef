// Package interaction implements the interactive UI as a tagged message
// envelope: every button press or modal submit arrives as an Envelope, and a
// single dispatcher resolves and executes it. No closures survive restarts;
// all view state lives in redis under the message id with the view timeout
// as the key TTL.
package interaction

import (
	"strings"

	"github.com/google/uuid"

	"github.com/modbot/remindersvc/internal/chat"
)

const (
	ViewSnooze    = "snooze"
	ViewActions   = "actions"
	ViewPaginator = "paginator"
	ViewRecurring = "recurring"
	ViewEditModal = "edit_modal"
)

const (
	ActionSnooze30m = "snooze_30m"
	ActionSnooze1h  = "snooze_1h"
	ActionSnooze1d  = "snooze_1d"

	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionRecur  = "recur"
	ActionClose  = "close"

	ActionPrev = "prev"
	ActionNext = "next"

	ActionDaily   = "daily"
	ActionWeekly  = "weekly"
	ActionMonthly = "monthly"
	ActionOneTime = "one_time"
)

// Envelope is one interaction callback, as posted by the host to the
// interactions webhook and carried over the queue.
type Envelope struct {
	ID         string            `json:"id"`
	ViewKind   string            `json:"view_kind"`
	ReminderID string            `json:"reminder_id,omitempty"`
	Action     string            `json:"action"`
	UserID     string            `json:"user_id"`
	IsAdmin    bool              `json:"is_admin"`
	GuildID    string            `json:"guild_id,omitempty"`
	ChannelID  string            `json:"channel_id"`
	MessageID  string            `json:"message_id"`
	Values     map[string]string `json:"values,omitempty"`
}

func NewEnvelopeID() string {
	return uuid.New().String()
}

// ViewState is what gets stored in redis per live view message.
type ViewState struct {
	Kind       string `json:"kind"`
	ReminderID string `json:"reminder_id,omitempty"`
	OwnerID    string `json:"owner_id"`
	ChannelID  string `json:"channel_id"`

	// Paginator fields
	Page   int    `json:"page,omitempty"`
	Source string `json:"source,omitempty"`
	Query  string `json:"query,omitempty"`

	// Admin listing filter, recorded so a page flip re-runs the same query.
	Mode  string `json:"mode,omitempty"`
	User  string `json:"user,omitempty"`
	Hours int    `json:"hours,omitempty"`
}

// CustomID packs view/action/reminder into a component custom id the host
// echoes back verbatim.
func CustomID(view, action, reminderID string) string {
	return view + "|" + action + "|" + reminderID
}

// ParseCustomID is the inverse of CustomID.
func ParseCustomID(id string) (view, action, reminderID string, ok bool) {
	parts := strings.SplitN(id, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// SnoozeRow is the three-button row attached to every delivered reminder.
func SnoozeRow(reminderID string) []chat.Component {
	return []chat.Component{
		{Kind: chat.ComponentButton, Label: "Snooze 30m", CustomID: CustomID(ViewSnooze, ActionSnooze30m, reminderID)},
		{Kind: chat.ComponentButton, Label: "Snooze 1h", CustomID: CustomID(ViewSnooze, ActionSnooze1h, reminderID)},
		{Kind: chat.ComponentButton, Label: "Snooze 1d", CustomID: CustomID(ViewSnooze, ActionSnooze1d, reminderID)},
	}
}

// ActionRow is shown when a listing collapses to a single reminder.
func ActionRow(reminderID string, paused bool) []chat.Component {
	pause := chat.Component{Kind: chat.ComponentButton, Label: "Pause", CustomID: CustomID(ViewActions, ActionPause, reminderID)}
	if paused {
		pause = chat.Component{Kind: chat.ComponentButton, Label: "Resume", CustomID: CustomID(ViewActions, ActionResume, reminderID)}
	}
	return []chat.Component{
		{Kind: chat.ComponentButton, Label: "Edit", CustomID: CustomID(ViewActions, ActionEdit, reminderID)},
		{Kind: chat.ComponentButton, Label: "Delete", CustomID: CustomID(ViewActions, ActionDelete, reminderID), Style: "danger"},
		pause,
		{Kind: chat.ComponentButton, Label: "Recurring", CustomID: CustomID(ViewActions, ActionRecur, reminderID)},
		{Kind: chat.ComponentButton, Label: "Close", CustomID: CustomID(ViewActions, ActionClose, reminderID)},
	}
}

// PaginatorRow is the prev/next navigation row.
func PaginatorRow() []chat.Component {
	return []chat.Component{
		{Kind: chat.ComponentButton, Label: "◀ Prev", CustomID: CustomID(ViewPaginator, ActionPrev, "")},
		{Kind: chat.ComponentButton, Label: "Next ▶", CustomID: CustomID(ViewPaginator, ActionNext, "")},
	}
}

// RecurringSelect is the four-option frequency selector.
func RecurringSelect(reminderID string) []chat.Component {
	return []chat.Component{{
		Kind:     chat.ComponentSelect,
		Label:    "Recurrence",
		CustomID: CustomID(ViewRecurring, "set", reminderID),
		Options: []chat.SelectOption{
			{Label: "Daily", Value: ActionDaily},
			{Label: "Weekly", Value: ActionWeekly},
			{Label: "Monthly", Value: ActionMonthly},
			{Label: "One-time", Value: ActionOneTime},
		},
	}}
}
