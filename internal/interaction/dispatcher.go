package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/service"
	"github.com/modbot/remindersvc/internal/timeparse"
	"github.com/modbot/remindersvc/internal/timezone"
)

// ViewStateStore is the redis-backed view state with TTL timeouts.
type ViewStateStore interface {
	SetViewState(ctx context.Context, messageID string, state interface{}, timeout time.Duration) error
	GetViewState(ctx context.Context, messageID string, dest interface{}) (bool, error)
	DeleteViewState(ctx context.Context, messageID string) error
}

var snoozeDurations = map[string]time.Duration{
	ActionSnooze30m: 30 * time.Minute,
	ActionSnooze1h:  time.Hour,
	ActionSnooze1d:  24 * time.Hour,
}

// Dispatcher executes interaction envelopes consumed from the queue.
type Dispatcher struct {
	reminders service.ReminderService
	registry  *timezone.Registry
	transport chat.Transport
	views     ViewStateStore
}

func NewDispatcher(reminders service.ReminderService, registry *timezone.Registry, transport chat.Transport, views ViewStateStore) *Dispatcher {
	return &Dispatcher{
		reminders: reminders,
		registry:  registry,
		transport: transport,
		views:     views,
	}
}

// HandleMessage is the queue consumer entry point.
func (d *Dispatcher) HandleMessage(body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		logrus.Errorf("Dropping malformed interaction envelope: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return d.Dispatch(ctx, &env)
}

// Dispatch authenticates and executes one envelope. User-facing failures
// become error embeds; nothing propagates back to the queue as a retry.
func (d *Dispatcher) Dispatch(ctx context.Context, env *Envelope) error {
	logrus.WithFields(logrus.Fields{
		"envelope_id": env.ID,
		"view_kind":   env.ViewKind,
		"action":      env.Action,
		"user_id":     env.UserID,
	}).Debug("Dispatching interaction")

	switch env.ViewKind {
	case ViewSnooze:
		return d.handleSnooze(ctx, env)
	case ViewActions:
		return d.handleAction(ctx, env)
	case ViewPaginator:
		return d.handlePaginator(ctx, env)
	case ViewRecurring:
		return d.handleRecurring(ctx, env)
	case ViewEditModal:
		return d.handleEditModal(ctx, env)
	default:
		logrus.Warnf("Unknown view kind %q in envelope %s", env.ViewKind, env.ID)
		return nil
	}
}

// loadView fetches live view state; a missing key means the view timed out,
// in which case the controls are disabled and the press is swallowed.
func (d *Dispatcher) loadView(ctx context.Context, env *Envelope) (*ViewState, bool) {
	var state ViewState
	ok, err := d.views.GetViewState(ctx, env.MessageID, &state)
	if err != nil {
		logrus.Errorf("View state lookup failed for message %s: %v", env.MessageID, err)
		return nil, false
	}
	if !ok {
		if err := d.transport.DisableComponents(ctx, env.ChannelID, env.MessageID); err != nil && !chat.SoftFailure(err) {
			logrus.Warnf("Failed to disable expired view %s: %v", env.MessageID, err)
		}
		return nil, false
	}
	return &state, true
}

func (d *Dispatcher) authorized(state *ViewState, env *Envelope) bool {
	return env.IsAdmin || env.UserID == state.OwnerID
}

func (d *Dispatcher) handleSnooze(ctx context.Context, env *Envelope) error {
	state, ok := d.loadView(ctx, env)
	if !ok {
		return nil
	}
	if !d.authorized(state, env) {
		return d.sendError(ctx, env, "Not yours", "Only the reminder owner can snooze this.")
	}

	duration, ok := snoozeDurations[env.Action]
	if !ok {
		logrus.Warnf("Unknown snooze action %q", env.Action)
		return nil
	}

	reminder, err := d.reminders.Snooze(ctx, state.ReminderID, env.UserID, env.IsAdmin, duration)
	if err != nil {
		return d.sendUserError(ctx, env, err)
	}

	// The snooze buttons are single-use.
	d.consumeView(ctx, env)

	_, loc := d.registry.Get(ctx, reminder.UserID)
	_, err = d.transport.SendChannelMessage(ctx, env.ChannelID, &chat.Message{Embed: &chat.Embed{
		Title:       "💤 Snoozed",
		Description: "I will remind you again at **" + reminder.Due.In(loc).Format("15:04, Jan 2") + "**.",
		Color:       chat.ColorSuccess,
		Footer:      "Reminder ID: " + reminder.ID,
	}})
	if err != nil && !chat.SoftFailure(err) {
		logrus.Warnf("Snooze confirmation send failed: %v", err)
	}
	return nil
}

func (d *Dispatcher) handleAction(ctx context.Context, env *Envelope) error {
	state, ok := d.loadView(ctx, env)
	if !ok {
		return nil
	}
	if !d.authorized(state, env) {
		return d.sendError(ctx, env, "Not yours", "Only the reminder owner can manage this reminder.")
	}

	reminderID := env.ReminderID
	if reminderID == "" {
		reminderID = state.ReminderID
	}

	switch env.Action {
	case ActionDelete:
		if err := d.reminders.Delete(ctx, reminderID, env.UserID, env.IsAdmin); err != nil {
			return d.sendUserError(ctx, env, err)
		}
		d.consumeView(ctx, env)
		return d.editMessage(ctx, env, &chat.Message{Embed: &chat.Embed{
			Title:       "🗑 Reminder deleted",
			Description: "Reminder `" + reminderID + "` is gone.",
			Color:       chat.ColorWarning,
		}})

	case ActionPause, ActionResume:
		if err := d.reminders.SetPaused(ctx, reminderID, env.UserID, env.IsAdmin, env.Action == ActionPause); err != nil {
			return d.sendUserError(ctx, env, err)
		}
		return d.refreshReminderMessage(ctx, env, reminderID)

	case ActionRecur:
		msg := &chat.Message{
			Embed: &chat.Embed{
				Title:       "🔁 Recurrence",
				Description: "How often should this reminder repeat?",
				Color:       chat.ColorDefault,
				Footer:      "Reminder ID: " + reminderID,
			},
			Components: [][]chat.Component{RecurringSelect(reminderID)},
		}
		messageID, err := d.transport.SendChannelMessage(ctx, env.ChannelID, msg)
		if err != nil {
			logrus.Warnf("Failed to send recurrence selector: %v", err)
			return nil
		}
		return d.views.SetViewState(ctx, messageID, ViewState{
			Kind:       ViewRecurring,
			ReminderID: reminderID,
			OwnerID:    state.OwnerID,
			ChannelID:  env.ChannelID,
		}, PaginatorTimeout)

	case ActionEdit:
		// The host renders the modal from the component custom id; nothing
		// to do until the edit_modal envelope comes back.
		return nil

	case ActionClose:
		d.consumeView(ctx, env)
		return nil

	default:
		logrus.Warnf("Unknown action %q on actions view", env.Action)
		return nil
	}
}

func (d *Dispatcher) handlePaginator(ctx context.Context, env *Envelope) error {
	state, ok := d.loadView(ctx, env)
	if !ok {
		return nil
	}
	if !d.authorized(state, env) {
		return d.sendError(ctx, env, "Not yours", "Only the person who ran the command can flip pages.")
	}

	delta := 0
	switch env.Action {
	case ActionNext:
		delta = 1
	case ActionPrev:
		delta = -1
	}

	var msg *chat.Message
	switch state.Source {
	case SourceTimezones:
		zones := d.registry.Search(state.Query, 0)
		state.Page = WrapPage(state.Page, delta, PageCount(len(zones), timezonesPerPage))
		msg = TimezonePage(zones, state.Query, state.Page)

	case SourceAdminReminders:
		reminders, err := d.adminListing(ctx, state)
		if err != nil {
			return d.sendUserError(ctx, env, err)
		}
		state.Page = WrapPage(state.Page, delta, len(reminders))
		msg = ReminderPage(reminders, time.UTC, state.Page)

	default: // SourceUserReminders
		reminders, err := d.reminders.ListUser(ctx, state.OwnerID, 100)
		if err != nil {
			return d.sendUserError(ctx, env, err)
		}
		_, loc := d.registry.Get(ctx, state.OwnerID)
		state.Page = WrapPage(state.Page, delta, len(reminders))
		msg = ReminderPage(reminders, loc, state.Page)
	}

	if err := d.editMessage(ctx, env, msg); err != nil {
		return nil
	}
	// Interacting keeps the view alive for another full timeout window.
	return d.views.SetViewState(ctx, env.MessageID, state, PaginatorTimeout)
}

// adminListing re-runs the admin query the paginator was opened with.
func (d *Dispatcher) adminListing(ctx context.Context, state *ViewState) ([]*entity.Reminder, error) {
	switch state.Mode {
	case "due":
		return d.reminders.ListDueWithin(ctx, time.Duration(state.Hours)*time.Hour, 100)
	case "user":
		return d.reminders.ListUser(ctx, state.User, 100)
	default:
		return d.reminders.ListAllActive(ctx, 100)
	}
}

func (d *Dispatcher) handleRecurring(ctx context.Context, env *Envelope) error {
	state, ok := d.loadView(ctx, env)
	if !ok {
		return nil
	}
	if !d.authorized(state, env) {
		return d.sendError(ctx, env, "Not yours", "Only the reminder owner can change recurrence.")
	}

	value := env.Values["value"]
	if value == "" {
		value = env.Action
	}
	freq := ""
	switch value {
	case ActionDaily:
		freq = entity.RecurringDaily
	case ActionWeekly:
		freq = entity.RecurringWeekly
	case ActionMonthly:
		freq = entity.RecurringMonthly
	case ActionOneTime:
		freq = entity.RecurringNone
	default:
		logrus.Warnf("Unknown recurrence value %q", value)
		return nil
	}

	if err := d.reminders.SetRecurring(ctx, state.ReminderID, env.UserID, env.IsAdmin, freq); err != nil {
		return d.sendUserError(ctx, env, err)
	}
	d.consumeView(ctx, env)

	label := "one-time"
	if freq != entity.RecurringNone {
		label = "every " + freq
	}
	return d.editMessage(ctx, env, &chat.Message{Embed: &chat.Embed{
		Title:       "🔁 Recurrence updated",
		Description: "This reminder is now **" + label + "**.",
		Color:       chat.ColorSuccess,
		Footer:      "Reminder ID: " + state.ReminderID,
	}})
}

// handleEditModal applies the two optional modal fields. Empty fields are
// no-ops. Modal submissions authenticate against the reminder itself rather
// than view state, so a restart between opening and submitting the modal
// does not strand the user.
func (d *Dispatcher) handleEditModal(ctx context.Context, env *Envelope) error {
	reminder, err := d.reminders.Get(ctx, env.ReminderID)
	if err != nil {
		return d.sendUserError(ctx, env, err)
	}
	if !env.IsAdmin && env.UserID != reminder.UserID {
		return d.sendError(ctx, env, "Not yours", "Only the reminder owner can edit this reminder.")
	}

	newText := env.Values["text"]
	newTime := env.Values["time"]
	if newText == "" && newTime == "" {
		return nil
	}

	if newText != "" {
		if err := d.reminders.EditText(ctx, env.ReminderID, env.UserID, env.IsAdmin, newText); err != nil {
			return d.sendUserError(ctx, env, err)
		}
	}
	if newTime != "" {
		_, loc := d.registry.Get(ctx, reminder.UserID)
		due, err := timeparse.ParseDuePhrase(newTime, loc, time.Now())
		if err != nil {
			return d.sendUserError(ctx, env, err)
		}
		if err := d.reminders.EditDue(ctx, env.ReminderID, env.UserID, env.IsAdmin, due); err != nil {
			return d.sendUserError(ctx, env, err)
		}
	}

	return d.refreshReminderMessage(ctx, env, env.ReminderID)
}

// refreshReminderMessage re-renders the single-reminder view in place.
func (d *Dispatcher) refreshReminderMessage(ctx context.Context, env *Envelope, reminderID string) error {
	reminder, err := d.reminders.Get(ctx, reminderID)
	if err != nil {
		return nil
	}
	_, loc := d.registry.Get(ctx, reminder.UserID)
	return d.editMessage(ctx, env, ReminderPage([]*entity.Reminder{reminder}, loc, 0))
}

func (d *Dispatcher) editMessage(ctx context.Context, env *Envelope, msg *chat.Message) error {
	if err := d.transport.EditMessage(ctx, env.ChannelID, env.MessageID, msg); err != nil && !chat.SoftFailure(err) {
		logrus.Warnf("Failed to edit message %s: %v", env.MessageID, err)
	}
	return nil
}

// consumeView disables the originating message's controls and drops its
// state.
func (d *Dispatcher) consumeView(ctx context.Context, env *Envelope) {
	if err := d.transport.DisableComponents(ctx, env.ChannelID, env.MessageID); err != nil && !chat.SoftFailure(err) {
		logrus.Warnf("Failed to disable components on %s: %v", env.MessageID, err)
	}
	if err := d.views.DeleteViewState(ctx, env.MessageID); err != nil {
		logrus.Warnf("Failed to delete view state for %s: %v", env.MessageID, err)
	}
}

func (d *Dispatcher) sendUserError(ctx context.Context, env *Envelope, err error) error {
	switch {
	case errors.Is(err, entity.ErrNotOwner):
		return d.sendError(ctx, env, "Not yours", err.Error())
	case errors.Is(err, entity.ErrReminderNotFound):
		return d.sendError(ctx, env, "Not found", "That reminder no longer exists.")
	case errors.Is(err, entity.ErrTimeInPast):
		return d.sendError(ctx, env, "Time is in the past", "Pick a future time.")
	case errors.Is(err, entity.ErrUnparsableTime):
		return d.sendError(ctx, env, "Couldn't read that time", "Try `tomorrow 3pm` or `in 2 hours`.")
	case errors.Is(err, entity.ErrTextTooLong), errors.Is(err, entity.ErrEmptyText):
		return d.sendError(ctx, env, "Bad reminder text", err.Error())
	default:
		logrus.Errorf("Interaction %s failed: %v", env.ID, err)
		return d.sendError(ctx, env, "Something went wrong", "Please try again.")
	}
}

func (d *Dispatcher) sendError(ctx context.Context, env *Envelope, title, reason string) error {
	embed := chat.RenderError("❌ "+title, reason, "")
	if _, err := d.transport.SendChannelMessage(ctx, env.ChannelID, &chat.Message{Embed: embed}); err != nil && !chat.SoftFailure(err) {
		logrus.Warnf("Failed to send interaction error: %v", err)
	}
	return nil
}
