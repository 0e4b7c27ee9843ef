package command

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modbot/remindersvc/config"
	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/interaction"
	"github.com/modbot/remindersvc/internal/service"
	"github.com/modbot/remindersvc/internal/timezone"
	"github.com/modbot/remindersvc/pkg/ratelimit"
)

type fakeReminders struct {
	service.ReminderService

	reminders map[string]*entity.Reminder

	createInput *service.CreateInput
	createPanic bool
	deleted     []string
	cleanedDays int
	dueWindow   time.Duration
}

func newFakeReminders() *fakeReminders {
	return &fakeReminders{reminders: make(map[string]*entity.Reminder)}
}

func (f *fakeReminders) Create(ctx context.Context, input *service.CreateInput) (*service.CreateResult, error) {
	if f.createPanic {
		panic("service blew up")
	}
	f.createInput = input

	due := time.Now().Add(2 * time.Hour).UTC()
	reminder := &entity.Reminder{
		ID:        entity.NewReminderID(input.UserID, due),
		UserID:    input.UserID,
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		Text:      "take pills",
		Due:       due,
		Timezone:  "UTC",
		Status:    entity.StatusActive,
	}
	f.reminders[reminder.ID] = reminder
	return &service.CreateResult{Reminder: reminder, Timezone: "UTC"}, nil
}

func (f *fakeReminders) ListUser(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error) {
	var out []*entity.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminders) Delete(ctx context.Context, id, requesterID string, isAdmin bool) error {
	r, ok := f.reminders[id]
	if !ok {
		return entity.ErrReminderNotFound
	}
	if !isAdmin && r.UserID != requesterID {
		return entity.ErrNotOwner
	}
	delete(f.reminders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeReminders) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	f.cleanedDays = olderThanDays
	return 5, nil
}

func (f *fakeReminders) ListDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error) {
	f.dueWindow = window
	var out []*entity.Reminder
	for _, r := range f.reminders {
		if r.Due.Before(time.Now().Add(window)) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeGuilds struct{}

func (fakeGuilds) GetConfig(ctx context.Context, guildID string) (*entity.GuildConfig, error) {
	return &entity.GuildConfig{GuildID: guildID}, nil
}
func (fakeGuilds) SetConfig(ctx context.Context, cfg *entity.GuildConfig) error { return nil }
func (fakeGuilds) ResolveChannel(ctx context.Context, guildID, name string) (string, bool) {
	return "", false
}

type utcPrefs struct{ zone string }

func (p utcPrefs) GetUserTimezone(ctx context.Context, userID string) (string, error) {
	return p.zone, nil
}
func (utcPrefs) SetUserTimezone(ctx context.Context, userID, zone string) error { return nil }

type noCache struct{}

func (noCache) GetUserTimezone(ctx context.Context, userID string) (string, bool) { return "", false }
func (noCache) SetUserTimezone(ctx context.Context, userID, zone string)          {}
func (noCache) InvalidateUserTimezone(ctx context.Context, userID string)         {}

type recordingTransport struct {
	sent []*chat.Message
	dms  []*chat.Message
}

func (r *recordingTransport) SendChannelMessage(ctx context.Context, channelID string, msg *chat.Message) (string, error) {
	r.sent = append(r.sent, msg)
	return "msg-1", nil
}

func (r *recordingTransport) SendDirectMessage(ctx context.Context, userID string, msg *chat.Message) (string, error) {
	r.dms = append(r.dms, msg)
	return "msg-dm", nil
}

func (r *recordingTransport) CanSendEmbed(ctx context.Context, channelID string) (bool, error) {
	return true, nil
}

func (r *recordingTransport) EditMessage(ctx context.Context, channelID, messageID string, msg *chat.Message) error {
	return nil
}

func (r *recordingTransport) DisableComponents(ctx context.Context, channelID, messageID string) error {
	return nil
}

type memoryViews struct {
	states map[string]*interaction.ViewState
}

func (m *memoryViews) SetViewState(ctx context.Context, messageID string, state interface{}, timeout time.Duration) error {
	if s, ok := state.(*interaction.ViewState); ok {
		m.states[messageID] = s
	}
	return nil
}

func (m *memoryViews) GetViewState(ctx context.Context, messageID string, dest interface{}) (bool, error) {
	s, ok := m.states[messageID]
	if !ok {
		return false, nil
	}
	*dest.(*interaction.ViewState) = *s
	return true, nil
}

func (m *memoryViews) DeleteViewState(ctx context.Context, messageID string) error {
	delete(m.states, messageID)
	return nil
}

func newTestRegistry() (*Registry, *fakeReminders, *recordingTransport, *memoryViews) {
	reminders := newFakeReminders()
	transport := &recordingTransport{}
	views := &memoryViews{states: make(map[string]*interaction.ViewState)}
	zones := timezone.NewRegistry(utcPrefs{zone: "UTC"}, noCache{})

	// An unreachable redis makes the limiter fail open, which keeps these
	// tests off the network.
	limiter := ratelimit.NewLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	r := NewRegistry(reminders, fakeGuilds{}, zones, transport, views, limiter, config.RateLimitConfig{
		CreatePerMinute: 3,
		CreateWindow:    time.Minute,
		AdminListLimit:  2,
		AdminListWindow: 30 * time.Second,
	})
	return r, reminders, transport, views
}

func invocation(name string, args ...string) *Invocation {
	return &Invocation{
		Name:      name,
		Args:      args,
		UserID:    "user-1",
		GuildID:   "guild-1",
		ChannelID: "chan-1",
	}
}

func lastEmbed(t *testing.T, transport *recordingTransport) *chat.Embed {
	t.Helper()
	require.NotEmpty(t, transport.sent)
	return transport.sent[len(transport.sent)-1].Embed
}

func TestParseText(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"remind in 2 hours take pills", "remind", []string{"in", "2", "hours", "take", "pills"}, true},
		{"!remind tomorrow stretch", "remind", []string{"tomorrow", "stretch"}, true},
		{"  REMINDERS  ", "reminders", []string{}, true},
		{"", "", nil, false},
		{"   ", "", nil, false},
	}

	for _, tt := range tests {
		name, args, ok := ParseText(tt.input)
		assert.Equal(t, tt.wantOK, ok, tt.input)
		assert.Equal(t, tt.wantName, name, tt.input)
		if tt.wantOK {
			assert.Equal(t, tt.wantArgs, args, tt.input)
		}
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	r, _, transport, _ := newTestRegistry()

	r.Execute(context.Background(), invocation("frobnicate"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Unknown command")
}

func TestExecuteAdminGate(t *testing.T) {
	r, reminders, transport, _ := newTestRegistry()

	r.Execute(context.Background(), invocation("admin", "cleanup"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Admins only")
	assert.Zero(t, reminders.cleanedDays)

	inv := invocation("admin", "cleanup", "14")
	inv.IsAdmin = true
	r.Execute(context.Background(), inv)
	assert.Contains(t, lastEmbed(t, transport).Title, "Cleanup complete")
	assert.Equal(t, 14, reminders.cleanedDays)
}

func TestExecuteMinArgs(t *testing.T) {
	r, _, transport, _ := newTestRegistry()

	r.Execute(context.Background(), invocation("remind"))
	embed := lastEmbed(t, transport)
	assert.Contains(t, embed.Title, "Missing arguments")
}

func TestRemindRegistersDeleteView(t *testing.T) {
	r, reminders, transport, views := newTestRegistry()

	r.Execute(context.Background(), invocation("remind", "in", "2", "hours", "take", "pills"))

	require.NotNil(t, reminders.createInput)
	assert.Equal(t, "in 2 hours take pills", reminders.createInput.Raw)
	require.Len(t, transport.sent, 1)

	state, ok := views.states["msg-1"]
	require.True(t, ok, "confirmation message must carry a view")
	assert.Equal(t, interaction.ViewActions, state.Kind)
	assert.Equal(t, "user-1", state.OwnerID)
	assert.NotEmpty(t, state.ReminderID)
}

func TestRemindAlias(t *testing.T) {
	r, reminders, _, _ := newTestRegistry()

	r.Execute(context.Background(), invocation("rm", "in", "1", "hour", "stretch"))
	require.NotNil(t, reminders.createInput)
	assert.Equal(t, "in 1 hour stretch", reminders.createInput.Raw)
}

func TestDelReminderOwnership(t *testing.T) {
	r, reminders, transport, _ := newTestRegistry()

	reminders.reminders["r1"] = &entity.Reminder{ID: "r1", UserID: "someone-else"}

	r.Execute(context.Background(), invocation("delreminder", "r1"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Not yours")
	assert.Empty(t, reminders.deleted)

	inv := invocation("delreminder", "r1")
	inv.IsAdmin = true
	r.Execute(context.Background(), inv)
	assert.Equal(t, []string{"r1"}, reminders.deleted)
}

func TestRemindersListRegistersPaginator(t *testing.T) {
	r, reminders, _, views := newTestRegistry()

	for _, id := range []string{"r1", "r2"} {
		reminders.reminders[id] = &entity.Reminder{
			ID: id, UserID: "user-1", Text: "x", Due: time.Now().Add(time.Hour), Status: entity.StatusActive,
		}
	}

	r.Execute(context.Background(), invocation("reminders"))

	state, ok := views.states["msg-1"]
	require.True(t, ok)
	assert.Equal(t, interaction.ViewPaginator, state.Kind)
	assert.Equal(t, interaction.SourceUserReminders, state.Source)
}

func TestAdminListRecordsFilter(t *testing.T) {
	r, reminders, _, views := newTestRegistry()

	reminders.reminders["t1"] = &entity.Reminder{
		ID: "t1", UserID: "target", Text: "x",
		Due: time.Now().Add(time.Hour), Status: entity.StatusActive,
	}

	inv := invocation("admin", "list", "user", "<@target>")
	inv.IsAdmin = true
	r.Execute(context.Background(), inv)

	state, ok := views.states["msg-1"]
	require.True(t, ok)
	assert.Equal(t, interaction.SourceAdminReminders, state.Source)
	assert.Equal(t, "user", state.Mode)
	assert.Equal(t, "target", state.User)

	inv = invocation("admin", "list", "due", "6")
	inv.IsAdmin = true
	r.Execute(context.Background(), inv)

	state, ok = views.states["msg-1"]
	require.True(t, ok)
	assert.Equal(t, "due", state.Mode)
	assert.Equal(t, 6, state.Hours)
	assert.Equal(t, 6*time.Hour, reminders.dueWindow)
}

func TestTimezoneCommand(t *testing.T) {
	r, _, transport, _ := newTestRegistry()

	r.Execute(context.Background(), invocation("timezone", "set", "bolivia"))
	embed := lastEmbed(t, transport)
	assert.Contains(t, embed.Title, "Timezone set")
	assert.Contains(t, embed.Description, "America/La_Paz")

	r.Execute(context.Background(), invocation("tz", "set", "not-a-place"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Unknown timezone")

	r.Execute(context.Background(), invocation("timezone", "check", "japan"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Asia/Tokyo")
}

func TestLimitReplyFollowsConfig(t *testing.T) {
	reply := limitReply("reminder creations", 5, 90*time.Second)
	assert.Contains(t, reply.Message.Embed.Description, "At most 5 reminder creations per 90 seconds.")

	reply = limitReply("admin listings", 2, 30*time.Second)
	assert.Contains(t, reply.Message.Embed.Description, "At most 2 admin listings per 30 seconds.")
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	r, reminders, transport, _ := newTestRegistry()
	reminders.createPanic = true

	r.Execute(context.Background(), invocation("remind", "in", "1", "hour", "x"))
	assert.Contains(t, lastEmbed(t, transport).Title, "Something went wrong")
}
