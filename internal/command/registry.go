// Package command implements the user-facing verbs as a structural registry:
// a table mapping command name to validator and handler, shared by prefix
// text and slash-style structured invocations.
package command

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/config"
	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/interaction"
	"github.com/modbot/remindersvc/internal/service"
	"github.com/modbot/remindersvc/internal/timezone"
	"github.com/modbot/remindersvc/pkg/ratelimit"
)

// Invocation is one command call, however it arrived.
type Invocation struct {
	Name      string
	Args      []string
	UserID    string
	GuildID   string
	ChannelID string
	IsAdmin   bool
}

func (inv *Invocation) Raw() string {
	return strings.Join(inv.Args, " ")
}

// Reply is what a handler produces: the message to post and, optionally, a
// view to register under the posted message's id.
type Reply struct {
	Message     *chat.Message
	View        *interaction.ViewState
	ViewTimeout time.Duration
}

type HandlerFunc func(ctx context.Context, inv *Invocation) *Reply

type Command struct {
	Name    string
	Aliases []string
	Admin   bool
	MinArgs int
	Usage   string
	Example string
	Run     HandlerFunc
}

type Registry struct {
	commands  map[string]*Command
	reminders service.ReminderService
	guilds    service.GuildService
	zones     *timezone.Registry
	transport chat.Transport
	views     interaction.ViewStateStore
	limiter   *ratelimit.Limiter
	limits    config.RateLimitConfig
}

func NewRegistry(
	reminders service.ReminderService,
	guilds service.GuildService,
	zones *timezone.Registry,
	transport chat.Transport,
	views interaction.ViewStateStore,
	limiter *ratelimit.Limiter,
	limits config.RateLimitConfig,
) *Registry {
	r := &Registry{
		commands:  make(map[string]*Command),
		reminders: reminders,
		guilds:    guilds,
		zones:     zones,
		transport: transport,
		views:     views,
		limiter:   limiter,
		limits:    limits,
	}
	r.register(r.reminderCommands()...)
	r.register(r.timezoneCommands()...)
	r.register(r.adminCommands()...)
	return r
}

func (r *Registry) register(cmds ...*Command) {
	for _, c := range cmds {
		r.commands[c.Name] = c
		for _, a := range c.Aliases {
			r.commands[a] = c
		}
	}
}

// ParseText turns a prefix invocation ("!remind in 2 hours take pills")
// into an Invocation. The prefix character has already been stripped by the
// host; a leading one is tolerated anyway.
func ParseText(content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	content = strings.TrimLeft(content, "!./")
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// Execute runs one invocation end to end: validation, handler, sending the
// reply, registering any view. It never returns an error to the caller;
// every failure is a message to the user.
func (r *Registry) Execute(ctx context.Context, inv *Invocation) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("Panic in command %q: %v\n%s", inv.Name, rec, debug.Stack())
			r.send(ctx, inv, &Reply{Message: &chat.Message{
				Embed: chat.RenderError("❌ Something went wrong", "The command failed unexpectedly. Please try again.", ""),
			}})
		}
	}()

	cmd, ok := r.commands[inv.Name]
	if !ok {
		r.send(ctx, inv, errorReply("Unknown command", "There is no command named `"+inv.Name+"`.", ""))
		return
	}
	if cmd.Admin && !inv.IsAdmin {
		r.send(ctx, inv, errorReply("Admins only", "You need admin permissions for `"+cmd.Name+"`.", ""))
		return
	}
	if len(inv.Args) < cmd.MinArgs {
		r.send(ctx, inv, errorReply("Missing arguments", "Usage: `"+cmd.Usage+"`", cmd.Example))
		return
	}

	reply := cmd.Run(ctx, inv)
	if reply == nil {
		return
	}
	r.send(ctx, inv, reply)
}

// send posts the reply to the invocation channel, falling back to a DM when
// the channel refuses, then registers the reply's view if it has one.
func (r *Registry) send(ctx context.Context, inv *Invocation, reply *Reply) {
	if reply.Message == nil {
		return
	}

	messageID, err := r.transport.SendChannelMessage(ctx, inv.ChannelID, reply.Message)
	if err != nil {
		if !chat.SoftFailure(err) {
			logrus.Warnf("Command reply to channel %s failed: %v", inv.ChannelID, err)
		}
		messageID, err = r.transport.SendDirectMessage(ctx, inv.UserID, reply.Message)
		if err != nil {
			logrus.Errorf("Command reply undeliverable for user %s: %v", inv.UserID, err)
			return
		}
	}

	if reply.View != nil {
		timeout := reply.ViewTimeout
		if timeout <= 0 {
			timeout = interaction.PaginatorTimeout
		}
		reply.View.ChannelID = inv.ChannelID
		if err := r.views.SetViewState(ctx, messageID, reply.View, timeout); err != nil {
			logrus.Warnf("Failed to register view for message %s: %v", messageID, err)
		}
	}
}

// limitReply renders a rate-limit refusal from the configured limit and
// window, so the message stays honest when the config changes.
func limitReply(what string, limit int, window time.Duration) *Reply {
	reason := fmt.Sprintf("At most %d %s per %d seconds.", limit, what, int(window.Seconds()))
	return errorReply("Slow down", reason, "")
}

func errorReply(title, reason, example string) *Reply {
	return &Reply{Message: &chat.Message{Embed: chat.RenderError("❌ "+title, reason, example)}}
}

func successReply(embed *chat.Embed) *Reply {
	return &Reply{Message: &chat.Message{Embed: embed}}
}
