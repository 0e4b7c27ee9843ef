package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/interaction"
)

func (r *Registry) adminCommands() []*Command {
	return []*Command{
		{
			Name:    "admin",
			Admin:   true,
			MinArgs: 1,
			Usage:   "admin <list|delete|cleanup> ...",
			Example: "admin list due 24",
			Run:     r.runAdmin,
		},
	}
}

func (r *Registry) runAdmin(ctx context.Context, inv *Invocation) *Reply {
	sub := strings.ToLower(inv.Args[0])
	rest := inv.Args[1:]

	switch sub {
	case "list":
		return r.adminList(ctx, inv, rest)
	case "delete":
		if len(rest) < 1 {
			return errorReply("Missing id", "Usage: `admin delete <id>`", "")
		}
		return r.adminDelete(ctx, inv, rest[0])
	case "cleanup":
		days := 30
		if len(rest) > 0 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n <= 0 {
				return errorReply("Bad argument", "Days must be a positive number.", "admin cleanup 30")
			}
			days = n
		}
		return r.adminCleanup(ctx, days)
	default:
		return errorReply("Unknown subcommand", "Use `admin list`, `admin delete` or `admin cleanup`.", "admin list all")
	}
}

func (r *Registry) adminList(ctx context.Context, inv *Invocation, args []string) *Reply {
	if !r.limiter.Allow(ctx, "admin_list", inv.UserID, r.limits.AdminListLimit, r.limits.AdminListWindow) {
		return limitReply("admin listings", r.limits.AdminListLimit, r.limits.AdminListWindow)
	}

	mode := "all"
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}

	var (
		reminders []*entity.Reminder
		err       error
		hours     int
		user      string
	)
	switch mode {
	case "all":
		reminders, err = r.reminders.ListAllActive(ctx, 100)
	case "due":
		hours = 24
		if len(args) > 1 {
			if n, aerr := strconv.Atoi(args[1]); aerr == nil && n > 0 {
				hours = n
			}
		}
		reminders, err = r.reminders.ListDueWithin(ctx, time.Duration(hours)*time.Hour, 100)
	case "user":
		if len(args) < 2 {
			return errorReply("Missing user", "Usage: `admin list user <user>`", "")
		}
		user = strings.Trim(args[1], "<@>")
		reminders, err = r.reminders.ListUser(ctx, user, 100)
	default:
		return errorReply("Unknown listing", "Use `all`, `due <hours>` or `user <user>`.", "admin list due 24")
	}
	if err != nil {
		return errorReply("Listing failed", "Please try again.", "")
	}

	msg := interaction.ReminderPage(reminders, time.UTC, 0)
	reply := &Reply{Message: msg}
	if len(reminders) > 0 {
		// The filter rides along in the view state so page flips re-run the
		// same listing instead of falling back to all-active.
		reply.View = &interaction.ViewState{
			Kind:    interaction.ViewPaginator,
			OwnerID: inv.UserID,
			Source:  interaction.SourceAdminReminders,
			Mode:    mode,
			User:    user,
			Hours:   hours,
		}
		reply.ViewTimeout = interaction.PaginatorTimeout
	}
	return reply
}

func (r *Registry) adminDelete(ctx context.Context, inv *Invocation, id string) *Reply {
	if err := r.reminders.Delete(ctx, id, inv.UserID, true); err != nil {
		if errors.Is(err, entity.ErrReminderNotFound) {
			return errorReply("Not found", "No reminder with id `"+id+"`.", "")
		}
		return errorReply("Could not delete", "Please try again.", "")
	}
	return successReply(&chat.Embed{
		Title:       "🗑 Reminder deleted",
		Description: "Reminder `" + id + "` removed by admin.",
		Color:       chat.ColorWarning,
	})
}

func (r *Registry) adminCleanup(ctx context.Context, days int) *Reply {
	count, err := r.reminders.Cleanup(ctx, days)
	if err != nil {
		return errorReply("Cleanup failed", "Please try again.", "")
	}
	return successReply(&chat.Embed{
		Title:       "🧹 Cleanup complete",
		Description: fmt.Sprintf("Removed **%d** completed reminders older than %d days.", count, days),
		Color:       chat.ColorSuccess,
	})
}
