package command

import (
	"context"
	"errors"
	"time"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/interaction"
	"github.com/modbot/remindersvc/internal/service"
)

const confirmationViewTimeout = 180 * time.Second

func (r *Registry) reminderCommands() []*Command {
	return []*Command{
		{
			Name:    "remind",
			Aliases: []string{"remindme", "rm"},
			MinArgs: 1,
			Usage:   "remind <time> <text>",
			Example: "remind in 2 hours take pills",
			Run:     r.runRemind,
		},
		{
			Name:    "reminders",
			Aliases: []string{"myreminders"},
			Usage:   "reminders",
			Run:     r.runReminders,
		},
		{
			Name:    "delreminder",
			MinArgs: 1,
			Usage:   "delreminder <id>",
			Example: "delreminder 42_1718822400_a1b2c3d4",
			Run:     r.runDelReminder,
		},
	}
}

func (r *Registry) runRemind(ctx context.Context, inv *Invocation) *Reply {
	if !r.limiter.Allow(ctx, "create", inv.UserID, r.limits.CreatePerMinute, r.limits.CreateWindow) {
		return limitReply("reminder creations", r.limits.CreatePerMinute, r.limits.CreateWindow)
	}

	result, err := r.reminders.Create(ctx, &service.CreateInput{
		UserID:    inv.UserID,
		GuildID:   inv.GuildID,
		ChannelID: inv.ChannelID,
		Raw:       inv.Raw(),
	})
	if err != nil {
		return creationErrorReply(err)
	}

	_, loc := r.zones.Get(ctx, inv.UserID)
	embed := chat.RenderConfirmation(result.Reminder, loc, result.Conflict)

	// Inline delete button, usable by the author only.
	msg := &chat.Message{
		Embed: embed,
		Components: [][]chat.Component{{
			{Kind: chat.ComponentButton, Label: "Delete", Style: "danger",
				CustomID: interaction.CustomID(interaction.ViewActions, interaction.ActionDelete, result.Reminder.ID)},
		}},
	}
	return &Reply{
		Message: msg,
		View: &interaction.ViewState{
			Kind:       interaction.ViewActions,
			ReminderID: result.Reminder.ID,
			OwnerID:    inv.UserID,
		},
		ViewTimeout: confirmationViewTimeout,
	}
}

func (r *Registry) runReminders(ctx context.Context, inv *Invocation) *Reply {
	reminders, err := r.reminders.ListUser(ctx, inv.UserID, 100)
	if err != nil {
		return errorReply("Could not list reminders", "Please try again.", "")
	}

	_, loc := r.zones.Get(ctx, inv.UserID)
	msg := interaction.ReminderPage(reminders, loc, 0)
	reply := &Reply{Message: msg}
	if len(reminders) > 0 {
		reply.View = &interaction.ViewState{
			Kind:       interaction.ViewPaginator,
			OwnerID:    inv.UserID,
			Source:     interaction.SourceUserReminders,
			ReminderID: reminders[0].ID,
		}
		reply.ViewTimeout = interaction.PaginatorTimeout
	}
	return reply
}

func (r *Registry) runDelReminder(ctx context.Context, inv *Invocation) *Reply {
	id := inv.Args[0]
	if err := r.reminders.Delete(ctx, id, inv.UserID, inv.IsAdmin); err != nil {
		switch {
		case errors.Is(err, entity.ErrReminderNotFound):
			return errorReply("Not found", "No reminder with id `"+id+"`.", "")
		case errors.Is(err, entity.ErrNotOwner):
			return errorReply("Not yours", "Only the reminder owner can delete it.", "")
		default:
			return errorReply("Could not delete", "Please try again.", "")
		}
	}
	return successReply(&chat.Embed{
		Title:       "🗑 Reminder deleted",
		Description: "Reminder `" + id + "` is gone.",
		Color:       chat.ColorSuccess,
	})
}

func creationErrorReply(err error) *Reply {
	switch {
	case errors.Is(err, entity.ErrUnparsableTime):
		return errorReply("Couldn't read that time", "Tell me when first, then what.", "remind in 2 hours take pills")
	case errors.Is(err, entity.ErrTimeInPast):
		return errorReply("Time is in the past", "Pick a moment that hasn't happened yet.", "remind tomorrow 9am stretch")
	case errors.Is(err, entity.ErrTextTooLong):
		return errorReply("Too long", "Reminder text is capped at 400 characters.", "")
	case errors.Is(err, entity.ErrEmptyText):
		return errorReply("Nothing to remind", "Tell me what to remind you about.", "remind in 1 hour drink water")
	case errors.Is(err, entity.ErrInvalidRecurring):
		return errorReply("Bad recurrence", "Recurring must be daily, weekly or monthly.", "")
	default:
		return errorReply("Could not create reminder", "Please try again.", "")
	}
}
