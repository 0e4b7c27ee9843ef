package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/interaction"
)

func (r *Registry) timezoneCommands() []*Command {
	return []*Command{
		{
			Name:    "timezone",
			Aliases: []string{"tz"},
			MinArgs: 1,
			Usage:   "timezone <set|check|list> [value]",
			Example: "timezone set Europe/Berlin",
			Run:     r.runTimezone,
		},
	}
}

func (r *Registry) runTimezone(ctx context.Context, inv *Invocation) *Reply {
	sub := strings.ToLower(inv.Args[0])
	rest := strings.Join(inv.Args[1:], " ")

	switch sub {
	case "set":
		return r.timezoneSet(ctx, inv, rest)
	case "check":
		return r.timezoneCheck(ctx, inv, rest)
	case "list":
		return r.timezoneList(inv, rest)
	default:
		return errorReply("Unknown subcommand", "Use `timezone set`, `timezone check` or `timezone list`.", "timezone set Europe/Berlin")
	}
}

func (r *Registry) timezoneSet(ctx context.Context, inv *Invocation, input string) *Reply {
	if input == "" {
		return errorReply("Missing timezone", "Tell me which zone to use.", "timezone set America/La_Paz")
	}

	// Users rarely type exact IANA names; aliases cover countries, codes,
	// flags and phone prefixes.
	zone, ok := r.zones.ResolveAlias(input)
	if !ok {
		return errorReply("Unknown timezone", fmt.Sprintf("`%s` is not a timezone I recognize.", input), "timezone set bolivia")
	}

	stored, err := r.zones.Set(ctx, inv.UserID, zone)
	if err != nil {
		return errorReply("Could not save timezone", "Please try again.", "")
	}

	loc, _ := time.LoadLocation(stored)
	return successReply(&chat.Embed{
		Title: "🌍 Timezone set",
		Description: fmt.Sprintf("Your timezone is now **%s**.\nYour local time reads **%s**.",
			stored, time.Now().In(loc).Format("15:04, Mon Jan 2")),
		Color: chat.ColorSuccess,
	})
}

func (r *Registry) timezoneCheck(ctx context.Context, inv *Invocation, input string) *Reply {
	var zone string
	if input == "" {
		zone, _ = r.zones.Get(ctx, inv.UserID)
	} else {
		var ok bool
		zone, ok = r.zones.ResolveAlias(input)
		if !ok {
			return errorReply("Unknown timezone", fmt.Sprintf("`%s` is not a timezone I recognize.", input), "timezone check Asia/Tokyo")
		}
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return errorReply("Unknown timezone", fmt.Sprintf("`%s` failed to load.", zone), "")
	}

	now := time.Now().In(loc)
	return successReply(&chat.Embed{
		Title:       "🕐 " + zone,
		Description: fmt.Sprintf("**%s**\n%s", now.Format("15:04:05"), now.Format("Monday, January 2, 2006")),
		Color:       chat.ColorDefault,
	})
}

func (r *Registry) timezoneList(inv *Invocation, query string) *Reply {
	zones := r.zones.Search(query, 0)
	msg := interaction.TimezonePage(zones, query, 0)

	reply := &Reply{Message: msg}
	if len(msg.Components) > 0 {
		reply.View = &interaction.ViewState{
			Kind:    interaction.ViewPaginator,
			OwnerID: inv.UserID,
			Source:  interaction.SourceTimezones,
			Query:   query,
		}
		reply.ViewTimeout = interaction.PaginatorTimeout
	}
	return reply
}
