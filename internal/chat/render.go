package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/modbot/remindersvc/internal/entity"
)

// RenderDelivery builds the message posted when a reminder fires. The shape
// is contract: title, code-fenced upcased text, Created field with relative
// suffix, Recurring field when set, id in the footer.
func RenderDelivery(r *entity.Reminder, now time.Time) *Message {
	embed := &Embed{
		Title:       "⏰ Reminder",
		Description: fmt.Sprintf("```%s```", UpcaseFirst(r.Text)),
		Color:       ColorDefault,
		Fields: []EmbedField{
			{
				Name:   "Created",
				Value:  fmt.Sprintf("%s (%s)", r.CreatedAt.UTC().Format("Jan 2, 2006 15:04 MST"), RelativeTime(r.CreatedAt, now)),
				Inline: true,
			},
		},
		Footer: "Reminder ID: " + r.ID,
	}
	if r.Recurring != entity.RecurringNone {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   "Recurring",
			Value:  "Every " + r.Recurring,
			Inline: true,
		})
	}
	return &Message{
		Content: Mention(r.UserID),
		Embed:   embed,
	}
}

// RenderConfirmation is the reply to a successful `remind` command.
func RenderConfirmation(r *entity.Reminder, loc *time.Location, conflict *entity.Reminder) *Embed {
	local := r.Due.In(loc)
	desc := fmt.Sprintf("I will remind you on **%s** (%s).\n```%s```",
		local.Format("Mon, Jan 2, 2006 at 15:04"), r.Timezone, UpcaseFirst(r.Text))
	if conflict != nil {
		desc += fmt.Sprintf("\n⚠️ You already have a reminder around that time (`%s`).", conflict.ID)
	}
	return &Embed{
		Title:       "✅ Reminder set",
		Description: desc,
		Color:       ColorSuccess,
		Footer:      "Reminder ID: " + r.ID,
	}
}

// RenderReminderListItem is one page of the `reminders` paginator.
func RenderReminderListItem(r *entity.Reminder, loc *time.Location, index, total int) *Embed {
	local := r.Due.In(loc)
	embed := &Embed{
		Title:       fmt.Sprintf("📋 Reminder %d of %d", index+1, total),
		Description: fmt.Sprintf("```%s```", UpcaseFirst(TruncateText(r.Text, 200))),
		Color:       ColorDefault,
		Fields: []EmbedField{
			{Name: "Due", Value: fmt.Sprintf("%s (%s)", local.Format("Mon, Jan 2, 2006 15:04"), RelativeTime(r.Due, time.Now())), Inline: true},
			{Name: "Status", Value: r.Status, Inline: true},
		},
		Footer: "Reminder ID: " + r.ID,
	}
	if r.Recurring != entity.RecurringNone {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Recurring", Value: "Every " + r.Recurring, Inline: true})
	}
	if r.Undelivered {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Delivery", Value: "⚠️ last delivery failed", Inline: true})
	}
	return embed
}

// RenderError is the typed failure envelope every handler responds with.
func RenderError(title, reason, example string) *Embed {
	desc := reason
	if example != "" {
		desc += "\nExample: `" + example + "`"
	}
	return &Embed{
		Title:       title,
		Description: desc,
		Color:       ColorError,
	}
}

// Mention renders a user ping the way the host platform expects it.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// UpcaseFirst uppercases the first rune, matching the delivered-message
// contract.
func UpcaseFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// RelativeTime renders "in 2 hours" / "3 days ago" suffixes.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	past := true
	if d < 0 {
		d = -d
		past = false
	}

	var phrase string
	switch {
	case d < time.Minute:
		phrase = "moments"
	case d < time.Hour:
		phrase = plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		phrase = plural(int(d.Hours()), "hour")
	default:
		phrase = plural(int(d.Hours()/24), "day")
	}

	if past {
		if phrase == "moments" {
			return "moments ago"
		}
		return phrase + " ago"
	}
	if phrase == "moments" {
		return "in moments"
	}
	return "in " + phrase
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText shortens text for list views.
func TruncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-1]) + "…"
}
