package interaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
)

const (
	// PaginatorTimeout bounds how long a listing stays interactive.
	PaginatorTimeout = 120 * time.Second

	// Paginator sources
	SourceUserReminders  = "user_reminders"
	SourceAdminReminders = "admin_reminders"
	SourceTimezones      = "timezones"

	timezonesPerPage = 15
)

// WrapPage moves page by delta, wrapping around total.
func WrapPage(page, delta, total int) int {
	if total <= 0 {
		return 0
	}
	page = (page + delta) % total
	if page < 0 {
		page += total
	}
	return page
}

// ReminderPage renders one reminder of a listing with its controls: a lone
// result gets the action row directly, longer listings get prev/next plus
// the action row for the visible reminder.
func ReminderPage(reminders []*entity.Reminder, loc *time.Location, page int) *chat.Message {
	if len(reminders) == 0 {
		return &chat.Message{Embed: &chat.Embed{
			Title:       "📋 Reminders",
			Description: "You have no active reminders.",
			Color:       chat.ColorDefault,
		}}
	}

	page = WrapPage(page, 0, len(reminders))
	r := reminders[page]
	embed := chat.RenderReminderListItem(r, loc, page, len(reminders))

	components := [][]chat.Component{ActionRow(r.ID, r.Status == entity.StatusPaused)}
	if len(reminders) > 1 {
		components = append([][]chat.Component{PaginatorRow()}, components...)
	}
	return &chat.Message{Embed: embed, Components: components}
}

// TimezonePage renders one page of a `timezone list` search.
func TimezonePage(zones []string, query string, page int) *chat.Message {
	total := PageCount(len(zones), timezonesPerPage)
	if total == 0 {
		desc := "No timezones match."
		if query != "" {
			desc = fmt.Sprintf("No timezones match `%s`.", query)
		}
		return &chat.Message{Embed: &chat.Embed{
			Title:       "🌍 Timezones",
			Description: desc,
			Color:       chat.ColorWarning,
		}}
	}

	page = WrapPage(page, 0, total)
	start := page * timezonesPerPage
	end := start + timezonesPerPage
	if end > len(zones) {
		end = len(zones)
	}

	embed := &chat.Embed{
		Title:       "🌍 Timezones",
		Description: "```" + strings.Join(zones[start:end], "\n") + "```",
		Color:       chat.ColorDefault,
		Footer:      fmt.Sprintf("Page %d of %d", page+1, total),
	}

	msg := &chat.Message{Embed: embed}
	if total > 1 {
		msg.Components = [][]chat.Component{PaginatorRow()}
	}
	return msg
}

func PageCount(items, perPage int) int {
	if items <= 0 || perPage <= 0 {
		return 0
	}
	return (items + perPage - 1) / perPage
}
