// Package timeparse turns free-form user time strings into UTC instants.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/entity"
)

// Result is a successful parse: the UTC instant plus whatever text was left
// over, which the caller treats as the reminder message.
type Result struct {
	Due     time.Time
	Message string
	Rule    string
}

var (
	compactDurationRe = regexp.MustCompile(`^(\d+)(m|min|mins|minute|minutes|h|hr|hrs|hour|hours|d|day|days|w|week|weeks)$`)
	clockRe           = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)?$`)
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var charSeparators = map[string]bool{
	"-": true, "|": true, ":": true, "—": true, "<": true, ">": true,
}

var wordSeparators = map[string]bool{
	"to": true, "in": true, "at": true, "on": true, "for": true,
}

// Parse resolves input against the current clock. loc is the user's zone;
// naive dates are interpreted there and the result is returned in UTC.
func Parse(input string, loc *time.Location) (*Result, error) {
	return ParseAt(input, loc, time.Now())
}

// ParseAt is Parse with an explicit "now", which the scheduler tests pin.
// Rules are tried in a fixed order so the same input always resolves the
// same way:
//  1. "in <duration>" prefix
//  2. bare duration prefix ("2h30m water plants")
//  3. char separator split ("tomorrow 9am | standup")
//  4. word separator split ("pay rent on April 17")
//  5. absolute date/time prefix ("tomorrow 3pm take pills")
func ParseAt(input string, loc *time.Location, now time.Time) (*Result, error) {
	tokens := strings.Fields(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return nil, entity.ErrUnparsableTime
	}

	type rule struct {
		name string
		fn   func([]string, *time.Location, time.Time) (time.Time, string, bool)
	}
	rules := []rule{
		{"in-duration", parseInDuration},
		{"duration", parseBareDuration},
		{"char-separator", parseCharSeparator},
		{"word-separator", parseWordSeparator},
		{"absolute-prefix", parseAbsolutePrefix},
	}

	for _, r := range rules {
		due, message, ok := r.fn(tokens, loc, now)
		if !ok {
			continue
		}
		if !due.After(now) {
			return nil, entity.ErrTimeInPast
		}
		return &Result{Due: due.UTC(), Message: message, Rule: r.name}, nil
	}
	return nil, entity.ErrUnparsableTime
}

// ParseDuePhrase parses a string that is expected to be only a time, with no
// trailing message. Used by the edit modal and `timezone check`.
func ParseDuePhrase(phrase string, loc *time.Location, now time.Time) (time.Time, error) {
	res, err := ParseAt(phrase, loc, now)
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(res.Message) != "" {
		return time.Time{}, entity.ErrUnparsableTime
	}
	return res.Due, nil
}

func parseInDuration(tokens []string, _ *time.Location, now time.Time) (time.Time, string, bool) {
	if strings.ToLower(tokens[0]) != "in" || len(tokens) < 2 {
		return time.Time{}, "", false
	}
	d, consumed, ok := consumeDuration(tokens[1:])
	if !ok {
		return time.Time{}, "", false
	}
	return now.Add(d), strings.Join(trimLeadingSeparator(tokens[1+consumed:]), " "), true
}

func parseBareDuration(tokens []string, _ *time.Location, now time.Time) (time.Time, string, bool) {
	d, consumed, ok := consumeDuration(tokens)
	if !ok {
		return time.Time{}, "", false
	}
	return now.Add(d), strings.Join(trimLeadingSeparator(tokens[consumed:]), " "), true
}

// trimLeadingSeparator drops a separator token stranded at the start of the
// message after a duration rule consumed the time ("in 5 minutes - take a
// break"). Only "to" and the char separators are stripped; "in"/"at"/"on"/
// "for" can legitimately start a message.
func trimLeadingSeparator(tokens []string) []string {
	if len(tokens) > 1 && (charSeparators[tokens[0]] || strings.ToLower(tokens[0]) == "to") {
		return tokens[1:]
	}
	return tokens
}

// consumeDuration eats leading duration tokens: "5 minutes", "2 hours",
// "30m", "2h30m", "3 days", "1 week", including chained "2 hours 30 minutes".
func consumeDuration(tokens []string) (time.Duration, int, bool) {
	var total time.Duration
	i := 0
	for i < len(tokens) {
		tok := strings.ToLower(tokens[i])

		// "2 hours" form: bare number followed by a unit word
		if isNumber(tok) && i+1 < len(tokens) {
			if d, ok := unitDuration(tok, strings.ToLower(tokens[i+1])); ok {
				total += d
				i += 2
				continue
			}
		}

		// compact "30m" / "2h" form
		if m := compactDurationRe.FindStringSubmatch(tok); m != nil {
			if d, ok := unitDuration(m[1], m[2]); ok {
				total += d
				i++
				continue
			}
		}

		// glued "2h30m" form
		if i == 0 {
			if d, err := time.ParseDuration(tok); err == nil && d > 0 {
				total += d
				i++
				continue
			}
		}
		break
	}
	if i == 0 || total <= 0 {
		return 0, 0, false
	}
	return total, i, true
}

func unitDuration(num, unit string) (time.Duration, bool) {
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, false
	}
	switch unit {
	case "m", "min", "mins", "minute", "minutes":
		return time.Duration(n) * time.Minute, true
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(n) * time.Hour, true
	case "d", "day", "days":
		return time.Duration(n) * 24 * time.Hour, true
	case "w", "week", "weeks":
		return time.Duration(n) * 7 * 24 * time.Hour, true
	}
	return 0, false
}

func parseCharSeparator(tokens []string, loc *time.Location, now time.Time) (time.Time, string, bool) {
	for i, tok := range tokens {
		if !charSeparators[tok] {
			continue
		}
		if i == 0 || i == len(tokens)-1 {
			return time.Time{}, "", false
		}
		due, rest, ok := parseAbsolutePrefix(tokens[:i], loc, now)
		if ok && rest == "" {
			return due, strings.Join(tokens[i+1:], " "), true
		}
		left := trimLeadingIn(tokens[:i])
		if d, consumed, ok := consumeDuration(left); ok && consumed == len(left) {
			return now.Add(d), strings.Join(tokens[i+1:], " "), true
		}
		return time.Time{}, "", false
	}
	return time.Time{}, "", false
}

func trimLeadingIn(tokens []string) []string {
	if len(tokens) > 0 && strings.ToLower(tokens[0]) == "in" {
		return tokens[1:]
	}
	return tokens
}

// parseWordSeparator handles message-first forms: "pay rent on April 17",
// "take pills at 3pm", "call mom in 2 hours". The first separator whose
// right-hand side fully parses as a time wins. "to" also splits time-first
// ("5pm to call mom"): when the right side is not a time, the left side is
// tried and the right becomes the message.
func parseWordSeparator(tokens []string, loc *time.Location, now time.Time) (time.Time, string, bool) {
	for i := 1; i < len(tokens)-1; i++ {
		sep := strings.ToLower(tokens[i])
		if !wordSeparators[sep] {
			continue
		}
		right := tokens[i+1:]
		if d, consumed, ok := consumeDuration(right); ok && consumed == len(right) {
			return now.Add(d), strings.Join(tokens[:i], " "), true
		}
		if due, rest, ok := parseAbsolutePrefix(right, loc, now); ok && rest == "" {
			return due, strings.Join(tokens[:i], " "), true
		}
		if sep == "to" {
			left := trimLeadingIn(tokens[:i])
			if d, consumed, ok := consumeDuration(left); ok && consumed == len(left) {
				return now.Add(d), strings.Join(tokens[i+1:], " "), true
			}
			if due, rest, ok := parseAbsolutePrefix(tokens[:i], loc, now); ok && rest == "" {
				return due, strings.Join(tokens[i+1:], " "), true
			}
		}
	}
	return time.Time{}, "", false
}

// parseAbsolutePrefix matches the longest leading token run that reads as an
// absolute date and/or clock time. Longest-match keeps the rule
// deterministic when several prefixes would parse.
func parseAbsolutePrefix(tokens []string, loc *time.Location, now time.Time) (time.Time, string, bool) {
	max := len(tokens)
	if max > 5 {
		max = 5
	}
	for n := max; n >= 1; n-- {
		if due, ok := parseAbsolute(tokens[:n], loc, now); ok {
			return due, strings.Join(tokens[n:], " "), true
		}
	}
	return time.Time{}, "", false
}

// parseAbsolute parses an exact token run as a date, a clock time, or both.
// Accepted shapes: "April 17", "17 of April", "17 April", "April 17 2026",
// "tomorrow", "tomorrow 3pm", "today 21:00", "3pm", "09:30",
// "May 1 09:30", "April 17 2026 3pm".
func parseAbsolute(tokens []string, loc *time.Location, now time.Time) (time.Time, bool) {
	localNow := now.In(loc)

	day, month, year := 0, time.Month(0), 0
	hour, minute := -1, 0
	dayOffset := -1
	i := 0

	for i < len(tokens) {
		tok := strings.ToLower(strings.TrimSuffix(tokens[i], ","))
		switch {
		case tok == "tomorrow" && dayOffset < 0 && month == 0:
			dayOffset = 1
			i++
		case tok == "today" && dayOffset < 0 && month == 0:
			dayOffset = 0
			i++
		case months[tok] != 0 && month == 0:
			// "April 17 [2026]" or trailing month of "17 of April"
			month = months[tok]
			i++
			if day == 0 {
				if i >= len(tokens) {
					return time.Time{}, false
				}
				d, ok := parseDayNumber(tokens[i])
				if !ok {
					return time.Time{}, false
				}
				day = d
				i++
			}
			if i < len(tokens) {
				if y, ok := parseYear(tokens[i]); ok {
					year = y
					i++
				}
			}
		case tok == "of" && day != 0 && month == 0:
			i++
		case day == 0 && month == 0 && dayOffset < 0 && hour < 0:
			d, ok := parseDayNumber(tok)
			if ok && i+1 < len(tokens) {
				// day-first: "17 of April", "17 April"
				next := strings.ToLower(tokens[i+1])
				if next == "of" || months[next] != 0 {
					day = d
					i++
					continue
				}
			}
			h, m, ok := parseClock(tok)
			if !ok {
				return time.Time{}, false
			}
			hour, minute = h, m
			i++
		default:
			if hour < 0 {
				h, m, ok := parseClock(tok)
				if ok {
					hour, minute = h, m
					i++
					continue
				}
			}
			return time.Time{}, false
		}
	}

	if month == 0 && dayOffset < 0 && hour < 0 {
		return time.Time{}, false
	}
	if day != 0 && month == 0 {
		return time.Time{}, false
	}

	h, m := hour, minute
	if h < 0 {
		if month != 0 || dayOffset >= 0 {
			h, m = 9, 0 // date with no clock defaults to 09:00 local
		} else {
			return time.Time{}, false
		}
	}

	var due time.Time
	switch {
	case month != 0:
		y := year
		if y == 0 {
			y = localNow.Year()
		}
		due = time.Date(y, month, day, h, m, 0, 0, loc)
		// No explicit year and already past: roll into next year.
		if year == 0 && !due.After(localNow) {
			due = time.Date(y+1, month, day, h, m, 0, 0, loc)
		}
	case dayOffset >= 0:
		base := localNow.AddDate(0, 0, dayOffset)
		due = time.Date(base.Year(), base.Month(), base.Day(), h, m, 0, 0, loc)
	default:
		// clock only: today, or tomorrow if already past
		due = time.Date(localNow.Year(), localNow.Month(), localNow.Day(), h, m, 0, 0, loc)
		if !due.After(localNow) {
			due = due.AddDate(0, 0, 1)
		}
	}
	return due, true
}

func parseDayNumber(tok string) (int, bool) {
	tok = strings.ToLower(strings.TrimSuffix(tok, ","))
	for _, suf := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(tok, suf) && len(tok) > len(suf) {
			tok = strings.TrimSuffix(tok, suf)
			break
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

func parseYear(tok string) (int, bool) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 2000 || n > 2100 {
		return 0, false
	}
	return n, true
}

// parseClock accepts "3pm", "3:30pm", "15:04", "09:30". A bare number with
// no am/pm and no colon is rejected so day numbers don't read as hours.
func parseClock(tok string) (int, int, bool) {
	m := clockRe.FindStringSubmatch(strings.ToLower(tok))
	if m == nil {
		return 0, 0, false
	}
	if m[2] == "" && m[3] == "" {
		return 0, 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch m[3] {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, 0, false
		}
	}
	if minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
