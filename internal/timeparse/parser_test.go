package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modbot/remindersvc/internal/entity"
)

// mustLoc loads an IANA zone or fails the test.
func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParseDurations(t *testing.T) {
	loc := mustLoc(t, "America/La_Paz") // UTC-4, no DST
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		name    string
		input   string
		wantDue time.Time
		wantMsg string
	}{
		{
			name:    "in duration prefix",
			input:   "in 2 hours take pills",
			wantDue: now.Add(2 * time.Hour),
			wantMsg: "take pills",
		},
		{
			name:    "in 30 minutes",
			input:   "in 30 minutes check oven",
			wantDue: now.Add(30 * time.Minute),
			wantMsg: "check oven",
		},
		{
			name:    "bare duration words",
			input:   "5 minutes stretch",
			wantDue: now.Add(5 * time.Minute),
			wantMsg: "stretch",
		},
		{
			name:    "compact duration",
			input:   "30m drink water",
			wantDue: now.Add(30 * time.Minute),
			wantMsg: "drink water",
		},
		{
			name:    "glued duration",
			input:   "2h30m water plants",
			wantDue: now.Add(2*time.Hour + 30*time.Minute),
			wantMsg: "water plants",
		},
		{
			name:    "chained duration",
			input:   "in 2 hours 30 minutes leave for airport",
			wantDue: now.Add(2*time.Hour + 30*time.Minute),
			wantMsg: "leave for airport",
		},
		{
			name:    "week unit",
			input:   "1 week review budget",
			wantDue: now.Add(7 * 24 * time.Hour),
			wantMsg: "review budget",
		},
		{
			name:    "duration via word separator",
			input:   "call mom in 2 hours",
			wantDue: now.Add(2 * time.Hour),
			wantMsg: "call mom",
		},
		{
			name:    "char separator trimmed after duration",
			input:   "in 5 minutes - take a break",
			wantDue: now.Add(5 * time.Minute),
			wantMsg: "take a break",
		},
		{
			name:    "to trimmed after duration",
			input:   "in 1 hour to call mom",
			wantDue: now.Add(time.Hour),
			wantMsg: "call mom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseAt(tt.input, loc, now)
			require.NoError(t, err)
			assert.True(t, res.Due.Equal(tt.wantDue), "due = %v, want %v", res.Due, tt.wantDue)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, time.UTC, res.Due.Location())
		})
	}
}

func TestParseAbsolute(t *testing.T) {
	loc := mustLoc(t, "America/La_Paz")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	date := func(y int, mo time.Month, d, h, m int) time.Time {
		return time.Date(y, mo, d, h, m, 0, 0, loc)
	}

	tests := []struct {
		name    string
		input   string
		wantDue time.Time
		wantMsg string
	}{
		{
			name:    "month day with separator word",
			input:   "pay rent on april 17",
			wantDue: date(2026, time.April, 17, 9, 0),
			wantMsg: "pay rent",
		},
		{
			name:    "day of month form",
			input:   "17 of april pay rent",
			wantDue: date(2026, time.April, 17, 9, 0),
			wantMsg: "pay rent",
		},
		{
			name:    "ordinal day",
			input:   "april 17th pay rent",
			wantDue: date(2026, time.April, 17, 9, 0),
			wantMsg: "pay rent",
		},
		{
			name:    "explicit year",
			input:   "april 17 2027 renew passport",
			wantDue: date(2027, time.April, 17, 9, 0),
			wantMsg: "renew passport",
		},
		{
			name:    "date with clock",
			input:   "may 1 09:30 file taxes",
			wantDue: date(2026, time.May, 1, 9, 30),
			wantMsg: "file taxes",
		},
		{
			name:    "past date rolls to next year",
			input:   "january 5 ship it",
			wantDue: date(2027, time.January, 5, 9, 0),
			wantMsg: "ship it",
		},
		{
			name:    "tomorrow with clock",
			input:   "tomorrow 3pm take pills",
			wantDue: date(2026, time.March, 11, 15, 0),
			wantMsg: "take pills",
		},
		{
			name:    "tomorrow defaults to morning",
			input:   "tomorrow water plants",
			wantDue: date(2026, time.March, 11, 9, 0),
			wantMsg: "water plants",
		},
		{
			name:    "clock later today",
			input:   "take pills at 3pm",
			wantDue: date(2026, time.March, 10, 15, 0),
			wantMsg: "take pills",
		},
		{
			name:    "half hour clock",
			input:   "3:30pm standup",
			wantDue: date(2026, time.March, 10, 15, 30),
			wantMsg: "standup",
		},
		{
			name:    "passed clock rolls to tomorrow",
			input:   "9am meeting",
			wantDue: date(2026, time.March, 11, 9, 0),
			wantMsg: "meeting",
		},
		{
			name:    "time before to separator",
			input:   "5pm to call mom",
			wantDue: date(2026, time.March, 10, 17, 0),
			wantMsg: "call mom",
		},
		{
			name:    "date before to separator",
			input:   "tomorrow 9am to water plants",
			wantDue: date(2026, time.March, 11, 9, 0),
			wantMsg: "water plants",
		},
		{
			name:    "char separator",
			input:   "tomorrow 3pm | standup",
			wantDue: date(2026, time.March, 11, 15, 0),
			wantMsg: "standup",
		},
		{
			name:    "dash separator",
			input:   "april 17 - pay rent",
			wantDue: date(2026, time.April, 17, 9, 0),
			wantMsg: "pay rent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseAt(tt.input, loc, now)
			require.NoError(t, err)
			assert.True(t, res.Due.Equal(tt.wantDue), "due = %v, want %v", res.Due.In(loc), tt.wantDue)
			assert.Equal(t, tt.wantMsg, res.Message)
		})
	}
}

func TestParseErrors(t *testing.T) {
	loc := mustLoc(t, "America/La_Paz")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no time at all", "hello world", entity.ErrUnparsableTime},
		{"empty input", "   ", entity.ErrUnparsableTime},
		{"bare number is not a clock", "17 do thing", entity.ErrUnparsableTime},
		{"earlier today", "today 9am stretch", entity.ErrTimeInPast},
		{"explicit past year", "april 17 2025 renew passport", entity.ErrTimeInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAt(tt.input, loc, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// The same wall-clock input resolves to different instants depending on the
// user's zone.
func TestParseZoneDependence(t *testing.T) {
	laPaz := mustLoc(t, "America/La_Paz")
	tokyo := mustLoc(t, "Asia/Tokyo")
	// Midday UTC: both zones are on the same local date.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	resLaPaz, err := ParseAt("tomorrow 9am meeting", laPaz, now)
	require.NoError(t, err)
	resTokyo, err := ParseAt("tomorrow 9am meeting", tokyo, now)
	require.NoError(t, err)

	assert.False(t, resLaPaz.Due.Equal(resTokyo.Due))
	// La Paz is UTC-4, Tokyo UTC+9: thirteen hours apart.
	assert.Equal(t, 13*time.Hour, resLaPaz.Due.Sub(resTokyo.Due))
}

func TestParseDuePhrase(t *testing.T) {
	loc := mustLoc(t, "America/La_Paz")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	due, err := ParseDuePhrase("tomorrow 3pm", loc, now)
	require.NoError(t, err)
	assert.True(t, due.Equal(time.Date(2026, 3, 11, 15, 0, 0, 0, loc)))

	_, err = ParseDuePhrase("tomorrow 3pm extra words", loc, now)
	assert.ErrorIs(t, err, entity.ErrUnparsableTime)

	_, err = ParseDuePhrase("nonsense", loc, now)
	assert.ErrorIs(t, err, entity.ErrUnparsableTime)
}

func TestParseRuleOrderIsStable(t *testing.T) {
	loc := mustLoc(t, "America/La_Paz")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	// "in" reads as a duration prefix before anything else, even though "in"
	// is also a word separator.
	res, err := ParseAt("in 2 hours in the garden", loc, now)
	require.NoError(t, err)
	assert.Equal(t, "in-duration", res.Rule)
	assert.Equal(t, "in the garden", res.Message)

	res, err = ParseAt("2 hours in the garden", loc, now)
	require.NoError(t, err)
	assert.Equal(t, "duration", res.Rule)
	assert.Equal(t, "in the garden", res.Message)
}
