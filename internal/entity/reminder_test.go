package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeReminderText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain text", "take pills", "take pills", nil},
		{"control chars become spaces", "take\tpills\x00now", "take pills now", nil},
		{"newlines survive", "line one\nline two", "line one\nline two", nil},
		{"markdown divider collapsed", "before --- after", "before - after", nil},
		{"trimmed", "   padded   ", "padded", nil},
		{"empty", "   ", "", ErrEmptyText},
		{"too long", strings.Repeat("a", MaxReminderTextLen+1), "", ErrTextTooLong},
		{"exactly at cap", strings.Repeat("a", MaxReminderTextLen), strings.Repeat("a", MaxReminderTextLen), nil},
		{"cap counts runes not bytes", strings.Repeat("ñ", MaxReminderTextLen), strings.Repeat("ñ", MaxReminderTextLen), nil},
		{"one rune over", strings.Repeat("ñ", MaxReminderTextLen+1), "", ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeReminderText(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewReminderID(t *testing.T) {
	due := time.Date(2026, 6, 19, 18, 40, 0, 0, time.UTC)
	id := NewReminderID("user-1", due)

	parts := strings.SplitN(id, "_", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "user-1", parts[0])
	assert.Equal(t, "1781894400", parts[1])
	assert.Len(t, parts[2], 8)

	// Same inputs, distinct ids.
	assert.NotEqual(t, id, NewReminderID("user-1", due))
}

func TestNextOccurrenceMonthly(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Jan 31 + 1 month normalizes per AddDate semantics.
	due := time.Date(2026, 1, 31, 9, 0, 0, 0, loc).UTC()
	next := NextOccurrence(due, RecurringMonthly, loc)
	assert.Equal(t, time.March, next.In(loc).Month())

	due = time.Date(2026, 4, 15, 9, 0, 0, 0, loc).UTC()
	next = NextOccurrence(due, RecurringMonthly, loc)
	local := next.In(loc)
	assert.Equal(t, 15, local.Day())
	assert.Equal(t, time.May, local.Month())
	assert.Equal(t, 9, local.Hour())
}

func TestValidRecurring(t *testing.T) {
	assert.True(t, ValidRecurring(RecurringNone))
	assert.True(t, ValidRecurring(RecurringDaily))
	assert.True(t, ValidRecurring(RecurringWeekly))
	assert.True(t, ValidRecurring(RecurringMonthly))
	assert.False(t, ValidRecurring("hourly"))
	assert.False(t, ValidRecurring("yearly"))
}
