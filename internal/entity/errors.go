package entity

import "errors"

var (
	// Reminder errors
	ErrReminderNotFound = errors.New("reminder not found")
	ErrEmptyText        = errors.New("reminder text is empty")
	ErrTextTooLong      = errors.New("reminder text exceeds 400 characters")
	ErrInvalidRecurring = errors.New("invalid recurrence frequency")
	ErrInvalidID        = errors.New("invalid reminder id format")

	// Time parsing errors
	ErrUnparsableTime = errors.New("could not parse a time from input")
	ErrTimeInPast     = errors.New("time is in the past")

	// Timezone errors
	ErrUnknownTimezone = errors.New("unknown timezone")

	// Authorization errors
	ErrNotOwner     = errors.New("only the reminder owner may do that")
	ErrAdminOnly    = errors.New("admin permission required")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrViewExpired  = errors.New("interactive view has expired")
	ErrUnauthorized = errors.New("unauthorized access")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
	ErrGuildNotFound = errors.New("guild configuration not found")
)
