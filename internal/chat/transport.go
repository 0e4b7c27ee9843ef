package chat

import (
	"context"
	"errors"
)

var (
	// ErrForbidden means the bot may not post in the target; the delivery
	// chain treats it as a soft failure and moves on.
	ErrForbidden = errors.New("transport: forbidden")
	// ErrNotFound means the channel or user no longer exists.
	ErrNotFound = errors.New("transport: not found")
	// ErrRateLimited means the platform asked us to back off.
	ErrRateLimited = errors.New("transport: rate limited")
)

// Transport is the chat platform surface the service depends on.
type Transport interface {
	// SendChannelMessage posts to a channel and returns the platform
	// message id.
	SendChannelMessage(ctx context.Context, channelID string, msg *Message) (string, error)
	// SendDirectMessage opens (or reuses) a DM with the user and posts.
	SendDirectMessage(ctx context.Context, userID string, msg *Message) (string, error)
	// CanSendEmbed reports whether the bot may post an embed with mentions
	// in the channel. Checked before each delivery attempt.
	CanSendEmbed(ctx context.Context, channelID string) (bool, error)
	// EditMessage replaces the content and components of a sent message;
	// the paginator uses it to flip pages in place.
	EditMessage(ctx context.Context, channelID, messageID string, msg *Message) error
	// DisableComponents strips the interactive rows from a sent message,
	// used when a view times out or is consumed.
	DisableComponents(ctx context.Context, channelID, messageID string) error
}

// SoftFailure reports whether a transport error should advance the fallback
// chain rather than abort the delivery.
func SoftFailure(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound)
}
