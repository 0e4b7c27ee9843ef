package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/chat"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/interaction"
)

// fallbackChannels are tried in order when the original channel refuses the
// send.
var fallbackChannels = []string{"bot-spam", "general", "reminders", "chat"}

const snoozeViewTimeout = 300 * time.Second

// deliver walks the fallback chain: original channel, then named guild
// fallbacks, then DM. Stops at the first success. Forbidden/not-found are
// soft failures that advance the chain; anything else is logged and also
// advances.
func (s *Scheduler) deliver(ctx context.Context, reminder *entity.Reminder, now time.Time) bool {
	msg := chat.RenderDelivery(reminder, now)
	msg.Components = [][]chat.Component{interaction.SnoozeRow(reminder.ID)}

	if reminder.ChannelID != "" {
		if s.tryChannel(ctx, reminder, reminder.ChannelID, msg, now) {
			return true
		}
	}

	if reminder.GuildID != "" {
		for _, name := range fallbackChannels {
			channelID, ok := s.guilds.ResolveChannel(ctx, reminder.GuildID, name)
			if !ok || channelID == reminder.ChannelID {
				continue
			}
			if s.tryChannel(ctx, reminder, channelID, msg, now) {
				logrus.Infof("Reminder %s delivered via fallback channel #%s", reminder.ID, name)
				return true
			}
		}
	}

	messageID, err := s.transport.SendDirectMessage(ctx, reminder.UserID, msg)
	if err != nil {
		logrus.Warnf("DM delivery failed for reminder %s: %v", reminder.ID, err)
		return false
	}
	s.recordDelivery(ctx, reminder, reminder.UserID, messageID, now)
	logrus.Infof("Reminder %s delivered via DM", reminder.ID)
	return true
}

func (s *Scheduler) tryChannel(ctx context.Context, reminder *entity.Reminder, channelID string, msg *chat.Message, now time.Time) bool {
	ok, err := s.transport.CanSendEmbed(ctx, channelID)
	if err != nil {
		if !chat.SoftFailure(err) {
			logrus.Warnf("Permission check failed for channel %s: %v", channelID, err)
		}
		return false
	}
	if !ok {
		return false
	}

	messageID, err := s.transport.SendChannelMessage(ctx, channelID, msg)
	if err != nil {
		if !chat.SoftFailure(err) {
			logrus.Warnf("Send to channel %s failed for reminder %s: %v", channelID, reminder.ID, err)
		}
		return false
	}

	s.recordDelivery(ctx, reminder, channelID, messageID, now)
	return true
}

// recordDelivery stamps last_delivered_at and registers the snooze view for
// the delivered message. Both are best-effort: a failed bookkeeping write
// must not turn a delivered reminder back into an undelivered one.
func (s *Scheduler) recordDelivery(ctx context.Context, reminder *entity.Reminder, channelID, messageID string, now time.Time) {
	if err := s.repo.Update(ctx, reminder.ID, &entity.ReminderPatch{LastDeliveredAt: &now}); err != nil {
		logrus.Warnf("Failed to record delivery time for reminder %s: %v", reminder.ID, err)
	}

	state := interaction.ViewState{
		Kind:       interaction.ViewSnooze,
		ReminderID: reminder.ID,
		OwnerID:    reminder.UserID,
		ChannelID:  channelID,
	}
	if err := s.views.SetViewState(ctx, messageID, state, snoozeViewTimeout); err != nil {
		logrus.Warnf("Failed to register snooze view for reminder %s: %v", reminder.ID, err)
	}
}
