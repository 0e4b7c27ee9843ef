package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/service"
)

// ReminderCleanupWorker purges completed reminders past the retention
// window on a fixed interval.
type ReminderCleanupWorker struct {
	reminderService service.ReminderService
	interval        time.Duration
	retentionDays   int
}

func NewReminderCleanupWorker(reminderService service.ReminderService, interval time.Duration, retentionDays int) *ReminderCleanupWorker {
	return &ReminderCleanupWorker{
		reminderService: reminderService,
		interval:        interval,
		retentionDays:   retentionDays,
	}
}

func (w *ReminderCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Reminder cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanupCompletedReminders(ctx)
		}
	}
}

func (w *ReminderCleanupWorker) cleanupCompletedReminders(ctx context.Context) {
	count, err := w.reminderService.Cleanup(ctx, w.retentionDays)
	if err != nil {
		logrus.Errorf("Failed to clean up completed reminders: %v", err)
		return
	}

	if count == 0 {
		logrus.Debug("No completed reminders past retention")
		return
	}

	logrus.WithFields(logrus.Fields{
		"removed":        count,
		"retention_days": w.retentionDays,
	}).Info("Completed reminders cleanup finished")
}
