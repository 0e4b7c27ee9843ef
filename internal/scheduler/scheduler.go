// Package scheduler owns the periodic due scan and the delivery engine.
package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/chat"
	repository "github.com/modbot/remindersvc/internal/database/postgres"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/service"
)

// ViewStore registers interactive view state for messages the scheduler
// sends (snooze buttons on delivered reminders).
type ViewStore interface {
	SetViewState(ctx context.Context, messageID string, state interface{}, timeout time.Duration) error
}

type Config struct {
	TickInterval   time.Duration
	BatchSize      int
	StopTimeout    time.Duration
	MaxFailedTicks int
}

type Scheduler struct {
	repo      repository.ReminderRepository
	transport chat.Transport
	guilds    service.GuildService
	views     ViewStore
	cfg       Config

	// tickMu is the processing lock: one tick at a time, contended ticks
	// are skipped rather than queued.
	tickMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(repo repository.ReminderRepository, transport chat.Transport, guilds service.GuildService, views ViewStore, cfg Config) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > 100 {
		cfg.BatchSize = 100
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 5 * time.Second
	}
	if cfg.MaxFailedTicks <= 0 {
		cfg.MaxFailedTicks = entity.MaxFailedTicks
	}
	return &Scheduler{
		repo:      repo,
		transport: transport,
		guilds:    guilds,
		views:     views,
		cfg:       cfg,
		done:      make(chan struct{}),
	}
}

// Start runs the periodic driver until the context is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	logrus.Infof("Reminder scheduler started (tick every %s)", s.cfg.TickInterval)

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx, time.Now())
		case <-ctx.Done():
			logrus.Info("Reminder scheduler stopped")
			return
		}
	}
}

// Stop cancels the driver and waits up to StopTimeout for an in-flight tick
// to drain. Forcing past the timeout is safe: each reminder's update is
// independent, so partial-tick progress never corrupts state.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	select {
	case <-s.done:
	case <-time.After(s.cfg.StopTimeout):
		logrus.Warn("Scheduler stop timed out, abandoning in-flight tick")
	}
}

// Tick is one due scan. The processing lock is non-blocking: if a previous
// tick still runs, this one is skipped.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	if !s.tickMu.TryLock() {
		logrus.Debug("Tick skipped: previous tick still running")
		return
	}
	defer s.tickMu.Unlock()

	due, err := s.repo.GetDue(ctx, now, s.cfg.BatchSize)
	if err != nil {
		logrus.Errorf("Due scan failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	logrus.Infof("Processing %d due reminders", len(due))
	for _, reminder := range due {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.processReminder(ctx, reminder, now)
	}
}

// processReminder handles one due reminder. Panics are contained here so a
// single bad record cannot stall the batch.
func (s *Scheduler) processReminder(ctx context.Context, reminder *entity.Reminder, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Panic processing reminder %s: %v\n%s", reminder.ID, r, debug.Stack())
		}
	}()

	delivered := s.deliver(ctx, reminder, now)

	if reminder.Recurring != entity.RecurringNone {
		s.reschedule(ctx, reminder, delivered, now)
		return
	}

	if delivered {
		if err := s.repo.MarkCompleted(ctx, reminder.ID, "", now); err != nil {
			logrus.Errorf("Failed to complete reminder %s: %v", reminder.ID, err)
		}
		return
	}

	failed := reminder.FailedTicks + 1
	if failed >= s.cfg.MaxFailedTicks {
		// Every path has failed for too long; complete with a note instead
		// of letting the backlog grow forever.
		if err := s.repo.MarkCompleted(ctx, reminder.ID, "delivery_failed", now); err != nil {
			logrus.Errorf("Failed to retire undeliverable reminder %s: %v", reminder.ID, err)
		}
		logrus.Warnf("Reminder %s retired after %d failed delivery ticks", reminder.ID, failed)
		return
	}

	undelivered := true
	err := s.repo.Update(ctx, reminder.ID, &entity.ReminderPatch{
		Undelivered: &undelivered,
		FailedTicks: &failed,
	})
	if err != nil {
		logrus.Errorf("Failed to flag undelivered reminder %s: %v", reminder.ID, err)
	}
}

// reschedule advances a recurring reminder to its next occurrence. This
// happens whether or not delivery worked; a stuck recurring record is worse
// than a missed occurrence.
func (s *Scheduler) reschedule(ctx context.Context, reminder *entity.Reminder, delivered bool, now time.Time) {
	loc, err := time.LoadLocation(reminder.Timezone)
	if err != nil {
		logrus.Warnf("Reminder %s has unloadable timezone %q, recurring in UTC", reminder.ID, reminder.Timezone)
		loc = time.UTC
	}

	next := entity.NextOccurrence(reminder.Due, reminder.Recurring, loc)
	// Catch up if the service was down across occurrences.
	for !next.After(now) {
		next = entity.NextOccurrence(next, reminder.Recurring, loc)
	}

	undelivered := !delivered
	failed := 0
	patch := &entity.ReminderPatch{
		Due:         &next,
		Undelivered: &undelivered,
		FailedTicks: &failed,
	}
	if delivered {
		patch.LastDeliveredAt = &now
	}
	if err := s.repo.Update(ctx, reminder.ID, patch); err != nil {
		logrus.Errorf("Failed to reschedule recurring reminder %s: %v", reminder.ID, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"reminder_id": reminder.ID,
		"next_due":    next,
		"delivered":   delivered,
	}).Info("Recurring reminder rescheduled")
}
