package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/modbot/remindersvc/internal/database/postgres"
	"github.com/modbot/remindersvc/internal/entity"
	"github.com/modbot/remindersvc/internal/timeparse"
	"github.com/modbot/remindersvc/internal/timezone"
)

const (
	conflictWindow  = 5 * time.Minute
	defaultListSize = 50
)

type reminderService struct {
	repo     repository.ReminderRepository
	registry *timezone.Registry
}

func NewReminderService(repo repository.ReminderRepository, registry *timezone.Registry) ReminderService {
	return &reminderService{repo: repo, registry: registry}
}

func (s *reminderService) Create(ctx context.Context, input *CreateInput) (*CreateResult, error) {
	zoneName, loc := s.registry.Get(ctx, input.UserID)

	due := input.Due
	text := input.Text
	if input.Raw != "" {
		parsed, err := timeparse.Parse(input.Raw, loc)
		if err != nil {
			return nil, err
		}
		due = parsed.Due
		text = parsed.Message
	}

	now := time.Now()
	if !due.After(now) {
		return nil, entity.ErrTimeInPast
	}

	text, err := entity.SanitizeReminderText(text)
	if err != nil {
		return nil, err
	}

	if input.Recurring != "" && !entity.ValidRecurring(input.Recurring) {
		return nil, entity.ErrInvalidRecurring
	}

	reminder := &entity.Reminder{
		ID:        entity.NewReminderID(input.UserID, due),
		UserID:    input.UserID,
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		Text:      text,
		Due:       due.UTC(),
		CreatedAt: now.UTC(),
		Timezone:  zoneName,
		Recurring: input.Recurring,
		Status:    entity.StatusActive,
	}

	// Advisory only: a nearby reminder never blocks creation.
	conflict, err := s.repo.CheckConflict(ctx, input.UserID, reminder.Due, conflictWindow)
	if err != nil {
		logrus.Warnf("conflict check failed for user %s: %v", input.UserID, err)
		conflict = nil
	}

	if err := s.repo.Insert(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reminder_id": reminder.ID,
		"user_id":     reminder.UserID,
		"due":         reminder.Due,
		"recurring":   reminder.Recurring,
	}).Info("Reminder created")

	return &CreateResult{Reminder: reminder, Conflict: conflict, Timezone: zoneName}, nil
}

func (s *reminderService) Get(ctx context.Context, id string) (*entity.Reminder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reminderService) ListUser(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error) {
	if limit <= 0 {
		limit = defaultListSize
	}
	return s.repo.GetUserReminders(ctx, userID, limit)
}

// authorize loads the reminder and enforces owner-or-admin.
func (s *reminderService) authorize(ctx context.Context, id, requesterID string, isAdmin bool) (*entity.Reminder, error) {
	reminder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && reminder.UserID != requesterID {
		return nil, entity.ErrNotOwner
	}
	return reminder, nil
}

func (s *reminderService) Delete(ctx context.Context, id, requesterID string, isAdmin bool) error {
	if _, err := s.authorize(ctx, id, requesterID, isAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logrus.Infof("Reminder %s deleted by %s", id, requesterID)
	return nil
}

func (s *reminderService) EditText(ctx context.Context, id, requesterID string, isAdmin bool, text string) error {
	if _, err := s.authorize(ctx, id, requesterID, isAdmin); err != nil {
		return err
	}
	clean, err := entity.SanitizeReminderText(text)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, &entity.ReminderPatch{Text: &clean})
}

func (s *reminderService) EditDue(ctx context.Context, id, requesterID string, isAdmin bool, due time.Time) error {
	if _, err := s.authorize(ctx, id, requesterID, isAdmin); err != nil {
		return err
	}
	if !due.After(time.Now()) {
		return entity.ErrTimeInPast
	}
	due = due.UTC()
	undelivered := false
	failed := 0
	return s.repo.Update(ctx, id, &entity.ReminderPatch{
		Due:         &due,
		Undelivered: &undelivered,
		FailedTicks: &failed,
	})
}

// Snooze resets due to now+d and reactivates a just-delivered reminder.
func (s *reminderService) Snooze(ctx context.Context, id, requesterID string, isAdmin bool, d time.Duration) (*entity.Reminder, error) {
	reminder, err := s.authorize(ctx, id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	due := time.Now().Add(d).UTC()
	status := entity.StatusActive
	undelivered := false
	failed := 0
	patch := &entity.ReminderPatch{
		Due:         &due,
		Status:      &status,
		Undelivered: &undelivered,
		FailedTicks: &failed,
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	reminder.Due = due
	reminder.Status = status
	logrus.Infof("Reminder %s snoozed for %s", id, d)
	return reminder, nil
}

func (s *reminderService) SetRecurring(ctx context.Context, id, requesterID string, isAdmin bool, freq string) error {
	if !entity.ValidRecurring(freq) {
		return entity.ErrInvalidRecurring
	}
	if _, err := s.authorize(ctx, id, requesterID, isAdmin); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, &entity.ReminderPatch{Recurring: &freq})
}

func (s *reminderService) SetPaused(ctx context.Context, id, requesterID string, isAdmin bool, paused bool) error {
	reminder, err := s.authorize(ctx, id, requesterID, isAdmin)
	if err != nil {
		return err
	}
	if reminder.Status == entity.StatusCompleted {
		return entity.ErrReminderNotFound
	}
	status := entity.StatusActive
	if paused {
		status = entity.StatusPaused
	}
	return s.repo.Update(ctx, id, &entity.ReminderPatch{Status: &status})
}

func (s *reminderService) ListAllActive(ctx context.Context, limit int) ([]*entity.Reminder, error) {
	if limit <= 0 {
		limit = defaultListSize
	}
	return s.repo.GetAllActive(ctx, limit)
}

func (s *reminderService) ListDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error) {
	if limit <= 0 {
		limit = defaultListSize
	}
	return s.repo.GetDueWithin(ctx, window, limit)
}

func (s *reminderService) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		olderThanDays = 30
	}
	count, err := s.repo.CleanupCompleted(ctx, time.Duration(olderThanDays)*24*time.Hour)
	if err != nil {
		return 0, err
	}
	logrus.Infof("Cleanup removed %d completed reminders older than %d days", count, olderThanDays)
	return count, nil
}
