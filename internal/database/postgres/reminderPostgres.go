package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/entity"
)

const reminderColumns = `
	id, user_id, guild_id, channel_id, text, due, created_at, timezone,
	recurring, status, undelivered, failed_ticks, note, completed_at,
	last_delivered_at`

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Insert(ctx context.Context, reminder *entity.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, user_id, guild_id, channel_id, text, due, created_at,
			timezone, recurring, status, undelivered, failed_ticks, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.GuildID,
		reminder.ChannelID,
		reminder.Text,
		reminder.Due,
		reminder.CreatedAt,
		reminder.Timezone,
		reminder.Recurring,
		reminder.Status,
		reminder.Undelivered,
		reminder.FailedTicks,
		reminder.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %v", err)
	}
	return nil
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*entity.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	reminder, err := scanReminder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}
	return reminder, nil
}

// GetDue returns the batch of active reminders ready for delivery. Ties on
// due are broken by id so ticks iterate in a stable order.
func (r *reminderRepository) GetDue(ctx context.Context, now time.Time, batch int) ([]*entity.Reminder, error) {
	if batch <= 0 || batch > 100 {
		batch = 100
	}
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE status = 'active' AND due <= $1
		ORDER BY due, id
		LIMIT $2
	`
	return r.queryReminders(ctx, query, now, batch)
}

func (r *reminderRepository) GetUserReminders(ctx context.Context, userID string, limit int) ([]*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND status != 'completed'
		ORDER BY due, id
		LIMIT $2
	`
	return r.queryReminders(ctx, query, userID, limit)
}

func (r *reminderRepository) GetAllActive(ctx context.Context, limit int) ([]*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE status = 'active'
		ORDER BY due, id
		LIMIT $1
	`
	return r.queryReminders(ctx, query, limit)
}

func (r *reminderRepository) GetDueWithin(ctx context.Context, window time.Duration, limit int) ([]*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE status = 'active' AND due <= $1
		ORDER BY due, id
		LIMIT $2
	`
	return r.queryReminders(ctx, query, time.Now().Add(window), limit)
}

// Update applies a field-level patch. Concurrent writers resolve
// last-write-wins per field, which is all the scheduler and the views need.
func (r *reminderRepository) Update(ctx context.Context, id string, patch *entity.ReminderPatch) error {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if patch.Text != nil {
		sets = append(sets, "text = "+arg(*patch.Text))
	}
	if patch.Due != nil {
		sets = append(sets, "due = "+arg(*patch.Due))
	}
	if patch.Recurring != nil {
		sets = append(sets, "recurring = "+arg(*patch.Recurring))
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+arg(*patch.Status))
	}
	if patch.Undelivered != nil {
		sets = append(sets, "undelivered = "+arg(*patch.Undelivered))
	}
	if patch.FailedTicks != nil {
		sets = append(sets, "failed_ticks = "+arg(*patch.FailedTicks))
	}
	if patch.Note != nil {
		sets = append(sets, "note = "+arg(*patch.Note))
	}
	if patch.LastDeliveredAt != nil {
		sets = append(sets, "last_delivered_at = "+arg(*patch.LastDeliveredAt))
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE reminders SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrReminderNotFound
	}
	return nil
}

// MarkCompleted is idempotent: the status guard means a reminder completes
// at most once even if two ticks race.
func (r *reminderRepository) MarkCompleted(ctx context.Context, id string, note string, now time.Time) error {
	query := `
		UPDATE reminders
		SET status = 'completed', completed_at = $2, note = $3
		WHERE id = $1 AND status != 'completed'
	`
	if _, err := r.db.ExecContext(ctx, query, id, now, note); err != nil {
		return fmt.Errorf("failed to mark reminder completed: %v", err)
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrReminderNotFound
	}
	return nil
}

func (r *reminderRepository) CleanupCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM reminders
		WHERE status = 'completed' AND completed_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup completed reminders: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned reminders: %v", err)
	}
	return n, nil
}

func (r *reminderRepository) CheckConflict(ctx context.Context, userID string, due time.Time, window time.Duration) (*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND status = 'active' AND due BETWEEN $2 AND $3
		ORDER BY due, id
		LIMIT 1
	`
	reminder, err := scanReminder(r.db.QueryRowContext(ctx, query, userID, due.Add(-window), due.Add(window)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check conflict: %v", err)
	}
	return reminder, nil
}

func (r *reminderRepository) queryReminders(ctx context.Context, query string, args ...interface{}) ([]*entity.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %v", err)
	}
	defer rows.Close()

	var reminders []*entity.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %v", err)
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (*entity.Reminder, error) {
	var reminder entity.Reminder
	var completedAt, lastDeliveredAt sql.NullTime
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.GuildID,
		&reminder.ChannelID,
		&reminder.Text,
		&reminder.Due,
		&reminder.CreatedAt,
		&reminder.Timezone,
		&reminder.Recurring,
		&reminder.Status,
		&reminder.Undelivered,
		&reminder.FailedTicks,
		&reminder.Note,
		&completedAt,
		&lastDeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		reminder.CompletedAt = &completedAt.Time
	}
	if lastDeliveredAt.Valid {
		reminder.LastDeliveredAt = &lastDeliveredAt.Time
	}
	return &reminder, nil
}
