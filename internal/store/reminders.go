// ABOUTME: SQLite persistence for one-shot reminders.
// ABOUTME: Due reminders are selected by the scheduler and marked fired after delivery.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateReminder stores a new reminder, assigning an ID if unset.
func (s *SQLiteStore) CreateReminder(ctx context.Context, r *Reminder) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, agent_id, message, at, fired, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, r.ID, r.AgentID, r.Message, r.At.UTC().Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339))
	return err
}

// ListReminders returns an agent's reminders, soonest first. Fired
// reminders are excluded unless includeFired is set.
func (s *SQLiteStore) ListReminders(ctx context.Context, agentID string, includeFired bool) ([]*Reminder, error) {
	query := `
		SELECT id, agent_id, message, at, fired, created_at
		FROM reminders WHERE agent_id = ?
	`
	if !includeFired {
		query += ` AND fired = 0`
	}
	query += ` ORDER BY at`

	rows, err := s.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanReminders(rows)
}

// DeleteReminder removes a reminder by ID. Deleting an unknown ID returns
// ErrNotFound.
func (s *SQLiteStore) DeleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: reminder %s", ErrNotFound, id)
	}
	return nil
}

// DueReminders returns unfired reminders whose time has passed.
func (s *SQLiteStore) DueReminders(ctx context.Context, now time.Time) ([]*Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, message, at, fired, created_at
		FROM reminders WHERE fired = 0 AND at <= ? ORDER BY at
	`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanReminders(rows)
}

// MarkReminderFired flags a reminder as delivered.
func (s *SQLiteStore) MarkReminderFired(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET fired = 1 WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReminders(rows rowScanner) ([]*Reminder, error) {
	var reminders []*Reminder
	for rows.Next() {
		var r Reminder
		var at, createdAt string
		var fired int
		if err := rows.Scan(&r.ID, &r.AgentID, &r.Message, &at, &fired, &createdAt); err != nil {
			return nil, err
		}
		atT, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("parsing at: %w", err)
		}
		createdT, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.At = atT
		r.CreatedAt = createdT
		r.Fired = fired != 0
		reminders = append(reminders, &r)
	}
	return reminders, rows.Err()
}
