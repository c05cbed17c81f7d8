package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/quicktickets/backend/internal/model"
)

// ReminderRepo persists one-shot reminder jobs so that pending
// reminders survive a process restart. The scheduler re-arms all
// unsent jobs at startup and marks each sent after it fires.
type ReminderRepo struct {
	db *sql.DB
}

// NewReminderRepo returns a new ReminderRepo bound to the given database.
func NewReminderRepo(db *sql.DB) *ReminderRepo { return &ReminderRepo{db: db} }

// Insert records a new job, generating its ID.
func (r *ReminderRepo) Insert(ctx context.Context, j *model.ReminderJob) error {
	j.ID = uuid.New().String()
	j.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO reminder_jobs (id, order_id, email, full_name, event_id, event_name, starts_at, quantity, fire_at, sent)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`
	_, err := r.db.ExecContext(ctx, q, j.ID, j.OrderID, j.Email, j.FullName,
		j.EventID, j.EventName, j.StartsAt, j.Quantity, j.FireAt)
	return err
}

// Pending returns all unsent jobs, soonest first.
func (r *ReminderRepo) Pending(ctx context.Context) ([]model.ReminderJob, error) {
	const q = `SELECT id, order_id, email, full_name, event_id, event_name, starts_at, quantity, fire_at, sent, created_at
	           FROM reminder_jobs WHERE sent = 0 ORDER BY fire_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReminderJob
	for rows.Next() {
		var j model.ReminderJob
		if err := rows.Scan(&j.ID, &j.OrderID, &j.Email, &j.FullName, &j.EventID,
			&j.EventName, &j.StartsAt, &j.Quantity, &j.FireAt, &j.Sent, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// MarkSent flags a job as delivered. Idempotent.
func (r *ReminderRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reminder_jobs SET sent = 1 WHERE id = ?`, id)
	return err
}
