package model

import "time"

// ReminderJob is a persisted one-shot notification tied to an event's
// timeline. Two jobs are recorded per order: one a week before the
// event and one at the start of the event's calendar day. Unsent jobs
// are re-armed by a sweep at process startup, so reminders survive
// restarts.
type ReminderJob struct {
	ID        string    // reminder_jobs.id
	OrderID   string    // reminder_jobs.order_id
	Email     string    // reminder_jobs.email
	FullName  string    // reminder_jobs.full_name
	EventID   string    // reminder_jobs.event_id
	EventName string    // reminder_jobs.event_name
	StartsAt  time.Time // reminder_jobs.starts_at
	Quantity  int       // reminder_jobs.quantity
	FireAt    time.Time // reminder_jobs.fire_at
	Sent      bool      // reminder_jobs.sent
	CreatedAt time.Time // reminder_jobs.created_at
}
