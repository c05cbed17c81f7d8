package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/quicktickets/backend/internal/model"
)

// EventRepo provides CRUD operations on the events table and owns the
// capacity ledger reads. The ledger is only ever written through
// DecrementAvailabilityTx inside the purchase transaction.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so orchestrating code can open
// transactions spanning several repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, name, description, image_url, starts_at, price_cents, capacity, availability, category, location, latitude, longitude, creator_id, is_active, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.ImageURL, &e.StartsAt,
		&e.PriceCents, &e.Capacity, &e.Availability, &e.Category, &e.Location,
		&e.Latitude, &e.Longitude, &e.CreatorID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event. Availability is initialized to capacity;
// the caller never supplies it.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	e.ID = uuid.New().String()
	e.Availability = e.Capacity
	e.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO events (id, name, description, image_url, starts_at, price_cents, capacity, availability, category, location, latitude, longitude, creator_id, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.Name, e.Description, e.ImageURL,
		e.StartsAt, e.PriceCents, e.Capacity, e.Availability, e.Category,
		e.Location, e.Latitude, e.Longitude, e.CreatorID, true)
	if err != nil {
		return err
	}
	e.IsActive = true
	return nil
}

// GetByID returns an event by primary key or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	return e, err
}

// List returns all active events, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE is_active = 1 ORDER BY starts_at`
	return r.queryEvents(ctx, q)
}

// ListByCreator returns every event posted by the given user, including
// inactive ones, so organizers can manage their full catalog.
func (r *EventRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE creator_id = ? ORDER BY starts_at`
	return r.queryEvents(ctx, q, creatorID)
}

func (r *EventRepo) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of an event. Capacity and
// availability are deliberately excluded: capacity is immutable and
// availability belongs to the purchase transaction.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET name = ?, description = ?, image_url = ?, starts_at = ?, price_cents = ?, category = ?, location = ?, latitude = ?, longitude = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Description, e.ImageURL,
		e.StartsAt, e.PriceCents, e.Category, e.Location, e.Latitude, e.Longitude,
		e.IsActive, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event by ID.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Availability reads the remaining purchasable ticket count for an
// event. Side-effect free; repeated calls with no intervening writes
// return the same value.
func (r *EventRepo) Availability(ctx context.Context, id string) (int, error) {
	const q = `SELECT availability FROM events WHERE id = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, ErrEventNotFound
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DecrementAvailabilityTx applies a conditional decrement to the
// capacity ledger. The WHERE clause makes the check-and-decrement a
// single indivisible statement: if another transaction consumed the
// remaining stock first, zero rows match and the caller gets
// ErrInsufficientAvailability with no write performed.
func (r *EventRepo) DecrementAvailabilityTx(ctx context.Context, tx *sql.Tx, id string, qty int) error {
	const q = `UPDATE events SET availability = availability - ? WHERE id = ? AND availability >= ?`
	res, err := tx.ExecContext(ctx, q, qty, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing event from an exhausted one.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrEventNotFound
			}
			return err
		}
		return ErrInsufficientAvailability
	}
	return nil
}
