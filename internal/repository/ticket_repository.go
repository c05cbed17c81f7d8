package repository

import (
	"context"
	"database/sql"

	"github.com/quicktickets/backend/internal/model"
)

// TicketRepo provides persistence for tickets. Tickets are created in
// batches by the purchase transaction and mutated only by Redeem.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// InsertBatchTx inserts all tickets in a single statement within the
// provided transaction. IDs and payloads must already be populated by
// the issuance service. Passing an empty slice is a no-op.
func (r *TicketRepo) InsertBatchTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (id, event_id, buyer_id, qr_payload, used, purchased_at) VALUES `
	args := make([]any, 0, len(tickets)*6)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, t.ID, t.EventID, t.BuyerID, t.QRPayload, t.Used, t.PurchasedAt)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns a ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	const q = `SELECT id, event_id, buyer_id, qr_payload, used, purchased_at FROM tickets WHERE id = ?`
	var t model.Ticket
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.EventID, &t.BuyerID, &t.QRPayload, &t.Used, &t.PurchasedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByBuyer returns all tickets issued to a user, newest first.
func (r *TicketRepo) ListByBuyer(ctx context.Context, buyerID string) ([]model.Ticket, error) {
	const q = `SELECT id, event_id, buyer_id, qr_payload, used, purchased_at FROM tickets WHERE buyer_id = ? ORDER BY purchased_at DESC`
	rows, err := r.db.QueryContext(ctx, q, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.BuyerID, &t.QRPayload, &t.Used, &t.PurchasedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Redeem flips the used flag of a ticket from false to true. The
// conditional update makes the transition monotonic under concurrent
// scans: the second scanner matches zero rows and gets ErrTicketUsed.
func (r *TicketRepo) Redeem(ctx context.Context, id string) error {
	const q = `UPDATE tickets SET used = 1 WHERE id = ? AND used = 0`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrTicketUsed
	}
	return nil
}
