package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/quicktickets/backend/internal/model"
)

// OrderRepo provides persistence for orders. Orders are immutable
// receipts; there is no update path, only creation and administrative
// deletion.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts a new order within the scope of an existing
// transaction, generating its ID. The caller must commit or rollback.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	o.ID = uuid.New().String()
	o.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO orders (id, event_id, buyer_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, o.ID, o.EventID, o.BuyerID, o.Quantity, o.CreatedAt)
	return err
}

// GetByID returns an order or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const q = `SELECT id, event_id, buyer_id, quantity, created_at FROM orders WHERE id = ?`
	var o model.Order
	err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.EventID, &o.BuyerID, &o.Quantity, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByBuyer returns all orders placed by a user, newest first.
func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	const q = `SELECT id, event_id, buyer_id, quantity, created_at FROM orders WHERE buyer_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.EventID, &o.BuyerID, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Delete removes an order. Administrative use only; tickets issued for
// the order are left in place.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
