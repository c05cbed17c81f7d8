package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quicktickets/backend/internal/model"
)

// PurchaseRepo runs the durable half of a purchase as one transaction:
// conditional availability decrement, order insert and batch ticket
// insert either all commit or all roll back. A failed ticket insert
// therefore cannot leave a recorded order with lost capacity behind.
type PurchaseRepo struct {
	db      *sql.DB
	events  *EventRepo
	orders  *OrderRepo
	tickets *TicketRepo
}

// NewPurchaseRepo composes the three repositories the purchase
// transaction spans. All arguments must share the same database.
func NewPurchaseRepo(db *sql.DB, events *EventRepo, orders *OrderRepo, tickets *TicketRepo) *PurchaseRepo {
	if events == nil || orders == nil || tickets == nil {
		panic("nil repository passed to NewPurchaseRepo")
	}
	return &PurchaseRepo{db: db, events: events, orders: orders, tickets: tickets}
}

// Execute persists one purchase atomically. The order's quantity must
// equal len(tickets); ticket IDs and payloads are supplied by the
// caller. On ErrInsufficientAvailability or ErrEventNotFound nothing
// is written.
func (r *PurchaseRepo) Execute(ctx context.Context, order *model.Order, tickets []model.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.events.DecrementAvailabilityTx(ctx, tx, order.EventID, order.Quantity); err != nil {
		return err
	}
	if err := r.orders.CreateTx(ctx, tx, order); err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	if err := r.tickets.InsertBatchTx(ctx, tx, tickets); err != nil {
		return fmt.Errorf("issue tickets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase tx: %w", err)
	}
	committed = true
	return nil
}
