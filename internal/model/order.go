package model

import "time"

// Order is the durable receipt of a purchase request. Orders are
// immutable after creation; they are never updated, only created or
// administratively deleted.
type Order struct {
	ID        string    // orders.id
	EventID   string    // orders.event_id
	BuyerID   string    // orders.buyer_id
	Quantity  int       // orders.quantity
	CreatedAt time.Time // orders.created_at
}
