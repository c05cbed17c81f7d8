package model

import "time"

// Ticket is one redeemable admission unit. An order of quantity N
// yields exactly N ticket rows, each independently scannable. The QR
// payload is a verification URL ending in the ticket's own ID, so
// redemption needs nothing but the ID itself. The used flag only ever
// transitions false -> true.
type Ticket struct {
	ID          string    // tickets.id
	EventID     string    // tickets.event_id
	BuyerID     string    // tickets.buyer_id
	QRPayload   string    // tickets.qr_payload
	Used        bool      // tickets.used
	PurchasedAt time.Time // tickets.purchased_at
}
