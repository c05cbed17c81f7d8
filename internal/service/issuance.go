package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/quicktickets/backend/internal/model"
)

// Issuer materializes ticket records for a purchase. Each ticket gets
// a fresh UUID and a QR payload that is simply the public verification
// URL for that UUID, so scanning a code needs no decoding beyond the
// trailing path segment.
type Issuer struct {
	baseURL string
}

// NewIssuer constructs an Issuer. baseURL is the externally reachable
// root of this API, e.g. https://tickets.example.com.
func NewIssuer(baseURL string) *Issuer {
	return &Issuer{baseURL: strings.TrimRight(baseURL, "/")}
}

// Issue builds exactly quantity ticket records for the event/buyer
// pair, each with a distinct ID and payload. The records are not
// persisted here; the purchase transaction inserts them so issuance
// and the availability decrement commit together.
func (i *Issuer) Issue(eventID, buyerID string, quantity int) []model.Ticket {
	now := time.Now().UTC()
	tickets := make([]model.Ticket, quantity)
	for n := range tickets {
		id := uuid.New().String()
		tickets[n] = model.Ticket{
			ID:          id,
			EventID:     eventID,
			BuyerID:     buyerID,
			QRPayload:   i.VerificationURL(id),
			Used:        false,
			PurchasedAt: now,
		}
	}
	return tickets
}

// VerificationURL returns the URL a ticket's QR code encodes.
func (i *Issuer) VerificationURL(ticketID string) string {
	return fmt.Sprintf("%s/v1/tickets/%s", i.baseURL, ticketID)
}

// QRCodePNG renders the scannable image artifact for a ticket.
func (i *Issuer) QRCodePNG(t *model.Ticket) ([]byte, error) {
	png, err := qrcode.Encode(t.QRPayload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr for ticket %s: %w", t.ID, err)
	}
	return png, nil
}
