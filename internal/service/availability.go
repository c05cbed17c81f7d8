// Package service implements the purchase business logic between the
// HTTP handlers and the repository layer. Dependencies are narrow
// interfaces supplied at construction so every service can be tested
// against mocks.
package service

import (
	"context"
	"fmt"
)

// LedgerReader reads the capacity ledger. Implemented by
// repository.EventRepo.
type LedgerReader interface {
	Availability(ctx context.Context, eventID string) (int, error)
}

// AvailabilityService gates capacity consumption for purchases. Check
// is the side-effect-free half; the decrement half lives inside the
// purchase transaction and is never exposed on its own, so the ledger
// cannot be decremented outside an order.
type AvailabilityService struct {
	ledger LedgerReader
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(ledger LedgerReader) *AvailabilityService {
	return &AvailabilityService{ledger: ledger}
}

// Check reports whether the event can currently satisfy a purchase of
// the requested quantity. It never mutates state; repeated calls with
// no intervening writes return the same answer. Unknown events
// propagate repository.ErrEventNotFound.
func (s *AvailabilityService) Check(ctx context.Context, eventID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, ErrInvalidQuantity
	}
	avail, err := s.ledger.Availability(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("read availability: %w", err)
	}
	return avail >= quantity, nil
}
