// Package repository implements all MySQL persistence for the service.
// Sentinel errors declared here let handlers map failure scenarios onto
// HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when a user id or email does not resolve.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering with an email that already
// belongs to an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrEventNotFound is returned when an event id does not resolve or the
// event has been deactivated.
var ErrEventNotFound = errors.New("event not found")

// ErrInsufficientAvailability is returned when a purchase requests more
// tickets than the event has left. The event row is left untouched.
var ErrInsufficientAvailability = errors.New("insufficient availability")

// ErrCategoryNotFound is returned when a category id does not resolve.
var ErrCategoryNotFound = errors.New("category not found")

// ErrOrderNotFound is returned when an order id does not resolve.
var ErrOrderNotFound = errors.New("order not found")

// ErrTicketNotFound is returned when a ticket id does not resolve.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrTicketUsed is returned when redeeming a ticket that has already
// been scanned. The used flag is monotonic; there is no reverse path.
var ErrTicketUsed = errors.New("ticket already used")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
