package service

import "errors"

// ErrInvalidQuantity rejects non-positive ticket quantities before any
// storage work happens.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")
