package reconcile

import "errors"

// ErrInvalidInput is returned when an order or confirmation is missing or
// when the confirmation does not reference the given order.
var ErrInvalidInput = errors.New("invalid reconciliation input")
