package services

import (
	"errors"
	"fmt"
)

// Errors surfaced at the orchestration boundary. Handlers map these onto
// HTTP statuses; none of them is ever fatal to the process.
var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// user and none is present. Detected before any I/O happens.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCredentials is returned for any login failure; it stays
	// generic on purpose so it does not reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCancelNotAllowed is returned when an order's current status does
	// not permit owner cancellation.
	ErrCancelNotAllowed = errors.New("order can no longer be cancelled")
	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStatus is returned for an unknown order status value.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidShipping wraps shipping-form validation failures.
	ErrInvalidShipping = errors.New("invalid shipping info")
)

// StockError reports which product could not satisfy the requested
// quantity during checkout.
type StockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.Name, e.Requested, e.Available)
}
