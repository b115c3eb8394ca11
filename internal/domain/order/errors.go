package order

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrNotCancellable         = errors.New("order cannot be cancelled in its current status")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrNotPaymentPending      = errors.New("order is not awaiting payment")
	ErrPaymentWindowExpired   = errors.New("payment window has expired")
	ErrEmptyOrder             = errors.New("order has no items")
	ErrUnsupportedPaymentType = errors.New("unsupported payment method")
)
