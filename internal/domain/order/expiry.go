package order

import (
	"fmt"
	"time"
)

// PaymentWindow is how long a payment-pending order can still be paid
const PaymentWindow = 48 * time.Hour

// ExpiresAt returns the end of the payment window
func ExpiresAt(createdAt time.Time) time.Time {
	return createdAt.Add(PaymentWindow)
}

// IsExpired reports whether the payment window has closed at now
func IsExpired(createdAt, now time.Time) bool {
	return !now.Before(ExpiresAt(createdAt))
}

// TimeRemaining renders the time left in the payment window as "Hh Mm remaining", or "Expired"
func TimeRemaining(createdAt, now time.Time) string {
	remaining := ExpiresAt(createdAt).Sub(now)
	if remaining <= 0 {
		return "Expired"
	}
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm remaining", hours, minutes)
}

// EnsurePayable checks that the order can still be sent to the payment gateway
func EnsurePayable(o *Order, now time.Time) error {
	if !o.IsPaymentPending() || o.Status == OrderStatusCancelled {
		return ErrNotPaymentPending
	}
	if IsExpired(o.CreatedAt, now) {
		return ErrPaymentWindowExpired
	}
	return nil
}
