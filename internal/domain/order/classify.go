package order

// IsPaymentPending reports whether the order went to the payment gateway and
// was never confirmed. Cash on delivery orders awaiting payment are not
// payment-pending; they wait on fulfillment.
func (o *Order) IsPaymentPending() bool {
	return o.PaymentStatus == PaymentStatusPending && o.PaymentMethod == PaymentMethodMercadoPago
}

// Classify splits orders into completed and payment-pending, keeping input order in each
func Classify(orders []Order) (completed, pending []Order) {
	completed = make([]Order, 0, len(orders))
	pending = make([]Order, 0)
	for _, o := range orders {
		if o.IsPaymentPending() {
			pending = append(pending, o)
		} else {
			completed = append(completed, o)
		}
	}
	return completed, pending
}
