package request

// CheckoutRequest turns the cashier's cart into an order.
// CollectionDate accepts 2006-01-02 or RFC 3339.
type CheckoutRequest struct {
	BillingAdjustmentsRequest
	CollectionDate  string  `json:"collection_date"`
	DeliveryAddress *string `json:"delivery_address"`
	Notes           *string `json:"notes"`
}

// UpdateOrderStatusRequest moves an order to the named status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PayDueRequest settles part or all of an order's outstanding balance
type PayDueRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}
