package request

import "github.com/google/uuid"

// AddCartItemRequest adds a product to the cashier's cart. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetCartCustomerRequest selects the customer; a null customer_id clears it
type SetCartCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// BillingAdjustmentsRequest carries the checkout options priced by the calculator
type BillingAdjustmentsRequest struct {
	DiscountPercent  float64 `json:"discount_percent"`
	TaxEnabled       *bool   `json:"tax_enabled"`
	DeliveryFee      float64 `json:"delivery_fee"`
	CreditsRequested float64 `json:"credits_requested"`
	TipAmount        float64 `json:"tip_amount"`
	PaymentMethod    string  `json:"payment_method"`
	AdvanceAmount    float64 `json:"advance_amount"`
}
