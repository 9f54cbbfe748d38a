package service

import (
	"math"

	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/shopspring/decimal"
)

// BillingAdjustments are the checkout options a cashier can change while
// building an order. A nil TaxEnabled means tax is on.
type BillingAdjustments struct {
	DiscountPercent  float64
	TaxEnabled       *bool
	DeliveryFee      float64
	CreditsRequested float64
	TipAmount        float64
	PaymentMethod    billing.PaymentMethod
	AdvanceAmount    float64
}

// billingInput turns cart lines and adjustments into a calculator input.
// Credits are capped at creditCap when it is non-nil.
func (a BillingAdjustments) billingInput(items []entity.CartItem, creditCap *decimal.Decimal) billing.Input {
	lines := make([]billing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, billing.Line{
			UnitPrice: billing.FromCents(item.UnitPrice),
			Quantity:  item.Quantity,
		})
	}

	in := billing.NewInput(lines, a.PaymentMethod)
	if a.TaxEnabled != nil {
		in.TaxEnabled = *a.TaxEnabled
	}
	in.DiscountPercent = finite(a.DiscountPercent)
	in.DeliveryFee = wholeCents(a.DeliveryFee)
	in.TipAmount = wholeCents(a.TipAmount)
	in.AdvanceAmount = wholeCents(a.AdvanceAmount)

	credits := wholeCents(a.CreditsRequested)
	if creditCap != nil {
		credits = decimal.Min(credits, *creditCap)
	}
	in.CreditsRequested = credits

	return in
}

// wholeCents rounds a requested amount to whole cents so every stored figure
// derives from the same value
func wholeCents(f float64) decimal.Decimal {
	return billing.Amount(f).Round(2)
}

// finite keeps the sign so the calculator's discount clamp sees out-of-range values
func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// customerCreditCap returns the spendable balance of the selected customer, or
// zero when no customer is selected.
func customerCreditCap(customer *entity.Customer) decimal.Decimal {
	if customer == nil || customer.CreditBalance <= 0 {
		return decimal.Zero
	}
	return billing.FromCents(customer.CreditBalance)
}
