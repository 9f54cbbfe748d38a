package response

import (
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/shopspring/decimal"
)

// BillingBreakdown is the priced cart shown next to the checkout form
type BillingBreakdown struct {
	ItemCount        int     `json:"item_count"`
	Subtotal         float64 `json:"subtotal"`
	DiscountPercent  float64 `json:"discount_percent"`
	DiscountAmount   float64 `json:"discount_amount"`
	DeliveryFee      float64 `json:"delivery_fee"`
	TaxEnabled       bool    `json:"tax_enabled"`
	TaxableBase      float64 `json:"taxable_base"`
	TaxAmount        float64 `json:"tax_amount"`
	CreditsApplied   float64 `json:"credits_applied"`
	CreditsAvailable float64 `json:"credits_available"`
	TipAmount        float64 `json:"tip_amount"`
	FinalTotal       float64 `json:"final_total"`
	PaymentMethod    string  `json:"payment_method"`
	AdvanceAmount    float64 `json:"advance_amount"`
	BalanceAmount    float64 `json:"balance_amount"`
}

// NewBillingBreakdown rounds a billing result for display
func NewBillingBreakdown(in billing.Input, result billing.Result, itemCount int, creditsAvailable int64) BillingBreakdown {
	r := result.Rounded()
	return BillingBreakdown{
		ItemCount:        itemCount,
		Subtotal:         r.Subtotal.InexactFloat64(),
		DiscountPercent:  billing.ClampDiscount(in.DiscountPercent).InexactFloat64(),
		DiscountAmount:   r.DiscountAmount.InexactFloat64(),
		DeliveryFee:      round(in.DeliveryFee),
		TaxEnabled:       in.TaxEnabled,
		TaxableBase:      r.TaxableBase.InexactFloat64(),
		TaxAmount:        r.TaxAmount.InexactFloat64(),
		CreditsApplied:   r.CreditsApplied.InexactFloat64(),
		CreditsAvailable: billing.FromCents(creditsAvailable).InexactFloat64(),
		TipAmount:        round(in.TipAmount),
		FinalTotal:       r.FinalTotal.InexactFloat64(),
		PaymentMethod:    string(in.PaymentMethod),
		AdvanceAmount:    round(in.AdvanceAmount),
		BalanceAmount:    r.BalanceAmount.InexactFloat64(),
	}
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
