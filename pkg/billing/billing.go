// Package billing computes the cost breakdown of a laundry order.
//
// Everything in this package is pure: no I/O, no shared state. Callers parse
// and validate user input before building an Input; out-of-range numbers that
// still slip through are clamped to zero instead of producing an error.
package billing

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the VAT rate applied when tax is enabled (18%).
var DefaultTaxRate = decimal.RequireFromString("0.18")

var hundred = decimal.NewFromInt(100)

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const (
	PaymentAdvance    PaymentMethod = "advance"
	PaymentCollection PaymentMethod = "collection"
	PaymentDelivery   PaymentMethod = "delivery"
	PaymentCard       PaymentMethod = "card"
	PaymentCash       PaymentMethod = "cash"
	PaymentCheque     PaymentMethod = "cheque"
	PaymentAccount    PaymentMethod = "account"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentAdvance,
	PaymentCollection,
	PaymentDelivery,
	PaymentCard,
	PaymentCash,
	PaymentCheque,
	PaymentAccount,
}

// IsValid reports whether m is one of the known payment methods.
func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// PaidUpFront reports whether the whole total is collected at the counter.
func (m PaymentMethod) PaidUpFront() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentCheque
}

// Line is one product entry in a cart.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Input is everything the calculator needs to price a cart.
type Input struct {
	Lines            []Line
	DiscountPercent  decimal.Decimal
	TaxEnabled       bool
	DeliveryFee      decimal.Decimal
	CreditsRequested decimal.Decimal
	TipAmount        decimal.Decimal
	PaymentMethod    PaymentMethod
	AdvanceAmount    decimal.Decimal
}

// NewInput returns an Input with the documented defaults: tax enabled, every
// adjustment zero.
func NewInput(lines []Line, method PaymentMethod) Input {
	return Input{
		Lines:         lines,
		TaxEnabled:    true,
		PaymentMethod: method,
	}
}

// Result is the computed breakdown. Values are kept at full precision; use
// Rounded for display.
type Result struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	CreditsApplied decimal.Decimal `json:"credits_applied"`
	FinalTotal     decimal.Decimal `json:"final_total"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
func (r Result) Rounded() Result {
	return Result{
		Subtotal:       r.Subtotal.Round(2),
		DiscountAmount: r.DiscountAmount.Round(2),
		TaxableBase:    r.TaxableBase.Round(2),
		TaxAmount:      r.TaxAmount.Round(2),
		CreditsApplied: r.CreditsApplied.Round(2),
		FinalTotal:     r.FinalTotal.Round(2),
		BalanceAmount:  r.BalanceAmount.Round(2),
	}
}

// Calculator prices carts at a fixed tax rate.
type Calculator struct {
	TaxRate decimal.Decimal
}

// NewCalculator creates a calculator. A zero or negative rate falls back to
// DefaultTaxRate.
func NewCalculator(taxRate decimal.Decimal) *Calculator {
	if !taxRate.IsPositive() {
		taxRate = DefaultTaxRate
	}
	return &Calculator{TaxRate: taxRate}
}

// Compute prices in with DefaultTaxRate.
func Compute(in Input) Result {
	return (&Calculator{TaxRate: DefaultTaxRate}).Compute(in)
}

// Compute prices in. It never fails: negative amounts count as zero and a
// discount outside [0,100] is ignored.
func (c *Calculator) Compute(in Input) Result {
	rate := c.TaxRate
	if !rate.IsPositive() {
		rate = DefaultTaxRate
	}

	subtotal := decimal.Zero
	for _, line := range in.Lines {
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		subtotal = subtotal.Add(nonNegative(line.UnitPrice).Mul(decimal.NewFromInt(int64(qty))))
	}

	discountAmount := subtotal.Mul(ClampDiscount(in.DiscountPercent)).Div(hundred)
	deliveryFee := nonNegative(in.DeliveryFee)
	discounted := subtotal.Sub(discountAmount)
	taxableBase := discounted.Add(deliveryFee)

	taxAmount := decimal.Zero
	if in.TaxEnabled {
		taxAmount = taxableBase.Mul(rate)
	}

	creditsApplied := decimal.Min(nonNegative(in.CreditsRequested), decimal.Max(decimal.Zero, discounted))

	finalTotal := discounted.
		Add(deliveryFee).
		Add(taxAmount).
		Sub(creditsApplied).
		Add(nonNegative(in.TipAmount))

	balance := decimal.Zero
	if in.PaymentMethod == PaymentAdvance {
		balance = finalTotal.Sub(nonNegative(in.AdvanceAmount))
	}

	return Result{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		TaxAmount:      taxAmount,
		CreditsApplied: creditsApplied,
		FinalTotal:     finalTotal,
		BalanceAmount:  balance,
	}
}

// ClampDiscount resets any percentage outside [0,100] to 0.
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero
	}
	return pct
}

// Amount converts a float from a decoded request into a decimal. NaN,
// infinities and negative values become zero.
func Amount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
