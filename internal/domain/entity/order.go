package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"gorm.io/gorm"
)

// Order represents a laundry order taken at the counter. All amounts are a
// snapshot of the billing breakdown at checkout, stored in cents.
type Order struct {
	ID              uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo         string                `gorm:"size:50;unique;not null" json:"order_no"`
	UserID          uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"customer_id"`
	ShiftID         *uuid.UUID            `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	Status          enum.OrderStatus      `gorm:"default:0;index" json:"status"`
	PaymentMethod   billing.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	CollectionDate  time.Time             `gorm:"type:date;not null" json:"collection_date"`
	DeliveryAddress *string               `gorm:"type:text" json:"delivery_address,omitempty"`
	Notes           *string               `gorm:"type:text" json:"notes,omitempty"`
	TotalItems      int                   `gorm:"default:0" json:"total_items"`

	SubTotal        int64 `gorm:"default:0" json:"-"`
	DiscountPercent int64 `gorm:"default:0" json:"-"` // Basis points (10% = 1000)
	DiscountAmount  int64 `gorm:"default:0" json:"-"`
	DeliveryFee     int64 `gorm:"default:0" json:"-"`
	TaxableBase     int64 `gorm:"default:0" json:"-"`
	TaxEnabled      bool  `gorm:"default:true" json:"tax_enabled"`
	Tax             int64 `gorm:"default:0" json:"-"`
	CreditsApplied  int64 `gorm:"default:0" json:"-"`
	Tip             int64 `gorm:"default:0" json:"-"`
	Total           int64 `gorm:"default:0" json:"-"`
	Advance         int64 `gorm:"default:0" json:"-"`
	Balance         int64 `gorm:"default:0" json:"-"`
	Paid            int64 `gorm:"default:0" json:"-"`
	Due             int64 `gorm:"default:0;index" json:"-"`

	ReadyAt    *time.Time     `json:"ready_at,omitempty"`
	PickedUpAt *time.Time     `json:"picked_up_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User        `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal        float64 `json:"sub_total"`
		DiscountPercent float64 `json:"discount_percent"`
		DiscountAmount  float64 `json:"discount_amount"`
		DeliveryFee     float64 `json:"delivery_fee"`
		TaxableBase     float64 `json:"taxable_base"`
		Tax             float64 `json:"tax"`
		CreditsApplied  float64 `json:"credits_applied"`
		Tip             float64 `json:"tip"`
		Total           float64 `json:"total"`
		Advance         float64 `json:"advance"`
		Balance         float64 `json:"balance"`
		Paid            float64 `json:"paid"`
		Due             float64 `json:"due"`
	}{
		Alias:           Alias(o),
		SubTotal:        centsToFloat(o.SubTotal),
		DiscountPercent: centsToFloat(o.DiscountPercent),
		DiscountAmount:  centsToFloat(o.DiscountAmount),
		DeliveryFee:     centsToFloat(o.DeliveryFee),
		TaxableBase:     centsToFloat(o.TaxableBase),
		Tax:             centsToFloat(o.Tax),
		CreditsApplied:  centsToFloat(o.CreditsApplied),
		Tip:             centsToFloat(o.Tip),
		Total:           centsToFloat(o.Total),
		Advance:         centsToFloat(o.Advance),
		Balance:         centsToFloat(o.Balance),
		Paid:            centsToFloat(o.Paid),
		Due:             centsToFloat(o.Due),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ApplyBilling copies a computed breakdown onto the order.
func (o *Order) ApplyBilling(in billing.Input, r billing.Result) {
	r = r.Rounded()
	o.SubTotal = billing.ToCents(r.Subtotal)
	o.DiscountPercent = billing.ToCents(billing.ClampDiscount(in.DiscountPercent))
	o.DiscountAmount = billing.ToCents(r.DiscountAmount)
	o.DeliveryFee = billing.ToCents(in.DeliveryFee)
	o.TaxableBase = billing.ToCents(r.TaxableBase)
	o.TaxEnabled = in.TaxEnabled
	o.Tax = billing.ToCents(r.TaxAmount)
	o.CreditsApplied = billing.ToCents(r.CreditsApplied)
	o.Tip = billing.ToCents(in.TipAmount)
	o.Total = billing.ToCents(r.FinalTotal)
	o.Balance = 0
	if in.PaymentMethod == billing.PaymentAdvance {
		o.Advance = billing.ToCents(in.AdvanceAmount)
		o.Balance = o.Total - o.Advance
	}
}

// IsOpen reports whether the order can still change status
func (o *Order) IsOpen() bool {
	return o.Status != enum.OrderStatusDelivered && o.Status != enum.OrderStatusCancelled
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(oi),
		UnitPrice: centsToFloat(oi.UnitPrice),
		Total:     centsToFloat(oi.Total),
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
