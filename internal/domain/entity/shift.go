package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"gorm.io/gorm"
)

// Shift is one cashier's session at the cash register, from opening float to
// the cash count at close.
type Shift struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Status       enum.ShiftStatus `gorm:"default:0;index" json:"status"`
	OpeningFloat int64            `gorm:"default:0" json:"-"`
	CashTakings  int64            `gorm:"default:0" json:"-"`
	CardTakings  int64            `gorm:"default:0" json:"-"`
	OtherTakings int64            `gorm:"default:0" json:"-"`
	ExpectedCash int64            `gorm:"default:0" json:"-"`
	CountedCash  int64            `gorm:"default:0" json:"-"`
	Difference   int64            `gorm:"default:0" json:"-"`
	OrdersCount  int              `gorm:"default:0" json:"orders_count"`
	Notes        *string          `gorm:"type:text" json:"notes,omitempty"`
	OpenedAt     time.Time        `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// MarshalJSON converts cents to decimals for API responses
func (s Shift) MarshalJSON() ([]byte, error) {
	type Alias Shift
	return json.Marshal(&struct {
		Alias
		OpeningFloat float64 `json:"opening_float"`
		CashTakings  float64 `json:"cash_takings"`
		CardTakings  float64 `json:"card_takings"`
		OtherTakings float64 `json:"other_takings"`
		ExpectedCash float64 `json:"expected_cash"`
		CountedCash  float64 `json:"counted_cash"`
		Difference   float64 `json:"difference"`
	}{
		Alias:        Alias(s),
		OpeningFloat: centsToFloat(s.OpeningFloat),
		CashTakings:  centsToFloat(s.CashTakings),
		CardTakings:  centsToFloat(s.CardTakings),
		OtherTakings: centsToFloat(s.OtherTakings),
		ExpectedCash: centsToFloat(s.ExpectedCash),
		CountedCash:  centsToFloat(s.CountedCash),
		Difference:   centsToFloat(s.Difference),
	})
}

// BeforeCreate generates a UUID before creating a new shift
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

// AddTakings books a payment against the shift's drawer.
func (s *Shift) AddTakings(method billing.PaymentMethod, cents int64) {
	switch method {
	case billing.PaymentCash, billing.PaymentAdvance:
		s.CashTakings += cents
	case billing.PaymentCard:
		s.CardTakings += cents
	default:
		s.OtherTakings += cents
	}
	s.ExpectedCash = s.OpeningFloat + s.CashTakings
}

// Close records the counted cash and the drawer difference.
func (s *Shift) Close(countedCash int64, at time.Time) {
	s.Status = enum.ShiftStatusClosed
	s.ExpectedCash = s.OpeningFloat + s.CashTakings
	s.CountedCash = countedCash
	s.Difference = countedCash - s.ExpectedCash
	s.ClosedAt = &at
}
