package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a laundry customer. CreditBalance is a prepaid amount that can be
// spent against future orders.
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	Phone         *string        `gorm:"size:50;index" json:"phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreditBalance int64          `gorm:"default:0;not null" json:"-"` // Stored in cents
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON exposes the credit balance as a decimal
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		CreditBalance float64 `json:"credit_balance"`
	}{
		Alias:         Alias(c),
		CreditBalance: centsToFloat(c.CreditBalance),
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

func centsToFloat(cents int64) float64 {
	return float64(cents) / 100
}
