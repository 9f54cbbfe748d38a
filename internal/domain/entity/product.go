package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a laundry service sold at the counter (wash & fold per kg, a
// dry-cleaned suit, an ironed shirt...)
type Product struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Code            string         `gorm:"size:50;unique;not null" json:"code"`
	Name            string         `gorm:"size:255;not null;index" json:"name"`
	Category        string         `gorm:"size:100;index" json:"category"`
	Unit            string         `gorm:"size:20;default:'piece'" json:"unit"`
	Price           int64          `gorm:"not null;default:0" json:"-"` // Stored in cents
	TurnaroundHours int            `gorm:"default:48" json:"turnaround_hours"`
	Active          bool           `gorm:"default:true" json:"active"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON converts the price from cents for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: centsToFloat(p.Price),
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
