package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// PrinterTemplate configures how a receipt, invoice or workshop tag is laid out
type PrinterTemplate struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	Kind         enum.TemplateKind `gorm:"size:20;not null;index" json:"kind"`
	PaperWidth   int               `gorm:"default:32" json:"paper_width"` // characters per line: 32 (58mm) or 48 (80mm)
	StoreName    string            `gorm:"size:255;not null" json:"store_name"`
	Address      string            `gorm:"type:text" json:"address,omitempty"`
	Phone        string            `gorm:"size:50" json:"phone,omitempty"`
	TaxID        string            `gorm:"size:50" json:"tax_id,omitempty"`
	Footer       string            `gorm:"type:text" json:"footer,omitempty"`
	ShowCustomer bool              `gorm:"default:true" json:"show_customer"`
	ShowTax      bool              `gorm:"default:true" json:"show_tax"`
	ShowPayment  bool              `gorm:"default:true" json:"show_payment"`
	IsDefault    bool              `gorm:"default:false;index" json:"is_default"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new template
func (t *PrinterTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PrinterTemplate model
func (PrinterTemplate) TableName() string {
	return "printer_templates"
}

// Header returns the receipt header block for this template
func (t *PrinterTemplate) Header() ReceiptHeader {
	return ReceiptHeader{
		StoreName: t.StoreName,
		Address:   t.Address,
		Phone:     t.Phone,
		TaxID:     t.TaxID,
	}
}
