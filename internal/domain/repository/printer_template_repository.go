package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
)

// PrinterTemplateRepository defines the interface for printer template operations
type PrinterTemplateRepository interface {
	Create(ctx context.Context, tmpl *entity.PrinterTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PrinterTemplate, error)
	// GetDefault returns the default template of a kind, or nil
	GetDefault(ctx context.Context, kind enum.TemplateKind) (*entity.PrinterTemplate, error)
	Update(ctx context.Context, tmpl *entity.PrinterTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns templates, filtered by kind when kind is non-nil
	List(ctx context.Context, kind *enum.TemplateKind) ([]entity.PrinterTemplate, error)
	// SetDefault marks id as the only default template of its kind
	SetDefault(ctx context.Context, id uuid.UUID, kind enum.TemplateKind) error
}
