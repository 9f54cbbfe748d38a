package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/laundry-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type printerTemplateRepository struct {
	db *gorm.DB
}

// NewPrinterTemplateRepository creates a new printer template repository
func NewPrinterTemplateRepository(db *gorm.DB) domainRepo.PrinterTemplateRepository {
	return &printerTemplateRepository{db: db}
}

func (r *printerTemplateRepository) Create(ctx context.Context, tmpl *entity.PrinterTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *printerTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PrinterTemplate, error) {
	var tmpl entity.PrinterTemplate
	err := r.db.WithContext(ctx).First(&tmpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tmpl, err
}

func (r *printerTemplateRepository) GetDefault(ctx context.Context, kind enum.TemplateKind) (*entity.PrinterTemplate, error) {
	var tmpl entity.PrinterTemplate
	err := r.db.WithContext(ctx).
		Where("kind = ? AND is_default = ?", kind, true).
		First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tmpl, err
}

func (r *printerTemplateRepository) Update(ctx context.Context, tmpl *entity.PrinterTemplate) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *printerTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PrinterTemplate{}, "id = ?", id).Error
}

func (r *printerTemplateRepository) List(ctx context.Context, kind *enum.TemplateKind) ([]entity.PrinterTemplate, error) {
	var templates []entity.PrinterTemplate
	query := r.db.WithContext(ctx).Model(&entity.PrinterTemplate{})
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}
	err := query.Order("kind ASC, is_default DESC, name ASC").Find(&templates).Error
	return templates, err
}

// SetDefault clears the flag on every other template of the kind in the same transaction
func (r *printerTemplateRepository) SetDefault(ctx context.Context, id uuid.UUID, kind enum.TemplateKind) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.PrinterTemplate{}).
			Where("kind = ? AND id <> ?", kind, id).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.PrinterTemplate{}).
			Where("id = ?", id).
			Update("is_default", true).Error
	})
}
