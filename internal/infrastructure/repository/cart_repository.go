package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart session repository
func NewCartRepository(db *gorm.DB) domainRepo.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	var cart entity.CartSession
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.CartSession) error {
	return r.db.WithContext(ctx).Omit("Customer", "Items").Create(cart).Error
}

func (r *cartRepository) SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.CartSession{}).
		Where("id = ?", cartID).
		Update("customer_id", customerID).Error
}

func (r *cartRepository) SaveItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&entity.CartItem{}, "id = ?", itemID).Error
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.CartSession{}).
			Where("id = ?", cartID).
			Update("customer_id", nil).Error
	})
}
