package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
)

// CartRepository defines the interface for cart session operations
type CartRepository interface {
	// GetByUserID returns the cashier's session with items and customer, or nil
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error)
	Create(ctx context.Context, cart *entity.CartSession) error
	// SetCustomer updates the selected customer; nil clears the selection
	SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) error
	SaveItem(ctx context.Context, item *entity.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}
