package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/pkg/pagination"
)

// ShiftRepository defines the interface for cash register shift operations
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	// GetOpenByUser returns the user's open shift, or nil
	GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.Shift, error)
	Update(ctx context.Context, shift *entity.Shift) error
	// List returns shifts newest first. A nil userID returns every user's shifts.
	List(ctx context.Context, userID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Shift, int64, error)
}
