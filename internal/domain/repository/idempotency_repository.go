package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
)

// IdempotencyRepository stores the first response to a retried checkout or payment
type IdempotencyRepository interface {
	// GetByKey returns the key a user sent earlier, or nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before now and reports how many went
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
