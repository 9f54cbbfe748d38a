package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"gorm.io/gorm"
)

func orderFilters(search string, status *enum.OrderStatus, customerID *uuid.UUID, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(Search(search, "order_no"))
		if status != nil {
			db = db.Where("status = ?", *status)
		}
		if customerID != nil {
			db = db.Where("customer_id = ?", *customerID)
		}
		if start != nil {
			db = db.Where("created_at >= ?", *start)
		}
		if end != nil {
			db = db.Where("created_at <= ?", *end)
		}
		return db
	}
}
