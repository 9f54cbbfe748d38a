package repository

import (
	"strings"

	"github.com/sangkips/laundry-pos/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate returns a GORM scope applying offset and limit from page params
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// Search returns a GORM scope matching term case-insensitively against any of the columns.
// An empty term leaves the query untouched.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = col + " ILIKE ?"
			args[i] = "%" + term + "%"
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// SortBy returns a GORM scope ordering by sortBy when it is in allowed,
// falling back to fallback. Column names never come straight from the request.
func SortBy(sortBy, sortOrder, fallback string, allowed ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := fallback
		for _, a := range allowed {
			if a == sortBy {
				column = sortBy
				break
			}
		}
		direction := "DESC"
		if strings.EqualFold(sortOrder, "asc") {
			direction = "ASC"
		}
		return db.Order(column + " " + direction)
	}
}

// AfterCursor returns a GORM scope for keyset pagination on (created_at, id)
func AfterCursor(params *pagination.CursorParams) (func(db *gorm.DB) *gorm.DB, error) {
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db.Order("created_at ASC, id ASC").Limit(params.Limit + 1)
		}
		if params.Direction == pagination.CursorDirectionPrev {
			db = db.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			db = db.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		}
		return db.Order("created_at ASC, id ASC").Limit(params.Limit + 1)
	}, nil
}
