package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	// credit_balance only moves through AdjustCredit
	return r.db.WithContext(ctx).Omit("credit_balance").Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(Search(search, "name", "phone", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// ListWithCursor returns customers using cursor-based pagination
// Fetches limit+1 items to detect if there are more results
func (r *customerRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	var customers []entity.Customer

	params.Validate()
	cursorScope, err := AfterCursor(params)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(Search(search, "name", "phone", "email"), cursorScope).
		Find(&customers).Error

	return customers, err
}

// AdjustCredit moves the credit balance by delta cents.
// Uses: UPDATE customers SET credit_balance = credit_balance + delta WHERE id = ? AND credit_balance + delta >= 0
func (r *customerRepository) AdjustCredit(ctx context.Context, id uuid.UUID, delta int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ? AND credit_balance + ? >= 0", id, delta).
		Update("credit_balance", gorm.Expr("credit_balance + ?", delta))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
