package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/pagination"
	"github.com/sangkips/laundry-pos/pkg/utils"
)

// ProductService manages the laundry service catalogue
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code            string
	Name            string
	Category        string
	Unit            string
	Price           float64
	TurnaroundHours int
	Description     *string
}

// CreateProduct creates a new catalogue entry
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var fe apperror.FieldErrors
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fe.Add("name", "Name is required")
	}
	if input.Price < 0 {
		fe.Add("price", "Price cannot be negative")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	// Auto-generate code if not provided
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "piece"
	}
	turnaround := input.TurnaroundHours
	if turnaround <= 0 {
		turnaround = 48
	}

	product := &entity.Product{
		Code:            code,
		Name:            name,
		Category:        strings.TrimSpace(input.Category),
		Unit:            unit,
		Price:           billing.ToCents(billing.Amount(input.Price)),
		TurnaroundHours: turnaround,
		Active:          true,
		Description:     input.Description,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists catalogue entries with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents a partial product update
type UpdateProductInput struct {
	ID              uuid.UUID
	Code            *string
	Name            *string
	Category        *string
	Unit            *string
	Price           *float64
	TurnaroundHours *int
	Active          *bool
	Description     *string
}

// UpdateProduct applies the provided fields to a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	var fe apperror.FieldErrors
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name == "" {
			fe.Add("name", "Name cannot be empty")
		} else {
			product.Name = name
		}
	}
	if input.Price != nil {
		if *input.Price < 0 {
			fe.Add("price", "Price cannot be negative")
		} else {
			product.Price = billing.ToCents(billing.Amount(*input.Price))
		}
	}
	if input.TurnaroundHours != nil {
		if *input.TurnaroundHours <= 0 {
			fe.Add("turnaround_hours", "Turnaround must be positive")
		} else {
			product.TurnaroundHours = *input.TurnaroundHours
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Code))
		if code != "" && code != product.Code {
			existing, err := s.productRepo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, apperror.NewConflictError("Product code already exists")
			}
			product.Code = code
		}
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Unit != nil && strings.TrimSpace(*input.Unit) != "" {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Description != nil {
		product.Description = input.Description
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct soft-deletes a product. Open carts keep their snapshot line.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.productRepo.Delete(ctx, id)
}
