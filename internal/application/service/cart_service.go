package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/metrics"
)

// CartService manages each cashier's working cart and prices it on demand
type CartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	calculator   *billing.Calculator
	metrics      *metrics.Metrics
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	calculator *billing.Calculator,
	m *metrics.Metrics,
) *CartService {
	if calculator == nil {
		calculator = billing.NewCalculator(billing.DefaultTaxRate)
	}
	return &CartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		calculator:   calculator,
		metrics:      m,
	}
}

// GetCart returns the cashier's cart, creating an empty one on first use
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &entity.CartSession{UserID: userID, Items: []entity.CartItem{}}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds qty of a product to the cart. Adding a product already in the
// cart increases that line. A quantity below 1 counts as 1.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*entity.CartSession, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if !product.Active {
		return nil, apperror.NewBadRequestError("Product is not available")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.FindItemByProduct(productID)
	if item != nil {
		item.Quantity += qty
	} else {
		item = &entity.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
		}
	}

	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*entity.CartSession, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.FindItem(itemID)
	if item == nil {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if qty <= 0 {
		err = s.cartRepo.DeleteItem(ctx, cart.ID, itemID)
	} else {
		item.Quantity = qty
		err = s.cartRepo.SaveItem(ctx, item)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem drops a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.CartSession, error) {
	return s.UpdateQuantity(ctx, userID, itemID, 0)
}

// Clear empties the cart and deselects the customer
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// SetCustomer selects the customer the cart is for. A nil ID clears the selection.
func (s *CartService) SetCustomer(ctx context.Context, userID uuid.UUID, customerID *uuid.UUID) (*entity.CartSession, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	if err := s.cartRepo.SetCustomer(ctx, cart.ID, customerID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// CartQuote is the priced view of a cart
type CartQuote struct {
	Cart             *entity.CartSession
	Input            billing.Input
	Result           billing.Result
	CreditsAvailable int64 // cents
}

// Quote prices the cart with the given adjustments without changing anything.
// Requested credits are capped at the selected customer's balance.
func (s *CartService) Quote(ctx context.Context, userID uuid.UUID, adj BillingAdjustments) (*CartQuote, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if adj.PaymentMethod == "" {
		adj.PaymentMethod = billing.PaymentCash
	}
	if !adj.PaymentMethod.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "payment_method", Message: "Unknown payment method"}})
	}

	creditCap := customerCreditCap(cart.Customer)
	in := adj.billingInput(cart.Items, &creditCap)
	result := s.calculator.Compute(in)
	s.metrics.ObserveQuote()

	var available int64
	if cart.Customer != nil {
		available = cart.Customer.CreditBalance
	}

	return &CartQuote{
		Cart:             cart,
		Input:            in,
		Result:           result,
		CreditsAvailable: available,
	}, nil
}
