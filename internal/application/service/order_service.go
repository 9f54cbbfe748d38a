package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/metrics"
	"github.com/sangkips/laundry-pos/pkg/pagination"
	"github.com/sangkips/laundry-pos/pkg/utils"
)

// OrderSettings are the counter rules that come from configuration
type OrderSettings struct {
	OrderPrefix   string
	ShiftRequired bool
}

// OrderService handles checkout and the life of an order after it
type OrderService struct {
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	shifts       *ShiftService
	calculator   *billing.Calculator
	notifier     Notifier
	metrics      *metrics.Metrics
	settings     OrderSettings
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	shifts *ShiftService,
	calculator *billing.Calculator,
	notifier Notifier,
	m *metrics.Metrics,
	settings OrderSettings,
) *OrderService {
	if calculator == nil {
		calculator = billing.NewCalculator(billing.DefaultTaxRate)
	}
	return &OrderService{
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		shifts:       shifts,
		calculator:   calculator,
		notifier:     notifier,
		metrics:      m,
		settings:     settings,
		now:          time.Now,
	}
}

// CheckoutInput represents the create order input. Lines and customer come
// from the cashier's cart.
type CheckoutInput struct {
	UserID uuid.UUID
	BillingAdjustments
	CollectionDate  *time.Time
	DeliveryAddress *string
	Notes           *string
}

// CreateOrder turns the cashier's cart into an order
func (s *OrderService) CreateOrder(ctx context.Context, input *CheckoutInput) (*entity.Order, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &entity.CartSession{UserID: input.UserID}
	}

	method := input.PaymentMethod
	if method == "" {
		method = billing.PaymentCash
	}
	input.PaymentMethod = method

	var fe apperror.FieldErrors
	if cart.CustomerID == nil || cart.Customer == nil {
		fe.Add("customer_id", "Select a customer")
	}
	if input.CollectionDate == nil || input.CollectionDate.IsZero() {
		fe.Add("collection_date", "Collection date is required")
	}
	if len(cart.Items) == 0 {
		fe.Add("items", apperror.ErrCartEmpty.Message)
	}
	if !method.IsValid() {
		fe.Add("payment_method", "Unknown payment method")
	}
	if len(fe) > 0 {
		return nil, fe.Err()
	}

	creditCap := customerCreditCap(cart.Customer)
	in := input.billingInput(cart.Items, &creditCap)
	result := s.calculator.Compute(in).Rounded()

	if method == billing.PaymentAdvance {
		switch {
		case !in.AdvanceAmount.IsPositive():
			fe.Add("advance_amount", "Advance amount is required")
		case in.AdvanceAmount.GreaterThan(result.FinalTotal):
			fe.Add("advance_amount", "Advance amount cannot exceed the total")
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	shift, err := s.shifts.openShift(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if shift == nil && s.settings.ShiftRequired {
		return nil, apperror.ErrNoOpenShift
	}

	order := &entity.Order{
		OrderNo:         utils.GenerateOrderNo(s.settings.OrderPrefix),
		UserID:          input.UserID,
		CustomerID:      *cart.CustomerID,
		Status:          enum.OrderStatusReceived,
		PaymentMethod:   method,
		CollectionDate:  *input.CollectionDate,
		DeliveryAddress: trimmed(input.DeliveryAddress),
		Notes:           trimmed(input.Notes),
		TotalItems:      cart.TotalQuantity(),
	}
	if shift != nil {
		order.ShiftID = &shift.ID
	}
	order.ApplyBilling(in, result)

	switch {
	case method == billing.PaymentAdvance:
		order.Paid = order.Advance
	case method.PaidUpFront():
		order.Paid = order.Total
	}
	order.Due = order.Total - order.Paid

	for _, item := range cart.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.UnitPrice * int64(item.Quantity),
		})
	}

	// Debit credits before the order exists so two checkouts cannot spend the same balance
	if order.CreditsApplied > 0 {
		ok, err := s.customerRepo.AdjustCredit(ctx, order.CustomerID, -order.CreditsApplied)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NewConflictError("Customer credit balance changed, quote the cart again")
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if order.CreditsApplied > 0 {
			_, _ = s.customerRepo.AdjustCredit(ctx, order.CustomerID, order.CreditsApplied)
		}
		return nil, err
	}

	if err := s.shifts.RecordTakings(ctx, shift, method, order.Paid, true); err != nil {
		log.Printf("orders: failed to record takings for %s on shift: %v", order.OrderNo, err)
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		log.Printf("orders: failed to clear cart %s after %s: %v", cart.ID, order.OrderNo, err)
	}

	s.metrics.ObserveOrder(string(method), result.FinalTotal.InexactFloat64())

	return s.GetOrder(ctx, order.ID)
}

// GetOrder retrieves an order with its items, customer and cashier
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetOrderByNumber finds an order from the number printed on its ticket
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNo string) (*entity.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, apperror.NewNotFoundError("Order")
	}
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	params.Pagination.Validate()
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersWithCursor lists orders with cursor-based pagination
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(orders, params.Cursor.Limit,
		func(o entity.Order) string { return o.ID.String() },
		func(o entity.Order) time.Time { return o.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// AdvanceStatus moves the order one step along received, in workshop, ready, delivered
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Order is %s and can no longer move", order.Status))
	}
	return s.moveTo(ctx, order, next)
}

// UpdateStatus sets the order status. Only the next step of the flow or a
// cancellation are accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	if status == enum.OrderStatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, status))
	}
	return s.moveTo(ctx, order, status)
}

func (s *OrderService) moveTo(ctx context.Context, order *entity.Order, status enum.OrderStatus) (*entity.Order, error) {
	if !order.IsOpen() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Order is %s and can no longer move", order.Status))
	}
	now := s.now()
	switch status {
	case enum.OrderStatusReady:
		order.ReadyAt = &now
	case enum.OrderStatusDelivered:
		if order.Due > 0 {
			return nil, apperror.NewAppError(http.StatusUnprocessableEntity, "Order has an outstanding balance, settle it before pickup")
		}
		order.PickedUpAt = &now
	}
	order.Status = status

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if status == enum.OrderStatusReady && s.notifier != nil {
		if err := s.notifier.OrderReady(ctx, order); err != nil {
			log.Printf("orders: ready notification for %s failed: %v", order.OrderNo, err)
			s.metrics.ObserveNotifyFailure()
		}
	}

	return order, nil
}

// CancelOrder cancels an order that has not been picked up and gives the
// customer back any credits spent on it
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsOpen() {
		if order.Status == enum.OrderStatusCancelled {
			return nil, apperror.NewBadRequestError("Order is already cancelled")
		}
		return nil, apperror.NewBadRequestError("Delivered orders cannot be cancelled")
	}

	if order.CreditsApplied > 0 {
		if _, err := s.customerRepo.AdjustCredit(ctx, order.CustomerID, order.CreditsApplied); err != nil {
			return nil, err
		}
	}

	order.Status = enum.OrderStatusCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		if order.CreditsApplied > 0 {
			_, _ = s.customerRepo.AdjustCredit(ctx, order.CustomerID, -order.CreditsApplied)
		}
		return nil, err
	}

	return order, nil
}

// ListWorkshopQueue returns the orders being processed, oldest first
func (s *OrderService) ListWorkshopQueue(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListByStatus(ctx, enum.OrderStatusInWorkshop, "created_at ASC")
}

// ListReadyForPickup returns the orders waiting on the shelf, longest waiting first
func (s *OrderService) ListReadyForPickup(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListByStatus(ctx, enum.OrderStatusReady, "ready_at ASC")
}

// GetDueOrders returns orders with outstanding dues
func (s *OrderService) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	params.Validate()
	orders, total, err := s.orderRepo.GetDueOrders(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// PayDue records a payment towards an order's due amount. Overpayment is
// change handed back, so only the settled part reaches the shift.
func (s *OrderService) PayDue(ctx context.Context, userID, orderID uuid.UUID, amount float64, method billing.PaymentMethod) (*entity.Order, error) {
	if method == "" {
		method = billing.PaymentCash
	}

	var fe apperror.FieldErrors
	cents := billing.ToCents(billing.Amount(amount))
	if cents <= 0 {
		fe.Add("amount", "Amount must be greater than zero")
	}
	if !method.PaidUpFront() {
		fe.Add("payment_method", "Pay with cash, card or cheque")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewBadRequestError("Order is cancelled")
	}
	if order.Due <= 0 {
		return nil, apperror.NewBadRequestError("Order has no outstanding balance")
	}

	shift, err := s.shifts.openShift(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shift == nil && s.settings.ShiftRequired {
		return nil, apperror.ErrNoOpenShift
	}

	settled := cents
	if settled > order.Due {
		settled = order.Due
	}
	order.Paid += settled
	order.Due -= settled

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := s.shifts.RecordTakings(ctx, shift, method, settled, false); err != nil {
		log.Printf("orders: failed to record payment on %s against shift: %v", order.OrderNo, err)
	}

	return order, nil
}
