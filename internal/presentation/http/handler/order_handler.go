package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/application/service"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// orderFilters holds the list filters shared by page and cursor listing
type orderFilters struct {
	search     string
	status     *enum.OrderStatus
	customerID *uuid.UUID
	startDate  *time.Time
	endDate    *time.Time
}

func parseOrderFilters(c *gin.Context) orderFilters {
	f := orderFilters{search: c.Query("search")}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, err := enum.ParseOrderStatus(statusStr); err == nil {
			f.status = &status
		} else if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.OrderStatus(statusInt)
			if status.IsValid() {
				f.status = &status
			}
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			f.customerID = &customerID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			f.startDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			f.endDate = &endDate
		}
	}

	return f
}

// List handles listing orders (supports both page-based and cursor-based pagination)
func (h *OrderHandler) List(c *gin.Context) {
	f := parseOrderFilters(c)

	if wantsCursor(c) {
		h.listWithCursor(c, f)
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: pageParams(c),
		Search:     f.search,
		Status:     f.status,
		CustomerID: f.customerID,
		StartDate:  f.startDate,
		EndDate:    f.endDate,
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// listWithCursor handles listing orders with cursor-based pagination
func (h *OrderHandler) listWithCursor(c *gin.Context, f orderFilters) {
	params := &repository.OrderCursorFilterParams{
		Cursor:     cursorParams(c),
		Search:     f.search,
		Status:     f.status,
		CustomerID: f.customerID,
		StartDate:  f.startDate,
		EndDate:    f.endDate,
	}

	result, err := h.orderService.ListOrdersWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, "Orders retrieved successfully", result)
}

// Create checks out the cashier's cart as a new order
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CheckoutInput{
		UserID:             *userID,
		BillingAdjustments: adjustments(req.BillingAdjustmentsRequest),
		DeliveryAddress:    req.DeliveryAddress,
		Notes:              req.Notes,
	}
	if req.CollectionDate != "" {
		date, err := parseDate(req.CollectionDate)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "collection_date", Message: "Collection date must be YYYY-MM-DD"}})
			return
		}
		input.CollectionDate = &date
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// GetByNumber looks an order up by its ticket number at pickup
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Advance moves an order one step along received, in_workshop, ready, delivered
func (h *OrderHandler) Advance(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order moved to "+order.Status.String(), order)
}

// UpdateStatus sets the order status by name
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Unknown order status")
		return
	}

	// Workshop staff may move orders along but not cancel them
	if status == enum.OrderStatusCancelled && !HasPermission(c, "manage-orders") {
		response.Forbidden(c, "You do not have permission to perform this action")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Cancel cancels an order and refunds applied credits
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// WorkshopQueue lists orders being processed, oldest first
func (h *OrderHandler) WorkshopQueue(c *gin.Context) {
	orders, err := h.orderService.ListWorkshopQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Workshop queue retrieved successfully", orders)
}

// ReadyForPickup lists finished orders by the time they became ready
func (h *OrderHandler) ReadyForPickup(c *gin.Context) {
	orders, err := h.orderService.ListReadyForPickup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ready orders retrieved successfully", orders)
}

// Due lists orders with an outstanding balance
func (h *OrderHandler) Due(c *gin.Context) {
	result, err := h.orderService.GetDueOrders(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Due orders retrieved successfully", result)
}

// PayDue records a payment against an order's balance
func (h *OrderHandler) PayDue(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.PayDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.PayDue(c.Request.Context(), *userID, id, req.Amount, billing.PaymentMethod(req.PaymentMethod))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", order)
}
