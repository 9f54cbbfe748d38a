package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/application/service"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, _ := c.Get("user_email")
	s, _ := email.(string)
	return s
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, _ := c.Get("user_roles")
	r, _ := roles.([]string)
	return r
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	permissions, _ := c.Get("user_permissions")
	p, _ := permissions.([]string)
	return p
}

// HasPermission reports whether the caller holds permission or the admin role
func HasPermission(c *gin.Context, permission string) bool {
	for _, role := range GetUserRoles(c) {
		if role == "admin" {
			return true
		}
	}
	for _, p := range GetUserPermissions(c) {
		if p == permission {
			return true
		}
	}
	return false
}

// parseID reads a UUID path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

func cursorParams(c *gin.Context) *pagination.CursorParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	return &pagination.CursorParams{
		Cursor:    c.Query("cursor"),
		Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
		Limit:     limit,
	}
}

// wantsCursor reports whether cursor-based pagination is requested
func wantsCursor(c *gin.Context) bool {
	return c.Query("cursor") != "" || c.Query("limit") != ""
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func adjustments(req request.BillingAdjustmentsRequest) service.BillingAdjustments {
	return service.BillingAdjustments{
		DiscountPercent:  req.DiscountPercent,
		TaxEnabled:       req.TaxEnabled,
		DeliveryFee:      req.DeliveryFee,
		CreditsRequested: req.CreditsRequested,
		TipAmount:        req.TipAmount,
		PaymentMethod:    billing.PaymentMethod(req.PaymentMethod),
		AdvanceAmount:    req.AdvanceAmount,
	}
}
