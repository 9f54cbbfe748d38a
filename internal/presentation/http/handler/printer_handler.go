package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/application/service"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-pos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer and template HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	result, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPrinted(c, "Test page sent to printer", result)
}

// Print prints a receipt or a workshop tag for an order. The rendered lines
// are returned even when the printer is missing or fails.
func (h *PrinterHandler) Print(c *gin.Context) {
	var req request.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return
	}

	ctx := c.Request.Context()

	switch req.Type {
	case "receipt":
		result, err := h.printerService.PrintOrderReceipt(ctx, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		respondPrinted(c, "Order receipt printed successfully", result)

	case "workshop_tag":
		result, err := h.printerService.PrintWorkshopTag(ctx, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		respondPrinted(c, "Workshop tag printed successfully", result)

	default:
		response.ErrorWithCode(c, http.StatusBadRequest, "Invalid print type. Use 'receipt' or 'workshop_tag'")
	}
}

// Invoice downloads an order's invoice as a PDF.
func (h *PrinterHandler) Invoice(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	pdf, filename, err := h.printerService.RenderInvoicePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "application/pdf", filename, pdf)
}

func respondPrinted(c *gin.Context, message string, result *service.PrintResult) {
	if result.Warning != "" {
		response.OK(c, "Receipt generated but not printed", result)
		return
	}
	response.OK(c, message, result)
}

// ListTemplates lists printer templates, optionally filtered by kind.
func (h *PrinterHandler) ListTemplates(c *gin.Context) {
	var kind *enum.TemplateKind
	if k := c.Query("kind"); k != "" {
		tk := enum.TemplateKind(k)
		kind = &tk
	}

	templates, err := h.printerService.ListTemplates(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Templates retrieved successfully", templates)
}

// GetTemplate returns one template.
func (h *PrinterHandler) GetTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	tmpl, err := h.printerService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template retrieved successfully", tmpl)
}

// CreateTemplate adds a template.
func (h *PrinterHandler) CreateTemplate(c *gin.Context) {
	var req request.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.printerService.CreateTemplate(c.Request.Context(), &service.TemplateInput{
		Name:         req.Name,
		Kind:         enum.TemplateKind(req.Kind),
		PaperWidth:   req.PaperWidth,
		StoreName:    req.StoreName,
		Address:      req.Address,
		Phone:        req.Phone,
		TaxID:        req.TaxID,
		Footer:       req.Footer,
		ShowCustomer: req.ShowCustomer,
		ShowTax:      req.ShowTax,
		ShowPayment:  req.ShowPayment,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Template created successfully", tmpl)
}

// UpdateTemplate partially updates a template.
func (h *PrinterHandler) UpdateTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	var req request.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.printerService.UpdateTemplate(c.Request.Context(), &service.UpdateTemplateInput{
		ID:           id,
		Name:         req.Name,
		PaperWidth:   req.PaperWidth,
		StoreName:    req.StoreName,
		Address:      req.Address,
		Phone:        req.Phone,
		TaxID:        req.TaxID,
		Footer:       req.Footer,
		ShowCustomer: req.ShowCustomer,
		ShowTax:      req.ShowTax,
		ShowPayment:  req.ShowPayment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template updated successfully", tmpl)
}

// DeleteTemplate removes a template that is not its kind's default.
func (h *PrinterHandler) DeleteTemplate(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	if err := h.printerService.DeleteTemplate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetDefault makes a template the default of its kind.
func (h *PrinterHandler) SetDefault(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	tmpl, err := h.printerService.SetDefault(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default template updated", tmpl)
}

// Preview renders a template against a sample order.
func (h *PrinterHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	preview, err := h.printerService.Preview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template preview rendered", preview)
}
