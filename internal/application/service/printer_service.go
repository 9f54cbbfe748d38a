package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/metrics"
	"github.com/sangkips/laundry-pos/pkg/printer"
)

// PrinterService handles printer templates, receipt formatting and thermal printing.
type PrinterService struct {
	printer      printer.Printer
	target       string
	orderRepo    repository.OrderRepository
	templateRepo repository.PrinterTemplateRepository
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewPrinterService creates a new printer service. target is the device path or
// address reported by GetStatus.
func NewPrinterService(
	p printer.Printer,
	target string,
	orderRepo repository.OrderRepository,
	templateRepo repository.PrinterTemplateRepository,
	m *metrics.Metrics,
) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &PrinterService{
		printer:      p,
		target:       target,
		orderRepo:    orderRepo,
		templateRepo: templateRepo,
		metrics:      m,
		now:          time.Now,
	}
}

// PrintResult is what a print request returns. Printing problems never lose
// the receipt: Printed is false and Warning says why.
type PrintResult struct {
	Receipt *entity.Receipt `json:"receipt"`
	Lines   []string        `json:"lines"`
	Printed bool            `json:"printed"`
	Warning string          `json:"warning,omitempty"`
}

// PreviewResult is a template rendered against a sample order
type PreviewResult struct {
	Template *entity.PrinterTemplate `json:"template"`
	Lines    []string                `json:"lines"`
}

// TemplateInput represents the create template input
type TemplateInput struct {
	Name         string
	Kind         enum.TemplateKind
	PaperWidth   int
	StoreName    string
	Address      string
	Phone        string
	TaxID        string
	Footer       string
	ShowCustomer *bool
	ShowTax      *bool
	ShowPayment  *bool
	IsDefault    bool
}

// UpdateTemplateInput represents a partial template update
type UpdateTemplateInput struct {
	ID           uuid.UUID
	Name         *string
	PaperWidth   *int
	StoreName    *string
	Address      *string
	Phone        *string
	TaxID        *string
	Footer       *string
	ShowCustomer *bool
	ShowTax      *bool
	ShowPayment  *bool
}

// CreateTemplate adds a template. The first template of a kind becomes its default.
func (s *PrinterService) CreateTemplate(ctx context.Context, input *TemplateInput) (*entity.PrinterTemplate, error) {
	var fe apperror.FieldErrors
	if strings.TrimSpace(input.Name) == "" {
		fe.Add("name", "Name is required")
	}
	if !input.Kind.IsValid() {
		fe.Add("kind", "Kind must be receipt, invoice or workshop_tag")
	}
	if strings.TrimSpace(input.StoreName) == "" {
		fe.Add("store_name", "Store name is required")
	}
	if input.PaperWidth == 0 {
		input.PaperWidth = printer.Width58mm
	}
	if !validPaperWidth(input.PaperWidth) {
		fe.Add("paper_width", "Paper width must be 32 or 48 characters")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	tmpl := &entity.PrinterTemplate{
		Name:         strings.TrimSpace(input.Name),
		Kind:         input.Kind,
		PaperWidth:   input.PaperWidth,
		StoreName:    strings.TrimSpace(input.StoreName),
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
		TaxID:        strings.TrimSpace(input.TaxID),
		Footer:       strings.TrimSpace(input.Footer),
		ShowCustomer: boolOr(input.ShowCustomer, true),
		ShowTax:      boolOr(input.ShowTax, true),
		ShowPayment:  boolOr(input.ShowPayment, true),
	}

	if err := s.templateRepo.Create(ctx, tmpl); err != nil {
		return nil, err
	}

	makeDefault := input.IsDefault
	if !makeDefault {
		current, err := s.templateRepo.GetDefault(ctx, tmpl.Kind)
		if err != nil {
			return nil, err
		}
		makeDefault = current == nil
	}
	if makeDefault {
		if err := s.templateRepo.SetDefault(ctx, tmpl.ID, tmpl.Kind); err != nil {
			return nil, err
		}
		tmpl.IsDefault = true
	}

	return tmpl, nil
}

// GetTemplate retrieves a template by ID
func (s *PrinterService) GetTemplate(ctx context.Context, id uuid.UUID) (*entity.PrinterTemplate, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperror.NewNotFoundError("Printer template")
	}
	return tmpl, nil
}

// ListTemplates lists templates, optionally of one kind
func (s *PrinterService) ListTemplates(ctx context.Context, kind *enum.TemplateKind) ([]entity.PrinterTemplate, error) {
	if kind != nil && !kind.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown template kind")
	}
	return s.templateRepo.List(ctx, kind)
}

// UpdateTemplate changes the given fields of a template
func (s *PrinterService) UpdateTemplate(ctx context.Context, input *UpdateTemplateInput) (*entity.PrinterTemplate, error) {
	tmpl, err := s.GetTemplate(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var fe apperror.FieldErrors
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			fe.Add("name", "Name cannot be empty")
		}
		tmpl.Name = strings.TrimSpace(*input.Name)
	}
	if input.StoreName != nil {
		if strings.TrimSpace(*input.StoreName) == "" {
			fe.Add("store_name", "Store name cannot be empty")
		}
		tmpl.StoreName = strings.TrimSpace(*input.StoreName)
	}
	if input.PaperWidth != nil {
		if !validPaperWidth(*input.PaperWidth) {
			fe.Add("paper_width", "Paper width must be 32 or 48 characters")
		}
		tmpl.PaperWidth = *input.PaperWidth
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if input.Address != nil {
		tmpl.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		tmpl.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.TaxID != nil {
		tmpl.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.Footer != nil {
		tmpl.Footer = strings.TrimSpace(*input.Footer)
	}
	tmpl.ShowCustomer = boolOr(input.ShowCustomer, tmpl.ShowCustomer)
	tmpl.ShowTax = boolOr(input.ShowTax, tmpl.ShowTax)
	tmpl.ShowPayment = boolOr(input.ShowPayment, tmpl.ShowPayment)

	if err := s.templateRepo.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate removes a template. The default of a kind cannot be deleted.
func (s *PrinterService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if tmpl.IsDefault {
		return apperror.NewConflictError("Make another template the default before deleting this one")
	}
	return s.templateRepo.Delete(ctx, id)
}

// SetDefault makes the template the one used when printing its kind
func (s *PrinterService) SetDefault(ctx context.Context, id uuid.UUID) (*entity.PrinterTemplate, error) {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.SetDefault(ctx, tmpl.ID, tmpl.Kind); err != nil {
		return nil, err
	}
	tmpl.IsDefault = true
	return tmpl, nil
}

// Preview renders the template against a sample order without printing
func (s *PrinterService) Preview(ctx context.Context, id uuid.UUID) (*PreviewResult, error) {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	order := sampleOrder(s.now())
	var doc *printer.Document
	if tmpl.Kind == enum.TemplateKindWorkshopTag {
		doc = FormatWorkshopTag(order, tmpl)
	} else {
		doc = FormatReceipt(entity.ReceiptFromOrder(order, tmpl.Header()), tmpl)
	}

	return &PreviewResult{Template: tmpl, Lines: doc.Lines()}, nil
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *printer.Status {
	return &printer.Status{
		Type:      s.printer.Type(),
		Target:    s.target,
		Connected: s.printer.IsConnected(ctx),
	}
}

// TestPrint sends a sample receipt to the printer with the default receipt template.
func (s *PrinterService) TestPrint(ctx context.Context) (*PrintResult, error) {
	tmpl, err := s.template(ctx, enum.TemplateKindReceipt)
	if err != nil {
		return nil, err
	}
	receipt := entity.ReceiptFromOrder(sampleOrder(s.now()), tmpl.Header())
	return s.send(ctx, "test", receipt, FormatReceipt(receipt, tmpl)), nil
}

// PrintOrderReceipt fetches an order (with details) and prints its receipt.
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uuid.UUID) (*PrintResult, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, enum.TemplateKindReceipt)
	if err != nil {
		return nil, err
	}

	receipt := entity.ReceiptFromOrder(order, tmpl.Header())
	receipt.Footer = tmpl.Footer
	return s.send(ctx, "receipt", receipt, FormatReceipt(receipt, tmpl)), nil
}

// PrintWorkshopTag prints the tag that travels with the garments through the workshop.
func (s *PrinterService) PrintWorkshopTag(ctx context.Context, orderID uuid.UUID) (*PrintResult, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, enum.TemplateKindWorkshopTag)
	if err != nil {
		return nil, err
	}

	receipt := entity.ReceiptFromOrder(order, tmpl.Header())
	return s.send(ctx, "workshop_tag", receipt, FormatWorkshopTag(order, tmpl)), nil
}

// RenderInvoicePDF renders an A4 invoice for the order using the default invoice template.
func (s *PrinterService) RenderInvoicePDF(ctx context.Context, orderID uuid.UUID) ([]byte, string, error) {
	order, err := s.order(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	tmpl, err := s.template(ctx, enum.TemplateKindInvoice)
	if err != nil {
		return nil, "", err
	}

	receipt := entity.ReceiptFromOrder(order, tmpl.Header())
	receipt.Footer = tmpl.Footer

	data, err := printer.RenderPDF(BuildInvoice(receipt, tmpl, s.now()))
	if err != nil {
		return nil, "", err
	}
	return data, "invoice-" + order.OrderNo + ".pdf", nil
}

func (s *PrinterService) send(ctx context.Context, kind string, receipt *entity.Receipt, doc *printer.Document) *PrintResult {
	result := &PrintResult{Receipt: receipt, Lines: doc.Lines()}
	if s.printer.Type() == printer.TypeNone {
		result.Warning = "No printer configured"
		return result
	}
	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		log.Printf("Printer error (%s %s): %v", kind, receipt.OrderNo, err)
		s.metrics.ObservePrintFailure(kind)
		result.Warning = fmt.Sprintf("Printing failed: %v", err)
		return result
	}
	result.Printed = true
	return result
}

func (s *PrinterService) order(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// template returns the default template of kind, or a plain built-in one
func (s *PrinterService) template(ctx context.Context, kind enum.TemplateKind) (*entity.PrinterTemplate, error) {
	tmpl, err := s.templateRepo.GetDefault(ctx, kind)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		tmpl = &entity.PrinterTemplate{
			Name:         "Built-in " + string(kind),
			Kind:         kind,
			PaperWidth:   printer.Width58mm,
			StoreName:    "Laundry",
			ShowCustomer: true,
			ShowTax:      true,
			ShowPayment:  true,
		}
	}
	return tmpl, nil
}

// FormatReceipt lays a receipt out as ESC/POS with the template's header and flags.
func FormatReceipt(r *entity.Receipt, t *entity.PrinterTemplate) *printer.Document {
	doc := printer.NewDocument(t.PaperWidth)

	doc.Title(r.Header.StoreName).SetAlign(printer.AlignCenter)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Order:", r.OrderNo).
		KeyValue("Date:", r.Date)
	if r.CollectionDate != "" {
		doc.KeyValue("Collect:", r.CollectionDate)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if t.ShowCustomer && r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
		if r.CustomerPhone != "" {
			doc.KeyValue("Phone:", r.CustomerPhone)
		}
	}
	if t.ShowPayment && r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue(fmt.Sprintf("Discount (%s%%):", strconv.FormatFloat(r.DiscountPct, 'f', -1, 64)), "-"+money(r.Discount))
	}
	if r.DeliveryFee > 0 {
		doc.KeyValue("Delivery:", money(r.DeliveryFee))
	}
	if t.ShowTax && r.Tax > 0 {
		doc.KeyValue("Tax:", money(r.Tax))
	}
	if r.Credits > 0 {
		doc.KeyValue("Credits:", "-"+money(r.Credits))
	}
	if r.Tip > 0 {
		doc.KeyValue("Tip:", money(r.Tip))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	if r.PaymentMethod == string(billing.PaymentAdvance) {
		doc.KeyValue("Advance:", money(r.Advance)).
			KeyValue("Balance:", money(r.Balance))
	}
	if r.Paid > 0 {
		doc.KeyValue("Paid:", money(r.Paid))
	}
	if r.Due > 0 {
		doc.KeyValue("Due:", money(r.Due))
	}

	doc.Separator('-')

	footer := t.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc
}

// FormatWorkshopTag lays out the tag pinned to a bag of garments: big order
// number, customer, collection date and the pieces to process.
func FormatWorkshopTag(o *entity.Order, t *entity.PrinterTemplate) *printer.Document {
	doc := printer.NewDocument(t.PaperWidth)

	doc.Title(o.OrderNo).
		Separator('=')

	if o.Customer != nil {
		doc.KeyValue("Customer:", o.Customer.Name)
	}
	doc.KeyValue("Collect:", o.CollectionDate.Format("Mon 2006-01-02")).
		KeyValue("Pieces:", strconv.Itoa(o.TotalItems)).
		Separator('-')

	for _, item := range o.Items {
		doc.TextF("%dx %s", item.Quantity, item.Name)
	}

	if o.Notes != nil && *o.Notes != "" {
		doc.Separator('-').
			SetBold(true).
			Text("NOTE: " + *o.Notes).
			SetBold(false)
	}
	if o.DeliveryAddress != nil && *o.DeliveryAddress != "" {
		doc.Text("Deliver to: " + *o.DeliveryAddress)
	}

	doc.FeedLines(3).
		PartialCut()

	return doc
}

// BuildInvoice maps a receipt onto the A4 invoice layout
func BuildInvoice(r *entity.Receipt, t *entity.PrinterTemplate, created time.Time) printer.Invoice {
	inv := printer.Invoice{
		Title:   "INVOICE",
		Header:  []string{r.Header.StoreName},
		Footer:  r.Footer,
		Created: created.Format("2006-01-02 15:04"),
	}
	for _, line := range []string{r.Header.Address, r.Header.Phone} {
		if line != "" {
			inv.Header = append(inv.Header, line)
		}
	}
	if r.Header.TaxID != "" {
		inv.Header = append(inv.Header, "Tax ID: "+r.Header.TaxID)
	}

	inv.Meta = []printer.KV{
		{Label: "Invoice no:", Value: r.OrderNo},
		{Label: "Date:", Value: r.Date},
		{Label: "Collection:", Value: r.CollectionDate},
	}
	if t.ShowCustomer && r.Customer != "" {
		inv.Meta = append(inv.Meta, printer.KV{Label: "Customer:", Value: r.Customer})
	}
	if t.ShowPayment && r.PaymentMethod != "" {
		inv.Meta = append(inv.Meta, printer.KV{Label: "Payment:", Value: r.PaymentMethod})
	}

	for _, item := range r.Items {
		inv.Rows = append(inv.Rows, printer.InvoiceRow{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Total:     money(item.Total),
		})
	}

	inv.Totals = append(inv.Totals, printer.KV{Label: "Subtotal", Value: money(r.SubTotal)})
	if r.Discount > 0 {
		inv.Totals = append(inv.Totals, printer.KV{Label: fmt.Sprintf("Discount (%s%%)", strconv.FormatFloat(r.DiscountPct, 'f', -1, 64)), Value: "-" + money(r.Discount)})
	}
	if r.DeliveryFee > 0 {
		inv.Totals = append(inv.Totals, printer.KV{Label: "Delivery", Value: money(r.DeliveryFee)})
	}
	if t.ShowTax {
		inv.Totals = append(inv.Totals, printer.KV{Label: "Tax", Value: money(r.Tax)})
	}
	if r.Credits > 0 {
		inv.Totals = append(inv.Totals, printer.KV{Label: "Credits", Value: "-" + money(r.Credits)})
	}
	if r.Tip > 0 {
		inv.Totals = append(inv.Totals, printer.KV{Label: "Tip", Value: money(r.Tip)})
	}
	inv.Totals = append(inv.Totals,
		printer.KV{Label: "Total", Value: money(r.Total), Bold: true},
		printer.KV{Label: "Paid", Value: money(r.Paid)},
		printer.KV{Label: "Due", Value: money(r.Due), Bold: r.Due > 0},
	)

	return inv
}

// sampleOrder is the order rendered by previews and test prints
func sampleOrder(now time.Time) *entity.Order {
	phone := "+254 700 000 000"
	notes := "Starch collars"
	o := &entity.Order{
		OrderNo:        "LND-SAMPLE01",
		PaymentMethod:  billing.PaymentAdvance,
		CollectionDate: now.Add(48 * time.Hour),
		Notes:          &notes,
		TotalItems:     4,
		CreatedAt:      now,
		Customer:       &entity.Customer{Name: "Jane Wanjiku", Phone: &phone},
		Items: []entity.OrderItem{
			{Name: "Shirt - wash & press", Quantity: 3, UnitPrice: 15000, Total: 45000},
			{Name: "Suit - dry clean", Quantity: 1, UnitPrice: 80000, Total: 80000},
		},
	}
	in := billing.NewInput([]billing.Line{
		{UnitPrice: billing.FromCents(15000), Quantity: 3},
		{UnitPrice: billing.FromCents(80000), Quantity: 1},
	}, billing.PaymentAdvance)
	in.DiscountPercent = billing.FromCents(1000)
	in.DeliveryFee = billing.FromCents(20000)
	in.AdvanceAmount = billing.FromCents(50000)
	o.ApplyBilling(in, billing.Compute(in))
	o.Paid = o.Advance
	o.Due = o.Total - o.Paid
	return o
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func validPaperWidth(w int) bool {
	return w == printer.Width58mm || w == printer.Width80mm
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
