package request

// CreateTemplateRequest creates a printer template
type CreateTemplateRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Kind         string `json:"kind" binding:"required,oneof=receipt invoice workshop_tag"`
	PaperWidth   int    `json:"paper_width"`
	StoreName    string `json:"store_name" binding:"required,max=255"`
	Address      string `json:"address"`
	Phone        string `json:"phone" binding:"max=50"`
	TaxID        string `json:"tax_id" binding:"max=50"`
	Footer       string `json:"footer"`
	ShowCustomer *bool  `json:"show_customer"`
	ShowTax      *bool  `json:"show_tax"`
	ShowPayment  *bool  `json:"show_payment"`
	IsDefault    bool   `json:"is_default"`
}

// UpdateTemplateRequest partially updates a printer template
type UpdateTemplateRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	PaperWidth   *int    `json:"paper_width"`
	StoreName    *string `json:"store_name" binding:"omitempty,max=255"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	TaxID        *string `json:"tax_id" binding:"omitempty,max=50"`
	Footer       *string `json:"footer"`
	ShowCustomer *bool   `json:"show_customer"`
	ShowTax      *bool   `json:"show_tax"`
	ShowPayment  *bool   `json:"show_payment"`
}

// PrintRequest prints a document for an order
type PrintRequest struct {
	Type    string `json:"type" binding:"required,oneof=receipt workshop_tag"`
	OrderID string `json:"order_id" binding:"required,uuid"`
}
