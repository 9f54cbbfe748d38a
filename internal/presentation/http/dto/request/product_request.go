package request

// CreateProductRequest represents a laundry service creation request
type CreateProductRequest struct {
	Code            string  `json:"code" binding:"omitempty,max=50"`
	Name            string  `json:"name" binding:"required,min=2,max=255"`
	Category        string  `json:"category" binding:"omitempty,max=100"`
	Unit            string  `json:"unit" binding:"omitempty,max=20"`
	Price           float64 `json:"price" binding:"min=0"`
	TurnaroundHours int     `json:"turnaround_hours" binding:"min=0"`
	Description     *string `json:"description"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Code            *string  `json:"code" binding:"omitempty,min=1,max=50"`
	Name            *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Category        *string  `json:"category" binding:"omitempty,max=100"`
	Unit            *string  `json:"unit" binding:"omitempty,max=20"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	TurnaroundHours *int     `json:"turnaround_hours" binding:"omitempty,min=1"`
	Active          *bool    `json:"active"`
	Description     *string  `json:"description"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
