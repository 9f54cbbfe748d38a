package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object composed from an order at print time. It is not
// persisted.
type Receipt struct {
	Header         ReceiptHeader `json:"header"`
	OrderNo        string        `json:"order_no"`
	Date           string        `json:"date"`
	CollectionDate string        `json:"collection_date,omitempty"`
	Cashier        string        `json:"cashier,omitempty"`
	Customer       string        `json:"customer,omitempty"`
	CustomerPhone  string        `json:"customer_phone,omitempty"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	Status         string        `json:"status,omitempty"`
	Items          []ReceiptItem `json:"items"`
	SubTotal       float64       `json:"sub_total"`
	DiscountPct    float64       `json:"discount_percent"`
	Discount       float64       `json:"discount"`
	DeliveryFee    float64       `json:"delivery_fee"`
	Tax            float64       `json:"tax"`
	Credits        float64       `json:"credits"`
	Tip            float64       `json:"tip"`
	Total          float64       `json:"total"`
	Advance        float64       `json:"advance"`
	Balance        float64       `json:"balance"`
	Paid           float64       `json:"paid"`
	Due            float64       `json:"due"`
	Footer         string        `json:"footer,omitempty"`
}

// ReceiptFromOrder builds the printable view of an order. The order must have
// its items and customer loaded.
func ReceiptFromOrder(o *Order, header ReceiptHeader) *Receipt {
	r := &Receipt{
		Header:         header,
		OrderNo:        o.OrderNo,
		Date:           o.CreatedAt.Format("2006-01-02 15:04"),
		CollectionDate: o.CollectionDate.Format("2006-01-02"),
		PaymentMethod:  string(o.PaymentMethod),
		Status:         o.Status.String(),
		SubTotal:       centsToFloat(o.SubTotal),
		DiscountPct:    centsToFloat(o.DiscountPercent),
		Discount:       centsToFloat(o.DiscountAmount),
		DeliveryFee:    centsToFloat(o.DeliveryFee),
		Tax:            centsToFloat(o.Tax),
		Credits:        centsToFloat(o.CreditsApplied),
		Tip:            centsToFloat(o.Tip),
		Total:          centsToFloat(o.Total),
		Advance:        centsToFloat(o.Advance),
		Balance:        centsToFloat(o.Balance),
		Paid:           centsToFloat(o.Paid),
		Due:            centsToFloat(o.Due),
	}

	if o.Customer != nil {
		r.Customer = o.Customer.Name
		if o.Customer.Phone != nil {
			r.CustomerPhone = *o.Customer.Phone
		}
	}
	if o.User.FirstName != "" {
		r.Cashier = o.User.FullName()
	}

	for _, item := range o.Items {
		name := item.Name
		if name == "" {
			name = "Item"
		}
		r.Items = append(r.Items, ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: centsToFloat(item.UnitPrice),
			Total:     centsToFloat(item.Total),
		})
	}

	return r
}
