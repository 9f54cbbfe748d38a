package request

// OpenShiftRequest opens the cashier's till with a float
type OpenShiftRequest struct {
	OpeningFloat float64 `json:"opening_float"`
	Notes        *string `json:"notes"`
}

// CloseShiftRequest closes the till with the counted cash
type CloseShiftRequest struct {
	CountedCash float64 `json:"counted_cash"`
	Notes       *string `json:"notes"`
}
