package models

// OrderLine represents a file and its finalized configuration as consumed at summary time
type OrderLine struct {
	File   string      `json:"file"`
	Config PrintConfig `json:"config"`
}

// OrderLineView represents an order line with its completeness flag
type OrderLineView struct {
	OrderLine
	Valid          bool   `json:"valid"`          // False renders "Incomplete order details"
	FormattedPrice string `json:"formattedPrice"` // e.g. "Rs. 40"
}

// OrderSummary represents the complete summary of an order
type OrderSummary struct {
	Lines          []OrderLineView `json:"lines"`
	Total          float64         `json:"total"`          // Sum of every line's totalPrice
	FormattedTotal string          `json:"formattedTotal"` // e.g. "Rs. 1,250"
	Currency       string          `json:"currency"`
}

// QuoteResponse represents the price of an unsaved configuration
type QuoteResponse struct {
	PageCount      int     `json:"pageCount"`
	PricePerPage   float64 `json:"pricePerPage"`
	Copies         int     `json:"copies"`
	TotalPrice     float64 `json:"totalPrice"`
	FormattedPrice string  `json:"formattedPrice"`
}

// CheckoutResponse represents a successful checkout
type CheckoutResponse struct {
	Summary    OrderSummary `json:"summary"`
	SummaryURL string       `json:"summaryUrl"` // Relative URL carrying the flat encoded order
}
