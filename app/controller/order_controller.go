package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"print-order/service"
)

// OrderController handles HTTP requests for checkout and the order summary
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Checkout handles POST /sessions/{sessionID}/checkout
// Requires every file to be configured. Returns the summary and a URL that carries the whole order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	response, err := c.orderService.Checkout(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetOrderSummary handles GET /order-summary?file0=...&color0=...
// Rebuilds the summary from the query alone; no session is needed
func (c *OrderController) GetOrderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.orderService.SummaryFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
