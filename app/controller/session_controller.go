package controller

import (
	"encoding/json"
	"net/http"

	"print-order/models"
	"print-order/service"
)

// SessionController handles HTTP requests for sessions
type SessionController struct {
	orderService *service.OrderService
}

// NewSessionController creates a new SessionController
func NewSessionController(orderService *service.OrderService) *SessionController {
	return &SessionController{
		orderService: orderService,
	}
}

// CreateSession handles POST /sessions
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := c.orderService.CreateSession()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(models.SessionResponse{SessionID: sessionID}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
