package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"print-order/models"
	"print-order/service"
)

// ConfigController handles HTTP requests for print configurations
type ConfigController struct {
	orderService *service.OrderService
}

// NewConfigController creates a new ConfigController
func NewConfigController(orderService *service.OrderService) *ConfigController {
	return &ConfigController{
		orderService: orderService,
	}
}

// QuoteConfig handles POST /sessions/{sessionID}/files/{name}/quote
// Prices a configuration without saving it
func (c *ConfigController) QuoteConfig(w http.ResponseWriter, r *http.Request) {
	var req models.SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	quote, err := c.orderService.Quote(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "name"), req.ToPrintConfig())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(quote); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// SaveConfig handles PUT /sessions/{sessionID}/files/{name}/config
// Validates, prices and stores the configuration. Nothing is stored on error.
func (c *ConfigController) SaveConfig(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	name := chi.URLParam(r, "name")
	log.Printf("📥 SaveConfig: session=%s file=%s", sessionID, name)

	var req models.SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	record, err := c.orderService.SaveConfig(r.Context(), sessionID, name, req.ToPrintConfig())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.FileRecordResponse{
		Name:         record.File.Name,
		Size:         record.File.Size,
		MediaType:    record.File.MediaType,
		PageCount:    record.PageCount,
		PageCountErr: record.PageCountErr,
		Config:       record.Config,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
