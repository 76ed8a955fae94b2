package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"print-order/repository"
	"print-order/service"
	"print-order/utils"
)

// writeError maps a service error to an HTTP status and a message a user can act on
func writeError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %v", err)
	}
	http.Error(w, message, status)
}

func classifyError(err error) (int, string) {
	var capErr *repository.CapacityExceededError
	var formatErr *service.InvalidFormatError

	switch {
	case errors.As(err, &capErr):
		return http.StatusConflict, fmt.Sprintf("You can upload a maximum of %d files.", capErr.Limit)
	case errors.As(err, &formatErr):
		return http.StatusUnsupportedMediaType, formatErr.Error()
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found or expired. Please start a new session."
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, utils.ErrInvalidEncoding):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, utils.ErrInvalidRange):
		return http.StatusUnprocessableEntity, "Invalid page range. Use a format like 1-5, 8, 11-13."
	case errors.Is(err, service.ErrPriceNotFinite):
		return http.StatusUnprocessableEntity, "Error calculating total price. Please check your configuration."
	case errors.Is(err, service.ErrPageCountUnavailable):
		return http.StatusUnprocessableEntity, "Could not read the number of pages of this file. Please select specific pages."
	case errors.Is(err, service.ErrInvalidConfig):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnconfiguredFiles):
		return http.StatusConflict, "Please configure all files before printing."
	case errors.Is(err, service.ErrNoFiles):
		return http.StatusBadRequest, "No files to print. Please upload a file first."
	default:
		return http.StatusInternalServerError, fmt.Sprintf("Internal error: %v", err)
	}
}
