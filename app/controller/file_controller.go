package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"print-order/models"
	"print-order/repository"
	"print-order/service"
)

// maxMultipartMemory is the part of a multipart body kept in memory; the rest spills to temp files
const maxMultipartMemory = 32 << 20

// FileController handles HTTP requests for the files of a session
type FileController struct {
	orderService *service.OrderService
}

// NewFileController creates a new FileController
func NewFileController(orderService *service.OrderService) *FileController {
	return &FileController{
		orderService: orderService,
	}
}

// ListFiles handles GET /sessions/{sessionID}/files
// Returns the session's files in upload order
func (c *FileController) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := c.orderService.ListFiles(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(files); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// UploadFiles handles POST /sessions/{sessionID}/files
// Expects multipart/form-data with one or more "files" parts. The batch is admitted as a whole or not at all.
func (c *FileController) UploadFiles(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	log.Printf("📥 UploadFiles: session=%s", sessionID)

	files, err := readMultipartFiles(w, r, "files", c.orderService.MaxFiles(), c.orderService.Policy().MaxFileSize)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}
	if len(files) == 0 {
		http.Error(w, "At least one file is required", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.AddDocuments(sessionID, files)
	if err != nil {
		writeError(w, err)
		return
	}

	writeAddResult(w, result)
}

// DeleteFile handles DELETE /sessions/{sessionID}/files/{name}
// Deleting a file that is not registered is a no-op
func (c *FileController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if _, err := c.orderService.RemoveFile(chi.URLParam(r, "sessionID"), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSelection handles POST /sessions/{sessionID}/files/{name}/select
// Selects the file, or clears the selection when the file was already selected
func (c *FileController) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	selected, err := c.orderService.ToggleSelection(chi.URLParam(r, "sessionID"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.SelectionResponse{Selected: selected}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetSelection handles GET /sessions/{sessionID}/selection
func (c *FileController) GetSelection(w http.ResponseWriter, r *http.Request) {
	selected, err := c.orderService.Selection(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.SelectionResponse{Selected: selected}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// PreviewFile handles GET /sessions/{sessionID}/files/{name}/preview
// Serves the stored content with its media type so the browser can render it inline
func (c *FileController) PreviewFile(w http.ResponseWriter, r *http.Request) {
	record, err := c.orderService.GetFile(chi.URLParam(r, "sessionID"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", record.File.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.File.Name))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(record.File.Content)
}

// uploadBodyLimit is the largest request body accepted for a batch of maxParts files:
// room for one more maximum-size part than allowed, plus multipart overhead
func uploadBodyLimit(maxParts int, maxFileSize int64) int64 {
	if maxParts <= 0 {
		maxParts = repository.DefaultMaxFiles
	}
	if maxFileSize <= 0 {
		maxFileSize = service.DefaultMaxFileSize
	}
	return int64(maxParts+1)*maxFileSize + (1 << 20)
}

// readMultipartFiles reads every part under field into memory and sniffs its media type.
// Parts larger than maxFileSize are kept with their real size and no content so the upload policy rejects them.
func readMultipartFiles(w http.ResponseWriter, r *http.Request, field string, maxParts int, maxFileSize int64) ([]models.UploadedFile, error) {
	if maxFileSize <= 0 {
		maxFileSize = service.DefaultMaxFileSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, uploadBodyLimit(maxParts, maxFileSize))

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File[field]
	files := make([]models.UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := readPart(header, maxFileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func readPart(header *multipart.FileHeader, maxFileSize int64) (models.UploadedFile, error) {
	file := models.UploadedFile{
		Name:      header.Filename,
		Size:      header.Size,
		MediaType: header.Header.Get("Content-Type"),
	}
	if header.Size >= maxFileSize {
		return file, nil
	}

	part, err := header.Open()
	if err != nil {
		return file, err
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		return file, err
	}

	file.Content = content
	file.MediaType = service.DetectMediaType(content, file.MediaType)
	return file, nil
}

// writeAddResult writes the admitted and skipped names of a batch
func writeAddResult(w http.ResponseWriter, result *repository.AddResult) {
	response := models.AddFilesResponse{
		Admitted: make([]string, 0, len(result.Admitted)),
		Skipped:  result.Skipped,
	}
	for _, file := range result.Admitted {
		response.Admitted = append(response.Admitted, file.Name)
	}
	if response.Skipped == nil {
		response.Skipped = []string{}
	}
	response.Message = fmt.Sprintf("%d file(s) uploaded", len(response.Admitted))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
