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

// ImportController handles files that do not come from a plain upload: collages and Google Drive imports
type ImportController struct {
	orderService   *service.OrderService
	collageService service.CollageServiceInterface
	driveService   service.DriveServiceInterface // nil when Drive credentials are not configured
}

// NewImportController creates a new ImportController. driveService may be nil.
func NewImportController(orderService *service.OrderService, collageService service.CollageServiceInterface, driveService service.DriveServiceInterface) *ImportController {
	return &ImportController{
		orderService:   orderService,
		collageService: collageService,
		driveService:   driveService,
	}
}

// CreateCollage handles POST /sessions/{sessionID}/collage
// Expects multipart/form-data with one or more "images" parts and optional "pageSize" and "orientation" fields.
// The composed PDF is admitted like any uploaded file.
func (c *ImportController) CreateCollage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	log.Printf("📥 CreateCollage: session=%s", sessionID)

	images, err := readMultipartFiles(w, r, "images", service.MaxCollageImages, c.orderService.Policy().MaxFileSize)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	paper := service.PaperSizeFor(r.FormValue("pageSize"), r.FormValue("orientation"))
	collage, err := c.collageService.Compose(r.Context(), images, paper)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := c.orderService.AddFiles(sessionID, []models.UploadedFile{collage})
	if err != nil {
		writeError(w, err)
		return
	}

	writeAddResult(w, result)
}

// ImportFromDrive handles POST /sessions/{sessionID}/files/drive
// Body: {"fileIds": [...]} or {"folderId": "..."}. Imported files go through the same checks as uploads.
func (c *ImportController) ImportFromDrive(w http.ResponseWriter, r *http.Request) {
	if c.driveService == nil {
		http.Error(w, "Google Drive import is not configured", http.StatusNotImplemented)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	log.Printf("📥 ImportFromDrive: session=%s", sessionID)

	var req models.DriveImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	fileIDs := req.FileIDs
	if req.FolderID != "" {
		folderIDs, err := c.driveService.ListFolderPDFs(r.Context(), req.FolderID)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list Drive folder: %v", err), http.StatusBadGateway)
			return
		}
		fileIDs = append(fileIDs, folderIDs...)
	}
	if len(fileIDs) == 0 {
		http.Error(w, "fileIds or folderId is required", http.StatusBadRequest)
		return
	}

	files, err := c.driveService.FetchFiles(r.Context(), fileIDs)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import from Drive: %v", err), http.StatusBadGateway)
		return
	}

	result, err := c.orderService.AddDocuments(sessionID, files)
	if err != nil {
		writeError(w, err)
		return
	}

	writeAddResult(w, result)
}
