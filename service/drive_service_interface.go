package service

import (
	"context"

	"print-order/models"
)

// DriveServiceInterface defines the contract for importing files from Google Drive
type DriveServiceInterface interface {
	FetchFiles(ctx context.Context, fileIDs []string) ([]models.UploadedFile, error)
	ListFolderPDFs(ctx context.Context, folderID string) ([]string, error)
}
