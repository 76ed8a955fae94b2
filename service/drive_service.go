package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"print-order/models"
)

// DriveService imports documents from Google Drive into an upload batch
type DriveService struct {
	client      *drive.Service
	maxFileSize int64
}

// NewDriveService creates a new DriveService instance.
// Pass option.WithCredentialsFile with the path to the Service Account JSON file in production.
func NewDriveService(ctx context.Context, maxFileSize int64, opts ...option.ClientOption) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	return &DriveService{
		client:      driveService,
		maxFileSize: maxFileSize,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// driveQueryEscaper escapes a value for a single-quoted string in a Drive search query
var driveQueryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// ListFolderPDFs lists the IDs of all PDF files in a Google Drive folder
func (ds *DriveService) ListFolderPDFs(ctx context.Context, folderID string) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false",
		driveQueryEscaper.Replace(folderID), models.MediaTypePDF)

	var ids []string
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name)").
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, file := range r.Files {
			ids = append(ids, file.Id)
		}
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	log.Printf("📥 Drive folder %s: %d PDFs", folderID, len(ids))
	return ids, nil
}

// FetchFiles downloads the given Drive files. Metadata is checked before downloading, so oversized
// files are returned with their real size and no content; the upload policy rejects them afterwards.
func (ds *DriveService) FetchFiles(ctx context.Context, fileIDs []string) ([]models.UploadedFile, error) {
	files := make([]models.UploadedFile, 0, len(fileIDs))
	for _, id := range fileIDs {
		meta, err := ds.client.Files.Get(id).
			Fields("id, name, mimeType, size").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get drive file %s: %w", id, err)
		}

		file := models.UploadedFile{
			Name:      meta.Name,
			Size:      meta.Size,
			MediaType: meta.MimeType,
		}

		if meta.Size >= ds.maxFileSize {
			log.Printf("⚠️  Drive file %s is too large (%d bytes), skipping download", meta.Name, meta.Size)
			files = append(files, file)
			continue
		}

		resp, err := ds.client.Files.Get(id).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to download drive file %s: %w", id, err)
		}
		content, err := io.ReadAll(io.LimitReader(resp.Body, ds.maxFileSize))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read drive file %s: %w", id, err)
		}

		file.Content = content
		file.Size = int64(len(content))
		file.MediaType = DetectMediaType(content, meta.MimeType)
		files = append(files, file)

		log.Printf("📥 Downloaded %s from Drive (%d bytes)", file.Name, file.Size)
	}
	return files, nil
}
