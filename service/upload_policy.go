package service

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"print-order/models"
)

// DefaultMaxFileSize is the largest accepted document, exclusive (30 MiB)
const DefaultMaxFileSize int64 = 30 * 1024 * 1024

// InvalidFormatError is returned when a candidate fails the upload pre-filter.
// The whole batch is rejected, valid files included.
type InvalidFormatError struct {
	Rejected []string
	Message  string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s (rejected: %s)", e.Message, strings.Join(e.Rejected, ", "))
}

// UploadPolicy is the caller-side pre-filter applied before files reach the registry
type UploadPolicy struct {
	MaxFileSize int64
}

// DetectMediaType sniffs the media type from the content, falling back to the declared one
// when the content is not recognized
func DetectMediaType(content []byte, declared string) string {
	detected := mimetype.Detect(content)
	if detected.Is("application/octet-stream") || detected.Is("text/plain") {
		if declared != "" {
			return declared
		}
	}
	// Drop parameters such as "; charset=utf-8"
	mediaType, _, _ := strings.Cut(detected.String(), ";")
	return mediaType
}

// CheckDocuments accepts a batch only if every file is a PDF under the size limit
func (p UploadPolicy) CheckDocuments(files []models.UploadedFile) error {
	maxSize := p.maxFileSize()

	var rejected []string
	for _, file := range files {
		if file.MediaType != models.MediaTypePDF || file.Size >= maxSize {
			rejected = append(rejected, file.Name)
		}
	}

	if len(rejected) > 0 {
		return &InvalidFormatError{
			Rejected: rejected,
			Message:  fmt.Sprintf("Invalid Format or File Size. Only PDF files under %dMB are allowed.", maxSize/(1024*1024)),
		}
	}
	return nil
}

// CheckCollageImages accepts a batch only if it is non-empty and every file is an image
func (p UploadPolicy) CheckCollageImages(files []models.UploadedFile) error {
	maxSize := p.maxFileSize()

	var rejected []string
	for _, file := range files {
		if !strings.HasPrefix(file.MediaType, "image/") || file.Size >= maxSize {
			rejected = append(rejected, file.Name)
		}
	}

	if len(files) == 0 || len(rejected) > 0 {
		return &InvalidFormatError{
			Rejected: rejected,
			Message:  "Invalid Format. Only JPG and PNG files are allowed.",
		}
	}
	return nil
}

func (p UploadPolicy) maxFileSize() int64 {
	if p.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return p.MaxFileSize
}
