package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"print-order/models"
)

// ErrUnsupportedDocument is returned when the page count of a media type cannot be determined
var ErrUnsupportedDocument = errors.New("unsupported document type")

// DocumentPageCounter counts pages of PDFs by reading their page tree; an image is one page
type DocumentPageCounter struct{}

// NewDocumentPageCounter creates a new DocumentPageCounter
func NewDocumentPageCounter() *DocumentPageCounter {
	return &DocumentPageCounter{}
}

// Ensure DocumentPageCounter implements PageCounter
var _ PageCounter = (*DocumentPageCounter)(nil)

// GetPageCount returns the number of pages of the file
func (c *DocumentPageCounter) GetPageCount(ctx context.Context, file models.UploadedFile) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch {
	case file.MediaType == models.MediaTypePDF:
		return countPDFPages(file.Content)
	case strings.HasPrefix(file.MediaType, "image/"):
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedDocument, file.MediaType)
	}
}

func countPDFPages(content []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	n, err := pagetree.NumPages(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read page tree: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return n, nil
}
