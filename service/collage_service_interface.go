package service

import (
	"context"

	"print-order/models"
)

// PDFRenderer defines the contract for turning an HTML document into PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string, paper PaperSize) ([]byte, error)
}

// CollageServiceInterface defines the contract for composing images into a printable PDF
type CollageServiceInterface interface {
	Compose(ctx context.Context, images []models.UploadedFile, paper PaperSize) (models.UploadedFile, error)
}
