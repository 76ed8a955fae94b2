package service

import (
	"context"
	"errors"
	"testing"

	"print-order/models"
)

func TestDocumentPageCounter_PDF(t *testing.T) {
	counter := NewDocumentPageCounter()

	for _, pages := range []int{1, 3, 12} {
		n, err := counter.GetPageCount(context.Background(), pdfUpload("doc.pdf", pages))
		if err != nil {
			t.Fatalf("GetPageCount(%d pages): %v", pages, err)
		}
		if n != pages {
			t.Errorf("GetPageCount = %d, want %d", n, pages)
		}
	}
}

func TestDocumentPageCounter_Image(t *testing.T) {
	counter := NewDocumentPageCounter()
	file := models.UploadedFile{Name: "photo.png", MediaType: models.MediaTypePNG, Content: pngImage(t, 4, 4)}

	n, err := counter.GetPageCount(context.Background(), file)
	if err != nil {
		t.Fatalf("GetPageCount: %v", err)
	}
	if n != 1 {
		t.Errorf("GetPageCount = %d, want 1", n)
	}
}

func TestDocumentPageCounter_Errors(t *testing.T) {
	counter := NewDocumentPageCounter()

	_, err := counter.GetPageCount(context.Background(), models.UploadedFile{Name: "a.txt", MediaType: "text/plain"})
	if !errors.Is(err, ErrUnsupportedDocument) {
		t.Errorf("text file error = %v, want ErrUnsupportedDocument", err)
	}

	broken := models.UploadedFile{Name: "broken.pdf", MediaType: models.MediaTypePDF, Content: []byte("not a pdf")}
	if _, err := counter.GetPageCount(context.Background(), broken); err == nil {
		t.Error("GetPageCount succeeded for a broken PDF")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := counter.GetPageCount(ctx, pdfUpload("doc.pdf", 2)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}
