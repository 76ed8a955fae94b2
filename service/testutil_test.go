package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"print-order/models"
)

// minimalPDF builds a valid PDF with the given number of empty pages
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// pngImage encodes a w x h image with a transparent left half
func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func pdfUpload(name string, pages int) models.UploadedFile {
	content := minimalPDF(pages)
	return models.UploadedFile{Name: name, Size: int64(len(content)), MediaType: models.MediaTypePDF, Content: content}
}

// fakeCounter returns fixed page counts by file name
type fakeCounter struct {
	mu    sync.Mutex
	pages map[string]int
	errs  map[string]error
	calls int
}

func (c *fakeCounter) GetPageCount(ctx context.Context, file models.UploadedFile) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if err := c.errs[file.Name]; err != nil {
		return 0, err
	}
	return c.pages[file.Name], nil
}

// fakeRenderer records the HTML it was asked to print
type fakeRenderer struct {
	html  string
	paper PaperSize
	err   error
}

func (r *fakeRenderer) RenderPDF(ctx context.Context, html string, paper PaperSize) ([]byte, error) {
	r.html = html
	r.paper = paper
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 collage"), nil
}

// gatedCounter counts pages with DocumentPageCounter, but holds its first call until release is closed
type gatedCounter struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedCounter() *gatedCounter {
	return &gatedCounter{started: make(chan struct{}), release: make(chan struct{})}
}

func (c *gatedCounter) GetPageCount(ctx context.Context, file models.UploadedFile) (int, error) {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.started)
		<-c.release
	}
	return NewDocumentPageCounter().GetPageCount(ctx, file)
}
