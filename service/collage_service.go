package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"print-order/models"
)

// MaxCollageImages is the largest number of images composed on one collage page
const MaxCollageImages = 16

// PaperSize describes a printable sheet in inches
type PaperSize struct {
	Name      string
	WidthIn   float64
	HeightIn  float64
	Landscape bool
}

// paperSizes maps page sizes to their portrait dimensions in inches
var paperSizes = map[string]PaperSize{
	models.PageSizeA4:     {Name: "A4", WidthIn: 8.27, HeightIn: 11.69},
	models.PageSizeLetter: {Name: "Letter", WidthIn: 8.5, HeightIn: 11},
	models.PageSizeLegal:  {Name: "Legal", WidthIn: 8.5, HeightIn: 14},
}

// PaperSizeFor returns the sheet for a page size and orientation, A4 portrait when unknown
func PaperSizeFor(pageSize, orientation string) PaperSize {
	paper, ok := paperSizes[pageSize]
	if !ok {
		paper = paperSizes[models.PageSizeA4]
	}
	if orientation == models.OrientationLandscape {
		paper.Landscape = true
	}
	return paper
}

// CSSWidth returns the sheet width as a CSS length, honoring orientation
func (p PaperSize) CSSWidth() string {
	if p.Landscape {
		return fmt.Sprintf("%.2fin", p.HeightIn)
	}
	return fmt.Sprintf("%.2fin", p.WidthIn)
}

// CSSHeight returns the sheet height as a CSS length, honoring orientation
func (p PaperSize) CSSHeight() string {
	if p.Landscape {
		return fmt.Sprintf("%.2fin", p.WidthIn)
	}
	return fmt.Sprintf("%.2fin", p.HeightIn)
}

var collageTemplate = template.Must(template.New("collage").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: {{.Width}} {{.Height}}; margin: 0; }
  html, body { margin: 0; padding: 0; width: {{.Width}}; height: {{.Height}}; background: #fff; }
  .collage { display: grid; box-sizing: border-box; width: 100%; height: 100%; padding: 0.25in; gap: 0.1in;
    grid-template-columns: repeat({{.Columns}}, 1fr); grid-template-rows: repeat({{.Rows}}, 1fr); }
  .tile { display: flex; align-items: center; justify-content: center; overflow: hidden; }
  .tile img { max-width: 100%; max-height: 100%; object-fit: contain; }
</style>
</head>
<body>
<div class="collage">
{{range .Tiles}}  <div class="tile"><img src="{{.}}"></div>
{{end}}</div>
</body>
</html>
`))

type collageTemplateData struct {
	Width   string
	Height  string
	Columns int
	Rows    int
	Tiles   []template.URL
}

// CollageService composes uploaded images into a single-page PDF
type CollageService struct {
	renderer PDFRenderer
	policy   UploadPolicy
	tileDim  int
}

// NewCollageService creates a new CollageService
func NewCollageService(renderer PDFRenderer, policy UploadPolicy) *CollageService {
	return &CollageService{
		renderer: renderer,
		policy:   policy,
		tileDim:  maxSizeCollageTile,
	}
}

// Ensure CollageService implements CollageServiceInterface
var _ CollageServiceInterface = (*CollageService)(nil)

// collageGrid returns the smallest near-square grid holding n tiles
func collageGrid(n int) (columns, rows int) {
	columns = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(columns)))
	return columns, rows
}

// RenderCollageHTML builds the collage page for already fitted JPEG tiles
func RenderCollageHTML(tiles [][]byte, paper PaperSize) (string, error) {
	columns, rows := collageGrid(len(tiles))
	data := collageTemplateData{
		Width:   paper.CSSWidth(),
		Height:  paper.CSSHeight(),
		Columns: columns,
		Rows:    rows,
	}
	for _, tile := range tiles {
		data.Tiles = append(data.Tiles, template.URL("data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(tile)))
	}

	var buf bytes.Buffer
	if err := collageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render collage template: %w", err)
	}
	return buf.String(), nil
}

// Compose validates the images, lays them out on one sheet and returns the resulting PDF as an upload candidate
func (s *CollageService) Compose(ctx context.Context, images []models.UploadedFile, paper PaperSize) (models.UploadedFile, error) {
	start := time.Now()

	if err := s.policy.CheckCollageImages(images); err != nil {
		collagesTotal.WithLabelValues("invalid").Inc()
		return models.UploadedFile{}, err
	}
	if len(images) > MaxCollageImages {
		collagesTotal.WithLabelValues("invalid").Inc()
		return models.UploadedFile{}, &InvalidFormatError{
			Message: fmt.Sprintf("A collage can hold at most %d images.", MaxCollageImages),
		}
	}

	tiles := make([][]byte, 0, len(images))
	for _, img := range images {
		tile, err := FitCollageTile(img.Content, s.tileDim)
		if err != nil {
			collagesTotal.WithLabelValues("invalid").Inc()
			return models.UploadedFile{}, &InvalidFormatError{
				Rejected: []string{img.Name},
				Message:  fmt.Sprintf("Could not read image: %v", err),
			}
		}
		tiles = append(tiles, tile)
	}

	html, err := RenderCollageHTML(tiles, paper)
	if err != nil {
		collagesTotal.WithLabelValues("failed").Inc()
		return models.UploadedFile{}, err
	}

	pdfData, err := s.renderer.RenderPDF(ctx, html, paper)
	if err != nil {
		collagesTotal.WithLabelValues("failed").Inc()
		return models.UploadedFile{}, fmt.Errorf("failed to render collage PDF: %w", err)
	}

	collage := models.UploadedFile{
		Name:      fmt.Sprintf("collage-%s.pdf", uuid.New().String()[:8]),
		Size:      int64(len(pdfData)),
		MediaType: models.MediaTypePDF,
		Content:   pdfData,
	}

	collagesTotal.WithLabelValues("ok").Inc()
	log.Printf("🖼️  Collage composed: %s from %d images on %s in %v", collage.Name, len(images), paper.Name, time.Since(start))
	return collage, nil
}
