package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// renderTimeout bounds a single HTML to PDF conversion
const renderTimeout = 30 * time.Second

// ChromePDFRenderer prints HTML to PDF with a headless Chrome/Chromium
type ChromePDFRenderer struct {
	chromePath string
}

// NewChromePDFRenderer creates a renderer; an empty chromePath means auto-detect
func NewChromePDFRenderer(chromePath string) *ChromePDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromePDFRenderer{chromePath: chromePath}
}

// Ensure ChromePDFRenderer implements PDFRenderer
var _ PDFRenderer = (*ChromePDFRenderer)(nil)

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// RenderPDF loads the HTML into a blank page and prints it on the given paper without margins
func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, html string, paper PaperSize) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	} else {
		log.Printf("⚠️  Chrome not found, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		// Data URI images decode asynchronously
		chromedp.Evaluate(`
			Promise.all(Array.from(document.images).map(img => img.complete ? null :
				new Promise(resolve => { img.onload = resolve; img.onerror = resolve; })));
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(paper.Landscape).
				WithPaperWidth(paper.WidthIn).
				WithPaperHeight(paper.HeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
