package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityCollageTile = 85
	// Size settings (max dimension)
	maxSizeCollageTile = 1200
)

// FitCollageTile prepares one collage image: shrinks it to fit maxDim keeping the aspect ratio
// and re-encodes it as JPEG. Images already smaller than maxDim are not enlarged.
func FitCollageTile(imageData []byte, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = maxSizeCollageTile
	}

	// Decode the image
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	log.Printf("📸 Collage tile decoded: format=%s, bounds=%v", format, bounds)

	var fitted image.Image = img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		fitted = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Printf("🔄 Resized collage tile: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), fitted.Bounds().Dx(), fitted.Bounds().Dy())
	}

	// Flatten transparency onto white so PNG cut-outs print cleanly
	flattened := imaging.New(fitted.Bounds().Dx(), fitted.Bounds().Dy(), image.White)
	flattened = imaging.Overlay(flattened, fitted, image.Pt(0, 0), 1.0)

	// Encode to JPEG
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: qualityCollageTile}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
