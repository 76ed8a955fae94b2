package utils

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"print-order/models"
)

// ErrInvalidEncoding is returned when a flat encoded configuration fails validation on decode
var ErrInvalidEncoding = errors.New("invalid encoded configuration")

// Keys of the flat record format. In an order query every key is suffixed with the
// line index and the line's file name is stored under "file<i>":
//
//	file0=report.pdf&color0=bw&orientation0=portrait&pagesToPrint0=specific&specificRange0=1-5%2C+8
//	&sided0=single&copies0=2&pageSize0=a4&remarks0=&totalPrice0=24&configured0=true
const (
	keyFile          = "file"
	keyColor         = "color"
	keyOrientation   = "orientation"
	keyPagesToPrint  = "pagesToPrint"
	keySpecificRange = "specificRange"
	keySided         = "sided"
	keyCopies        = "copies"
	keyPageSize      = "pageSize"
	keyRemarks       = "remarks"
	keyTotalPrice    = "totalPrice"
	keyConfigured    = "configured"
)

// legacyPageSizeUnset is the numeric page size new files were created with before page size became an enum
const legacyPageSizeUnset = "0"

// EncodeConfig encodes a configuration into the flat key-value record format
func EncodeConfig(cfg models.PrintConfig) url.Values {
	values := url.Values{}
	encodeConfigInto(values, "", cfg)
	return values
}

// DecodeConfig decodes and validates a configuration from the flat key-value record format.
// A missing or zero copies value is normalized to 1.
func DecodeConfig(values url.Values) (models.PrintConfig, error) {
	return decodeConfigFrom(values, "")
}

// EncodeOrderQuery encodes order lines as indexed flat records, suitable for a URL query
func EncodeOrderQuery(lines []models.OrderLine) url.Values {
	values := url.Values{}
	for i, line := range lines {
		suffix := strconv.Itoa(i)
		values.Set(keyFile+suffix, line.File)
		encodeConfigInto(values, suffix, line.Config)
	}
	return values
}

// DecodeOrderQuery decodes order lines from indexed flat records.
// Lines are read in order while "file<i>" is present and non-empty.
func DecodeOrderQuery(values url.Values) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	for i := 0; ; i++ {
		suffix := strconv.Itoa(i)
		file := values.Get(keyFile + suffix)
		if file == "" {
			break
		}
		cfg, err := decodeConfigFrom(values, suffix)
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", i, file, err)
		}
		lines = append(lines, models.OrderLine{File: file, Config: cfg})
	}
	return lines, nil
}

func encodeConfigInto(values url.Values, suffix string, cfg models.PrintConfig) {
	values.Set(keyColor+suffix, cfg.ColorMode)
	values.Set(keyOrientation+suffix, cfg.Orientation)
	values.Set(keyPagesToPrint+suffix, cfg.PageSelection)
	values.Set(keySpecificRange+suffix, cfg.SpecificRange)
	values.Set(keySided+suffix, cfg.Sided)
	values.Set(keyCopies+suffix, strconv.Itoa(cfg.Copies))
	values.Set(keyPageSize+suffix, cfg.PageSize)
	values.Set(keyRemarks+suffix, cfg.Remarks)
	values.Set(keyTotalPrice+suffix, strconv.FormatFloat(cfg.TotalPrice, 'f', -1, 64))
	values.Set(keyConfigured+suffix, strconv.FormatBool(cfg.Configured))
}

// decodeConfigFrom validates every field; empty enum values are kept as unset so the
// order validator can report the line as incomplete, unknown values are rejected
func decodeConfigFrom(values url.Values, suffix string) (models.PrintConfig, error) {
	cfg := models.PrintConfig{
		ColorMode:     values.Get(keyColor + suffix),
		Orientation:   values.Get(keyOrientation + suffix),
		PageSelection: values.Get(keyPagesToPrint + suffix),
		SpecificRange: values.Get(keySpecificRange + suffix),
		Sided:         values.Get(keySided + suffix),
		PageSize:      values.Get(keyPageSize + suffix),
		Remarks:       values.Get(keyRemarks + suffix),
	}

	if cfg.ColorMode != "" && !models.IsValidColorMode(cfg.ColorMode) {
		return cfg, fmt.Errorf("%w: unknown color mode %q", ErrInvalidEncoding, cfg.ColorMode)
	}
	if cfg.Orientation != "" && !models.IsValidOrientation(cfg.Orientation) {
		return cfg, fmt.Errorf("%w: unknown orientation %q", ErrInvalidEncoding, cfg.Orientation)
	}
	if cfg.PageSelection != "" && !models.IsValidPageSelection(cfg.PageSelection) {
		return cfg, fmt.Errorf("%w: unknown page selection %q", ErrInvalidEncoding, cfg.PageSelection)
	}
	if cfg.Sided != "" && !models.IsValidSided(cfg.Sided) {
		return cfg, fmt.Errorf("%w: unknown sided value %q", ErrInvalidEncoding, cfg.Sided)
	}
	if cfg.PageSize == legacyPageSizeUnset {
		cfg.PageSize = ""
	}
	if cfg.PageSize != "" && !models.IsValidPageSize(cfg.PageSize) {
		return cfg, fmt.Errorf("%w: unknown page size %q", ErrInvalidEncoding, cfg.PageSize)
	}
	if cfg.PageSelection == models.PageSelectionSpecific && !ValidatePageRange(cfg.SpecificRange) {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidEncoding, ErrInvalidRange)
	}

	cfg.Copies = 1
	if raw := values.Get(keyCopies + suffix); raw != "" {
		copies, err := strconv.Atoi(raw)
		if err != nil || copies < 0 {
			return cfg, fmt.Errorf("%w: copies must be a positive integer, got %q", ErrInvalidEncoding, raw)
		}
		if copies > 0 {
			cfg.Copies = copies
		}
	}

	if raw := values.Get(keyTotalPrice + suffix); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
			return cfg, fmt.Errorf("%w: totalPrice must be a finite non-negative number, got %q", ErrInvalidEncoding, raw)
		}
		cfg.TotalPrice = total
	}

	if raw := values.Get(keyConfigured + suffix); raw != "" {
		configured, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: configured must be true or false, got %q", ErrInvalidEncoding, raw)
		}
		cfg.Configured = configured
	}

	return cfg, nil
}
