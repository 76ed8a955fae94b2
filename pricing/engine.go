package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"print-order/models"
	"print-order/utils"
)

// RateTable represents the pricing configuration: price per printed page by color mode
// Example pricing.json: {"currency": "Rs.", "rates": {"bw": 2, "color": 5}}
type RateTable struct {
	Currency string             `json:"currency"`
	Rates    map[string]float64 `json:"rates"` // [colorMode] = price per page
}

// DefaultRateTable returns the built-in rates: 2 per monochrome page, 5 per color page
func DefaultRateTable() RateTable {
	return RateTable{
		Currency: utils.DefaultCurrency,
		Rates: map[string]float64{
			models.ColorModeMonochrome: 2,
			models.ColorModeColor:      5,
		},
	}
}

// RateSource loads a rate table from an external store (e.g. the print_rates table)
type RateSource interface {
	LoadRates(ctx context.Context) (RateTable, error)
}

// LoadRateTable reads a rate table from a JSON file
func LoadRateTable(configPath string) (RateTable, error) {
	// Resolve config path
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return RateTable{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return RateTable{}, fmt.Errorf("failed to read pricing config: %w", err)
	}

	// Parse JSON
	var table RateTable
	if err := json.Unmarshal(data, &table); err != nil {
		return RateTable{}, fmt.Errorf("failed to parse pricing config: %w", err)
	}
	if err := validateRateTable(table); err != nil {
		return RateTable{}, fmt.Errorf("invalid pricing config %s: %w", configPath, err)
	}

	log.Printf("✅ PricingEngine: Loaded rate table from %s", configPath)
	return table, nil
}

func validateRateTable(table RateTable) error {
	if table.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	for _, mode := range []string{models.ColorModeMonochrome, models.ColorModeColor} {
		rate, ok := table.Rates[mode]
		if !ok {
			return fmt.Errorf("rate for color mode %q is required", mode)
		}
		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("rate for color mode %q must be a finite non-negative number, got %v", mode, rate)
		}
	}
	return nil
}

// Engine computes prices and validates order lines. It never reads or mutates external state.
type Engine struct {
	rates RateTable
}

// NewEngine creates a pricing engine for the given rate table
func NewEngine(table RateTable) (*Engine, error) {
	if err := validateRateTable(table); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	// Copy so later changes to the caller's map don't leak in
	rates := make(map[string]float64, len(table.Rates))
	for mode, rate := range table.Rates {
		rates[mode] = rate
	}
	return &Engine{rates: RateTable{Currency: table.Currency, Rates: rates}}, nil
}

// Currency returns the currency prefix used for formatted prices
func (e *Engine) Currency() string {
	return e.rates.Currency
}

// PricePerPage returns the rate for a color mode
func (e *Engine) PricePerPage(colorMode string) (float64, bool) {
	rate, ok := e.rates.Rates[colorMode]
	return rate, ok
}

// ComputePrice calculates pageCount * pricePerPage * copies.
// An unknown color mode yields NaN, which callers must treat as a validation failure.
func (e *Engine) ComputePrice(cfg models.PrintConfig, pageCount int) float64 {
	rate, ok := e.PricePerPage(cfg.ColorMode)
	if !ok {
		return math.NaN()
	}
	return float64(pageCount) * rate * float64(cfg.Copies)
}

// IsCompleteOrderLine reports whether every required field of the line is set and its total is positive.
// A zero total is treated as incomplete, so a legitimately free line would be rejected too.
func (e *Engine) IsCompleteOrderLine(line models.OrderLine) bool {
	cfg := line.Config
	return line.File != "" &&
		cfg.ColorMode != "" &&
		cfg.PageSelection != "" &&
		cfg.Copies > 0 &&
		cfg.PageSize != "" &&
		cfg.Orientation != "" &&
		cfg.Sided != "" &&
		cfg.TotalPrice > 0
}

// AggregateTotal sums the totalPrice of every configuration
func (e *Engine) AggregateTotal(configs []models.PrintConfig) float64 {
	var total float64
	for _, cfg := range configs {
		total += cfg.TotalPrice
	}
	return total
}

// Summarize builds the order summary for a set of order lines
func (e *Engine) Summarize(lines []models.OrderLine) models.OrderSummary {
	views := make([]models.OrderLineView, 0, len(lines))
	configs := make([]models.PrintConfig, 0, len(lines))
	for _, line := range lines {
		views = append(views, models.OrderLineView{
			OrderLine:      line,
			Valid:          e.IsCompleteOrderLine(line),
			FormattedPrice: utils.FormatPrice(e.rates.Currency, line.Config.TotalPrice),
		})
		configs = append(configs, line.Config)
	}

	total := e.AggregateTotal(configs)
	log.Printf("💰 Summarize: %d lines, total=%v", len(lines), total)
	return models.OrderSummary{
		Lines:          views,
		Total:          total,
		FormattedTotal: utils.FormatPrice(e.rates.Currency, total),
		Currency:       e.rates.Currency,
	}
}
