package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"print-order/pricing"
)

// RateRepository reads the per-page rates from the print_rates table (see db/migrations)
type RateRepository struct {
	db *sql.DB
}

// NewRateRepository creates a new RateRepository
func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Ensure RateRepository implements RateRepositoryInterface and pricing.RateSource
var (
	_ RateRepositoryInterface = (*RateRepository)(nil)
	_ pricing.RateSource      = (*RateRepository)(nil)
)

// LoadRates reads every row of print_rates into a rate table
func (r *RateRepository) LoadRates(ctx context.Context) (pricing.RateTable, error) {
	query := `
		SELECT color_mode, price_per_page::float8, currency
		FROM print_rates
		ORDER BY color_mode
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying print_rates: %v", err)
		return pricing.RateTable{}, fmt.Errorf("failed to query print rates: %w", err)
	}
	defer rows.Close()

	table := pricing.RateTable{Rates: make(map[string]float64)}
	for rows.Next() {
		var colorMode, currency string
		var rate float64
		if err := rows.Scan(&colorMode, &rate, &currency); err != nil {
			return pricing.RateTable{}, fmt.Errorf("failed to scan print rate: %w", err)
		}
		if table.Currency != "" && table.Currency != currency {
			return pricing.RateTable{}, fmt.Errorf("print_rates mixes currencies %q and %q", table.Currency, currency)
		}
		table.Currency = currency
		table.Rates[colorMode] = rate
	}

	if err := rows.Err(); err != nil {
		return pricing.RateTable{}, fmt.Errorf("failed to iterate print rates: %w", err)
	}

	log.Printf("✓ Loaded %d print rates from database", len(table.Rates))
	return table, nil
}
