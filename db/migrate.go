package db

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotURL is returned when a connection string is in key=value form, which golang-migrate cannot use
var ErrNotURL = errors.New("connection string is not a postgres:// URL")

// MigrationURL converts a postgres:// URL into the pgx5:// form the migrate driver expects
func MigrationURL(connStr string) (string, error) {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(connStr, scheme); ok {
			return "pgx5://" + rest, nil
		}
	}
	return "", ErrNotURL
}

// Migrate applies the embedded SQL migrations (print_rates table and its default rows)
func Migrate(connStr string) error {
	dbURL, err := MigrationURL(connStr)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("✓ Migrations applied (version=%d, dirty=%v)", version, dirty)
	return nil
}
