package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection used to read the rate table.
// It stays nil when no database is configured.
var DB *sql.DB

// Params holds the individual connection variables used when DATABASE_URL is not set
type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnString builds a postgres:// URL from the individual variables.
// Returns an empty string when host, user or database name are missing.
func (p Params) ConnString() string {
	if p.Host == "" || p.User == "" || p.Name == "" {
		return ""
	}

	port := p.Port
	if port == "" {
		port = "5432"
	}
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	user := url.User(p.User)
	if p.Password != "" {
		user = url.UserPassword(p.User, p.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(p.Host, port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

// InitDB opens and pings the database connection
func InitDB(ctx context.Context, connStr string) error {
	if connStr == "" {
		return fmt.Errorf("database connection string is empty")
	}

	var err error
	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Rates are read once at startup, a small pool is enough
	DB.SetMaxOpenConns(2)
	DB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
