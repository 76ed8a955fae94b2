package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/api/option"

	"print-order/app/controller"
	"print-order/app/router"
	"print-order/db"
	"print-order/pricing"
	"print-order/repository"
	"print-order/service"
)

// App holds the HTTP handler and the services that need a clean shutdown
type App struct {
	Handler      http.Handler
	OrderService *service.OrderService
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *Config) (*App, error) {
	// Load the rate table: database first, then the JSON file, then the built-in rates
	table, err := loadRateTable(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine, err := pricing.NewEngine(table)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing engine: %w", err)
	}

	// Initialize session store
	sessions := repository.NewSessionStore(cfg.MaxSessions, cfg.SessionTTL, cfg.MaxFiles)

	// Initialize services
	policy := service.UploadPolicy{MaxFileSize: cfg.MaxFileSize}
	orderService := service.NewOrderService(sessions, engine, service.NewDocumentPageCounter(), policy, cfg.MaxCopies)
	collageService := service.NewCollageService(service.NewChromePDFRenderer(cfg.ChromePath), policy)

	// Drive import is optional
	var driveService service.DriveServiceInterface
	if cfg.DriveCredentials != "" {
		ds, err := service.NewDriveService(ctx, cfg.MaxFileSize, option.WithCredentialsFile(cfg.DriveCredentials))
		if err != nil {
			return nil, err
		}
		driveService = ds
		log.Printf("✓ Google Drive import enabled")
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS is not set, Drive import disabled")
	}

	// Create controllers
	controllers := &router.Controllers{
		Session: controller.NewSessionController(orderService),
		File:    controller.NewFileController(orderService),
		Import:  controller.NewImportController(orderService, collageService, driveService),
		Config:  controller.NewConfigController(orderService),
		Order:   controller.NewOrderController(orderService),
	}

	return &App{
		Handler:      router.NewRouter(controllers),
		OrderService: orderService,
	}, nil
}

func loadRateTable(ctx context.Context, cfg *Config) (pricing.RateTable, error) {
	if cfg.DatabaseURL != "" {
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return pricing.RateTable{}, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			if !errors.Is(err, db.ErrNotURL) {
				return pricing.RateTable{}, err
			}
			log.Printf("⚠️  DATABASE_URL is not a postgres:// URL, skipping migrations")
		}
		var source pricing.RateSource = repository.NewRateRepository(db.DB)
		table, err := source.LoadRates(ctx)
		if err != nil {
			return pricing.RateTable{}, err
		}
		return table, nil
	}

	if cfg.PricingConfigPath != "" {
		table, err := pricing.LoadRateTable(cfg.PricingConfigPath)
		if err != nil {
			return pricing.RateTable{}, err
		}
		return table, nil
	}

	log.Printf("✓ Using built-in rates")
	return pricing.DefaultRateTable(), nil
}
