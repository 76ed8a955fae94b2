package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"sync"
	"time"

	"print-order/models"
	"print-order/pricing"
	"print-order/repository"
	"print-order/utils"
)

// DefaultMaxCopies is the largest number of copies a configuration may ask for
const DefaultMaxCopies = 10

// pageCountTimeout bounds a single background page count
const pageCountTimeout = 30 * time.Second

var (
	// ErrInvalidConfig is returned when a configuration field has an unknown value
	ErrInvalidConfig = errors.New("invalid print configuration")
	// ErrPriceNotFinite is returned when the computed price is NaN or infinite
	ErrPriceNotFinite = errors.New("total price is not a finite number")
	// ErrPageCountUnavailable is returned when the document's page count could not be determined
	ErrPageCountUnavailable = errors.New("page count unavailable")
	// ErrNoFiles is returned when checking out an empty session
	ErrNoFiles = errors.New("no files to print")
	// ErrUnconfiguredFiles is returned when checking out before every file was configured
	ErrUnconfiguredFiles = errors.New("not every file is configured")
)

// OrderService coordinates the session registries, the page counter and the pricing engine.
// HTTP controllers only dispatch to it.
type OrderService struct {
	sessions  repository.SessionStoreInterface
	engine    *pricing.Engine
	counter   PageCounter
	policy    UploadPolicy
	maxCopies int

	pending sync.WaitGroup
}

// NewOrderService creates a new OrderService
func NewOrderService(
	sessions repository.SessionStoreInterface,
	engine *pricing.Engine,
	counter PageCounter,
	policy UploadPolicy,
	maxCopies int,
) *OrderService {
	if maxCopies <= 0 {
		maxCopies = DefaultMaxCopies
	}
	return &OrderService{
		sessions:  sessions,
		engine:    engine,
		counter:   counter,
		policy:    policy,
		maxCopies: maxCopies,
	}
}

// Engine returns the pricing engine
func (s *OrderService) Engine() *pricing.Engine {
	return s.engine
}

// MaxFiles returns how many files a session accepts
func (s *OrderService) MaxFiles() int {
	return s.sessions.MaxFiles()
}

// Policy returns the upload pre-filter
func (s *OrderService) Policy() UploadPolicy {
	return s.policy
}

// CreateSession starts a new empty session and returns its ID
func (s *OrderService) CreateSession() string {
	return s.sessions.Create().ID
}

// AddDocuments pre-filters an uploaded batch (PDF only, size limit) and admits it
func (s *OrderService) AddDocuments(sessionID string, files []models.UploadedFile) (*repository.AddResult, error) {
	if err := s.policy.CheckDocuments(files); err != nil {
		batchesRejectedTotal.WithLabelValues("format").Inc()
		log.Printf("❌ AddDocuments: %v", err)
		return nil, err
	}
	return s.AddFiles(sessionID, files)
}

// AddFiles admits an already filtered batch (e.g. a composed collage) and starts counting pages
func (s *OrderService) AddFiles(sessionID string, files []models.UploadedFile) (*repository.AddResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := session.AddFiles(files)
	if err != nil {
		var capErr *repository.CapacityExceededError
		if errors.As(err, &capErr) {
			batchesRejectedTotal.WithLabelValues("capacity").Inc()
		}
		log.Printf("❌ AddFiles: session=%s: %v", sessionID, err)
		return nil, err
	}

	if len(result.Skipped) > 0 {
		log.Printf("⏭️  AddFiles: session=%s skipped duplicates %v", sessionID, result.Skipped)
	}

	for i, file := range result.Admitted {
		s.startPageCount(session, result.Tokens[i], file)
	}
	filesAdmittedTotal.Add(float64(len(result.Admitted)))

	log.Printf("✓ AddFiles: session=%s admitted %d files", sessionID, len(result.Admitted))
	return result, nil
}

// startPageCount counts pages in the background; the result is dropped if the file is gone by then
func (s *OrderService) startPageCount(session repository.SessionInterface, token models.PageCountToken, file models.UploadedFile) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), pageCountTimeout)
		defer cancel()

		n, err := s.counter.GetPageCount(ctx, file)
		s.applyPageCount(session, token, n, err)
	}()
}

func (s *OrderService) applyPageCount(session repository.SessionInterface, token models.PageCountToken, n int, err error) bool {
	if !session.ApplyPageCount(token, n, err) {
		pageCountsTotal.WithLabelValues("stale").Inc()
		return false
	}
	if err != nil {
		pageCountsTotal.WithLabelValues("failed").Inc()
		log.Printf("⚠️  Page count failed for %s: %v", token.Name, err)
		return true
	}
	pageCountsTotal.WithLabelValues("applied").Inc()
	log.Printf("📄 Page count for %s: %d", token.Name, n)
	return true
}

// Wait blocks until every background page count has finished
func (s *OrderService) Wait() {
	s.pending.Wait()
}

// RemoveFile deletes a file from the session; unknown names are a no-op
func (s *OrderService) RemoveFile(sessionID, name string) (bool, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return false, err
	}
	removed := session.RemoveFile(name)
	if removed {
		log.Printf("🗑️  RemoveFile: session=%s removed %s", sessionID, name)
	}
	return removed, nil
}

// ListFiles returns the session's records in insertion order
func (s *OrderService) ListFiles(sessionID string) ([]models.FileRecordResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	selected := session.Selected()
	records := session.ListRecords()
	response := make([]models.FileRecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, models.FileRecordResponse{
			Name:         record.File.Name,
			Size:         record.File.Size,
			MediaType:    record.File.MediaType,
			PageCount:    record.PageCount,
			PageCountErr: record.PageCountErr,
			Selected:     record.File.Name == selected,
			Config:       record.Config,
		})
	}
	return response, nil
}

// GetFile returns a single record including its content
func (s *OrderService) GetFile(sessionID, name string) (*models.FileRecord, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Get(name)
}

// ToggleSelection selects a file, or deselects it when it is already selected
func (s *OrderService) ToggleSelection(sessionID, name string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	return session.ToggleSelection(name)
}

// Selection returns the selected file of a session
func (s *OrderService) Selection(sessionID string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	return session.Selected(), nil
}

// Quote prices a configuration without saving it
func (s *OrderService) Quote(ctx context.Context, sessionID, name string, cfg models.PrintConfig) (*models.QuoteResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	cfg, pageCount, _, err := s.price(ctx, session, name, cfg)
	if err != nil {
		return nil, err
	}

	rate, _ := s.engine.PricePerPage(cfg.ColorMode)
	return &models.QuoteResponse{
		PageCount:      pageCount,
		PricePerPage:   rate,
		Copies:         cfg.Copies,
		TotalPrice:     cfg.TotalPrice,
		FormattedPrice: utils.FormatPrice(s.engine.Currency(), cfg.TotalPrice),
	}, nil
}

// SaveConfig validates and prices a configuration, then stores it as the file's configuration.
// Nothing is stored when the range is invalid, the price is not a finite number, or the file was
// removed (or removed and added again) while it was being priced.
func (s *OrderService) SaveConfig(ctx context.Context, sessionID, name string, cfg models.PrintConfig) (*models.FileRecord, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	cfg, _, token, err := s.price(ctx, session, name, cfg)
	if err != nil {
		configSavesTotal.WithLabelValues(saveResult(err)).Inc()
		log.Printf("❌ SaveConfig: session=%s file=%s: %v", sessionID, name, err)
		return nil, err
	}

	record, err := session.UpdateConfigIf(token, cfg)
	if err != nil {
		configSavesTotal.WithLabelValues("stale").Inc()
		log.Printf("❌ SaveConfig: session=%s file=%s: %v", sessionID, name, err)
		return nil, err
	}

	configSavesTotal.WithLabelValues("saved").Inc()
	log.Printf("💰 SaveConfig: session=%s file=%s total=%v", sessionID, name, record.Config.TotalPrice)
	return record, nil
}

// price validates cfg, resolves its page count and fills in TotalPrice.
// The returned token identifies the admission the price was computed for.
func (s *OrderService) price(ctx context.Context, session repository.SessionInterface, name string, cfg models.PrintConfig) (models.PrintConfig, int, models.PageCountToken, error) {
	record, err := session.Get(name)
	if err != nil {
		return cfg, 0, models.PageCountToken{}, err
	}
	token := models.PageCountToken{Name: record.File.Name, Generation: record.Generation}

	if err := s.validateConfig(cfg); err != nil {
		return cfg, 0, token, err
	}

	var pageCount int
	if cfg.PageSelection == models.PageSelectionSpecific {
		pageCount, err = utils.ResolvePageCount(cfg.SpecificRange)
		if err != nil {
			return cfg, 0, token, err
		}
	} else {
		cfg.SpecificRange = ""
		pageCount, err = s.documentPageCount(ctx, session, record, token)
		if err != nil {
			return cfg, 0, token, err
		}
	}

	total := s.engine.ComputePrice(cfg, pageCount)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return cfg, pageCount, token, ErrPriceNotFinite
	}
	cfg.TotalPrice = total
	return cfg, pageCount, token, nil
}

// documentPageCount returns the known page count, counting now if the background count has not finished
func (s *OrderService) documentPageCount(ctx context.Context, session repository.SessionInterface, record *models.FileRecord, token models.PageCountToken) (int, error) {
	if record.PageCount > 0 {
		return record.PageCount, nil
	}
	if record.PageCountErr != "" {
		return 0, fmt.Errorf("%w: %s", ErrPageCountUnavailable, record.PageCountErr)
	}

	n, err := s.counter.GetPageCount(ctx, record.File)
	if !s.applyPageCount(session, token, n, err) {
		return 0, fmt.Errorf("page count for %q (generation %d): %w", token.Name, token.Generation, repository.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageCountUnavailable, err)
	}
	return n, nil
}

func (s *OrderService) validateConfig(cfg models.PrintConfig) error {
	switch {
	case !models.IsValidColorMode(cfg.ColorMode):
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, cfg.ColorMode)
	case !models.IsValidOrientation(cfg.Orientation):
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalidConfig, cfg.Orientation)
	case !models.IsValidPageSelection(cfg.PageSelection):
		return fmt.Errorf("%w: unknown page selection %q", ErrInvalidConfig, cfg.PageSelection)
	case !models.IsValidSided(cfg.Sided):
		return fmt.Errorf("%w: unknown sided value %q", ErrInvalidConfig, cfg.Sided)
	case !models.IsValidPageSize(cfg.PageSize):
		return fmt.Errorf("%w: unknown page size %q", ErrInvalidConfig, cfg.PageSize)
	case cfg.Copies < 1 || cfg.Copies > s.maxCopies:
		return fmt.Errorf("%w: copies must be between 1 and %d", ErrInvalidConfig, s.maxCopies)
	}
	return nil
}

func saveResult(err error) string {
	switch {
	case errors.Is(err, utils.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrPriceNotFinite):
		return "not_finite"
	case errors.Is(err, ErrPageCountUnavailable):
		return "no_page_count"
	case errors.Is(err, repository.ErrNotFound):
		return "stale"
	default:
		return "invalid_config"
	}
}

// Checkout requires every file to be configured and returns the summary plus its encoded URL
func (s *OrderService) Checkout(sessionID string) (*models.CheckoutResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	records := session.ListRecords()
	if len(records) == 0 {
		checkoutsTotal.WithLabelValues("empty").Inc()
		return nil, ErrNoFiles
	}

	lines := make([]models.OrderLine, 0, len(records))
	for _, record := range records {
		if !record.Config.Configured {
			checkoutsTotal.WithLabelValues("unconfigured").Inc()
			return nil, fmt.Errorf("%w (%s)", ErrUnconfiguredFiles, record.File.Name)
		}
		lines = append(lines, models.OrderLine{File: record.File.Name, Config: record.Config})
	}

	summary := s.engine.Summarize(lines)
	query := utils.EncodeOrderQuery(lines)

	checkoutsTotal.WithLabelValues("ok").Inc()
	log.Printf("✅ Checkout: session=%s lines=%d total=%s", sessionID, len(lines), summary.FormattedTotal)
	return &models.CheckoutResponse{
		Summary:    summary,
		SummaryURL: "/order-summary?" + query.Encode(),
	}, nil
}

// SummaryFromQuery rebuilds an order summary from the flat encoded order lines
func (s *OrderService) SummaryFromQuery(values url.Values) (*models.OrderSummary, error) {
	lines, err := utils.DecodeOrderQuery(values)
	if err != nil {
		return nil, err
	}
	summary := s.engine.Summarize(lines)
	return &summary, nil
}
