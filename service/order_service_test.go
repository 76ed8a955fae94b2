package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"print-order/models"
	"print-order/pricing"
	"print-order/repository"
	"print-order/utils"
)

func newTestOrderService(t *testing.T, counter PageCounter) *OrderService {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.DefaultRateTable())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	store := repository.NewSessionStore(10, time.Hour, 3)
	return NewOrderService(store, engine, counter, UploadPolicy{}, 0)
}

func monochromeConfig(copies int) models.PrintConfig {
	cfg := models.DefaultPrintConfig()
	cfg.Copies = copies
	return cfg
}

func TestAddDocuments_CountsPagesInBackground(t *testing.T) {
	svc := newTestOrderService(t, NewDocumentPageCounter())
	sessionID := svc.CreateSession()

	result, err := svc.AddDocuments(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 4), pdfUpload("b.pdf", 2)})
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	if len(result.Admitted) != 2 {
		t.Fatalf("admitted %d files, want 2", len(result.Admitted))
	}
	svc.Wait()

	files, err := svc.ListFiles(sessionID)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	got := map[string]int{}
	for _, f := range files {
		got[f.Name] = f.PageCount
	}
	if diff := cmp.Diff(map[string]int{"a.pdf": 4, "b.pdf": 2}, got); diff != "" {
		t.Errorf("page counts mismatch (-want +got):\n%s", diff)
	}
}

func TestAddDocuments_RejectsWholeBatch(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{})
	sessionID := svc.CreateSession()

	batch := []models.UploadedFile{
		pdfUpload("a.pdf", 1),
		{Name: "photo.png", Size: 10, MediaType: models.MediaTypePNG},
	}
	_, err := svc.AddDocuments(sessionID, batch)
	var formatErr *InvalidFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error = %v, want *InvalidFormatError", err)
	}

	files, _ := svc.ListFiles(sessionID)
	if len(files) != 0 {
		t.Errorf("%d files admitted from a rejected batch", len(files))
	}
}

func TestAddFiles_CapacityExceeded(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{})
	sessionID := svc.CreateSession()

	batch := []models.UploadedFile{pdfUpload("a.pdf", 1), pdfUpload("b.pdf", 1), pdfUpload("c.pdf", 1), pdfUpload("d.pdf", 1)}
	_, err := svc.AddFiles(sessionID, batch)

	var capErr *repository.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want *CapacityExceededError", err)
	}
	if capErr.Limit != 3 {
		t.Errorf("Limit = %d, want 3", capErr.Limit)
	}
	svc.Wait()
}

func TestUnknownSession(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{})
	if _, err := svc.ListFiles("missing"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("ListFiles error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Checkout("missing"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("Checkout error = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveConfig_Prices(t *testing.T) {
	counter := &fakeCounter{pages: map[string]int{"a.pdf": 10}}
	svc := newTestOrderService(t, counter)
	sessionID := svc.CreateSession()
	if _, err := svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 10)}); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	svc.Wait()

	// 10 pages, monochrome at 2, two copies
	record, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", monochromeConfig(2))
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if record.Config.TotalPrice != 40 || !record.Config.Configured {
		t.Errorf("config = %+v, want configured with total 40", record.Config)
	}

	// Pages 1-3 in color at 5, one copy
	cfg := monochromeConfig(1)
	cfg.ColorMode = models.ColorModeColor
	cfg.PageSelection = models.PageSelectionSpecific
	cfg.SpecificRange = "1-3"
	record, err = svc.SaveConfig(context.Background(), sessionID, "a.pdf", cfg)
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if record.Config.TotalPrice != 15 {
		t.Errorf("TotalPrice = %v, want 15", record.Config.TotalPrice)
	}
}

func TestSaveConfig_AllPagesClearsRange(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 3}})
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 3)})
	svc.Wait()

	cfg := monochromeConfig(1)
	cfg.SpecificRange = "1-2"
	record, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", cfg)
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if record.Config.SpecificRange != "" || record.Config.TotalPrice != 6 {
		t.Errorf("config = %+v, want no range and total 6", record.Config)
	}
}

func TestSaveConfig_RejectedSaveStoresNothing(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 10}})
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 10)})
	svc.Wait()

	badRange := monochromeConfig(1)
	badRange.PageSelection = models.PageSelectionSpecific
	badRange.SpecificRange = "1-5,,8"

	tooMany := monochromeConfig(DefaultMaxCopies + 1)

	unknownColor := monochromeConfig(1)
	unknownColor.ColorMode = "sepia"

	tests := []struct {
		name string
		cfg  models.PrintConfig
		want error
	}{
		{"invalid range", badRange, utils.ErrInvalidRange},
		{"too many copies", tooMany, ErrInvalidConfig},
		{"unknown color", unknownColor, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", tt.cfg); !errors.Is(err, tt.want) {
				t.Fatalf("SaveConfig error = %v, want %v", err, tt.want)
			}
			record, _ := svc.GetFile(sessionID, "a.pdf")
			if record.Config.Configured {
				t.Error("rejected config was stored")
			}
		})
	}

	if _, err := svc.SaveConfig(context.Background(), sessionID, "missing.pdf", monochromeConfig(1)); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("SaveConfig(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSaveConfig_PageCountFailure(t *testing.T) {
	counter := &fakeCounter{errs: map[string]error{"a.pdf": errors.New("encrypted")}}
	svc := newTestOrderService(t, counter)
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 1)})
	svc.Wait()

	if _, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", monochromeConfig(1)); !errors.Is(err, ErrPageCountUnavailable) {
		t.Errorf("SaveConfig(all) error = %v, want ErrPageCountUnavailable", err)
	}

	// A specific range does not need the document's page count
	cfg := monochromeConfig(1)
	cfg.PageSelection = models.PageSelectionSpecific
	cfg.SpecificRange = "2"
	record, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", cfg)
	if err != nil {
		t.Fatalf("SaveConfig(specific): %v", err)
	}
	if record.Config.TotalPrice != 2 {
		t.Errorf("TotalPrice = %v, want 2", record.Config.TotalPrice)
	}
}

func TestSaveConfig_CountsSynchronouslyWhenUnknown(t *testing.T) {
	counter := &fakeCounter{pages: map[string]int{"a.pdf": 5}}
	svc := newTestOrderService(t, counter)
	session, _ := svc.sessions.Get(svc.CreateSession())

	// Admit directly so no background count is started
	if _, err := session.AddFiles([]models.UploadedFile{pdfUpload("a.pdf", 5)}); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}

	record, err := svc.SaveConfig(context.Background(), session.ID, "a.pdf", monochromeConfig(1))
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if record.PageCount != 5 || record.Config.TotalPrice != 10 {
		t.Errorf("record = pages %d total %v, want 5 and 10", record.PageCount, record.Config.TotalPrice)
	}
}

func TestApplyPageCount_DiscardsStaleToken(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 3}})
	session, _ := svc.sessions.Get(svc.CreateSession())

	result, _ := session.AddFiles([]models.UploadedFile{pdfUpload("a.pdf", 3)})
	stale := result.Tokens[0]
	session.RemoveFile("a.pdf")
	session.AddFiles([]models.UploadedFile{pdfUpload("a.pdf", 3)})

	if svc.applyPageCount(session, stale, 99, nil) {
		t.Error("stale page count applied")
	}
	record, _ := session.Get("a.pdf")
	if record.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0 (unknown)", record.PageCount)
	}
}

func TestSaveConfig_DiscardsPriceForRemovedAdmission(t *testing.T) {
	counter := newGatedCounter()
	svc := newTestOrderService(t, counter)
	session, _ := svc.sessions.Get(svc.CreateSession())

	// Admit directly so the save is the one counting pages
	if _, err := session.AddFiles([]models.UploadedFile{pdfUpload("a.pdf", 10)}); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}

	type outcome struct {
		record *models.FileRecord
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		record, err := svc.SaveConfig(context.Background(), session.ID, "a.pdf", monochromeConfig(1))
		done <- outcome{record, err}
	}()

	select {
	case <-counter.started:
	case <-time.After(5 * time.Second):
		t.Fatal("page count never started")
	}

	// Replace the document while the first admission is still being counted
	session.RemoveFile("a.pdf")
	if _, err := session.AddFiles([]models.UploadedFile{pdfUpload("a.pdf", 2)}); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	close(counter.release)

	got := <-done
	if !errors.Is(got.err, repository.ErrNotFound) {
		t.Fatalf("SaveConfig error = %v, want ErrNotFound", got.err)
	}

	record, _ := session.Get("a.pdf")
	if record.Config.Configured || record.Config.TotalPrice != 0 || record.PageCount != 0 {
		t.Errorf("re-added record = configured %v total %v pages %d, want untouched",
			record.Config.Configured, record.Config.TotalPrice, record.PageCount)
	}

	// Saving again prices the new document
	saved, err := svc.SaveConfig(context.Background(), session.ID, "a.pdf", monochromeConfig(1))
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if saved.PageCount != 2 || saved.Config.TotalPrice != 4 {
		t.Errorf("record = pages %d total %v, want 2 and 4", saved.PageCount, saved.Config.TotalPrice)
	}
}

func TestQuote_DoesNotSave(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 4}})
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 4)})
	svc.Wait()

	cfg := monochromeConfig(3)
	cfg.ColorMode = models.ColorModeColor
	quote, err := svc.Quote(context.Background(), sessionID, "a.pdf", cfg)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	want := &models.QuoteResponse{PageCount: 4, PricePerPage: 5, Copies: 3, TotalPrice: 60, FormattedPrice: "Rs. 60"}
	if diff := cmp.Diff(want, quote); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}

	record, _ := svc.GetFile(sessionID, "a.pdf")
	if record.Config.Configured {
		t.Error("Quote stored the configuration")
	}
}

func TestSelection(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 1}})
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 1)})
	svc.Wait()

	if selected, _ := svc.ToggleSelection(sessionID, "a.pdf"); selected != "a.pdf" {
		t.Errorf("ToggleSelection = %q, want a.pdf", selected)
	}
	files, _ := svc.ListFiles(sessionID)
	if !files[0].Selected {
		t.Error("ListFiles does not mark the selected file")
	}

	if _, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", monochromeConfig(1)); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if selected, _ := svc.Selection(sessionID); selected != "" {
		t.Errorf("Selection = %q after save, want empty", selected)
	}
}

func TestRemoveFile(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{})
	sessionID := svc.CreateSession()
	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 1)})
	svc.Wait()

	if removed, err := svc.RemoveFile(sessionID, "a.pdf"); err != nil || !removed {
		t.Errorf("RemoveFile = %v, %v; want true, nil", removed, err)
	}
	if removed, err := svc.RemoveFile(sessionID, "a.pdf"); err != nil || removed {
		t.Errorf("second RemoveFile = %v, %v; want false, nil", removed, err)
	}
}

func TestCheckout(t *testing.T) {
	svc := newTestOrderService(t, &fakeCounter{pages: map[string]int{"a.pdf": 10, "b.pdf": 3}})
	sessionID := svc.CreateSession()

	if _, err := svc.Checkout(sessionID); !errors.Is(err, ErrNoFiles) {
		t.Errorf("empty Checkout error = %v, want ErrNoFiles", err)
	}

	svc.AddFiles(sessionID, []models.UploadedFile{pdfUpload("a.pdf", 10), pdfUpload("b.pdf", 3)})
	svc.Wait()
	if _, err := svc.SaveConfig(context.Background(), sessionID, "a.pdf", monochromeConfig(2)); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	_, err := svc.Checkout(sessionID)
	if !errors.Is(err, ErrUnconfiguredFiles) || !strings.Contains(err.Error(), "b.pdf") {
		t.Errorf("Checkout error = %v, want ErrUnconfiguredFiles naming b.pdf", err)
	}

	color := monochromeConfig(1)
	color.ColorMode = models.ColorModeColor
	if _, err := svc.SaveConfig(context.Background(), sessionID, "b.pdf", color); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	response, err := svc.Checkout(sessionID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if response.Summary.Total != 55 || response.Summary.FormattedTotal != "Rs. 55" {
		t.Errorf("total = %v (%s), want 55", response.Summary.Total, response.Summary.FormattedTotal)
	}
	for _, line := range response.Summary.Lines {
		if !line.Valid {
			t.Errorf("line %s is not valid", line.File)
		}
	}

	// The summary URL alone rebuilds the same summary
	u, err := url.Parse(response.SummaryURL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	if u.Path != "/order-summary" {
		t.Errorf("path = %s, want /order-summary", u.Path)
	}
	rebuilt, err := svc.SummaryFromQuery(u.Query())
	if err != nil {
		t.Fatalf("SummaryFromQuery: %v", err)
	}
	if diff := cmp.Diff(response.Summary, *rebuilt); diff != "" {
		t.Errorf("rebuilt summary mismatch (-checkout +rebuilt):\n%s", diff)
	}
}
