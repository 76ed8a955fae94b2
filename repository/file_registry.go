package repository

import (
	"errors"
	"fmt"
	"log"

	"print-order/models"
)

// DefaultMaxFiles is the number of files a registry accepts when no limit is configured
const DefaultMaxFiles = 3

// ErrNotFound is returned when an operation references a file that is not in the registry
var ErrNotFound = errors.New("file not found")

// CapacityExceededError is returned when admitting a batch would exceed the registry limit.
// The whole batch is rejected.
type CapacityExceededError struct {
	Existing  int // Files already registered
	Attempted int // New unique files in the rejected batch
	Limit     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("You can upload a maximum of %d files. (%d registered, %d attempted)", e.Limit, e.Existing, e.Attempted)
}

// AddResult represents the outcome of an admitted batch
type AddResult struct {
	Admitted []models.UploadedFile
	Tokens   []models.PageCountToken // One per admitted file, same order
	Skipped  []string                // Duplicate names silently dropped
}

// FileRegistry keeps the working set of files and their configurations in insertion order.
// It is not safe for concurrent use; Session serializes access to it.
type FileRegistry struct {
	limit      int
	order      []string
	records    map[string]*models.FileRecord
	generation uint64
}

// NewFileRegistry creates an empty registry accepting at most limit files
func NewFileRegistry(limit int) *FileRegistry {
	if limit <= 0 {
		limit = DefaultMaxFiles
	}
	return &FileRegistry{
		limit:   limit,
		records: make(map[string]*models.FileRecord),
	}
}

// Limit returns the maximum number of files
func (r *FileRegistry) Limit() int {
	return r.limit
}

// Len returns the number of registered files
func (r *FileRegistry) Len() int {
	return len(r.order)
}

// AddFiles admits every candidate whose name is not registered yet.
// Duplicates (by exact, case-sensitive name) are dropped; if the remaining files would
// exceed the limit nothing is admitted and a *CapacityExceededError is returned.
// An empty remainder is a no-op, not an error.
func (r *FileRegistry) AddFiles(candidates []models.UploadedFile) (*AddResult, error) {
	result := &AddResult{}

	seen := make(map[string]bool, len(candidates))
	var fresh []models.UploadedFile
	for _, candidate := range candidates {
		if _, exists := r.records[candidate.Name]; exists || seen[candidate.Name] {
			result.Skipped = append(result.Skipped, candidate.Name)
			continue
		}
		seen[candidate.Name] = true
		fresh = append(fresh, candidate)
	}

	if len(fresh) == 0 {
		return result, nil
	}

	if len(r.order)+len(fresh) > r.limit {
		return nil, &CapacityExceededError{
			Existing:  len(r.order),
			Attempted: len(fresh),
			Limit:     r.limit,
		}
	}

	for _, file := range fresh {
		r.generation++
		r.records[file.Name] = &models.FileRecord{
			File:       file,
			Config:     models.DefaultPrintConfig(),
			Generation: r.generation,
		}
		r.order = append(r.order, file.Name)
		result.Admitted = append(result.Admitted, file)
		result.Tokens = append(result.Tokens, models.PageCountToken{Name: file.Name, Generation: r.generation})
	}

	return result, nil
}

// RemoveFile removes the named file. Removing an unknown name is a no-op and returns false.
func (r *FileRegistry) RemoveFile(name string) bool {
	if _, exists := r.records[name]; !exists {
		return false
	}

	delete(r.records, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// UpdateConfig replaces the configuration of the named file wholesale and marks it configured
func (r *FileRegistry) UpdateConfig(name string, cfg models.PrintConfig) (*models.FileRecord, error) {
	record, exists := r.records[name]
	if !exists {
		return nil, fmt.Errorf("update config for %q: %w", name, ErrNotFound)
	}

	cfg.Configured = true
	record.Config = cfg

	snapshot := *record
	return &snapshot, nil
}

// UpdateConfigIf is UpdateConfig for the admission identified by token. If the file was removed,
// or removed and added again since token was issued, nothing is stored and ErrNotFound is returned.
func (r *FileRegistry) UpdateConfigIf(token models.PageCountToken, cfg models.PrintConfig) (*models.FileRecord, error) {
	record, exists := r.records[token.Name]
	if !exists || record.Generation != token.Generation {
		log.Printf("⏭️  Discarding stale config for %s (generation %d)", token.Name, token.Generation)
		return nil, fmt.Errorf("update config for %q (generation %d): %w", token.Name, token.Generation, ErrNotFound)
	}
	return r.UpdateConfig(token.Name, cfg)
}

// Get returns a copy of the named record
func (r *FileRegistry) Get(name string) (*models.FileRecord, error) {
	record, exists := r.records[name]
	if !exists {
		return nil, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	snapshot := *record
	return &snapshot, nil
}

// ListRecords returns a snapshot of every record in insertion order
func (r *FileRegistry) ListRecords() []models.FileRecord {
	records := make([]models.FileRecord, 0, len(r.order))
	for _, name := range r.order {
		records = append(records, *r.records[name])
	}
	return records
}

// ApplyPageCount stores a page count result. Results for a file that was removed, or removed
// and added again since the request was issued, are discarded and false is returned.
func (r *FileRegistry) ApplyPageCount(token models.PageCountToken, pageCount int, countErr error) bool {
	record, exists := r.records[token.Name]
	if !exists || record.Generation != token.Generation {
		log.Printf("⏭️  Discarding stale page count for %s (generation %d)", token.Name, token.Generation)
		return false
	}

	if countErr != nil {
		record.PageCount = 0
		record.PageCountErr = countErr.Error()
		return true
	}
	record.PageCount = pageCount
	record.PageCountErr = ""
	return true
}
