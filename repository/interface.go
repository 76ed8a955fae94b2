package repository

import (
	"context"

	"print-order/models"
	"print-order/pricing"
)

// SessionInterface defines the contract for a session's file registry operations
type SessionInterface interface {
	AddFiles(candidates []models.UploadedFile) (*AddResult, error)
	RemoveFile(name string) bool
	UpdateConfigIf(token models.PageCountToken, cfg models.PrintConfig) (*models.FileRecord, error)
	Get(name string) (*models.FileRecord, error)
	ListRecords() []models.FileRecord
	ApplyPageCount(token models.PageCountToken, pageCount int, countErr error) bool
	ToggleSelection(name string) (string, error)
	Selected() string
}

// SessionStoreInterface defines the contract for session storage
type SessionStoreInterface interface {
	Create() *Session
	Get(id string) (*Session, error)
	MaxFiles() int
}

// RateRepositoryInterface defines the contract for loading the rate table from the database
type RateRepositoryInterface interface {
	LoadRates(ctx context.Context) (pricing.RateTable, error)
}
