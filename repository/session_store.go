package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"print-order/models"
)

const (
	// DefaultMaxSessions is the number of live sessions kept before the least recently used is dropped
	DefaultMaxSessions = 1000
	// DefaultSessionTTL is how long an idle session lives
	DefaultSessionTTL = 2 * time.Hour
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session is one browser session: a file registry plus the currently selected file.
// Every method holds the session lock, so registry mutations are serialized.
type Session struct {
	ID string

	mu       sync.Mutex
	registry *FileRegistry
	selected string
}

// NewSession creates a session with an empty registry
func NewSession(id string, maxFiles int) *Session {
	return &Session{
		ID:       id,
		registry: NewFileRegistry(maxFiles),
	}
}

// Ensure Session implements SessionInterface
var _ SessionInterface = (*Session)(nil)

// AddFiles admits a batch into the registry
func (s *Session) AddFiles(candidates []models.UploadedFile) (*AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.AddFiles(candidates)
}

// RemoveFile removes a file and clears the selection when it pointed at that file
func (s *Session) RemoveFile(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.registry.RemoveFile(name)
	if removed && s.selected == name {
		s.selected = ""
	}
	return removed
}

// UpdateConfigIf saves a configuration for the admission identified by token and closes the
// editor for that file (clears the selection)
func (s *Session) UpdateConfigIf(token models.PageCountToken, cfg models.PrintConfig) (*models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.registry.UpdateConfigIf(token, cfg)
	if err != nil {
		return nil, err
	}
	if s.selected == token.Name {
		s.selected = ""
	}
	return record, nil
}

// Get returns a copy of the named record
func (s *Session) Get(name string) (*models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(name)
}

// ListRecords returns every record in insertion order
func (s *Session) ListRecords() []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ListRecords()
}

// ApplyPageCount stores a page count result unless it is stale
func (s *Session) ApplyPageCount(token models.PageCountToken, pageCount int, countErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ApplyPageCount(token, pageCount, countErr)
}

// ToggleSelection selects the named file, or clears the selection if it was already selected.
// Returns the selection after the toggle.
func (s *Session) ToggleSelection(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.Get(name); err != nil {
		return s.selected, err
	}
	if s.selected == name {
		s.selected = ""
	} else {
		s.selected = name
	}
	return s.selected, nil
}

// Selected returns the selected file name, empty when nothing is selected
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SessionStore keeps sessions in memory and forgets them after ttl without access
type SessionStore struct {
	maxFiles int
	sessions *expirable.LRU[string, *Session]
}

// NewSessionStore creates a store holding at most maxSessions sessions
func NewSessionStore(maxSessions int, ttl time.Duration, maxFiles int) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	onEvict := func(id string, _ *Session) {
		log.Printf("🗑️  Session %s evicted", id)
	}
	return &SessionStore{
		maxFiles: maxFiles,
		sessions: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl),
	}
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// Create starts a new empty session
func (s *SessionStore) Create() *Session {
	session := NewSession(uuid.New().String(), s.maxFiles)
	s.sessions.Add(session.ID, session)
	log.Printf("✓ Session created: %s", session.ID)
	return session
}

// Get returns a live session and refreshes its TTL
func (s *SessionStore) Get(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	// Re-adding resets the expiry, so the TTL counts from the last access
	s.sessions.Add(id, session)
	return session, nil
}

// MaxFiles returns the file limit of every session's registry
func (s *SessionStore) MaxFiles() int {
	if s.maxFiles <= 0 {
		return DefaultMaxFiles
	}
	return s.maxFiles
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}
