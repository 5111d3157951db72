package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/carbonlens/internal/carbon"
)

// FileStoreVersion is the current schema version of the store file.
const FileStoreVersion = 1

// fileStoreData is the serialized form of the file store.
type fileStoreData struct {
	Version    int                          `json:"version"`
	Users      map[string]User              `json:"users"`
	Footprints map[string][]FootprintRecord `json:"footprints"`
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore persists records as a single JSON document. Every mutation
// rewrites the file atomically (temp file + rename). Safe for concurrent
// access within one process.
type FileStore struct {
	mu       sync.RWMutex
	filePath string
	st       state
	logger   zerolog.Logger
	now      func() time.Time
}

// OpenFileStore loads the store at filePath, starting empty when the file
// does not exist. A file that cannot be decoded yields ErrStoreCorrupted.
func OpenFileStore(filePath string, logger zerolog.Logger) (*FileStore, error) {
	if filePath == "" {
		return nil, errors.New("file store path cannot be empty")
	}

	s := &FileStore{
		filePath: filePath,
		st:       newState(),
		logger:   logger.With().Str("component", "store").Str("path", filePath).Logger(),
		now:      time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Msg("store file not found, starting empty")
			return nil
		}
		return fmt.Errorf("reading store file: %w", err)
	}

	var stored fileStoreData
	if unmarshalErr := json.Unmarshal(data, &stored); unmarshalErr != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupted, unmarshalErr)
	}
	if stored.Version > FileStoreVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrStoreCorrupted, stored.Version)
	}

	if stored.Users != nil {
		s.st.Users = stored.Users
	}
	if stored.Footprints != nil {
		s.st.Footprints = stored.Footprints
	}

	s.logger.Debug().
		Int("users", len(s.st.Users)).
		Msg("store loaded")
	return nil
}

// persist writes the current state. Must be called with mu held.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(fileStoreData{
		Version:    FileStoreVersion,
		Users:      s.st.Users,
		Footprints: s.st.Footprints,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), filepath.Base(s.filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.filePath); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}

// CreateUser registers a user and persists the store.
func (s *FileStore) CreateUser(_ context.Context, name, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.st.createUser(name, email, s.now())
	if err != nil {
		return User{}, err
	}
	if err := s.persist(); err != nil {
		s.st.removeUser(u.ID)
		return User{}, err
	}
	return u, nil
}

// GetUser returns a user by ID.
func (s *FileStore) GetUser(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getUser(id)
}

// SaveFootprint stores a footprint and persists the store.
func (s *FileStore) SaveFootprint(_ context.Context, userID string, input carbon.FootprintInput, breakdown carbon.EmissionBreakdown) (FootprintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.st.saveFootprint(userID, input, breakdown, s.now())
	if err != nil {
		return FootprintRecord{}, err
	}
	if err := s.persist(); err != nil {
		s.st.removeLastFootprint(userID)
		return FootprintRecord{}, err
	}
	return rec, nil
}

// ListFootprints returns a user's records, oldest first.
func (s *FileStore) ListFootprints(_ context.Context, userID string) ([]FootprintRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listFootprints(userID)
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error { return nil }
