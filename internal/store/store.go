// Package store persists users and their footprint history.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/carbonlens/internal/carbon"
)

// Store errors, compared with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrStoreCorrupted = errors.New("store file corrupted")
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
)

// User is a registered household.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// FootprintRecord is a calculated footprint saved for a user.
type FootprintRecord struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id"`
	Input     carbon.FootprintInput    `json:"input"`
	Breakdown carbon.EmissionBreakdown `json:"breakdown"`
	CreatedAt time.Time                `json:"created_at"`
}

// Store is the persistence contract used by the API.
type Store interface {
	// CreateUser registers a user. Emails are unique, compared case-insensitively.
	CreateUser(ctx context.Context, name, email string) (User, error)

	// GetUser returns the user or ErrNotFound.
	GetUser(ctx context.Context, id string) (User, error)

	// SaveFootprint stores a calculated footprint for an existing user.
	SaveFootprint(ctx context.Context, userID string, input carbon.FootprintInput, breakdown carbon.EmissionBreakdown) (FootprintRecord, error)

	// ListFootprints returns a user's records, oldest first.
	ListFootprints(ctx context.Context, userID string) ([]FootprintRecord, error)

	// Close releases resources held by the store.
	Close() error
}

// Open returns the Store for driver. path is required by the file driver.
func Open(driver, path string, logger zerolog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		return OpenFileStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// state holds the records shared by the memory and file stores.
// Callers synchronise access.
type state struct {
	Users      map[string]User
	Footprints map[string][]FootprintRecord
}

func newState() state {
	return state{
		Users:      make(map[string]User),
		Footprints: make(map[string][]FootprintRecord),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *state) createUser(name, email string, now time.Time) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: invalid email %q", ErrInvalidRecord, email)
	}

	normalized := normalizeEmail(email)
	for _, u := range s.Users {
		if normalizeEmail(u.Email) == normalized {
			return User{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
		}
	}

	u := User{
		ID:        ulid.Make().String(),
		Name:      name,
		Email:     email,
		CreatedAt: now.UTC(),
	}
	s.Users[u.ID] = u
	return u, nil
}

func (s *state) getUser(id string) (User, error) {
	u, ok := s.Users[id]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *state) saveFootprint(userID string, input carbon.FootprintInput, breakdown carbon.EmissionBreakdown, now time.Time) (FootprintRecord, error) {
	if _, err := s.getUser(userID); err != nil {
		return FootprintRecord{}, err
	}
	rec := FootprintRecord{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Input:     input,
		Breakdown: breakdown,
		CreatedAt: now.UTC(),
	}
	s.Footprints[userID] = append(s.Footprints[userID], rec)
	return rec, nil
}

func (s *state) removeUser(id string) {
	delete(s.Users, id)
	delete(s.Footprints, id)
}

func (s *state) removeLastFootprint(userID string) {
	recs := s.Footprints[userID]
	if len(recs) > 0 {
		s.Footprints[userID] = recs[:len(recs)-1]
	}
}

func (s *state) listFootprints(userID string) ([]FootprintRecord, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	recs := make([]FootprintRecord, len(s.Footprints[userID]))
	copy(recs, s.Footprints[userID])
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs, nil
}
