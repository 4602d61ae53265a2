package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/kv"
)

// Default keys, matching the blob layout of the browser build.
const (
	DefaultStorageKey = "realEstateAppDB"
	DefaultSessionKey = "currentUser"
)

// Origin records how the store reached the ready state.
type Origin int

const (
	// OriginLoaded means an existing blob was decoded.
	OriginLoaded Origin = iota
	// OriginSeeded means the seed fixtures were installed.
	OriginSeeded
)

func (o Origin) String() string {
	if o == OriginSeeded {
		return "seeded"
	}
	return "loaded"
}

// Store holds the in-memory database and writes it through to a kv.Store.
// All methods are safe for concurrent use; mutations are serialized.
type Store struct {
	mu     sync.Mutex
	medium kv.Store
	db     Database
	origin Origin

	clock      Clock
	ids        IDGenerator
	storageKey string
	sessionKey string
	seed       func() (Database, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the record id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithStorageKey overrides the key the database blob is stored under.
func WithStorageKey(key string) Option {
	return func(s *Store) { s.storageKey = key }
}

// WithSessionKey overrides the key the session user is stored under.
func WithSessionKey(key string) Option {
	return func(s *Store) { s.sessionKey = key }
}

// WithSeed replaces the embedded seed fixtures.
func WithSeed(seed func() (Database, error)) Option {
	return func(s *Store) { s.seed = seed }
}

// Open loads the database from medium, seeding it if nothing usable is stored.
//
// Only a broken seed returns an error; problems with the medium are logged
// and answered by seeding.
func Open(ctx context.Context, medium kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		medium:     medium,
		clock:      SystemClock{},
		ids:        UUIDv7Generator{},
		storageKey: DefaultStorageKey,
		sessionKey: DefaultSessionKey,
		seed:       SeedDatabase,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// initLocked implements the uninitialized -> seeded-or-loaded transition.
func (s *Store) initLocked(ctx context.Context) error {
	blob, err := s.medium.Load(ctx, s.storageKey)
	switch {
	case err == nil:
		db, decodeErr := decodeDatabase(blob)
		if decodeErr == nil {
			s.db = db
			s.origin = OriginLoaded
			slog.Debug("database loaded", "key", s.storageKey, "bytes", len(blob))
			return nil
		}
		slog.Warn("stored database is corrupted, re-seeding", "key", s.storageKey, "error", decodeErr)
	case errors.Is(err, kv.ErrNotFound):
		slog.Info("no stored database, seeding", "key", s.storageKey)
	default:
		slog.Warn("storage unavailable, re-seeding", "key", s.storageKey, "error", err)
	}

	return s.seedLocked(ctx)
}

func (s *Store) seedLocked(ctx context.Context) error {
	db, err := s.seed()
	if err != nil {
		return fmt.Errorf("load seed fixtures: %w", err)
	}
	db.normalize()
	s.db = db
	s.origin = OriginSeeded

	if err := s.persistLocked(ctx); err != nil {
		slog.Warn("failed to persist seeded database", "key", s.storageKey, "error", err)
	}
	return nil
}

// decodeDatabase merges a stored blob against Names. Unknown keys are ignored.
func decodeDatabase(blob []byte) (Database, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return Database{}, fmt.Errorf("decode database: %w", err)
	}
	if raw == nil {
		return Database{}, errors.New("decode database: blob is null")
	}

	var db Database
	for _, name := range Names {
		data, ok := raw[string(name)]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, db.slot(name)); err != nil {
			return Database{}, fmt.Errorf("decode collection %s: %w", name, err)
		}
	}
	db.normalize()
	return db, nil
}

// persistLocked serializes the whole database to the medium. Callers hold s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.db)
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	return s.medium.Save(ctx, s.storageKey, blob)
}

// Origin reports whether the current database was loaded or seeded.
func (s *Store) Origin() Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// Reset discards the stored database and re-seeds it.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.medium.Delete(ctx, s.storageKey); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return s.seedLocked(ctx)
}

// Snapshot returns a deep copy of the whole database.
func (s *Store) Snapshot() (Database, error) {
	s.mu.Lock()
	blob, err := json.Marshal(s.db)
	s.mu.Unlock()
	if err != nil {
		return Database{}, fmt.Errorf("snapshot: %w", err)
	}
	return decodeDatabase(blob)
}

// Now returns the current time from the store's clock, in UTC.
func (s *Store) Now() time.Time {
	return s.clock.Now().UTC()
}

// NewID returns a fresh record id.
func (s *Store) NewID() string {
	return s.ids.NewID()
}

// Close closes the underlying medium.
func (s *Store) Close() error {
	return s.medium.Close()
}

// CurrentUser returns the session user, if any.
// A missing or unreadable session record reads as "no session".
func (s *Store) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	blob, err := s.medium.Load(ctx, s.sessionKey)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("load session: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(blob, &u); err != nil || u.ID == "" {
		slog.Warn("discarding unreadable session record", "key", s.sessionKey)
		return domain.User{}, false, nil
	}
	return u.Public(), true, nil
}

// SetCurrentUser records u, without its password, as the session user.
func (s *Store) SetCurrentUser(ctx context.Context, u domain.User) error {
	blob, err := json.Marshal(u.Public())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.medium.Save(ctx, s.sessionKey, blob); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearCurrentUser removes the session record.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := s.medium.Delete(ctx, s.sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
