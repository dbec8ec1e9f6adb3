// Package store persists the MAGIS collections. Each entity kind is one
// named collection serialized as a JSON list; every mutation re-reads the
// whole collection, changes it in memory and writes it back inside a single
// transaction.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Collection names.
const (
	CollSins           = "sins"
	CollBuenasObras    = "buenasObras"
	CollPersonTypes    = "personTypes"
	CollActivities     = "activities"
	CollCondicionantes = "condicionantes"
	CollSessions       = "examSessions"
	CollNotes          = "notes"
	CollPreferences    = "preferences"
)

// Collections lists every collection name in export order.
func Collections() []string {
	return []string{
		CollSins, CollBuenasObras, CollPersonTypes, CollActivities,
		CollCondicionantes, CollSessions, CollNotes, CollPreferences,
	}
}

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSessionClosed is returned when mutating a completed session.
	ErrSessionClosed = errors.New("session is completed")
	// ErrCorrupt is returned when a collection payload cannot be decoded
	// and would be overwritten by a write.
	ErrCorrupt = errors.New("collection is corrupt")
)

// Store is the SQLite-backed collection store.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time

	mu     sync.Mutex
	subsMu sync.Mutex
	subs   map[int]func(collection string)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for timestamps the store assigns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store bound to a migrated database handle.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	s := &Store{
		db:   db,
		log:  zap.NewNop(),
		now:  time.Now,
		subs: make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open opens the database at path and returns a Store over it.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Subscribe registers fn to be called with the collection name after every
// committed change. The returned func unregisters it.
func (s *Store) Subscribe(fn func(collection string)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(collection string) {
	s.subsMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range fns {
		fn(collection)
	}
}

func newID() string { return uuid.NewString() }

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// readRaw returns the stored payload of a collection, nil when absent.
func readRaw(q querier, name string) ([]byte, error) {
	var payload string
	err := q.QueryRow(`SELECT payload FROM collections WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return []byte(payload), nil
}

// decode unmarshals a payload into a copy of fallback. A corrupt payload
// is logged and fallback is returned untouched along with ErrCorrupt.
func decode[T any](s *Store, name string, raw []byte, fallback T) (T, error) {
	if len(raw) == 0 {
		return fallback, nil
	}
	v := fallback
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("corrupt collection, using empty default",
			zap.String("collection", name),
			zap.Error(err))
		return fallback, fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
	}
	return v, nil
}

func writeRaw(tx *sql.Tx, name string, v any, at time.Time) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("write %s: marshal: %w", name, err)
	}
	_, err = tx.Exec(`
		INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, string(payload), at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// load reads a whole collection.
func load[T any](s *Store, name string) ([]T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("load %s: store is nil", name)
	}
	raw, err := readRaw(s.db, name)
	if err != nil {
		return nil, err
	}
	items, _ := decode[[]T](s, name, raw, nil)
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// mutate runs a read-modify-write of one collection in a transaction.
// When fn returns an error, or the stored payload is corrupt, nothing is
// written.
func mutate[T any](s *Store, name string, fn func([]T) ([]T, error)) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("mutate %s: store is nil", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("mutate %s: begin: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	raw, err := readRaw(tx, name)
	if err != nil {
		return err
	}
	items, err := decode[[]T](s, name, raw, nil)
	if err != nil {
		return fmt.Errorf("mutate %w", err)
	}

	items, err = fn(items)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	if err := writeRaw(tx, name, items, s.now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mutate %s: commit: %w", name, err)
	}
	s.notify(name)
	return nil
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

func find[T any](s *Store, name, id string, idOf func(T) string) (T, error) {
	var zero T
	items, err := load[T](s, name)
	if err != nil {
		return zero, err
	}
	if i := indexOf(items, id, idOf); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("%s %q: %w", name, id, ErrNotFound)
}

// upsert replaces the record with the same id or appends it.
func upsert[T any](s *Store, name string, item T, idOf func(T) string) error {
	return mutate(s, name, func(items []T) ([]T, error) {
		if i := indexOf(items, idOf(item), idOf); i >= 0 {
			items[i] = item
			return items, nil
		}
		return append(items, item), nil
	})
}

func remove[T any](s *Store, name, id string, idOf func(T) string) error {
	return mutate(s, name, func(items []T) ([]T, error) {
		i := indexOf(items, id, idOf)
		if i < 0 {
			return nil, fmt.Errorf("%s %q: %w", name, id, ErrNotFound)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}
