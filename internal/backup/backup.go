// Package backup exports the whole store to a single JSON or YAML file and
// restores it. A bundle carries a format version and a checksum of its
// data so hand-edited or truncated files are refused on restore.
package backup

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/magis/internal/store"
)

// Version is the bundle format written by Export.
const Version = 1

var (
	// ErrVersionMismatch is returned for bundles written by a newer format.
	ErrVersionMismatch = errors.New("unsupported backup version")
	// ErrChecksum is returned when the bundle data does not match its checksum.
	ErrChecksum = errors.New("backup checksum mismatch")
)

// Bundle is the on-disk backup document.
type Bundle struct {
	Version   int            `json:"version" yaml:"version"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Checksum  string         `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Data      store.Snapshot `json:"data" yaml:"data"`
}

// Summary counts the records in a bundle.
type Summary struct {
	Path           string    `json:"path"`
	CreatedAt      time.Time `json:"createdAt"`
	Sins           int       `json:"sins"`
	BuenasObras    int       `json:"buenasObras"`
	PersonTypes    int       `json:"personTypes"`
	Activities     int       `json:"activities"`
	Condicionantes int       `json:"condicionantes"`
	Sessions       int       `json:"examSessions"`
	Notes          int       `json:"notes"`
}

// Summarize counts the records of b.
func (b *Bundle) Summarize(path string) Summary {
	return Summary{
		Path:           path,
		CreatedAt:      b.CreatedAt,
		Sins:           len(b.Data.Sins),
		BuenasObras:    len(b.Data.BuenasObras),
		PersonTypes:    len(b.Data.PersonTypes),
		Activities:     len(b.Data.Activities),
		Condicionantes: len(b.Data.Condicionantes),
		Sessions:       len(b.Data.Sessions),
		Notes:          len(b.Data.Notes),
	}
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func jsonMarshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// codecFor picks the encoding from the file extension; anything that is
// not YAML is written as JSON.
func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
	}
	return codec{marshal: jsonMarshal, unmarshal: json.Unmarshal}
}

// Export writes the full contents of st to path.
func Export(st *store.Store, path string, now time.Time) (*Bundle, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	c := codecFor(path)

	// Hash the data as it will read back, so restore compares like with like.
	raw, err := c.marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	var readBack store.Snapshot
	if err := c.unmarshal(raw, &readBack); err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	sum, err := checksum(readBack)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Version: Version, CreatedAt: now, Checksum: sum, Data: snap}
	data, err := c.marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}
	return b, nil
}

// Load reads and verifies a bundle without touching the store.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var b Bundle
	if err := codecFor(path).unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if b.Version < 1 || b.Version > Version {
		return nil, fmt.Errorf("%w: %d (this build reads up to %d)", ErrVersionMismatch, b.Version, Version)
	}
	if b.Checksum != "" {
		sum, err := checksum(b.Data)
		if err != nil {
			return nil, err
		}
		if sum != b.Checksum {
			return nil, ErrChecksum
		}
	}
	return &b, nil
}

// Restore replaces the contents of st with the bundle at path.
func Restore(st *store.Store, path string) (*Bundle, error) {
	b, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := st.Replace(b.Data); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}
	return b, nil
}

func checksum(snap store.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to hash backup: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
