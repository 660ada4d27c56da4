package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schemadesk/internal/model"
)

const (
	// DirName is the workspace directory discovered upward from the cwd.
	DirName = ".schemadesk"

	sqliteFileName = "schemadesk.sqlite"
)

// DB is an in-memory snapshot of a workspace. The TUI/CLI mutate it through
// internal/mutate and persist it with Store.Save.
type DB struct {
	Version int           `json:"version"`
	Models  []model.Model `json:"models"`

	// RetiredIDs holds ids of deleted models/properties. Ids are never handed out twice.
	RetiredIDs []string `json:"retiredIds,omitempty"`
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, DirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, DirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// IsDataFile reports whether name is the workspace database or one of its -wal/-shm siblings.
func IsDataFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), sqliteFileName)
}

// ModTime returns the latest modification time across the database files.
// Zero when the workspace has not been written yet.
func (s Store) ModTime() time.Time {
	var latest time.Time
	for _, suffix := range []string{"", "-wal"} {
		if st, err := os.Stat(s.sqlitePath() + suffix); err == nil && st.ModTime().After(latest) {
			latest = st.ModTime()
		}
	}
	return latest
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Load reads the workspace snapshot. A fresh workspace yields an empty DB.
func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

// Save persists db and, atomically with it, any events describing the change.
func (s Store) Save(db *DB, events ...PendingEvent) error {
	return s.SaveSQLite(context.Background(), db, events...)
}

func (db *DB) FindModel(id string) (*model.Model, bool) {
	for i := range db.Models {
		if db.Models[i].ID == id {
			return &db.Models[i], true
		}
	}
	return nil, false
}

// ModelIndex returns the display position of the model, or -1.
func (db *DB) ModelIndex(id string) int {
	for i := range db.Models {
		if db.Models[i].ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) FindProperty(modelID, propID string) (*model.Model, *model.Property, bool) {
	m, ok := db.FindModel(modelID)
	if !ok {
		return nil, nil, false
	}
	i := m.PropertyIndex(propID)
	if i < 0 {
		return m, nil, false
	}
	return m, &m.Properties[i], true
}

// Retire records ids that must never be reused.
func (db *DB) Retire(ids ...string) {
	db.RetiredIDs = append(db.RetiredIDs, ids...)
}

// Clone returns a deep copy. Rows render from clones so they can never write
// through to the owner's snapshot.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{Version: db.Version}
	out.Models = make([]model.Model, len(db.Models))
	for i, m := range db.Models {
		m.Properties = append([]model.Property(nil), m.Properties...)
		out.Models[i] = m
	}
	out.RetiredIDs = append([]string(nil), db.RetiredIDs...)
	return out
}
