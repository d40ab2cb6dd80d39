// Package sqlite implements the SQLite storage backend for tlog.
//
// The backend is the system of record for topics, notes and problems. Every
// mutation runs under a single writer lock and, where it touches more than
// one row, inside a transaction, so constraint checks and cascades are
// all-or-nothing.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on an embedded SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	dbPath   string

	// now supplies creation timestamps; tests replace it.
	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{now: time.Now}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, opens the database with foreign keys
// enforced, and creates any missing tables. Existing rows are kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return types.Persistence("create data dir", err)
	}

	dbPath := filepath.Join(dataDir, types.DatabaseFileName)
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return types.Persistence("open database", err)
	}
	// One connection keeps the single-writer model honest and makes the
	// foreign_keys pragma apply to every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return types.Persistence("open database", err)
	}

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return types.Persistence("create schema", err)
		}
	}

	b.db = db
	b.dbPath = dbPath
	b.config = config
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend.
// After Detach, all operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return types.Persistence("close database", err)
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	return b.dbPath
}

// read runs fn under the read lock after checking the backend is attached.
func (b *Backend) read(fn func() error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return fn()
}

// write runs fn under the writer lock after checking the backend is attached.
func (b *Backend) write(fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return fn()
}

// inTx runs fn inside a transaction, committing on success.
// The caller must hold the writer lock.
func (b *Backend) inTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return types.Persistence(op+": begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return types.Persistence(op+": commit", err)
	}
	return nil
}

// timestamp formats the current time for a timestamp column.
func (b *Backend) timestamp() string {
	return b.now().Format(types.TimestampLayout)
}

// parseTimestamp reads a timestamp column in local time. Rows written by
// other tools may carry an empty or odd value; those decode to zero time.
func parseTimestamp(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.ParseInLocation(types.TimestampLayout, s.String, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// topicExists reports whether a topic row with id exists.
func topicExists(q queryer, id int64) (bool, error) {
	var one int
	err := q.QueryRow("SELECT 1 FROM topics WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, types.Persistence(fmt.Sprintf("check topic %d", id), err)
	}
	return true, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
