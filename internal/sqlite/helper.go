// Package sqlite owns the SQLite database file behind the pets provider:
// lazy, idempotent opening, first-run schema creation, cursors over result
// sets, and JSONL import and export.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// Mode selects how the caller intends to use the connection.
type Mode int

// Open modes. Both return the same handle; SQLite serializes writers.
const (
	ModeReadable Mode = iota + 1
	ModeWritable
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeReadable:
		return "readable"
	case ModeWritable:
		return "writable"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// busyTimeoutMillis bounds how long a statement waits on a locked database.
const busyTimeoutMillis = 5000

// Helper owns one database file for the lifetime of the process.
type Helper struct {
	mu     sync.Mutex
	config types.Config
	db     *sql.DB
}

// NewHelper creates a helper for the database in config.DataDir. Nothing is
// opened until the first call to Open.
func NewHelper(config types.Config) *Helper {
	return &Helper{config: config}
}

// Path returns the database file path.
func (h *Helper) Path() string {
	dataDir := h.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, DatabaseName)
}

// Open returns a ready connection, creating the data directory, the file, and
// the schema on first use. Later calls return the same handle. A failed first
// open leaves nothing behind and the next call starts over. All failures wrap
// ErrStoreUnavailable, except an unknown mode which returns ErrInvalidMode.
func (h *Helper) Open(mode Mode) (*sql.DB, error) {
	if mode != ModeReadable && mode != ModeWritable {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidMode, mode)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}

	if err := h.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(h.Path()), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %w", types.ErrStoreUnavailable, err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		h.Path(), busyTimeoutMillis)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.GetOpenTimeout())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting: %w", types.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	h.db = db
	return db, nil
}

// Close releases the connection. Close is idempotent and a later Open
// reopens the file.
func (h *Helper) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

// errNewerSchema reports a file written by a later schema version.
var errNewerSchema = errors.New("database schema is newer than supported")

// initSchema creates the pets table when the file is new. The table and the
// version stamp are written in one transaction.
func initSchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	switch {
	case version == DatabaseVersion:
		return nil
	case version > DatabaseVersion:
		return fmt.Errorf("%w: version %d", errNewerSchema, version)
	}

	ddl, err := createTableSQL()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating %s table: %w", types.TableName, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", DatabaseVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
