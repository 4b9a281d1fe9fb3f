package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// newTestHelper returns a helper over a fresh data directory.
func newTestHelper(t *testing.T) *Helper {
	t.Helper()
	h := NewHelper(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHelper_OpenCreatesFileAndSchema(t *testing.T) {
	h := newTestHelper(t)

	db, err := h.Open(ModeWritable)
	require.NoError(t, err)

	_, err = os.Stat(h.Path())
	require.NoError(t, err, "database file should exist after Open")
	assert.Equal(t, DatabaseName, filepath.Base(h.Path()))

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, DatabaseVersion, version)

	rows, err := db.Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", types.TableName)
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, types.Columns, cols)
}

func TestHelper_OpenIsIdempotent(t *testing.T) {
	h := newTestHelper(t)

	first, err := h.Open(ModeWritable)
	require.NoError(t, err)
	second, err := h.Open(ModeReadable)
	require.NoError(t, err)
	third, err := h.Open(ModeWritable)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third)
}

func TestHelper_ReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	h := NewHelper(cfg)
	db, err := h.Open(ModeWritable)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO pets (name) VALUES ('Tom')")
	require.NoError(t, err)
	require.NoError(t, h.Close())

	// A second helper over the same file must not recreate the table.
	h2 := NewHelper(cfg)
	defer h2.Close()
	db2, err := h2.Open(ModeReadable)
	require.NoError(t, err)

	var count int
	require.NoError(t, db2.QueryRow("SELECT COUNT(*) FROM pets").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestHelper_InvalidMode(t *testing.T) {
	h := newTestHelper(t)
	_, err := h.Open(Mode(0))
	assert.ErrorIs(t, err, types.ErrInvalidMode)
	_, err = h.Open(Mode(9))
	assert.ErrorIs(t, err, types.ErrInvalidMode)
}

func TestHelper_OpenFailures(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		h := NewHelper(types.Config{DataDir: t.TempDir()})
		_, err := h.Open(ModeWritable)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
		assert.ErrorIs(t, err, types.ErrBackendEmpty)
	})

	t.Run("data dir cannot be created", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		h := NewHelper(types.Config{
			Backend: types.BackendSQLite,
			DataDir: filepath.Join(blocker, "data"),
		})
		_, err := h.Open(ModeWritable)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	})

	t.Run("schema newer than supported", func(t *testing.T) {
		dir := t.TempDir()
		cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

		h := NewHelper(cfg)
		db, err := h.Open(ModeWritable)
		require.NoError(t, err)
		_, err = db.Exec("PRAGMA user_version = 7")
		require.NoError(t, err)
		require.NoError(t, h.Close())

		h2 := NewHelper(cfg)
		_, err = h2.Open(ModeReadable)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
		assert.ErrorIs(t, err, errNewerSchema)
	})

	t.Run("table creation fails without leaving a usable schema", func(t *testing.T) {
		dir := t.TempDir()
		cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

		// A pre-existing pets table in an unversioned file collides with
		// the CREATE TABLE statement.
		h := NewHelper(cfg)
		db, err := h.Open(ModeWritable)
		require.NoError(t, err)
		_, err = db.Exec("PRAGMA user_version = 0")
		require.NoError(t, err)
		require.NoError(t, h.Close())

		h2 := NewHelper(cfg)
		_, err = h2.Open(ModeWritable)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)

		// Retrying fails the same way: the failed open was not cached.
		_, err = h2.Open(ModeWritable)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	})
}

func TestHelper_CloseIsIdempotent(t *testing.T) {
	h := newTestHelper(t)
	_, err := h.Open(ModeWritable)
	require.NoError(t, err)

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())

	// Open after Close reopens the file.
	db, err := h.Open(ModeReadable)
	require.NoError(t, err)
	assert.NoError(t, db.Ping())
}

func TestCreateTableSQL(t *testing.T) {
	ddl, err := createTableSQL()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE pets ("))
	for _, col := range types.Columns {
		assert.Contains(t, ddl, "    "+col+" ", "column %q missing from DDL", col)
	}
	assert.Contains(t, ddl, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, ddl, "name TEXT")
	assert.Contains(t, ddl, "breed TEXT")
	assert.Contains(t, ddl, "gender INTEGER")
	assert.Contains(t, ddl, "weight INTEGER NOT NULL DEFAULT 0")
	assert.Len(t, columnDefs, len(types.Columns), "every column definition must belong to a contract column")
}
