package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// Compile-time interface check: rowsCursor must implement Cursor.
var _ types.Cursor = (*rowsCursor)(nil)

// rowsCursor adapts *sql.Rows to types.Cursor. Rows are fetched lazily as
// Next is called.
type rowsCursor struct {
	rows    *sql.Rows
	columns []string
}

// NewCursor wraps rows. On error the rows are closed.
func NewCursor(rows *sql.Rows) (types.Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading result columns: %w", err)
	}
	return &rowsCursor{rows: rows, columns: cols}, nil
}

func (c *rowsCursor) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

func (c *rowsCursor) ColumnIndex(name string) (int, error) {
	for i, col := range c.columns {
		if col == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q not in result", types.ErrUnknownColumn, name)
}

func (c *rowsCursor) Next() bool             { return c.rows.Next() }
func (c *rowsCursor) Scan(dest ...any) error { return c.rows.Scan(dest...) }
func (c *rowsCursor) Err() error             { return c.rows.Err() }
func (c *rowsCursor) Close() error           { return c.rows.Close() }
