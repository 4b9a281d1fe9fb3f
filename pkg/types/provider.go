package types

// Values maps column names to the values written by Insert and Update.
type Values map[string]any

// Cursor is a lazy, forward-only sequence of rows returned by Query. It is
// consumed once and cannot be restarted. Callers must Close it.
type Cursor interface {
	// Columns returns the column names of the result, in order.
	Columns() []string

	// ColumnIndex returns the position of the named column.
	// Returns ErrUnknownColumn if the result does not include it.
	ColumnIndex(name string) (int, error)

	// Next advances to the next row. It returns false when the rows are
	// exhausted or an error occurred; check Err afterwards.
	Next() bool

	// Scan copies the current row into dest, one pointer per column.
	Scan(dest ...any) error

	// Err returns the error, if any, encountered during iteration.
	Err() error

	// Close releases the underlying result set. Close is idempotent.
	Close() error
}

// Provider resolves content addresses and forwards reads and writes to the
// store. An address that matches neither the collection nor the item
// template fails every operation with ErrInvalidAddress.
type Provider interface {
	// Query returns the rows selected by address. For an item address the
	// selection and selectionArgs are replaced with a filter on the id.
	// An empty projection selects every column.
	Query(address string, projection []string, selection string, selectionArgs []any, sortOrder string) (Cursor, error)

	// Insert adds a row through the collection address and returns the new
	// item address. A store-level failure returns "" and a nil error.
	Insert(address string, values Values) (string, error)

	// Update returns the number of rows changed.
	Update(address string, values Values, selection string, selectionArgs []any) (int64, error)

	// Delete returns the number of rows removed.
	Delete(address string, selection string, selectionArgs []any) (int64, error)

	// Type returns the type descriptor for address.
	Type(address string) string

	// Close releases the store. Operations after Close return ErrProviderClosed.
	Close() error
}
