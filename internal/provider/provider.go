// Package provider implements the pets content provider: it resolves
// content addresses to the collection or a single pet and forwards queries
// and inserts to the SQLite store.
package provider

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/pets/internal/sqlite"
	"github.com/mesh-intelligence/pets/internal/uri"
	"github.com/mesh-intelligence/pets/pkg/types"
)

// Compile-time interface check: Provider must implement types.Provider.
var _ types.Provider = (*Provider)(nil)

// Opener hands out the store connection. *sqlite.Helper satisfies it.
type Opener interface {
	Open(mode sqlite.Mode) (*sql.DB, error)
	Close() error
}

// Provider dispatches content addresses to store operations. Operations share
// a read lock that Close takes exclusively; rows are left to SQLite's own
// locking.
type Provider struct {
	store   Opener
	matcher *uri.Matcher
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMatcher replaces the default address matcher.
func WithMatcher(m *uri.Matcher) Option {
	return func(p *Provider) {
		if m != nil {
			p.matcher = m
		}
	}
}

// New creates a provider over store. The matcher is built once here and
// never changes.
func New(store Opener, opts ...Option) *Provider {
	p := &Provider{
		store:   store,
		matcher: uri.DefaultMatcher(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithPrefix("provider")
	return p
}

// Query returns a lazy cursor over the rows selected by address. For an item
// address the caller's selection and arguments are discarded and replaced by
// a filter on the id, so at most one row is returned.
func (p *Provider) Query(address string, projection []string, selection string, selectionArgs []any, sortOrder string) (types.Cursor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, types.ErrProviderClosed
	}

	kind, id := p.matcher.Match(address)
	switch kind {
	case uri.Pets:
	case uri.PetID:
		selection = types.ColumnID + " = ?"
		selectionArgs = []any{id}
	default:
		return nil, fmt.Errorf("cannot query %w %q", types.ErrInvalidAddress, address)
	}

	query, args, err := buildSelect(projection, selection, selectionArgs, sortOrder)
	if err != nil {
		return nil, err
	}

	db, err := p.store.Open(sqlite.ModeReadable)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("query", "kind", kind, "sql", query, "args", len(args))
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", types.TableName, err)
	}
	return sqlite.NewCursor(rows)
}

// Insert adds a row through the collection address and returns the new item
// address. Item addresses are not insertable. When the store rejects the row
// the failure is logged and Insert returns "" with a nil error.
func (p *Provider) Insert(address string, values types.Values) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", types.ErrProviderClosed
	}

	kind, _ := p.matcher.Match(address)
	if kind != uri.Pets {
		return "", fmt.Errorf("cannot insert into %w %q", types.ErrInvalidAddress, address)
	}

	db, err := p.store.Open(sqlite.ModeWritable)
	if err != nil {
		return "", err
	}

	id, err := insertPet(db, values)
	if err != nil {
		p.logger.Error("failed to insert row", "address", address, "err", err)
		return "", nil
	}

	itemURI := types.ItemURI(id)
	p.logger.Debug("inserted", "address", itemURI)
	return itemURI, nil
}

// Update resolves address and reports zero rows changed. It never writes to
// the store.
// TODO: apply values to the matched rows so edits from the editor persist.
func (p *Provider) Update(address string, values types.Values, selection string, selectionArgs []any) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return 0, types.ErrProviderClosed
	}
	kind, _ := p.matcher.Match(address)
	if kind == uri.NoMatch {
		return 0, fmt.Errorf("cannot update %w %q", types.ErrInvalidAddress, address)
	}
	p.logger.Debug("update ignored", "kind", kind, "values", len(values))
	return 0, nil
}

// Delete resolves address and reports zero rows removed. It never writes to
// the store.
// TODO: remove the matched rows once the editor's delete action is wired.
func (p *Provider) Delete(address string, selection string, selectionArgs []any) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return 0, types.ErrProviderClosed
	}
	kind, _ := p.matcher.Match(address)
	if kind == uri.NoMatch {
		return 0, fmt.Errorf("cannot delete from %w %q", types.ErrInvalidAddress, address)
	}
	p.logger.Debug("delete ignored", "kind", kind)
	return 0, nil
}

// Type returns an empty descriptor for every address.
func (p *Provider) Type(address string) string {
	return ""
}

// Close releases the store. It waits for operations in flight, so no
// operation can reopen the store afterwards. Later operations return
// ErrProviderClosed. Close is idempotent.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.store.Close()
}

// errEmptyValues rejects an insert with no columns.
var errEmptyValues = errors.New("no values to insert")

// insertPet writes one row and returns the id the store assigned.
func insertPet(db *sql.DB, values types.Values) (int64, error) {
	if len(values) == 0 {
		return 0, errEmptyValues
	}
	stmt, args, err := buildInsert(values)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", types.TableName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new row id: %w", err)
	}
	return id, nil
}
