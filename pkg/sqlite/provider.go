// Package sqlite provides the public API for the SQLite-backed pets provider.
// It exposes the factory while keeping the store and dispatch internal.
package sqlite

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/pets/internal/provider"
	"github.com/mesh-intelligence/pets/internal/sqlite"
	"github.com/mesh-intelligence/pets/pkg/types"
)

// NewProvider creates a provider over the database in cfg.DataDir. Nothing is
// opened until the first operation. A nil logger uses log.Default().
//
// Example:
//
//	p := sqlite.NewProvider(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".pets-db",
//	}, nil)
//	defer p.Close()
//	addr, err := p.Insert(types.ContentURI, pet.Values())
func NewProvider(cfg types.Config, logger *log.Logger) types.Provider {
	return provider.New(sqlite.NewHelper(cfg), provider.WithLogger(logger))
}
