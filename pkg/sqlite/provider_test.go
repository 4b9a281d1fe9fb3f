package sqlite

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pets/pkg/types"
)

func TestNewProvider_LazyOpen(t *testing.T) {
	p := NewProvider(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, log.New(io.Discard))
	defer p.Close()

	pet := types.Pet{Name: "Garfield", Breed: "Tabby", Gender: types.GenderMale, Weight: 9}
	addr, err := p.Insert(types.ContentURI, pet.Values())
	require.NoError(t, err)
	require.NotEmpty(t, addr)

	c, err := p.Query(addr, nil, "", nil, "")
	require.NoError(t, err)
	defer c.Close()
	require.True(t, c.Next())
	got, err := types.ScanPet(c)
	require.NoError(t, err)
	assert.Equal(t, "Garfield", got.Name)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	p := NewProvider(types.Config{DataDir: t.TempDir()}, nil)
	defer p.Close()

	_, err := p.Query(types.ContentURI, nil, "", nil, "")
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
