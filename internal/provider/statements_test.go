package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pets/pkg/types"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name       string
		projection []string
		selection  string
		args       []any
		sortOrder  string
		want       string
		wantArgs   []any
		wantErr    error
	}{
		{
			name: "all columns",
			want: "SELECT id, name, breed, gender, weight FROM pets",
		},
		{
			name:       "projection and selection",
			projection: []string{"name", "breed"},
			selection:  "gender = ?",
			args:       []any{int64(2)},
			want:       "SELECT name, breed FROM pets WHERE (gender = ?)",
			wantArgs:   []any{int64(2)},
		},
		{
			name:      "id filter with order",
			selection: " id = ? ",
			args:      []any{int64(7)},
			sortOrder: "name desc, id",
			want:      "SELECT id, name, breed, gender, weight FROM pets WHERE (id = ?) ORDER BY name DESC, id ASC",
			wantArgs:  []any{int64(7)},
		},
		{
			name:       "unknown projection",
			projection: []string{"name", "_id"},
			wantErr:    types.ErrUnknownColumn,
		},
		{
			name:      "unknown sort column",
			sortOrder: "age",
			wantErr:   types.ErrInvalidSortOrder,
		},
		{
			name:      "bad direction",
			sortOrder: "name sideways",
			wantErr:   types.ErrInvalidSortOrder,
		},
		{
			name:      "empty term",
			sortOrder: "name,",
			wantErr:   types.ErrInvalidSortOrder,
		},
		{
			name:      "injection attempt",
			sortOrder: "name; DROP TABLE pets",
			wantErr:   types.ErrInvalidSortOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := buildSelect(tt.projection, tt.selection, tt.args, tt.sortOrder)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, tt.wantArgs, args)
		})
	}
}

func TestBuildInsert(t *testing.T) {
	stmt, args, err := buildInsert(types.Values{
		types.ColumnWeight: int64(3),
		types.ColumnName:   "Tom",
		types.ColumnGender: types.GenderMale,
	})
	require.NoError(t, err)
	assert.Contains(t, stmt, "INSERT INTO pets")
	assert.Contains(t, stmt, "gender,name,weight")
	assert.Equal(t, []any{int64(1), "Tom", int64(3)}, args, "args follow sorted column order, gender bound as int64")

	_, _, err = buildInsert(types.Values{types.ColumnID: int64(1)})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)

	_, _, err = buildInsert(types.Values{"owner": "me"})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
}

func TestStatementsReferenceDeclaredColumns(t *testing.T) {
	assert.True(t, types.IsColumn(types.ColumnID))
	for _, c := range types.Columns {
		_, _, err := buildSelect([]string{c}, "", nil, c+" DESC")
		assert.NoError(t, err, c)
	}
}
