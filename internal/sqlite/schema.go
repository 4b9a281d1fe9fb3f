package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// DatabaseName is the file created in the data directory.
const DatabaseName = "pets.db"

// DatabaseVersion is stored in PRAGMA user_version once the schema exists.
// Version 0 means the file is new.
const DatabaseVersion = 1

// columnDefs holds the type and constraints of each contract column.
var columnDefs = map[string]string{
	types.ColumnID:     "INTEGER PRIMARY KEY AUTOINCREMENT",
	types.ColumnName:   "TEXT",
	types.ColumnBreed:  "TEXT",
	types.ColumnGender: "INTEGER NOT NULL DEFAULT 0",
	types.ColumnWeight: "INTEGER NOT NULL DEFAULT 0",
}

// createTableSQL builds the CREATE TABLE statement from types.Columns so the
// schema and the contract cannot drift apart.
func createTableSQL() (string, error) {
	defs := make([]string, 0, len(types.Columns))
	for _, col := range types.Columns {
		def, ok := columnDefs[col]
		if !ok {
			return "", fmt.Errorf("no definition for column %q", col)
		}
		defs = append(defs, "    "+col+" "+def)
	}
	return "CREATE TABLE " + types.TableName + " (\n" + strings.Join(defs, ",\n") + "\n);", nil
}
