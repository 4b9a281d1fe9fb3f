package provider

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// buildSelect assembles the SELECT for Query. Projection and sort columns
// must be declared columns; the selection is passed through as written and
// bound with the caller's arguments.
func buildSelect(projection []string, selection string, selectionArgs []any, sortOrder string) (string, []any, error) {
	cols := types.Columns
	if len(projection) > 0 {
		for _, c := range projection {
			if !types.IsColumn(c) {
				return "", nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, c)
			}
		}
		cols = projection
	}

	order, err := parseSortOrder(sortOrder)
	if err != nil {
		return "", nil, err
	}

	sb := squirrel.Select(cols...).From(types.TableName)
	if s := strings.TrimSpace(selection); s != "" {
		sb = sb.Where("("+s+")", selectionArgs...)
	}
	if order != "" {
		sb = sb.OrderBy(order)
	}
	return sb.ToSql()
}

// parseSortOrder normalizes "col [ASC|DESC], ..." and rejects anything else.
func parseSortOrder(sortOrder string) (string, error) {
	if strings.TrimSpace(sortOrder) == "" {
		return "", nil
	}
	terms := strings.Split(sortOrder, ",")
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		fields := strings.Fields(term)
		if len(fields) == 0 || len(fields) > 2 {
			return "", fmt.Errorf("%w: %q", types.ErrInvalidSortOrder, sortOrder)
		}
		if !types.IsColumn(fields[0]) {
			return "", fmt.Errorf("%w: %w %q", types.ErrInvalidSortOrder, types.ErrUnknownColumn, fields[0])
		}
		dir := "ASC"
		if len(fields) == 2 {
			dir = strings.ToUpper(fields[1])
			if dir != "ASC" && dir != "DESC" {
				return "", fmt.Errorf("%w: %q", types.ErrInvalidSortOrder, sortOrder)
			}
		}
		out = append(out, fields[0]+" "+dir)
	}
	return strings.Join(out, ", "), nil
}

// buildInsert assembles the INSERT for Insert. The id column is rejected
// because the store assigns it.
func buildInsert(values types.Values) (string, []any, error) {
	row := make(map[string]any, len(values))
	for c, v := range values {
		if c == types.ColumnID {
			return "", nil, fmt.Errorf("%w: %q is assigned by the store", types.ErrUnknownColumn, c)
		}
		if !types.IsColumn(c) {
			return "", nil, fmt.Errorf("%w: %q", types.ErrUnknownColumn, c)
		}
		row[c] = bindValue(v)
	}
	return squirrel.Insert(types.TableName).SetMap(row).ToSql()
}

// bindValue converts contract types to the driver's native values.
func bindValue(v any) any {
	if g, ok := v.(types.Gender); ok {
		return int64(g)
	}
	return v
}
