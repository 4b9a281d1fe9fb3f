package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// ExportFileName is the default JSONL export written to the data directory.
const ExportFileName = "pets.jsonl"

// ReadJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func ReadJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// ReadPetsJSONL decodes every record of a JSONL file into a Pet. Records
// that are valid JSON but not pet objects are skipped.
func ReadPetsJSONL(path string) ([]*types.Pet, error) {
	records, err := ReadJSONL(path)
	if err != nil {
		return nil, err
	}
	pets := make([]*types.Pet, 0, len(records))
	for _, rec := range records {
		var p types.Pet
		if err := json.Unmarshal(rec, &p); err != nil {
			continue
		}
		pets = append(pets, &p)
	}
	return pets, nil
}

// WriteCursorJSONL streams c to path, one JSON object per row keyed by column
// name, and returns the number of rows written. Rows go to a temp file in the
// same directory that is synced and renamed over path only once the cursor is
// drained, so a failed export leaves any earlier file untouched. The cursor is
// closed before returning.
func WriteCursorJSONL(path string, c types.Cursor) (n int, err error) {
	defer c.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	cols := c.Columns()
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for c.Next() {
		if err := c.Scan(ptrs...); err != nil {
			return 0, fmt.Errorf("scanning row %d: %w", n+1, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		if err := enc.Encode(rec); err != nil {
			return 0, fmt.Errorf("encoding row %d: %w", n+1, err)
		}
		n++
	}
	if err := c.Err(); err != nil {
		return 0, fmt.Errorf("iterating rows: %w", err)
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flushing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}
	return n, nil
}
