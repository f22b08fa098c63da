package export

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/devpython86/nfe-processor/internal/pipeline"
)

// WriteSnapshot persists the processed rows as a binary snapshot next to the
// workbook so a later run can reload the table without re-parsing the source
// documents.
func WriteSnapshot(path string, rows []pipeline.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot create: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(rows); err != nil {
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}
	return nil
}

// ReadSnapshot loads rows written by WriteSnapshot.
func ReadSnapshot(path string) ([]pipeline.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot open: %w", err)
	}
	defer f.Close()

	var rows []pipeline.Row
	if err := gob.NewDecoder(f).Decode(&rows); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return rows, nil
}
