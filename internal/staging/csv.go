package staging

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadCSV loads a staging CSV into a Dataset. The first record is the
// header. The dataset name is the file stem (orders.csv -> "orders").
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // staging paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open staging file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are padded by New

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read staging file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("staging file %s has no header row", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return New(name, header, records[1:]), nil
}

// LoadDir loads the named datasets from a staging directory, keyed by name.
// Every requested dataset must exist; a missing staging file is fatal.
func LoadDir(dir string, names ...string) (map[string]*Dataset, error) {
	out := make(map[string]*Dataset, len(names))
	for _, name := range names {
		ds, err := ReadCSV(filepath.Join(dir, name+".csv"))
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset %q: %w", name, err)
		}
		out[name] = ds
	}
	return out, nil
}
