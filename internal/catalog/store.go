package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned (wrapped) when a catalog file does not exist
var ErrNotFound = errors.New("catalog file not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable loads a CSV catalog. A missing file yields an error wrapping ErrNotFound.
func ReadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}

	return parseTable(bytes.TrimPrefix(data, utf8BOM))
}

// ReadTableOrEmpty is ReadTable that treats a missing file as an empty catalog
func ReadTableOrEmpty(path string) (*Table, error) {
	t, err := ReadTable(path)
	if errors.Is(err, ErrNotFound) {
		return &Table{Header: append([]string(nil), Columns...)}, nil
	}
	return t, err
}

func parseTable(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(t.Rows)+2, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// WriteTable replaces the CSV file with t
func WriteTable(path string, t *Table) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(rowValues(t.Header, row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

// AppendRow adds row to the CSV file, creating it with the standard header
// when absent. Existing files keep their own column order.
func AppendRow(path string, row Row) error {
	t, err := ReadTableOrEmpty(path)
	if err != nil {
		return err
	}
	if len(t.Header) == 0 {
		t.Header = append([]string(nil), Columns...)
	}
	t.Rows = append(t.Rows, row)

	return WriteTable(path, t)
}

func rowValues(header []string, row Row) []string {
	values := make([]string, len(header))
	for i, col := range header {
		values[i] = row[col]
	}
	return values
}

// ReadDocument loads products.json
func ReadDocument(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open json file: %w", err)
	}
	defer file.Close()

	var doc Document
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode json document: %w", err)
	}

	return &doc, nil
}

// WriteDocument writes products.json with two-space indentation.
// HTML escaping is off so affiliate URLs keep their literal '&'.
func WriteDocument(path string, doc *Document) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json document: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
