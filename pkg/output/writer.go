package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"xwscraper/pkg/errors"
	"xwscraper/pkg/nyt"
)

// Format is an output file type
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ParseFormat validates a user supplied file type
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, CSV:
		return f, nil
	default:
		return "", errors.New(errors.ErrorTypeOutput, 0, "file type %s not supported", s)
	}
}

// BaseName returns the file name, without extension, used for a puzzle type
func BaseName(pt nyt.PuzzleType) string {
	return string(pt) + "_puzzle_times"
}

// Writer serializes scrape results to a file
type Writer struct {
	path   string
	format Format
}

// NewWriter creates a writer for path. When path is a directory, or ends in
// a separator, files are named <name>.<format> inside it.
func NewWriter(path, format string) (*Writer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New(errors.ErrorTypeOutput, 0, "output path is required")
	}
	return &Writer{path: path, format: f}, nil
}

// Format returns the writer's file type
func (w *Writer) Format() Format {
	return w.format
}

// Target returns the file a Write with this name goes to
func (w *Writer) Target(name string) string {
	if strings.HasSuffix(w.path, "/") || strings.HasSuffix(w.path, string(os.PathSeparator)) {
		return filepath.Join(w.path, name+"."+string(w.format))
	}
	if info, err := os.Stat(w.path); err == nil && info.IsDir() {
		return filepath.Join(w.path, name+"."+string(w.format))
	}
	return w.path
}

// Write serializes records and returns the path written.
// Missing directories are created and the file is replaced atomically.
func (w *Writer) Write(name string, records []nyt.PuzzleRecord) (string, error) {
	target := w.Target(name)

	var (
		data []byte
		err  error
	)
	switch w.format {
	case CSV:
		data, err = EncodeCSV(records)
	default:
		data, err = EncodeJSON(records)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeOutput, err, "encode %s", w.format)
	}

	if err := writeFileAtomic(target, data); err != nil {
		return "", errors.Wrap(errors.ErrorTypeOutput, err, "write %s", target)
	}
	return target, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Columns returns the union of the record keys, sorted
func Columns(records []nyt.PuzzleRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// EncodeJSON renders records as an array of objects. Every object carries
// every column; absent fields are null.
func EncodeJSON(records []nyt.PuzzleRecord) ([]byte, error) {
	cols := Columns(records)
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			row[c] = rec[c]
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

// EncodeCSV renders records as a table with a leading row index column.
// Nested values are written as JSON.
func EncodeCSV(records []nyt.PuzzleRecord) ([]byte, error) {
	cols := Columns(records)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(append([]string{""}, cols...)); err != nil {
		return nil, err
	}

	row := make([]string, len(cols)+1)
	for i, rec := range records {
		row[0] = strconv.Itoa(i)
		for j, c := range cols {
			cell, err := formatCell(rec[c])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, c, err)
			}
			row[j+1] = cell
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
