package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Format selects the on-disk export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// ExportFile writes rows to dir as <name>-<timestamp>.<format> and
// returns the path of the written file.
func ExportFile(dir, name string, format Format, rows Rows, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", name, now.Format("20060102-150405"), format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		err = writeCSV(f, rows)
	case FormatJSON:
		err = writeJSON(f, rows)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(f *os.File, rows Rows) error {
	w := csv.NewWriter(f)
	if err := w.Write(rows.Headers); err != nil {
		return err
	}
	for _, row := range rows.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeJSON encodes each row as an object keyed by its column header,
// preserving column order.
func writeJSON(f *os.File, rows Rows) error {
	var buf []byte
	buf = append(buf, '[', '\n')
	for i, row := range rows.Rows {
		if i > 0 {
			buf = append(buf, ',', '\n')
		}
		buf = append(buf, ' ', ' ', '{')
		for j, h := range rows.Headers {
			if j > 0 {
				buf = append(buf, ',', ' ')
			}
			k, err := json.Marshal(h)
			if err != nil {
				return err
			}
			val := ""
			if j < len(row) {
				val = row[j]
			}
			v, err := json.Marshal(val)
			if err != nil {
				return err
			}
			buf = append(buf, k...)
			buf = append(buf, ':', ' ')
			buf = append(buf, v...)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, '\n', ']', '\n')
	_, err := f.Write(buf)
	return err
}
