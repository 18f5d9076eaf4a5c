package eventlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for export or import formats other than
// xes and csv.
var ErrUnsupportedFormat = errors.New("unsupported format, use 'xes' or 'csv'")

// Format is an event log file format.
type Format string

// Supported formats.
const (
	FormatXES Format = "xes"
	FormatCSV Format = "csv"
)

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXES, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// WriteCSV writes the log as a comma-separated table with XES-style column
// names. Attribute columns follow the three standard columns, sorted by key.
func WriteCSV(w io.Writer, log *Log) error {
	keySet := make(map[string]struct{})
	for _, c := range log.Cases() {
		for _, ev := range c.Events {
			for k := range ev.Attributes {
				keySet[k] = struct{}{}
			}
		}
	}
	attrKeys := make([]string, 0, len(keySet))
	for k := range keySet {
		attrKeys = append(attrKeys, k)
	}
	sort.Strings(attrKeys)

	cw := csv.NewWriter(w)
	header := append([]string{KeyCaseName, KeyName, KeyTimestamp}, attrKeys...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range log.Cases() {
		for _, ev := range c.Events {
			record := make([]string, 0, len(header))
			record = append(record, c.ID, ev.Activity, ev.Timestamp.Format(xesLayout))
			for _, k := range attrKeys {
				record = append(record, ev.Attributes[k])
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// Encode writes the log to w in the given format.
func Encode(w io.Writer, log *Log, format Format) error {
	switch format {
	case FormatXES:
		return WriteXES(w, log)
	case FormatCSV:
		return WriteCSV(w, log)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Export writes the log to path in the given format.
// The format is validated before the file is created.
func Export(log *Log, path string, format Format) (err error) {
	format, err = ParseFormat(string(format))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()

	if err := Encode(f, log, format); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ExportCSVOptions describes the layout written by WriteCSV.
func ExportCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		CaseColumn:      KeyCaseName,
		ActivityColumn:  KeyName,
		TimestampColumn: KeyTimestamp,
	}
}

// ReadFile reads an event log, choosing the codec from the file extension.
// CSV files are read with opts; XES files ignore it. A CSV file whose
// header lacks the configured columns is read again with
// ExportCSVOptions, so files written by WriteCSV load under any mapping.
func ReadFile(path string, opts CSVOptions) (*Log, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if format == FormatXES {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadXES(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log, err := ReadCSV(bytes.NewReader(data), opts)
	if errors.Is(err, ErrMissingColumn) && opts != ExportCSVOptions() {
		if exported, xerr := ReadCSV(bytes.NewReader(data), ExportCSVOptions()); xerr == nil {
			return exported, nil
		}
	}
	return log, err
}
