package eventlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing column")

// CSVOptions describes how a delimited file maps onto events.
type CSVOptions struct {
	Delimiter       rune
	CaseColumn      string
	ActivityColumn  string
	TimestampColumn string
	// TimestampFormat is a strftime format. Empty means "try common
	// ISO-8601 layouts".
	TimestampFormat string
}

// DefaultCSVOptions matches the coursework running-example data set.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ';',
		CaseColumn:      "Case ID",
		ActivityColumn:  "Activity",
		TimestampColumn: "Timestamp",
		TimestampFormat: "%d-%m-%Y:%H.%M",
	}
}

// RowError reports a problem with one CSV data row.
// Row is 1-based and counts the header line.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadCSV reads a delimited event table into a sorted Log.
//
// The first record is the header. Columns other than the case, activity and
// timestamp columns become event attributes (empty values are skipped).
func ReadCSV(r io.Reader, opts CSVOptions) (*Log, error) {
	parser, err := newTimeParser(opts.TimestampFormat)
	if err != nil {
		return nil, fmt.Errorf("timestamp format: %w", err)
	}

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	caseIdx, err := columnIndex(header, opts.CaseColumn)
	if err != nil {
		return nil, err
	}
	activityIdx, err := columnIndex(header, opts.ActivityColumn)
	if err != nil {
		return nil, err
	}
	tsIdx, err := columnIndex(header, opts.TimestampColumn)
	if err != nil {
		return nil, err
	}

	log := New()
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}

		caseID := strings.TrimSpace(record[caseIdx])
		if caseID == "" {
			return nil, &RowError{Row: row, Err: fmt.Errorf("empty %q", opts.CaseColumn)}
		}
		activity := strings.TrimSpace(record[activityIdx])
		if activity == "" {
			return nil, &RowError{Row: row, Err: fmt.Errorf("empty %q", opts.ActivityColumn)}
		}
		ts, err := parser.parse(record[tsIdx])
		if err != nil {
			return nil, &RowError{Row: row, Err: fmt.Errorf("parse %q: %w", opts.TimestampColumn, err)}
		}

		var attrs map[string]string
		for i, value := range record {
			if i == caseIdx || i == activityIdx || i == tsIdx || value == "" {
				continue
			}
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[header[i]] = value
		}

		log.Append(Event{
			CaseID:     caseID,
			Activity:   activity,
			Timestamp:  ts,
			Attributes: attrs,
		})
	}

	log.Sort()
	return log, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, name, strings.Join(header, ", "))
}
