// Package config loads the procmine CLI configuration file.
//
// The file is optional. Any field it omits keeps its default; command-line
// flags override both.
//
//	csv:
//	  delimiter: ";"
//	  case_column: Case ID
//	  activity_column: Activity
//	  timestamp_column: Timestamp
//	  timestamp_format: "%d-%m-%Y:%H.%M"
//	chart:
//	  width: 1200
//	  height: 600
//	  dot_size: 5
//	store:
//	  path: procmine.db
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/procmine/internal/chart"
	"github.com/roach88/procmine/internal/eventlog"
)

var validate = validator.New()

// Config is the full CLI configuration.
type Config struct {
	CSV   CSV   `yaml:"csv" json:"csv"`
	Chart Chart `yaml:"chart" json:"chart"`
	Store Store `yaml:"store" json:"store"`
}

// CSV maps CSV columns onto event fields.
type CSV struct {
	Delimiter       string `yaml:"delimiter" json:"delimiter" validate:"required"`
	CaseColumn      string `yaml:"case_column" json:"case_column" validate:"required"`
	ActivityColumn  string `yaml:"activity_column" json:"activity_column" validate:"required"`
	TimestampColumn string `yaml:"timestamp_column" json:"timestamp_column" validate:"required"`
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"`
}

// Chart sets the dotted chart image size.
type Chart struct {
	Width   int     `yaml:"width" json:"width" validate:"gte=100,lte=10000"`
	Height  int     `yaml:"height" json:"height" validate:"gte=100,lte=10000"`
	DotSize float64 `yaml:"dot_size" json:"dot_size" validate:"gt=0,lte=50"`
}

// Store locates the log cache database.
type Store struct {
	Path string `yaml:"path" json:"path" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	csv := eventlog.DefaultCSVOptions()
	opts := chart.DefaultOptions()
	return Config{
		CSV: CSV{
			Delimiter:       string(csv.Delimiter),
			CaseColumn:      csv.CaseColumn,
			ActivityColumn:  csv.ActivityColumn,
			TimestampColumn: csv.TimestampColumn,
			TimestampFormat: csv.TimestampFormat,
		},
		Chart: Chart{
			Width:   opts.Width,
			Height:  opts.Height,
			DotSize: opts.DotWidth,
		},
		Store: Store{Path: "procmine.db"},
	}
}

// Decode reads YAML over the defaults. Unknown fields are rejected.
// An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads a config file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints and that the CSV settings are usable.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.CSVOptions(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CSVOptions converts the CSV section for eventlog.ReadCSV.
func (c Config) CSVOptions() (eventlog.CSVOptions, error) {
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return eventlog.CSVOptions{}, fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if _, err := eventlog.ParseLayout(c.CSV.TimestampFormat); err != nil {
		return eventlog.CSVOptions{}, fmt.Errorf("csv.timestamp_format: %w", err)
	}
	d, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return eventlog.CSVOptions{
		Delimiter:       d,
		CaseColumn:      c.CSV.CaseColumn,
		ActivityColumn:  c.CSV.ActivityColumn,
		TimestampColumn: c.CSV.TimestampColumn,
		TimestampFormat: c.CSV.TimestampFormat,
	}, nil
}

// ChartOptions converts the chart section.
func (c Config) ChartOptions() chart.Options {
	return chart.Options{
		Width:    c.Chart.Width,
		Height:   c.Chart.Height,
		DotWidth: c.Chart.DotSize,
	}
}
