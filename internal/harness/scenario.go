package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/procmine/internal/eventlog"
	"github.com/roach88/procmine/internal/footprint"
)

// Scenario is one footprint test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Traces are inline activity sequences.
	Traces [][]string `yaml:"traces,omitempty"`

	// Log is a CSV or XES log path. LoadScenario resolves it relative to
	// the scenario file.
	Log string `yaml:"log,omitempty"`

	// Assertions are checked against the built matrix.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the matrix.
type Assertion struct {
	// Type is relation, parallel, activities or fitness.
	Type string `yaml:"type"`

	// From, To and Relation are used by relation.
	From     string `yaml:"from,omitempty"`
	To       string `yaml:"to,omitempty"`
	Relation string `yaml:"relation,omitempty"`

	// Pairs are the expected parallel pairs, each [a, b] (parallel).
	Pairs [][]string `yaml:"pairs,omitempty"`

	// Activities is the expected activity set (activities).
	Activities []string `yaml:"activities,omitempty"`

	// Min is the minimum replay fitness (fitness).
	Min *float64 `yaml:"min,omitempty"`
}

// Assertion type constants.
const (
	AssertRelation   = "relation"
	AssertParallel   = "parallel"
	AssertActivities = "activities"
	AssertFitness    = "fitness"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Log != "" && !filepath.IsAbs(scenario.Log) {
		scenario.Log = filepath.Join(filepath.Dir(path), scenario.Log)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, in lexical order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// LoadTraces returns the scenario traces, reading the log file if set.
func (s *Scenario) LoadTraces() ([][]string, error) {
	if s.Log == "" {
		return s.Traces, nil
	}
	log, err := eventlog.ReadFile(s.Log, eventlog.DefaultCSVOptions())
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	return log.Traces(), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case len(s.Traces) == 0 && s.Log == "":
		return fmt.Errorf("one of traces or log is required")
	case len(s.Traces) > 0 && s.Log != "":
		return fmt.Errorf("traces and log are mutually exclusive")
	}

	if s.Log != "" {
		if _, err := os.Stat(s.Log); os.IsNotExist(err) {
			return fmt.Errorf("log file not found: %s", s.Log)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRelation:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("assertions[%d]: from and to are required for relation", index)
		}
		if _, err := footprint.ParseRelation(a.Relation); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertParallel:
		for j, p := range a.Pairs {
			if len(p) != 2 {
				return fmt.Errorf("assertions[%d]: pairs[%d] must have two activities", index, j)
			}
		}
	case AssertActivities:
		if len(a.Activities) == 0 {
			return fmt.Errorf("assertions[%d]: activities list is required for activities", index)
		}
	case AssertFitness:
		if a.Min == nil {
			return fmt.Errorf("assertions[%d]: min is required for fitness", index)
		}
		if *a.Min < 0 || *a.Min > 1 {
			return fmt.Errorf("assertions[%d]: min must be within [0, 1]", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
