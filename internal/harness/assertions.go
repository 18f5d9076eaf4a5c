package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/procmine/internal/alpha"
	"github.com/roach88/procmine/internal/footprint"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, traces [][]string, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRelation:
			err = assertRelation(result.Matrix, assertion)
		case AssertParallel:
			err = assertParallel(result.Matrix, assertion)
		case AssertActivities:
			err = assertActivities(result.Matrix, assertion)
		case AssertFitness:
			err = assertFitness(result, traces, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertRelation checks a single cell. Both activities must occur.
func assertRelation(m *footprint.Matrix, a Assertion) error {
	want, err := footprint.ParseRelation(a.Relation)
	if err != nil {
		return err
	}
	for _, act := range []string{a.From, a.To} {
		if !m.Has(act) {
			return &AssertionError{
				Type:     AssertRelation,
				Expected: fmt.Sprintf("activity %q in matrix", act),
				Actual:   fmt.Sprintf("activities %v", m.Activities()),
			}
		}
	}
	if got := m.Get(a.From, a.To); got != want {
		return &AssertionError{
			Type:     AssertRelation,
			Expected: fmt.Sprintf("%s %s %s", a.From, want, a.To),
			Actual:   fmt.Sprintf("%s %s %s", a.From, got, a.To),
		}
	}
	return nil
}

// assertParallel compares the unordered parallel pairs with the expected
// set. An empty list asserts that no activities are parallel.
func assertParallel(m *footprint.Matrix, a Assertion) error {
	want := make([]string, 0, len(a.Pairs))
	for _, p := range a.Pairs {
		want = append(want, pairKey(p[0], p[1]))
	}
	sort.Strings(want)
	want = compact(want)

	var got []string
	for _, p := range m.Pairs(footprint.Parallel) {
		if p.From < p.To {
			got = append(got, pairKey(p.From, p.To))
		}
	}
	sort.Strings(got)

	if strings.Join(want, ",") != strings.Join(got, ",") {
		return &AssertionError{
			Type:     AssertParallel,
			Expected: fmt.Sprintf("parallel pairs [%s]", strings.Join(want, ", ")),
			Actual:   fmt.Sprintf("parallel pairs [%s]", strings.Join(got, ", ")),
		}
	}
	return nil
}

// assertActivities compares the activity set, ignoring order.
func assertActivities(m *footprint.Matrix, a Assertion) error {
	want := append([]string(nil), a.Activities...)
	sort.Strings(want)
	want = compact(want)

	got := m.Activities()
	if strings.Join(want, "\x00") != strings.Join(got, "\x00") {
		return &AssertionError{
			Type:     AssertActivities,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

// assertFitness mines an Alpha net from the traces and replays them.
func assertFitness(result *Result, traces [][]string, a Assertion) error {
	mined, err := alpha.Discover("scenario", traces)
	if err != nil {
		return fmt.Errorf("fitness: %w", err)
	}
	replay := mined.Net.ReplayLog(mined.Initial, mined.Final, traces)
	fitness := replay.Fitness
	result.Fitness = &fitness

	if fitness < *a.Min {
		return &AssertionError{
			Type:     AssertFitness,
			Expected: fmt.Sprintf("fitness >= %.4f", *a.Min),
			Actual:   fmt.Sprintf("fitness %.4f (%d of %d traces fit)", fitness, replay.FittingTraces, len(traces)),
		}
	}
	return nil
}

// pairKey orders a pair so that (a, b) and (b, a) compare equal.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "||" + b
}

func compact(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
