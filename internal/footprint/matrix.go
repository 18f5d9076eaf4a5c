package footprint

import (
	"encoding/json"
	"sort"

	"github.com/roach88/procmine/internal/eventlog"
)

// Pair is an ordered activity pair.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Matrix is a square footprint matrix over the sorted distinct activities
// of a set of traces. A Matrix is immutable once built.
type Matrix struct {
	activities []string
	index      map[string]int
	cells      [][]Relation
	follows    map[Pair]int
}

// DirectlyFollows counts how often each activity is immediately followed by
// another across all traces.
func DirectlyFollows(traces [][]string) map[Pair]int {
	df := make(map[Pair]int)
	for _, trace := range traces {
		for i := 0; i+1 < len(trace); i++ {
			df[Pair{From: trace[i], To: trace[i+1]}]++
		}
	}
	return df
}

// Build derives the footprint matrix of the given traces.
//
// The directly-follows relation of all traces is collected first; each cell
// is then derived from it, so the result is independent of trace order.
func Build(traces [][]string) *Matrix {
	seen := make(map[string]struct{})
	for _, trace := range traces {
		for _, activity := range trace {
			seen[activity] = struct{}{}
		}
	}
	activities := make([]string, 0, len(seen))
	for a := range seen {
		activities = append(activities, a)
	}
	sort.Strings(activities)

	m := &Matrix{
		activities: activities,
		index:      make(map[string]int, len(activities)),
		cells:      make([][]Relation, len(activities)),
		follows:    DirectlyFollows(traces),
	}
	for i, a := range activities {
		m.index[a] = i
		m.cells[i] = make([]Relation, len(activities))
	}

	for i, a := range activities {
		for j := i + 1; j < len(activities); j++ {
			b := activities[j]
			ab := m.follows[Pair{From: a, To: b}] > 0
			ba := m.follows[Pair{From: b, To: a}] > 0

			var rel Relation
			switch {
			case ab && ba:
				rel = Parallel
			case ab:
				rel = Follows
			case ba:
				rel = Precedes
			default:
				rel = Never
			}
			m.cells[i][j] = rel
			m.cells[j][i] = rel.Inverse()
		}
	}

	return m
}

// FromLog builds the footprint matrix of an event log.
func FromLog(log *eventlog.Log) *Matrix {
	return Build(log.Traces())
}

// Activities returns the row/column labels in order.
func (m *Matrix) Activities() []string {
	return append([]string(nil), m.activities...)
}

// Size returns the number of activities.
func (m *Matrix) Size() int {
	return len(m.activities)
}

// Has reports whether the activity occurs in the matrix.
func (m *Matrix) Has(activity string) bool {
	_, ok := m.index[activity]
	return ok
}

// Get returns the relation between a and b.
// Unknown activities are reported as Never.
func (m *Matrix) Get(a, b string) Relation {
	i, ok := m.index[a]
	if !ok {
		return Never
	}
	j, ok := m.index[b]
	if !ok {
		return Never
	}
	return m.cells[i][j]
}

// Count returns how often a was directly followed by b.
func (m *Matrix) Count(a, b string) int {
	return m.follows[Pair{From: a, To: b}]
}

// Pairs returns the ordered pairs holding the given relation, in row-major
// order. For Parallel and Never both (a, b) and (b, a) are listed.
func (m *Matrix) Pairs(rel Relation) []Pair {
	var pairs []Pair
	for i, a := range m.activities {
		for j, b := range m.activities {
			if m.cells[i][j] == rel {
				pairs = append(pairs, Pair{From: a, To: b})
			}
		}
	}
	return pairs
}

// Rows returns a copy of the relation table in row-major order.
func (m *Matrix) Rows() [][]Relation {
	rows := make([][]Relation, len(m.cells))
	for i, row := range m.cells {
		rows[i] = append([]Relation(nil), row...)
	}
	return rows
}

// MarshalJSON encodes the matrix as {"activities": [...], "relations": {a: {b: "→"}}}.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	relations := make(map[string]map[string]string, len(m.activities))
	for i, a := range m.activities {
		row := make(map[string]string, len(m.activities))
		for j, b := range m.activities {
			row[b] = m.cells[i][j].String()
		}
		relations[a] = row
	}
	return json.Marshal(struct {
		Activities []string                     `json:"activities"`
		Relations  map[string]map[string]string `json:"relations"`
	}{
		Activities: m.activities,
		Relations:  relations,
	})
}
