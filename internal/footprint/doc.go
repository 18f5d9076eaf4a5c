// Package footprint derives the footprint matrix of an event log, the
// pairwise activity relation table used by the Alpha Miner.
//
// For every ordered pair of activities (a, b) the matrix holds one of four
// relations:
//
//	→  a is directly followed by b somewhere, b never directly by a
//	←  the mirror of →
//	‖  a and b directly follow each other in both orders (parallel)
//	#  neither directly follows the other
//
// # Invariants
//
//   - The diagonal is always #, even when an activity repeats directly.
//   - m[a][b] = → exactly when m[b][a] = ←.
//   - m[a][b] = ‖ exactly when m[b][a] = ‖.
//   - The result does not depend on trace order: the directly-follows set
//     of all traces is collected before any cell is derived.
//
// # Usage
//
//	m := footprint.Build([][]string{
//	    {"A", "C", "F", "B"},
//	    {"A", "E", "G", "C", "F", "D", "B"},
//	})
//	m.Get("C", "F") // Follows
//	fmt.Print(m)
package footprint
