// Package harness runs footprint scenarios as executable tests.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	traces:                  # inline traces, or
//	  - [a, b, c, d]
//	  - [a, c, b, d]
//	log: logs/example.csv    # a CSV or XES log, relative to the scenario file
//	assertions:
//	  - type: relation
//	    from: a
//	    to: b
//	    relation: "->"
//	  - type: parallel
//	    pairs: [[b, c]]
//	  - type: activities
//	    activities: [a, b, c, d]
//	  - type: fitness
//	    min: 1.0
//
// Exactly one of traces and log must be given.
//
// # Assertion Types
//
//   - relation: the cell (from, to) holds the given relation (→ or ->, etc.)
//   - parallel: the unordered parallel pairs are exactly the listed ones
//   - activities: the matrix is built over exactly these activities
//   - fitness: the Alpha net mined from the traces replays them with at
//     least the given fitness
//
// # Golden Files
//
// RunWithGolden compares the rendered matrix with
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
