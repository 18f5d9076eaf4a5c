package harness

import (
	"fmt"

	"github.com/roach88/procmine/internal/footprint"
)

// Run builds the footprint matrix of a scenario and evaluates its
// assertions. Assertion failures are reported in the result; the error is
// reserved for scenarios that cannot be run at all.
func Run(scenario *Scenario) (*Result, error) {
	traces, err := scenario.LoadTraces()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Matrix = footprint.Build(traces)
	result.Activities = result.Matrix.Activities()

	for _, msg := range EvaluateAssertions(result, traces, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
