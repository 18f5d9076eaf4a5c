package harness

import "github.com/roach88/procmine/internal/footprint"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if all assertions hold.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Activities are the matrix activities in order.
	Activities []string `json:"activities"`

	// Matrix is the footprint built from the scenario traces.
	Matrix *footprint.Matrix `json:"matrix"`

	// Fitness is set when a fitness assertion was evaluated.
	Fitness *float64 `json:"fitness,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Errors:     []string{},
		Activities: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
