// Package fulfillment defines the order-fulfillment process: its Petri net,
// the activity duration and resource configuration, and a static capacity
// estimate per activity.
package fulfillment

import (
	_ "embed"
	"fmt"

	"github.com/roach88/procmine/internal/petri"
)

// NetName is the name of the order-fulfillment net.
const NetName = "order_fulfillment"

//go:embed model.cue
var modelCUE []byte

// Activities lists the process activities in execution order.
var Activities = []string{"Receive", "Validate", "Pick", "Pack", "Ship"}

// Model builds the order-fulfillment net with its initial marking
// (source=1) and final marking (sink=1).
func Model() (*petri.Model, error) {
	models, err := petri.CompileCUE(modelCUE, "fulfillment/model.cue")
	if err != nil {
		return nil, fmt.Errorf("compile fulfillment model: %w", err)
	}
	return petri.FindModel(models, NetName)
}

// HappyPath is the only trace the net accepts.
func HappyPath() []string {
	return append([]string(nil), Activities...)
}
