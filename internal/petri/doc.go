// Package petri provides place/transition nets with weighted arcs,
// markings, the firing rule and token-based replay of traces.
//
// Nets can be built in code:
//
//	n := petri.NewNet("order")
//	_, _ = n.AddPlace("source")
//	_, _ = n.AddTransition("Receive", "Receive")
//	_ = n.AddArc("source", "Receive", 1)
//
// or declared in CUE model files, validated against the embedded #Net
// schema:
//
//	net: order: {
//	    places: ["source", "sink"]
//	    transitions: Receive: {}
//	    arcs: [{from: "source", to: "Receive"}, {from: "Receive", to: "sink"}]
//	    initial: source: 1
//	    final: sink: 1
//	}
//
// Transitions carry a label, the activity they represent. A transition with
// an empty label is silent: it can fire but never matches a trace event.
package petri
