package fulfillment

import (
	"sort"
)

// ActivityCapacity is the static throughput of one activity.
type ActivityCapacity struct {
	Activity    string  `json:"activity"`
	MeanMinutes float64 `json:"mean_minutes"`
	Resources   int     `json:"resources"`
	// PerHour is resources / mean duration in orders per hour. Zero for
	// automatic activities.
	PerHour   float64 `json:"per_hour"`
	Automatic bool    `json:"automatic"`
}

// Report lists capacities in process order and names the bottleneck.
type Report struct {
	Activities []ActivityCapacity `json:"activities"`
	Bottleneck string             `json:"bottleneck,omitempty"`
	// Throughput is the bottleneck capacity in orders per hour.
	Throughput float64 `json:"throughput"`
}

// Capacity computes how many orders per hour each activity can serve if
// its pool is always busy. The activity with the lowest capacity is the
// bottleneck. This is arithmetic on means only; queueing is not modelled.
func Capacity(p Params) Report {
	var r Report
	for _, a := range activityOrder(p) {
		d := p.Durations[a]
		c := ActivityCapacity{Activity: a, MeanMinutes: d.Mean}
		n, pooled := p.Resources[a]
		if !pooled || d.Mean <= 0 {
			c.Automatic = true
			r.Activities = append(r.Activities, c)
			continue
		}
		c.Resources = n
		c.PerHour = float64(n) / d.Mean * 60
		if r.Bottleneck == "" || c.PerHour < r.Throughput {
			r.Bottleneck = a
			r.Throughput = c.PerHour
		}
		r.Activities = append(r.Activities, c)
	}
	return r
}

// activityOrder puts known activities in process order, then any others
// sorted by name.
func activityOrder(p Params) []string {
	known := make(map[string]bool, len(Activities))
	var order []string
	for _, a := range Activities {
		known[a] = true
		if _, ok := p.Durations[a]; ok {
			order = append(order, a)
		}
	}
	var extra []string
	for a := range p.Durations {
		if !known[a] {
			extra = append(extra, a)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
