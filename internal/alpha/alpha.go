// Package alpha discovers a Petri net from a footprint matrix with the
// Alpha algorithm.
package alpha

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/procmine/internal/footprint"
	"github.com/roach88/procmine/internal/petri"
)

// ErrNoTraces is returned when there is nothing to mine.
var ErrNoTraces = errors.New("no non-empty traces")

// Source and sink place names. Discover appends a numeric suffix when an
// activity already uses the name.
const (
	SourcePlace = "start"
	SinkPlace   = "end"
)

// Pair is a place candidate: every activity in From causally precedes
// every activity in To, and neither set contains related activities.
type Pair struct {
	From []string `json:"from"`
	To   []string `json:"to"`
}

// Name returns the place name for the pair, e.g. "({a},{b,c})".
func (p Pair) Name() string {
	return "({" + strings.Join(p.From, ",") + "},{" + strings.Join(p.To, ",") + "})"
}

func (p Pair) contains(q Pair) bool {
	return subset(q.From, p.From) && subset(q.To, p.To)
}

// Result is a discovered net with the intermediate sets of the algorithm.
type Result struct {
	petri.Model
	Footprint       *footprint.Matrix `json:"-"`
	StartActivities []string          `json:"start_activities"`
	EndActivities   []string          `json:"end_activities"`
	Pairs           []Pair            `json:"pairs"`
	// Source and Sink are the names of the initially and finally marked
	// places.
	Source string `json:"source"`
	Sink   string `json:"sink"`
}

// Discover runs the Alpha algorithm over traces. The net has one visible
// transition per activity, one place per maximal pair, and a source and
// sink place marked initially and finally.
func Discover(name string, traces [][]string) (*Result, error) {
	starts := make(map[string]struct{})
	ends := make(map[string]struct{})
	for _, tr := range traces {
		if len(tr) == 0 {
			continue
		}
		starts[tr[0]] = struct{}{}
		ends[tr[len(tr)-1]] = struct{}{}
	}
	if len(starts) == 0 {
		return nil, ErrNoTraces
	}

	fp := footprint.Build(traces)
	pairs := maximalPairs(fp)

	res := &Result{
		Footprint:       fp,
		StartActivities: keys(starts),
		EndActivities:   keys(ends),
		Pairs:           pairs,
	}

	res.Source = placeName(fp, SourcePlace)
	res.Sink = placeName(fp, SinkPlace)
	pairPlaces := make([]string, len(pairs))
	for i, p := range pairs {
		pairPlaces[i] = placeName(fp, p.Name())
	}

	net := petri.NewNet(name)
	if _, err := net.AddPlace(res.Source); err != nil {
		return nil, err
	}
	for _, place := range pairPlaces {
		if _, err := net.AddPlace(place); err != nil {
			return nil, err
		}
	}
	if _, err := net.AddPlace(res.Sink); err != nil {
		return nil, err
	}
	for _, a := range fp.Activities() {
		if _, err := net.AddTransition(a, a); err != nil {
			return nil, err
		}
	}

	for _, a := range res.StartActivities {
		if err := net.AddArc(res.Source, a, 1); err != nil {
			return nil, err
		}
	}
	for i, p := range pairs {
		for _, a := range p.From {
			if err := net.AddArc(a, pairPlaces[i], 1); err != nil {
				return nil, err
			}
		}
		for _, b := range p.To {
			if err := net.AddArc(pairPlaces[i], b, 1); err != nil {
				return nil, err
			}
		}
	}
	for _, a := range res.EndActivities {
		if err := net.AddArc(a, res.Sink, 1); err != nil {
			return nil, err
		}
	}

	res.Net = net
	res.Initial = petri.Marking{res.Source: 1}
	res.Final = petri.Marking{res.Sink: 1}
	return res, nil
}

// placeName returns base, or base with the first numeric suffix that no
// activity uses. Places and transitions share one namespace.
func placeName(fp *footprint.Matrix, base string) string {
	name := base
	for i := 2; fp.Has(name); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	return name
}

// maximalPairs grows the single causal pairs by union while the result
// stays valid, then keeps the pairs not contained in another.
func maximalPairs(fp *footprint.Matrix) []Pair {
	var all []Pair
	seen := make(map[string]bool)
	for _, p := range fp.Pairs(footprint.Follows) {
		pair := Pair{From: []string{p.From}, To: []string{p.To}}
		if valid(fp, pair) && !seen[pair.Name()] {
			seen[pair.Name()] = true
			all = append(all, pair)
		}
	}

	for i := 0; i < len(all); i++ {
		for j := 0; j < i; j++ {
			u := Pair{From: union(all[i].From, all[j].From), To: union(all[i].To, all[j].To)}
			if seen[u.Name()] || !valid(fp, u) {
				continue
			}
			seen[u.Name()] = true
			all = append(all, u)
		}
	}

	var maximal []Pair
	for i, p := range all {
		dominated := false
		for j, q := range all {
			if i != j && q.contains(p) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, p)
		}
	}
	sort.Slice(maximal, func(i, j int) bool { return maximal[i].Name() < maximal[j].Name() })
	return maximal
}

func valid(fp *footprint.Matrix, p Pair) bool {
	for _, a := range p.From {
		for _, b := range p.To {
			if fp.Get(a, b) != footprint.Follows {
				return false
			}
		}
	}
	return unrelated(fp, p.From) && unrelated(fp, p.To)
}

func unrelated(fp *footprint.Matrix, set []string) bool {
	for _, a := range set {
		for _, b := range set {
			if fp.Get(a, b) != footprint.Never {
				return false
			}
		}
	}
	return true
}

// union merges two sorted sets.
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func subset(small, big []string) bool {
	set := make(map[string]struct{}, len(big))
	for _, s := range big {
		set[s] = struct{}{}
	}
	for _, s := range small {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
