package petri

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for net construction and firing.
var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrUnknownNode   = errors.New("unknown node")
	ErrInvalidName   = errors.New("invalid node name")
	ErrInvalidArc    = errors.New("invalid arc")
	ErrNotEnabled    = errors.New("transition not enabled")
)

// Place is a condition that holds tokens.
type Place struct {
	Name string `json:"name"`
}

// Transition is an event of the net. Label is the activity it represents;
// an empty label marks a silent transition.
type Transition struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// Silent reports whether the transition is invisible in traces.
func (t *Transition) Silent() bool {
	return t.Label == ""
}

// Arc connects a place and a transition, in either direction.
type Arc struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// Net is a place/transition net. Nodes keep insertion order.
type Net struct {
	Name        string        `json:"name"`
	Places      []*Place      `json:"places"`
	Transitions []*Transition `json:"transitions"`
	Arcs        []*Arc        `json:"arcs"`

	places      map[string]*Place
	transitions map[string]*Transition
	arcs        map[[2]string]*Arc
}

// NewNet creates an empty net.
func NewNet(name string) *Net {
	return &Net{
		Name:        name,
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
		arcs:        make(map[[2]string]*Arc),
	}
}

// AddPlace adds a place. Place and transition names share one namespace.
func (n *Net) AddPlace(name string) (*Place, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty place name", ErrInvalidName)
	}
	if n.hasNode(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	p := &Place{Name: name}
	n.places[name] = p
	n.Places = append(n.Places, p)
	return p, nil
}

// AddTransition adds a transition with the given label.
func (n *Net) AddTransition(name, label string) (*Transition, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty transition name", ErrInvalidName)
	}
	if n.hasNode(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	t := &Transition{Name: name, Label: label}
	n.transitions[name] = t
	n.Transitions = append(n.Transitions, t)
	return t, nil
}

// AddArc connects two existing nodes. One end must be a place and the other
// a transition. Adding an arc that already exists increases its weight.
func (n *Net) AddArc(from, to string, weight int) error {
	if weight < 1 {
		return fmt.Errorf("%w: %s -> %s: weight %d < 1", ErrInvalidArc, from, to, weight)
	}
	if !n.hasNode(from) {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	if !n.hasNode(to) {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	_, fromPlace := n.places[from]
	_, toPlace := n.places[to]
	if fromPlace == toPlace {
		return fmt.Errorf("%w: %s -> %s must connect a place and a transition", ErrInvalidArc, from, to)
	}

	key := [2]string{from, to}
	if a, ok := n.arcs[key]; ok {
		a.Weight += weight
		return nil
	}
	a := &Arc{From: from, To: to, Weight: weight}
	n.arcs[key] = a
	n.Arcs = append(n.Arcs, a)
	return nil
}

// Place returns the named place.
func (n *Net) Place(name string) (*Place, bool) {
	p, ok := n.places[name]
	return p, ok
}

// Transition returns the named transition.
func (n *Net) Transition(name string) (*Transition, bool) {
	t, ok := n.transitions[name]
	return t, ok
}

// TransitionsByLabel returns the transitions carrying the given label.
func (n *Net) TransitionsByLabel(label string) []*Transition {
	var out []*Transition
	for _, t := range n.Transitions {
		if t.Label == label && label != "" {
			out = append(out, t)
		}
	}
	return out
}

// Preset returns the arcs entering a node.
func (n *Net) Preset(node string) []*Arc {
	var out []*Arc
	for _, a := range n.Arcs {
		if a.To == node {
			out = append(out, a)
		}
	}
	return out
}

// Postset returns the arcs leaving a node.
func (n *Net) Postset(node string) []*Arc {
	var out []*Arc
	for _, a := range n.Arcs {
		if a.From == node {
			out = append(out, a)
		}
	}
	return out
}

// Labels returns the distinct visible labels, sorted.
func (n *Net) Labels() []string {
	seen := make(map[string]struct{})
	for _, t := range n.Transitions {
		if !t.Silent() {
			seen[t.Label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (n *Net) hasNode(name string) bool {
	_, p := n.places[name]
	_, t := n.transitions[name]
	return p || t
}
