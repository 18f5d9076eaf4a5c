package petri

import (
	"fmt"
	"sort"
	"strings"
)

// Marking maps place names to token counts. Places with zero tokens may be
// absent; Marking methods treat absence and zero alike.
type Marking map[string]int

// Clone returns an independent copy without zero entries.
func (m Marking) Clone() Marking {
	out := make(Marking, len(m))
	for p, n := range m {
		if n != 0 {
			out[p] = n
		}
	}
	return out
}

// Equal reports whether both markings hold the same tokens.
func (m Marking) Equal(other Marking) bool {
	for p, n := range m {
		if other[p] != n {
			return false
		}
	}
	for p, n := range other {
		if m[p] != n {
			return false
		}
	}
	return true
}

// Total returns the number of tokens in the marking.
func (m Marking) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// String renders the marking as "[p1:1 p2:2]" with places sorted.
func (m Marking) String() string {
	places := make([]string, 0, len(m))
	for p, n := range m {
		if n != 0 {
			places = append(places, p)
		}
	}
	sort.Strings(places)

	parts := make([]string, len(places))
	for i, p := range places {
		parts[i] = fmt.Sprintf("%s:%d", p, m[p])
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Enabled reports whether a transition can fire in marking m.
func (n *Net) Enabled(m Marking, transition string) bool {
	if _, ok := n.transitions[transition]; !ok {
		return false
	}
	for _, a := range n.Preset(transition) {
		if m[a.From] < a.Weight {
			return false
		}
	}
	return true
}

// EnabledTransitions returns the names of all enabled transitions in net
// order.
func (n *Net) EnabledTransitions(m Marking) []string {
	var out []string
	for _, t := range n.Transitions {
		if n.Enabled(m, t.Name) {
			out = append(out, t.Name)
		}
	}
	return out
}

// Fire consumes the preset tokens of a transition and produces its postset
// tokens. The input marking is left unchanged.
func (n *Net) Fire(m Marking, transition string) (Marking, error) {
	if _, ok := n.transitions[transition]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, transition)
	}
	if !n.Enabled(m, transition) {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotEnabled, transition, m)
	}

	next := m.Clone()
	for _, a := range n.Preset(transition) {
		next[a.From] -= a.Weight
		if next[a.From] == 0 {
			delete(next, a.From)
		}
	}
	for _, a := range n.Postset(transition) {
		next[a.To] += a.Weight
	}
	return next, nil
}
