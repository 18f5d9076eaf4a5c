package footprint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRelation is returned by ParseRelation for unrecognised symbols.
var ErrUnknownRelation = errors.New("unknown relation")

// Relation is the footprint relation between an ordered activity pair.
type Relation uint8

const (
	// Never means neither activity directly follows the other.
	Never Relation = iota
	// Follows means a is directly followed by b, never the reverse.
	Follows
	// Precedes is the mirror of Follows: b is directly followed by a.
	Precedes
	// Parallel means both directly-follows orders were observed.
	Parallel
)

// String returns the Unicode symbol of the relation.
func (r Relation) String() string {
	switch r {
	case Follows:
		return "→"
	case Precedes:
		return "←"
	case Parallel:
		return "‖"
	default:
		return "#"
	}
}

// ASCII returns the plain-ASCII spelling of the relation.
func (r Relation) ASCII() string {
	switch r {
	case Follows:
		return "->"
	case Precedes:
		return "<-"
	case Parallel:
		return "||"
	default:
		return "#"
	}
}

// Inverse returns the relation seen from the other activity of the pair.
func (r Relation) Inverse() Relation {
	switch r {
	case Follows:
		return Precedes
	case Precedes:
		return Follows
	default:
		return r
	}
}

// ParseRelation accepts Unicode symbols, ASCII spellings and names.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "#", "never", "choice", "unrelated":
		return Never, nil
	case "→", "->", "follows", "causal":
		return Follows, nil
	case "←", "<-", "precedes":
		return Precedes, nil
	case "‖", "||", "parallel":
		return Parallel, nil
	default:
		return Never, fmt.Errorf("%w: %q", ErrUnknownRelation, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	parsed, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
