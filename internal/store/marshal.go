package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/procmine/internal/digest"
)

// timeLayout is used for every timestamp column. Fixed-width fractional
// seconds keep TEXT ordering equal to time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// marshalAttributes converts event attributes to canonical JSON TEXT.
func marshalAttributes(attrs map[string]string) (string, error) {
	obj := make(digest.Object, len(attrs))
	for k, v := range attrs {
		obj[k] = digest.String(v)
	}
	data, err := digest.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal attributes: %w", err)
	}
	return string(data), nil
}

// unmarshalAttributes parses attributes TEXT. An empty object yields nil.
func unmarshalAttributes(data string) (map[string]string, error) {
	var attrs map[string]string
	if err := json.Unmarshal([]byte(data), &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}
