package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/roach88/procmine/internal/eventlog"
)

// Domain prefixes. The version suffix allows the encoding to change later
// without colliding with existing IDs.
const (
	DomainLog = "procmine/log/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the domain-separated hash of v's canonical form.
func Hash(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("%s: marshal: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// LogValue converts a log to its canonical value. Cases are ordered by ID;
// events keep their order within the case. Timestamps are RFC 3339 strings
// in UTC with nanoseconds.
func LogValue(log *eventlog.Log) Object {
	cases := append([]*eventlog.Case(nil), log.Cases()...)
	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })

	arr := make(Array, len(cases))
	for i, c := range cases {
		events := make(Array, len(c.Events))
		for j, ev := range c.Events {
			attrs := make(Object, len(ev.Attributes))
			for k, v := range ev.Attributes {
				attrs[k] = String(v)
			}
			events[j] = Object{
				"activity":   String(ev.Activity),
				"timestamp":  String(ev.Timestamp.UTC().Format(time.RFC3339Nano)),
				"attributes": attrs,
			}
		}
		arr[i] = Object{
			"id":     String(c.ID),
			"events": events,
		}
	}
	return Object{"cases": arr}
}

// LogID returns the content-addressed ID of a log.
func LogID(log *eventlog.Log) string {
	// LogValue only builds strings, arrays and objects, which always marshal.
	id, err := Hash(DomainLog, LogValue(log))
	if err != nil {
		panic(err)
	}
	return id
}
