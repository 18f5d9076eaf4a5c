package eventlog

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

// Standard XES attribute keys.
const (
	KeyCaseName  = "case:concept:name"
	KeyName      = "concept:name"
	KeyTimestamp = "time:timestamp"
)

const xesNamespace = "http://www.xes-standard.org/"

// xesLayout is the timestamp layout written to XES and CSV exports. It
// keeps sub-second digits up to nanoseconds.
const xesLayout = time.RFC3339Nano

type xesLog struct {
	XMLName    xml.Name       `xml:"log"`
	Version    string         `xml:"xes.version,attr,omitempty"`
	Features   string         `xml:"xes.features,attr,omitempty"`
	Extensions []xesExtension `xml:"extension"`
	Traces     []xesTrace     `xml:"trace"`
}

type xesExtension struct {
	Name   string `xml:"name,attr"`
	Prefix string `xml:"prefix,attr"`
	URI    string `xml:"uri,attr"`
}

type xesTrace struct {
	xesAttributes
	Events []xesEvent `xml:"event"`
}

type xesEvent struct {
	xesAttributes
}

// xesAttributes holds the typed attribute elements of a trace or event.
type xesAttributes struct {
	Strings  []xesAttr `xml:"string"`
	Dates    []xesAttr `xml:"date"`
	Ints     []xesAttr `xml:"int"`
	Floats   []xesAttr `xml:"float"`
	Booleans []xesAttr `xml:"boolean"`
	IDs      []xesAttr `xml:"id"`
}

type xesAttr struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// flatten returns every attribute as a string, keyed by attribute key.
func (a xesAttributes) flatten() map[string]string {
	out := make(map[string]string)
	for _, group := range [][]xesAttr{a.Strings, a.Dates, a.Ints, a.Floats, a.Booleans, a.IDs} {
		for _, attr := range group {
			out[attr.Key] = attr.Value
		}
	}
	return out
}

// ReadXES parses an XES document into a sorted Log.
//
// Traces without a concept:name are numbered by position. Events without a
// concept:name or a parseable time:timestamp are rejected.
func ReadXES(r io.Reader) (*Log, error) {
	var doc xesLog
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xes: %w", err)
	}

	log := New()
	for ti, trace := range doc.Traces {
		traceAttrs := trace.flatten()
		caseID := traceAttrs[KeyName]
		if caseID == "" {
			caseID = strconv.Itoa(ti + 1)
		}

		for ei, event := range trace.Events {
			attrs := event.flatten()
			activity := attrs[KeyName]
			if activity == "" {
				return nil, fmt.Errorf("trace %q event %d: missing %s", caseID, ei+1, KeyName)
			}
			raw, ok := attrs[KeyTimestamp]
			if !ok {
				return nil, fmt.Errorf("trace %q event %d: missing %s", caseID, ei+1, KeyTimestamp)
			}
			ts, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return nil, fmt.Errorf("trace %q event %d: %w", caseID, ei+1, err)
			}
			delete(attrs, KeyName)
			delete(attrs, KeyTimestamp)
			if len(attrs) == 0 {
				attrs = nil
			}

			log.Append(Event{
				CaseID:     caseID,
				Activity:   activity,
				Timestamp:  ts,
				Attributes: attrs,
			})
		}
	}

	log.Sort()
	return log, nil
}

// WriteXES encodes the log as an indented XES 1.0 document.
func WriteXES(w io.Writer, log *Log) error {
	doc := xesLog{
		XMLName:  xml.Name{Space: xesNamespace, Local: "log"},
		Version:  "1.0",
		Features: "nested-attributes",
		Extensions: []xesExtension{
			{Name: "Concept", Prefix: "concept", URI: xesNamespace + "concept.xesext"},
			{Name: "Time", Prefix: "time", URI: xesNamespace + "time.xesext"},
		},
	}

	for _, c := range log.Cases() {
		trace := xesTrace{}
		trace.Strings = []xesAttr{{Key: KeyName, Value: c.ID}}
		for _, ev := range c.Events {
			var xe xesEvent
			xe.Strings = append(xe.Strings, xesAttr{Key: KeyName, Value: ev.Activity})
			for _, k := range sortedKeys(ev.Attributes) {
				xe.Strings = append(xe.Strings, xesAttr{Key: k, Value: ev.Attributes[k]})
			}
			xe.Dates = []xesAttr{{Key: KeyTimestamp, Value: ev.Timestamp.Format(xesLayout)}}
			trace.Events = append(trace.Events, xe)
		}
		doc.Traces = append(doc.Traces, trace)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xes: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
