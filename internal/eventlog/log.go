package eventlog

import (
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Event is a single activity occurrence within a case.
type Event struct {
	CaseID     string            `json:"case_id"`
	Activity   string            `json:"activity"`
	Timestamp  time.Time         `json:"timestamp"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Case is one process instance.
type Case struct {
	ID     string  `json:"id"`
	Events []Event `json:"events"`
}

// Trace returns the activity sequence of the case.
func (c *Case) Trace() []string {
	trace := make([]string, len(c.Events))
	for i, ev := range c.Events {
		trace[i] = ev.Activity
	}
	return trace
}

// Start returns the timestamp of the first event.
// Returns the zero time for an empty case.
func (c *Case) Start() time.Time {
	if len(c.Events) == 0 {
		return time.Time{}
	}
	return c.Events[0].Timestamp
}

// End returns the timestamp of the last event.
func (c *Case) End() time.Time {
	if len(c.Events) == 0 {
		return time.Time{}
	}
	return c.Events[len(c.Events)-1].Timestamp
}

// Duration returns the time between the first and last event of the case.
func (c *Case) Duration() time.Duration {
	return c.End().Sub(c.Start())
}

// Log is an event log: cases in first-appearance order.
//
// Log is not safe for concurrent mutation.
type Log struct {
	cases []*Case
	index map[string]*Case
}

// New creates an empty log.
func New() *Log {
	return &Log{index: make(map[string]*Case)}
}

// Append adds an event to its case, creating the case on first use.
// Case ID and activity are NFC-normalised.
func (l *Log) Append(ev Event) {
	ev.CaseID = norm.NFC.String(ev.CaseID)
	ev.Activity = norm.NFC.String(ev.Activity)

	c, ok := l.index[ev.CaseID]
	if !ok {
		c = &Case{ID: ev.CaseID}
		l.index[ev.CaseID] = c
		l.cases = append(l.cases, c)
	}
	c.Events = append(c.Events, ev)
}

// Sort orders the events of every case by timestamp.
// The sort is stable: events with equal timestamps keep input order.
func (l *Log) Sort() {
	for _, c := range l.cases {
		sort.SliceStable(c.Events, func(i, j int) bool {
			return c.Events[i].Timestamp.Before(c.Events[j].Timestamp)
		})
	}
}

// Case returns the case with the given ID.
func (l *Log) Case(id string) (*Case, bool) {
	c, ok := l.index[norm.NFC.String(id)]
	return c, ok
}

// Cases returns the cases in first-appearance order.
// The returned slice must not be modified.
func (l *Log) Cases() []*Case {
	return l.cases
}

// Len returns the number of cases.
func (l *Log) Len() int {
	return len(l.cases)
}

// EventCount returns the total number of events across all cases.
func (l *Log) EventCount() int {
	n := 0
	for _, c := range l.cases {
		n += len(c.Events)
	}
	return n
}

// Traces returns the activity sequence of every case, in case order.
func (l *Log) Traces() [][]string {
	traces := make([][]string, len(l.cases))
	for i, c := range l.cases {
		traces[i] = c.Trace()
	}
	return traces
}

// Activities returns the distinct activity names, sorted.
func (l *Log) Activities() []string {
	seen := make(map[string]struct{})
	for _, c := range l.cases {
		for _, ev := range c.Events {
			seen[ev.Activity] = struct{}{}
		}
	}
	activities := make([]string, 0, len(seen))
	for a := range seen {
		activities = append(activities, a)
	}
	sort.Strings(activities)
	return activities
}

// traceEpoch anchors the synthetic timestamps produced by FromTraces.
var traceEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// FromTraces builds a log from bare activity sequences.
//
// Case IDs are "1".."n". Events within a case are one minute apart, starting
// at a fixed epoch, so durations and charts stay deterministic.
func FromTraces(traces [][]string) *Log {
	l := New()
	for i, trace := range traces {
		id := strconv.Itoa(i + 1)
		for j, activity := range trace {
			l.Append(Event{
				CaseID:    id,
				Activity:  activity,
				Timestamp: traceEpoch.Add(time.Duration(j) * time.Minute),
			})
		}
	}
	return l
}
