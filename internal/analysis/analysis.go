// Package analysis computes the descriptive statistics printed for an
// event log: start and end activities, case durations, rework and the
// per-event offsets used by dotted charts.
package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/roach88/procmine/internal/eventlog"
)

// ErrCaseNotFound is returned when a case ID is not present in the log.
var ErrCaseNotFound = errors.New("case not found")

// StartActivities counts how many cases begin with each activity.
func StartActivities(log *eventlog.Log) map[string]int {
	counts := make(map[string]int)
	for _, c := range log.Cases() {
		if len(c.Events) > 0 {
			counts[c.Events[0].Activity]++
		}
	}
	return counts
}

// EndActivities counts how many cases end with each activity.
func EndActivities(log *eventlog.Log) map[string]int {
	counts := make(map[string]int)
	for _, c := range log.Cases() {
		if n := len(c.Events); n > 0 {
			counts[c.Events[n-1].Activity]++
		}
	}
	return counts
}

// CaseDurations returns the duration of every case, ascending.
func CaseDurations(log *eventlog.Log) []time.Duration {
	durations := make([]time.Duration, 0, log.Len())
	for _, c := range log.Cases() {
		durations = append(durations, c.Duration())
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	return durations
}

// CaseDuration returns the duration of a single case.
func CaseDuration(log *eventlog.Log, caseID string) (time.Duration, error) {
	c, ok := log.Case(caseID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrCaseNotFound, caseID)
	}
	return c.Duration(), nil
}

// ReworkCasesPerActivity counts, for each activity, the cases in which it
// occurs more than once. Activities without rework are omitted.
func ReworkCasesPerActivity(log *eventlog.Log) map[string]int {
	rework := make(map[string]int)
	for _, c := range log.Cases() {
		seen := make(map[string]int)
		for _, ev := range c.Events {
			seen[ev.Activity]++
		}
		for activity, n := range seen {
			if n > 1 {
				rework[activity]++
			}
		}
	}
	return rework
}

// Offset is one event together with its distance from the case start.
type Offset struct {
	CaseID    string        `json:"case_id"`
	Activity  string        `json:"activity"`
	Timestamp time.Time     `json:"timestamp"`
	FromStart time.Duration `json:"from_start"`
}

// TimeFromStart returns every event with its offset from the first event of
// its case, sorted by case ID and then timestamp.
func TimeFromStart(log *eventlog.Log) []Offset {
	cases := append([]*eventlog.Case(nil), log.Cases()...)
	sort.SliceStable(cases, func(i, j int) bool {
		return CompareCaseIDs(cases[i].ID, cases[j].ID) < 0
	})

	offsets := make([]Offset, 0, log.EventCount())
	for _, c := range cases {
		start := c.Start()
		for _, ev := range c.Events {
			offsets = append(offsets, Offset{
				CaseID:    c.ID,
				Activity:  ev.Activity,
				Timestamp: ev.Timestamp,
				FromStart: ev.Timestamp.Sub(start),
			})
		}
	}
	return offsets
}

// CompareCaseIDs orders case IDs numerically when both are integers and
// lexically otherwise. Integers sort before non-integers.
func CompareCaseIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
