package analysis

import (
	"time"

	"github.com/roach88/procmine/internal/eventlog"
)

// Summary bundles the statistics printed by the analyze command.
type Summary struct {
	Cases           int             `json:"cases"`
	Events          int             `json:"events"`
	Activities      []string        `json:"activities"`
	StartActivities map[string]int  `json:"start_activities"`
	EndActivities   map[string]int  `json:"end_activities"`
	CaseDurations   []time.Duration `json:"case_durations"`
	Rework          map[string]int  `json:"rework"`
	MeanDuration    time.Duration   `json:"mean_duration"`
	MedianDuration  time.Duration   `json:"median_duration"`
}

// Summarize computes a Summary for the log.
func Summarize(log *eventlog.Log) Summary {
	durations := CaseDurations(log)
	s := Summary{
		Cases:           log.Len(),
		Events:          log.EventCount(),
		Activities:      log.Activities(),
		StartActivities: StartActivities(log),
		EndActivities:   EndActivities(log),
		CaseDurations:   durations,
		Rework:          ReworkCasesPerActivity(log),
	}

	if n := len(durations); n > 0 {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		s.MeanDuration = total / time.Duration(n)
		if n%2 == 1 {
			s.MedianDuration = durations[n/2]
		} else {
			s.MedianDuration = (durations[n/2-1] + durations[n/2]) / 2
		}
	}
	return s
}
