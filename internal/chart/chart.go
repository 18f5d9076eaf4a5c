// Package chart renders dotted charts of event logs as PNG images.
//
// A dotted chart places one dot per event. The x axis is the time elapsed
// since the start of the event's case; the y axis is either the case or
// the activity.
package chart

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roach88/procmine/internal/analysis"
	"github.com/roach88/procmine/internal/eventlog"
)

// ErrNoData is returned for logs without events.
var ErrNoData = errors.New("no events to plot")

// set1 is the ColorBrewer Set1 palette.
var set1 = []drawing.Color{
	drawing.ColorFromHex("e41a1c"),
	drawing.ColorFromHex("377eb8"),
	drawing.ColorFromHex("4daf4a"),
	drawing.ColorFromHex("984ea3"),
	drawing.ColorFromHex("ff7f00"),
	drawing.ColorFromHex("ffff33"),
	drawing.ColorFromHex("a65628"),
	drawing.ColorFromHex("f781bf"),
	drawing.ColorFromHex("999999"),
}

// Options controls image size and dot appearance.
type Options struct {
	Width    int
	Height   int
	DotWidth float64
	Title    string
}

// DefaultOptions returns a 1200x600 chart with 5px dots.
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 600, DotWidth: 5}
}

// ByCase plots one row per case and colours dots by activity.
func ByCase(w io.Writer, log *eventlog.Log, opts Options) error {
	ch, err := buildChart(log, opts, groupByCase)
	if err != nil {
		return err
	}
	return render(w, ch)
}

// ByActivity plots one row per activity and colours dots by case.
func ByActivity(w io.Writer, log *eventlog.Log, opts Options) error {
	ch, err := buildChart(log, opts, groupByActivity)
	if err != nil {
		return err
	}
	return render(w, ch)
}

// grouping decides the row and the series (colour) of an event.
type grouping struct {
	yName  string
	row    func(analysis.Offset) string
	series func(analysis.Offset) string
}

var (
	groupByCase = grouping{
		yName:  "Case",
		row:    func(o analysis.Offset) string { return o.CaseID },
		series: func(o analysis.Offset) string { return o.Activity },
	}
	groupByActivity = grouping{
		yName:  "Activity",
		row:    func(o analysis.Offset) string { return o.Activity },
		series: func(o analysis.Offset) string { return "case " + o.CaseID },
	}
)

func buildChart(log *eventlog.Log, opts Options, g grouping) (chart.Chart, error) {
	offsets := analysis.TimeFromStart(log)
	if len(offsets) == 0 {
		return chart.Chart{}, ErrNoData
	}

	// Rows and series keep first-appearance order; offsets are already
	// sorted by case.
	rows := make(map[string]int)
	var rowNames []string
	seriesIndex := make(map[string]int)
	var series []*chart.ContinuousSeries
	maxX := 0.0

	for _, o := range offsets {
		r, ok := rows[g.row(o)]
		if !ok {
			r = len(rowNames)
			rows[g.row(o)] = r
			rowNames = append(rowNames, g.row(o))
		}

		name := g.series(o)
		s, ok := seriesIndex[name]
		if !ok {
			s = len(series)
			seriesIndex[name] = s
			series = append(series, &chart.ContinuousSeries{
				Name:  name,
				Style: dotStyle(set1[s%len(set1)], opts.DotWidth),
			})
		}

		x := o.FromStart.Seconds()
		if x > maxX {
			maxX = x
		}
		series[s].XValues = append(series[s].XValues, x)
		series[s].YValues = append(series[s].YValues, float64(r))
	}

	if maxX <= 0 {
		maxX = 1
	}

	yTicks := make([]chart.Tick, len(rowNames))
	for i, name := range rowNames {
		yTicks[i] = chart.Tick{Value: float64(i), Label: name}
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Time since case start",
			Range:          &chart.ContinuousRange{Min: 0, Max: maxX * 1.05},
			ValueFormatter: durationFormatter,
		},
		YAxis: chart.YAxis{
			Name:  g.yName,
			Range: &chart.ContinuousRange{Min: -1, Max: float64(len(rowNames))},
			Ticks: yTicks,
		},
	}
	for _, s := range series {
		ch.Series = append(ch.Series, *s)
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

func render(w io.Writer, ch chart.Chart) error {
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// dotStyle renders points only, without connecting lines.
func dotStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

// durationFormatter labels x values (seconds) as durations, e.g. "36h0m0s".
func durationFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return (time.Duration(f) * time.Second).Round(time.Minute).String()
}
