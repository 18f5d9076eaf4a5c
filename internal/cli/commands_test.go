package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/procmine/internal/analysis"
	"github.com/roach88/procmine/internal/footprint"
	"github.com/roach88/procmine/internal/fulfillment"
	"github.com/roach88/procmine/internal/store"
	"github.com/roach88/procmine/internal/testutil"
)

const abModel = `
net: ab: {
	places: ["i", "p", "o"]
	transitions: {
		a: {}
		b: {}
	}
	arcs: [
		{from: "i", to: "a"},
		{from: "a", to: "p"},
		{from: "p", to: "b"},
		{from: "b", to: "o"},
	]
	initial: i: 1
	final: o: 1
}
`

const abLog = `Case ID;Activity;Timestamp
1;a;01-03-2024:09.00
1;b;01-03-2024:09.10
2;a;01-03-2024:10.00
`

func TestConvert(t *testing.T) {
	input := runningExample(t)
	output := filepath.Join(t.TempDir(), "running-example.xes")

	out, err := execute(t, "convert", input, output)
	require.NoError(t, err)
	assert.Equal(t, "Wrote 6 cases (42 events) to "+output+" as xes\n", out)

	out, err = execute(t, "analyze", output, "--case", "1")
	require.NoError(t, err)
	assert.Equal(t, "Case 1: 195h22m0s\n", out)
}

func TestConvert_ExplicitFormat(t *testing.T) {
	input := runningExample(t)
	output := filepath.Join(t.TempDir(), "export.log")

	var res ConvertResult
	require.NoError(t, executeJSON(t, &res, "convert", input, output, "--to", "csv"))
	assert.Equal(t, "csv", string(res.Format))
	assert.Equal(t, 42, res.Events)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "case:concept:name,concept:name,time:timestamp"))
}

func TestConvert_CSVOutputReadsBack(t *testing.T) {
	input := runningExample(t)
	output := filepath.Join(t.TempDir(), "converted.csv")

	_, err := execute(t, "convert", input, output)
	require.NoError(t, err)

	out, err := execute(t, "analyze", output, "--case", "1")
	require.NoError(t, err)
	assert.Equal(t, "Case 1: 195h22m0s\n", out)
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	input := runningExample(t)
	output := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "convert", input, output)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.NoFileExists(t, output)
}

func TestConvert_MissingInput(t *testing.T) {
	_, err := execute(t, "convert", "/nonexistent/log.csv", filepath.Join(t.TempDir(), "out.xes"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAnalyze(t *testing.T) {
	input := runningExample(t)

	var s analysis.Summary
	require.NoError(t, executeJSON(t, &s, "analyze", input))
	assert.Equal(t, 6, s.Cases)
	assert.Equal(t, 42, s.Events)
	assert.Equal(t, map[string]int{"register request": 6}, s.StartActivities)
	assert.Len(t, s.CaseDurations, 6)

	out, err := execute(t, "analyze", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Cases: 6\n")
	assert.Contains(t, out, "Start activities:\n  register request  6\n")
	assert.Contains(t, out, "Mean case duration:")
}

func TestAnalyze_UnknownCase(t *testing.T) {
	_, err := execute(t, "analyze", runningExample(t), "--case", "99")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, analysis.ErrCaseNotFound)
}

func TestChart(t *testing.T) {
	input := runningExample(t)

	for _, by := range []string{"case", "activity"} {
		t.Run(by, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), by+".png")
			out, err := execute(t, "chart", input, "--by", by, "-o", output, "--width", "400", "--height", "300")
			require.NoError(t, err)
			assert.Contains(t, out, "Wrote dotted chart by "+by)

			data, err := os.ReadFile(output)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
		})
	}
}

func TestChart_InvalidGrouping(t *testing.T) {
	_, err := execute(t, "chart", runningExample(t), "--by", "resource", "-o", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFootprint_Traces(t *testing.T) {
	out, err := execute(t, "footprint", "--trace", "a,b,c,d", "--trace", "a,c,b,d", "--ascii")
	require.NoError(t, err)

	want := footprint.Build(testutil.ConcurrentTraces())
	var table bytes.Buffer
	require.NoError(t, want.Render(&table, footprint.RenderOptions{ASCII: true}))
	assert.True(t, strings.HasPrefix(out, table.String()))
	assert.Contains(t, out, "Parallel:\n  b || c\n")
}

func TestFootprint_LogJSON(t *testing.T) {
	var m struct {
		Activities []string                     `json:"activities"`
		Relations  map[string]map[string]string `json:"relations"`
	}
	require.NoError(t, executeJSON(t, &m, "footprint", runningExample(t)))
	assert.Len(t, m.Activities, 8)
	assert.Equal(t, "‖", m.Relations["check ticket"]["examine casually"])
	assert.Equal(t, "→", m.Relations["register request"]["check ticket"])
}

func TestFootprint_InputErrors(t *testing.T) {
	_, err := execute(t, "footprint")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "footprint", runningExample(t), "--trace", "a,b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDiscover(t *testing.T) {
	out, err := execute(t, "discover", "--trace", "a,b,c,d", "--trace", "a,c,b,d")
	require.NoError(t, err)
	assert.Contains(t, out, "Net discovered: 6 places, 4 transitions")
	assert.Contains(t, out, "  ({a},{b})\n")
	assert.Contains(t, out, "  ({c},{d})\n")
	assert.Contains(t, out, "Fitness: 1.0000 (2/2 traces fit)")
}

func TestDiscover_DOT(t *testing.T) {
	out, err := execute(t, "discover", "--trace", "a,b,d", "--trace", "a,c,d", "--dot", "--name", "choice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph \"choice\" {\n"))
	assert.Contains(t, out, "({b,c},{d})")
}

func TestReplay(t *testing.T) {
	model := testutil.WriteFile(t, "ab.cue", abModel)
	log := testutil.WriteFile(t, "ab.csv", abLog)

	out, err := execute(t, "replay", model, log)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ a,b")
	assert.Contains(t, out, "✗ a")
	assert.Contains(t, out, "1/2 traces fit")

	var res ReplayResult
	require.NoError(t, executeJSON(t, &res, "replay", model, log, "--net", "ab"))
	assert.Equal(t, "ab", res.Net)
	assert.Equal(t, 1, res.FittingTraces)
	assert.Less(t, res.Fitness, 1.0)
}

func TestReplay_MinFitness(t *testing.T) {
	model := testutil.WriteFile(t, "ab.cue", abModel)
	log := testutil.WriteFile(t, "ab.csv", abLog)

	_, err := execute(t, "replay", model, log, "--min-fitness", "0.99")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "below 0.9900")
}

func TestReplay_ModelErrors(t *testing.T) {
	log := testutil.WriteFile(t, "ab.csv", abLog)

	_, err := execute(t, "replay", "/nonexistent/model.cue", log)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	model := testutil.WriteFile(t, "ab.cue", abModel)
	_, err = execute(t, "replay", model, log, "--net", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFulfillment(t *testing.T) {
	out, err := execute(t, "fulfillment")
	require.NoError(t, err)
	assert.Contains(t, out, "Net order_fulfillment: Receive → Validate → Pick → Pack → Ship")
	assert.Contains(t, out, "Initial [source:1], final [sink:1]")
	assert.Contains(t, out, "Bottleneck: Pack (20.0 orders/hour)")

	var res struct {
		Capacity fulfillment.Report `json:"capacity"`
	}
	require.NoError(t, executeJSON(t, &res, "fulfillment"))
	assert.Equal(t, "Pack", res.Capacity.Bottleneck)
	assert.InDelta(t, 20.0, res.Capacity.Throughput, 1e-9)
	require.Len(t, res.Capacity.Activities, 5)
	assert.True(t, res.Capacity.Activities[0].Automatic)
}

func TestFulfillment_Params(t *testing.T) {
	params := testutil.WriteFile(t, "params.yaml", `
durations:
  Receive:  {mean: 2, std: 0.5}
  Validate: {mean: 5, std: 1.0}
  Pick:     {mean: 8, std: 1.5}
  Pack:     {mean: 6, std: 1.0}
  Ship:     {mean: 3, std: 0.5}
resources:
  Validate: 3
  Pick: 5
  Pack: 4
  Ship: 2
`)
	out, err := execute(t, "fulfillment", "--params", params)
	require.NoError(t, err)
	assert.Contains(t, out, "Bottleneck: Validate (36.0 orders/hour)")
}

func TestFulfillment_ParamsUnknownActivity(t *testing.T) {
	params := testutil.WriteFile(t, "params.yaml", `
durations:
  Teleport: {mean: 1, std: 0}
`)
	_, err := execute(t, "fulfillment", "--params", params)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "Teleport")
}

func TestFulfillment_DOT(t *testing.T) {
	out, err := execute(t, "fulfillment", "--dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph \"order_fulfillment\" {\n"))
	assert.Contains(t, out, "\"Receive\" [shape=box,label=\"Receive\"];")
}

func TestImportAndLogs(t *testing.T) {
	input := runningExample(t)
	db := filepath.Join(t.TempDir(), "logs.db")

	var first store.ImportResult
	require.NoError(t, executeJSON(t, &first, "import", input, "--db", db))
	assert.True(t, first.Inserted)
	assert.Len(t, first.LogID, 64)
	assert.Equal(t, 6, first.Cases)

	var second store.ImportResult
	require.NoError(t, executeJSON(t, &second, "import", input, "--db", db))
	assert.False(t, second.Inserted)
	assert.Equal(t, first.LogID, second.LogID)
	assert.NotEqual(t, first.RunID, second.RunID)

	var logs []store.LogInfo
	require.NoError(t, executeJSON(t, &logs, "logs", "--db", db))
	require.Len(t, logs, 1)
	assert.Equal(t, "running-example", logs[0].Name)
	assert.Equal(t, 2, logs[0].ImportRuns)

	out, err := execute(t, "logs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, first.LogID[:shortIDLen])

	prefix := first.LogID[:8]
	var detail LogDetail
	require.NoError(t, executeJSON(t, &detail, "logs", "show", prefix, "--db", db))
	assert.Equal(t, first.LogID, detail.ID)
	require.Len(t, detail.Imports, 2)
	assert.Equal(t, first.RunID, detail.Imports[0].RunID)

	var s analysis.Summary
	require.NoError(t, executeJSON(t, &s, "analyze", "log:"+prefix, "--db", db))
	assert.Equal(t, 6, s.Cases)
	assert.Equal(t, 42, s.Events)

	out, err = execute(t, "logs", "delete", prefix, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted log "+first.LogID)

	_, err = execute(t, "logs", "show", prefix, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrLogNotFound)

	out, err = execute(t, "logs", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No logs stored.\n", out)
}

func TestImport_RejectsStoredReference(t *testing.T) {
	_, err := execute(t, "import", "log:abc", "--db", filepath.Join(t.TempDir(), "logs.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStoredLogNotFound(t *testing.T) {
	db := filepath.Join(t.TempDir(), "logs.db")
	_, err := execute(t, "footprint", "log:deadbeef", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrLogNotFound)
}
