// Package testutil provides shared fixtures for procmine tests.
//
// The fixtures are plain data (traces and CSV text) so that any package,
// including eventlog itself, can use them without import cycles.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FootprintTraces is the three-trace example used throughout the footprint
// and alpha tests.
func FootprintTraces() [][]string {
	return [][]string{
		{"A", "C", "F", "B"},
		{"A", "E", "G", "C", "F", "D", "B"},
		{"F", "D", "C", "G", "D", "B"},
	}
}

// ConcurrentTraces has b and c in both orders between a and d.
func ConcurrentTraces() [][]string {
	return [][]string{
		{"a", "b", "c", "d"},
		{"a", "c", "b", "d"},
	}
}

// ChoiceTraces has an exclusive choice between b and c.
func ChoiceTraces() [][]string {
	return [][]string{
		{"a", "b", "d"},
		{"a", "c", "d"},
	}
}

// RunningExampleCSV is the six-case "running example" request-handling log
// in the semicolon-separated layout of the coursework data set.
const RunningExampleCSV = `Case ID;Activity;Timestamp;Resource;Costs
1;register request;30-12-2010:11.02;Pete;50
1;examine thoroughly;31-12-2010:10.06;Sue;400
1;check ticket;05-01-2011:15.12;Mike;100
1;decide;06-01-2011:11.18;Sara;200
1;reject request;07-01-2011:14.24;Pete;200
2;register request;30-12-2010:11.32;Mike;50
2;check ticket;30-12-2010:12.12;Mike;100
2;examine casually;30-12-2010:14.16;Sean;400
2;decide;05-01-2011:11.22;Sara;200
2;pay compensation;08-01-2011:12.05;Ellen;200
3;register request;30-12-2010:14.32;Pete;50
3;examine casually;30-12-2010:15.06;Mike;400
3;check ticket;30-12-2010:16.34;Ellen;100
3;decide;06-01-2011:09.18;Sara;200
3;reinitiate request;06-01-2011:12.18;Sara;200
3;examine thoroughly;06-01-2011:13.06;Sean;400
3;check ticket;08-01-2011:11.43;Pete;100
3;decide;09-01-2011:09.55;Sara;200
3;pay compensation;15-01-2011:10.45;Ellen;200
4;register request;06-01-2011:15.02;Pete;50
4;check ticket;07-01-2011:12.06;Mike;100
4;examine thoroughly;08-01-2011:14.43;Sean;400
4;decide;09-01-2011:12.02;Sara;200
4;reject request;12-01-2011:15.44;Ellen;200
5;register request;06-01-2011:09.02;Ellen;50
5;examine casually;07-01-2011:10.16;Mike;400
5;check ticket;08-01-2011:11.22;Pete;100
5;decide;10-01-2011:13.28;Sara;200
5;reinitiate request;11-01-2011:16.18;Sara;200
5;check ticket;14-01-2011:14.33;Ellen;100
5;examine casually;16-01-2011:15.50;Mike;400
5;decide;19-01-2011:11.18;Sara;200
5;reinitiate request;20-01-2011:12.48;Sara;200
5;examine casually;21-01-2011:09.06;Sue;400
5;check ticket;21-01-2011:11.34;Pete;100
5;decide;23-01-2011:13.12;Sara;200
5;reject request;24-01-2011:14.56;Mike;200
6;register request;06-01-2011:15.02;Mike;50
6;examine casually;06-01-2011:16.06;Ellen;400
6;check ticket;07-01-2011:16.22;Mike;100
6;decide;07-01-2011:16.52;Sara;200
6;pay compensation;16-01-2011:11.47;Mike;200
`

// WriteFile writes content to name inside a fresh temp directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
