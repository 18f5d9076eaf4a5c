package petri

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequenceCUE = `
net: sequence: {
	places: ["start", "p1", "end"]
	transitions: {
		t1: label: "Register"
		t2: {}
		skip: label: ""
	}
	arcs: [
		{from: "start", to: "t1"},
		{from: "t1", to: "p1"},
		{from: "p1", to: "t2", weight: 2},
		{from: "t2", to: "end"},
		{from: "p1", to: "skip"},
		{from: "skip", to: "end"},
	]
	initial: start: 1
	final: end: 1
}
`

func TestCompileCUE(t *testing.T) {
	models, err := CompileCUE([]byte(sequenceCUE), "sequence.cue")
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, "sequence", m.Net.Name)
	assert.Len(t, m.Net.Places, 3)
	require.Len(t, m.Net.Transitions, 3)

	assert.Equal(t, "t1", m.Net.Transitions[0].Name)
	assert.Equal(t, "Register", m.Net.Transitions[0].Label)
	assert.Equal(t, "t2", m.Net.Transitions[1].Label, "label defaults to name")
	assert.True(t, m.Net.Transitions[2].Silent())

	require.Len(t, m.Net.Arcs, 6)
	assert.Equal(t, 1, m.Net.Arcs[0].Weight, "weight defaults to 1")
	assert.Equal(t, 2, m.Net.Arcs[2].Weight)

	assert.Equal(t, Marking{"start": 1}, m.Initial)
	assert.Equal(t, Marking{"end": 1}, m.Final)
}

func TestCompileCUEMultipleNets(t *testing.T) {
	src := `
net: second: {
	places: ["p"]
	transitions: t: {}
	arcs: [{from: "p", to: "t"}]
	initial: p: 1
	final: {}
}
net: first: {
	places: ["q"]
	transitions: {}
	arcs: []
	initial: {}
	final: {}
}
`
	models, err := CompileCUE([]byte(src), "multi.cue")
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "second", models[0].Net.Name, "declaration order")
	assert.Equal(t, "first", models[1].Net.Name)

	found, err := FindModel(models, "first")
	require.NoError(t, err)
	assert.Same(t, models[1], found)

	_, err = FindModel(models, "")
	assert.Error(t, err)
	_, err = FindModel(models, "missing")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestCompileCUEErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `net: broken: {`,
			wantErr: "broken.cue",
		},
		{
			name: "zero weight",
			src: `net: n: {
				places: ["p"]
				transitions: t: {}
				arcs: [{from: "p", to: "t", weight: 0}]
				initial: {}
				final: {}
			}`,
			wantErr: "weight",
		},
		{
			name: "unknown transition field",
			src: `net: n: {
				places: ["p"]
				transitions: t: lable: "x"
				arcs: []
				initial: {}
				final: {}
			}`,
			wantErr: "lable",
		},
		{
			name: "place to place arc",
			src: `net: n: {
				places: ["p", "q"]
				transitions: {}
				arcs: [{from: "p", to: "q"}]
				initial: {}
				final: {}
			}`,
			wantErr: "invalid arc",
		},
		{
			name: "marking on unknown place",
			src: `net: n: {
				places: ["p"]
				transitions: {}
				arcs: []
				initial: nowhere: 1
				final: {}
			}`,
			wantErr: "nowhere",
		},
		{
			name:    "no nets",
			src:     `other: 1`,
			wantErr: "no nets declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCUE([]byte(tt.src), "broken.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte(sequenceCUE), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.cue"), []byte(`
net: other: {
	places: ["p"]
	transitions: {}
	arcs: []
	initial: {}
	final: {}
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	models, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "sequence", models[0].Net.Name)
	assert.Equal(t, "other", models[1].Net.Name)

	// The same net name in a second file is rejected.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.cue"), []byte(sequenceCUE), 0o644))
	_, err = LoadDir(dir)
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}
