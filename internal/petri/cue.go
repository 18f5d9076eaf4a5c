package petri

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Model is a net together with its initial and final markings.
type Model struct {
	Net     *Net    `json:"net"`
	Initial Marking `json:"initial"`
	Final   Marking `json:"final"`
}

// ModelError reports a problem in a CUE model file, with position when
// available.
type ModelError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ModelError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type arcSpec struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// CompileCUE compiles CUE source declaring one or more nets under "net:"
// and returns them in declaration order.
func CompileCUE(src []byte, filename string) ([]*Model, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile net schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.Unify(v)
	if err := v.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	netsVal := v.LookupPath(cue.ParsePath("net"))
	if !netsVal.Exists() {
		return nil, &ModelError{Field: "net", Message: "no nets declared", Pos: v.Pos()}
	}

	iter, err := netsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var models []*Model
	for iter.Next() {
		model, err := compileNet(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	if len(models) == 0 {
		return nil, &ModelError{Field: "net", Message: "no nets declared", Pos: netsVal.Pos()}
	}
	return models, nil
}

// compileNet builds one Model from a value already validated against #Net.
func compileNet(name string, v cue.Value) (*Model, error) {
	n := NewNet(name)

	var places []string
	if err := v.LookupPath(cue.ParsePath("places")).Decode(&places); err != nil {
		return nil, formatCUEError(err)
	}
	for _, p := range places {
		if _, err := n.AddPlace(p); err != nil {
			return nil, &ModelError{Field: "net." + name + ".places", Message: err.Error(), Pos: v.Pos()}
		}
	}

	transVal := v.LookupPath(cue.ParsePath("transitions"))
	iter, err := transVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		tName := iter.Selector().Unquoted()
		label := tName
		if labelVal := iter.Value().LookupPath(cue.ParsePath("label")); labelVal.Exists() {
			label, err = labelVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}
		if _, err := n.AddTransition(tName, label); err != nil {
			return nil, &ModelError{Field: "net." + name + ".transitions", Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}

	arcsVal := v.LookupPath(cue.ParsePath("arcs"))
	arcIter, err := arcsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for arcIter.Next() {
		var arc arcSpec
		if err := arcIter.Value().Decode(&arc); err != nil {
			return nil, formatCUEError(err)
		}
		if err := n.AddArc(arc.From, arc.To, arc.Weight); err != nil {
			return nil, &ModelError{Field: "net." + name + ".arcs", Message: err.Error(), Pos: arcIter.Value().Pos()}
		}
	}

	model := &Model{Net: n}
	for field, target := range map[string]*Marking{"initial": &model.Initial, "final": &model.Final} {
		var m map[string]int
		if err := v.LookupPath(cue.ParsePath(field)).Decode(&m); err != nil {
			return nil, formatCUEError(err)
		}
		for p := range m {
			if _, ok := n.Place(p); !ok {
				return nil, &ModelError{
					Field:   "net." + name + "." + field,
					Message: fmt.Sprintf("%v: place %q", ErrUnknownNode, p),
					Pos:     v.Pos(),
				}
			}
		}
		*target = Marking(m).Clone()
	}

	return model, nil
}

// LoadFile compiles the nets declared in a single .cue file.
func LoadFile(path string) ([]*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return CompileCUE(data, path)
}

// LoadDir compiles every .cue file below dir. Net names must be unique
// across files. Files are processed in lexical order.
func LoadDir(dir string) ([]*Model, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	var models []*Model
	seen := make(map[string]string)
	for _, file := range files {
		fileModels, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, m := range fileModels {
			if prev, ok := seen[m.Net.Name]; ok {
				return nil, fmt.Errorf("%w: net %q declared in %s and %s", ErrDuplicateNode, m.Net.Name, prev, file)
			}
			seen[m.Net.Name] = file
			models = append(models, m)
		}
	}
	return models, nil
}

// Load compiles a model file or a directory of model files.
func Load(path string) ([]*Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// FindModel returns the model with the given net name. An empty name
// selects the only model, if there is exactly one.
func FindModel(models []*Model, name string) (*Model, error) {
	if name == "" {
		if len(models) == 1 {
			return models[0], nil
		}
		names := make([]string, len(models))
		for i, m := range models {
			names[i] = m.Net.Name
		}
		return nil, fmt.Errorf("%d nets declared (%v), choose one", len(models), names)
	}
	for _, m := range models {
		if m.Net.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: net %q", ErrUnknownNode, name)
}

// FindCUEFiles walks dir and returns all .cue file paths, sorted.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "cue"
	if path := first.Path(); len(path) > 0 {
		field = strings.Join(path, ".")
	}
	modelErr := &ModelError{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		modelErr.Pos = positions[0]
	}
	return modelErr
}
