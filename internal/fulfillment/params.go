package fulfillment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/procmine/internal/petri"
)

var validate = validator.New()

// Duration is a normal distribution of an activity's duration in minutes.
type Duration struct {
	Mean float64 `yaml:"mean" json:"mean" validate:"gt=0"`
	Std  float64 `yaml:"std" json:"std" validate:"gte=0"`
}

// Params configures activity durations and resource pools. Activities
// without a pool are performed automatically.
type Params struct {
	Durations map[string]Duration `yaml:"durations" json:"durations" validate:"required,min=1,dive,keys,required,endkeys"`
	Resources map[string]int      `yaml:"resources" json:"resources" validate:"dive,keys,required,endkeys,gte=1"`
}

// DefaultParams returns the reference configuration. Pack, with two
// packers, is the bottleneck.
func DefaultParams() Params {
	return Params{
		Durations: map[string]Duration{
			"Receive":  {Mean: 2, Std: 0.5},
			"Validate": {Mean: 5, Std: 1.0},
			"Pick":     {Mean: 8, Std: 1.5},
			"Pack":     {Mean: 6, Std: 1.0},
			"Ship":     {Mean: 3, Std: 0.5},
		},
		Resources: map[string]int{
			"Validate": 3,
			"Pick":     5,
			"Pack":     2,
			"Ship":     2,
		},
	}
}

// Validate checks field constraints.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// CheckModel reports activities configured but absent from the net, and
// visible net activities without a duration.
func (p Params) CheckModel(m *petri.Model) error {
	labels := make(map[string]bool)
	for _, l := range m.Net.Labels() {
		labels[l] = true
	}

	var errs []error
	for _, a := range sortedKeys(p.Durations) {
		if !labels[a] {
			errs = append(errs, fmt.Errorf("duration for unknown activity %q", a))
		}
	}
	for _, a := range sortedKeys(p.Resources) {
		if !labels[a] {
			errs = append(errs, fmt.Errorf("resources for unknown activity %q", a))
		}
	}
	for _, l := range m.Net.Labels() {
		if _, ok := p.Durations[l]; !ok {
			errs = append(errs, fmt.Errorf("no duration for activity %q", l))
		}
	}
	return errors.Join(errs...)
}

// DecodeParams reads YAML params. Unknown fields are rejected.
func DecodeParams(r io.Reader) (Params, error) {
	var p Params
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, fmt.Errorf("params: empty document")
		}
		return p, fmt.Errorf("params: %w", err)
	}
	return p, p.Validate()
}

// LoadParams reads params from a YAML file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params: %w", err)
	}
	return DecodeParams(bytes.NewReader(data))
}
