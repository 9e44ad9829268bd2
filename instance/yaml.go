// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
)

// document is the on-disk layout of an instance.
type document struct {
	Name       string         `yaml:"name,omitempty"`
	Constraint constraintDoc  `yaml:"constraint"`
	Dimensions []dimensionDoc `yaml:"dimensions"`
}

type constraintDoc struct {
	Weights []float64 `yaml:"weights,omitempty,flow"`
	RHS     float64   `yaml:"rhs"`
	Sense   string    `yaml:"sense,omitempty"`
}

type dimensionDoc struct {
	Function    string      `yaml:"function,omitempty"`
	Breakpoints []float64   `yaml:"breakpoints,flow"`
	Values      []tripleDoc `yaml:"values,flow"`
}

// tripleDoc reads either a scalar y (continuous point) or a sequence
// [left, mid, right]; it writes the scalar form whenever the triple is
// continuous.
type tripleDoc plf.Triple

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *tripleDoc) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var y float64
		if err := n.Decode(&y); err != nil {
			return err
		}
		*t = tripleDoc(plf.Point(y))

		return nil
	case yaml.SequenceNode:
		var ys []float64
		if err := n.Decode(&ys); err != nil {
			return err
		}
		if len(ys) != 3 {
			return fmt.Errorf("line %d: value triple has %d entries: %w", n.Line, len(ys), ErrBadConfig)
		}
		*t = tripleDoc{Left: ys[0], Mid: ys[1], Right: ys[2]}

		return nil
	default:
		return fmt.Errorf("line %d: value must be a number or [left, mid, right]: %w", n.Line, ErrBadConfig)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (t tripleDoc) MarshalYAML() (interface{}, error) {
	p := plf.Triple(t)
	if p.Continuous() {
		return p.Mid, nil
	}

	return []float64{p.Left, p.Mid, p.Right}, nil
}

// Load decodes one YAML instance and validates it.
//
// Errors: ErrBadConfig for malformed documents, plf.ErrValidation for bad
// PLF data, relax.ErrInvalidConstraint / relax.ErrDimensionMismatch for a bad
// constraint.
func Load(r io.Reader) (Instance, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Instance{}, fmt.Errorf("instance: decode: %w", err)
	}
	if len(doc.Dimensions) == 0 {
		return Instance{}, fmt.Errorf("no dimensions: %w", ErrBadConfig)
	}

	inst := Instance{
		Name: doc.Name,
		PLFs: make([]plf.PLF, len(doc.Dimensions)),
	}
	named := false
	for i, d := range doc.Dimensions {
		vals := make([]plf.Triple, len(d.Values))
		for j, v := range d.Values {
			vals[j] = plf.Triple(v)
		}
		p, err := plf.New(d.Breakpoints, vals)
		if err != nil {
			return Instance{}, fmt.Errorf("instance: dimension %d: %w", i, err)
		}
		inst.PLFs[i] = p
		if d.Function != "" {
			named = true
		}
	}
	if named {
		inst.Functions = make([]string, len(doc.Dimensions))
		for i, d := range doc.Dimensions {
			inst.Functions[i] = d.Function
		}
	}

	sense, err := relax.ParseSense(doc.Constraint.Sense)
	if err != nil {
		return Instance{}, fmt.Errorf("instance: constraint: %w", err)
	}
	weights := doc.Constraint.Weights
	if len(weights) == 0 {
		weights = relax.UnitWeights(len(inst.PLFs))
	}
	inst.Constraint = relax.Constraint{Weights: weights, RHS: doc.Constraint.RHS, Sense: sense}
	if err = inst.Constraint.Validate(len(inst.PLFs)); err != nil {
		return Instance{}, fmt.Errorf("instance: constraint: %w", err)
	}

	return inst, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return Instance{}, err
	}
	defer f.Close()

	return Load(f)
}

// Encode writes inst as YAML in the layout accepted by Load.
func (inst Instance) Encode(w io.Writer) error {
	doc := document{
		Name: inst.Name,
		Constraint: constraintDoc{
			Weights: inst.Constraint.Weights,
			RHS:     inst.Constraint.RHS,
			Sense:   inst.Constraint.Sense.String(),
		},
		Dimensions: make([]dimensionDoc, len(inst.PLFs)),
	}
	for i, p := range inst.PLFs {
		d := dimensionDoc{
			Breakpoints: p.Breakpoints,
			Values:      make([]tripleDoc, len(p.Values)),
		}
		for j, v := range p.Values {
			d.Values[j] = tripleDoc(v)
		}
		if i < len(inst.Functions) {
			d.Function = inst.Functions[i]
		}
		doc.Dimensions[i] = d
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("instance: encode: %w", err)
	}

	return enc.Close()
}
