package potential

import (
	"fmt"
	"math"

	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/geometry"
)

// MolarForceFactor converts kJ/(mol·Å) into N/mol.
const MolarForceFactor = 1e13

// Profile evaluates energy and force with every parameter but the swept
// one held fixed.
type Profile func(x float64) (energy, force float64)

// Model is one force-field term.
type Model interface {
	Name() string
	Title() string
	Domain() Domain
	Potential(p Params) float64
	Force(p Params) float64
	// Profile binds p and returns the curve over the swept variable.
	Profile(p Params) Profile
	// Axes depends only on the domain, never on live values.
	Axes() axis.Axes
	Labels() Labels
	Diagram(p Params) (*Diagram, error)
}

// Labels are the chart titles of a model.
type Labels struct {
	X      string `json:"x"`
	Energy string `json:"energy"`
	Force  string `json:"force"`
}

// Annotation is free text placed in a diagram.
type Annotation struct {
	At   geometry.Point `json:"at"`
	Text string         `json:"text"`
}

// Diagram is the schematic of the interacting atoms and the force they feel.
type Diagram struct {
	Model       string             `json:"model"`
	Atoms       []geometry.Point   `json:"atomPositions"`
	AtomLabels  []string           `json:"atomLabels"`
	Connectors  []geometry.Path    `json:"connectorPath"`
	Arrows      []geometry.Segment `json:"arrows"`
	Annotations []Annotation       `json:"annotations,omitempty"`
	Caption     string             `json:"labelText"`
	Bounds      geometry.Rect      `json:"bounds"`
}

// ArrowStarts and ArrowEnds split the arrows into their endpoints.
func (d *Diagram) ArrowStarts() []geometry.Point {
	pts := make([]geometry.Point, len(d.Arrows))
	for i, a := range d.Arrows {
		pts[i] = a.Start
	}
	return pts
}

func (d *Diagram) ArrowEnds() []geometry.Point {
	pts := make([]geometry.Point, len(d.Arrows))
	for i, a := range d.Arrows {
		pts[i] = a.End
	}
	return pts
}

// Sample is one evaluated configuration.
type Sample struct {
	Energy float64 `json:"energy"`
	Force  float64 `json:"force"`
}

// Evaluate validates p and returns the model's potential and force.
func Evaluate(m Model, p Params) (Sample, error) {
	if err := Validate(m.Domain(), p); err != nil {
		return Sample{}, &EvalError{Model: m.Name(), Wrapped: err}
	}
	s := Sample{Energy: m.Potential(p), Force: m.Force(p)}
	if !isFinite(s.Energy) || !isFinite(s.Force) {
		sweep := m.Domain().Sweep
		return s, &EvalError{Model: m.Name(), Param: sweep, Value: p[sweep], Wrapped: ErrDivisionSingularity}
	}
	return s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// forceCaption is the force readout shown above a diagram.
func forceCaption(force float64, unit string) string {
	if force == 0 {
		force = 0 // print -0 as 0
	}
	return fmt.Sprintf("Force = %.2e %s", force, unit)
}

// clampMagnitude limits |v| to limit, keeping its sign.
func clampMagnitude(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// diagramCheck rejects diagrams whose force could not be evaluated.
func diagramCheck(m Model, p Params) (float64, error) {
	if err := Validate(m.Domain(), p); err != nil {
		return 0, &EvalError{Model: m.Name(), Wrapped: err}
	}
	f := m.Force(p)
	if !isFinite(f) {
		sweep := m.Domain().Sweep
		return f, &EvalError{Model: m.Name(), Param: sweep, Value: p[sweep], Wrapped: ErrDivisionSingularity}
	}
	return f, nil
}
