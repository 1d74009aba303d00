package potential

import (
	"fmt"
	"math"
	"sort"
)

// Params holds the named scalar constants of one model evaluation.
type Params map[string]float64

// Clone returns an independent copy.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// With returns a copy of p with name set to v.
func (p Params) With(name string, v float64) Params {
	c := p.Clone()
	c[name] = v
	return c
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParamSpec describes one slider: its range, step and starting value.
type ParamSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Symbol  string  `json:"symbol" yaml:"symbol"`
	Unit    string  `json:"unit" yaml:"unit"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Step    float64 `json:"step" yaml:"step"`
	Default float64 `json:"default" yaml:"default"`
}

// Snap rounds v to the nearest step and clamps it into [Min, Max].
func (s ParamSpec) Snap(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		// drop float noise left by the step arithmetic
		scale := math.Pow(10, math.Max(0, math.Ceil(-math.Log10(s.Step))))
		v = math.Round(v*scale) / scale
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Span returns Max - Min.
func (s ParamSpec) Span() float64 {
	return s.Max - s.Min
}

// Domain is the ordered parameter set of a model and the variable its
// curves sweep.
type Domain struct {
	Sweep  string      `json:"sweep" yaml:"sweep"`
	Params []ParamSpec `json:"params" yaml:"params"`
}

// Spec looks up a parameter by name.
func (d Domain) Spec(name string) (ParamSpec, bool) {
	for _, s := range d.Params {
		if s.Name == name {
			return s, true
		}
	}
	return ParamSpec{}, false
}

// SweepSpec returns the spec of the swept variable.
func (d Domain) SweepSpec() ParamSpec {
	s, _ := d.Spec(d.Sweep)
	return s
}

// Names lists the parameter names in domain order.
func (d Domain) Names() []string {
	names := make([]string, len(d.Params))
	for i, s := range d.Params {
		names[i] = s.Name
	}
	return names
}

// Clamp returns p with every known value snapped into its slider range.
// The models never call it; it exists for slider shells.
func (d Domain) Clamp(p Params) Params {
	c := p.Clone()
	for _, s := range d.Params {
		if v, ok := c[s.Name]; ok {
			c[s.Name] = s.Snap(v)
		}
	}
	return c
}

// DefaultParams returns the starting slider values of a domain.
func DefaultParams(d Domain) Params {
	p := make(Params, len(d.Params))
	for _, s := range d.Params {
		p[s.Name] = s.Default
	}
	return p
}

// Validate checks that p names exactly the domain's parameters. Values
// are not range checked.
func Validate(d Domain, p Params) error {
	for _, name := range p.Names() {
		if _, ok := d.Spec(name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	for _, s := range d.Params {
		if _, ok := p[s.Name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingParam, s.Name)
		}
	}
	return nil
}

// Merge overlays the given values on the domain defaults.
func Merge(d Domain, overrides Params) (Params, error) {
	p := DefaultParams(d)
	for _, name := range overrides.Names() {
		if _, ok := d.Spec(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		p[name] = overrides[name]
	}
	return p, nil
}

// halfSpan is the starting slider position used throughout: half the
// slider span, snapped to its step.
func halfSpan(min, max, step float64) float64 {
	return ParamSpec{Min: min, Max: max, Step: step}.Snap((max - min) / 2)
}
