package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/geometry"
	"github.com/san-kum/forcefield/internal/potential"
)

const (
	// minChunk is the smallest sweep slice handed to a worker.
	minChunk = 2048
	// MaxSamples bounds the length of one sweep.
	MaxSamples = 1_000_000
)

var ErrTooManySamples = errors.New("curve: step too small")

// Range is the closed interval of the swept variable.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Series is the chart data of one model at one set of parameters.
type Series struct {
	Model        string           `json:"model"`
	Sweep        string           `json:"sweep"`
	Xs           []float64        `json:"xs"`
	Energies     []float64        `json:"energies"`
	Forces       []float64        `json:"forces"`
	MarkerX      float64          `json:"markerX"`
	MarkerEnergy float64          `json:"markerEnergy"`
	MarkerForce  float64          `json:"markerForce"`
	Axes         axis.Axes        `json:"axisScale"`
	XRange       Range            `json:"xRange"`
	Labels       potential.Labels `json:"labels"`
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Xs)
}

type options struct {
	step float64
}

// Option configures Build.
type Option func(*options)

// WithStep sets the sweep spacing. Non-positive or non-finite values keep
// the default.
func WithStep(step float64) Option {
	return func(o *options) {
		if step > 0 && !math.IsInf(step, 1) {
			o.step = step
		}
	}
}

// Build sweeps the model's swept variable from its domain minimum up to,
// but excluding, its maximum with the other parameters held at p.
func Build(m potential.Model, p potential.Params, opts ...Option) (*Series, error) {
	o := options{step: geometry.DefaultStep}
	for _, opt := range opts {
		opt(&o)
	}

	marker, err := potential.Evaluate(m, p)
	if err != nil {
		return nil, fmt.Errorf("marker: %w", err)
	}

	d := m.Domain()
	spec := d.SweepSpec()
	count := math.Ceil((spec.Max - spec.Min) / o.step)
	if count > MaxSamples {
		return nil, fmt.Errorf("%w: %g gives %.0f samples over [%g, %g], max %d",
			ErrTooManySamples, o.step, count, spec.Min, spec.Max, MaxSamples)
	}
	n := max(int(count), 0)

	xs := make([]float64, n)
	energies := make([]float64, n)
	forces := make([]float64, n)
	keep := make([]bool, n)

	profile := m.Profile(p)
	eps := o.step * 1e-6
	ParallelFor(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			x := spec.Min + float64(i)*o.step
			if x >= spec.Max || math.Abs(x) < eps {
				continue
			}
			e, f := profile(x)
			if !finite(e) || !finite(f) {
				continue
			}
			xs[i], energies[i], forces[i], keep[i] = x, e, f, true
		}
	})

	s := &Series{
		Model:        m.Name(),
		Sweep:        d.Sweep,
		Xs:           make([]float64, 0, n),
		Energies:     make([]float64, 0, n),
		Forces:       make([]float64, 0, n),
		MarkerX:      p[d.Sweep],
		MarkerEnergy: marker.Energy,
		MarkerForce:  marker.Force,
		Axes:         m.Axes(),
		XRange:       Range{Min: spec.Min, Max: spec.Max},
		Labels:       m.Labels(),
	}
	for i := range keep {
		if keep[i] {
			s.Xs = append(s.Xs, xs[i])
			s.Energies = append(s.Energies, energies[i])
			s.Forces = append(s.Forces, forces[i])
		}
	}
	return s, nil
}

// Downsample returns a copy of s with at most n evenly spaced samples.
// The first and last samples are always kept.
func (s *Series) Downsample(n int) *Series {
	out := *s
	total := s.Len()
	if n <= 0 || total <= n {
		out.Xs = append([]float64(nil), s.Xs...)
		out.Energies = append([]float64(nil), s.Energies...)
		out.Forces = append([]float64(nil), s.Forces...)
		return &out
	}
	if n == 1 {
		out.Xs, out.Energies, out.Forces = s.Xs[:1:1], s.Energies[:1:1], s.Forces[:1:1]
		return &out
	}

	out.Xs = make([]float64, n)
	out.Energies = make([]float64, n)
	out.Forces = make([]float64, n)
	for i := 0; i < n; i++ {
		j := i * (total - 1) / (n - 1)
		out.Xs[i], out.Energies[i], out.Forces[i] = s.Xs[j], s.Energies[j], s.Forces[j]
	}
	return &out
}

// Clip returns the energies and forces limited to the axis windows, for
// renderers that cannot crop. The series itself is not modified.
func (s *Series) Clip() (energies, forces []float64) {
	energies = make([]float64, len(s.Energies))
	forces = make([]float64, len(s.Forces))
	for i := range s.Energies {
		energies[i] = math.Max(s.Axes.Energy.Min, math.Min(s.Axes.Energy.Max, s.Energies[i]))
		forces[i] = math.Max(s.Axes.Force.Min, math.Min(s.Axes.Force.Max, s.Forces[i]))
	}
	return energies, forces
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
