// Package automation runs scripted evaluations: YAML scenarios, parameter
// sweeps and random sampling over a model's domain.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcefield/internal/config"
	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/potential"
)

// ErrExpectation is returned when a scenario step misses its expectation.
var ErrExpectation = errors.New("automation: expectation not met")

// Scenario defines a scripted sequence of evaluations
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep evaluates one model at one set of parameters, optionally
// checking the result.
type ScenarioStep struct {
	Model  string             `yaml:"model"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	Expect *Expectation       `yaml:"expect"`
	Sweep  *SweepStep         `yaml:"sweep"`
}

// SweepStep turns a scenario step into a parameter sweep around its params.
type SweepStep struct {
	Param string  `yaml:"param"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

// Expectation bounds the energy and force of a step.
type Expectation struct {
	Energy *Bound   `yaml:"energy"`
	Force  *Bound   `yaml:"force"`
	Labels []string `yaml:"labels"`
}

// Bound is a numeric check; every field that is set must hold. Eq uses
// Tol as an absolute tolerance.
type Bound struct {
	Eq  *float64 `yaml:"eq"`
	Lt  *float64 `yaml:"lt"`
	Gt  *float64 `yaml:"gt"`
	Tol float64  `yaml:"tol"`
}

// Check reports why v fails the bound, or nil.
func (b *Bound) Check(v float64) error {
	if b == nil {
		return nil
	}
	if b.Eq != nil && math.Abs(v-*b.Eq) > b.Tol {
		return fmt.Errorf("%g != %g (tol %g)", v, *b.Eq, b.Tol)
	}
	if b.Lt != nil && !(v < *b.Lt) {
		return fmt.Errorf("%g is not < %g", v, *b.Lt)
	}
	if b.Gt != nil && !(v > *b.Gt) {
		return fmt.Errorf("%g is not > %g", v, *b.Gt)
	}
	return nil
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step    int              `json:"step"`
	Model   string           `json:"model"`
	Params  potential.Params `json:"params"`
	Sample  potential.Sample `json:"sample"`
	Caption string           `json:"caption"`
	Labels  []string         `json:"labels"`
	Sweep   []SweepResult    `json:"sweep,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *potential.Registry, cfg *config.Config, log *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", step.Model)

		m, err := registry.Get(step.Model)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		p, err := cfg.Resolve(m, step.Preset, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sample, err := potential.Evaluate(m, p)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		d, err := m.Diagram(p)
		if err != nil {
			return results, fmt.Errorf("step %d diagram: %w", i+1, err)
		}

		res := StepResult{
			Step:    i + 1,
			Model:   m.Name(),
			Params:  p,
			Sample:  sample,
			Caption: d.Caption,
			Labels:  d.AtomLabels,
		}

		if step.Sweep != nil {
			sweep := &ParameterSweep{
				Model:     step.Model,
				ParamName: step.Sweep.Param,
				ParamMin:  step.Sweep.Min,
				ParamMax:  step.Sweep.Max,
				NumSteps:  step.Sweep.Steps,
				Base:      p,
			}
			res.Sweep, err = RunSweep(ctx, sweep, registry)
			if err != nil {
				return results, fmt.Errorf("step %d sweep: %w", i+1, err)
			}
		}

		if err := check(step.Expect, res); err != nil {
			results = append(results, res)
			return results, fmt.Errorf("step %d: %w: %v", i+1, ErrExpectation, err)
		}

		results = append(results, res)
	}

	return results, nil
}

func check(e *Expectation, res StepResult) error {
	if e == nil {
		return nil
	}
	if err := e.Energy.Check(res.Sample.Energy); err != nil {
		return fmt.Errorf("energy: %w", err)
	}
	if err := e.Force.Check(res.Sample.Force); err != nil {
		return fmt.Errorf("force: %w", err)
	}
	if e.Labels != nil {
		if len(e.Labels) != len(res.Labels) {
			return fmt.Errorf("labels: got %q, want %q", res.Labels, e.Labels)
		}
		for i := range e.Labels {
			if e.Labels[i] != res.Labels[i] {
				return fmt.Errorf("labels: got %q, want %q", res.Labels, e.Labels)
			}
		}
	}
	return nil
}

// ParameterSweep evaluates a model across a range of one parameter
type ParameterSweep struct {
	Model     string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int

	// Base holds the other parameters; domain defaults when nil.
	Base potential.Params

	// CurveStep is the resolution used for the well depth; 0.01 when unset.
	CurveStep float64
}

// SweepResult holds one point of a parameter sweep
type SweepResult struct {
	ParamValue float64 `json:"paramValue"`
	Energy     float64 `json:"energy"`
	Force      float64 `json:"force"`
	MinEnergy  float64 `json:"minEnergy"`
	MaxEnergy  float64 `json:"maxEnergy"`
	Singular   bool    `json:"singular"`
}

// RunSweep executes a parameter sweep. Points are independent and are
// evaluated in parallel; a singular point is flagged rather than failing
// the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *potential.Registry) ([]SweepResult, error) {
	m, err := registry.Get(sweep.Model)
	if err != nil {
		return nil, err
	}
	if _, ok := m.Domain().Spec(sweep.ParamName); !ok {
		return nil, fmt.Errorf("%w: %s", potential.ErrUnknownParam, sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	base := sweep.Base
	if base == nil {
		base = potential.DefaultParams(m.Domain())
	}
	if err := potential.Validate(m.Domain(), base); err != nil {
		return nil, err
	}

	step := sweep.CurveStep
	if step <= 0 {
		step = 0.01
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, sweep.NumSteps)
	curve.ParallelFor(sweep.NumSteps, 4, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			v := sweep.ParamMin + float64(i)*paramStep
			results[i] = sweepPoint(m, base.With(sweep.ParamName, v), v, step)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func sweepPoint(m potential.Model, p potential.Params, v, step float64) SweepResult {
	res := SweepResult{ParamValue: v}

	s, err := curve.Build(m, p, curve.WithStep(step))
	// singular points keep zero values so results stay JSON-encodable
	if err != nil {
		res.Singular = true
		return res
	}
	res.Energy, res.Force = s.MarkerEnergy, s.MarkerForce
	if s.Len() == 0 {
		return res
	}

	res.MinEnergy, res.MaxEnergy = math.Inf(1), math.Inf(-1)
	for _, e := range s.Energies {
		res.MinEnergy = math.Min(res.MinEnergy, e)
		res.MaxEnergy = math.Max(res.MaxEnergy, e)
	}
	return res
}

// MonteCarloConfig defines random sampling over a model's domain
type MonteCarloConfig struct {
	Model     string
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds one random evaluation
type MonteCarloResult struct {
	TrialID int              `json:"trial"`
	Params  potential.Params `json:"params"`
	Sample  potential.Sample `json:"sample"`
	Finite  bool             `json:"finite"`
}

// RunMonteCarlo evaluates the model at uniformly random points of its
// domain, each parameter drawn within its slider range.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *potential.Registry, log *slog.Logger) ([]MonteCarloResult, error) {
	m, err := registry.Get(cfg.Model)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := m.Domain()
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p := make(potential.Params, len(d.Params))
		for _, spec := range d.Params {
			p[spec.Name] = spec.Min + rng.Float64()*spec.Span()
		}

		s, err := potential.Evaluate(m, p)
		if err != nil && !errors.Is(err, potential.ErrDivisionSingularity) {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Params:  p,
			Sample:  s,
			Finite:  err == nil,
		})

		if (trial+1)%1000 == 0 {
			log.Debug("monte carlo progress", "model", cfg.Model, "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats summarises Monte Carlo results
type MonteCarloStats struct {
	Trials    int     `json:"trials"`
	Singular  int     `json:"singular"`
	MinEnergy float64 `json:"minEnergy"`
	MaxEnergy float64 `json:"maxEnergy"`
	MinForce  float64 `json:"minForce"`
	MaxForce  float64 `json:"maxForce"`
}

// Summarize computes the extremes of the finite trials.
func Summarize(results []MonteCarloResult) MonteCarloStats {
	st := MonteCarloStats{
		Trials:    len(results),
		MinEnergy: math.Inf(1),
		MaxEnergy: math.Inf(-1),
		MinForce:  math.Inf(1),
		MaxForce:  math.Inf(-1),
	}
	for _, r := range results {
		if !r.Finite {
			st.Singular++
			continue
		}
		st.MinEnergy = math.Min(st.MinEnergy, r.Sample.Energy)
		st.MaxEnergy = math.Max(st.MaxEnergy, r.Sample.Energy)
		st.MinForce = math.Min(st.MinForce, r.Sample.Force)
		st.MaxForce = math.Max(st.MaxForce, r.Sample.Force)
	}
	return st
}
