package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/forcefield/internal/potential"
)

var (
	ErrNoCandidate      = errors.New("optim: no finite evaluation on the grid")
	ErrUnknownObjective = errors.New("optim: unknown objective")
	ErrGrid             = errors.New("optim: invalid grid")
)

// Objective scores one evaluation; lower is better.
type Objective func(s potential.Sample) float64

// Objectives are the named scores a search can minimise.
var Objectives = map[string]Objective{
	// energy finds the bottom of the well
	"energy": func(s potential.Sample) float64 { return s.Energy },
	// force finds where the atoms are at rest
	"force": func(s potential.Sample) float64 { return math.Abs(s.Force) },
}

// GetObjective looks up a named objective.
func GetObjective(name string) (Objective, error) {
	o, ok := Objectives[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownObjective, name, ObjectiveNames())
	}
	return o, nil
}

// ObjectiveNames returns the objective names in sorted order.
func ObjectiveNames() []string {
	names := make([]string, 0, len(Objectives))
	for name := range Objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result is the best grid point found.
type Result struct {
	Params    potential.Params `json:"params"`
	Sample    potential.Sample `json:"sample"`
	Score     float64          `json:"score"`
	Evaluated int              `json:"evaluated"`
	Singular  int              `json:"singular"`
}

// GridSearch evaluates a model on every combination of the given parameter
// values, holding the rest at a base point.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return vals
}

// Search returns the grid point with the lowest objective. Singular points
// are counted and skipped.
func (g *GridSearch) Search(ctx context.Context, m potential.Model, base potential.Params, objective Objective) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%w: %d parameters, %d ranges", ErrGrid, len(g.paramNames), len(g.ranges))
	}
	for i, name := range g.paramNames {
		if _, ok := m.Domain().Spec(name); !ok {
			return nil, fmt.Errorf("%w: %s", potential.ErrUnknownParam, name)
		}
		if len(g.ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrGrid, name)
		}
	}

	res := &Result{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, base.Clone(), m, objective, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return res, ErrNoCandidate
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current potential.Params,
	m potential.Model,
	objective Objective,
	best *Result,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		best.Evaluated++

		sample, err := potential.Evaluate(m, current)
		if errors.Is(err, potential.ErrDivisionSingularity) {
			best.Singular++
			return nil
		}
		if err != nil {
			return err
		}

		score := objective(sample)
		if score < best.Score {
			best.Score = score
			best.Sample = sample
			best.Params = current.Clone()
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		if err := g.searchRecursive(ctx, depth+1, current.With(paramName, val), m, objective, best); err != nil {
			return err
		}
	}
	return nil
}
