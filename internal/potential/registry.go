package potential

import (
	"fmt"
	"sort"
)

// Registry maps model names to constructors.
type Registry struct {
	models map[string]func() Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() Model),
	}

	r.Register("bond", func() Model { return NewBond() })
	r.Register("angle", func() Model { return NewAngle() })
	r.Register("lj", func() Model { return NewLennardJones() })
	r.Register("coulomb", func() Model { return NewCoulomb() })

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() Model) {
	r.models[name] = fn
}

func (r *Registry) Get(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return fn(), nil
}

// Names lists the registered models in explainer order, then any extras
// alphabetically.
func (r *Registry) Names() []string {
	order := []string{"bond", "angle", "lj", "coulomb"}
	names := make([]string, 0, len(r.models))
	seen := make(map[string]bool)
	for _, n := range order {
		if _, ok := r.models[n]; ok {
			names = append(names, n)
			seen[n] = true
		}
	}
	var extra []string
	for n := range r.models {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Default returns the first model of the explainer.
func (r *Registry) Default() Model {
	m, _ := r.Get("bond")
	return m
}

// All instantiates every registered model in Names order.
func (r *Registry) All() []Model {
	names := r.Names()
	out := make([]Model, 0, len(names))
	for _, n := range names {
		m, _ := r.Get(n)
		out = append(out, m)
	}
	return out
}
