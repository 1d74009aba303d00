package config

import (
	"errors"
	"sort"

	"github.com/san-kum/forcefield/internal/potential"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset is a named slider position worth showing.
type Preset struct {
	Description string
	Params      potential.Params
}

var Presets = map[string]map[string]*Preset{
	"bond": {
		"rest": {
			Description: "at the bottom of the well",
			Params:      potential.Params{"b": 8, "b0": 8, "kb": 550},
		},
		"stretched": {
			Description: "pulled apart, restoring force inwards",
			Params:      potential.Params{"b": 12, "b0": 7, "kb": 450},
		},
		"compressed": {
			Description: "pushed together, restoring force outwards",
			Params:      potential.Params{"b": 3, "b0": 7, "kb": 450},
		},
		"stiff": {
			Description: "small stretch of a stiff bond",
			Params:      potential.Params{"b": 9, "b0": 7, "kb": 1000},
		},
	},
	"angle": {
		"tetrahedral": {
			Description: "sp3 carbon at rest",
			Params:      potential.Params{"theta": 109, "theta0": 109, "ktheta": 60},
		},
		"water": {
			Description: "H-O-H at rest",
			Params:      potential.Params{"theta": 104, "theta0": 104, "ktheta": 50},
		},
		"pinched": {
			Description: "closed well below rest",
			Params:      potential.Params{"theta": 60, "theta0": 109, "ktheta": 60},
		},
		"linear": {
			Description: "opened flat",
			Params:      potential.Params{"theta": 180, "theta0": 120, "ktheta": 40},
		},
	},
	"lj": {
		"well": {
			Description: "close to the optimum distance",
			Params:      potential.Params{"r": 8.4, "sigma": 7.5, "epsilon": 2.5},
		},
		"repulsive": {
			Description: "inside the repulsive wall",
			Params:      potential.Params{"r": 6.5, "sigma": 7.5, "epsilon": 2.5},
		},
		"argon": {
			Description: "argon dimer",
			Params:      potential.Params{"r": 3.8, "sigma": 3.4, "epsilon": 0.996},
		},
	},
	"coulomb": {
		"ion-pair": {
			Description: "opposite unit charges in vacuum",
			Params:      potential.Params{"q1": 1, "q2": -1, "r": 10, "kappa": 1},
		},
		"like": {
			Description: "like charges repel",
			Params:      potential.Params{"q1": 1, "q2": 1, "r": 5, "kappa": 1},
		},
		"water": {
			Description: "ion pair screened by water",
			Params:      potential.Params{"q1": 1, "q2": -1, "r": 5, "kappa": 80},
		},
		"neutral": {
			Description: "one uncharged atom",
			Params:      potential.Params{"q1": 0, "q2": 1, "r": 5, "kappa": 1},
		},
	},
}

func GetPreset(model, preset string) *Preset {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return p
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
