package potential

import (
	"math"

	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/geometry"
)

const (
	LJMinDistance = 1.0  // Å
	LJMaxDistance = 15.0 // Å
	LJMaxEpsilon  = 5.0  // kJ/mol

	// ljSweepStep samples the force when scaling its axis.
	ljSweepStep = 0.001
)

// LJOptimumRatio is r/σ at the bottom of the well, 2^(1/6) ≈ 1.122.
var LJOptimumRatio = math.Pow(2, 1.0/6)

// LJPotential is 4ε[(σ/r)¹² − (σ/r)⁶] in kJ/mol.
func LJPotential(r, sigma, epsilon float64) float64 {
	sr6 := math.Pow(sigma/r, 6)
	return 4 * epsilon * (sr6*sr6 - sr6)
}

// LJForce is −dU/dr in N/mol; positive is repulsive.
func LJForce(r, sigma, epsilon float64) float64 {
	s6 := math.Pow(sigma, 6)
	return -4 * epsilon * (s6*s6*-12*math.Pow(r, -13) - s6*-6*math.Pow(r, -7)) * MolarForceFactor
}

// LennardJones models two non-bonded atoms.
type LennardJones struct{}

func NewLennardJones() *LennardJones {
	return &LennardJones{}
}

func (m *LennardJones) Name() string  { return "lj" }
func (m *LennardJones) Title() string { return "Lennard-Jones Potential" }

func (m *LennardJones) Domain() Domain {
	sigma := halfSpan(LJMinDistance, LJMaxDistance, 0.1)
	r := ParamSpec{Name: "r", Symbol: "r", Unit: "Å", Min: LJMinDistance, Max: LJMaxDistance, Step: 0.1}
	r.Default = r.Snap(LJOptimumRatio * sigma)
	return Domain{
		Sweep: "r",
		Params: []ParamSpec{
			r,
			{Name: "sigma", Symbol: "σ", Unit: "Å", Min: LJMinDistance, Max: LJMaxDistance, Step: 0.1, Default: sigma},
			{Name: "epsilon", Symbol: "ε", Unit: "kJ/mol", Min: 0, Max: LJMaxEpsilon, Step: 0.0001, Default: halfSpan(0, LJMaxEpsilon, 0.0001)},
		},
	}
}

func (m *LennardJones) Potential(p Params) float64 {
	return LJPotential(p["r"], p["sigma"], p["epsilon"])
}

func (m *LennardJones) Force(p Params) float64 {
	return LJForce(p["r"], p["sigma"], p["epsilon"])
}

func (m *LennardJones) Profile(p Params) Profile {
	sigma, epsilon := p["sigma"], p["epsilon"]
	return func(r float64) (float64, float64) {
		return LJPotential(r, sigma, epsilon), LJForce(r, sigma, epsilon)
	}
}

// Axes keeps the well in view: energy from −2ε to 3ε at the largest ε,
// force from the deepest attraction of the narrowest, strongest pair.
func (m *LennardJones) Axes() axis.Axes {
	d := m.Domain()
	r := d.SweepSpec()
	sigma, _ := d.Spec("sigma")
	epsilon, _ := d.Spec("epsilon")

	energyTick := axis.Tick((3*epsilon.Max-(-2*epsilon.Max))/6, axis.Whole)

	minForce := math.Inf(1)
	n := int(math.Ceil((r.Max - r.Min) / ljSweepStep))
	for i := 0; i < n; i++ {
		x := r.Min + float64(i)*ljSweepStep
		if x == 0 {
			continue
		}
		minForce = math.Min(minForce, LJForce(x, sigma.Min, epsilon.Max))
	}
	forceTick := axis.Tick(-minForce, axis.TenthHalf)

	return axis.Axes{
		Energy: axis.NewScale(energyTick, 2, 3),
		Force:  axis.NewScale(forceTick, 2, 3),
	}
}

func (m *LennardJones) Labels() Labels {
	return Labels{X: "r (Å)", Energy: "Potential Energy (kJ/mol)", Force: "Force (N/mol)"}
}

// Diagram scales the arrows piecewise around the optimum: repulsion is
// measured against the closest approach, attraction against the far edge.
func (m *LennardJones) Diagram(p Params) (*Diagram, error) {
	f, err := diagramCheck(m, p)
	if err != nil {
		return nil, err
	}

	r := p["r"]
	opt := LJOptimumRatio * p["sigma"]
	delta := r - opt

	var length float64
	switch {
	case delta < 0:
		length = -LJMaxDistance
		if reach := opt - LJMinDistance; reach > 0 {
			length = -LJMaxDistance * (-delta / reach)
		}
	case delta > 0:
		length = LJMaxDistance / 2
		if reach := LJMaxDistance - opt; reach > 0 {
			length = LJMaxDistance * (delta / reach) / 2
		}
	}
	length = clampMagnitude(length, LJMaxDistance)

	return pairDiagram(m.Name(), LJMaxDistance, r, length, []string{"", ""}, forceCaption(f, "N/mol")), nil
}

// pairDiagram lays out two atoms r apart on a shared axis with arrows of
// the given length; positive lengths point inwards.
func pairDiagram(model string, maxR, r, length float64, labels []string, caption string) *Diagram {
	mid := 2 + maxR
	const y = 1.5
	left, right := mid-r/2, mid+r/2

	return &Diagram{
		Model:      model,
		Atoms:      []geometry.Point{geometry.Pt(left, y), geometry.Pt(right, y)},
		AtomLabels: labels,
		Arrows: []geometry.Segment{
			{Start: geometry.Pt(left, y), End: geometry.Pt(left+length, y)},
			{Start: geometry.Pt(right, y), End: geometry.Pt(right-length, y)},
		},
		Caption: caption,
		Bounds:  geometry.Rect{Min: geometry.Pt(1, 1), Max: geometry.Pt(3+2*maxR, 2)},
	}
}
