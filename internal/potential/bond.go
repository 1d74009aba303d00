package potential

import (
	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/geometry"
)

const (
	BondMinLength = 1.0    // Å
	BondMaxLength = 15.0   // Å
	BondMinK      = 100.0  // kJ/(mol·Å²)
	BondMaxK      = 1000.0 // kJ/(mol·Å²)

	// arrow reach at the most repulsive configuration, relative to the span
	bondArrowHeadroom = 1.1
)

// BondPotential is the harmonic stretch energy 0.5·kb·(b−b0)², kJ/mol.
func BondPotential(b, b0, kb float64) float64 {
	d := b - b0
	return 0.5 * kb * d * d
}

// BondForce is −dU/db in N/mol.
func BondForce(b, b0, kb float64) float64 {
	return -kb * (b - b0) * MolarForceFactor
}

// Bond models two bonded atoms joined by a harmonic spring.
type Bond struct {
	Spring geometry.Spring
}

func NewBond() *Bond {
	return &Bond{
		Spring: geometry.Spring{Coils: 3, Radius: 0.25, Tie: 1, Step: geometry.DefaultStep},
	}
}

func (m *Bond) Name() string  { return "bond" }
func (m *Bond) Title() string { return "Bond Potential" }

func (m *Bond) Domain() Domain {
	b0 := halfSpan(BondMinLength, BondMaxLength, 0.1)
	return Domain{
		Sweep: "b",
		Params: []ParamSpec{
			{Name: "b", Symbol: "b", Unit: "Å", Min: BondMinLength, Max: BondMaxLength, Step: 0.1, Default: b0},
			{Name: "b0", Symbol: "b₀", Unit: "Å", Min: BondMinLength, Max: BondMaxLength, Step: 0.1, Default: b0},
			{Name: "kb", Symbol: "K_b", Unit: "kJ/mol/Å²", Min: BondMinK, Max: BondMaxK, Step: 0.0001, Default: halfSpan(BondMinK, BondMaxK, 0.0001)},
		},
	}
}

func (m *Bond) Potential(p Params) float64 {
	return BondPotential(p["b"], p["b0"], p["kb"])
}

func (m *Bond) Force(p Params) float64 {
	return BondForce(p["b"], p["b0"], p["kb"])
}

func (m *Bond) Profile(p Params) Profile {
	b0, kb := p["b0"], p["kb"]
	return func(b float64) (float64, float64) {
		return BondPotential(b, b0, kb), BondForce(b, b0, kb)
	}
}

func (m *Bond) Axes() axis.Axes {
	return harmonicAxes(m.Domain(), "b0", "kb", BondPotential, BondForce)
}

func (m *Bond) Labels() Labels {
	return Labels{X: "b (Å)", Energy: "Potential Energy (kJ/mol)", Force: "Force (N/mol)"}
}

func (m *Bond) Diagram(p Params) (*Diagram, error) {
	f, err := diagramCheck(m, p)
	if err != nil {
		return nil, err
	}

	b := p["b"]
	mid := 2 + BondMaxLength
	const y = 1.5
	left, right := mid-b/2, mid+b/2

	span := BondMaxLength - BondMinLength
	var length float64
	if worst := BondForce(BondMinLength, BondMaxLength, p["kb"]); worst != 0 {
		length = clampMagnitude(-f*span/(bondArrowHeadroom*worst), span)
	}

	spring := m.Spring.Layout(left, right, y)
	return &Diagram{
		Model:      m.Name(),
		Atoms:      []geometry.Point{geometry.Pt(left, y), geometry.Pt(right, y)},
		AtomLabels: []string{"", ""},
		Connectors: spring.Paths(),
		Arrows: []geometry.Segment{
			{Start: geometry.Pt(left, y), End: geometry.Pt(left+length, y)},
			{Start: geometry.Pt(right, y), End: geometry.Pt(right-length, y)},
		},
		Caption: forceCaption(f, "N/mol"),
		Bounds:  geometry.Rect{Min: geometry.Pt(1, 1), Max: geometry.Pt(3+2*BondMaxLength, 2)},
	}, nil
}

// harmonicAxes scales the bond and angle charts from their steepest
// corner: smallest x, largest x0, stiffest k.
func harmonicAxes(d Domain, eq, k string, u, f func(x, x0, k float64) float64) axis.Axes {
	x := d.SweepSpec()
	x0, _ := d.Spec(eq)
	ks, _ := d.Spec(k)

	energyTick := axis.Tick(u(x.Min, x0.Max, ks.Max)/3, axis.Whole)
	forceTick := axis.Tick(f(x.Min, x0.Max, ks.Max), axis.Half)
	return axis.Axes{
		Energy: axis.NewScale(energyTick, 1, 3),
		Force:  axis.NewScale(forceTick, 2, 2),
	}
}
