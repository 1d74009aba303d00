package potential

import (
	"math"

	"github.com/san-kum/forcefield/internal/axis"
)

// SI conversions used by the Coulomb model.
const (
	ElementaryCharge = 1.60218e-19 // C per e
	Angstrom         = 1e-10       // m per Å
	CoulombConstant  = 8.988e9     // N·m²/C²
	kiloJoule        = 1e-3        // kJ per J
)

const (
	CoulombMinDistance = 2.0  // Å
	CoulombMaxDistance = 15.0 // Å
	CoulombMaxCharge   = 1.0  // e
	CoulombMaxKappa    = 100.0
)

// CoulombPotential is k·q1·q2/(r·κ) in kJ, with charges in e and r in Å.
func CoulombPotential(q1, q2, r, kappa float64) float64 {
	c1, c2, d := q1*ElementaryCharge, q2*ElementaryCharge, r*Angstrom
	return CoulombConstant * c1 * c2 / (d * kappa) * kiloJoule
}

// CoulombForce is k·q1·q2/(r²·κ) in N for a single pair. Unlike the
// bonded terms it is per particle, not per mole, so no 1e13 factor is
// applied. Positive is repulsive: like charges push apart. An older form
// of this function carried a leading minus; the repulsive-positive sign
// matches the other models.
func CoulombForce(q1, q2, r, kappa float64) float64 {
	c1, c2, d := q1*ElementaryCharge, q2*ElementaryCharge, r*Angstrom
	return CoulombConstant * c1 * c2 / (d * d * kappa)
}

// Coulomb models two point charges in a dielectric.
type Coulomb struct{}

func NewCoulomb() *Coulomb {
	return &Coulomb{}
}

func (m *Coulomb) Name() string  { return "coulomb" }
func (m *Coulomb) Title() string { return "Coulomb Potential" }

func (m *Coulomb) Domain() Domain {
	return Domain{
		Sweep: "r",
		Params: []ParamSpec{
			{Name: "q1", Symbol: "q₁", Unit: "e", Min: -CoulombMaxCharge, Max: CoulombMaxCharge, Step: 0.1, Default: 0.5},
			{Name: "q2", Symbol: "q₂", Unit: "e", Min: -CoulombMaxCharge, Max: CoulombMaxCharge, Step: 0.1, Default: -0.5},
			{Name: "r", Symbol: "r", Unit: "Å", Min: CoulombMinDistance, Max: CoulombMaxDistance, Step: 0.1, Default: halfSpan(CoulombMinDistance, CoulombMaxDistance, 0.1)},
			{Name: "kappa", Symbol: "κ", Unit: "", Min: 1, Max: CoulombMaxKappa, Step: 1, Default: halfSpan(1, CoulombMaxKappa, 1)},
		},
	}
}

func (m *Coulomb) Potential(p Params) float64 {
	return CoulombPotential(p["q1"], p["q2"], p["r"], p["kappa"])
}

func (m *Coulomb) Force(p Params) float64 {
	return CoulombForce(p["q1"], p["q2"], p["r"], p["kappa"])
}

func (m *Coulomb) Profile(p Params) Profile {
	q1, q2, kappa := p["q1"], p["q2"], p["kappa"]
	return func(r float64) (float64, float64) {
		return CoulombPotential(q1, q2, r, kappa), CoulombForce(q1, q2, r, kappa)
	}
}

// extremes returns |U| and |F| for the strongest pair: full charges at
// the closest distance in vacuum.
func (m *Coulomb) extremes() (energy, force float64) {
	d := m.Domain()
	r := d.SweepSpec()
	q, _ := d.Spec("q1")
	kappa, _ := d.Spec("kappa")
	return math.Abs(CoulombPotential(q.Max, q.Max, r.Min, kappa.Min)),
		math.Abs(CoulombForce(q.Max, q.Max, r.Min, kappa.Min))
}

func (m *Coulomb) Axes() axis.Axes {
	energy, force := m.extremes()
	return axis.Axes{
		Energy: axis.NewScale(axis.Tick(energy, axis.Half), 2, 2),
		Force:  axis.NewScale(axis.Tick(force, axis.Half), 2, 2),
	}
}

func (m *Coulomb) Labels() Labels {
	return Labels{X: "r (Å)", Energy: "Potential Energy (kJ)", Force: "Force (N)"}
}

// Diagram labels each atom with its charge sign. Attractive arrows point
// inwards and are stopped at the midpoint so they never cross.
func (m *Coulomb) Diagram(p Params) (*Diagram, error) {
	f, err := diagramCheck(m, p)
	if err != nil {
		return nil, err
	}

	r := p["r"]
	_, worst := m.extremes()
	span := CoulombMaxDistance - CoulombMinDistance

	var length float64
	if worst != 0 {
		length = -f * span / worst
	}
	if length > r/2 {
		length = r / 2
	}
	length = clampMagnitude(length, span)

	labels := []string{chargeLabel(p["q1"]), chargeLabel(p["q2"])}
	return pairDiagram(m.Name(), CoulombMaxDistance, r, length, labels, forceCaption(f, "N")), nil
}

func chargeLabel(q float64) string {
	switch {
	case q > 0:
		return "+"
	case q < 0:
		return "-"
	}
	return ""
}
