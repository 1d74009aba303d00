package potential

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestBondDiagramAtRest(t *testing.T) {
	g := NewWithT(t)
	m := NewBond()
	p := Params{"b": 8, "b0": 8, "kb": 550}

	s, err := Evaluate(m, p)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Energy).To(BeNumerically("==", 0))
	g.Expect(s.Force).To(BeNumerically("==", 0))

	d, err := m.Diagram(p)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Atoms).To(HaveLen(2))
	g.Expect(d.Atoms[0].X).To(BeNumerically("~", 13, 1e-12))
	g.Expect(d.Atoms[1].X).To(BeNumerically("~", 21, 1e-12))
	g.Expect(d.Connectors).To(HaveLen(3))

	// coil spans the bond minus the two ties
	coil := d.Connectors[1].Bounds()
	g.Expect(coil.Width()).To(BeNumerically("~", 8-2*m.Spring.Tie, 1e-9))

	for _, a := range d.Arrows {
		g.Expect(a.Length()).To(BeNumerically("==", 0))
	}
	g.Expect(d.Caption).To(Equal("Force = 0.00e+00 N/mol"))
}

func TestBondDiagramArrows(t *testing.T) {
	g := NewWithT(t)
	m := NewBond()

	// stretched: restoring force pulls both atoms inwards
	d, err := m.Diagram(Params{"b": 12, "b0": 7, "kb": 450})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Arrows[0].End.X).To(BeNumerically(">", d.Arrows[0].Start.X))
	g.Expect(d.Arrows[1].End.X).To(BeNumerically("<", d.Arrows[1].Start.X))
	g.Expect(d.Arrows[0].Length()).To(BeNumerically("~", d.Arrows[1].Length(), 1e-12))

	// compressed: pushed outwards
	d, err = m.Diagram(Params{"b": 3, "b0": 7, "kb": 450})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Arrows[0].End.X).To(BeNumerically("<", d.Arrows[0].Start.X))

	// the most repulsive configuration reaches just short of the span
	d, err = m.Diagram(Params{"b": 1, "b0": 15, "kb": 1000})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Arrows[0].Length()).To(BeNumerically("~", 14/1.1, 1e-9))
}

func TestAngleDiagram(t *testing.T) {
	g := NewWithT(t)
	m := NewAngle()

	d, err := m.Diagram(Params{"theta": 90, "theta0": 90, "ktheta": 50})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Atoms).To(HaveLen(3))

	vertex := d.Atoms[0]
	for _, a := range d.Atoms[1:] {
		g.Expect(a.Sub(vertex).Length()).To(BeNumerically("~", 1, 1e-12))
	}
	g.Expect(d.Atoms[1].X).To(BeNumerically("~", 2.2-math.Sqrt2/2, 1e-12))
	g.Expect(d.Atoms[2].Y).To(BeNumerically("~", 2.5-math.Sqrt2/2, 1e-12))

	// arc sits on its radius and ends on the bond rays
	arc := d.Connectors[2]
	for _, p := range arc {
		g.Expect(p.Sub(vertex).Length()).To(BeNumerically("~", 0.3, 1e-9))
	}
	first := arc.First().Sub(vertex)
	g.Expect(first.X).To(BeNumerically("~", -0.3*math.Sqrt2/2, 1e-9))

	g.Expect(d.Annotations).To(HaveLen(1))
	g.Expect(d.Annotations[0].Text).To(Equal("θ"))
	g.Expect(d.Annotations[0].At.Y).To(BeNumerically("~", 2, 1e-12))
	for _, a := range d.Arrows {
		g.Expect(a.Length()).To(BeNumerically("==", 0))
	}
}

func TestAngleDiagramArrowsMirror(t *testing.T) {
	g := NewWithT(t)
	m := NewAngle()

	d, err := m.Diagram(Params{"theta": 140, "theta0": 85, "ktheta": 45})
	g.Expect(err).NotTo(HaveOccurred())

	left, right := d.Arrows[0], d.Arrows[1]
	g.Expect(left.Length()).To(BeNumerically(">", 0))
	g.Expect(left.Length()).To(BeNumerically("~", right.Length(), 1e-12))

	dl := left.End.Sub(left.Start)
	dr := right.End.Sub(right.Start)
	g.Expect(dl.X).To(BeNumerically("~", -dr.X, 1e-12))
	g.Expect(dl.Y).To(BeNumerically("~", dr.Y, 1e-12))

	// opened past rest: outer atoms are pushed back together
	g.Expect(dl.X).To(BeNumerically(">", 0))
}

func TestLJDiagram(t *testing.T) {
	g := NewWithT(t)
	m := NewLennardJones()

	at := func(r float64) [2]float64 {
		d, err := m.Diagram(Params{"r": r, "sigma": 3, "epsilon": 1})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(d.Connectors).To(BeEmpty())
		return [2]float64{d.Arrows[0].End.X - d.Arrows[0].Start.X, d.Arrows[1].End.X - d.Arrows[1].Start.X}
	}

	opt := at(LJOptimumRatio * 3)
	g.Expect(opt[0]).To(BeNumerically("~", 0, 1e-12))

	near := at(2)
	g.Expect(near[0]).To(BeNumerically("<", 0))
	g.Expect(near[1]).To(BeNumerically(">", 0))

	far := at(10)
	g.Expect(far[0]).To(BeNumerically(">", 0))
	g.Expect(far[1]).To(BeNumerically("<", 0))

	// closest approach saturates
	g.Expect(at(LJMinDistance)[0]).To(BeNumerically("~", -LJMaxDistance, 1e-9))
}

func TestCoulombScenario(t *testing.T) {
	g := NewWithT(t)
	m := NewCoulomb()
	p := Params{"q1": 1, "q2": -1, "r": 10, "kappa": 1}

	s, err := Evaluate(m, p)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Energy).To(BeNumerically("<", 0))
	g.Expect(s.Force).To(BeNumerically("<", 0))

	d, err := m.Diagram(p)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.AtomLabels).To(Equal([]string{"+", "-"}))
	g.Expect(d.Connectors).To(BeEmpty())
	g.Expect(d.Arrows[0].End.X).To(BeNumerically(">", d.Arrows[0].Start.X))
	g.Expect(d.Caption).To(HavePrefix("Force = -"))
	g.Expect(d.Caption).To(HaveSuffix(" N"))
}

func TestCoulombArrowsStopAtMidpoint(t *testing.T) {
	g := NewWithT(t)
	m := NewCoulomb()

	d, err := m.Diagram(Params{"q1": 1, "q2": -1, "r": 2, "kappa": 1})
	g.Expect(err).NotTo(HaveOccurred())
	mid := (d.Atoms[0].X + d.Atoms[1].X) / 2
	g.Expect(d.Arrows[0].End.X).To(BeNumerically("~", mid, 1e-12))
	g.Expect(d.Arrows[1].End.X).To(BeNumerically("~", mid, 1e-12))

	d, err = m.Diagram(Params{"q1": 0, "q2": 1, "r": 5, "kappa": 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.AtomLabels).To(Equal([]string{"", "+"}))
	g.Expect(d.Arrows[0].Length()).To(BeNumerically("==", 0))
}

func TestDiagramsInsideBounds(t *testing.T) {
	for _, m := range NewRegistry().All() {
		t.Run(m.Name(), func(t *testing.T) {
			g := NewWithT(t)
			d, err := m.Diagram(DefaultParams(m.Domain()))
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(d.Model).To(Equal(m.Name()))
			g.Expect(d.AtomLabels).To(HaveLen(len(d.Atoms)))
			for _, a := range d.Atoms {
				g.Expect(d.Bounds.Contains(a)).To(BeTrue(), "atom %v outside %v", a, d.Bounds)
			}
			g.Expect(d.ArrowStarts()).To(HaveLen(len(d.Arrows)))
			g.Expect(d.ArrowEnds()).To(HaveLen(len(d.Arrows)))
		})
	}
}
