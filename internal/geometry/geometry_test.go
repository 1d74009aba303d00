package geometry

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestPolar(t *testing.T) {
	tests := []struct {
		length, angle float64
		expected      Point
	}{
		{1, 0, Pt(1, 0)},
		{2, math.Pi / 2, Pt(0, 2)},
		{1, math.Pi, Pt(-1, 0)},
		{-1, 0, Pt(-1, 0)},
	}

	for _, tt := range tests {
		got := Polar(tt.length, tt.angle)
		if got.Sub(tt.expected).Length() > 1e-12 {
			t.Errorf("Polar(%v, %v) = %v, want %v", tt.length, tt.angle, got, tt.expected)
		}
	}
}

func TestPathBounds(t *testing.T) {
	g := NewWithT(t)

	p := Path{Pt(1, 2), Pt(-1, 5), Pt(3, 0)}
	b := p.Bounds()
	g.Expect(b.Min).To(Equal(Pt(-1, 0)))
	g.Expect(b.Max).To(Equal(Pt(3, 5)))
	g.Expect(Path{}.Bounds()).To(Equal(Rect{}))

	moved := p.Translate(Pt(1, 1))
	g.Expect(moved[0]).To(Equal(Pt(2, 3)))
	g.Expect(p[0]).To(Equal(Pt(1, 2)), "translate must not mutate the receiver")
}

func TestSpringCoil(t *testing.T) {
	g := NewWithT(t)

	s := Spring{Coils: 3, Radius: 0.25, Tie: 1, Step: 0.001}
	coil := s.Coil()

	g.Expect(coil.First()).To(Equal(Pt(0, 0.25)))
	b := coil.Bounds()
	g.Expect(b.Min.Y).To(BeNumerically("~", 0, 1e-9))
	g.Expect(b.Max.Y).To(BeNumerically("~", 0.5, 1e-6))
	g.Expect(coil.Last().X).To(Equal(b.Max.X))
	g.Expect(coil.Last().Y).To(BeNumerically("~", 0.25, 1e-9))

	for _, p := range coil {
		g.Expect(p.IsFinite()).To(BeTrue())
	}
}

func TestSpringLayout(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
	}{
		{"stretched", 2, 30},
		{"rest", 13, 21},
		{"compressed", 16, 18.5},
	}

	s := Spring{Coils: 3, Radius: 0.25, Tie: 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			shape := s.Layout(tt.left, tt.right, 1.5)

			wantSpan := tt.right - tt.left - 2
			g.Expect(shape.CoilSpan).To(BeNumerically("~", wantSpan, 1e-12))
			g.Expect(shape.Coil.First().X).To(BeNumerically("~", tt.left+1, 1e-12))
			g.Expect(shape.Coil.Last().X).To(BeNumerically("~", tt.right-1, 1e-9))
			g.Expect(shape.Coil.First().Y).To(BeNumerically("~", 1.5, 1e-12))
			g.Expect(shape.LeftTie.Length()).To(BeNumerically("~", 1, 1e-12))
			g.Expect(shape.RightTie.Length()).To(BeNumerically("~", 1, 1e-12))
			g.Expect(shape.Paths()).To(HaveLen(3))
		})
	}
}

func TestArc(t *testing.T) {
	g := NewWithT(t)

	center := Pt(2.2, 2.5)
	half := math.Pi / 6
	from, to := -math.Pi/2-half, -math.Pi/2+half
	arc := Arc(center, 0.3, from, to, ArcSteps(0.3, from, to, 0.001))

	g.Expect(len(arc)).To(BeNumerically(">", 100))
	for _, p := range arc {
		g.Expect(p.Sub(center).Length()).To(BeNumerically("~", 0.3, 1e-12))
		g.Expect(p.Y).To(BeNumerically("<", center.Y))
	}
	g.Expect(arc.First().X).To(BeNumerically("~", center.X-0.3*math.Sin(half), 1e-12))
	g.Expect(arc.Last().X).To(BeNumerically("~", center.X+0.3*math.Sin(half), 1e-12))
}
