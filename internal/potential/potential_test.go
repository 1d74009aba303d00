package potential

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestHarmonicSymmetry(t *testing.T) {
	tests := []struct {
		name string
		u    func(x, x0, k float64) float64
		x0   float64
		k    float64
		ds   []float64
	}{
		{"bond", BondPotential, 7, 450, []float64{0.1, 1, 3.3, 6}},
		{"angle", AnglePotential, 95, 45, []float64{1, 10, 42.5, 85}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, d := range tt.ds {
				up := tt.u(tt.x0+d, tt.x0, tt.k)
				down := tt.u(tt.x0-d, tt.x0, tt.k)
				if math.Abs(up-down) > 1e-9*math.Abs(up) {
					t.Errorf("d=%g: U(x0+d)=%g, U(x0-d)=%g", d, up, down)
				}
			}
		})
	}
}

// derivative is the central finite difference of f at x.
func derivative(f func(float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

func TestForceIsNegativeGradient(t *testing.T) {
	tests := []struct {
		name   string
		model  Model
		params Params
		points []float64
		factor float64
	}{
		{"bond", NewBond(), Params{"b0": 7, "kb": 450}, []float64{2, 5.5, 9, 14}, MolarForceFactor},
		{"angle", NewAngle(), Params{"theta0": 85, "ktheta": 45}, []float64{20, 60, 120, 170}, MolarForceFactor},
		{"lj", NewLennardJones(), Params{"sigma": 3, "epsilon": 1}, []float64{2.8, 3.1, 4.5, 7}, MolarForceFactor},
		{"coulomb", NewCoulomb(), Params{"q1": 0.5, "q2": -0.8, "kappa": 20}, []float64{2.5, 4, 8, 14}, 1 / (kiloJoule * Angstrom)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweep := tt.model.Domain().Sweep
			for _, x := range tt.points {
				p := tt.params.With(sweep, x)
				u := func(v float64) float64 { return tt.model.Potential(p.With(sweep, v)) }
				want := -derivative(u, x) * tt.factor
				got := tt.model.Force(p)
				if math.Abs(got-want) > 0.01*math.Abs(want) {
					t.Errorf("%s=%g: force %g, -dU/dx %g", sweep, x, got, want)
				}
			}
		})
	}
}

func TestHarmonicEquilibrium(t *testing.T) {
	g := NewWithT(t)

	g.Expect(BondPotential(8, 8, 550)).To(BeNumerically("==", 0))
	g.Expect(BondForce(8, 8, 550)).To(BeNumerically("==", 0))
	g.Expect(AnglePotential(109, 109, 60)).To(BeNumerically("==", 0))
	g.Expect(AngleForce(109, 109, 60)).To(BeNumerically("==", 0))
}

func TestHarmonicForceDirection(t *testing.T) {
	g := NewWithT(t)

	// stretched bonds pull back, compressed ones push out
	g.Expect(BondForce(10, 7, 450)).To(BeNumerically("<", 0))
	g.Expect(BondForce(4, 7, 450)).To(BeNumerically(">", 0))
	g.Expect(AngleForce(120, 85, 45)).To(BeNumerically("<", 0))
	g.Expect(AngleForce(60, 85, 45)).To(BeNumerically(">", 0))
}

func TestLJOptimum(t *testing.T) {
	g := NewWithT(t)

	const sigma, epsilon = 7.5, 2.5
	r := LJOptimumRatio * sigma

	g.Expect(math.Abs(LJForce(r, sigma, epsilon))).To(BeNumerically("<", 1e-6*MolarForceFactor))
	g.Expect(LJPotential(r, sigma, epsilon)).To(BeNumerically("~", -epsilon, 1e-9))
	g.Expect(LJOptimumRatio).To(BeNumerically("~", 1.122, 1e-3))
}

func TestLJSingleSignChange(t *testing.T) {
	for _, sigma := range []float64{1, 3, 7.5, 12} {
		changes := 0
		prev := 0.0
		for r := LJMinDistance; r < LJMaxDistance; r += 0.01 {
			f := LJForce(r, sigma, 2.5)
			if f == 0 {
				continue
			}
			if prev != 0 && (f > 0) != (prev > 0) {
				changes++
			}
			prev = f
		}
		if changes != 1 {
			t.Errorf("sigma=%g: %d sign changes, want 1", sigma, changes)
		}
	}
}

func TestCoulombSign(t *testing.T) {
	tests := []struct {
		name   string
		q1, q2 float64
		sign   float64
	}{
		{"like positive", 1, 0.5, 1},
		{"like negative", -0.3, -1, 1},
		{"opposite", 1, -1, -1},
		{"opposite reversed", -0.2, 0.7, -1},
		{"zero first", 0, 1, 0},
		{"zero second", -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			f := CoulombForce(tt.q1, tt.q2, 5, 10)
			switch {
			case tt.sign > 0:
				g.Expect(f).To(BeNumerically(">", 0))
			case tt.sign < 0:
				g.Expect(f).To(BeNumerically("<", 0))
			default:
				g.Expect(f).To(BeNumerically("==", 0))
			}
		})
	}
}

func TestCoulombUnits(t *testing.T) {
	g := NewWithT(t)

	// full charges, 2 Å, vacuum
	g.Expect(CoulombForce(1, 1, 2, 1)).To(BeNumerically("~", 5.768e-9, 1e-11))
	g.Expect(CoulombPotential(1, 1, 2, 1)).To(BeNumerically("~", 1.1536e-21, 1e-24))
}

func TestDefaultParams(t *testing.T) {
	tests := []struct {
		model Model
		want  Params
	}{
		{NewBond(), Params{"b": 7, "b0": 7, "kb": 450}},
		{NewAngle(), Params{"theta": 85, "theta0": 85, "ktheta": 45}},
		{NewLennardJones(), Params{"r": 7.9, "sigma": 7, "epsilon": 2.5}},
		{NewCoulomb(), Params{"q1": 0.5, "q2": -0.5, "r": 6.5, "kappa": 50}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			g := NewWithT(t)
			got := DefaultParams(tt.model.Domain())
			g.Expect(got).To(HaveLen(len(tt.want)))
			for k, v := range tt.want {
				g.Expect(got).To(HaveKeyWithValue(k, BeNumerically("~", v, 1e-12)))
			}
			g.Expect(Validate(tt.model.Domain(), got)).To(Succeed())
		})
	}
}

func TestValidate(t *testing.T) {
	g := NewWithT(t)
	d := NewBond().Domain()

	err := Validate(d, Params{"b": 1, "b0": 1, "kb": 100, "r": 2})
	g.Expect(errors.Is(err, ErrUnknownParam)).To(BeTrue())

	err = Validate(d, Params{"b": 1, "kb": 100})
	g.Expect(errors.Is(err, ErrMissingParam)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring("b0"))
}

func TestMerge(t *testing.T) {
	g := NewWithT(t)
	d := NewLennardJones().Domain()

	p, err := Merge(d, Params{"sigma": 7.5})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p["sigma"]).To(Equal(7.5))
	g.Expect(p["epsilon"]).To(Equal(2.5))

	_, err = Merge(d, Params{"kappa": 1})
	g.Expect(errors.Is(err, ErrUnknownParam)).To(BeTrue())
}

func TestParamSpecSnap(t *testing.T) {
	s := ParamSpec{Min: 1, Max: 15, Step: 0.1}
	tests := []struct {
		in, want float64
	}{
		{7.857, 7.9},
		{0.2, 1},
		{99, 15},
		{3.04, 3},
	}
	for _, tt := range tests {
		if got := s.Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestEvaluateSingularity(t *testing.T) {
	tests := []struct {
		model Model
		p     Params
	}{
		{NewLennardJones(), Params{"r": 0, "sigma": 3, "epsilon": 1}},
		{NewCoulomb(), Params{"q1": 1, "q2": 1, "r": 0, "kappa": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			g := NewWithT(t)
			_, err := Evaluate(tt.model, tt.p)
			g.Expect(errors.Is(err, ErrDivisionSingularity)).To(BeTrue())

			var evalErr *EvalError
			g.Expect(errors.As(err, &evalErr)).To(BeTrue())
			g.Expect(evalErr.Param).To(Equal("r"))

			_, err = tt.model.Diagram(tt.p)
			g.Expect(errors.Is(err, ErrDivisionSingularity)).To(BeTrue())
		})
	}
}

func TestAxes(t *testing.T) {
	tests := []struct {
		model        Model
		energyTick   float64
		energyBounds [2]float64
		forceTick    float64
		forceBounds  [2]float64
	}{
		{NewBond(), 4e4, [2]float64{-4e4, 12e4}, 1e17, [2]float64{-2e17, 2e17}},
		{NewAngle(), 5e5, [2]float64{-5e5, 15e5}, 1e17, [2]float64{-2e17, 2e17}},
		{NewLennardJones(), 5, [2]float64{-10, 15}, 6e13, [2]float64{-12e13, 18e13}},
		{NewCoulomb(), 1e-21, [2]float64{-2e-21, 2e-21}, 3e-9, [2]float64{-6e-9, 6e-9}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			g := NewWithT(t)
			a := tt.model.Axes()
			rel := func(v float64) float64 { return 1e-9 * math.Abs(v) }

			g.Expect(a.Energy.Tick).To(BeNumerically("~", tt.energyTick, rel(tt.energyTick)))
			g.Expect(a.Energy.Min).To(BeNumerically("~", tt.energyBounds[0], rel(tt.energyBounds[0])))
			g.Expect(a.Energy.Max).To(BeNumerically("~", tt.energyBounds[1], rel(tt.energyBounds[1])))
			g.Expect(a.Force.Tick).To(BeNumerically("~", tt.forceTick, rel(tt.forceTick)))
			g.Expect(a.Force.Min).To(BeNumerically("~", tt.forceBounds[0], rel(tt.forceBounds[0])))
			g.Expect(a.Force.Max).To(BeNumerically("~", tt.forceBounds[1], rel(tt.forceBounds[1])))
		})
	}
}

func TestRegistry(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	g.Expect(r.Names()).To(Equal([]string{"bond", "angle", "lj", "coulomb"}))
	g.Expect(r.Default().Name()).To(Equal("bond"))
	for _, m := range r.All() {
		got, err := r.Get(m.Name())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(got.Name()).To(Equal(m.Name()))
	}

	_, err := r.Get("morse")
	g.Expect(errors.Is(err, ErrUnknownModel)).To(BeTrue())
}

func TestRegistryRegister(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	r.Register("stiff-bond", func() Model { return NewBond() })
	r.Register("argon", func() Model { return NewLennardJones() })
	g.Expect(r.Names()).To(Equal([]string{"bond", "angle", "lj", "coulomb", "argon", "stiff-bond"}))

	m, err := r.Get("argon")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Name()).To(Equal("lj"))

	r.Register("bond", func() Model { return NewCoulomb() })
	m, err = r.Get("bond")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Name()).To(Equal("coulomb"), "register replaces")
	g.Expect(r.All()).To(HaveLen(6))
}

func TestDomainClamp(t *testing.T) {
	g := NewWithT(t)
	d := NewBond().Domain()
	kb, _ := d.Spec("kb")

	p := DefaultParams(d).With("kb", kb.Max*10).With("b0", -1e9)
	c := d.Clamp(p)

	g.Expect(c["kb"]).To(Equal(kb.Max))
	g.Expect(c["b0"]).To(Equal(d.Params[1].Min))
	g.Expect(c["b"]).To(Equal(p["b"]))
	g.Expect(p["kb"]).To(Equal(kb.Max*10), "input is not modified")
}
