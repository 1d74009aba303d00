package potential

import (
	"math"

	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/geometry"
)

const (
	AngleMin  = 10.0  // degrees
	AngleMax  = 180.0 // degrees
	AngleMinK = 10.0  // kJ/(mol·deg²)
	AngleMaxK = 100.0 // kJ/(mol·deg²)
)

// vertex layout of the angle diagram, unit bond length
const (
	angleVertexX = 2.2
	angleVertexY = 2.5
	angleArcR    = 0.3
)

// AnglePotential is the harmonic bend energy 0.5·kθ·(θ−θ0)², kJ/mol.
func AnglePotential(theta, theta0, k float64) float64 {
	d := theta - theta0
	return 0.5 * k * d * d
}

// AngleForce is −dU/dθ in N/mol.
func AngleForce(theta, theta0, k float64) float64 {
	return -k * (theta - theta0) * MolarForceFactor
}

// Angle models three bonded atoms bending about the middle one.
type Angle struct {
	Spring  geometry.Spring
	ArcStep float64
}

func NewAngle() *Angle {
	return &Angle{
		Spring:  geometry.Spring{Coils: 6, Radius: 0.1, Tie: 0.2, Step: geometry.DefaultStep},
		ArcStep: geometry.DefaultStep,
	}
}

func (m *Angle) Name() string  { return "angle" }
func (m *Angle) Title() string { return "Angle Potential" }

func (m *Angle) Domain() Domain {
	theta0 := halfSpan(AngleMin, AngleMax, 1)
	return Domain{
		Sweep: "theta",
		Params: []ParamSpec{
			{Name: "theta", Symbol: "θ", Unit: "deg", Min: AngleMin, Max: AngleMax, Step: 1, Default: theta0},
			{Name: "theta0", Symbol: "θ₀", Unit: "deg", Min: AngleMin, Max: AngleMax, Step: 1, Default: theta0},
			{Name: "ktheta", Symbol: "K_θ", Unit: "kJ/mol/deg²", Min: AngleMinK, Max: AngleMaxK, Step: 1, Default: halfSpan(AngleMinK, AngleMaxK, 1)},
		},
	}
}

func (m *Angle) Potential(p Params) float64 {
	return AnglePotential(p["theta"], p["theta0"], p["ktheta"])
}

func (m *Angle) Force(p Params) float64 {
	return AngleForce(p["theta"], p["theta0"], p["ktheta"])
}

func (m *Angle) Profile(p Params) Profile {
	theta0, k := p["theta0"], p["ktheta"]
	return func(theta float64) (float64, float64) {
		return AnglePotential(theta, theta0, k), AngleForce(theta, theta0, k)
	}
}

func (m *Angle) Axes() axis.Axes {
	return harmonicAxes(m.Domain(), "theta0", "ktheta", AnglePotential, AngleForce)
}

func (m *Angle) Labels() Labels {
	return Labels{X: "θ (degrees)", Energy: "Potential Energy (kJ/mol)", Force: "Force (N/mol)"}
}

func (m *Angle) Diagram(p Params) (*Diagram, error) {
	f, err := diagramCheck(m, p)
	if err != nil {
		return nil, err
	}

	half := p["theta"] * math.Pi / 360
	width, height := math.Sin(half), math.Cos(half)
	vertex := geometry.Pt(angleVertexX, angleVertexY)
	left := geometry.Pt(vertex.X-width, vertex.Y-height)
	right := geometry.Pt(vertex.X+width, vertex.Y-height)

	from, to := -math.Pi/2-half, -math.Pi/2+half
	arc := geometry.Arc(vertex, angleArcR, from, to, geometry.ArcSteps(angleArcR, from, to, m.ArcStep))

	// most negative force in the domain: widest angle against the tightest rest angle
	var length float64
	if worst := AngleForce(AngleMax, AngleMin, p["ktheta"]); worst != 0 {
		length = clampMagnitude(f/(bondArrowHeadroom*worst), 1)
	}
	// the arrow is tangent to the swing of each outer atom; its sign
	// decides whether the tip sits before or after the atom
	phi := math.Atan2(height, width)
	tip := geometry.Pt(length*math.Sin(phi), -length*math.Cos(phi))

	spring := m.Spring.Layout(left.X, right.X, left.Y)
	connectors := []geometry.Path{
		{vertex, left},
		{vertex, right},
		arc,
	}
	connectors = append(connectors, spring.Paths()...)

	return &Diagram{
		Model:      m.Name(),
		Atoms:      []geometry.Point{vertex, left, right},
		AtomLabels: []string{"", "", ""},
		Connectors: connectors,
		Arrows: []geometry.Segment{
			{Start: left, End: left.Add(tip)},
			{Start: right, End: geometry.Pt(right.X-tip.X, right.Y+tip.Y)},
		},
		Annotations: []Annotation{{At: geometry.Pt(angleVertexX, 2), Text: "θ"}},
		Caption:     forceCaption(f, "N/mol"),
		Bounds:      geometry.Rect{Min: geometry.Pt(1, 1.3), Max: geometry.Pt(3.4, 2.7)},
	}, nil
}
