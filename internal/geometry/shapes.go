package geometry

import "math"

// DefaultStep is the x resolution of generated curves, in diagram units.
const DefaultStep = 0.001

// Spring draws a coiled connector seen from the side. Each coil is a
// half circle over the axis followed by a half circle under it, drifting
// forward by one radius so consecutive loops do not overlap. Coils full
// loops are drawn, then a final upper half so the coil ends on the axis.
type Spring struct {
	Coils  int
	Radius float64
	Tie    float64
	Step   float64
}

// SpringShape is a laid-out spring: the coil and the two straight ties
// anchoring it to the atoms.
type SpringShape struct {
	Coil      Path    `json:"coil"`
	LeftTie   Segment `json:"leftTie"`
	RightTie  Segment `json:"rightTie"`
	CoilSpan  float64 `json:"coilSpan"`
	TotalSpan float64 `json:"totalSpan"`
}

func (s Spring) step() float64 {
	if s.Step <= 0 {
		return DefaultStep
	}
	return s.Step
}

// loop returns one coil starting at the origin with its axis at y = Radius.
func (s Spring) loop() Path {
	r, step := s.Radius, s.step()
	n := int(math.Round(2 * r / step))
	if n < 2 {
		n = 2
	}
	pts := make(Path, 0, 2*n)
	for i := 0; i < n; i++ {
		u := float64(i) * step
		pts = append(pts, Pt(u, r+halfChord(r, u-r)))
	}
	for i := 0; i < n; i++ {
		u := float64(i) * step
		pts = append(pts, Pt(2*r-u, r-halfChord(r, u-r)))
	}
	// forward drift of one radius spread across the loop
	last := float64(len(pts) - 1)
	for i := range pts {
		pts[i].X += r * float64(i) / last
	}
	return pts
}

// Coil returns the unscaled coil pattern, x increasing from 0.
func (s Spring) Coil() Path {
	loop := s.loop()
	path := make(Path, 0, len(loop)*(s.Coils+1))
	path = append(path, loop...)
	for i := 1; i < s.Coils; i++ {
		shift := Pt(path.Last().X, 0)
		path = append(path, loop.Translate(shift)...)
	}
	half := len(loop)/2 + 1
	shift := Pt(path.Last().X, 0)
	path = append(path, loop[:half].Translate(shift)...)
	return path
}

// Layout fits the spring between two atoms on the horizontal line y.
// The coil is rescaled so its horizontal extent is exactly
// (right - left) - 2·Tie; when the atoms are closer than two ties the
// span goes negative and the coil is drawn mirrored.
func (s Spring) Layout(left, right, y float64) SpringShape {
	coil := s.Coil()
	maxX := coil.Bounds().Max.X
	span := (right - left) - 2*s.Tie
	start := left + s.Tie

	out := make(Path, len(coil))
	for i, p := range coil {
		out[i] = Pt(start+p.X*span/maxX, p.Y-s.Radius+y)
	}

	return SpringShape{
		Coil:      out,
		LeftTie:   Segment{Start: Pt(left, y), End: Pt(left+s.Tie, y)},
		RightTie:  Segment{Start: Pt(right, y), End: Pt(right-s.Tie, y)},
		CoilSpan:  span,
		TotalSpan: right - left,
	}
}

// Paths returns the ties and the coil as drawable polylines.
func (s SpringShape) Paths() []Path {
	return []Path{s.LeftTie.Path(), s.Coil, s.RightTie.Path()}
}

// Arc samples n+1 points on a circle between two angles (radians).
func Arc(center Point, radius, from, to float64, n int) Path {
	if n < 1 {
		n = 1
	}
	pts := make(Path, n+1)
	for i := 0; i <= n; i++ {
		a := from + (to-from)*float64(i)/float64(n)
		pts[i] = center.Add(Polar(radius, a))
	}
	return pts
}

// ArcSteps picks a sample count for an arc so consecutive points are
// about step apart.
func ArcSteps(radius, from, to, step float64) int {
	if step <= 0 {
		step = DefaultStep
	}
	n := int(math.Ceil(math.Abs(to-from) * radius / step))
	if n < 1 {
		return 1
	}
	return n
}

func halfChord(r, d float64) float64 {
	return math.Sqrt(math.Max(0, r*r-d*d))
}
