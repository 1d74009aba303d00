package geometry

import "math"

// Point is a position in diagram coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the distance of p from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// IsFinite reports whether both coordinates are finite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Polar returns the vector of the given length at angle (radians,
// counter-clockwise from +x).
func Polar(length, angle float64) Point {
	s, c := math.Sincos(angle)
	return Point{X: length * c, Y: length * s}
}

// Segment is a straight line, used for arrows and tie lines.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Length()
}

// Path returns the segment as a two-point polyline.
func (s Segment) Path() Path {
	return Path{s.Start, s.End}
}

// Rect is an axis-aligned viewport.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Path is an ordered polyline.
type Path []Point

// Translate returns a copy of the path moved by d.
func (p Path) Translate(d Point) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// Bounds returns the smallest rectangle holding every point.
func (p Path) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		r.Min.X = math.Min(r.Min.X, pt.X)
		r.Min.Y = math.Min(r.Min.Y, pt.Y)
		r.Max.X = math.Max(r.Max.X, pt.X)
		r.Max.Y = math.Max(r.Max.Y, pt.Y)
	}
	return r
}

// First and Last return the endpoints; both are zero for an empty path.
func (p Path) First() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0]
}

func (p Path) Last() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1]
}
