package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/forcefield/internal/geometry"
	"github.com/san-kum/forcefield/internal/potential"
)

const (
	springFrequency = 6.0
	springDamping   = 0.8
	// settled is the distance below which an eased value snaps to its target.
	settled = 1e-3
)

// arrowSpring eases the arrow vectors of a diagram towards their targets so
// slider moves animate instead of jumping.
type arrowSpring struct {
	spring  harmonica.Spring
	pos     []float64
	vel     []float64
	targets []float64
}

func newArrowSpring(fps int) arrowSpring {
	if fps <= 0 {
		fps = 30
	}
	return arrowSpring{spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping)}
}

// target sets the arrow vectors of d as the new goal. A change in arrow
// count restarts the animation from zero length.
func (s *arrowSpring) target(d *potential.Diagram) {
	if d == nil {
		s.targets = s.targets[:0]
		return
	}
	n := 2 * len(d.Arrows)
	if len(s.pos) != n {
		s.pos = make([]float64, n)
		s.vel = make([]float64, n)
	}
	s.targets = make([]float64, n)
	for i, a := range d.Arrows {
		off := a.End.Sub(a.Start)
		s.targets[2*i], s.targets[2*i+1] = off.X, off.Y
	}
}

// step advances the animation one frame and reports whether it is still
// moving.
func (s *arrowSpring) step() bool {
	moving := false
	for i := range s.targets {
		p, v := s.spring.Update(s.pos[i], s.vel[i], s.targets[i])
		if math.Abs(p-s.targets[i]) < settled && math.Abs(v) < settled {
			p, v = s.targets[i], 0
		} else {
			moving = true
		}
		s.pos[i], s.vel[i] = p, v
	}
	return moving
}

// offsets returns the current eased arrow vectors.
func (s *arrowSpring) offsets() []geometry.Point {
	pts := make([]geometry.Point, len(s.targets)/2)
	for i := range pts {
		pts[i] = geometry.Pt(s.pos[2*i], s.pos[2*i+1])
	}
	return pts
}
