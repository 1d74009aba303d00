package viz

import (
	"github.com/san-kum/forcefield/internal/geometry"
	"github.com/san-kum/forcefield/internal/potential"
)

const (
	atomDots  = 3
	arrowHead = 3
)

// DrawDiagram renders d onto c, fitted to the diagram's bounds. Atom labels
// and annotations are written as text over the dots.
func DrawDiagram(c *Canvas, d *potential.Diagram) {
	c.Clear()
	if d == nil {
		return
	}
	v := c.Fit(d.Bounds)

	for _, path := range d.Connectors {
		c.Path(v, path)
	}
	for _, a := range d.Atoms {
		x, y := v.Project(a)
		c.Ring(x, y, atomDots)
	}
	for _, a := range d.Arrows {
		c.Arrow(v, a, arrowHead)
	}
	for i, a := range d.Atoms {
		if i < len(d.AtomLabels) && d.AtomLabels[i] != "" {
			x, y := v.Project(a)
			c.Text(x/2, y/4, d.AtomLabels[i])
		}
	}
	for _, a := range d.Annotations {
		x, y := v.Project(a.At)
		c.Text(x/2, y/4, a.Text)
	}
}

// withArrows returns a shallow copy of d whose arrows keep their starts
// and end at start plus the given offsets.
func withArrows(d *potential.Diagram, offsets []geometry.Point) *potential.Diagram {
	if d == nil {
		return nil
	}
	out := *d
	out.Arrows = make([]geometry.Segment, len(d.Arrows))
	for i, a := range d.Arrows {
		end := a.End
		if i < len(offsets) {
			end = a.Start.Add(offsets[i])
		}
		out.Arrows[i] = geometry.Segment{Start: a.Start, End: end}
	}
	return &out
}
