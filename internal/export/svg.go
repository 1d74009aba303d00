package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/geometry"
	"github.com/san-kum/forcefield/internal/potential"
)

const (
	atomRadius   = 9.0
	captionSpace = 36.0
	maxSVGPoints = 1200
)

// viewport maps world coordinates to pixels with y pointing down.
type viewport struct {
	world   geometry.Rect
	scale   float64
	offsetY float64
}

func (v viewport) point(p geometry.Point) (float64, float64) {
	return (p.X - v.world.Min.X) * v.scale, v.offsetY + (v.world.Max.Y-p.Y)*v.scale
}

// DiagramToSVG draws a diagram width pixels wide. The height follows the
// diagram's aspect ratio.
func DiagramToSVG(d *potential.Diagram, width int) string {
	if d == nil || width <= 0 {
		return ""
	}

	world := d.Bounds
	pad := 0.05 * math.Max(world.Width(), world.Height())
	world.Min = world.Min.Sub(geometry.Pt(pad, pad))
	world.Max = world.Max.Add(geometry.Pt(pad, pad))

	v := viewport{world: world, scale: float64(width) / world.Width(), offsetY: captionSpace}
	height := captionSpace + world.Height()*v.scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%.0f" viewBox="0 0 %d %.0f">
<defs><marker id="head" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker></defs>
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, ColorForce, ColorBackground))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="16" text-anchor="middle">%s</text>
`, float64(width)/2, captionSpace*0.65, ColorText, escape(d.Caption)))

	sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s" stroke-width="1.5">
`, ColorText))
	for _, path := range d.Connectors {
		writePolyline(&sb, v, path)
	}
	sb.WriteString("</g>\n")

	for i, a := range d.Atoms {
		x, y := v.point(a)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, atomRadius, ColorAtom))
		if i < len(d.AtomLabels) && d.AtomLabels[i] != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>
`, x, y+5, ColorBackground, escape(d.AtomLabels[i])))
		}
	}

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="2.5" marker-end="url(#head)">
`, ColorForce))
	for _, a := range d.Arrows {
		if a.Length() == 0 {
			continue
		}
		x0, y0 := v.point(a.Start)
		x1, y1 := v.point(a.End)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")

	for _, a := range d.Annotations {
		x, y := v.point(a.At)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>
`, x, y, ColorText, escape(a.Text)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws the energy and force charts side by side, each
// panelWidth by panelHeight pixels, on the series' fixed axes.
func SeriesToSVG(s *curve.Series, panelWidth, panelHeight int) string {
	if s == nil || s.Len() < 2 || panelWidth <= 0 || panelHeight <= 0 {
		return ""
	}
	s = s.Downsample(maxSVGPoints)

	width := 2 * panelWidth
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, panelHeight, width, panelHeight, ColorBackground))

	p := panel{x: 0, width: float64(panelWidth), height: float64(panelHeight), xr: s.XRange}
	p.y = s.Axes.Energy
	p.draw(&sb, s.Xs, s.Energies, s.MarkerX, s.MarkerEnergy, s.Labels.Energy, s.Labels.X, ColorPotential)

	p.x = float64(panelWidth)
	p.y = s.Axes.Force
	p.draw(&sb, s.Xs, s.Forces, s.MarkerX, s.MarkerForce, s.Labels.Force, s.Labels.X, ColorForce)

	sb.WriteString("</svg>")
	return sb.String()
}

type panel struct {
	x, width, height float64
	xr               curve.Range
	y                axis.Scale
}

const (
	marginLeft   = 70.0
	marginRight  = 15.0
	marginTop    = 30.0
	marginBottom = 40.0
)

func (p panel) px(x float64) float64 {
	return p.x + marginLeft + (x-p.xr.Min)/(p.xr.Max-p.xr.Min)*(p.width-marginLeft-marginRight)
}

func (p panel) py(y float64) float64 {
	plot := p.height - marginTop - marginBottom
	return marginTop + (p.y.Max-y)/(p.y.Max-p.y.Min)*plot
}

func (p panel) draw(sb *strings.Builder, xs, ys []float64, mx, my float64, title, xLabel, color string) {
	left, right := p.px(p.xr.Min), p.px(p.xr.Max)
	top, bottom := p.py(p.y.Max), p.py(p.y.Min)

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1">
`, ColorGrid))
	for _, t := range p.y.Ticks() {
		y := p.py(t)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, left, y, right, y))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<g fill="%s" font-family="sans-serif" font-size="11" text-anchor="end">
`, ColorText))
	for _, t := range p.y.Ticks() {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>
`, left-6, p.py(t)+4, formatTick(t)))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, left, top, right-left, bottom-top, ColorText))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>
`, (left+right)/2, marginTop-10, ColorText, escape(title)))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="middle">%s</text>
`, (left+right)/2, p.height-10, ColorText, escape(xLabel)))

	// lift the pen wherever the curve leaves the window
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="`, color))
	penDown := false
	for i := range xs {
		if !p.y.Contains(ys[i]) {
			penDown = false
			continue
		}
		cmd := "L"
		if !penDown {
			cmd = "M"
			penDown = true
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, p.px(xs[i]), p.py(ys[i])))
	}
	sb.WriteString("\"/>\n")

	if p.y.Contains(my) && mx >= p.xr.Min && mx <= p.xr.Max {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>
`, p.px(mx), p.py(my), ColorMarker))
	}
}

func writePolyline(sb *strings.Builder, v viewport, path geometry.Path) {
	if len(path) < 2 {
		return
	}
	sb.WriteString(`<polyline points="`)
	for i, p := range path {
		x, y := v.point(p)
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.2f,%.2f", x, y))
	}
	sb.WriteString("\"/>\n")
}

// BrailleToSVG converts a braille rune grid to SVG dots, scale pixels per
// dot.
func BrailleToSVG(grid [][]rune, scale float64, color string) string {
	if len(grid) == 0 {
		return ""
	}

	rows, cols := len(grid), len(grid[0])
	width := float64(cols) * scale * 2
	height := float64(rows) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, ColorBackground, color))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := range grid {
		for col, r := range grid[row] {
			if r <= 0x2800 || r > 0x28FF {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG writes an already rendered document.
func WriteSVG(w io.Writer, svg string) error {
	_, err := io.WriteString(w, svg)
	return err
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e4 || a < 1e-2 {
		return fmt.Sprintf("%.1e", v)
	}
	return fmt.Sprintf("%g", v)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
