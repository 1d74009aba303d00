package viz

import (
	"math"
	"strings"

	"github.com/san-kum/forcefield/internal/geometry"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBlank = 0x2800
	brailleLast  = 0x28FF
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Dots returns the canvas size in sub-pixels, (Width*2) x (Height*4).
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// cell returns the grid cell holding sub-pixel (x, y), or false when it is
// off the canvas or covered by text.
func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	if r := c.Grid[row][col]; r < brailleBlank || r > brailleLast {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

// Lit reports whether the pixel at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Disc fills a circle of radius r around (cx, cy).
func (c *Canvas) Disc(cx, cy, r int) {
	c.eachInCircle(cx, cy, r, c.Set)
}

// Ring draws a circle outline, clearing whatever was inside it.
func (c *Canvas) Ring(cx, cy, r int) {
	c.eachInCircle(cx, cy, r, func(x, y int) {
		dx, dy := x-cx, y-cy
		if (dx*dx+dy*dy)*4 > (2*r-1)*(2*r-1) {
			c.Set(x, y)
		} else {
			c.Unset(x, y)
		}
	})
}

func (c *Canvas) eachInCircle(cx, cy, r int, fn func(x, y int)) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				fn(x, y)
			}
		}
	}
}

// Text writes s into the character grid starting at cell (col, row).
// Covered cells take no further dots.
func (c *Canvas) Text(col, row int, s string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Grid[row][col] = r
		}
		col++
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a world rectangle onto a canvas with y pointing up,
// keeping the aspect ratio and centring the slack.
type Viewport struct {
	World  geometry.Rect
	scale  float64
	dx, dy float64
	height int
}

// Fit returns the viewport that shows world on c.
func (c *Canvas) Fit(world geometry.Rect) Viewport {
	w, h := c.Dots()
	v := Viewport{World: world, height: h}
	if world.Width() <= 0 || world.Height() <= 0 {
		return v
	}
	v.scale = math.Min(float64(w-1)/world.Width(), float64(h-1)/world.Height())
	v.dx = (float64(w-1) - world.Width()*v.scale) / 2
	v.dy = (float64(h-1) - world.Height()*v.scale) / 2
	return v
}

// Project converts a world point to sub-pixel coordinates.
func (v Viewport) Project(p geometry.Point) (int, int) {
	x := v.dx + (p.X-v.World.Min.X)*v.scale
	y := v.dy + (v.World.Max.Y-p.Y)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// Scale is the number of sub-pixels per world unit.
func (v Viewport) Scale() float64 {
	return v.scale
}

// Segment draws a world-space line.
func (c *Canvas) Segment(v Viewport, a, b geometry.Point) {
	x0, y0 := v.Project(a)
	x1, y1 := v.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

// Path draws a world-space polyline.
func (c *Canvas) Path(v Viewport, path geometry.Path) {
	for i := 1; i < len(path); i++ {
		c.Segment(v, path[i-1], path[i])
	}
	if len(path) == 1 {
		c.Set(v.Project(path[0]))
	}
}

// Arrow draws a world-space segment with a head of head sub-pixels at its
// end. Zero-length arrows draw nothing.
func (c *Canvas) Arrow(v Viewport, s geometry.Segment, head float64) {
	x0, y0 := v.Project(s.Start)
	x1, y1 := v.Project(s.End)
	if x0 == x1 && y0 == y1 {
		return
	}
	c.DrawLine(x0, y0, x1, y1)

	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	for _, side := range []float64{-1, 1} {
		a := angle + math.Pi + side*math.Pi/6
		hx := x1 + int(math.Round(head*math.Cos(a)))
		hy := y1 + int(math.Round(head*math.Sin(a)))
		c.DrawLine(x1, y1, hx, hy)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
