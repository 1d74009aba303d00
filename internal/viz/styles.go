package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles of one theme.
type styles struct {
	title, header, text, muted, selected, key lipgloss.Style
	potential, force, atom, err               lipgloss.Style
	panel                                     lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:     fg(t.Primary).Bold(true),
		header:    fg(t.Text).Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(t.Muted),
		text:      fg(t.Text),
		muted:     fg(t.Muted),
		selected:  fg(t.Accent).Bold(true),
		key:       fg(t.Primary).Bold(true),
		potential: fg(t.Potential),
		force:     fg(t.Force),
		atom:      fg(t.Atom),
		err:       fg(t.Error).Bold(true),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
	}
}

// SliderBar draws the position of v within [min, max] as a bar of width
// cells.
func SliderBar(v, min, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	ratio := 0.0
	if max > min {
		ratio = (v - min) / (max - min)
	}
	ratio = math.Max(0, math.Min(1, ratio))
	knob := int(math.Round(ratio * float64(width-1)))
	return strings.Repeat("─", knob) + "●" + strings.Repeat("─", width-1-knob)
}

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

// Separator is a muted horizontal rule.
func (s styles) Separator(width int) string {
	if width < 1 {
		return ""
	}
	return s.muted.Render(strings.Repeat("─", width))
}

// Helper functions
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
