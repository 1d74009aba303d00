package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/forcefield/internal/export"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Potential lipgloss.Color
	Force     lipgloss.Color
	Atom      lipgloss.Color
	Error     lipgloss.Color
}

// Available themes
var (
	// ThemeDefault matches the exported SVG palette.
	ThemeDefault = Theme{
		Name:      "default",
		Primary:   lipgloss.Color(export.ColorPotential),
		Accent:    lipgloss.Color(export.ColorMarker),
		Text:      lipgloss.Color(export.ColorText),
		Muted:     lipgloss.Color("#666666"),
		Potential: lipgloss.Color(export.ColorPotential),
		Force:     lipgloss.Color(export.ColorForce),
		Atom:      lipgloss.Color(export.ColorAtom),
		Error:     lipgloss.Color("#ff4757"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Potential: lipgloss.Color("#00cc00"),
		Force:     lipgloss.Color("#ffff00"),
		Atom:      lipgloss.Color("#88ff88"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Potential: lipgloss.Color("#cccccc"),
		Force:     lipgloss.Color("#0088ff"),
		Atom:      lipgloss.Color("#ffffff"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"), // Ocean blue
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Potential: lipgloss.Color("#00a8cc"),
		Force:     lipgloss.Color("#ffcc00"),
		Atom:      lipgloss.Color("#00ff88"),
		Error:     lipgloss.Color("#ff4444"),
	}

	// All available themes
	Themes = []Theme{
		ThemeDefault,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
