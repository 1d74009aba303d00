package export

// Colours shared by the SVG writers.
const (
	ColorBackground = "#0a0a0a"
	ColorText       = "#c3c3c3"
	ColorPotential  = "#B09ADB"
	ColorForce      = "#E2C458"
	ColorMarker     = "#E6526A"
	ColorAtom       = "#5B9BD5"
	ColorGrid       = "#2a2a2a"
)
