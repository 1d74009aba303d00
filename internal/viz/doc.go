// Package viz provides the terminal explorer for the force-field models.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: model menu, then sliders, a diagram and the energy and force
//     curves of the chosen model
//   - [Canvas]: Braille-based pixel canvas the diagram is drawn on
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	j/k  - Select slider
//	h/l  - Move slider one step (H/L ten steps)
//	p    - Cycle presets
//	r    - Reset to defaults
//	t    - Cycle color themes
//	esc  - Back to the menu
//
// Force arrows ease towards their new length after every change.
package viz
