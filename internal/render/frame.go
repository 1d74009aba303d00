// Package render produces everything a shell needs to redraw one model:
// its curves and its diagram, computed side by side.
package render

import (
	"fmt"
	"sync"

	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/potential"
)

// Frame is one redraw of a model at one set of parameters.
type Frame struct {
	Model   string             `json:"model"`
	Title   string             `json:"title"`
	Params  potential.Params   `json:"params"`
	Series  *curve.Series      `json:"curve"`
	Diagram *potential.Diagram `json:"diagram"`
}

// Build computes the curve series and diagram concurrently. Both are pure,
// so the order they finish in does not matter.
func Build(m potential.Model, p potential.Params, opts ...curve.Option) (*Frame, error) {
	var (
		wg         sync.WaitGroup
		series     *curve.Series
		diagram    *potential.Diagram
		curveErr   error
		diagramErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		series, curveErr = curve.Build(m, p, opts...)
	}()
	go func() {
		defer wg.Done()
		diagram, diagramErr = m.Diagram(p)
	}()
	wg.Wait()

	if curveErr != nil {
		return nil, fmt.Errorf("curve: %w", curveErr)
	}
	if diagramErr != nil {
		return nil, fmt.Errorf("diagram: %w", diagramErr)
	}

	return &Frame{
		Model:   m.Name(),
		Title:   m.Title(),
		Params:  p.Clone(),
		Series:  series,
		Diagram: diagram,
	}, nil
}
