package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/potential"
)

// Document is the JSON export of one model evaluation.
type Document struct {
	Model   string             `json:"model"`
	Params  potential.Params   `json:"params"`
	Samples int                `json:"samples"`
	Series  *curve.Series      `json:"curve"`
	Diagram *potential.Diagram `json:"diagram,omitempty"`
}

// NewDocument bundles a series and, optionally, its diagram.
func NewDocument(p potential.Params, s *curve.Series, d *potential.Diagram) Document {
	return Document{
		Model:   s.Model,
		Params:  p,
		Samples: s.Len(),
		Series:  s,
		Diagram: d,
	}
}

// WriteJSON encodes v with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes one row per sample: the swept variable, energy, force.
func WriteCSV(w io.Writer, s *curve.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{s.Sweep, "energy", "force"}); err != nil {
		return err
	}
	for i := range s.Xs {
		row := []string{
			formatFloat(s.Xs[i]),
			formatFloat(s.Energies[i]),
			formatFloat(s.Forces[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRows writes a header and rows of numbers, for sweep tables.
func WriteRows(w io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = formatFloat(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
