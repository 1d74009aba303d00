package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/forcefield/internal/automation"
	"github.com/san-kum/forcefield/internal/config"
	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/export"
	"github.com/san-kum/forcefield/internal/logging"
	"github.com/san-kum/forcefield/internal/metrics"
	"github.com/san-kum/forcefield/internal/optim"
	"github.com/san-kum/forcefield/internal/potential"
	"github.com/san-kum/forcefield/internal/server"
	"github.com/san-kum/forcefield/internal/viz"
	"github.com/spf13/cobra"
)

const terminalDiagramCols = 60

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(export.ColorPotential)).Bold(true)

// env is what every command starts from.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *potential.Registry
}

func setup() (*env, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logging.New(level, cfg.Log.Format)
	if configFile != "" {
		log.Debug("config loaded", "path", configFile, "model", cfg.Model)
	}

	return &env{cfg: cfg, log: log, registry: potential.NewRegistry()}, nil
}

// parseSets turns repeated name=value flags into parameter overrides.
func parseSets(raw []string) (potential.Params, error) {
	p := make(potential.Params, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		p[strings.TrimSpace(name)] = v
	}
	return p, nil
}

// model picks the model named in args, or the configured one, and resolves
// its parameters from config, --preset and --set.
func (e *env) model(args []string) (potential.Model, potential.Params, error) {
	name := e.cfg.Model
	if len(args) > 0 {
		name = args[0]
	}
	m, err := e.registry.Get(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (available: %s)", err, strings.Join(e.registry.Names(), ", "))
	}
	overrides, err := parseSets(sets)
	if err != nil {
		return nil, nil, err
	}
	p, err := e.cfg.Resolve(m, preset, overrides)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}

func (e *env) series(m potential.Model, p potential.Params) (*curve.Series, error) {
	s := e.cfg.SampleStep
	if step > 0 {
		s = step
	}
	return curve.Build(m, p, curve.WithStep(s))
}

// writeOut sends output to --output when set, stdout otherwise.
func writeOut(write func(io.Writer) error) error {
	if output == "" {
		return write(os.Stdout)
	}
	return export.WriteFile(output, write)
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	return viz.RunInteractive(e.cfg, e.registry)
}

func listModels(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	for i, m := range e.registry.All() {
		if i > 0 {
			fmt.Println()
		}
		d := m.Domain()
		fmt.Printf("%s  %s (sweeps %s)\n", titleStyle.Render(m.Name()), m.Title(), d.Sweep)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  PARAM\tSYMBOL\tUNIT\tMIN\tMAX\tSTEP\tDEFAULT")
		for _, s := range d.Params {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%g\t%g\t%g\t%g\n", s.Name, s.Symbol, s.Unit, s.Min, s.Max, s.Step, s.Default)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func evalModel(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}

	sample, err := potential.Evaluate(m, p)
	if err != nil {
		return err
	}
	d, err := m.Diagram(p)
	if err != nil {
		return err
	}

	labels := m.Labels()
	fmt.Println(titleStyle.Render(m.Title()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range m.Domain().Names() {
		fmt.Fprintf(w, "%s\t%g\n", name, p[name])
	}
	fmt.Fprintf(w, "%s\t%.6e\n", labels.Energy, sample.Energy)
	fmt.Fprintf(w, "%s\t%.6e\n", labels.Force, sample.Force)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println(d.Caption)
	return nil
}

func plotModel(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	s, err := e.series(m, p)
	if err != nil {
		return err
	}

	fmt.Printf("model: %s\n", m.Title())
	fmt.Printf("samples: %d\n", s.Len())
	fmt.Printf("marker: %s = %g, energy %.4e, force %.4e\n\n", s.Sweep, s.MarkerX, s.MarkerEnergy, s.MarkerForce)

	energy, force := viz.Plots(s, width, height)
	fmt.Println(energy)
	fmt.Println()
	fmt.Println(force)
	return nil
}

func drawDiagram(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	d, err := m.Diagram(p)
	if err != nil {
		return err
	}

	if svgOut {
		return writeOut(func(w io.Writer) error {
			return export.WriteSVG(w, export.DiagramToSVG(d, width))
		})
	}

	cols := terminalDiagramCols
	if cmd.Flags().Changed("width") {
		cols = width
	}
	c := viz.NewCanvas(cols, cols/4)
	viz.DrawDiagram(c, d)

	if brailleSVG {
		return writeOut(func(w io.Writer) error {
			return export.WriteSVG(w, export.BrailleToSVG(c.Grid, 4, export.ColorText))
		})
	}
	return writeOut(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n%s", d.Caption, c.String())
		return err
	})
}

func curveSVG(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	s, err := e.series(m, p)
	if err != nil {
		return err
	}
	return writeOut(func(w io.Writer) error {
		return export.WriteSVG(w, export.SeriesToSVG(s, width, height))
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	s, err := e.series(m, p)
	if err != nil {
		return err
	}
	return writeOut(func(w io.Writer) error { return export.WriteCSV(w, s) })
}

func exportJSON(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	s, err := e.series(m, p)
	if err != nil {
		return err
	}
	d, err := m.Diagram(p)
	if err != nil {
		return err
	}
	return writeOut(func(w io.Writer) error { return export.WriteJSON(w, export.NewDocument(p, s, d)) })
}

func sweepModel(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}

	param := sweepParam
	if param == "" {
		param = m.Domain().Sweep
	}
	spec, ok := m.Domain().Spec(param)
	if !ok {
		return fmt.Errorf("%w: %s", potential.ErrUnknownParam, param)
	}
	lo, hi := spec.Min, spec.Max
	if cmd.Flags().Changed("min") {
		lo = sweepMin
	}
	if cmd.Flags().Changed("max") {
		hi = sweepMax
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Model:     m.Name(),
		ParamName: param,
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  sweepSteps,
		Base:      p,
	}, e.registry)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %s in [%g, %g]\n\n", m.Name(), param, lo, hi)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tFORCE\tMIN ENERGY\tMAX ENERGY\n", strings.ToUpper(param))
	energies := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Singular {
			fmt.Fprintf(w, "%g\tsingular\t\t\t\n", r.ParamValue)
			continue
		}
		fmt.Fprintf(w, "%g\t%.4e\t%.4e\t%.4e\t%.4e\n", r.ParamValue, r.Energy, r.Force, r.MinEnergy, r.MaxEnergy)
		energies = append(energies, r.Energy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(energies) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energies,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("energy vs %s", param)),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, runErr := automation.RunScenario(cmd.Context(), sc, e.registry, e.cfg, e.log)

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tENERGY\tFORCE\tCAPTION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.4e\t%.4e\t%s\n", r.Step, r.Model, r.Sample.Energy, r.Sample.Force, r.Caption)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	name := e.cfg.Model
	if len(args) > 0 {
		name = args[0]
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Model:     name,
		NumTrials: trials,
		Seed:      seed,
	}, e.registry, e.log)
	if err != nil {
		return err
	}

	stats := automation.Summarize(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", name)
	fmt.Fprintf(w, "trials\t%d\n", stats.Trials)
	fmt.Fprintf(w, "singular\t%d\n", stats.Singular)
	fmt.Fprintf(w, "energy\t[%.4e, %.4e]\n", stats.MinEnergy, stats.MaxEnergy)
	fmt.Fprintf(w, "force\t[%.4e, %.4e]\n", stats.MinForce, stats.MaxForce)
	return w.Flush()
}

// parseVary turns name=min:max:points into one grid axis.
func parseVary(raw string) (string, []float64, error) {
	name, spec, ok := strings.Cut(raw, "=")
	parts := strings.Split(spec, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid --vary %q: want name=min:max:points", raw)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid --vary %q: %w", raw, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid --vary %q: %w", raw, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("invalid --vary %q: points must be a positive integer", raw)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func minimizeModel(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	m, p, err := e.model(args)
	if err != nil {
		return err
	}
	score, err := optim.GetObjective(objective)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, raw := range vary {
		name, values, err := parseVary(raw)
		if err != nil {
			return err
		}
		names, ranges = append(names, name), append(ranges, values)
	}
	if len(names) == 0 {
		sweep := m.Domain().SweepSpec()
		points := int(math.Round(sweep.Span()/sweep.Step)) + 1
		names, ranges = []string{sweep.Name}, [][]float64{optim.Linspace(sweep.Min, sweep.Max, points)}
	}

	res, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), m, p, score)
	if err != nil {
		return err
	}

	fmt.Printf("minimised %s of %s over %s (%d points, %d singular)\n\n", objective, m.Name(), strings.Join(names, ", "), res.Evaluated, res.Singular)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range m.Domain().Names() {
		fmt.Fprintf(w, "%s\t%g\n", name, res.Params[name])
	}
	fmt.Fprintf(w, "energy\t%.6e\n", res.Sample.Energy)
	fmt.Fprintf(w, "force\t%.6e\n", res.Sample.Force)
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for model: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range presets {
		p := config.GetPreset(args[0], name)
		fmt.Fprintf(w, "  %s\t%s\n", name, p.Description)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	listen := e.cfg.Server.Addr
	if addr != "" {
		listen = addr
	}

	handler := server.NewHandler(&server.Server{
		Registry: e.registry,
		Config:   e.cfg,
		Log:      e.log,
		Metrics:  metrics.New(),
	})
	return server.Run(cmd.Context(), listen, handler, e.log)
}
