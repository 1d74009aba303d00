package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// global
	configFile string
	logLevel   string
	logFormat  string

	// model selection
	sets   []string
	preset string
	step   float64
	output string

	// rendering
	svgOut     bool
	brailleSVG bool
	width      int
	height     int

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	// montecarlo
	trials int
	seed   int64

	// minimize
	vary      []string
	objective string

	// serve
	addr string
)

// main registers the commands and flags and runs the explorer TUI when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "forcefield",
		Short:        "molecular force-field potential explorer",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and their parameters",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	evalCmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "evaluate potential and force",
		Args:  cobra.MaximumNArgs(1),
		RunE:  evalModel,
	}
	modelFlags(evalCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "plot energy and force curves",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotModel,
	}
	modelFlags(plotCmd)
	plotCmd.Flags().Float64Var(&step, "step", 0, "sweep step (default from config)")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width in columns")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height in rows")

	diagramCmd := &cobra.Command{
		Use:   "diagram [model]",
		Short: "draw the atom diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE:  drawDiagram,
	}
	modelFlags(diagramCmd)
	outputFlag(diagramCmd)
	diagramCmd.Flags().BoolVar(&svgOut, "svg", false, "write SVG instead of drawing in the terminal")
	diagramCmd.Flags().BoolVar(&brailleSVG, "braille-svg", false, "write the terminal drawing as SVG dots")
	diagramCmd.Flags().IntVar(&width, "width", 480, "SVG width in pixels, or terminal columns")

	curveSVGCmd := &cobra.Command{
		Use:   "curve-svg [model]",
		Short: "write the energy and force charts as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  curveSVG,
	}
	modelFlags(curveSVGCmd)
	outputFlag(curveSVGCmd)
	curveSVGCmd.Flags().Float64Var(&step, "step", 0, "sweep step (default from config)")
	curveSVGCmd.Flags().IntVar(&width, "width", 480, "panel width in pixels")
	curveSVGCmd.Flags().IntVar(&height, "height", 320, "panel height in pixels")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [model]",
		Short: "export the curve samples to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	modelFlags(exportCSVCmd)
	outputFlag(exportCSVCmd)
	exportCSVCmd.Flags().Float64Var(&step, "step", 0, "sweep step (default from config)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [model]",
		Short: "export curve and diagram to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	modelFlags(exportJSONCmd)
	outputFlag(exportJSONCmd)
	exportJSONCmd.Flags().Float64Var(&step, "step", 0, "sweep step (default from config)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one parameter and tabulate energy and force",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepModel,
	}
	modelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep (default: the curve variable)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "start value (default: slider minimum)")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "end value (default: slider maximum)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of points")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of evaluations and checks",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:     "montecarlo [model]",
		Aliases: []string{"sample"},
		Short:   "evaluate random points of a model's domain",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 1000, "number of random evaluations")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	minimizeCmd := &cobra.Command{
		Use:   "minimize [model]",
		Short: "grid search parameters for the lowest energy or force",
		Args:  cobra.MaximumNArgs(1),
		RunE:  minimizeModel,
	}
	modelFlags(minimizeCmd)
	minimizeCmd.Flags().StringArrayVar(&vary, "vary", nil, "grid name=min:max:points (repeatable, default: the curve variable)")
	minimizeCmd.Flags().StringVar(&objective, "objective", "energy", "what to minimise (energy, force)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(modelsCmd, evalCmd, plotCmd, diagramCmd, curveSVGCmd, exportCSVCmd, exportJSONCmd, sweepCmd, scenarioCmd, monteCarloCmd, minimizeCmd, presetsCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func modelFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&sets, "set", nil, "parameter override name=value (repeatable)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
}

func outputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
}
