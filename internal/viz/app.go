package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/forcefield/internal/config"
	"github.com/san-kum/forcefield/internal/curve"
	"github.com/san-kum/forcefield/internal/potential"
	"github.com/san-kum/forcefield/internal/render"
)

var modelInfo = map[string]string{
	"bond":    "harmonic bond stretch",
	"angle":   "harmonic angle bend",
	"lj":      "van der Waals pair",
	"coulomb": "screened electrostatics",
}

const (
	stateMenu = iota
	stateExplore
)

const (
	canvasCols  = 48
	canvasRows  = 10
	chartWidth  = 56
	chartHeight = 8
	barWidth    = 20
	// coarse moves jump this many slider steps
	coarseSteps = 10
)

type tickMsg time.Time

// App is the slider explorer: a model menu, then one model's sliders,
// diagram and curves.
type App struct {
	registry *potential.Registry
	cfg      *config.Config

	state, cursor int
	models        []string

	model       potential.Model
	params      potential.Params
	paramCursor int
	presets     []string
	preset      int

	frame   *render.Frame
	sample  potential.Sample
	err     error
	arrows  arrowSpring
	ticking bool

	canvas        *Canvas
	theme         Theme
	styles        styles
	width, height int
}

// NewApp builds the explorer over the registered models.
func NewApp(cfg *config.Config, registry *potential.Registry) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	theme := GetTheme(cfg.TUI.Theme)
	a := &App{
		registry: registry,
		cfg:      cfg,
		state:    stateMenu,
		models:   registry.Names(),
		preset:   -1,
		arrows:   newArrowSpring(cfg.TUI.FPS),
		canvas:   NewCanvas(canvasCols, canvasRows),
		theme:    theme,
		styles:   newStyles(theme),
		width:    100,
		height:   40,
	}
	for i, name := range a.models {
		if name == cfg.Model {
			a.cursor = i
		}
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tickMsg:
		if a.state == stateExplore && a.arrows.step() {
			return a, a.tick()
		}
		a.ticking = false
	}
	return a, nil
}

func (a *App) tick() tea.Cmd {
	a.ticking = true
	fps := a.cfg.TUI.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

// animate starts the frame clock unless it is already running.
func (a *App) animate() tea.Cmd {
	if a.ticking {
		return nil
	}
	return a.tick()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateExplore:
		return a.exploreKey(msg)
	}
	return a, nil
}

func (a *App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.models)-1 {
			a.cursor++
		}
	case "t":
		a.setTheme(NextTheme(a.theme.Name))
	case "enter", " ":
		if err := a.open(a.models[a.cursor]); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.animate()
	}
	return a, nil
}

func (a *App) exploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	specs := a.model.Domain().Params
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "backspace":
		a.state, a.err = stateMenu, nil
		return a, nil
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
		return a, nil
	case "down", "j", "tab":
		if a.paramCursor < len(specs)-1 {
			a.paramCursor++
		}
		return a, nil
	case "left", "h":
		a.nudge(specs[a.paramCursor], -1)
	case "right", "l":
		a.nudge(specs[a.paramCursor], 1)
	case "H", "shift+left":
		a.nudge(specs[a.paramCursor], -coarseSteps)
	case "L", "shift+right":
		a.nudge(specs[a.paramCursor], coarseSteps)
	case "p":
		if len(a.presets) == 0 {
			return a, nil
		}
		a.preset = (a.preset + 1) % len(a.presets)
		p, err := a.cfg.Resolve(a.model, a.presets[a.preset], nil)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.params = p
	case "r":
		p, err := a.cfg.Resolve(a.model, "", nil)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.params, a.preset = p, -1
	case "t":
		a.setTheme(NextTheme(a.theme.Name))
		return a, nil
	default:
		return a, nil
	}
	a.refresh()
	return a, a.animate()
}

// open switches to the explorer for the named model.
func (a *App) open(name string) error {
	m, err := a.registry.Get(name)
	if err != nil {
		return err
	}
	p, err := a.cfg.Resolve(m, "", nil)
	if err != nil {
		return err
	}
	a.model, a.params = m, p
	a.frame, a.sample, a.err = nil, potential.Sample{}, nil
	a.paramCursor, a.preset = 0, -1
	a.presets = config.ListPresets(name)
	a.arrows = newArrowSpring(a.cfg.TUI.FPS)
	a.state = stateExplore
	a.refresh()
	return nil
}

// nudge moves one slider by steps of its step size.
func (a *App) nudge(spec potential.ParamSpec, steps int) {
	a.params[spec.Name] = spec.Snap(a.params[spec.Name] + float64(steps)*spec.Step)
	a.preset = -1
}

// refresh recomputes the frame for the current parameters. On failure the
// previous frame stays on screen next to the error.
func (a *App) refresh() {
	frame, err := render.Build(a.model, a.params, curve.WithStep(a.cfg.SampleStep))
	if err != nil {
		a.err = err
		return
	}
	sample, err := potential.Evaluate(a.model, a.params)
	if err != nil {
		a.err = err
		return
	}
	a.frame, a.sample, a.err = frame, sample, nil
	a.arrows.target(frame.Diagram)
}

func (a *App) setTheme(t Theme) {
	a.theme, a.styles = t, newStyles(t)
}

func (a *App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateExplore:
		return a.viewExplore()
	}
	return ""
}

func (a *App) viewMenu() string {
	s := a.styles
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("FORCEFIELD", a.theme.Primary, a.theme.Accent) + "\n")
	b.WriteString("    " + s.muted.Render("molecular force-field terms") + "\n")
	b.WriteString("    " + s.Separator(27) + "\n\n")
	for i, name := range a.models {
		title := name
		if m, err := a.registry.Get(name); err == nil {
			title = m.Title()
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", s.selected.Render("▸"), s.text.Bold(true).Render(fmt.Sprintf("%-24s", title)), s.selected.Render(modelInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", s.muted.Render(fmt.Sprintf("  %-24s", title)), s.muted.Render(modelInfo[name])))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + s.err.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + a.hints("j/k", "navigate", "enter", "select", "t", "theme", "q", "quit") + "\n")
	return b.String()
}

func (a *App) viewExplore() string {
	s := a.styles
	var b strings.Builder

	b.WriteString(s.header.Render(strings.ToUpper(a.model.Title())) + "\n")
	status := s.muted.Render(modelInfo[a.model.Name()])
	if a.preset >= 0 {
		status += s.muted.Render("  preset ") + s.selected.Render(a.presets[a.preset])
	}
	b.WriteString(status + "\n\n")

	b.WriteString(a.viewSliders() + "\n")

	diagram := a.viewDiagram()
	readout := a.viewReadout()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, s.panel.Render(diagram), "  ", readout) + "\n")

	if a.frame != nil {
		energy, force := Plots(a.frame.Series, chartWidth, chartHeight)
		b.WriteString(s.potential.Render(energy) + "\n\n")
		b.WriteString(s.force.Render(force) + "\n")
	}
	if a.err != nil {
		b.WriteString("\n" + s.err.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n" + a.hints("j/k", "slider", "h/l", "adjust", "H/L", "coarse", "p", "preset", "r", "reset", "t", "theme", "esc", "back", "q", "quit") + "\n")
	return b.String()
}

func (a *App) viewSliders() string {
	s := a.styles
	var b strings.Builder
	for i, spec := range a.model.Domain().Params {
		v := a.params[spec.Name]
		bar := SliderBar(v, spec.Min, spec.Max, barWidth)
		label := fmt.Sprintf("%-4s", spec.Symbol)
		value := fmt.Sprintf("%8.2f %s", v, spec.Unit)
		if i == a.paramCursor {
			b.WriteString(fmt.Sprintf("%s %s %s %s\n", s.selected.Render("▸"), s.text.Bold(true).Render(label), s.selected.Render(bar), s.text.Render(value)))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", s.muted.Render(label), s.muted.Render(bar), s.muted.Render(value)))
		}
	}
	return b.String()
}

// viewDiagram draws the current diagram with its eased arrows.
func (a *App) viewDiagram() string {
	if a.frame == nil {
		return ""
	}
	d := withArrows(a.frame.Diagram, a.arrows.offsets())
	DrawDiagram(a.canvas, d)
	return a.styles.text.Render(d.Caption) + "\n" + a.styles.atom.Render(a.canvas.String())
}

func (a *App) viewReadout() string {
	if a.frame == nil {
		return ""
	}
	s := a.styles
	labels := a.model.Labels()
	sweep := a.model.Domain().SweepSpec()
	row := func(name, value string) string {
		return s.muted.Render(fmt.Sprintf("%-8s", name)) + s.text.Render(value) + "\n"
	}
	var b strings.Builder
	b.WriteString(row(sweep.Symbol, fmt.Sprintf("%.2f %s", a.params[sweep.Name], sweep.Unit)))
	b.WriteString(row("energy", fmt.Sprintf("%.3e", a.sample.Energy)))
	b.WriteString(row("force", fmt.Sprintf("%.3e", a.sample.Force)))
	b.WriteString(row("samples", fmt.Sprintf("%d", a.frame.Series.Len())))
	b.WriteString("\n" + s.potential.Render("━ "+labels.Energy) + "\n")
	b.WriteString(s.force.Render("━ "+labels.Force) + "\n")
	return b.String()
}

func (a *App) hints(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, a.styles.key.Render(pairs[i])+a.styles.muted.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// RunInteractive starts the explorer in the alternate screen.
func RunInteractive(cfg *config.Config, registry *potential.Registry) error {
	_, err := tea.NewProgram(NewApp(cfg, registry), tea.WithAltScreen()).Run()
	return err
}
