package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/buoysim/internal/fluid"
)

const (
	width           = 72
	height          = 22
	fps             = 60
	historyCapacity = 600
	nudge           = 0.02
)

type TickMsg time.Time

// Builder creates a fresh model; the live view calls it again on reset.
type Builder func() (*fluid.Model, error)

// Live steps a model in real time and renders it.
type Live struct {
	name     string
	build    Builder
	model    *fluid.Model
	dt       float64
	canvas   *Canvas
	proj     projection
	levels   *springField
	running  bool
	bodies   []int
	selected int
	history  []float64
	showHelp bool
	err      error
}

func NewLive(name string, build Builder, dt float64) (Live, error) {
	l := Live{
		name:    name,
		build:   build,
		dt:      dt,
		canvas:  NewCanvas(width, height),
		running: true,
	}
	sf := newSpringField(fps, 6.0, 1.0)
	l.levels = &sf
	if err := l.reset(); err != nil {
		return Live{}, err
	}
	return l, nil
}

func (l *Live) reset() error {
	model, err := l.build()
	if err != nil {
		return err
	}
	l.model = model
	l.proj = newProjection(model, l.canvas)
	l.levels.reset()
	l.history = l.history[:0]
	l.err = nil

	l.bodies = l.bodies[:0]
	for i, m := range model.Masses() {
		if m.Visible() && m.Movable() {
			l.bodies = append(l.bodies, i)
		}
	}
	l.selected = 0
	return nil
}

// Model exposes the running scene.
func (l Live) Model() *fluid.Model { return l.model }

// Selected is the index of the selected mass, or -1.
func (l Live) Selected() int {
	if len(l.bodies) == 0 {
		return -1
	}
	return l.bodies[l.selected]
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (l Live) Init() tea.Cmd {
	return tick()
}

func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "r":
			if err := l.reset(); err != nil {
				l.err = err
			}
		case "tab":
			if len(l.bodies) > 0 {
				l.selected = (l.selected + 1) % len(l.bodies)
				l.history = l.history[:0]
			}
		case "up", "k":
			l.move(nudge)
		case "down", "j":
			l.move(-nudge)
		case "+", "=":
			l.scaleMass(1.1)
		case "-", "_":
			l.scaleMass(1 / 1.1)
		case "t":
			NextTheme()
		case "?":
			l.showHelp = !l.showHelp
		}
	case TickMsg:
		if l.running {
			l.step()
		}
		return l, tick()
	}
	return l, nil
}

func (l *Live) step() {
	snap, err := l.model.Step(l.dt)
	if err != nil {
		l.err = err
		l.running = false
		return
	}
	if i := l.Selected(); i >= 0 {
		l.history = append(l.history, snap.Masses[i].Position.Y())
		if len(l.history) > historyCapacity {
			l.history = l.history[1:]
		}
	}
}

func (l *Live) move(dy float64) {
	i := l.Selected()
	if i < 0 {
		return
	}
	m := l.model.MassAt(i)
	if err := l.model.SetPosition(m.ID(), m.Position().Add(mgl64.Vec3{0, dy, 0})); err != nil {
		l.err = err
	}
}

func (l *Live) scaleMass(factor float64) {
	i := l.Selected()
	if i < 0 {
		return
	}
	m := l.model.MassAt(i)
	if err := l.model.SetMassValue(m.ID(), m.MassValue()*factor); err != nil {
		l.err = err
	}
}

func (l Live) View() string {
	snap := l.model.Observe()

	targets := make([]float64, len(snap.Basins))
	for i, b := range snap.Basins {
		targets[i] = b.Height
	}
	levels := l.levels.update(targets)
	drawScene(l.canvas, l.proj, l.model, snap, levels, l.Selected())
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Water).Render(l.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(l.name)) + "\n")
	status := "RUNNING"
	if !l.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs (tick %d)", snap.Time, snap.Tick)) + "\n")
	s.WriteString(labelStyle.Render("Discarded") + valueStyle.Render(fmt.Sprintf("%.5f m3", snap.Discarded)) + "\n\n")

	for i, b := range l.model.Basins() {
		st := snap.Basins[i]
		fill := b.Bounds().Ratio(st.Height)
		s.WriteString(fmt.Sprintf("%-10s %s %s\n", st.ID, Gauge(fill, 12), RegimeBadge(st.Regime)))
		s.WriteString(labelStyle.Render("  level") + valueStyle.Render(fmt.Sprintf("%+.4f m  %.5f m3", st.Height, st.Volume)) + "\n")
	}

	if i := l.Selected(); i >= 0 {
		m := l.model.MassAt(i)
		st := snap.Masses[i]
		s.WriteString("\n" + activeStyle.Render("> "+st.ID) + "\n")
		s.WriteString(labelStyle.Render("  submerged") + Gauge(st.SubmergedFraction, 12) + valueStyle.Render(fmt.Sprintf(" %.2f", st.SubmergedFraction)) + "\n")
		s.WriteString(labelStyle.Render("  density") + valueStyle.Render(fmt.Sprintf("%.0f kg/m3", m.Density())) + "\n")
		s.WriteString(labelStyle.Render("  buoyancy") + valueStyle.Render(fmt.Sprintf("%+.3f N", st.Forces.Buoyancy.Y())) + "\n")
		s.WriteString(labelStyle.Render("  contact") + valueStyle.Render(fmt.Sprintf("%+.3f N", st.Forces.Contact.Y())) + "\n")
	}

	if len(l.history) > 1 {
		s.WriteString(graphStyle.Render(Plot("height", 30, 4, l.history)) + "\n")
	}
	if l.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(l.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit Tab:Body\n↑↓:Move +/-:Mass T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if l.showHelp {
		return helpBox.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `Space   pause or resume
R       rebuild the scene
Tab     select the next body
Up/K    lift the selected body
Down/J  lower the selected body
+/-     heavier or lighter by 10%
T       cycle themes
?       toggle this help
Q       quit`

// Run starts the live view in the alternate screen.
func Run(l Live) error {
	_, err := tea.NewProgram(l, tea.WithAltScreen()).Run()
	return err
}
