package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
)

const (
	defaultWidth    = 60
	defaultHeight   = 20
	historyCapacity = 600
)

// FrameMsg is a copy of the world taken on the loop goroutine.
type FrameMsg struct {
	Step      int
	Time      float64
	Positions []float64
	Bodies    [][]float64
	Stats     dynamo.StepStats
	Energy    float64
	Finite    bool
}

type Options struct {
	Name     string
	Dt       float64
	Interval time.Duration
	Theme    string
	Width    int
	Height   int
}

// driver owns the loop; Model values share it by pointer.
type driver struct {
	sim    *sim.Simulator
	world  *dynamo.World
	loop   *sim.Loop
	dt     float64
	every  time.Duration
	steps  int
	frames chan FrameMsg
	stop   chan struct{}
}

func (d *driver) running() bool { return d.stop != nil }

func (d *driver) start() (tea.Cmd, error) {
	if d.running() {
		return nil, nil
	}
	frames := make(chan FrameMsg)
	stop := make(chan struct{})
	base, g, dt := d.steps, d.sim.Gravity(), d.dt

	err := d.loop.Start(context.Background(), func(w *dynamo.World, frame int, stats dynamo.StepStats) bool {
		d.steps = base + frame
		select {
		case frames <- snapshot(w, g, d.steps, dt, stats):
			return true
		case <-stop:
			return false
		}
	})
	if err != nil {
		return nil, err
	}
	d.frames, d.stop = frames, stop
	return d.next(), nil
}

func (d *driver) next() tea.Cmd {
	frames, stop := d.frames, d.stop
	return func() tea.Msg {
		select {
		case f := <-frames:
			return f
		case <-stop:
			return nil
		}
	}
}

// pause stops the loop; afterwards the world may be read and stepped directly.
func (d *driver) pause() {
	if !d.running() {
		return
	}
	close(d.stop)
	d.loop.Stop()
	d.frames, d.stop = nil, nil
}

func (d *driver) replace(w *dynamo.World) {
	d.pause()
	d.world = w
	d.loop = sim.NewLoop(d.sim, w, d.dt, d.every)
	d.steps = 0
}

// Model is the live Bubble Tea view of one world.
type Model struct {
	opts     Options
	drv      *driver
	initial  *dynamo.World
	radii    []float64
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	last     FrameMsg
	energy   []float64
	contacts []float64
	total    int
	showHelp bool
	err      error
}

// NewModel takes ownership of w. The loop starts with Init.
func NewModel(s *sim.Simulator, w *dynamo.World, opts Options) Model {
	if opts.Dt <= 0 {
		opts.Dt = dynamo.DefaultDt
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	radii := make([]float64, w.Len())
	for i, p := range w.Particles() {
		radii[i] = p.Radius()
	}

	cam := NewCamera()
	cam.Fit(w.Positions())
	theme := GetTheme(opts.Theme)

	m := Model{
		opts:     opts,
		drv:      &driver{sim: s, dt: opts.Dt, every: opts.Interval},
		initial:  w.Clone(),
		radii:    radii,
		canvas:   NewCanvas(opts.Width, opts.Height),
		camera:   cam,
		theme:    theme,
		styles:   newStyles(theme),
		energy:   make([]float64, 0, historyCapacity),
		contacts: make([]float64, 0, historyCapacity),
	}
	m.drv.replace(w)
	m.last = snapshot(w, s.Gravity(), 0, opts.Dt, dynamo.StepStats{})
	return m
}

func (m Model) Init() tea.Cmd {
	cmd, err := m.drv.start()
	if err != nil {
		return func() tea.Msg { return err }
	}
	return cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case FrameMsg:
		m.observe(msg)
		if !msg.Finite {
			m.drv.pause()
			m.err = dynamo.ErrUnstable
			return m, nil
		}
		if m.drv.running() {
			return m, m.drv.next()
		}
	case error:
		m.err = msg
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.drv.pause()
		return m, tea.Quit
	case " ":
		if m.drv.running() {
			m.drv.pause()
			m.sync()
			return m, nil
		}
		if m.err != nil {
			return m, nil
		}
		cmd, err := m.drv.start()
		if err != nil {
			m.err = err
		}
		return m, cmd
	case "s":
		if !m.drv.running() && m.err == nil {
			stats := m.drv.sim.Step(m.drv.world, m.drv.dt)
			m.drv.steps++
			m.observe(snapshot(m.drv.world, m.drv.sim.Gravity(), m.drv.steps, m.drv.dt, stats))
		}
	case "r":
		wasRunning := m.drv.running()
		m.drv.replace(m.initial.Clone())
		m.energy, m.contacts, m.total, m.err = m.energy[:0], m.contacts[:0], 0, nil
		m.sync()
		if wasRunning {
			cmd, err := m.drv.start()
			if err != nil {
				m.err = err
			}
			return m, cmd
		}
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// sync refreshes the last frame from the stopped world.
func (m *Model) sync() {
	m.last = snapshot(m.drv.world, m.drv.sim.Gravity(), m.drv.steps, m.drv.dt, m.last.Stats)
}

func (m *Model) observe(f FrameMsg) {
	m.last = f
	m.total += f.Stats.Resolved
	m.energy = appendCapped(m.energy, f.Energy)
	m.contacts = appendCapped(m.contacts, float64(f.Stats.Resolved))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func snapshot(w *dynamo.World, g dynamo.Vector3, step int, dt float64, stats dynamo.StepStats) FrameMsg {
	return FrameMsg{
		Step:      step,
		Time:      float64(step) * dt,
		Positions: w.Positions(),
		Bodies:    w.AllBodyPositions(),
		Stats:     stats,
		Energy:    metrics.Mechanical(w, g),
		Finite:    w.IsFinite(),
	}
}

// Steps reports the step number of the frame on screen.
func (m Model) Steps() int { return m.last.Step }

func (m Model) Running() bool { return m.drv.running() }

func (m Model) Err() error { return m.err }

func (m Model) View() string {
	m.canvas.Clear()
	Render(m.canvas, m.camera, Scene{Positions: m.last.Positions, Radii: m.radii, Bodies: m.last.Bodies})
	canvasView := m.styles.canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("STOPPED: "+m.err.Error()) + "\n\n")
	case m.drv.running():
		s.WriteString(st.value.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.last.Time))
	row("Step", fmt.Sprintf("%d", m.last.Step))
	row("Particles", fmt.Sprintf("%d", len(m.radii)))
	row("Bodies", fmt.Sprintf("%d", len(m.last.Bodies)))
	row("Energy", fmt.Sprintf("%.3f", m.last.Energy))
	row("Contacts", fmt.Sprintf("%d / %d", m.last.Stats.Resolved, m.last.Stats.Pairs))
	row("Collisions", fmt.Sprintf("%d", m.total))
	row("", Sparkline(m.contacts, 30))

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause S:Step R:Reset\nT:Theme X/Y:Rotate +/-:Zoom\n?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Single step when paused  ║
║  R        - Reset to initial state   ║
║  T        - Cycle themes             ║
║  X / Y    - Rotate camera            ║
║  + / -    - Zoom                     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
