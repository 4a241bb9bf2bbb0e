package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layout"
	"github.com/dd0wney/cluso-layout/pkg/logging"
	"github.com/dd0wney/cluso-layout/pkg/validation"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	canvasStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Pause   key.Binding
	Step    key.Binding
	Reset   key.Binding
	View    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Step: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "single step"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reshuffle"),
	),
	View: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "top/front view"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Reset, k.View, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Reset},
		{k.View, k.ZoomIn, k.ZoomOut},
		{k.Quit},
	}
}

type model struct {
	engine   *layout.Engine
	cfg      layout.Config
	entities []entity.Positioned
	edges    []entity.Edge
	seed     uint64
	extent   float32

	camera camera
	paused bool
	steps  int
	maxVel float32
	last   time.Duration
	err    error

	help   help.Model
	keys   keyMap
	width  int
	height int
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

const (
	frameInterval     = 50 * time.Millisecond
	maxViewerEntities = 5000
)

func (m model) Init() tea.Cmd {
	return tickCmd(frameInterval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(frameInterval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Step):
			m.step()
		case key.Matches(msg, m.keys.Reset):
			m.seed++
			m.reset()
		case key.Matches(msg, m.keys.View):
			m.camera.front = !m.camera.front
		case key.Matches(msg, m.keys.ZoomIn):
			m.camera.zoom *= 1.25
		case key.Matches(msg, m.keys.ZoomOut):
			m.camera.zoom /= 1.25
		}
	}
	return m, nil
}

func (m *model) step() {
	start := time.Now()
	if err := m.engine.Step(m.entities, m.edges, m.cfg); err != nil {
		m.err = err
		m.paused = true
		return
	}
	m.last = time.Since(start)
	m.steps++

	var maxVel float32
	for _, e := range m.entities {
		maxVel = max(maxVel, e.Velocity.Len())
	}
	m.maxVel = maxVel
}

func (m *model) reset() {
	if err := layout.Scatter(m.entities, m.extent, m.seed); err != nil {
		m.err = err
		return
	}
	m.steps = 0
	m.err = nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Cluso Layout Viewer"))
	s.WriteString("\n\n")

	cols := max(m.width-30, 20)
	rows := max(m.height-10, 10)
	canvas := render(m.entities, m.edges, m.camera, cols, rows)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(canvas),
		statsBoxStyle.Render(m.renderStats()),
	))

	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderStats() string {
	bounds := layout.CalculateBounds(entity.Positions(m.entities))
	view := "top (x/z)"
	if m.camera.front {
		view = "front (x/y)"
	}
	state := "running"
	if m.paused {
		state = "paused"
	}
	return fmt.Sprintf(`Layout
Entities:  %d
Edges:     %d
Step:      %d
State:     %s
Last step: %s
Max vel:   %.5f
Size:      %.1f × %.1f × %.1f
View:      %s
Zoom:      %.2f`,
		len(m.entities), len(m.edges), m.steps, state,
		m.last.Round(time.Microsecond), m.maxVel,
		bounds.Size.X(), bounds.Size.Y(), bounds.Size.Z(),
		view, m.camera.zoom,
	)
}

func main() {
	numEntities := flag.Int("entities", 150, "Number of entities")
	avgDegree := flag.Int("degree", 1, "Edges per entity")
	seed := flag.Uint64("seed", 1, "Random seed")
	extent := flag.Float64("extent", 5, "Half width of the initial scatter cube")
	configPath := flag.String("config", "", "YAML layout config (defaults if empty)")
	workers := flag.Int("workers", 1, "Force worker goroutines")
	flag.Parse()

	cv := validation.NewConfigValidator("flags").
		RangeInt("entities", *numEntities, 1, maxViewerEntities).
		NonNegative("degree", *avgDegree).
		RangeFloat("extent", *extent, 0.5, 1000).
		MinInt("workers", *workers, 1)
	if cv.HasErrors() {
		for _, err := range cv.Errors() {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	cfg := layout.HighPerformanceConfig()
	if *configPath != "" {
		loaded, err := layout.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	engine, err := layout.NewEngine(
		layout.WithLogger(logging.NewNopLogger()),
		layout.WithWorkers(*workers),
	)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	entities, edges := randomGraph(*numEntities, *avgDegree, *seed)

	m := model{
		engine:   engine,
		cfg:      cfg,
		entities: entities,
		edges:    edges,
		seed:     *seed,
		extent:   float32(*extent),
		camera:   camera{zoom: 1},
		help:     help.New(),
		keys:     keys,
	}
	m.reset()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
