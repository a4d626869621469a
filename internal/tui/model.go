package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JPM1118/harerace/internal/canvas"
	"github.com/JPM1118/harerace/internal/notify"
	"github.com/JPM1118/harerace/internal/race"
)

const footerLines = 2 // status bar + notification bar

// Messages

type startMsg struct{}

// advanceMsg fires a step scheduled by the controller. Steps from an
// older generation are dropped by the controller itself.
type advanceMsg struct {
	gen uint64
	at  time.Time
}

// Options configures the race model.
type Options struct {
	// RestartKey is the key that starts a new race, in tea.KeyMsg
	// String() form except that the space bar is "space".
	RestartKey string
	// BarTimeout is how long informational notifications stay up.
	BarTimeout time.Duration
	// Now supplies the clock. Defaults to time.Now.
	Now func() time.Time
}

// Model is the main Bubble Tea model: one canvas, one race.
type Model struct {
	ctrl    *race.Controller
	surface *canvas.Surface
	bar     *notify.Bar
	opts    Options
	width   int
	height  int
}

// NewModel creates the race model. The controller must draw on surface.
func NewModel(ctrl *race.Controller, surface *canvas.Surface, bar *notify.Bar, opts Options) Model {
	if opts.RestartKey == "" {
		opts.RestartKey = "space"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bar == nil {
		bar = notify.NewBar(20)
	}
	return Model{
		ctrl:    ctrl,
		surface: surface,
		bar:     bar,
		opts:    opts,
	}
}

// Init starts the first race.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case startMsg:
		return m, schedule(m.ctrl.Start(m.opts.Now()))

	case advanceMsg:
		m.bar.Expire(msg.at, m.opts.BarTimeout)
		return m, schedule(m.ctrl.Advance(msg.at, msg.gen))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := keyName(msg); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case m.opts.RestartKey:
		return m, schedule(m.ctrl.Restart(m.opts.Now()))
	}

	return m, nil
}

// schedule turns a controller step into a timer.
func schedule(step race.Step) tea.Cmd {
	if !step.Wait {
		return nil
	}
	gen := step.Gen
	return tea.Tick(step.Delay, func(t time.Time) tea.Msg {
		return advanceMsg{gen: gen, at: t}
	})
}

func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

// View renders the canvas with its status and notification bars.
func (m Model) View() string {
	cols, rows := m.surface.Size()
	if m.width < cols || m.height < rows+footerLines {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", cols, rows+footerLines, m.width, m.height)
	}

	var b strings.Builder

	b.WriteString(m.surface.Frame())
	b.WriteString("\n")

	// Status bar
	b.WriteString(m.renderStatusBar(cols))
	b.WriteString("\n")

	// Notification bar
	b.WriteString(m.renderNotificationBar(cols))

	return b.String()
}

func (m Model) renderStatusBar(width int) string {
	title := headerStyle.Render("Turtle vs Bunny")
	state := m.ctrl.State()
	left := fmt.Sprintf("%s  race %d  %s  tick %d", title, m.ctrl.Round(), stateStyle(state).Render(state.String()), m.ctrl.Ticks())
	if m.ctrl.RestartPending() {
		left += "  " + badgeStyle.Render("[restart queued]")
	}

	help := statusBarStyle.Render(fmt.Sprintf("%s:restart  q:quit", m.opts.RestartKey))
	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + help
}

func (m Model) renderNotificationBar(width int) string {
	return notificationBarStyle.Render(m.bar.Render(width, m.opts.Now()))
}
