package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/config"
	"github.com/cwarden/theine/internal/log"
	"github.com/cwarden/theine/internal/state"
)

type ViewMode int

const (
	ViewActivities ViewMode = iota
	ViewCalendar
	ViewHelp
)

const (
	messageTimeout   = 3 * time.Second
	calculateTimeout = 30 * time.Second
)

// Options wires a Model to the rest of the application.
type Options struct {
	Config    *config.Config
	Container *state.Container
	StatePath string

	// Calculator is optional; without it the recalculate action only
	// reports that none is configured.
	Calculator state.Calculator

	// Changes delivers a value whenever the state file was rewritten by
	// someone else. Optional.
	Changes <-chan struct{}

	// Now defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	// Core components
	config     *config.Config
	container  *state.Container
	statePath  string
	calculator state.Calculator
	changes    <-chan struct{}
	clock      func() time.Time

	// View state
	mode     ViewMode
	prevMode ViewMode
	now      time.Time

	// Scroll positions: first visible activity in the list, first visible
	// row in the calendar grid.
	listTop     int
	calendarTop int

	// UI state
	width      int
	height     int
	message    string
	messageSeq int
	quitting   bool

	styles Styles
}

type Styles struct {
	Normal  lipgloss.Style
	Faint   lipgloss.Style
	Header  lipgloss.Style
	Help    lipgloss.Style
	Message lipgloss.Style
	Status  lipgloss.Style
	Marker  lipgloss.Style
	Now     lipgloss.Style

	// Text is used for activity titles in the list, Block for the lanes of
	// the calendar grid.
	Text  map[activity.Type]lipgloss.Style
	Block map[activity.Type]lipgloss.Style
}

func NewModel(opts Options) *Model {
	clock := opts.Now
	if clock == nil {
		clock = time.Now
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	container := opts.Container
	if container == nil {
		container = state.NewContainer(state.Default())
	}

	m := &Model{
		config:     cfg,
		container:  container,
		statePath:  opts.StatePath,
		calculator: opts.Calculator,
		changes:    opts.Changes,
		clock:      clock,
		mode:       ViewActivities,
		now:        clock(),
		styles:     NewStyles(cfg.Colors),
	}
	if cfg.StartupView == config.ViewCalendar {
		m.mode = ViewCalendar
	}
	m.prevMode = m.mode
	m.scrollToNow()

	return m
}

// NewStyles builds styles from the configured colors. Missing entries fall
// back to the terminal default.
func NewStyles(colors map[string]string) Styles {
	color := func(name, fallback string) lipgloss.Color {
		if c, ok := colors[name]; ok && c != "" {
			return lipgloss.Color(c)
		}
		return lipgloss.Color(fallback)
	}

	s := Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Faint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Header: lipgloss.NewStyle().
			Foreground(color("header", "39")).
			Bold(true).
			Underline(true),
		Help: lipgloss.NewStyle().
			Foreground(color("help", "241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(color("status", "245")),
		Marker: lipgloss.NewStyle().
			Foreground(color("marker", "242")),
		Now: lipgloss.NewStyle().
			Foreground(color("now", "196")).
			Bold(true),
		Text:  make(map[activity.Type]lipgloss.Style, len(activity.Types)),
		Block: make(map[activity.Type]lipgloss.Style, len(activity.Types)),
	}

	for _, t := range activity.Types {
		c := color(string(t), "252")
		s.Text[t] = lipgloss.NewStyle().Foreground(c).Bold(true)
		s.Block[t] = lipgloss.NewStyle().Background(c).Foreground(lipgloss.Color("0"))
	}

	return s
}

func (s Styles) text(t activity.Type) lipgloss.Style {
	if st, ok := s.Text[t]; ok {
		return st
	}
	return s.Normal
}

func (s Styles) block(t activity.Type) lipgloss.Style {
	if st, ok := s.Block[t]; ok {
		return st
	}
	return s.Normal.Reverse(true)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.tickCmd(),
		m.waitForChange(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToNow()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		// The tick is the only timer; once quitting it is not re-armed.
		if m.quitting {
			return m, nil
		}
		m.now = msg.now
		return m, m.tickCmd()

	case stateChangedMsg:
		return m, tea.Batch(m.reloadCmd(), m.waitForChange())

	case stateLoadedMsg:
		if msg.err != nil {
			log.Error("reload state", msg.err, "path", m.statePath)
			return m, m.showMessage(fmt.Sprintf("Reload failed: %v", msg.err))
		}
		m.container.Replace(msg.state)
		m.clampScroll()
		return m, m.showMessage(fmt.Sprintf("Loaded %d activities", len(msg.state.Activities)))

	case recalculatedMsg:
		if msg.err != nil {
			log.Error("recalculate", msg.err)
			return m, m.showMessage(fmt.Sprintf("Recalculate failed: %v", msg.err))
		}
		m.clampScroll()
		return m, m.showMessage("Schedule recalculated")

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ViewCalendar:
		return m.viewCalendar()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewActivities()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := m.config.Action(msg.String())

	if m.mode == ViewHelp && action != config.ActionQuit {
		m.mode = m.prevMode
		return m, nil
	}

	switch action {
	case config.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case config.ActionHelp:
		m.prevMode = m.mode
		m.mode = ViewHelp

	case config.ActionToggleView:
		if m.mode == ViewActivities {
			m.mode = ViewCalendar
		} else {
			m.mode = ViewActivities
		}
		m.scrollToNow()

	case config.ActionScrollDown:
		m.scroll(1)

	case config.ActionScrollUp:
		m.scroll(-1)

	case config.ActionJumpNow:
		m.now = m.clock()
		m.scrollToNow()

	case config.ActionReload:
		return m, m.reloadCmd()

	case config.ActionRecalculate:
		if m.calculator == nil {
			return m, m.showMessage("No calculator configured (set calculator in theinerc)")
		}
		return m, tea.Batch(m.showMessage("Recalculating..."), m.recalculateCmd())
	}

	return m, nil
}

func (m *Model) activities() []activity.Activity {
	return m.container.Snapshot().Activities
}

func (m *Model) scroll(delta int) {
	if m.mode == ViewCalendar {
		m.calendarTop += delta
	} else {
		m.listTop += delta
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	n := len(m.activities())
	if m.listTop > n-1 {
		m.listTop = n - 1
	}
	if m.listTop < 0 {
		m.listTop = 0
	}

	rows := m.calendarRows()
	if m.calendarTop > rows-1 {
		m.calendarTop = rows - 1
	}
	if m.calendarTop < 0 {
		m.calendarTop = 0
	}
}

// scrollToNow brings the first unfinished activity to the top of the list
// and centres the calendar on the now line.
func (m *Model) scrollToNow() {
	acts := m.activities()
	m.listTop = 0
	for i, a := range acts {
		if a.EndTime().After(m.now) {
			m.listTop = i
			break
		}
	}

	m.calendarTop = 0
	if cal, ok := m.buildCalendar(); ok {
		nowRow := cal.NowOffset(m.now) / m.minutesPerRow()
		m.calendarTop = nowRow - m.visibleRows()/2
	}
	m.clampScroll()
}

func (m *Model) visibleRows() int {
	// header, blank line and status bar
	rows := m.height - 3
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.config.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg{now: t}
	})
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m *Model) reloadCmd() tea.Cmd {
	path := m.statePath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		s, err := state.Load(path)
		return stateLoadedMsg{state: s, err: err}
	}
}

func (m *Model) recalculateCmd() tea.Cmd {
	container, calc, path := m.container, m.calculator, m.statePath
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), calculateTimeout)
		defer cancel()

		if err := container.Recalculate(ctx, calc); err != nil {
			return recalculatedMsg{err: err}
		}
		if path != "" {
			if err := state.Save(path, container.Snapshot()); err != nil {
				return recalculatedMsg{err: err}
			}
		}
		return recalculatedMsg{}
	}
}

// Message types
type tickMsg struct {
	now time.Time
}
type messageTimeoutMsg struct {
	seq int
}
type stateChangedMsg struct{}
type stateLoadedMsg struct {
	state state.State
	err   error
}
type recalculatedMsg struct {
	err error
}
