package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/config"
	"github.com/cwarden/theine/internal/state"
)

var testNow = time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)

func testActivities() []activity.Activity {
	return []activity.Activity{
		{Type: activity.TypeNap, StartTime: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), Duration: 10 * time.Minute},
		{Type: activity.TypeSeekLight, StartTime: time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC), Duration: time.Hour},
		{Type: activity.TypeLunch, StartTime: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), Duration: 45 * time.Minute},
	}
}

func newTestModel(t *testing.T, acts []activity.Activity, mutate func(*config.Config)) *Model {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	s := state.Default()
	s.Activities = acts

	m := NewModel(Options{
		Config:    cfg,
		Container: state.NewContainer(s),
		Now:       func() time.Time { return testNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartupView(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	if m.mode != ViewActivities {
		t.Errorf("mode = %v, want activities", m.mode)
	}

	m = newTestModel(t, testActivities(), func(c *config.Config) {
		c.StartupView = config.ViewCalendar
	})
	if m.mode != ViewCalendar {
		t.Errorf("mode = %v, want calendar", m.mode)
	}
}

func TestToggleViewAndHelp(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)

	m.Update(key("tab"))
	if m.mode != ViewCalendar {
		t.Fatalf("tab should switch to calendar, got %v", m.mode)
	}

	m.Update(key("?"))
	if m.mode != ViewHelp {
		t.Fatalf("? should open help, got %v", m.mode)
	}
	if !strings.Contains(m.View(), "Jump to now") {
		t.Error("help does not list jump_now")
	}

	m.Update(key("x"))
	if m.mode != ViewCalendar {
		t.Errorf("any key should leave help back to calendar, got %v", m.mode)
	}

	m.Update(key("v"))
	if m.mode != ViewActivities {
		t.Errorf("v should switch back to activities, got %v", m.mode)
	}
}

func TestQuitStopsTicking(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}

	_, cmd = m.Update(tickMsg{now: testNow.Add(time.Minute)})
	if cmd != nil {
		t.Error("tick re-armed after quit")
	}
	if !m.now.Equal(testNow) {
		t.Error("tick after quit should not update the clock")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestTickAdvancesClock(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	later := testNow.Add(time.Minute)

	_, cmd := m.Update(tickMsg{now: later})
	if cmd == nil {
		t.Error("tick should be re-armed")
	}
	if !m.now.Equal(later) {
		t.Errorf("now = %v, want %v", m.now, later)
	}
}

func TestActivitiesView(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	out := m.View()

	for _, want := range []string{
		"Schedule",
		"Seek bright light",
		"25 minutes ago, for 1 hour",
		"Lunch",
		"in 2 hours, for 45 minutes",
		"Activities: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("activities view missing %q\n%s", want, out)
		}
	}

	// a ten minute nap gets no span caption
	if strings.Contains(out, "30 minutes ago, for") {
		t.Errorf("nap should have no span\n%s", out)
	}
}

func TestActivitiesViewShowsStaleInput(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	if err := m.container.UpdateInput(func(in *state.Input) { in.TimeZoneDifference = 2 }); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.View(), "needs recalculating") {
		t.Error("stale input not flagged")
	}
}

func TestActivitiesViewEmpty(t *testing.T) {
	m := newTestModel(t, nil, nil)
	if !strings.Contains(m.View(), "No activities yet") {
		t.Error("missing empty placeholder")
	}

	m.Update(key("tab"))
	if !strings.Contains(m.View(), "Nothing scheduled.") {
		t.Error("missing empty calendar placeholder")
	}
}

func TestFit(t *testing.T) {
	m := newTestModel(t, nil, func(c *config.Config) { c.WrapText = false })
	if got := m.fit("Avoid bright light for 8 hours", 12); got != "Avoid brigh…" {
		t.Errorf("truncate: got %q", got)
	}

	m.config.WrapText = true
	if got := m.fit("Avoid bright light", 12); got != "Avoid bright\nlight" {
		t.Errorf("wrap: got %q", got)
	}
}

func TestCalendarGrid(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	cal, ok := m.buildCalendar()
	if !ok {
		t.Fatal("expected a calendar")
	}

	lines := m.renderCalendarGrid(cal, testNow, 80)

	// 07:30 to 12:29:59.999 at 15 minutes per row
	if len(lines) != 20 {
		t.Fatalf("got %d rows, want 20", len(lines))
	}

	tests := []struct {
		row  int
		want string
	}{
		{2, "8 AM"},
		{2, "Nap"},
		{2, "Seek bright light"},
		{3, "for 1 hour"},
		{4, "now"},
		{6, "9 AM"},
		{12, "Lunch"},
		{13, "for 45 minutes"},
	}
	for _, tt := range tests {
		if !strings.Contains(lines[tt.row], tt.want) {
			t.Errorf("row %d = %q, want it to contain %q", tt.row, lines[tt.row], tt.want)
		}
	}

	if strings.Contains(lines[0], "Nap") {
		t.Error("row 0 lies before every activity")
	}
}

func TestCalendarGrid24HourLabels(t *testing.T) {
	m := newTestModel(t, testActivities(), func(c *config.Config) {
		c.TimeFormat = 24
		c.MinutesPerRow = 30
	})
	cal, _ := m.buildCalendar()
	lines := m.renderCalendarGrid(cal, testNow, 80)

	if len(lines) != 10 {
		t.Fatalf("got %d rows, want 10", len(lines))
	}
	if !strings.Contains(lines[1], "08:00") {
		t.Errorf("row 1 = %q, want 08:00 label", lines[1])
	}
}

func TestItemAtPrefersLaterItem(t *testing.T) {
	m := newTestModel(t, []activity.Activity{
		{Type: activity.TypeNap, StartTime: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), Duration: 10 * time.Minute},
		{Type: activity.TypeSeekLight, StartTime: time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC), Duration: time.Hour},
		{Type: activity.TypeAvoidLight, StartTime: time.Date(2024, 3, 15, 8, 10, 0, 0, time.UTC), Duration: time.Hour},
	}, nil)
	cal, _ := m.buildCalendar()

	it, ok := itemAt(cal.Items, 1, 45, 60)
	if !ok || it.Activity.Type != activity.TypeAvoidLight {
		t.Errorf("got %v, %v", it.Activity.Type, ok)
	}
	if _, ok := itemAt(cal.Items, 2, 90, 105); ok {
		t.Error("lane 2 should be empty after the nap")
	}
}

func TestScrollClamps(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	m.listTop = 0

	for i := 0; i < 10; i++ {
		m.Update(key("j"))
	}
	if m.listTop != 2 {
		t.Errorf("listTop = %d, want 2", m.listTop)
	}
	for i := 0; i < 10; i++ {
		m.Update(key("up"))
	}
	if m.listTop != 0 {
		t.Errorf("listTop = %d, want 0", m.listTop)
	}

	m.Update(key("tab"))
	for i := 0; i < 50; i++ {
		m.Update(key("down"))
	}
	if m.calendarTop != 19 {
		t.Errorf("calendarTop = %d, want 19", m.calendarTop)
	}
}

func TestJumpNow(t *testing.T) {
	m := newTestModel(t, testActivities(), nil)
	m.listTop = 0

	m.Update(key("t"))
	// the nap ended at 08:10, the light block is still running
	if m.listTop != 1 {
		t.Errorf("listTop = %d, want 1", m.listTop)
	}
}

func TestRecalculateWithoutCalculator(t *testing.T) {
	m := newTestModel(t, nil, nil)

	_, cmd := m.Update(key("R"))
	if cmd == nil {
		t.Fatal("expected message timeout command")
	}
	if !strings.Contains(m.message, "No calculator") {
		t.Errorf("message = %q", m.message)
	}
}

func TestRecalculateCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	m := newTestModel(t, nil, nil)
	m.statePath = path
	m.calculator = state.CalculatorFunc(func(context.Context, state.CalculatorInput) ([]activity.Activity, error) {
		return testActivities(), nil
	})

	msg := m.recalculateCmd()()
	rm, ok := msg.(recalculatedMsg)
	if !ok || rm.err != nil {
		t.Fatalf("got %#v", msg)
	}
	if n := len(m.container.Snapshot().Activities); n != 3 {
		t.Errorf("container has %d activities, want 3", n)
	}

	saved, err := state.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Activities) != 3 {
		t.Errorf("saved %d activities, want 3", len(saved.Activities))
	}

	m.Update(msg)
	if m.message != "Schedule recalculated" {
		t.Errorf("message = %q", m.message)
	}
}

func TestRecalculateFailureShowsMessage(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.Update(recalculatedMsg{err: errors.New("calculator exploded")})
	if !strings.Contains(m.message, "calculator exploded") {
		t.Errorf("message = %q", m.message)
	}
}

func TestStateLoadedReplacesState(t *testing.T) {
	m := newTestModel(t, nil, nil)

	s := state.Default()
	s.Activities = testActivities()
	m.Update(stateLoadedMsg{state: s})

	if n := len(m.container.Snapshot().Activities); n != 3 {
		t.Errorf("container has %d activities, want 3", n)
	}
	if m.message != "Loaded 3 activities" {
		t.Errorf("message = %q", m.message)
	}
}

func TestWaitForChange(t *testing.T) {
	changes := make(chan struct{}, 1)
	m := NewModel(Options{Changes: changes, Now: func() time.Time { return testNow }})

	changes <- struct{}{}
	if _, ok := m.waitForChange()().(stateChangedMsg); !ok {
		t.Error("expected stateChangedMsg")
	}

	close(changes)
	if msg := m.waitForChange()(); msg != nil {
		t.Errorf("closed channel should yield nil, got %#v", msg)
	}

	if (&Model{}).waitForChange() != nil {
		t.Error("no channel should mean no command")
	}
}

func TestMessageTimeout(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.showMessage("first")
	m.showMessage("second")

	m.Update(messageTimeoutMsg{seq: 1})
	if m.message != "second" {
		t.Errorf("stale timeout cleared message: %q", m.message)
	}
	m.Update(messageTimeoutMsg{seq: 2})
	if m.message != "" {
		t.Errorf("message not cleared: %q", m.message)
	}
}
