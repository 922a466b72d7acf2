package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwarden/theine/internal/config"
)

var helpEntries = []struct {
	action string
	desc   string
}{
	{config.ActionToggleView, "Switch between list and calendar"},
	{config.ActionScrollDown, "Scroll down"},
	{config.ActionScrollUp, "Scroll up"},
	{config.ActionJumpNow, "Jump to now"},
	{config.ActionReload, "Reload the state file"},
	{config.ActionRecalculate, "Recalculate the schedule"},
	{config.ActionHelp, "Toggle help"},
	{config.ActionQuit, "Quit"},
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Theine Help"),
		"",
		m.styles.Normal.Render("Keys:"),
	}

	for _, e := range helpEntries {
		keys := m.config.KeysFor(e.action)
		if len(keys) == 0 {
			continue
		}
		help = append(help, m.styles.Help.Render(fmt.Sprintf("  %-12s - %s", strings.Join(keys, "/"), e.desc)))
	}

	help = append(help,
		"",
		m.styles.Help.Render("Press any key to return..."),
	)

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) renderStatusBar(count int) string {
	left := fmt.Sprintf(" %s | Activities: %d", m.formatClock(m.now), count)

	right := "? for help | q to quit"
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Status.Render(left + middle + right)
}
