package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/relative"
)

// viewActivities renders the schedule as a list, one block per activity.
func (m *Model) viewActivities() string {
	s := m.container.Snapshot()

	var sections []string
	header := m.styles.Header.Render("Schedule")
	if s.Input.Fresh {
		header += " " + m.styles.Message.Render("inputs changed, schedule needs recalculating")
	}
	sections = append(sections, header, "")

	body := m.renderActivityList(s.Activities, m.now, m.width)
	sections = append(sections, m.window(body, m.listStartLine(s.Activities)))

	sections = append(sections, m.renderStatusBar(len(s.Activities)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderActivityList renders every activity as its title line followed by
// the relative start and, when long enough to mention, the span.
func (m *Model) renderActivityList(acts []activity.Activity, now time.Time, width int) []string {
	if len(acts) == 0 {
		return []string{m.styles.Faint.Render("No activities yet. Press R to calculate a schedule.")}
	}

	var lines []string
	for _, a := range acts {
		title := a.Type.Icon() + " " + a.Type.Title()
		detail := relative.Until(a.StartTime, now)
		if span, ok := relative.FormatSpan(a.Duration); ok {
			detail += ", " + span
		}
		detail += " (" + m.formatClock(a.StartTime) + ")"

		titleStyle := m.styles.text(a.Type)
		detailStyle := m.styles.Normal
		if !a.EndTime().After(now) {
			titleStyle = m.styles.Faint
			detailStyle = m.styles.Faint
		}

		lines = append(lines, titleStyle.Render(m.fit(title, width)))
		for _, l := range strings.Split(m.fit(detail, width-2), "\n") {
			lines = append(lines, "  "+detailStyle.Render(l))
		}
	}
	return lines
}

// listStartLine maps listTop, an activity index, to a line in the rendered
// list.
func (m *Model) listStartLine(acts []activity.Activity) int {
	if m.listTop <= 0 || len(acts) == 0 {
		return 0
	}
	top := m.listTop
	if top > len(acts) {
		top = len(acts)
	}
	rendered := m.renderActivityList(acts[:top], m.now, m.width)
	return len(rendered)
}

// fit wraps or truncates text to width depending on configuration.
func (m *Model) fit(text string, width int) string {
	if width <= 0 {
		return text
	}
	if m.config.WrapText {
		return wordwrap.String(text, width)
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

// window returns the visible slice of lines starting at top.
func (m *Model) window(lines []string, top int) string {
	rows := m.visibleRows()
	if top > len(lines) {
		top = len(lines)
	}
	end := top + rows
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[top:end], "\n")
}

func (m *Model) formatClock(t time.Time) string {
	if m.config.TimeFormat == 24 {
		return t.Format("Mon 15:04")
	}
	return t.Format("Mon 3:04 PM")
}
