package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/cwarden/theine/internal/layout"
	"github.com/cwarden/theine/internal/log"
	"github.com/cwarden/theine/internal/relative"
)

const (
	labelWidth   = 8
	minLaneWidth = 8
)

// viewCalendar renders the day grid: hour labels on the left, two lanes of
// activity blocks, and the now line.
func (m *Model) viewCalendar() string {
	var sections []string
	sections = append(sections, m.styles.Header.Render("Calendar"), "")

	cal, ok := m.buildCalendar()
	if !ok {
		sections = append(sections, m.styles.Faint.Render("Nothing scheduled."))
	} else {
		if dups := layout.DuplicateKeys(cal.Items); len(dups) > 0 {
			log.Debug("activities share a render key", "keys", strings.Join(dups, ","))
		}
		lines := m.renderCalendarGrid(cal, m.now, m.width)
		sections = append(sections, m.window(lines, m.calendarTop))
	}

	sections = append(sections, m.renderStatusBar(len(cal.Items)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) buildCalendar() (layout.Calendar, bool) {
	return layout.Build(m.activities(), m.now)
}

func (m *Model) minutesPerRow() int {
	if m.config.MinutesPerRow <= 0 {
		return 15
	}
	return m.config.MinutesPerRow
}

func (m *Model) calendarRows() int {
	cal, ok := m.buildCalendar()
	if !ok {
		return 0
	}
	return rowCount(cal.HeightMinutes(), m.minutesPerRow())
}

func rowCount(minutes, perRow int) int {
	return (minutes + perRow - 1) / perRow
}

// renderCalendarGrid renders every row of the grid. Each row covers
// MinutesPerRow minutes of the window.
func (m *Model) renderCalendarGrid(cal layout.Calendar, now time.Time, width int) []string {
	mpr := m.minutesPerRow()
	rows := rowCount(cal.HeightMinutes(), mpr)

	laneWidth := (width - labelWidth - 1) / 2
	if laneWidth < minLaneWidth {
		laneWidth = minLaneWidth
	}

	labels := make(map[int]string, len(cal.HourMarkers))
	for _, hm := range cal.HourMarkers {
		labels[hm.OffsetMinutes/mpr] = layout.FormatHour(hm.Hour, m.config.TimeFormat)
	}

	nowOffset := cal.NowOffset(now)
	showNow := cal.Contains(now)

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		from, to := row*mpr, (row+1)*mpr
		isNow := showNow && nowOffset >= from && nowOffset < to
		label, isMarker := labels[row]

		labelStyle := m.styles.Marker
		if isNow {
			labelStyle = m.styles.Now
			if label == "" {
				label = "now"
			}
		}
		line := labelStyle.Render(fmt.Sprintf("%*s ", labelWidth-1, label))

		for lane := layout.ColumnLeft; lane <= layout.ColumnRight; lane++ {
			if lane == layout.ColumnRight {
				line += " "
			}
			item, found := itemAt(cal.Items, lane, from, to)
			if !found {
				line += m.renderGap(laneWidth, isNow, isMarker)
				continue
			}
			line += m.renderBlock(item, row, mpr, laneWidth)
		}

		lines = append(lines, line)
	}

	return lines
}

// itemAt finds the item drawn in lane for the minute range [from, to). When
// several overlap, the one listed last wins, as it would be drawn on top.
func itemAt(items []layout.RenderItem, lane, from, to int) (layout.RenderItem, bool) {
	var found layout.RenderItem
	ok := false
	for _, it := range items {
		if it.Activity.Column != lane {
			continue
		}
		if it.OffsetMinutes < to && it.OffsetMinutes+it.DurationMinutes > from {
			found, ok = it, true
		}
	}
	return found, ok
}

// renderBlock draws one row of an activity block. The first row carries the
// title, the second the span when there is one.
func (m *Model) renderBlock(item layout.RenderItem, row, mpr, width int) string {
	a := item.Activity
	var text string
	switch row - item.OffsetMinutes/mpr {
	case 0:
		text = a.Type.Icon() + " " + a.Type.Title()
	case 1:
		if span, ok := relative.FormatSpan(a.Duration); ok {
			text = span
		}
	}
	text = truncate.StringWithTail(text, uint(width), "…")
	return m.styles.block(a.Type).Width(width).Render(text)
}

func (m *Model) renderGap(width int, isNow, isMarker bool) string {
	switch {
	case isNow:
		return m.styles.Now.Render(strings.Repeat("─", width))
	case isMarker:
		return m.styles.Marker.Render(strings.Repeat("┈", width))
	default:
		return strings.Repeat(" ", width)
	}
}
