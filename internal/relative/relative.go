// Package relative turns durations into short English phrases such as
// "in 2 hours and 10 minutes", "3 days ago" or "for 8 hours".
package relative

import (
	"fmt"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
	minutesPerWeek = 7 * minutesPerDay

	// spanMinimumMinutes is the smallest minutes-only span worth a caption.
	spanMinimumMinutes = 15
)

// Breakdown is a duration split into calendar-free units, largest first.
// All non-zero fields share the sign of the original duration.
type Breakdown struct {
	Weeks   int
	Days    int
	Hours   int
	Minutes int
}

// Normalize splits d into weeks, days, hours and minutes. Anything below a
// whole minute is dropped toward zero, so 90.5 minutes becomes 1h30m and
// -59 seconds becomes zero.
func Normalize(d time.Duration) Breakdown {
	total := int64(d / time.Minute)
	sign := 1
	if total < 0 {
		sign = -1
		total = -total
	}

	weeks := total / minutesPerWeek
	total %= minutesPerWeek
	days := total / minutesPerDay
	total %= minutesPerDay
	hours := total / minutesPerHour
	minutes := total % minutesPerHour

	return Breakdown{
		Weeks:   sign * int(weeks),
		Days:    sign * int(days),
		Hours:   sign * int(hours),
		Minutes: sign * int(minutes),
	}
}

// IsZero reports whether every component is zero.
func (b Breakdown) IsZero() bool {
	return b.Weeks == 0 && b.Days == 0 && b.Hours == 0 && b.Minutes == 0
}

type unit struct {
	noun  string
	count int
}

func (b Breakdown) units() [4]unit {
	return [4]unit{
		{"week", b.Weeks},
		{"day", b.Days},
		{"hour", b.Hours},
		{"minute", b.Minutes},
	}
}

// largest returns the phrase for the largest non-zero unit, joined with the
// unit directly below it when that one is non-zero too. minFloor is the
// smallest magnitude accepted when only minutes remain.
func (b Breakdown) largest(minFloor int) (string, bool) {
	units := b.units()
	for i, u := range units {
		if u.count == 0 {
			continue
		}
		if i == len(units)-1 && abs(u.count) < minFloor {
			return "", false
		}
		phrase := WriteCount(u.noun, u.count)
		if i+1 < len(units) && units[i+1].count != 0 {
			next := units[i+1]
			phrase += " and " + WriteCount(next.noun, next.count)
		}
		return phrase, true
	}
	return "", false
}

// FormatRelative describes how far d points into the future or the past:
// "in 1 week and 2 days", "25 minutes ago", or "just now" when d is shorter
// than a minute in either direction.
func FormatRelative(d time.Duration) string {
	b := Normalize(d)
	if b.IsZero() {
		return "just now"
	}

	phrase, _ := b.largest(0)
	if d > 0 {
		return "in " + phrase
	}
	return phrase + " ago"
}

// Until is FormatRelative for the distance between now and t.
func Until(t, now time.Time) string {
	return FormatRelative(t.Sub(now))
}

// FormatSpan describes how long something lasts ("for 8 hours",
// "for 1 hour and 30 minutes"). Spans made of fewer than 15 minutes and
// nothing larger have no caption; ok is false and the caller should omit
// the line entirely.
func FormatSpan(d time.Duration) (phrase string, ok bool) {
	if d < 0 {
		d = -d
	}
	phrase, ok = Normalize(d).largest(spanMinimumMinutes)
	if !ok {
		return "", false
	}
	return "for " + phrase, true
}

// WriteCount renders "1 day" or "3 days". The sign of count is dropped.
func WriteCount(noun string, count int) string {
	c := abs(count)
	if c == 1 {
		return fmt.Sprintf("%d %s", c, noun)
	}
	return fmt.Sprintf("%d %ss", c, noun)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
