package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"

	"github.com/cwarden/theine/internal/activity"
)

var ErrEmptyInput = errors.New("empty input")

var (
	clockRe     = regexp.MustCompile(`^(\d{1,2})(?::?(\d{2}))?\s*(am|pm|a|p)?$`)
	weekdayRe   = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)\b`)
	inRe        = regexp.MustCompile(`^in\s+(\d+)\s+(minute|minutes|min|mins|hour|hours|hr|hrs|day|days|week|weeks)\b`)
	agoRe       = regexp.MustCompile(`^(\d+)\s+(minute|minutes|min|mins|hour|hours|hr|hrs|day|days|week|weeks)\s+ago\b`)
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	usDateRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?`)
	monthNameRe = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:,?\s+(\d{4}))?`)
)

var namedTimes = []struct {
	name string
	hour int
}{
	{"midnight", 0},
	{"noon", 12},
	{"morning", 9},
	{"afternoon", 14},
	{"evening", 18},
	{"night", 21},
}

// TimeParser reads the loose time expressions accepted on the command line.
// Relative expressions are resolved against now.
type TimeParser struct {
	now      time.Time
	location *time.Location
}

func NewTimeParser() *TimeParser {
	return &TimeParser{
		now:      time.Now(),
		location: time.Local,
	}
}

func (p *TimeParser) SetNow(now time.Time) {
	p.now = now
}

func (p *TimeParser) SetLocation(loc *time.Location) {
	p.location = loc
}

// ParseClock reads a time of day: "23:00", "2330", "11pm", "7:15am", "noon".
func ParseClock(input string) (activity.SimpleTime, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return activity.SimpleTime{}, ErrEmptyInput
	}

	for _, nt := range namedTimes {
		if s == nt.name {
			return activity.SimpleTime{Hours: nt.hour}, nil
		}
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return activity.SimpleTime{}, fmt.Errorf("%w: %q is not a time of day", activity.ErrInvalidSimpleTime, input)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch m[3] {
	case "pm", "p":
		if hour < 1 || hour > 12 {
			return activity.SimpleTime{}, fmt.Errorf("%w: %q", activity.ErrInvalidSimpleTime, input)
		}
		if hour < 12 {
			hour += 12
		}
	case "am", "a":
		if hour < 1 || hour > 12 {
			return activity.SimpleTime{}, fmt.Errorf("%w: %q", activity.ErrInvalidSimpleTime, input)
		}
		if hour == 12 {
			hour = 0
		}
	}

	return activity.NewSimpleTime(hour, minute)
}

// ParseSpan reads a length of time, either as a Go duration ("7h30m") or
// an ISO-8601 one ("PT7H30M").
func ParseSpan(input string) (time.Duration, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrEmptyInput
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	d, err := duration.Parse(strings.ToUpper(s))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	return d.ToTimeDuration(), nil
}

// ParseInstant reads a point in time. Accepted forms include RFC 3339
// timestamps, "now", "in 2 hours", "30 minutes ago", and a date expression
// ("today", "tomorrow", "next friday", "2024-03-15", "3/15", "march 15")
// optionally followed by a time of day. A bare time of day means today.
func (p *TimeParser) ParseInstant(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, ErrEmptyInput
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	lower := strings.ToLower(s)
	if lower == "now" {
		return p.now, nil
	}

	if m := inRe.FindStringSubmatch(lower); m != nil && len(m[0]) == len(lower) {
		n, _ := strconv.Atoi(m[1])
		return p.shift(n, m[2]), nil
	}
	if m := agoRe.FindStringSubmatch(lower); m != nil && len(m[0]) == len(lower) {
		n, _ := strconv.Atoi(m[1])
		return p.shift(-n, m[2]), nil
	}

	date, rest, ok := p.parseDate(lower)
	if !ok {
		date = p.today()
		rest = lower
	}

	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "at "))
	if rest == "" {
		if !ok {
			return time.Time{}, fmt.Errorf("cannot parse %q as a time", input)
		}
		return date, nil
	}

	clock, err := ParseClock(rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a time: %w", input, err)
	}
	return clock.On(date), nil
}

func (p *TimeParser) shift(n int, unit string) time.Time {
	switch {
	case strings.HasPrefix(unit, "min"):
		return p.now.Add(time.Duration(n) * time.Minute)
	case strings.HasPrefix(unit, "h"):
		return p.now.Add(time.Duration(n) * time.Hour)
	case strings.HasPrefix(unit, "day"):
		return p.now.AddDate(0, 0, n)
	default:
		return p.now.AddDate(0, 0, 7*n)
	}
}

// parseDate consumes a leading date expression and returns midnight of that
// day along with the unparsed remainder.
func (p *TimeParser) parseDate(lower string) (time.Time, string, bool) {
	for _, rel := range []struct {
		word   string
		offset int
	}{
		{"today", 0},
		{"tomorrow", 1},
		{"tmrw", 1},
		{"yesterday", -1},
	} {
		if strings.HasPrefix(lower, rel.word) {
			return p.today().AddDate(0, 0, rel.offset), lower[len(rel.word):], true
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		date := p.findNextWeekday(parseWeekday(m[2]), m[1] == "next")
		return date, lower[len(m[0]):], true
	}

	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location), lower[len(m[0]):], true
	}

	if m := usDateRe.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := p.now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location), lower[len(m[0]):], true
	}

	if m := monthNameRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[2])
		year := p.now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return time.Date(year, parseMonth(m[1]), day, 0, 0, 0, 0, p.location), lower[len(m[0]):], true
	}

	return time.Time{}, lower, false
}

func parseWeekday(s string) time.Weekday {
	switch s {
	case "mon", "monday":
		return time.Monday
	case "tue", "tuesday":
		return time.Tuesday
	case "wed", "wednesday":
		return time.Wednesday
	case "thu", "thursday":
		return time.Thursday
	case "fri", "friday":
		return time.Friday
	case "sat", "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func parseMonth(s string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), s) {
			return m
		}
	}
	return time.January
}

func (p *TimeParser) findNextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	days := int(target - date.Weekday())
	if days <= 0 || skipThisWeek {
		days += 7
	}
	return date.AddDate(0, 0, days)
}

func (p *TimeParser) today() time.Time {
	y, m, d := p.now.In(p.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location)
}
