package activity

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Type identifies what the user is supposed to do during an activity.
type Type string

const (
	TypeSleep      Type = "sleep"
	TypeNap        Type = "nap"
	TypeBreakfast  Type = "breakfast"
	TypeLunch      Type = "lunch"
	TypeDinner     Type = "dinner"
	TypeSeekLight  Type = "seekLight"
	TypeAvoidLight Type = "avoidLight"
)

// Types lists every known activity type in display order.
var Types = []Type{
	TypeSleep,
	TypeNap,
	TypeBreakfast,
	TypeLunch,
	TypeDinner,
	TypeSeekLight,
	TypeAvoidLight,
}

// Title returns the human label for an activity type. Unknown types are
// shown as their raw identifier.
func (t Type) Title() string {
	switch t {
	case TypeSleep:
		return "Sleep"
	case TypeNap:
		return "Nap"
	case TypeBreakfast:
		return "Breakfast"
	case TypeLunch:
		return "Lunch"
	case TypeDinner:
		return "Dinner"
	case TypeSeekLight:
		return "Seek bright light"
	case TypeAvoidLight:
		return "Avoid bright light"
	default:
		return string(t)
	}
}

// Icon returns a single glyph used in compact views.
func (t Type) Icon() string {
	switch t {
	case TypeSleep, TypeNap:
		return "☾"
	case TypeBreakfast, TypeLunch, TypeDinner:
		return "◆"
	case TypeSeekLight:
		return "☀"
	case TypeAvoidLight:
		return "◐"
	default:
		return "•"
	}
}

// Known reports whether t is one of the predefined types.
func (t Type) Known() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Activity is a single time-bounded event produced by the schedule
// calculator. Activities are treated as immutable values.
type Activity struct {
	Type      Type
	StartTime time.Time
	Duration  time.Duration
}

// EndTime returns StartTime + Duration.
func (a Activity) EndTime() time.Time {
	return a.StartTime.Add(a.Duration)
}

// IsSorted reports whether activities are in ascending StartTime order.
func IsSorted(activities []Activity) bool {
	return sort.SliceIsSorted(activities, func(i, j int) bool {
		return activities[i].StartTime.Before(activities[j].StartTime)
	})
}

// SortByStart sorts activities by StartTime in place, keeping the input
// order of activities that start at the same instant.
func SortByStart(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].StartTime.Before(activities[j].StartTime)
	})
}

// Clone returns a copy of the slice that can be mutated independently.
func Clone(activities []Activity) []Activity {
	if activities == nil {
		return nil
	}
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

var ErrInvalidSimpleTime = errors.New("invalid time of day")

// SimpleTime is a timezone-naive wall clock time.
type SimpleTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// NewSimpleTime validates and builds a SimpleTime.
func NewSimpleTime(hours, minutes int) (SimpleTime, error) {
	st := SimpleTime{Hours: hours, Minutes: minutes}
	if err := st.Validate(); err != nil {
		return SimpleTime{}, err
	}
	return st, nil
}

func (s SimpleTime) Validate() error {
	if s.Hours < 0 || s.Hours > 23 {
		return fmt.Errorf("%w: hours %d out of range [0,23]", ErrInvalidSimpleTime, s.Hours)
	}
	if s.Minutes < 0 || s.Minutes > 59 {
		return fmt.Errorf("%w: minutes %d out of range [0,59]", ErrInvalidSimpleTime, s.Minutes)
	}
	return nil
}

func (s SimpleTime) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hours, s.Minutes)
}

// On places the wall clock time on the calendar day of date, in date's location.
func (s SimpleTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, s.Hours, s.Minutes, 0, 0, date.Location())
}
