// Package state holds the application state: the user's schedule inputs and
// the activity list computed from them. It replaces a process-wide mutable
// store with an explicit Container, persists the state as a JSON document,
// and watches that document for rewrites by an external calculator.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwarden/theine/internal/activity"
)

var (
	// ErrInvalidInput is returned when schedule inputs are out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsorted is returned when an activity list is not in ascending
	// start order.
	ErrUnsorted = errors.New("activities not sorted by start time")
)

// Input is what the user tells the schedule calculator.
type Input struct {
	// TimeZoneDifference is the number of hours to shift, positive east.
	TimeZoneDifference          int
	NormalSleepingHoursStart    activity.SimpleTime
	NormalSleepingHoursDuration time.Duration

	NormalBreakfastStart *activity.SimpleTime
	NormalLunchStart     *activity.SimpleTime
	NormalDinnerStart    *activity.SimpleTime

	// Fresh is set when the input changed and the activity list has not been
	// recalculated since.
	Fresh bool
}

// State is the whole persisted application state.
type State struct {
	Input      Input
	Activities []activity.Activity
}

const maxTimeZoneDifference = 26

// Default is the state used before anything has been saved.
func Default() State {
	return State{
		Input: Input{
			TimeZoneDifference:          0,
			NormalSleepingHoursStart:    activity.SimpleTime{Hours: 23},
			NormalSleepingHoursDuration: 8 * time.Hour,
			NormalBreakfastStart:        &activity.SimpleTime{Hours: 8},
			NormalLunchStart:            &activity.SimpleTime{Hours: 13},
			NormalDinnerStart:           &activity.SimpleTime{Hours: 18},
		},
	}
}

func (in Input) Validate() error {
	if in.TimeZoneDifference < -maxTimeZoneDifference || in.TimeZoneDifference > maxTimeZoneDifference {
		return fmt.Errorf("%w: time zone difference %d out of range", ErrInvalidInput, in.TimeZoneDifference)
	}
	if err := in.NormalSleepingHoursStart.Validate(); err != nil {
		return fmt.Errorf("%w: sleep start: %v", ErrInvalidInput, err)
	}
	if in.NormalSleepingHoursDuration <= 0 || in.NormalSleepingHoursDuration >= 24*time.Hour {
		return fmt.Errorf("%w: sleep duration %s out of range", ErrInvalidInput, in.NormalSleepingHoursDuration)
	}
	meals := []struct {
		name string
		t    *activity.SimpleTime
	}{
		{"breakfast", in.NormalBreakfastStart},
		{"lunch", in.NormalLunchStart},
		{"dinner", in.NormalDinnerStart},
	}
	for _, m := range meals {
		if m.t == nil {
			continue
		}
		if err := m.t.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, m.name, err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Input.NormalBreakfastStart = cloneTime(s.Input.NormalBreakfastStart)
	out.Input.NormalLunchStart = cloneTime(s.Input.NormalLunchStart)
	out.Input.NormalDinnerStart = cloneTime(s.Input.NormalDinnerStart)
	out.Activities = activity.Clone(s.Activities)
	return out
}

func cloneTime(t *activity.SimpleTime) *activity.SimpleTime {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
