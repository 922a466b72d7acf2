package layout

import (
	"math"
	"time"
)

// leadIn pads the window on both sides and offsets the first gridline.
const leadIn = 30 * time.Minute

// HourMarker is a gridline at a full hour.
type HourMarker struct {
	Hour          int `json:"hour" yaml:"hour"`
	OffsetMinutes int `json:"offset_minutes" yaml:"offset_minutes"`
}

// Window is the absolute time range shown by the calendar grid.
type Window struct {
	Start       time.Time
	End         time.Time
	HourMarkers []HourMarker
}

// ComputeWindow derives the visible range and hour gridlines for a sorted,
// extended activity list. ok is false for an empty list; callers must show
// a placeholder instead of a grid.
//
// The start is anchored on now when the first activity has not started yet
// and on the first activity otherwise, floored to the hour and pulled back
// by 30 minutes. The end is the end of the hour in which the latest
// unextended end time falls, plus 30 minutes. Hour rounding is done on the
// wall clock of the first activity's location, keeping each time's offset.
func ComputeWindow(activities []Extended, now time.Time) (w Window, ok bool) {
	if len(activities) == 0 {
		return Window{}, false
	}

	first := activities[0]
	loc := first.StartTime.Location()

	last := first
	for _, a := range activities[1:] {
		if a.EndTime.After(last.EndTime) {
			last = a
		}
	}

	anchor := first.StartTime
	if !first.StartTime.Before(now) {
		anchor = now
	}

	w.Start = startOfHour(anchor.In(loc)).Add(-leadIn)
	w.End = endOfHour(last.EndTime.In(loc)).Add(leadIn)

	for t := w.Start.Add(leadIn); !t.After(w.End); t = t.Add(time.Hour) {
		w.HourMarkers = append(w.HourMarkers, HourMarker{
			Hour:          t.Hour(),
			OffsetMinutes: roundMinutes(t.Sub(w.Start)),
		})
	}

	return w, true
}

// HeightMinutes is the length of the window in whole minutes.
func (w Window) HeightMinutes() int {
	return roundMinutes(w.End.Sub(w.Start))
}

// NowOffset is the minute offset of now from the window start. It can be
// negative or larger than HeightMinutes when now lies outside the window.
func (w Window) NowOffset(now time.Time) int {
	return roundMinutes(now.Sub(w.Start))
}

// Contains reports whether t falls inside [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// startOfHour drops the minutes, seconds and nanoseconds shown on t's wall
// clock. Subtracting keeps t's UTC offset, so inside a repeated hour the
// result stays in the same occurrence of that hour.
func startOfHour(t time.Time) time.Time {
	return t.Add(-(time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())))
}

func endOfHour(t time.Time) time.Time {
	return startOfHour(t).Add(time.Hour - time.Millisecond)
}

// roundMinutes rounds half up, matching how offsets are computed on the
// presentation side.
func roundMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes() + 0.5))
}
