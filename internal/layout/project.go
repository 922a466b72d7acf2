package layout

import (
	"strconv"
	"time"

	"github.com/cwarden/theine/internal/activity"
)

// keyTimeLayout mirrors ISO timestamps with millisecond precision.
const keyTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// RenderItem is an activity positioned on the grid, in minutes from the
// window start.
type RenderItem struct {
	OffsetMinutes   int
	DurationMinutes int
	Activity        Extended
}

// Key identifies the item within one rendered calendar. Two activities with
// the same type, column and start time would collide; producers of the
// activity list must avoid that.
func (r RenderItem) Key() string {
	return string(r.Activity.Type) + strconv.Itoa(r.Activity.Column) + r.Activity.StartTime.Format(keyTimeLayout)
}

// Project converts resolved activities into grid positions relative to w.
func Project(activities []Extended, w Window) []RenderItem {
	items := make([]RenderItem, 0, len(activities))
	for _, a := range activities {
		items = append(items, RenderItem{
			OffsetMinutes:   roundMinutes(a.StartTime.Sub(w.Start)),
			DurationMinutes: roundMinutes(a.ExtendedEndTime.Sub(a.StartTime)),
			Activity:        a,
		})
	}
	return items
}

// DuplicateKeys returns every key that appears more than once in items.
func DuplicateKeys(items []RenderItem) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, it := range items {
		k := it.Key()
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// Calendar is a fully laid out grid.
type Calendar struct {
	Window
	Items []RenderItem
}

// Build runs column resolution, window computation and projection over a
// sorted activity list. ok is false when there is nothing to lay out.
func Build(activities []activity.Activity, now time.Time) (Calendar, bool) {
	resolved := Resolve(activities)
	w, ok := ComputeWindow(resolved, now)
	if !ok {
		return Calendar{}, false
	}
	return Calendar{
		Window: w,
		Items:  Project(resolved, w),
	}, true
}
