// Package layout places activities on a vertical, minute-scaled day grid:
// it resolves overlaps into two display columns, derives the visible window
// with its hour gridlines, and projects activities into minute offsets.
//
// Everything here is a pure function of its arguments. Callers pass the
// activity list and the current instant explicitly.
package layout

import (
	"time"

	"github.com/cwarden/theine/internal/activity"
)

// MinVisible is the shortest span an activity occupies on the grid, so that
// zero-length and very short activities stay readable.
const MinVisible = 30 * time.Minute

// Column values. Only two display lanes exist.
const (
	ColumnUnassigned = 0
	ColumnLeft       = 1
	ColumnRight      = 2
)

// Extended is an activity with the derived fields the grid needs.
type Extended struct {
	activity.Activity

	EndTime          time.Time
	ExtendedDuration time.Duration
	ExtendedEndTime  time.Time

	// Column is ColumnUnassigned until AssignColumns runs.
	Column int
}

// ExtendDuration floors d up to MinVisible.
func ExtendDuration(d time.Duration) time.Duration {
	if d < MinVisible {
		return MinVisible
	}
	return d
}

// Extend derives end times and minimum visible durations for activities.
// Columns are left unassigned.
func Extend(activities []activity.Activity) []Extended {
	out := make([]Extended, 0, len(activities))
	for _, a := range activities {
		ext := ExtendDuration(a.Duration)
		out = append(out, Extended{
			Activity:         a,
			EndTime:          a.StartTime.Add(a.Duration),
			ExtendedDuration: ext,
			ExtendedEndTime:  a.StartTime.Add(ext),
			Column:           ColumnUnassigned,
		})
	}
	return out
}

// AssignColumns gives every activity column 1 or 2, in place. The slice
// must be sorted by StartTime ascending; unsorted input does not panic but
// the columns it produces are meaningless.
//
// Each unassigned activity is compared with every later activity starting
// before its extended end. The longer side of that comparison keeps
// column 1. Activities that were already assigned are skipped, which makes
// a second call a no-op.
//
// The colliding set is assumed not to overlap within itself. When it does,
// its members all land in the same column and will be drawn on top of each
// other; with only two lanes some overlaps cannot be separated at all.
func AssignColumns(activities []Extended) {
	for i := range activities {
		current := &activities[i]
		if current.Column != ColumnUnassigned {
			continue
		}

		var colliding []int
		for j := i + 1; j < len(activities); j++ {
			if activities[j].StartTime.Before(current.ExtendedEndTime) {
				colliding = append(colliding, j)
			}
		}

		if len(colliding) == 0 {
			current.Column = ColumnLeft
			continue
		}

		// First found wins ties.
		longest := colliding[0]
		for _, j := range colliding[1:] {
			if activities[j].ExtendedDuration > activities[longest].ExtendedDuration {
				longest = j
			}
		}

		if current.ExtendedDuration >= activities[longest].ExtendedDuration {
			current.Column = ColumnLeft
			for _, j := range colliding {
				activities[j].Column = ColumnRight
			}
			continue
		}

		for _, j := range colliding {
			activities[j].Column = ColumnLeft
		}
		current.Column = ColumnRight
	}
}

// Resolve extends activities and assigns their columns.
func Resolve(activities []activity.Activity) []Extended {
	ext := Extend(activities)
	AssignColumns(ext)
	return ext
}
