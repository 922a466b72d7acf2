package export

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/relative"
)

const productID = "-//cwarden//theine//EN"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/cwarden/theine"))

// EventUID derives a stable UID from the activity type and start, so a
// re-exported schedule updates events instead of duplicating them.
func EventUID(a activity.Activity) string {
	name := string(a.Type) + "|" + a.StartTime.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@theine"
}

// Calendar builds an iCalendar feed with one event per activity. Events
// cover the real duration; zero-length activities become instants.
func Calendar(acts []activity.Activity, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Theine schedule")

	for _, a := range acts {
		ev := cal.AddEvent(EventUID(a))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(a.StartTime)
		ev.SetEndAt(a.EndTime())
		ev.SetSummary(a.Type.Title())
		if span, ok := relative.FormatSpan(a.Duration); ok {
			ev.SetDescription(a.Type.Title() + " " + span)
		}
	}

	return cal
}

// WriteICS serializes the feed for acts to w.
func WriteICS(w io.Writer, acts []activity.Activity, stamp time.Time) error {
	_, err := io.WriteString(w, Calendar(acts, stamp).Serialize())
	return err
}
