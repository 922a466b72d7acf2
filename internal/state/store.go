package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sosodev/duration"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/log"
)

type documentJSON struct {
	Input      inputJSON      `json:"input"`
	Activities []activityJSON `json:"activities"`
}

type inputJSON struct {
	TimeZoneDifference          int                  `json:"timeZoneDifference"`
	NormalSleepingHoursStart    activity.SimpleTime  `json:"normalSleepingHoursStart"`
	NormalSleepingHoursDuration string               `json:"normalSleepingHoursDuration"`
	NormalBreakfastStart        *activity.SimpleTime `json:"normalBreakfastStart"`
	NormalLunchStart            *activity.SimpleTime `json:"normalLunchStart"`
	NormalDinnerStart           *activity.SimpleTime `json:"normalDinnerStart"`
	Fresh                       bool                 `json:"fresh"`
}

type activityJSON struct {
	Type      string    `json:"type"`
	StartTime time.Time `json:"startTime"`
	Duration  string    `json:"duration"`
}

// FormatDuration renders d as an ISO-8601 duration such as "PT8H".
func FormatDuration(d time.Duration) string {
	return duration.FromTimeDuration(d).String()
}

// ParseDuration reads an ISO-8601 duration.
func ParseDuration(s string) (time.Duration, error) {
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d.ToTimeDuration(), nil
}

func encodeActivities(acts []activity.Activity) []activityJSON {
	out := make([]activityJSON, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityJSON{
			Type:      string(a.Type),
			StartTime: a.StartTime,
			Duration:  FormatDuration(a.Duration),
		})
	}
	return out
}

func decodeActivities(in []activityJSON) ([]activity.Activity, error) {
	out := make([]activity.Activity, 0, len(in))
	for i, a := range in {
		d, err := ParseDuration(a.Duration)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("activity %d: negative duration %s", i, a.Duration)
		}
		t := activity.Type(a.Type)
		if !t.Known() {
			log.Debug("unknown activity type", "type", a.Type, "index", i)
		}
		out = append(out, activity.Activity{Type: t, StartTime: a.StartTime, Duration: d})
	}
	return out, nil
}

// Encode writes s as an indented JSON document.
func Encode(w io.Writer, s State) error {
	doc := documentJSON{
		Input: inputJSON{
			TimeZoneDifference:          s.Input.TimeZoneDifference,
			NormalSleepingHoursStart:    s.Input.NormalSleepingHoursStart,
			NormalSleepingHoursDuration: FormatDuration(s.Input.NormalSleepingHoursDuration),
			NormalBreakfastStart:        s.Input.NormalBreakfastStart,
			NormalLunchStart:            s.Input.NormalLunchStart,
			NormalDinnerStart:           s.Input.NormalDinnerStart,
			Fresh:                       s.Input.Fresh,
		},
		Activities: encodeActivities(s.Activities),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a JSON document. Activities that are out of order are
// stably sorted by start time.
func Decode(r io.Reader) (State, error) {
	var doc documentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}

	s := State{
		Input: Input{
			TimeZoneDifference:       doc.Input.TimeZoneDifference,
			NormalSleepingHoursStart: doc.Input.NormalSleepingHoursStart,
			NormalBreakfastStart:     doc.Input.NormalBreakfastStart,
			NormalLunchStart:         doc.Input.NormalLunchStart,
			NormalDinnerStart:        doc.Input.NormalDinnerStart,
			Fresh:                    doc.Input.Fresh,
		},
	}

	if doc.Input.NormalSleepingHoursDuration == "" {
		s.Input.NormalSleepingHoursDuration = Default().Input.NormalSleepingHoursDuration
	} else {
		d, err := ParseDuration(doc.Input.NormalSleepingHoursDuration)
		if err != nil {
			return State{}, fmt.Errorf("decode state: sleep duration: %w", err)
		}
		s.Input.NormalSleepingHoursDuration = d
	}

	if err := s.Input.Validate(); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}

	acts, err := decodeActivities(doc.Activities)
	if err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if !activity.IsSorted(acts) {
		log.Info("activities out of order, sorting", "count", len(acts))
		activity.SortByStart(acts)
	}
	s.Activities = acts

	return s, nil
}

// Load reads the state document at path. A missing file yields Default.
func Load(path string) (State, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no state file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return State{}, err
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path atomically: the document goes to a temp file in the
// same directory which is then renamed over path. The parent directory is
// created with 0700 and the file ends up 0600.
func Save(path string, s State) error {
	if path == "" {
		return errors.New("state path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".theine-state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	log.Debug("state saved", "path", path, "activities", len(s.Activities))
	return nil
}
