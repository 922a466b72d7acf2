// Package export writes the computed schedule for other programs: the
// calendar layout as JSON or YAML, and the activities as an iCalendar feed.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwarden/theine/internal/layout"
	"github.com/cwarden/theine/internal/relative"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// LayoutDocument is the machine-readable form of a laid out calendar.
type LayoutDocument struct {
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Empty       bool        `json:"empty" yaml:"empty"`
	Window      *WindowDoc  `json:"window,omitempty" yaml:"window,omitempty"`
	Items       []ItemDoc   `json:"items" yaml:"items"`
	Markers     []MarkerDoc `json:"hour_markers" yaml:"hour_markers"`
}

type WindowDoc struct {
	Start         string `json:"start" yaml:"start"`
	End           string `json:"end" yaml:"end"`
	HeightMinutes int    `json:"height_minutes" yaml:"height_minutes"`
	NowOffset     int    `json:"now_offset_minutes" yaml:"now_offset_minutes"`
}

type MarkerDoc struct {
	Label         string `json:"label" yaml:"label"`
	Hour          int    `json:"hour" yaml:"hour"`
	OffsetMinutes int    `json:"offset_minutes" yaml:"offset_minutes"`
}

type ItemDoc struct {
	Key             string `json:"key" yaml:"key"`
	Type            string `json:"type" yaml:"type"`
	Title           string `json:"title" yaml:"title"`
	Column          int    `json:"column" yaml:"column"`
	Start           string `json:"start" yaml:"start"`
	End             string `json:"end" yaml:"end"`
	OffsetMinutes   int    `json:"offset_minutes" yaml:"offset_minutes"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	Starts          string `json:"starts" yaml:"starts"`
	Span            string `json:"span,omitempty" yaml:"span,omitempty"`
}

// NewLayoutDocument describes cal as seen at now. ok reports whether cal
// came from a non-empty activity list; an empty document has no window.
func NewLayoutDocument(cal layout.Calendar, ok bool, now time.Time, clock int) LayoutDocument {
	doc := LayoutDocument{
		GeneratedAt: now.Format(time.RFC3339),
		Empty:       !ok,
		Items:       []ItemDoc{},
		Markers:     []MarkerDoc{},
	}
	if !ok {
		return doc
	}

	doc.Window = &WindowDoc{
		Start:         cal.Start.Format(time.RFC3339),
		End:           cal.End.Format(time.RFC3339),
		HeightMinutes: cal.HeightMinutes(),
		NowOffset:     cal.NowOffset(now),
	}

	for _, m := range cal.HourMarkers {
		doc.Markers = append(doc.Markers, MarkerDoc{
			Label:         layout.FormatHour(m.Hour, clock),
			Hour:          m.Hour,
			OffsetMinutes: m.OffsetMinutes,
		})
	}

	for _, it := range cal.Items {
		a := it.Activity
		span, _ := relative.FormatSpan(a.Duration)
		doc.Items = append(doc.Items, ItemDoc{
			Key:             it.Key(),
			Type:            string(a.Type),
			Title:           a.Type.Title(),
			Column:          a.Column,
			Start:           a.StartTime.Format(time.RFC3339),
			End:             a.EndTime.Format(time.RFC3339),
			OffsetMinutes:   it.OffsetMinutes,
			DurationMinutes: it.DurationMinutes,
			Starts:          relative.Until(a.StartTime, now),
			Span:            span,
		})
	}

	return doc
}

// WriteLayout encodes doc in the requested format.
func WriteLayout(w io.Writer, doc LayoutDocument, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
