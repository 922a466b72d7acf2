package activity

import (
	"errors"
	"testing"
	"time"
)

func TestSimpleTimeValidate(t *testing.T) {
	tests := []struct {
		name    string
		hours   int
		minutes int
		wantErr bool
	}{
		{"midnight", 0, 0, false},
		{"last minute", 23, 59, false},
		{"hour too large", 24, 0, true},
		{"negative hour", -1, 0, true},
		{"minute too large", 10, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimpleTime(tt.hours, tt.minutes)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSimpleTime) {
					t.Errorf("Expected ErrInvalidSimpleTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSimpleTimeOn(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	date := time.Date(2024, 3, 15, 17, 42, 0, 0, loc)

	got := SimpleTime{Hours: 23, Minutes: 5}.On(date)
	want := time.Date(2024, 3, 15, 23, 5, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("On() lost location: %v", got.Location())
	}
}

func TestSortByStartIsStable(t *testing.T) {
	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	acts := []Activity{
		{Type: TypeLunch, StartTime: base.Add(4 * time.Hour)},
		{Type: TypeBreakfast, StartTime: base},
		{Type: TypeSeekLight, StartTime: base},
	}

	if IsSorted(acts) {
		t.Fatal("Input should not be reported as sorted")
	}

	SortByStart(acts)

	want := []Type{TypeBreakfast, TypeSeekLight, TypeLunch}
	for i, a := range acts {
		if a.Type != want[i] {
			t.Errorf("Position %d: got %s, want %s", i, a.Type, want[i])
		}
	}
	if !IsSorted(acts) {
		t.Error("Activities should be sorted after SortByStart")
	}
}

func TestTypeTitle(t *testing.T) {
	if TypeSleep.Title() != "Sleep" {
		t.Errorf("Wrong title for sleep: %s", TypeSleep.Title())
	}
	if Type("jetpack").Title() != "jetpack" {
		t.Errorf("Unknown types should fall back to their identifier")
	}
	if Type("jetpack").Known() {
		t.Error("Unknown type reported as known")
	}
	for _, typ := range Types {
		if !typ.Known() {
			t.Errorf("%s should be known", typ)
		}
	}
}
