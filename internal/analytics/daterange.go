package analytics

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range: start date is after end date")

type RangePreset string

const (
	PresetLast7Days  RangePreset = "last7days"
	PresetLast30Days RangePreset = "last30days"
	PresetLast90Days RangePreset = "last90days"
	PresetCustom     RangePreset = "custom"
)

var presetDays = map[RangePreset]int{
	PresetLast7Days:  7,
	PresetLast30Days: 30,
	PresetLast90Days: 90,
}

// DateRangeSpec is the declarative date-range request a dashboard caller
// submits. For any preset other than "custom" the resolver derives the
// bounds itself and ignores StartDate/EndDate.
type DateRangeSpec struct {
	Preset         RangePreset `json:"preset"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	CompareEnabled bool        `json:"compare_enabled"`
}

// Bounds are concrete inclusive instants a store query filters on.
type Bounds struct {
	Gte time.Time `json:"gte"`
	Lte time.Time `json:"lte"`
}

// Length returns the covered duration.
func (b Bounds) Length() time.Duration {
	return b.Lte.Sub(b.Gte)
}

// Resolve turns a spec into concrete bounds. now is injected so reports and
// tests agree on the reference instant.
func Resolve(spec DateRangeSpec, now time.Time) (Bounds, error) {
	if days, ok := presetDays[spec.Preset]; ok {
		return Bounds{Gte: now.AddDate(0, 0, -days), Lte: now}, nil
	}
	if spec.StartDate.After(spec.EndDate) {
		return Bounds{}, ErrInvalidRange
	}
	return Bounds{Gte: spec.StartDate, Lte: spec.EndDate}, nil
}

// ComparisonBounds derives the period immediately preceding b: identical
// length, ending one second before b starts, never overlapping b.
func ComparisonBounds(b Bounds) Bounds {
	lte := b.Gte.Add(-time.Second)
	return Bounds{Gte: lte.Add(-b.Length()), Lte: lte}
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last second of t's day (23:59:59 local).
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Second)
}
