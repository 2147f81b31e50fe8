// Package schedule localizes location-agnostic planting schedules to a
// spring frost anchor and derives growth progress for tracked plants.
//
// All day numbers are day-of-year values in a fixed non-leap reference year,
// so formatted output is a recurring "Month Day" with no year. Values may be
// zero, negative or beyond 365; conversion rolls across year boundaries.
package schedule

import (
	"math"
	"time"

	"github.com/stsysd/niwa/model"
)

// ReferenceYear is the calendar year all day-of-year values are read in.
const ReferenceYear = 2023

// DefaultFrostDay is the fallback spring frost anchor (April 15) used when
// no location-specific anchor is available.
const DefaultFrostDay = 105

// dayFormat renders a reference-year date as "Jan 2".
const dayFormat = "Jan 2"

var referenceStart = time.Date(ReferenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)

// DayToDate converts a reference-year day (1 = January 1) to a date.
func DayToDate(day int) time.Time {
	return referenceStart.AddDate(0, 0, day-1)
}

// DateToDay maps a date's month and day onto the reference year.
// February 29 maps to March 1.
func DateToDay(t time.Time) int {
	d := time.Date(ReferenceYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(referenceStart).Hours()/24) + 1
}

// FormatDay renders a reference-year day as "Jan 2".
func FormatDay(day int) string {
	return DayToDate(day).Format(dayFormat)
}

// FormatWindow renders a window as a single day when it lasts one day or
// less, otherwise as "start - end". A nil window is "Not applicable".
func FormatWindow(w *model.ScheduleWindow) string {
	if w == nil {
		return model.NotApplicable
	}
	if w.Duration <= 1 {
		return FormatDay(w.Start())
	}
	return FormatDay(w.Start()) + " - " + FormatDay(w.End())
}

// AnchorOrDefault converts an externally supplied anchor to a day number,
// substituting DefaultFrostDay for NaN and infinities.
func AnchorOrDefault(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultFrostDay
	}
	return int(math.Round(v))
}

// AnchorFromLocation returns the location's anchor, or DefaultFrostDay when
// the location has none.
func AnchorFromLocation(loc *model.Location) int {
	if loc == nil || loc.FrostDay == nil {
		return DefaultFrostDay
	}
	return *loc.FrostDay
}
