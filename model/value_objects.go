// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ZIPCode represents a US ZIP code value object.
type ZIPCode struct {
	value string
}

// NewZIPCode creates a new ZIP code value object.
// ZIP+4 codes are accepted and truncated to their five digit prefix.
func NewZIPCode(s string) (*ZIPCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, NewValidationError("zip is required")
	}
	if len(s) == 10 && s[5] == '-' {
		if !isDigits(s[6:]) {
			return nil, NewValidationError("zip must be 5 digits")
		}
		s = s[:5]
	}
	if len(s) != 5 || !isDigits(s) {
		return nil, NewValidationError("zip must be 5 digits")
	}
	return &ZIPCode{value: s}, nil
}

// String returns the five digit ZIP code.
func (z *ZIPCode) String() string {
	return z.value
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// Location is the user's resolved location and its frost anchor.
type Location struct {
	ZIP        string  `json:"zip"`
	Place      string  `json:"place,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	FrostDay   *int    `json:"frostDay,omitempty"`
	Source     string  `json:"source,omitempty"`
	ResolvedAt string  `json:"resolvedAt,omitempty"`
}

// GridPosition represents a garden cell coordinate value object.
type GridPosition struct {
	row int
	col int
}

// NewGridPosition creates a new grid position from path parameters.
func NewGridPosition(rowStr, colStr string) (*GridPosition, error) {
	row, err := parseInt(rowStr)
	if err != nil || row < 0 {
		return nil, NewValidationError("row must be a non-negative integer")
	}
	col, err := parseInt(colStr)
	if err != nil || col < 0 {
		return nil, NewValidationError("col must be a non-negative integer")
	}
	return &GridPosition{row: row, col: col}, nil
}

// Row returns the zero-based row.
func (g *GridPosition) Row() int {
	return g.row
}

// Col returns the zero-based column.
func (g *GridPosition) Col() int {
	return g.col
}

// FrostDayParam represents an optional frost day query parameter.
type FrostDayParam struct {
	value *int
}

// NewFrostDayParam creates a new frost day parameter value object.
func NewFrostDayParam(s string) (*FrostDayParam, error) {
	if s == "" {
		return &FrostDayParam{}, nil
	}
	v, err := parseInt(s)
	if err != nil {
		return nil, NewValidationError("frost_day must be an integer")
	}
	if v < -365 || v > 730 {
		return nil, NewValidationError("frost_day is out of range")
	}
	return &FrostDayParam{value: &v}, nil
}

// Value returns the frost day and whether it was supplied.
func (f *FrostDayParam) Value() (int, bool) {
	if f.value == nil {
		return 0, false
	}
	return *f.value, true
}

// PlantedDate represents a planted date value object.
type PlantedDate struct {
	value time.Time
}

// NewPlantedDate creates a new planted date value object.
// An empty string means today in UTC.
func NewPlantedDate(s string, now time.Time) (*PlantedDate, error) {
	if s == "" {
		return &PlantedDate{value: normalizeToBeginOfDay(now.UTC())}, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, NewValidationError("invalid date. Use ISO8601 format (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ)")
	}
	return &PlantedDate{value: t}, nil
}

// Time returns the date value.
func (p *PlantedDate) Time() time.Time {
	return p.value
}

// FormatDate renders a time as an ISO calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate parses an ISO date or timestamp and returns UTC midnight of the
// calendar date as written.
func ParseDate(s string) (time.Time, error) {
	t, err := parseDateTime(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return normalizeToBeginOfDay(t), nil
}

// normalizeToBeginOfDay returns UTC midnight of t's calendar date.
func normalizeToBeginOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDateTime parses date string with flexible format support.
func parseDateTime(dateStr string) (time.Time, error) {
	// Try RFC3339 format first (with time)
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}

	// Try date-only format (YYYY-MM-DD)
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date")
}

// parseInt converts a string to an integer and handles errors.
func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
