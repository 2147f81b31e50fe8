// Package frost resolves a ZIP code to its spring frost anchor: the day of
// the reference year on which the last spring frost usually falls.
package frost

import (
	"context"
	"errors"
)

var (
	// ErrNoFrostRecorded is returned when no year in the history has a
	// spring frost.
	ErrNoFrostRecorded = errors.New("no spring frost recorded")
	// ErrZIPNotFound is returned when the geocoder does not know a ZIP code.
	ErrZIPNotFound = errors.New("zip code not found")
)

// Anchor sources.
const (
	SourceClimate = "climate"
	SourceStatic  = "static"
	SourceDefault = "default"
)

// Anchor is a resolved frost anchor for a ZIP code.
type Anchor struct {
	ZIP       string  `json:"zip"`
	Place     string  `json:"place,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	FrostDay  int     `json:"frostDay"`
	Source    string  `json:"source"`
}

// Resolver resolves a ZIP code to a frost anchor.
type Resolver interface {
	Resolve(ctx context.Context, zip string) (Anchor, error)
	Name() string
}

// Static resolves every ZIP code to the same day. It is used when lookups
// are disabled.
type Static struct {
	Day int
}

// Resolve returns the fixed anchor.
func (s Static) Resolve(_ context.Context, zip string) (Anchor, error) {
	return Anchor{ZIP: zip, FrostDay: s.Day, Source: SourceStatic}, nil
}

// Name returns the resolver name.
func (s Static) Name() string {
	return "Static"
}

var _ Resolver = Static{}
