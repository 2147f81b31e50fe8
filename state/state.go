// Package state converts the persisted key/value snapshot into typed
// application state and back.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/stsysd/niwa/model"
)

// Snapshot keys.
const (
	KeyLocation       = "location"
	KeyGardens        = "gardens"
	KeyAddedPlants    = "addedPlants"
	KeyTrackedPlants  = "trackedPlants"
	KeyCustomWatering = "customWatering"
)

// Keys lists every snapshot key in write order.
var Keys = []string{KeyLocation, KeyGardens, KeyAddedPlants, KeyTrackedPlants, KeyCustomWatering}

// State is the whole user-owned state of the application.
type State struct {
	Location       *model.Location
	Gardens        []*model.Garden
	AddedPlants    []*model.Plant
	TrackedPlants  []*model.TrackedPlant
	CustomWatering []*model.CustomWateringEntry
}

// Serialize encodes every key of the state as JSON. Nil lists are written
// as empty arrays and a missing location as null.
func (s State) Serialize() (map[string][]byte, error) {
	values := map[string]any{
		KeyLocation:       s.Location,
		KeyGardens:        nonNil(s.Gardens),
		KeyAddedPlants:    nonNil(s.AddedPlants),
		KeyTrackedPlants:  nonNil(s.TrackedPlants),
		KeyCustomWatering: nonNil(s.CustomWatering),
	}
	out := make(map[string][]byte, len(values))
	for _, key := range Keys {
		b, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}

// PlantCount returns the number of plant snapshots held in every list.
func (s State) PlantCount() int {
	n := len(s.AddedPlants) + len(s.TrackedPlants)
	for _, g := range s.Gardens {
		n += g.PlantCount()
	}
	return n
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
