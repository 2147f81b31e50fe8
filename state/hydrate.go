package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/stsysd/niwa/model"
)

// Hydrate builds State from raw snapshot blobs. It never fails: a missing
// or unparsable blob yields an empty value for its key, and malformed
// fields inside records are coerced to safe defaults.
func Hydrate(raw map[string][]byte) State {
	return State{
		Location:       hydrateLocation(raw[KeyLocation]),
		Gardens:        hydrateGardens(raw[KeyGardens]),
		AddedPlants:    hydratePlants(raw[KeyAddedPlants]),
		TrackedPlants:  hydrateTracked(raw[KeyTrackedPlants]),
		CustomWatering: hydrateWatering(raw[KeyCustomWatering]),
	}
}

func hydrateLocation(b []byte) *model.Location {
	var loc model.Location
	obj, ok := decodeLenient(b, &loc)
	if !ok {
		return nil
	}
	loc.ZIP = stringOr(obj["zip"], "")
	loc.FrostDay = intPtr(obj["frostDay"])
	return &loc
}

func hydrateGardens(b []byte) []*model.Garden {
	items := decodeItems(b)
	gardens := make([]*model.Garden, 0, len(items))
	for i, item := range items {
		var g model.Garden
		obj, ok := decodeLenient(item, &g)
		if !ok {
			continue
		}
		g.ID = stringOr(obj["id"], uuid.New().String())
		g.Name = stringOr(obj["name"], fmt.Sprintf("Garden %d", i+1))
		g.Rows = clampSide(intOrZero(obj["rows"]))
		g.Cols = clampSide(intOrZero(obj["cols"]))
		g.Cells = hydrateCells(obj["cells"], g.Rows, g.Cols)
		gardens = append(gardens, &g)
	}
	return gardens
}

// hydrateCells pads or truncates the persisted grid to rows x cols.
func hydrateCells(v any, rows, cols int) [][]*model.Plant {
	cells := model.EmptyCells(rows, cols)
	persistedRows, _ := v.([]any)
	n := 0
	for r := 0; r < rows && r < len(persistedRows); r++ {
		persistedCols, _ := persistedRows[r].([]any)
		for c := 0; c < cols && c < len(persistedCols); c++ {
			if persistedCols[c] == nil {
				continue
			}
			b, err := json.Marshal(persistedCols[c])
			if err != nil {
				continue
			}
			n++
			cells[r][c] = hydratePlant(b, n)
		}
	}
	return cells
}

func hydratePlants(b []byte) []*model.Plant {
	items := decodeItems(b)
	plants := make([]*model.Plant, 0, len(items))
	for i, item := range items {
		if p := hydratePlant(item, i+1); p != nil {
			plants = append(plants, p)
		}
	}
	return plants
}

func hydratePlant(b []byte, n int) *model.Plant {
	var p model.Plant
	obj, ok := decodeLenient(b, &p)
	if !ok {
		return nil
	}
	fixPlant(&p, obj, n)
	return &p
}

func fixPlant(p *model.Plant, obj map[string]any, n int) {
	p.Slug = stringOr(obj["slug"], "")
	p.Name = stringOr(obj["name"], fmt.Sprintf("Plant %d", n))
	fallbackID := p.Slug
	if fallbackID == "" {
		fallbackID = uuid.New().String()
	}
	p.ID = stringOr(obj["id"], fallbackID)
	pt, err := model.ParsePlantType(string(p.PlantType))
	if err != nil {
		pt = model.PlantTypeVegetable
	}
	p.PlantType = pt
	if p.CultivatedSchedule != nil {
		fixPeriods(p.DefaultPeriods, obj["defaultPeriods"])
	}
}

// fixPeriods re-reads startDayLocalized of every window, since a mistyped
// value still leaves an allocated zero behind after decoding.
func fixPeriods(periods []model.PlantPeriod, v any) {
	persisted, _ := v.([]any)
	for i := range periods {
		var obj map[string]any
		if i < len(persisted) {
			obj, _ = persisted[i].(map[string]any)
		}
		fixWindow(periods[i].Indoor, obj["indoor"])
		fixWindow(periods[i].Transplant, obj["transplant"])
		fixWindow(periods[i].Outdoor, obj["outdoor"])
	}
}

func fixWindow(w *model.ScheduleWindow, v any) {
	if w == nil {
		return
	}
	obj, _ := v.(map[string]any)
	w.StartDayLocalized = intPtr(obj["startDayLocalized"])
}

func hydrateTracked(b []byte) []*model.TrackedPlant {
	items := decodeItems(b)
	tracked := make([]*model.TrackedPlant, 0, len(items))
	for i, item := range items {
		var tp model.TrackedPlant
		obj, ok := decodeLenient(item, &tp)
		if !ok {
			continue
		}
		fixPlant(&tp.Plant, obj, i+1)
		tp.TrackingID = stringOr(obj["trackingId"], uuid.New().String())
		tp.PlantedConfirmed = boolOr(obj["plantedConfirmed"], false)
		tp.WateringReminderEnabled = boolOr(obj["wateringReminderEnabled"], true)
		freq, err := model.ParseWateringFrequency(string(tp.WateringFrequency))
		if err != nil {
			freq = model.WateringAverage
		}
		tp.WateringFrequency = freq
		tp.WateringIntervalDays = intOrZero(obj["wateringIntervalDays"])
		if tp.WateringIntervalDays < 1 {
			tp.WateringIntervalDays = freq.DefaultInterval()
		}
		if tp.WateringIntervalDays < 1 {
			tp.WateringIntervalDays = model.WateringAverage.DefaultInterval()
		}
		timeline := tp.Timeline[:0]
		for _, e := range tp.Timeline {
			if e.Type == "" {
				continue
			}
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			timeline = append(timeline, e)
		}
		tp.Timeline = nonNil(timeline)
		tracked = append(tracked, &tp)
	}
	return tracked
}

func hydrateWatering(b []byte) []*model.CustomWateringEntry {
	items := decodeItems(b)
	entries := make([]*model.CustomWateringEntry, 0, len(items))
	for i, item := range items {
		var e model.CustomWateringEntry
		obj, ok := decodeLenient(item, &e)
		if !ok {
			continue
		}
		e.ID = stringOr(obj["id"], uuid.New().String())
		e.Name = stringOr(obj["name"], fmt.Sprintf("Plant %d", i+1))
		e.ReminderEnabled = boolOr(obj["reminderEnabled"], true)
		e.WateringIntervalDays = intOrZero(obj["wateringIntervalDays"])
		if e.WateringIntervalDays < 1 {
			e.WateringIntervalDays = model.WateringAverage.DefaultInterval()
		}
		entries = append(entries, &e)
	}
	return entries
}

// decodeItems splits a JSON array into its elements; anything else is empty.
func decodeItems(b []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	return items
}

// decodeLenient decodes a JSON object into v, skipping fields whose type
// does not match, and also returns the generic object for field checks.
func decodeLenient(b []byte, v any) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
		return nil, false
	}
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(b, v); err != nil && !errors.As(err, &typeErr) {
		return nil, false
	}
	return obj, true
}

func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// intOf accepts integral JSON numbers and numeric strings.
func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := cast.ToIntE(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func intOrZero(v any) int {
	i, _ := intOf(v)
	return i
}

// intPtr is nil unless v is an integer.
func intPtr(v any) *int {
	i, ok := intOf(v)
	if !ok {
		return nil
	}
	return &i
}

func boolOr(v any, def bool) bool {
	switch v.(type) {
	case bool, string:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func clampSide(n int) int {
	if n < 0 {
		return 0
	}
	if n > model.MaxGardenSide {
		return model.MaxGardenSide
	}
	return n
}
