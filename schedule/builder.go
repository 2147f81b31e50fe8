package schedule

import (
	"strings"

	"github.com/stsysd/niwa/model"
)

// DefaultDaysToHarvest is the harvest estimate for categories without a
// specific entry.
const DefaultDaysToHarvest = 75

// harvestDaysByCategory is a fixed per-category estimate; it does not look
// at window durations.
var harvestDaysByCategory = map[string]int{
	"vegetables": 75,
	"fruits":     90,
	"herbs":      50,
	"flowers":    65,
}

var imageByCategory = map[string]string{
	"vegetables":  "🥕",
	"fruits":      "🍓",
	"herbs":       "🌿",
	"flowers":     "🌸",
	"ornamentals": "🪴",
}

const defaultImage = "🌱"

// Planting mode summaries.
const (
	ModeIndoorToTransplant = "Indoor seed → outdoor transplant"
	ModeIndoorTransplant   = "Start indoors & transplant"
	ModeIndoor             = "Start indoors"
	ModeTransplant         = "Transplant outdoors"
	ModeDirectSow          = "Direct sow outdoors"
	ModeUnknown            = "Refer to schedule"
)

// HarvestEstimate returns the days-to-harvest estimate for a category.
func HarvestEstimate(category string) int {
	if d, ok := harvestDaysByCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		return d
	}
	return DefaultDaysToHarvest
}

// PlantingMode chooses the planting-mode summary from which windows exist.
func PlantingMode(hasIndoor, hasTransplant, hasOutdoor bool) string {
	switch {
	case hasIndoor && hasTransplant && hasOutdoor:
		return ModeIndoorToTransplant
	case hasIndoor && hasTransplant:
		return ModeIndoorTransplant
	case hasIndoor:
		return ModeIndoor
	case hasOutdoor:
		return ModeDirectSow
	case hasTransplant:
		return ModeTransplant
	}
	return ModeUnknown
}

// Build derives the display-ready Plant for a species at a frost anchor.
// The result depends only on its arguments.
func Build(species model.RawPlantSpecies, frostDay int) model.Plant {
	slug := species.SpeciesSlug()
	p := model.Plant{
		ID:        slug,
		Slug:      slug,
		Name:      species.Name,
		Category:  species.Category,
		Image:     speciesImage(species),
		PlantType: species.PlantType,
		MinZone:   species.MinZone,
		MaxZone:   species.MaxZone,
	}
	if species.PlantType.IsOrnamental() {
		p.OrnamentalDisplay = &model.OrnamentalDisplay{
			BloomSeason: species.BloomSeason,
			Description: species.Description,
		}
		if len(species.DefaultPeriods) == 0 {
			return p
		}
	}

	periods := Localize(species.DefaultPeriods, frostDay)
	indoor, transplant, outdoor := model.FirstWindows(periods)

	earliestStart := firstStart(frostDay, indoor, outdoor, transplant)
	transplantStart := firstStart(earliestStart, transplant, outdoor, indoor)
	transplantDay := transplantStart - earliestStart
	if transplantDay < 0 {
		transplantDay = 0
	}
	daysToHarvest := HarvestEstimate(species.Category)

	p.CultivatedSchedule = &model.CultivatedSchedule{
		StartSeedIndoor:   FormatWindow(indoor),
		StartSeedOutdoor:  FormatWindow(outdoor),
		TransplantOutdoor: FormatWindow(transplant),
		HarvestDate:       FormatDay(earliestStart+daysToHarvest) + " (est.)",
		IndoorOutdoor:     PlantingMode(indoor != nil, transplant != nil, outdoor != nil),
		DaysToHarvest:     daysToHarvest,
		TransplantDay:     transplantDay,
		DefaultPeriods:    periods,
	}
	return p
}

// BuildAll builds every species at the same anchor, preserving order.
func BuildAll(species []model.RawPlantSpecies, frostDay int) []model.Plant {
	out := make([]model.Plant, len(species))
	for i := range species {
		out[i] = Build(species[i], frostDay)
	}
	return out
}

// firstStart returns the start of the first present window, or fallback.
func firstStart(fallback int, windows ...*model.ScheduleWindow) int {
	for _, w := range windows {
		if w != nil {
			return w.Start()
		}
	}
	return fallback
}

func speciesImage(s model.RawPlantSpecies) string {
	if s.Image != "" {
		return s.Image
	}
	if img, ok := imageByCategory[strings.ToLower(strings.TrimSpace(s.Category))]; ok {
		return img
	}
	return defaultImage
}
