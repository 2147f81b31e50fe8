package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stsysd/niwa/model"
)

func tomatoes() model.RawPlantSpecies {
	return model.RawPlantSpecies{
		Name:      "Tomatoes",
		Category:  "Vegetables",
		MinZone:   3,
		MaxZone:   11,
		PlantType: model.PlantTypeVegetable,
		DefaultPeriods: []model.PlantPeriod{{
			Indoor:     &model.ScheduleWindow{StartOffsetFromSpringFrost: -42, StartDayDefault: 63, Duration: 14},
			Transplant: &model.ScheduleWindow{StartOffsetFromSpringFrost: 14, StartDayDefault: 119, Duration: 7},
		}},
	}
}

func TestBuildTomatoesScenario(t *testing.T) {
	p := Build(tomatoes(), 100)

	if p.IsDisplayOnly() {
		t.Fatal("Expected a cultivated schedule")
	}
	want := model.CultivatedSchedule{
		StartSeedIndoor:   "Feb 27 - Mar 12",
		StartSeedOutdoor:  "Not applicable",
		TransplantOutdoor: "Apr 24 - Apr 30",
		HarvestDate:       "May 13 (est.)",
		IndoorOutdoor:     "Start indoors & transplant",
		DaysToHarvest:     75,
		TransplantDay:     56,
	}
	got := *p.CultivatedSchedule
	got.DefaultPeriods = nil
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}

	indoor, transplant, outdoor := model.FirstWindows(p.DefaultPeriods)
	if indoor.Start() != 58 || indoor.End() != 71 {
		t.Errorf("indoor window = %d-%d, want 58-71", indoor.Start(), indoor.End())
	}
	if transplant.Start() != 114 || transplant.End() != 120 {
		t.Errorf("transplant window = %d-%d, want 114-120", transplant.Start(), transplant.End())
	}
	if outdoor != nil {
		t.Errorf("expected no outdoor window, got %+v", outdoor)
	}
	if p.Slug != "tomatoes" || p.ID != "tomatoes" || p.Image != "🥕" {
		t.Errorf("unexpected identity fields: %+v", p)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	species := tomatoes()
	for _, anchor := range []int{-20, 0, 100, 140, 400} {
		a := Build(species, anchor)
		b := Build(species, anchor)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("anchor %d: builds differ (-first +second):\n%s", anchor, diff)
		}
	}
}

func TestBuildDoesNotMutateSpecies(t *testing.T) {
	species := tomatoes()
	Build(species, 100)
	if species.DefaultPeriods[0].Indoor.StartDayLocalized != nil {
		t.Error("Build must not localize the raw species in place")
	}
}

func TestLocalizeOffsetLaw(t *testing.T) {
	periods := []model.PlantPeriod{
		{
			Indoor:  &model.ScheduleWindow{StartOffsetFromSpringFrost: -56, Duration: 21},
			Outdoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: 7, Duration: 30},
		},
		{
			Transplant: &model.ScheduleWindow{StartOffsetFromSpringFrost: 0, Duration: 1},
			Outdoor:    &model.ScheduleWindow{StartOffsetFromSpringFrost: 90, Duration: 14},
		},
	}
	for _, anchor := range []int{-400, -1, 0, 1, 105, 365, 366, 1000} {
		localized := Localize(periods, anchor)
		for i, p := range localized {
			raw := periods[i]
			pairs := [][2]*model.ScheduleWindow{{raw.Indoor, p.Indoor}, {raw.Transplant, p.Transplant}, {raw.Outdoor, p.Outdoor}}
			for _, pair := range pairs {
				if (pair[0] == nil) != (pair[1] == nil) {
					t.Fatalf("anchor %d period %d: window presence changed", anchor, i)
				}
				if pair[0] == nil {
					continue
				}
				if got, want := *pair[1].StartDayLocalized, anchor+pair[0].StartOffsetFromSpringFrost; got != want {
					t.Errorf("anchor %d period %d: localized %d, want %d", anchor, i, got, want)
				}
				if pair[1].Duration != pair[0].Duration {
					t.Errorf("anchor %d period %d: duration changed", anchor, i)
				}
			}
		}
	}
	if Localize(nil, 100) != nil {
		t.Error("Localize(nil) should be nil")
	}
}

func TestPlantingModeTable(t *testing.T) {
	tests := []struct {
		indoor, transplant, outdoor bool
		want                        string
	}{
		{true, true, true, "Indoor seed → outdoor transplant"},
		{true, true, false, "Start indoors & transplant"},
		{true, false, true, "Start indoors"},
		{true, false, false, "Start indoors"},
		{false, true, true, "Direct sow outdoors"},
		{false, true, false, "Transplant outdoors"},
		{false, false, true, "Direct sow outdoors"},
		{false, false, false, "Refer to schedule"},
	}
	for _, tt := range tests {
		if got := PlantingMode(tt.indoor, tt.transplant, tt.outdoor); got != tt.want {
			t.Errorf("PlantingMode(%v, %v, %v) = %q, want %q", tt.indoor, tt.transplant, tt.outdoor, got, tt.want)
		}
	}
}

func TestPlantingModeThroughBuild(t *testing.T) {
	w := func() *model.ScheduleWindow { return &model.ScheduleWindow{Duration: 7} }
	species := model.RawPlantSpecies{Name: "Kale", Category: "Vegetables", PlantType: model.PlantTypeVegetable}
	species.DefaultPeriods = []model.PlantPeriod{{Transplant: w(), Outdoor: w()}}
	if got := Build(species, 100).IndoorOutdoor; got != ModeDirectSow {
		t.Errorf("transplant+outdoor: got %q", got)
	}
	species.DefaultPeriods = []model.PlantPeriod{{}}
	if got := Build(species, 100).IndoorOutdoor; got != ModeUnknown {
		t.Errorf("no windows: got %q", got)
	}
}

func TestHarvestEstimate(t *testing.T) {
	tests := map[string]int{
		"Vegetables": 75,
		"fruits":     90,
		" Herbs ":    50,
		"Flowers":    65,
		"Mushrooms":  75,
		"":           75,
	}
	for category, want := range tests {
		if got := HarvestEstimate(category); got != want {
			t.Errorf("HarvestEstimate(%q) = %d, want %d", category, got, want)
		}
	}

	species := tomatoes()
	species.Category = "Cover Crops"
	if got := Build(species, 100).DaysToHarvest; got != 75 {
		t.Errorf("unknown category daysToHarvest = %d, want 75", got)
	}
}

func TestBuildStartPriorities(t *testing.T) {
	// Outdoor only: earliest and transplant start both come from the outdoor window.
	species := model.RawPlantSpecies{
		Name: "Carrots", Category: "Vegetables", PlantType: model.PlantTypeVegetable,
		DefaultPeriods: []model.PlantPeriod{{Outdoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: -14, Duration: 28}}},
	}
	p := Build(species, 100)
	if p.TransplantDay != 0 {
		t.Errorf("outdoor only transplantDay = %d, want 0", p.TransplantDay)
	}
	if p.HarvestDate != FormatDay(86+75)+" (est.)" {
		t.Errorf("unexpected harvest date %q", p.HarvestDate)
	}

	// First window of each kind wins by period order, not by date.
	species.DefaultPeriods = []model.PlantPeriod{
		{Outdoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: 60, Duration: 7}},
		{Outdoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: -10, Duration: 7}},
	}
	p = Build(species, 100)
	if p.StartSeedOutdoor != FormatDay(160)+" - "+FormatDay(166) {
		t.Errorf("expected the first period's outdoor window, got %q", p.StartSeedOutdoor)
	}

	// Transplant before the indoor start clamps transplantDay to zero.
	species.DefaultPeriods = []model.PlantPeriod{{
		Indoor:     &model.ScheduleWindow{StartOffsetFromSpringFrost: 10, Duration: 7},
		Transplant: &model.ScheduleWindow{StartOffsetFromSpringFrost: -10, Duration: 7},
	}}
	if got := Build(species, 100).TransplantDay; got != 0 {
		t.Errorf("negative gap transplantDay = %d, want 0", got)
	}
}

func TestBuildOrnamental(t *testing.T) {
	hosta := model.RawPlantSpecies{
		Name: "Hosta", Category: "Ornamentals", MinZone: 3, MaxZone: 9,
		PlantType: model.PlantTypeOrnamental, BloomSeason: "Mid summer", Description: "Shade perennial",
	}
	p := Build(hosta, 100)
	if !p.IsDisplayOnly() {
		t.Error("Expected a display-only plant")
	}
	if p.BloomSeasonText() != "Mid summer" || p.Description != "Shade perennial" {
		t.Errorf("unexpected ornamental display: %+v", p.OrnamentalDisplay)
	}
	if p.Image != "🪴" {
		t.Errorf("unexpected image %q", p.Image)
	}

	hosta.DefaultPeriods = []model.PlantPeriod{{Transplant: &model.ScheduleWindow{StartOffsetFromSpringFrost: 7, Duration: 21}}}
	p = Build(hosta, 100)
	if p.IsDisplayOnly() || p.OrnamentalDisplay == nil {
		t.Error("An ornamental with periods keeps both its schedule and display data")
	}
}

func TestBuildAll(t *testing.T) {
	species := []model.RawPlantSpecies{tomatoes(), {Name: "Hosta", PlantType: model.PlantTypeOrnamental}}
	plants := BuildAll(species, 100)
	if len(plants) != 2 || plants[0].Name != "Tomatoes" || plants[1].Name != "Hosta" {
		t.Errorf("unexpected plants %+v", plants)
	}
}
