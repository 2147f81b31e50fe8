package schedule

import (
	"testing"
	"time"

	"github.com/stsysd/niwa/model"
)

func trackedTomato(planted string) *model.TrackedPlant {
	return &model.TrackedPlant{
		Plant:                Build(tomatoes(), 100),
		TrackingID:           "abc",
		SeedPlantedDate:      planted,
		WateringFrequency:    model.WateringAverage,
		WateringIntervalDays: 4,
	}
}

func day(offset int) time.Time {
	return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestCalculateProgressCultivated(t *testing.T) {
	tp := trackedTomato("2025-03-01")

	tests := []struct {
		name      string
		now       time.Time
		days      int
		phase     Phase
		milestone string
		reached   bool
		ready     bool
	}{
		{"planting day", day(0), 0, PhaseTransplant, "Transplant in 56 days", false, false},
		{"one day left", day(55), 55, PhaseTransplant, "Transplant in 1 day", false, false},
		{"transplanted", day(56), 56, PhaseOutdoor, "Harvest in 19 days", true, false},
		{"last day", day(74), 74, PhaseOutdoor, "Harvest in 1 day", true, false},
		{"harvest", day(75), 75, PhaseHarvest, "Harvest ready", true, true},
		{"long after", day(400), 400, PhaseHarvest, "Harvest ready", true, true},
		{"before planting", day(-10), 0, PhaseTransplant, "Transplant in 56 days", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(tp, tt.now)
			if got.DaysPassed != tt.days {
				t.Errorf("DaysPassed = %d, want %d", got.DaysPassed, tt.days)
			}
			if got.Phase != tt.phase {
				t.Errorf("Phase = %s, want %s", got.Phase, tt.phase)
			}
			if got.NextMilestone != tt.milestone {
				t.Errorf("NextMilestone = %q, want %q", got.NextMilestone, tt.milestone)
			}
			if got.TransplantReached != tt.reached || got.HarvestReady != tt.ready {
				t.Errorf("flags = (%v, %v), want (%v, %v)", got.TransplantReached, got.HarvestReady, tt.reached, tt.ready)
			}
		})
	}
}

func TestCalculateProgressMonotonic(t *testing.T) {
	tp := trackedTomato("2025-03-01")
	prev := CalculateProgress(tp, day(0))
	for offset := 1; offset <= 200; offset++ {
		cur := CalculateProgress(tp, day(offset))
		if cur.DaysPassed < prev.DaysPassed {
			t.Fatalf("day %d: DaysPassed decreased %d -> %d", offset, prev.DaysPassed, cur.DaysPassed)
		}
		if cur.PercentComplete < prev.PercentComplete {
			t.Fatalf("day %d: PercentComplete decreased %f -> %f", offset, prev.PercentComplete, cur.PercentComplete)
		}
		if cur.PercentComplete > 100 {
			t.Fatalf("day %d: PercentComplete %f exceeds 100", offset, cur.PercentComplete)
		}
		prev = cur
	}
	if prev.PercentComplete != 100 {
		t.Errorf("expected 100%% long after harvest, got %f", prev.PercentComplete)
	}
}

func TestDaysSinceTodayEastOfUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	start := time.Date(2025, 5, 21, 8, 0, 0, 0, tokyo)
	planted, err := model.NewPlantedDate("", start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iso := model.FormatDate(planted.Time())

	tests := []struct {
		description string
		now         time.Time
		expected    int
	}{
		{"登録直後", start, 0},
		{"24時間後", start.Add(24 * time.Hour), 1},
		{"48時間後", start.Add(48 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := DaysSince(iso, tt.now); got != tt.expected {
				t.Errorf("DaysSince(%s, %v) = %d, want %d", iso, tt.now, got, tt.expected)
			}
		})
	}
}

func TestCalculateProgressPhaseOrdering(t *testing.T) {
	for offset := 0; offset < 150; offset++ {
		got := CalculateProgress(trackedTomato("2025-03-01"), day(offset))
		if got.HarvestReady && got.Phase != PhaseHarvest {
			t.Fatalf("day %d: harvest ready but phase %s", offset, got.Phase)
		}
		if got.TransplantReached && !got.HarvestReady && got.Phase != PhaseOutdoor {
			t.Fatalf("day %d: transplant reached but phase %s", offset, got.Phase)
		}
	}
}

func TestCalculateProgressDoesNotMutate(t *testing.T) {
	tp := trackedTomato("2025-03-01")
	before := *tp.CultivatedSchedule
	CalculateProgress(tp, day(30))
	if tp.SeedPlantedDate != "2025-03-01" || tp.TransplantDay != before.TransplantDay || tp.DaysToHarvest != before.DaysToHarvest {
		t.Error("CalculateProgress modified its input")
	}
}

func TestCalculateProgressFallbacks(t *testing.T) {
	// Direct-sown herb without a transplant target: outdoor phase, herb fallback duration.
	basil := model.RawPlantSpecies{
		Name: "Basil", Category: "Herbs", PlantType: model.PlantTypeHerb,
		DefaultPeriods: []model.PlantPeriod{{Outdoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: 14, Duration: 30}}},
	}
	tp := &model.TrackedPlant{Plant: Build(basil, 100), SeedPlantedDate: "2025-03-01"}
	tp.DaysToHarvest = 0
	got := CalculateProgress(tp, day(25))
	if got.Phase != PhaseOutdoor || got.PercentComplete != 50 || got.NextMilestone != "Harvest in 25 days" {
		t.Errorf("unexpected herb progress %+v", got)
	}

	// Indoor only, no transplant: indoor phase.
	lettuce := model.RawPlantSpecies{
		Name: "Microgreens", Category: "Vegetables", PlantType: model.PlantTypeVegetable,
		DefaultPeriods: []model.PlantPeriod{{Indoor: &model.ScheduleWindow{StartOffsetFromSpringFrost: -10, Duration: 60}}},
	}
	tp = &model.TrackedPlant{Plant: Build(lettuce, 100), SeedPlantedDate: "2025-03-01"}
	if got := CalculateProgress(tp, day(3)); got.Phase != PhaseIndoor {
		t.Errorf("expected indoor phase, got %s", got.Phase)
	}

	// TransplantDay missing: derived from the indoor/transplant gap.
	tp = trackedTomato("2025-03-01")
	tp.TransplantDay = 0
	if got := CalculateProgress(tp, day(10)); got.NextMilestone != "Transplant in 46 days" {
		t.Errorf("expected gap-derived transplant target, got %q", got.NextMilestone)
	}

	// Legacy record without any schedule uses the category estimate.
	legacy := &model.TrackedPlant{Plant: model.Plant{Name: "Fig", Category: "Fruits", PlantType: model.PlantTypeVegetable}, SeedPlantedDate: "2025-03-01"}
	if got := CalculateProgress(legacy, day(45)); got.PercentComplete != 50 {
		t.Errorf("expected 50%% of the 90 day fruit estimate, got %f", got.PercentComplete)
	}

	// Unparsable date counts as day zero.
	tp = trackedTomato("not-a-date")
	if got := CalculateProgress(tp, day(30)); got.DaysPassed != 0 {
		t.Errorf("expected 0 days for an invalid date, got %d", got.DaysPassed)
	}
}

func TestCalculateProgressOrnamental(t *testing.T) {
	hosta := model.RawPlantSpecies{Name: "Hosta", Category: "Ornamentals", PlantType: model.PlantTypeOrnamental, BloomSeason: "Mid summer"}
	tp := &model.TrackedPlant{Plant: Build(hosta, 100), SeedPlantedDate: "2025-03-01"}

	got := CalculateProgress(tp, day(500))
	want := ProgressResult{DaysPassed: 500, Phase: PhaseOutdoor, NextMilestone: "Blooms: Mid summer"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	tp.OrnamentalDisplay = nil
	if got := CalculateProgress(tp, day(-3)); got.NextMilestone != "Growing" || got.DaysPassed != 0 {
		t.Errorf("unexpected progress without bloom season: %+v", got)
	}
}
