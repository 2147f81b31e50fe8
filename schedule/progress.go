package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/stsysd/niwa/model"
)

// Phase is the coarse growth phase of a tracked plant.
type Phase string

const (
	PhaseIndoor     Phase = "indoor"
	PhaseTransplant Phase = "transplant"
	PhaseOutdoor    Phase = "outdoor"
	PhaseHarvest    Phase = "harvest"
)

// ProgressResult is the derived growth state of a tracked plant at a point
// in time.
type ProgressResult struct {
	DaysPassed        int     `json:"daysPassed"`
	PercentComplete   float64 `json:"percentComplete"`
	TransplantReached bool    `json:"transplantReached"`
	HarvestReady      bool    `json:"harvestReady"`
	Phase             Phase   `json:"phase"`
	NextMilestone     string  `json:"nextMilestone"`
}

// CalculateProgress derives the progress of tp at now. It never modifies tp.
func CalculateProgress(tp *model.TrackedPlant, now time.Time) ProgressResult {
	daysPassed := DaysSince(tp.SeedPlantedDate, now)
	if tp.PlantType.IsOrnamental() {
		return ornamentalProgress(tp, daysPassed)
	}
	return cultivatedProgress(tp, daysPassed)
}

// DaysSince returns the whole UTC days between an ISO date and now, floored
// at zero. An unparsable date counts as zero days.
func DaysSince(isoDate string, now time.Time) int {
	planted, err := model.ParseDate(isoDate)
	if err != nil {
		return 0
	}
	days := int(math.Floor(now.UTC().Sub(planted).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func ornamentalProgress(tp *model.TrackedPlant, daysPassed int) ProgressResult {
	milestone := "Growing"
	if bloom := tp.BloomSeasonText(); bloom != "" {
		milestone = "Blooms: " + bloom
	}
	return ProgressResult{
		DaysPassed:    daysPassed,
		Phase:         PhaseOutdoor,
		NextMilestone: milestone,
	}
}

func cultivatedProgress(tp *model.TrackedPlant, daysPassed int) ProgressResult {
	totalDuration := HarvestEstimate(tp.Category)
	transplantTarget := 0
	indoorMode := false
	if s := tp.CultivatedSchedule; s != nil {
		if s.DaysToHarvest > 0 {
			totalDuration = s.DaysToHarvest
		}
		transplantTarget = s.TransplantDay
		indoorMode = strings.Contains(strings.ToLower(s.IndoorOutdoor), "indoor")
	}
	if totalDuration < 1 {
		totalDuration = 1
	}
	if transplantTarget <= 0 {
		transplantTarget = windowGap(tp.Periods())
	}

	transplantReached := transplantTarget > 0 && daysPassed >= transplantTarget
	harvestReady := daysPassed >= totalDuration

	var phase Phase
	switch {
	case harvestReady:
		phase = PhaseHarvest
	case transplantReached:
		phase = PhaseOutdoor
	case transplantTarget > 0:
		phase = PhaseTransplant
	case indoorMode:
		phase = PhaseIndoor
	default:
		phase = PhaseOutdoor
	}

	percent := float64(daysPassed) / float64(totalDuration) * 100
	if percent > 100 {
		percent = 100
	}

	var milestone string
	switch {
	case !transplantReached && transplantTarget > 0:
		if remaining := transplantTarget - daysPassed; remaining <= 0 {
			milestone = "Transplant this week"
		} else {
			milestone = "Transplant in " + pluralDays(remaining)
		}
	case !harvestReady:
		if remaining := totalDuration - daysPassed; remaining <= 0 {
			milestone = "Harvest window opening"
		} else {
			milestone = "Harvest in " + pluralDays(remaining)
		}
	default:
		milestone = "Harvest ready"
	}

	return ProgressResult{
		DaysPassed:        daysPassed,
		PercentComplete:   percent,
		TransplantReached: transplantReached,
		HarvestReady:      harvestReady,
		Phase:             phase,
		NextMilestone:     milestone,
	}
}

// windowGap is the number of days from the first indoor window to the first
// transplant window, or 0 when either is missing or the gap is not positive.
func windowGap(periods []model.PlantPeriod) int {
	indoor, transplant, _ := model.FirstWindows(periods)
	if indoor == nil || transplant == nil {
		return 0
	}
	if gap := transplant.Start() - indoor.Start(); gap > 0 {
		return gap
	}
	return 0
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
