package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/schedule"
)

// PhaseColors are the cell colors of each planting phase.
var PhaseColors = map[schedule.Phase]string{
	schedule.PhaseIndoor:     "#9ecae1",
	schedule.PhaseTransplant: "#fdae6b",
	schedule.PhaseOutdoor:    "#74c476",
	schedule.PhaseHarvest:    "#e6550d",
}

const (
	emptyColor = "#f0f0f0"
	frostColor = "#3182bd"
)

var phaseLabels = []struct {
	phase schedule.Phase
	label string
}{
	{schedule.PhaseIndoor, "Start seeds indoors"},
	{schedule.PhaseTransplant, "Transplant outdoors"},
	{schedule.PhaseOutdoor, "Sow outdoors"},
	{schedule.PhaseHarvest, "Harvest (est.)"},
}

// harvestSpan is the number of days marked for the estimated harvest.
const harvestSpan = 7

// PlantingDays maps reference-year days to the planting phase active on
// them. Windows that run past the year boundary wrap around. Later phases
// win where windows overlap.
func PlantingDays(p model.Plant) map[int]schedule.Phase {
	days := make(map[int]schedule.Phase)
	indoor, transplant, outdoor := model.FirstWindows(p.Periods())
	mark := func(start, length int, phase schedule.Phase) {
		for d := start; d < start+length; d++ {
			days[wrapDay(d)] = phase
		}
	}
	for _, period := range p.Periods() {
		if w := period.Indoor; w != nil {
			mark(w.Start(), max(w.Duration, 1), schedule.PhaseIndoor)
		}
	}
	for _, period := range p.Periods() {
		if w := period.Transplant; w != nil {
			mark(w.Start(), max(w.Duration, 1), schedule.PhaseTransplant)
		}
		if w := period.Outdoor; w != nil {
			mark(w.Start(), max(w.Duration, 1), schedule.PhaseOutdoor)
		}
	}
	if p.CultivatedSchedule != nil && p.DaysToHarvest > 0 {
		earliest := 0
		switch {
		case indoor != nil:
			earliest = indoor.Start()
		case outdoor != nil:
			earliest = outdoor.Start()
		case transplant != nil:
			earliest = transplant.Start()
		}
		if earliest != 0 {
			mark(earliest+p.DaysToHarvest, harvestSpan, schedule.PhaseHarvest)
		}
	}
	return days
}

// wrapDay folds any day number onto the reference year by calendar date, so
// a marked cell always shows the date FormatDay prints for the same day.
func wrapDay(d int) int {
	return schedule.DateToDay(schedule.DayToDate(d))
}

// GeneratePlantingSVG returns an SVG calendar of the reference year with
// the plant's windows colored by phase and the frost anchor outlined.
func GeneratePlantingSVG(p model.Plant, frostDay int, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
		opts.Title = fmt.Sprintf("%s (last frost %s)", p.Name, schedule.FormatDay(frostDay))
	}
	from := schedule.DayToDate(1)
	to := schedule.DayToDate(365)
	frost := wrapDay(frostDay)
	days := PlantingDays(p)

	g := newGrid(from, to, opts, len(phaseLabels))
	var sb strings.Builder
	g.render(&sb, func(current time.Time) (cell, bool) {
		day := schedule.DateToDay(current)
		c := cell{fill: emptyColor, tooltip: current.Format("Jan 2")}
		if phase, ok := days[day]; ok {
			c.fill = PhaseColors[phase]
			c.attrs = fmt.Sprintf(` data-phase="%s"`, phase)
			c.tooltip += ": " + string(phase)
		}
		if day == frost {
			c.stroke = frostColor
			c.tooltip += " (last frost)"
		}
		return c, true
	})
	for i, l := range phaseLabels {
		g.legend(&sb, i, PhaseColors[l.phase], l.label)
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}
