package schedule

import "github.com/stsysd/niwa/model"

// Localize returns a copy of periods in which every present window has
// StartDayLocalized = frostDay + StartOffsetFromSpringFrost. The input is
// not modified.
func Localize(periods []model.PlantPeriod, frostDay int) []model.PlantPeriod {
	if periods == nil {
		return nil
	}
	out := make([]model.PlantPeriod, len(periods))
	for i, p := range periods {
		out[i] = model.PlantPeriod{
			Indoor:     localizeWindow(p.Indoor, frostDay),
			Transplant: localizeWindow(p.Transplant, frostDay),
			Outdoor:    localizeWindow(p.Outdoor, frostDay),
		}
	}
	return out
}

func localizeWindow(w *model.ScheduleWindow, frostDay int) *model.ScheduleWindow {
	if w == nil {
		return nil
	}
	day := frostDay + w.StartOffsetFromSpringFrost
	lw := *w
	lw.StartDayLocalized = &day
	return &lw
}
