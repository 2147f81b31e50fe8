package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/stsysd/niwa/model"
)

// ActivityColors are the heat levels; level 0 means no activity.
var ActivityColors = []string{"#f0f0f0", "#c6e48b", "#7bc96f", "#239a3b", "#196127"}

// ActivityCounts counts timeline entries per calendar day (UTC), optionally
// restricted to the given entry types.
func ActivityCounts(timeline []model.PlantTimelineEntry, types ...model.TimelineEntryType) map[string]int {
	counts := make(map[string]int)
	for _, e := range timeline {
		if len(types) > 0 && !containsType(types, e.Type) {
			continue
		}
		t, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			continue
		}
		counts[t.UTC().Format("2006-01-02")]++
	}
	return counts
}

func containsType(types []model.TimelineEntryType, t model.TimelineEntryType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// GenerateActivitySVG returns a heatmap of a tracked plant's timeline from
// the planted date (or first entry) to now.
func GenerateActivitySVG(tp *model.TrackedPlant, now time.Time, opts *Options, types ...model.TimelineEntryType) string {
	if opts == nil {
		opts = DefaultOptions()
		opts.Title = tp.Name + " activity"
	}
	counts := ActivityCounts(tp.Timeline, types...)

	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -364)
	if planted, err := model.ParseDate(tp.SeedPlantedDate); err == nil {
		planted = time.Date(planted.Year(), planted.Month(), planted.Day(), 0, 0, 0, 0, time.UTC)
		if planted.After(from) && !planted.After(to) {
			from = planted
		}
	}

	supCount := 3
	for _, c := range counts {
		if c+1 > supCount {
			supCount = c + 1
		}
	}
	levels := len(ActivityColors)

	g := newGrid(from, to, opts, 0)
	var sb strings.Builder
	g.render(&sb, func(current time.Time) (cell, bool) {
		key := current.Format("2006-01-02")
		count := counts[key]
		level := 0
		if count > 0 {
			// 1以上の値を1からlevels-1の範囲に分散
			level = (count-1)*(levels-2)/(supCount-1) + 1
			level = min(max(level, 1), levels-1)
		}
		return cell{
			fill:    ActivityColors[level],
			attrs:   fmt.Sprintf(` data-count="%d"`, count),
			tooltip: fmt.Sprintf("%s: %d", current.Format("Jan 2, 2006"), count),
		}, true
	})
	sb.WriteString(`</svg>`)
	return sb.String()
}
