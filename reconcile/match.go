// Package reconcile re-matches persisted plant snapshots against a freshly
// localized catalog and replaces the ones whose schedule changed.
package reconcile

import (
	"encoding/json"
	"strings"

	"github.com/stsysd/niwa/model"
)

// legacyNames maps names written by older app versions to current catalog
// names. Keys are normalized (trimmed, lowercase).
var legacyNames = map[string]string{
	"tomato":        "Tomatoes",
	"pepper":        "Bell Peppers",
	"peppers":       "Bell Peppers",
	"bell pepper":   "Bell Peppers",
	"bean":          "Green Beans",
	"beans":         "Green Beans",
	"cuke":          "Cucumbers",
	"squash":        "Zucchini",
	"summer squash": "Zucchini",
}

// Index looks up catalog plants by id, slug and case-insensitive name.
type Index struct {
	byID   map[string]*model.Plant
	bySlug map[string]*model.Plant
	byName map[string]*model.Plant
}

// NewIndex indexes plants. Earlier entries win on duplicate keys.
func NewIndex(plants []model.Plant) *Index {
	ix := &Index{
		byID:   make(map[string]*model.Plant, len(plants)),
		bySlug: make(map[string]*model.Plant, len(plants)),
		byName: make(map[string]*model.Plant, len(plants)),
	}
	for i := range plants {
		p := &plants[i]
		putIfAbsent(ix.byID, p.ID, p)
		putIfAbsent(ix.bySlug, p.Slug, p)
		putIfAbsent(ix.byName, normalize(p.Name), p)
	}
	return ix
}

func putIfAbsent(m map[string]*model.Plant, key string, p *model.Plant) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = p
	}
}

// ByID returns the catalog plant with the given id.
func (ix *Index) ByID(id string) (*model.Plant, bool) {
	p, ok := ix.byID[id]
	return p, ok
}

// Match finds the catalog counterpart of a persisted record: exact slug
// first, then the normalized and legacy-remapped name, then its singular
// (when it ends in "s") or plural form.
func (ix *Index) Match(slug, name string) (*model.Plant, bool) {
	if slug != "" {
		if p, ok := ix.bySlug[slug]; ok {
			return p, true
		}
	}
	target := normalize(name)
	if target == "" {
		return nil, false
	}
	if remapped, ok := legacyNames[target]; ok {
		target = normalize(remapped)
	}
	if p, ok := ix.byName[target]; ok {
		return p, true
	}
	if strings.HasSuffix(target, "s") {
		p, ok := ix.byName[strings.TrimSuffix(target, "s")]
		return p, ok
	}
	p, ok := ix.byName[target+"s"]
	return p, ok
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Differs reports whether a persisted snapshot's schedule-dependent fields
// differ from the freshly built plant. A snapshot without a slug also
// differs, so it picks up the stable identifier.
func Differs(old, fresh *model.Plant) bool {
	if old.Slug == "" && fresh.Slug != "" {
		return true
	}
	a, b := scheduleOf(old), scheduleOf(fresh)
	if a.StartSeedIndoor != b.StartSeedIndoor ||
		a.StartSeedOutdoor != b.StartSeedOutdoor ||
		a.TransplantOutdoor != b.TransplantOutdoor ||
		a.HarvestDate != b.HarvestDate ||
		a.DaysToHarvest != b.DaysToHarvest ||
		a.TransplantDay != b.TransplantDay {
		return true
	}
	return periodsKey(a.DefaultPeriods) != periodsKey(b.DefaultPeriods)
}

func scheduleOf(p *model.Plant) model.CultivatedSchedule {
	if p.CultivatedSchedule == nil {
		return model.CultivatedSchedule{}
	}
	return *p.CultivatedSchedule
}

func periodsKey(periods []model.PlantPeriod) string {
	if len(periods) == 0 {
		return ""
	}
	b, err := json.Marshal(periods)
	if err != nil {
		return ""
	}
	return string(b)
}
