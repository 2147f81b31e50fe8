package reconcile

import (
	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/state"
	"go.uber.org/zap"
)

// Stats summarizes one reconciliation pass.
type Stats struct {
	Checked   int `json:"checked"`
	Replaced  int `json:"replaced"`
	Unmatched int `json:"unmatched"`
}

// Reconciler replaces persisted plant snapshots whose schedule no longer
// matches the catalog. Unchanged records keep their pointer identity, and
// a list in which nothing changed is returned as-is.
type Reconciler struct {
	logger *zap.Logger
}

// New creates a Reconciler. A nil logger discards diagnostics.
func New(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{logger: logger}
}

// Run reconciles every plant-shaped record in s against the localized
// catalog. The location is carried over unchanged.
func (r *Reconciler) Run(s state.State, catalog []model.Plant) (state.State, Stats) {
	ix := NewIndex(catalog)
	var st Stats
	out := state.State{
		Location:       s.Location,
		Gardens:        r.Gardens(s.Gardens, ix, &st),
		AddedPlants:    r.Plants(s.AddedPlants, ix, &st),
		TrackedPlants:  r.Tracked(s.TrackedPlants, ix, &st),
		CustomWatering: r.Watering(s.CustomWatering, ix, &st),
	}
	r.logger.Debug("reconciled persisted plants",
		zap.Int("checked", st.Checked),
		zap.Int("replaced", st.Replaced),
		zap.Int("unmatched", st.Unmatched),
	)
	return out, st
}

// Plants reconciles a list of plant snapshots.
func (r *Reconciler) Plants(list []*model.Plant, ix *Index, st *Stats) []*model.Plant {
	return mapChanged(list, func(p *model.Plant) *model.Plant {
		return r.plant(p, ix, st, "addedPlants")
	})
}

// Gardens reconciles every occupied cell. Only gardens with a replaced
// cell are copied.
func (r *Reconciler) Gardens(list []*model.Garden, ix *Index, st *Stats) []*model.Garden {
	return mapChanged(list, func(g *model.Garden) *model.Garden {
		var cells [][]*model.Plant
		for i, row := range g.Cells {
			newRow := mapChanged(row, func(p *model.Plant) *model.Plant {
				if p == nil {
					return nil
				}
				return r.plant(p, ix, st, "gardens")
			})
			if sameSlice(newRow, row) {
				continue
			}
			if cells == nil {
				cells = make([][]*model.Plant, len(g.Cells))
				copy(cells, g.Cells)
			}
			cells[i] = newRow
		}
		if cells == nil {
			return g
		}
		replaced := *g
		replaced.Cells = cells
		return &replaced
	})
}

// Tracked reconciles tracked plants. A replaced record gets the fresh plant
// snapshot and keeps every tracking field.
func (r *Reconciler) Tracked(list []*model.TrackedPlant, ix *Index, st *Stats) []*model.TrackedPlant {
	return mapChanged(list, func(tp *model.TrackedPlant) *model.TrackedPlant {
		p := r.plant(&tp.Plant, ix, st, "trackedPlants")
		if p == &tp.Plant {
			return tp
		}
		replaced := *tp
		replaced.Plant = *p
		return &replaced
	})
}

// Watering relinks custom watering entries whose linked plant id no longer
// exists in the catalog. Unresolved links are left unchanged.
func (r *Reconciler) Watering(list []*model.CustomWateringEntry, ix *Index, st *Stats) []*model.CustomWateringEntry {
	return mapChanged(list, func(e *model.CustomWateringEntry) *model.CustomWateringEntry {
		if e.LinkedPlantID == "" {
			return e
		}
		st.Checked++
		if _, ok := ix.ByID(e.LinkedPlantID); ok {
			return e
		}
		match, ok := ix.Match(e.LinkedPlantID, e.LinkedPlantID)
		if !ok {
			match, ok = ix.Match("", e.Name)
		}
		if !ok {
			st.Unmatched++
			r.logger.Debug("unmatched watering link",
				zap.String("entry", e.ID),
				zap.String("linkedPlantId", e.LinkedPlantID),
			)
			return e
		}
		st.Replaced++
		replaced := *e
		replaced.LinkedPlantID = match.ID
		return &replaced
	})
}

// plant returns p itself when it is unmatched or unchanged, and a copy of
// the catalog plant otherwise.
func (r *Reconciler) plant(p *model.Plant, ix *Index, st *Stats, list string) *model.Plant {
	st.Checked++
	fresh, ok := ix.Match(p.Slug, p.Name)
	if !ok {
		st.Unmatched++
		r.logger.Debug("unmatched persisted plant",
			zap.String("list", list),
			zap.String("name", p.Name),
			zap.String("slug", p.Slug),
		)
		return p
	}
	if !Differs(p, fresh) {
		return p
	}
	st.Replaced++
	replaced := *fresh
	return &replaced
}

// mapChanged applies fn to every element and returns the original slice
// when fn returned every element unchanged.
func mapChanged[T any](list []*T, fn func(*T) *T) []*T {
	var out []*T
	for i, v := range list {
		nv := fn(v)
		if out == nil {
			if nv == v {
				continue
			}
			out = make([]*T, len(list))
			copy(out, list[:i])
		}
		out[i] = nv
	}
	if out == nil {
		return list
	}
	return out
}

func sameSlice[T any](a, b []*T) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
