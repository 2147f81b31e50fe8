package garden

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/stsysd/niwa/model"
)

// WateringView is a custom watering entry with its next due time.
type WateringView struct {
	*model.CustomWateringEntry
	NextWatering string `json:"nextWatering"`
	Due          bool   `json:"due"`
}

// DueItem is a plant or custom entry that needs water.
type DueItem struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	NextWatering string `json:"nextWatering"`
	OverdueDays  int    `json:"overdueDays"`
}

// Due item kinds.
const (
	DueTracked = "tracked"
	DueCustom  = "custom"
)

// NewWateringEntry describes a custom watering entry to add.
type NewWateringEntry struct {
	Name                 string `json:"name"`
	LinkedPlantID        string `json:"linkedPlantId"`
	WateringIntervalDays int    `json:"wateringIntervalDays"`
	Notes                string `json:"notes"`
}

// ListWatering returns every custom watering entry.
func (s *Service) ListWatering() []WateringView {
	s.mu.Lock()
	list := s.state.CustomWatering
	s.mu.Unlock()

	now := s.now()
	views := make([]WateringView, 0, len(list))
	for _, e := range list {
		views = append(views, wateringView(e, now))
	}
	return views
}

func wateringView(e *model.CustomWateringEntry, now time.Time) WateringView {
	next := e.NextWatering(now)
	return WateringView{
		CustomWateringEntry: e,
		NextWatering:        next.UTC().Format(time.RFC3339),
		Due:                 !next.After(now),
	}
}

// AddWatering adds a custom watering entry. A linked plant id must exist in
// the catalog.
func (s *Service) AddWatering(ctx context.Context, in NewWateringEntry) (WateringView, error) {
	now := s.now()
	linked := strings.TrimSpace(in.LinkedPlantID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if linked != "" {
		if _, err := s.catalog.Find(linked, s.frostDayLocked()); err != nil {
			return WateringView{}, model.NewValidationError("linked plant " + linked + " is not in the catalog")
		}
	}
	e, err := model.NewCustomWateringEntry(in.Name, linked, in.WateringIntervalDays, now)
	if err != nil {
		return WateringView{}, err
	}
	e.Notes = strings.TrimSpace(in.Notes)
	next := s.state
	next.CustomWatering = append(slices.Clip(s.state.CustomWatering), e)
	if err := s.commitLocked(ctx, next); err != nil {
		return WateringView{}, err
	}
	return wateringView(e, now), nil
}

// LogCustomWatering records a watering of a custom entry now.
func (s *Service) LogCustomWatering(ctx context.Context, id string) (WateringView, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	i, e := findWatering(s.state.CustomWatering, id)
	if e == nil {
		return WateringView{}, model.ErrWateringEntryNotFound
	}
	updated := *e
	updated.LogWatering(now)
	next := s.state
	next.CustomWatering = slices.Clone(s.state.CustomWatering)
	next.CustomWatering[i] = &updated
	if err := s.commitLocked(ctx, next); err != nil {
		return WateringView{}, err
	}
	return wateringView(&updated, now), nil
}

// DeleteWatering removes a custom watering entry.
func (s *Service) DeleteWatering(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := findWatering(s.state.CustomWatering, id)
	if i < 0 {
		return model.ErrWateringEntryNotFound
	}
	next := s.state
	next.CustomWatering = slices.Delete(slices.Clone(s.state.CustomWatering), i, i+1)
	return s.commitLocked(ctx, next)
}

// DueWatering lists reminder-enabled tracked plants and custom entries that
// are due now, most overdue first.
func (s *Service) DueWatering() []DueItem {
	s.mu.Lock()
	tracked := s.state.TrackedPlants
	custom := s.state.CustomWatering
	s.mu.Unlock()

	now := s.now()
	var items []DueItem
	add := func(kind, id, name string, next time.Time) {
		if next.After(now) {
			return
		}
		items = append(items, DueItem{
			Kind:         kind,
			ID:           id,
			Name:         name,
			NextWatering: next.UTC().Format(time.RFC3339),
			OverdueDays:  int(now.Sub(next).Hours() / 24),
		})
	}
	for _, tp := range tracked {
		if tp.WateringReminderEnabled {
			add(DueTracked, tp.TrackingID, tp.Name, tp.NextWatering(now))
		}
	}
	for _, e := range custom {
		if e.ReminderEnabled {
			add(DueCustom, e.ID, e.Name, e.NextWatering(now))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OverdueDays > items[j].OverdueDays
	})
	return items
}

func findWatering(list []*model.CustomWateringEntry, id string) (int, *model.CustomWateringEntry) {
	for i, e := range list {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}
