package garden

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/schedule"
	"go.uber.org/zap"
)

// TrackedView is a tracked plant with its derived progress.
type TrackedView struct {
	*model.TrackedPlant
	Progress     schedule.ProgressResult `json:"progress"`
	NextWatering string                  `json:"nextWatering"`
}

func (s *Service) view(tp *model.TrackedPlant, now time.Time) TrackedView {
	return TrackedView{
		TrackedPlant: tp,
		Progress:     schedule.CalculateProgress(tp, now),
		NextWatering: tp.NextWatering(now).UTC().Format(time.RFC3339),
	}
}

// ListTracked returns every tracked plant with its progress.
func (s *Service) ListTracked() []TrackedView {
	s.mu.Lock()
	list := s.state.TrackedPlants
	s.mu.Unlock()

	now := s.now()
	views := make([]TrackedView, 0, len(list))
	for _, tp := range list {
		views = append(views, s.view(tp, now))
	}
	return views
}

// GetTracked returns one tracked plant with its progress.
func (s *Service) GetTracked(trackingID string) (TrackedView, error) {
	s.mu.Lock()
	_, tp := findTracked(s.state.TrackedPlants, trackingID)
	s.mu.Unlock()
	if tp == nil {
		return TrackedView{}, model.ErrTrackedPlantNotFound
	}
	return s.view(tp, s.now()), nil
}

// StartTracking starts tracking a catalog plant built at the current
// anchor. An empty plantedDate means today.
func (s *Service) StartTracking(ctx context.Context, slug, plantedDate string) (TrackedView, error) {
	now := s.now()
	date, err := model.NewPlantedDate(plantedDate, now)
	if err != nil {
		return TrackedView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.catalog.Find(slug, s.frostDayLocked())
	if err != nil {
		return TrackedView{}, err
	}
	tp, err := model.NewTrackedPlant(p, date.Time(), now)
	if err != nil {
		return TrackedView{}, err
	}
	next := s.state
	next.TrackedPlants = append(slices.Clip(s.state.TrackedPlants), tp)
	if err := s.commitLocked(ctx, next); err != nil {
		return TrackedView{}, err
	}
	s.logger.Debug("started tracking", zap.String("trackingId", tp.TrackingID), zap.String("slug", p.Slug))
	return s.view(tp, now), nil
}

// ConfirmPlanted records the actual planting date.
func (s *Service) ConfirmPlanted(ctx context.Context, trackingID, date string) (TrackedView, error) {
	now := s.now()
	d, err := model.NewPlantedDate(date, now)
	if err != nil {
		return TrackedView{}, err
	}
	return s.mutateTracked(ctx, trackingID, func(tp *model.TrackedPlant) error {
		return tp.ConfirmPlanted(d.Time(), now)
	})
}

// LogWatering records a watering now.
func (s *Service) LogWatering(ctx context.Context, trackingID string) (TrackedView, error) {
	return s.mutateTracked(ctx, trackingID, func(tp *model.TrackedPlant) error {
		tp.LogWatering(s.now())
		return nil
	})
}

// UpdateWateringSettings changes the watering frequency and reminder flag.
func (s *Service) UpdateWateringSettings(ctx context.Context, trackingID, frequency string, intervalDays int, reminder bool) (TrackedView, error) {
	freq, err := model.ParseWateringFrequency(frequency)
	if err != nil {
		return TrackedView{}, err
	}
	return s.mutateTracked(ctx, trackingID, func(tp *model.TrackedPlant) error {
		return tp.UpdateWateringSettings(freq, intervalDays, reminder, s.now())
	})
}

// UpdateMetadata replaces the user metadata.
func (s *Service) UpdateMetadata(ctx context.Context, trackingID string, md model.PlantMetadata) (TrackedView, error) {
	return s.mutateTracked(ctx, trackingID, func(tp *model.TrackedPlant) error {
		tp.UpdateMetadata(md, s.now())
		return nil
	})
}

// AppendNote appends a free-form timeline note.
func (s *Service) AppendNote(ctx context.Context, trackingID, note string) (TrackedView, error) {
	return s.mutateTracked(ctx, trackingID, func(tp *model.TrackedPlant) error {
		return tp.AppendNote(note, s.now())
	})
}

// DeleteTracked stops tracking a plant.
func (s *Service) DeleteTracked(ctx context.Context, trackingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := findTracked(s.state.TrackedPlants, trackingID)
	if i < 0 {
		return model.ErrTrackedPlantNotFound
	}
	next := s.state
	next.TrackedPlants = slices.Delete(slices.Clone(s.state.TrackedPlants), i, i+1)
	return s.commitLocked(ctx, next)
}

// mutateTracked applies fn to a copy of the tracked plant and installs the
// copy when fn succeeds and the state is persisted.
func (s *Service) mutateTracked(ctx context.Context, trackingID string, fn func(*model.TrackedPlant) error) (TrackedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, tp := findTracked(s.state.TrackedPlants, trackingID)
	if tp == nil {
		return TrackedView{}, model.ErrTrackedPlantNotFound
	}
	updated := cloneTracked(tp)
	if err := fn(updated); err != nil {
		return TrackedView{}, err
	}
	next := s.state
	next.TrackedPlants = slices.Clone(s.state.TrackedPlants)
	next.TrackedPlants[i] = updated
	if err := s.commitLocked(ctx, next); err != nil {
		return TrackedView{}, err
	}
	return s.view(updated, s.now()), nil
}

func findTracked(list []*model.TrackedPlant, trackingID string) (int, *model.TrackedPlant) {
	for i, tp := range list {
		if tp.TrackingID == trackingID {
			return i, tp
		}
	}
	return -1, nil
}

func cloneTracked(tp *model.TrackedPlant) *model.TrackedPlant {
	c := *tp
	c.Timeline = slices.Clone(tp.Timeline)
	c.Metadata.CustomFields = maps.Clone(tp.Metadata.CustomFields)
	return &c
}
