package garden

import (
	"context"
	"slices"

	"github.com/stsysd/niwa/model"
)

// ListGardens returns every garden.
func (s *Service) ListGardens() []*model.Garden {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Garden{}, s.state.Gardens...)
}

// GetGarden returns one garden.
func (s *Service) GetGarden(id string) (*model.Garden, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, g := findGarden(s.state.Gardens, id)
	if g == nil {
		return nil, model.ErrGardenNotFound
	}
	return g, nil
}

// CreateGarden adds an empty rows x cols garden.
func (s *Service) CreateGarden(ctx context.Context, name string, rows, cols int) (*model.Garden, error) {
	g, err := model.NewGarden(name, rows, cols)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	next.Gardens = append(slices.Clip(s.state.Gardens), g)
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGarden removes a garden.
func (s *Service) DeleteGarden(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := findGarden(s.state.Gardens, id)
	if i < 0 {
		return model.ErrGardenNotFound
	}
	next := s.state
	next.Gardens = slices.Delete(slices.Clone(s.state.Gardens), i, i+1)
	return s.commitLocked(ctx, next)
}

// PlaceInGarden puts the catalog plant slug, built at the current anchor,
// into a cell. An occupied cell is overwritten.
func (s *Service) PlaceInGarden(ctx context.Context, gardenID string, row, col int, slug string) (*model.Garden, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.catalog.Find(slug, s.frostDayLocked())
	if err != nil {
		return nil, err
	}
	return s.mutateGardenLocked(ctx, gardenID, func(g *model.Garden) error {
		return g.Place(row, col, &p)
	})
}

// ClearCell empties a cell.
func (s *Service) ClearCell(ctx context.Context, gardenID string, row, col int) (*model.Garden, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateGardenLocked(ctx, gardenID, func(g *model.Garden) error {
		return g.Clear(row, col)
	})
}

func (s *Service) mutateGardenLocked(ctx context.Context, id string, fn func(*model.Garden) error) (*model.Garden, error) {
	i, g := findGarden(s.state.Gardens, id)
	if g == nil {
		return nil, model.ErrGardenNotFound
	}
	updated := *g
	updated.Cells = make([][]*model.Plant, len(g.Cells))
	for r, row := range g.Cells {
		updated.Cells[r] = slices.Clone(row)
	}
	if err := fn(&updated); err != nil {
		return nil, err
	}
	next := s.state
	next.Gardens = slices.Clone(s.state.Gardens)
	next.Gardens[i] = &updated
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	return &updated, nil
}

func findGarden(list []*model.Garden, id string) (int, *model.Garden) {
	for i, g := range list {
		if g.ID == id {
			return i, g
		}
	}
	return -1, nil
}

// ListAddedPlants returns the user's added-plant list.
func (s *Service) ListAddedPlants() []*model.Plant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Plant{}, s.state.AddedPlants...)
}

// AddPlant appends a catalog plant to the added-plant list. Adding a plant
// that is already listed returns the listed record.
func (s *Service) AddPlant(ctx context.Context, slug string) (*model.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, p := findPlant(s.state.AddedPlants, slug); p != nil {
		return p, nil
	}
	found, err := s.catalog.Find(slug, s.frostDayLocked())
	if err != nil {
		return nil, err
	}
	next := s.state
	next.AddedPlants = append(slices.Clip(s.state.AddedPlants), &found)
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	return &found, nil
}

// RemovePlant removes a plant from the added-plant list.
func (s *Service) RemovePlant(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := findPlant(s.state.AddedPlants, slug)
	if i < 0 {
		return model.ErrPlantNotFound
	}
	next := s.state
	next.AddedPlants = slices.Delete(slices.Clone(s.state.AddedPlants), i, i+1)
	return s.commitLocked(ctx, next)
}

// findPlant matches by slug, or by id for legacy records without one.
func findPlant(list []*model.Plant, slug string) (int, *model.Plant) {
	for i, p := range list {
		if p.Slug == slug || (p.Slug == "" && p.ID == slug) {
			return i, p
		}
	}
	return -1, nil
}
