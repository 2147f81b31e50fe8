// Package garden is the application service: it owns the in-memory state,
// re-derives plant snapshots when the frost anchor or catalog changes, and
// persists every mutation.
package garden

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stsysd/niwa/catalog"
	"github.com/stsysd/niwa/frost"
	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/reconcile"
	"github.com/stsysd/niwa/schedule"
	"github.com/stsysd/niwa/state"
	"github.com/stsysd/niwa/store"
	"go.uber.org/zap"
)

// Config holds the optional collaborators of a Service.
type Config struct {
	// Resolver looks up frost anchors. Nil disables lookups.
	Resolver frost.Resolver
	// DefaultFrostDay is used when no anchor is known. Zero means
	// schedule.DefaultFrostDay.
	DefaultFrostDay int
	Logger          *zap.Logger
	Now             func() time.Time
}

// Service serialises all state mutations. Records handed out are never
// modified afterwards; mutations replace them with copies.
type Service struct {
	mu              sync.Mutex
	store           store.SnapshotStore
	catalog         *catalog.Catalog
	resolver        frost.Resolver
	reconciler      *reconcile.Reconciler
	logger          *zap.Logger
	now             func() time.Time
	defaultFrostDay int
	state           state.State
}

// NewService creates a service with an empty state. Call Load to read the
// persisted snapshot.
func NewService(st store.SnapshotStore, c *catalog.Catalog, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultFrostDay == 0 {
		cfg.DefaultFrostDay = schedule.DefaultFrostDay
	}
	return &Service{
		store:           st,
		catalog:         c,
		resolver:        cfg.Resolver,
		reconciler:      reconcile.New(cfg.Logger),
		logger:          cfg.Logger,
		now:             cfg.Now,
		defaultFrostDay: cfg.DefaultFrostDay,
	}
}

// Load hydrates the persisted snapshot and reconciles it against the
// catalog at the stored anchor. A missing snapshot starts an empty state.
func (s *Service) Load(ctx context.Context) (reconcile.Stats, error) {
	raw, err := s.store.LoadSnapshot(ctx)
	if err != nil && !errors.Is(err, model.ErrSnapshotNotFound) {
		return reconcile.Stats{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	loaded := state.Hydrate(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = loaded
	s.logger.Info("state loaded",
		zap.Int("gardens", len(loaded.Gardens)),
		zap.Int("trackedPlants", len(loaded.TrackedPlants)),
		zap.Int("plants", loaded.PlantCount()),
	)
	return s.reconcileLocked(ctx)
}

// FrostDay returns the current frost anchor.
func (s *Service) FrostDay() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frostDayLocked()
}

func (s *Service) frostDayLocked() int {
	if loc := s.state.Location; loc != nil && loc.FrostDay != nil {
		return *loc.FrostDay
	}
	return s.defaultFrostDay
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Location returns the stored location, or nil.
func (s *Service) Location() *model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Location
}

// LocationResult is the outcome of a location change.
type LocationResult struct {
	Location   *model.Location `json:"location"`
	Reconciled reconcile.Stats `json:"reconciled"`
}

// SetLocation resolves the frost anchor of zip and re-derives every plant
// snapshot. A failed lookup is not an error: the ZIP is stored with the
// default anchor. A non-nil frostDay overrides the lookup.
func (s *Service) SetLocation(ctx context.Context, zip string, frostDay *int) (LocationResult, error) {
	z, err := model.NewZIPCode(zip)
	if err != nil {
		return LocationResult{}, err
	}
	loc := s.resolveLocation(ctx, z.String(), frostDay)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state.Location = loc
	stats, err := s.reconcileAndPersistLocked(ctx, true)
	if err != nil {
		s.state = prev
		return LocationResult{}, err
	}
	return LocationResult{Location: loc, Reconciled: stats}, nil
}

func (s *Service) resolveLocation(ctx context.Context, zip string, frostDay *int) *model.Location {
	loc := &model.Location{ZIP: zip, ResolvedAt: s.now().UTC().Format(time.RFC3339)}
	if frostDay != nil {
		day := *frostDay
		loc.FrostDay = &day
		loc.Source = "manual"
		return loc
	}

	day := s.defaultFrostDay
	loc.FrostDay = &day
	loc.Source = frost.SourceDefault
	if s.resolver == nil {
		return loc
	}

	anchor, err := s.resolver.Resolve(ctx, zip)
	if err != nil {
		s.logger.Warn("frost lookup failed; using default anchor",
			zap.String("zip", zip),
			zap.String("resolver", s.resolver.Name()),
			zap.Int("frostDay", day),
			zap.Error(err),
		)
		return loc
	}
	day = anchor.FrostDay
	loc.FrostDay = &day
	loc.Place = anchor.Place
	loc.Latitude = anchor.Latitude
	loc.Longitude = anchor.Longitude
	loc.Source = anchor.Source
	return loc
}

// OnCatalogReload re-derives every plant snapshot after the catalog changed.
func (s *Service) OnCatalogReload(ctx context.Context, version int) (reconcile.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("reconciling after catalog reload", zap.Int("version", version))
	return s.reconcileLocked(ctx)
}

// Reset deletes the persisted snapshot and clears the state.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteSnapshot(ctx); err != nil && !errors.Is(err, model.ErrSnapshotNotFound) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	s.state = state.State{}
	return nil
}

// reconcileLocked reconciles and persists only when a record was replaced.
func (s *Service) reconcileLocked(ctx context.Context) (reconcile.Stats, error) {
	prev := s.state
	stats, err := s.reconcileAndPersistLocked(ctx, false)
	if err != nil {
		s.state = prev
	}
	return stats, err
}

func (s *Service) reconcileAndPersistLocked(ctx context.Context, force bool) (reconcile.Stats, error) {
	next, stats := s.reconciler.Run(s.state, s.catalog.Localized(s.frostDayLocked()))
	s.state = next
	if stats.Replaced > 0 || force {
		if err := s.persistLocked(ctx); err != nil {
			return stats, err
		}
	}
	if stats.Replaced > 0 || stats.Unmatched > 0 {
		s.logger.Info("plant snapshots reconciled",
			zap.Int("frostDay", s.frostDayLocked()),
			zap.Int("replaced", stats.Replaced),
			zap.Int("unmatched", stats.Unmatched),
		)
	}
	return stats, nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	raw, err := s.state.Serialize()
	if err != nil {
		return err
	}
	if err := s.store.SaveSnapshot(ctx, raw); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// commitLocked installs next as the state and persists it. On failure the
// previous state stays active.
func (s *Service) commitLocked(ctx context.Context, next state.State) error {
	prev := s.state
	s.state = next
	if err := s.persistLocked(ctx); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// Plants returns the catalog localized to frostDay, or to the current
// anchor when frostDay is nil.
func (s *Service) Plants(frostDay *int) []model.Plant {
	day := s.FrostDay()
	if frostDay != nil {
		day = *frostDay
	}
	return s.catalog.Localized(day)
}

// Plant returns one catalog plant at the current anchor.
func (s *Service) Plant(slug string) (model.Plant, error) {
	return s.catalog.Find(slug, s.FrostDay())
}

// PlantAt returns one catalog plant localized to frostDay, or to the current
// anchor when frostDay is nil. It also returns the anchor used.
func (s *Service) PlantAt(slug string, frostDay *int) (model.Plant, int, error) {
	day := s.FrostDay()
	if frostDay != nil {
		day = *frostDay
	}
	p, err := s.catalog.Find(slug, day)
	return p, day, err
}
