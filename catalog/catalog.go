// Package catalog loads the raw plant catalog and serves it localized to a
// frost anchor.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/schedule"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// maxCachedAnchors bounds the localized cache; it is reset when full.
const maxCachedAnchors = 32

// Format is a catalog document format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the catalog format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported catalog format: %s", path)
}

type document struct {
	Species []model.RawPlantSpecies `toml:"species" yaml:"species"`
}

// Parse decodes and validates a catalog document. Unknown keys are errors.
func Parse(data []byte, format Format) ([]model.RawPlantSpecies, error) {
	var doc document
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode toml catalog: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %q", format)
	}
	if err := normalize(doc.Species); err != nil {
		return nil, err
	}
	return doc.Species, nil
}

// LoadFile reads a catalog file. The format follows the file extension.
func LoadFile(path string) ([]model.RawPlantSpecies, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, format)
}

// Default returns the catalog bundled with the binary.
func Default() ([]model.RawPlantSpecies, error) {
	return Parse(defaultCatalog, FormatTOML)
}

// normalize validates every species and checks that slugs are unique.
func normalize(species []model.RawPlantSpecies) error {
	if len(species) == 0 {
		return model.NewValidationError("catalog has no species")
	}
	seen := make(map[string]string, len(species))
	for i := range species {
		s := &species[i]
		if err := s.Validate(); err != nil {
			return err
		}
		s.PlantType, _ = model.ParsePlantType(string(s.PlantType))
		slug := s.SpeciesSlug()
		if slug == "" {
			return model.NewValidationError(fmt.Sprintf("%s: cannot derive a slug", s.Name))
		}
		if prev, ok := seen[slug]; ok {
			return model.NewValidationError(fmt.Sprintf("duplicate slug %q (%s, %s)", slug, prev, s.Name))
		}
		seen[slug] = s.Name
	}
	return nil
}

// Catalog holds the raw species and memoises their localization per frost
// anchor. It is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	path      string
	species   []model.RawPlantSpecies
	version   int
	localized map[int][]model.Plant
	hits      int
	misses    int
}

// New loads the catalog at path, or the bundled catalog when path is empty.
func New(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	species, err := c.load()
	if err != nil {
		return nil, err
	}
	c.species = species
	c.version = 1
	c.localized = make(map[int][]model.Plant)
	return c, nil
}

// NewFromSpecies creates a catalog from already loaded species.
func NewFromSpecies(species []model.RawPlantSpecies) (*Catalog, error) {
	species = slices.Clone(species)
	if err := normalize(species); err != nil {
		return nil, err
	}
	return &Catalog{species: species, version: 1, localized: make(map[int][]model.Plant)}, nil
}

func (c *Catalog) load() ([]model.RawPlantSpecies, error) {
	if c.path == "" {
		return Default()
	}
	return LoadFile(c.path)
}

// Path returns the catalog file, or "" for the bundled catalog.
func (c *Catalog) Path() string {
	return c.path
}

// Reload re-reads the catalog file. On error the previous catalog stays
// active. It returns the new version.
func (c *Catalog) Reload() (int, error) {
	species, err := c.load()
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.species = species
	c.version++
	c.localized = make(map[int][]model.Plant)
	return c.version, nil
}

// Version increases on every successful reload.
func (c *Catalog) Version() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Species returns the raw species in catalog order.
func (c *Catalog) Species() []model.RawPlantSpecies {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.species)
}

// Localized returns every species built at frostDay.
func (c *Catalog) Localized(frostDay int) []model.Plant {
	c.mu.RLock()
	plants, ok := c.localized[frostDay]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return slices.Clone(plants)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
	plants = schedule.BuildAll(c.species, frostDay)
	if len(c.localized) >= maxCachedAnchors {
		c.localized = make(map[int][]model.Plant)
	}
	c.localized[frostDay] = plants
	return slices.Clone(plants)
}

// Find returns the species with slug built at frostDay.
func (c *Catalog) Find(slug string, frostDay int) (model.Plant, error) {
	for _, p := range c.Localized(frostDay) {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Plant{}, model.ErrPlantNotFound
}

// CacheStats returns statistics about cache hits and misses.
func (c *Catalog) CacheStats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
