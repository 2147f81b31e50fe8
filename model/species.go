// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"fmt"
	"strings"
)

// PlantType は植物の栽培区分です。
type PlantType string

const (
	PlantTypeVegetable  PlantType = "vegetable"
	PlantTypeFlower     PlantType = "flower"
	PlantTypeHerb       PlantType = "herb"
	PlantTypeOrnamental PlantType = "ornamental"
)

// ParsePlantType は文字列をPlantTypeに変換します。
func ParsePlantType(s string) (PlantType, error) {
	switch pt := PlantType(strings.ToLower(strings.TrimSpace(s))); pt {
	case PlantTypeVegetable, PlantTypeFlower, PlantTypeHerb, PlantTypeOrnamental:
		return pt, nil
	}
	return "", fmt.Errorf("unknown plant type %q", s)
}

// IsOrnamental reports whether the type has no harvest concept.
func (t PlantType) IsOrnamental() bool {
	return t == PlantTypeOrnamental
}

// ScheduleWindow は一つの栽培フェーズ（室内播種・定植・直播き）の期間です。
// 生データではStartDayLocalizedはnilで、ローカライズ後に設定されます。
type ScheduleWindow struct {
	StartOffsetFromSpringFrost int  `json:"startOffsetFromSpringFrost" toml:"offset" yaml:"offset"`
	StartDayDefault            int  `json:"startDayDefault" toml:"default_day" yaml:"default_day"`
	Duration                   int  `json:"duration" toml:"duration" yaml:"duration"`
	StartDayLocalized          *int `json:"startDayLocalized,omitempty" toml:"-" yaml:"-"`
}

// Start returns the localized start day, or the reference-year default when
// the window has not been localized.
func (w ScheduleWindow) Start() int {
	if w.StartDayLocalized != nil {
		return *w.StartDayLocalized
	}
	return w.StartDayDefault
}

// End returns the last day covered by the window.
func (w ScheduleWindow) End() int {
	if w.Duration <= 1 {
		return w.Start()
	}
	return w.Start() + w.Duration - 1
}

// PlantPeriod は一回の栽培サイクルの定義です。
type PlantPeriod struct {
	Indoor     *ScheduleWindow `json:"indoor,omitempty" toml:"indoor,omitempty" yaml:"indoor,omitempty"`
	Transplant *ScheduleWindow `json:"transplant,omitempty" toml:"transplant,omitempty" yaml:"transplant,omitempty"`
	Outdoor    *ScheduleWindow `json:"outdoor,omitempty" toml:"outdoor,omitempty" yaml:"outdoor,omitempty"`
}

// IsEmpty reports whether no window applies in this period.
func (p PlantPeriod) IsEmpty() bool {
	return p.Indoor == nil && p.Transplant == nil && p.Outdoor == nil
}

// RawPlantSpecies は地域に依存しないカタログ上の植物種です。起動時に一度だけ読み込まれます。
type RawPlantSpecies struct {
	Name           string        `json:"name" toml:"name" yaml:"name"`
	Slug           string        `json:"slug,omitempty" toml:"slug,omitempty" yaml:"slug,omitempty"`
	Category       string        `json:"category" toml:"category" yaml:"category"`
	Image          string        `json:"image,omitempty" toml:"image,omitempty" yaml:"image,omitempty"`
	MinZone        int           `json:"minZone" toml:"min_zone" yaml:"min_zone"`
	MaxZone        int           `json:"maxZone" toml:"max_zone" yaml:"max_zone"`
	PlantType      PlantType     `json:"plantType" toml:"plant_type" yaml:"plant_type"`
	DefaultPeriods []PlantPeriod `json:"defaultPeriods" toml:"periods" yaml:"periods"`
	BloomSeason    string        `json:"bloomSeason,omitempty" toml:"bloom_season,omitempty" yaml:"bloom_season,omitempty"`
	Description    string        `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}

// Validate はカタログ上の植物種のデータバリデーションを行います。
func (s *RawPlantSpecies) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("species name is required")
	}
	if _, err := ParsePlantType(string(s.PlantType)); err != nil {
		return NewValidationError(fmt.Sprintf("%s: %v", s.Name, err))
	}
	if s.MinZone < 1 || s.MaxZone > 13 || s.MinZone > s.MaxZone {
		return NewValidationError(fmt.Sprintf("%s: invalid zone range %d-%d", s.Name, s.MinZone, s.MaxZone))
	}
	if len(s.DefaultPeriods) == 0 && !s.PlantType.IsOrnamental() {
		return NewValidationError(fmt.Sprintf("%s: at least one period is required", s.Name))
	}
	for i, p := range s.DefaultPeriods {
		for _, w := range []*ScheduleWindow{p.Indoor, p.Transplant, p.Outdoor} {
			if w != nil && w.Duration < 1 {
				return NewValidationError(fmt.Sprintf("%s: period %d has a window with duration < 1", s.Name, i))
			}
		}
	}
	return nil
}

// SpeciesSlug returns the explicit slug, or one derived from the name.
func (s *RawPlantSpecies) SpeciesSlug() string {
	if s.Slug != "" {
		return s.Slug
	}
	return Slugify(s.Name)
}

// Slugify lowercases a name and joins its alphanumeric runs with hyphens.
func Slugify(name string) string {
	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}
