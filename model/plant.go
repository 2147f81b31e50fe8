// Package model は、アプリケーションのデータモデル定義を提供します。
package model

// NotApplicable is the display text for a schedule window that does not
// apply to a species.
const NotApplicable = "Not applicable"

// CultivatedSchedule は栽培植物の表示用スケジュールです。
type CultivatedSchedule struct {
	StartSeedIndoor   string        `json:"startSeedIndoor"`
	StartSeedOutdoor  string        `json:"startSeedOutdoor"`
	TransplantOutdoor string        `json:"transplantOutdoor"`
	HarvestDate       string        `json:"harvestDate"`
	IndoorOutdoor     string        `json:"indoorOutdoor"`
	DaysToHarvest     int           `json:"daysToHarvest"`
	TransplantDay     int           `json:"transplantDay"`
	DefaultPeriods    []PlantPeriod `json:"defaultPeriods"`
}

// OrnamentalDisplay は観賞植物の表示情報です。
type OrnamentalDisplay struct {
	BloomSeason string `json:"bloomSeason,omitempty"`
	Description string `json:"description,omitempty"`
}

// Plant は特定の霜日に対してローカライズされた表示用の植物レコードです。
// (RawPlantSpecies, frostDay) の純粋関数として生成され、その場で変更されることはありません。
//
// CultivatedSchedule が nil の Plant は表示専用（スケジュールのない観賞植物）です。
// 両方の埋め込みフィールドはJSON上でフラットに展開されます。
type Plant struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	PlantType PlantType `json:"plantType"`
	MinZone   int       `json:"minZone"`
	MaxZone   int       `json:"maxZone"`

	*CultivatedSchedule
	*OrnamentalDisplay
}

// IsDisplayOnly reports whether the plant carries no schedule.
func (p *Plant) IsDisplayOnly() bool {
	return p.CultivatedSchedule == nil
}

// Periods returns the localized periods, or nil for display-only plants.
func (p *Plant) Periods() []PlantPeriod {
	if p.CultivatedSchedule == nil {
		return nil
	}
	return p.DefaultPeriods
}

// BloomSeasonText returns the bloom season when known.
func (p *Plant) BloomSeasonText() string {
	if p.OrnamentalDisplay == nil {
		return ""
	}
	return p.BloomSeason
}

// FirstWindows returns the first non-nil window of each kind across the
// periods, in period order.
func FirstWindows(periods []PlantPeriod) (indoor, transplant, outdoor *ScheduleWindow) {
	for _, p := range periods {
		if indoor == nil && p.Indoor != nil {
			indoor = p.Indoor
		}
		if transplant == nil && p.Transplant != nil {
			transplant = p.Transplant
		}
		if outdoor == nil && p.Outdoor != nil {
			outdoor = p.Outdoor
		}
	}
	return indoor, transplant, outdoor
}
