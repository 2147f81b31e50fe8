// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WateringFrequency は水やり頻度の区分です。
type WateringFrequency string

const (
	WateringFrequent WateringFrequency = "frequent"
	WateringAverage  WateringFrequency = "average"
	WateringMinimum  WateringFrequency = "minimum"
	WateringCustom   WateringFrequency = "custom"
)

// DefaultInterval returns the watering interval in days implied by the
// frequency. Custom frequencies have no implied interval and return 0.
func (f WateringFrequency) DefaultInterval() int {
	switch f {
	case WateringFrequent:
		return 2
	case WateringAverage:
		return 4
	case WateringMinimum:
		return 7
	}
	return 0
}

// ParseWateringFrequency は文字列をWateringFrequencyに変換します。
func ParseWateringFrequency(s string) (WateringFrequency, error) {
	switch f := WateringFrequency(strings.ToLower(strings.TrimSpace(s))); f {
	case WateringFrequent, WateringAverage, WateringMinimum, WateringCustom:
		return f, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown watering frequency %q", s))
}

// TimelineEntryType はタイムラインエントリの種類です。
type TimelineEntryType string

const (
	TimelineStarted          TimelineEntryType = "started"
	TimelinePlanted          TimelineEntryType = "planted"
	TimelineWatered          TimelineEntryType = "watered"
	TimelineWateringSettings TimelineEntryType = "watering_settings"
	TimelineMetadata         TimelineEntryType = "metadata"
	TimelineNote             TimelineEntryType = "note"
)

// PlantTimelineEntry はトラッキング中の植物に対する一件の操作履歴です。
type PlantTimelineEntry struct {
	ID        string            `json:"id"`
	Type      TimelineEntryType `json:"type"`
	Timestamp string            `json:"timestamp"` // RFC3339
	Note      string            `json:"note,omitempty"`
}

// PlantMetadata はユーザーが入力する植物の付加情報です。
type PlantMetadata struct {
	Variety      string            `json:"variety,omitempty"`
	Source       string            `json:"source,omitempty"`
	PotSize      string            `json:"potSize,omitempty"`
	SoilMix      string            `json:"soilMix,omitempty"`
	Location     string            `json:"location,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// TrackedPlant はユーザーが実際に育てている植物です。
// 再ローカライズで置き換わるのは埋め込まれたPlantのみで、
// トラッキングID・植え付け日・水やり状態・タイムラインは保持されます。
type TrackedPlant struct {
	Plant

	TrackingID              string               `json:"trackingId"`
	SeedPlantedDate         string               `json:"seedPlantedDate"`
	PlantedConfirmed        bool                 `json:"plantedConfirmed"`
	WateringFrequency       WateringFrequency    `json:"wateringFrequency"`
	WateringIntervalDays    int                  `json:"wateringIntervalDays"`
	LastWatered             string               `json:"lastWatered,omitempty"`
	WateringReminderEnabled bool                 `json:"wateringReminderEnabled"`
	Metadata                PlantMetadata        `json:"metadata"`
	Timeline                []PlantTimelineEntry `json:"timeline"`
}

// NewTrackedPlant は新しいTrackedPlantインスタンスを作成します。
func NewTrackedPlant(p Plant, plantedDate, now time.Time) (*TrackedPlant, error) {
	if plantedDate.IsZero() {
		plantedDate = now
	}
	tp := &TrackedPlant{
		Plant:                   p,
		TrackingID:              uuid.New().String(),
		SeedPlantedDate:         FormatDate(plantedDate),
		WateringFrequency:       WateringAverage,
		WateringIntervalDays:    WateringAverage.DefaultInterval(),
		WateringReminderEnabled: true,
		Timeline:                []PlantTimelineEntry{},
	}
	if err := tp.Validate(); err != nil {
		return nil, err
	}
	tp.appendEntry(TimelineStarted, "Started tracking "+p.Name, now)
	return tp, nil
}

// Validate はTrackedPlantのデータバリデーションを行います。
func (tp *TrackedPlant) Validate() error {
	if tp.TrackingID == "" {
		return NewValidationError("tracking id is required")
	}
	if tp.Name == "" {
		return NewValidationError("plant name is required")
	}
	if _, err := ParseDate(tp.SeedPlantedDate); err != nil {
		return NewValidationError("invalid seed planted date")
	}
	if _, err := ParseWateringFrequency(string(tp.WateringFrequency)); err != nil {
		return err
	}
	if tp.WateringIntervalDays < 1 {
		return NewValidationError("watering interval must be at least 1 day")
	}
	return nil
}

// ConfirmPlanted は植え付け日を確定します。
func (tp *TrackedPlant) ConfirmPlanted(date, now time.Time) error {
	if date.IsZero() {
		return NewValidationError("planted date is required")
	}
	if date.After(now) {
		return NewValidationError("planted date cannot be in the future")
	}
	tp.SeedPlantedDate = FormatDate(date)
	tp.PlantedConfirmed = true
	tp.appendEntry(TimelinePlanted, "Planted on "+tp.SeedPlantedDate, now)
	return nil
}

// LogWatering は水やりを記録します。
func (tp *TrackedPlant) LogWatering(now time.Time) {
	tp.LastWatered = now.UTC().Format(time.RFC3339)
	tp.appendEntry(TimelineWatered, "", now)
}

// UpdateWateringSettings は水やり設定を変更します。
// customの場合はintervalDaysが必須で、それ以外は頻度から間隔が決まります。
func (tp *TrackedPlant) UpdateWateringSettings(freq WateringFrequency, intervalDays int, reminder bool, now time.Time) error {
	if _, err := ParseWateringFrequency(string(freq)); err != nil {
		return err
	}
	interval := freq.DefaultInterval()
	if freq == WateringCustom {
		if intervalDays < 1 {
			return NewValidationError("custom watering interval must be at least 1 day")
		}
		interval = intervalDays
	}
	tp.WateringFrequency = freq
	tp.WateringIntervalDays = interval
	tp.WateringReminderEnabled = reminder
	tp.appendEntry(TimelineWateringSettings, fmt.Sprintf("Every %d day(s), reminders %t", interval, reminder), now)
	return nil
}

// UpdateMetadata は付加情報を置き換えます。
func (tp *TrackedPlant) UpdateMetadata(md PlantMetadata, now time.Time) {
	tp.Metadata = md
	tp.appendEntry(TimelineMetadata, "", now)
}

// AppendNote はタイムラインに自由記述のメモを追加します。
func (tp *TrackedPlant) AppendNote(note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return NewValidationError("note is required")
	}
	tp.appendEntry(TimelineNote, note, now)
	return nil
}

// NextWatering returns when the plant is next due for water.
func (tp *TrackedPlant) NextWatering(now time.Time) time.Time {
	return NextWatering(tp.LastWatered, tp.WateringIntervalDays, now)
}

// NextWatering returns lastWatered plus the interval. Something that was
// never watered is due immediately.
func NextWatering(lastWatered string, intervalDays int, now time.Time) time.Time {
	last, err := time.Parse(time.RFC3339, lastWatered)
	if err != nil {
		return now
	}
	if intervalDays < 1 {
		intervalDays = 1
	}
	return last.AddDate(0, 0, intervalDays)
}

func (tp *TrackedPlant) appendEntry(kind TimelineEntryType, note string, now time.Time) {
	tp.Timeline = append(tp.Timeline, PlantTimelineEntry{
		ID:        uuid.New().String(),
		Type:      kind,
		Timestamp: now.UTC().Format(time.RFC3339),
		Note:      note,
	})
}
