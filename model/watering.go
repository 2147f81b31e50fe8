// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomWateringEntry はカタログ外の植物などを水やりだけ管理するためのエントリです。
// LinkedPlantID はカタログ上の植物IDへの任意の参照です。
type CustomWateringEntry struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	LinkedPlantID        string `json:"linkedPlantId,omitempty"`
	WateringIntervalDays int    `json:"wateringIntervalDays"`
	LastWatered          string `json:"lastWatered,omitempty"`
	ReminderEnabled      bool   `json:"reminderEnabled"`
	Notes                string `json:"notes,omitempty"`
	CreatedAt            string `json:"createdAt"`
}

// NewCustomWateringEntry は新しいCustomWateringEntryインスタンスを作成します。
func NewCustomWateringEntry(name, linkedPlantID string, intervalDays int, now time.Time) (*CustomWateringEntry, error) {
	e := &CustomWateringEntry{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(name),
		LinkedPlantID:        linkedPlantID,
		WateringIntervalDays: intervalDays,
		ReminderEnabled:      true,
		CreatedAt:            now.UTC().Format(time.RFC3339),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate はエントリのデータバリデーションを行います。
func (e *CustomWateringEntry) Validate() error {
	if e.Name == "" {
		return NewValidationError("name is required")
	}
	if e.WateringIntervalDays < 1 {
		return NewValidationError("watering interval must be at least 1 day")
	}
	return nil
}

// LogWatering は水やりを記録します。
func (e *CustomWateringEntry) LogWatering(now time.Time) {
	e.LastWatered = now.UTC().Format(time.RFC3339)
}

// NextWatering returns when the entry is next due for water.
func (e *CustomWateringEntry) NextWatering(now time.Time) time.Time {
	return NextWatering(e.LastWatered, e.WateringIntervalDays, now)
}
