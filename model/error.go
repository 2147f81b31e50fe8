// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "errors"

// センチネルエラー - リソースが見つからない場合
var (
	ErrPlantNotFound         = errors.New("plant not found")
	ErrTrackedPlantNotFound  = errors.New("tracked plant not found")
	ErrGardenNotFound        = errors.New("garden not found")
	ErrWateringEntryNotFound = errors.New("watering entry not found")
	ErrSnapshotNotFound      = errors.New("snapshot not found")
)

// ValidationError はバリデーションエラーを表す型
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError はValidationErrorを生成するヘルパー関数
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
