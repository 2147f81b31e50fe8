package api

import (
	"errors"
	"net/http"

	"github.com/stsysd/niwa/calendar"
	"github.com/stsysd/niwa/model"
	"go.uber.org/zap"
)

// handleListTracked はトラッキング中の植物を進捗付きで返却するハンドラーです。
func (s *Server) handleListTracked(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.ListTracked(), http.StatusOK)
}

// handleStartTracking はカタログ上の植物のトラッキングを開始するハンドラーです。
func (s *Server) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Slug        string `json:"slug"`
		PlantedDate string `json:"plantedDate"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Slug == "" {
		writeJSONError(w, "slug is required", http.StatusBadRequest)
		return
	}

	view, err := s.service.StartTracking(r.Context(), requestBody.Slug, requestBody.PlantedDate)
	if err != nil {
		s.writeServiceError(w, err, "start tracking")
		return
	}
	s.writeJSON(w, view, http.StatusCreated)
}

// handleGetTracked は特定のトラッキングIDの植物を返却するハンドラーです。
func (s *Server) handleGetTracked(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetTracked(r.PathValue("tracking_id"))
	if err != nil {
		s.writeServiceError(w, err, "get tracked plant")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleGetProgress は進捗のみを返却するハンドラーです。
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetTracked(r.PathValue("tracking_id"))
	if err != nil {
		s.writeServiceError(w, err, "get progress")
		return
	}
	s.writeJSON(w, view.Progress, http.StatusOK)
}

// handleGetActivity はタイムラインのアクティビティをヒートマップSVGで返却するハンドラーです。
// typeクエリで集計するエントリの種類を絞り込めます。
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetTracked(r.PathValue("tracking_id"))
	if err != nil {
		if errors.Is(err, model.ErrTrackedPlantNotFound) {
			http.Error(w, "Tracked plant not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to get tracked plant", zap.Error(err))
		http.Error(w, "Failed to get tracked plant", http.StatusInternalServerError)
		return
	}

	var types []model.TimelineEntryType
	for _, t := range r.URL.Query()["type"] {
		types = append(types, model.TimelineEntryType(t))
	}
	writeSVG(w, calendar.GenerateActivitySVG(view.TrackedPlant, s.service.Now(), nil, types...))
}

// handleConfirmPlanted は植え付け日を確定するハンドラーです。
func (s *Server) handleConfirmPlanted(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Date string `json:"date"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.service.ConfirmPlanted(r.Context(), r.PathValue("tracking_id"), requestBody.Date)
	if err != nil {
		s.writeServiceError(w, err, "confirm planted date")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleLogWatering は水やりを記録するハンドラーです。
func (s *Server) handleLogWatering(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.LogWatering(r.Context(), r.PathValue("tracking_id"))
	if err != nil {
		s.writeServiceError(w, err, "log watering")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleUpdateWateringSettings は水やり設定を変更するハンドラーです。
// reminderを省略した場合は有効になります。
func (s *Server) handleUpdateWateringSettings(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Frequency    string `json:"frequency"`
		IntervalDays int    `json:"intervalDays"`
		Reminder     *bool  `json:"reminder"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	reminder := true
	if requestBody.Reminder != nil {
		reminder = *requestBody.Reminder
	}

	view, err := s.service.UpdateWateringSettings(r.Context(), r.PathValue("tracking_id"),
		requestBody.Frequency, requestBody.IntervalDays, reminder)
	if err != nil {
		s.writeServiceError(w, err, "update watering settings")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleUpdateMetadata は付加情報を置き換えるハンドラーです。
func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var md model.PlantMetadata
	if err := decodeBody(r, &md); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.service.UpdateMetadata(r.Context(), r.PathValue("tracking_id"), md)
	if err != nil {
		s.writeServiceError(w, err, "update metadata")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleAppendNote はタイムラインにメモを追加するハンドラーです。
func (s *Server) handleAppendNote(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Note string `json:"note"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.service.AppendNote(r.Context(), r.PathValue("tracking_id"), requestBody.Note)
	if err != nil {
		s.writeServiceError(w, err, "append note")
		return
	}
	s.writeJSON(w, view, http.StatusCreated)
}

// handleDeleteTracked はトラッキングを終了するハンドラーです。
func (s *Server) handleDeleteTracked(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTracked(r.Context(), r.PathValue("tracking_id")); err != nil {
		s.writeServiceError(w, err, "delete tracked plant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
