package api

import (
	"net/http"

	"github.com/stsysd/niwa/garden"
	"github.com/stsysd/niwa/model"
)

// handleListGardens は区画の一覧を返却するハンドラーです。
func (s *Server) handleListGardens(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.ListGardens(), http.StatusOK)
}

// handleCreateGarden は新しい区画を作成するハンドラーです。
func (s *Server) handleCreateGarden(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name string `json:"name"`
		Rows int    `json:"rows"`
		Cols int    `json:"cols"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := s.service.CreateGarden(r.Context(), requestBody.Name, requestBody.Rows, requestBody.Cols)
	if err != nil {
		s.writeServiceError(w, err, "create garden")
		return
	}
	s.writeJSON(w, g, http.StatusCreated)
}

// handleGetGarden は特定の区画を返却するハンドラーです。
func (s *Server) handleGetGarden(w http.ResponseWriter, r *http.Request) {
	g, err := s.service.GetGarden(r.PathValue("garden_id"))
	if err != nil {
		s.writeServiceError(w, err, "get garden")
		return
	}
	s.writeJSON(w, g, http.StatusOK)
}

// handleDeleteGarden は区画を削除するハンドラーです。
func (s *Server) handleDeleteGarden(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteGarden(r.Context(), r.PathValue("garden_id")); err != nil {
		s.writeServiceError(w, err, "delete garden")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CellParams represents parameters addressing one garden cell.
type CellParams struct {
	GardenID string
	Position *model.GridPosition
}

// NewCellParams creates cell parameters from HTTP request path values.
func NewCellParams(r *http.Request) (*CellParams, error) {
	pos, err := model.NewGridPosition(r.PathValue("row"), r.PathValue("col"))
	if err != nil {
		return nil, err
	}
	return &CellParams{GardenID: r.PathValue("garden_id"), Position: pos}, nil
}

// handlePlaceInGarden は区画のセルに植物を配置するハンドラーです。
func (s *Server) handlePlaceInGarden(w http.ResponseWriter, r *http.Request) {
	params, err := NewCellParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var requestBody struct {
		Slug string `json:"slug"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Slug == "" {
		writeJSONError(w, "slug is required", http.StatusBadRequest)
		return
	}

	g, err := s.service.PlaceInGarden(r.Context(), params.GardenID, params.Position.Row(), params.Position.Col(), requestBody.Slug)
	if err != nil {
		s.writeServiceError(w, err, "place plant")
		return
	}
	s.writeJSON(w, g, http.StatusOK)
}

// handleClearCell は区画のセルを空にするハンドラーです。
func (s *Server) handleClearCell(w http.ResponseWriter, r *http.Request) {
	params, err := NewCellParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := s.service.ClearCell(r.Context(), params.GardenID, params.Position.Row(), params.Position.Col())
	if err != nil {
		s.writeServiceError(w, err, "clear cell")
		return
	}
	s.writeJSON(w, g, http.StatusOK)
}

// handleListAddedPlants は一覧に追加された植物を返却するハンドラーです。
func (s *Server) handleListAddedPlants(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.ListAddedPlants(), http.StatusOK)
}

// handleAddPlant は植物を一覧に追加するハンドラーです。
func (s *Server) handleAddPlant(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Slug string `json:"slug"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Slug == "" {
		writeJSONError(w, "slug is required", http.StatusBadRequest)
		return
	}

	p, err := s.service.AddPlant(r.Context(), requestBody.Slug)
	if err != nil {
		s.writeServiceError(w, err, "add plant")
		return
	}
	s.writeJSON(w, p, http.StatusCreated)
}

// handleRemovePlant は植物を一覧から削除するハンドラーです。
func (s *Server) handleRemovePlant(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RemovePlant(r.Context(), r.PathValue("slug")); err != nil {
		s.writeServiceError(w, err, "remove plant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListWatering は水やりエントリの一覧を返却するハンドラーです。
func (s *Server) handleListWatering(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.ListWatering(), http.StatusOK)
}

// handleAddWatering は水やりエントリを追加するハンドラーです。
func (s *Server) handleAddWatering(w http.ResponseWriter, r *http.Request) {
	var in garden.NewWateringEntry
	if err := decodeBody(r, &in); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.service.AddWatering(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, err, "add watering entry")
		return
	}
	s.writeJSON(w, view, http.StatusCreated)
}

// handleDueWatering は水やり時期を迎えた植物とエントリを返却するハンドラーです。
func (s *Server) handleDueWatering(w http.ResponseWriter, r *http.Request) {
	items := s.service.DueWatering()
	if items == nil {
		items = []garden.DueItem{}
	}
	s.writeJSON(w, items, http.StatusOK)
}

// handleLogCustomWatering は水やりエントリに水やりを記録するハンドラーです。
func (s *Server) handleLogCustomWatering(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.LogCustomWatering(r.Context(), r.PathValue("entry_id"))
	if err != nil {
		s.writeServiceError(w, err, "log watering")
		return
	}
	s.writeJSON(w, view, http.StatusOK)
}

// handleDeleteWatering は水やりエントリを削除するハンドラーです。
func (s *Server) handleDeleteWatering(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteWatering(r.Context(), r.PathValue("entry_id")); err != nil {
		s.writeServiceError(w, err, "delete watering entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
