// Package api はniwaのAPIサーバー実装を提供します。
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stsysd/niwa/calendar"
	"github.com/stsysd/niwa/config"
	"github.com/stsysd/niwa/garden"
	"github.com/stsysd/niwa/model"
	"go.uber.org/zap"
)

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	service *garden.Service
	config  *config.Config
	logger  *zap.Logger
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON はJSON形式で成功レスポンスを返却します。
func (s *Server) writeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeSVG はSVG画像を返却します。
func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(svg))
}

// writeServiceError はサービス層のエラーをHTTPステータスに変換します。
// バリデーションエラーは400、リソース未検出は404、それ以外は500です。
func (s *Server) writeServiceError(w http.ResponseWriter, err error, action string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrPlantNotFound),
		errors.Is(err, model.ErrTrackedPlantNotFound),
		errors.Is(err, model.ErrGardenNotFound),
		errors.Is(err, model.ErrWateringEntryNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("request failed", zap.String("action", action), zap.Error(err))
		writeJSONError(w, "Failed to "+action, http.StatusInternalServerError)
	}
}

// decodeBody はリクエストボディをJSONとしてvに読み込みます。
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(service *garden.Service, config *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:  http.NewServeMux(),
		service: service,
		config:  config,
		logger:  logger,
	}
	s.routes()
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックエンドポイントは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Plant catalog endpoints
	securedHandler.HandleFunc("GET /api/v0/plants", s.handleListPlants)
	securedHandler.HandleFunc("GET /api/v0/plants/{slug}", s.handleGetPlant)
	securedHandler.HandleFunc("GET /api/v0/plants/{slug}/calendar.svg", s.handleGetPlantCalendar)

	// Location endpoints
	securedHandler.HandleFunc("GET /api/v0/location", s.handleGetLocation)
	securedHandler.HandleFunc("PUT /api/v0/location", s.handleSetLocation)
	securedHandler.HandleFunc("DELETE /api/v0/state", s.handleResetState)

	// Tracked plant endpoints
	securedHandler.HandleFunc("GET /api/v0/tracked", s.handleListTracked)
	securedHandler.HandleFunc("POST /api/v0/tracked", s.handleStartTracking)
	securedHandler.HandleFunc("GET /api/v0/tracked/{tracking_id}", s.handleGetTracked)
	securedHandler.HandleFunc("DELETE /api/v0/tracked/{tracking_id}", s.handleDeleteTracked)
	securedHandler.HandleFunc("GET /api/v0/tracked/{tracking_id}/progress", s.handleGetProgress)
	securedHandler.HandleFunc("GET /api/v0/tracked/{tracking_id}/activity.svg", s.handleGetActivity)
	securedHandler.HandleFunc("POST /api/v0/tracked/{tracking_id}/planted", s.handleConfirmPlanted)
	securedHandler.HandleFunc("POST /api/v0/tracked/{tracking_id}/watering", s.handleLogWatering)
	securedHandler.HandleFunc("PUT /api/v0/tracked/{tracking_id}/watering-settings", s.handleUpdateWateringSettings)
	securedHandler.HandleFunc("PUT /api/v0/tracked/{tracking_id}/metadata", s.handleUpdateMetadata)
	securedHandler.HandleFunc("POST /api/v0/tracked/{tracking_id}/timeline", s.handleAppendNote)

	// Garden endpoints
	securedHandler.HandleFunc("GET /api/v0/gardens", s.handleListGardens)
	securedHandler.HandleFunc("POST /api/v0/gardens", s.handleCreateGarden)
	securedHandler.HandleFunc("GET /api/v0/gardens/{garden_id}", s.handleGetGarden)
	securedHandler.HandleFunc("DELETE /api/v0/gardens/{garden_id}", s.handleDeleteGarden)
	securedHandler.HandleFunc("PUT /api/v0/gardens/{garden_id}/cells/{row}/{col}", s.handlePlaceInGarden)
	securedHandler.HandleFunc("DELETE /api/v0/gardens/{garden_id}/cells/{row}/{col}", s.handleClearCell)

	// Added plant endpoints
	securedHandler.HandleFunc("GET /api/v0/added-plants", s.handleListAddedPlants)
	securedHandler.HandleFunc("POST /api/v0/added-plants", s.handleAddPlant)
	securedHandler.HandleFunc("DELETE /api/v0/added-plants/{slug}", s.handleRemovePlant)

	// Custom watering endpoints
	securedHandler.HandleFunc("GET /api/v0/watering", s.handleListWatering)
	securedHandler.HandleFunc("POST /api/v0/watering", s.handleAddWatering)
	securedHandler.HandleFunc("GET /api/v0/watering/due", s.handleDueWatering)
	securedHandler.HandleFunc("POST /api/v0/watering/{entry_id}/log", s.handleLogCustomWatering)
	securedHandler.HandleFunc("DELETE /api/v0/watering/{entry_id}", s.handleDeleteWatering)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logMiddleware(s.router).ServeHTTP(w, r)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// PlantsParams represents parameters for listing localized plants.
type PlantsParams struct {
	FrostDay *model.FrostDayParam
}

// NewPlantsParams creates parameters for plant listing from HTTP request.
func NewPlantsParams(r *http.Request) (*PlantsParams, error) {
	frostDay, err := model.NewFrostDayParam(r.URL.Query().Get("frost_day"))
	if err != nil {
		return nil, err
	}
	return &PlantsParams{FrostDay: frostDay}, nil
}

// frostDayPtr returns the supplied frost day, or nil.
func (p *PlantsParams) frostDayPtr() *int {
	if v, ok := p.FrostDay.Value(); ok {
		return &v
	}
	return nil
}

// handleListPlants はカタログを霜日でローカライズして返却するハンドラーです。
func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	params, err := NewPlantsParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, s.service.Plants(params.frostDayPtr()), http.StatusOK)
}

// handleGetPlant は特定のslugの植物を返却するハンドラーです。
func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	params, err := NewPlantsParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	plant, _, err := s.service.PlantAt(r.PathValue("slug"), params.frostDayPtr())
	if err != nil {
		s.writeServiceError(w, err, "get plant")
		return
	}
	s.writeJSON(w, plant, http.StatusOK)
}

// handleGetPlantCalendar は植物の年間栽培カレンダーをSVGで返却するハンドラーです。
func (s *Server) handleGetPlantCalendar(w http.ResponseWriter, r *http.Request) {
	params, err := NewPlantsParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plant, frostDay, err := s.service.PlantAt(r.PathValue("slug"), params.frostDayPtr())
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			http.Error(w, "Plant not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to get plant", zap.Error(err))
		http.Error(w, "Failed to get plant", http.StatusInternalServerError)
		return
	}
	writeSVG(w, calendar.GeneratePlantingSVG(plant, frostDay, nil))
}

// handleGetLocation は保存された所在地を返却するハンドラーです。
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Location *model.Location `json:"location"`
		FrostDay int             `json:"frostDay"`
	}{
		Location: s.service.Location(),
		FrostDay: s.service.FrostDay(),
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// SetLocationParams represents parameters for changing the location.
type SetLocationParams struct {
	ZIP      *model.ZIPCode
	FrostDay *int
}

// NewSetLocationParams creates parameters for a location change from HTTP request.
func NewSetLocationParams(r *http.Request) (*SetLocationParams, error) {
	var requestBody struct {
		ZIP      string `json:"zip"`
		FrostDay *int   `json:"frostDay"`
	}
	if err := decodeBody(r, &requestBody); err != nil {
		return nil, err
	}

	zip, err := model.NewZIPCode(requestBody.ZIP)
	if err != nil {
		return nil, err
	}
	if fd := requestBody.FrostDay; fd != nil && (*fd < 1 || *fd > 365) {
		return nil, model.NewValidationError("frostDay must be between 1 and 365")
	}
	return &SetLocationParams{ZIP: zip, FrostDay: requestBody.FrostDay}, nil
}

// handleSetLocation は所在地を変更し、全スナップショットを再構築するハンドラーです。
func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	params, err := NewSetLocationParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := s.service.SetLocation(r.Context(), params.ZIP.String(), params.FrostDay)
	if err != nil {
		s.writeServiceError(w, err, "set location")
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleResetState は保存済みの状態をすべて削除するハンドラーです。
func (s *Server) handleResetState(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reset(r.Context()); err != nil {
		s.writeServiceError(w, err, "reset state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NewHTTPServer builds an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
