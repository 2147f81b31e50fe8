package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stsysd/niwa/catalog"
	"github.com/stsysd/niwa/config"
	"github.com/stsysd/niwa/frost"
	"github.com/stsysd/niwa/garden"
	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/store"
)

// テスト用の定数
const testAPIKey = "test-api-key"

var testNow = time.Date(2025, 5, 21, 14, 30, 0, 0, time.UTC)

// テスト用の設定を生成するヘルパー関数
func newTestConfig() *config.Config {
	return &config.Config{
		DataDir:         "./testdata",
		Port:            "8080",
		APIKey:          testAPIKey,
		DefaultFrostDay: 105,
	}
}

// テスト用のサーバーを生成するヘルパー関数
// 霜日の参照は常に100日目を返します。
func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	c, err := catalog.New("")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	mem := store.NewMemoryStore()
	svc := garden.NewService(mem, c, garden.Config{
		Resolver: frost.Static{Day: 100},
		Now:      func() time.Time { return testNow },
	})
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}
	return NewServer(svc, newTestConfig(), nil), mem
}

// doRequest は認証ヘッダー付きでリクエストを実行します。
func doRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decodeResponse はレスポンスボディをvにデコードします。
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("Expected status code %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	// 認証ヘッダーなしでアクセスできること
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	expectStatus(t, w, http.StatusOK)
	var resp map[string]string
	decodeResponse(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", resp["status"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		description  string
		apiKey       string
		serverKey    string
		expectedCode int
	}{
		{description: "正しいAPIキー", apiKey: testAPIKey, serverKey: testAPIKey, expectedCode: http.StatusOK},
		{description: "APIキーなし", apiKey: "", serverKey: testAPIKey, expectedCode: http.StatusUnauthorized},
		{description: "誤ったAPIキー", apiKey: "wrong", serverKey: testAPIKey, expectedCode: http.StatusUnauthorized},
		{description: "サーバー側でAPIキー未設定", apiKey: "anything", serverKey: "", expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			server.config.APIKey = tt.serverKey
			req := httptest.NewRequest(http.MethodGet, "/api/v0/plants", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Errorf("Expected status code %d, got %d", tt.expectedCode, w.Code)
			}
			if tt.expectedCode != http.StatusOK {
				var resp ErrorResponse
				decodeResponse(t, w, &resp)
				if resp.Code != tt.expectedCode {
					t.Errorf("Expected error code %d, got %d", tt.expectedCode, resp.Code)
				}
			}
		})
	}
}

func TestListPlantsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/v0/plants?frost_day=100", nil)
	expectStatus(t, w, http.StatusOK)

	var plants []model.Plant
	decodeResponse(t, w, &plants)
	if len(plants) == 0 {
		t.Fatal("Expected a non-empty catalog")
	}

	var tomatoes *model.Plant
	for i := range plants {
		if plants[i].Slug == "tomatoes" {
			tomatoes = &plants[i]
		}
	}
	if tomatoes == nil || tomatoes.CultivatedSchedule == nil {
		t.Fatal("Expected tomatoes with a schedule")
	}

	// 霜日100日目でのトマトの栽培スケジュール
	checks := []struct {
		field string
		got   any
		want  any
	}{
		{"startSeedIndoor", tomatoes.StartSeedIndoor, "Feb 27 - Mar 12"},
		{"transplantOutdoor", tomatoes.TransplantOutdoor, "Apr 24 - Apr 30"},
		{"startSeedOutdoor", tomatoes.StartSeedOutdoor, model.NotApplicable},
		{"harvestDate", tomatoes.HarvestDate, "May 13 (est.)"},
		{"transplantDay", tomatoes.TransplantDay, 56},
		{"indoorOutdoor", tomatoes.IndoorOutdoor, "Start indoors & transplant"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("Expected %s %v, got %v", c.field, c.want, c.got)
		}
	}
}

func TestListPlantsInvalidFrostDay(t *testing.T) {
	server, _ := newTestServer(t)

	for _, q := range []string{"abc", "1000"} {
		w := doRequest(t, server, http.MethodGet, "/api/v0/plants?frost_day="+q, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("frost_day=%s: expected status code %d, got %d", q, http.StatusBadRequest, w.Code)
		}
	}
}

func TestGetPlantEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	// 所在地未設定なら既定の霜日（105日目）でローカライズされる
	w := doRequest(t, server, http.MethodGet, "/api/v0/plants/tomatoes", nil)
	expectStatus(t, w, http.StatusOK)
	var p model.Plant
	decodeResponse(t, w, &p)
	if p.StartSeedIndoor != "Mar 4 - Mar 17" {
		t.Errorf("Expected startSeedIndoor %q, got %q", "Mar 4 - Mar 17", p.StartSeedIndoor)
	}

	w = doRequest(t, server, http.MethodGet, "/api/v0/plants/xyzzy", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestGetPlantCalendarEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/v0/plants/tomatoes/calendar.svg?frost_day=100", nil)
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected Content-Type image/svg+xml, got %s", ct)
	}
	svg := w.Body.String()
	if !strings.Contains(svg, "<svg") {
		t.Error("Expected SVG to be generated")
	}
	if !strings.Contains(svg, "Tomatoes (last frost Apr 10)") {
		t.Error("Expected the title to name the plant and anchor")
	}
	if !strings.Contains(svg, `data-date="2023-02-27" data-phase="indoor"`) {
		t.Error("Expected Feb 27 to be an indoor sowing day")
	}

	w = doRequest(t, server, http.MethodGet, "/api/v0/plants/xyzzy/calendar.svg", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestLocationEndpoints(t *testing.T) {
	server, mem := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/v0/location", nil)
	expectStatus(t, w, http.StatusOK)
	var before struct {
		Location *model.Location `json:"location"`
		FrostDay int             `json:"frostDay"`
	}
	decodeResponse(t, w, &before)
	if before.Location != nil || before.FrostDay != 105 {
		t.Errorf("Expected no location and frost day 105, got %+v", before)
	}

	w = doRequest(t, server, http.MethodPut, "/api/v0/location", map[string]string{"zip": "02134-1234"})
	expectStatus(t, w, http.StatusOK)
	var result garden.LocationResult
	decodeResponse(t, w, &result)
	if result.Location.ZIP != "02134" {
		t.Errorf("Expected ZIP 02134, got %s", result.Location.ZIP)
	}
	if result.Location.FrostDay == nil || *result.Location.FrostDay != 100 {
		t.Errorf("Expected frost day 100, got %v", result.Location.FrostDay)
	}
	if result.Location.Source != frost.SourceStatic {
		t.Errorf("Expected source %s, got %s", frost.SourceStatic, result.Location.Source)
	}
	if mem.Saves() == 0 {
		t.Error("Expected the location to be persisted")
	}

	// 以降のカタログは新しい霜日でローカライズされる
	w = doRequest(t, server, http.MethodGet, "/api/v0/plants/tomatoes", nil)
	expectStatus(t, w, http.StatusOK)
	var p model.Plant
	decodeResponse(t, w, &p)
	if p.StartSeedIndoor != "Feb 27 - Mar 12" {
		t.Errorf("Expected startSeedIndoor %q, got %q", "Feb 27 - Mar 12", p.StartSeedIndoor)
	}

	// 手動指定した霜日は参照結果より優先される
	w = doRequest(t, server, http.MethodPut, "/api/v0/location", `{"zip":"02134","frostDay":120}`)
	expectStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &result)
	if *result.Location.FrostDay != 120 || result.Location.Source != "manual" {
		t.Errorf("Expected manual frost day 120, got %+v", result.Location)
	}
}

func TestSetLocationInvalid(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		description string
		body        string
	}{
		{description: "郵便番号が桁不足", body: `{"zip":"123"}`},
		{description: "郵便番号が空", body: `{"zip":""}`},
		{description: "霜日が範囲外", body: `{"zip":"02134","frostDay":400}`},
		{description: "JSONが不正", body: `{"zip":`},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			w := doRequest(t, server, http.MethodPut, "/api/v0/location", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestTrackedPlantLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	// トラッキング開始
	w := doRequest(t, server, http.MethodPost, "/api/v0/tracked",
		map[string]string{"slug": "tomatoes", "plantedDate": "2025-05-10"})
	expectStatus(t, w, http.StatusCreated)
	var view garden.TrackedView
	decodeResponse(t, w, &view)
	if view.TrackingID == "" {
		t.Fatal("Expected a tracking id")
	}
	if view.Progress.DaysPassed != 11 {
		t.Errorf("Expected 11 days passed, got %d", view.Progress.DaysPassed)
	}
	base := "/api/v0/tracked/" + view.TrackingID

	// 進捗のみの取得
	w = doRequest(t, server, http.MethodGet, base+"/progress", nil)
	expectStatus(t, w, http.StatusOK)

	steps := []struct {
		description string
		method      string
		path        string
		body        any
		code        int
	}{
		{"植え付け日の確定", http.MethodPost, base + "/planted", map[string]string{"date": "2025-05-12"}, http.StatusOK},
		{"水やりの記録", http.MethodPost, base + "/watering", nil, http.StatusOK},
		{"水やり設定の変更", http.MethodPut, base + "/watering-settings", map[string]any{"frequency": "custom", "intervalDays": 3}, http.StatusOK},
		{"付加情報の更新", http.MethodPut, base + "/metadata", map[string]string{"variety": "Sungold"}, http.StatusOK},
		{"メモの追加", http.MethodPost, base + "/timeline", map[string]string{"note": "first flower"}, http.StatusCreated},
	}
	for i, step := range steps {
		w = doRequest(t, server, step.method, step.path, step.body)
		if w.Code != step.code {
			t.Fatalf("%s: expected status code %d, got %d: %s", step.description, step.code, w.Code, w.Body.String())
		}
		decodeResponse(t, w, &view)
		// 各操作はタイムラインに一件だけ追加する
		if got, want := len(view.Timeline), i+2; got != want {
			t.Errorf("%s: expected %d timeline entries, got %d", step.description, want, got)
		}
	}

	w = doRequest(t, server, http.MethodGet, base, nil)
	expectStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &view)
	if view.SeedPlantedDate != "2025-05-12" || !view.PlantedConfirmed {
		t.Errorf("Expected confirmed planted date 2025-05-12, got %s (%v)", view.SeedPlantedDate, view.PlantedConfirmed)
	}
	if view.WateringIntervalDays != 3 || view.WateringFrequency != model.WateringCustom {
		t.Errorf("Expected custom interval 3, got %s/%d", view.WateringFrequency, view.WateringIntervalDays)
	}
	if view.Metadata.Variety != "Sungold" {
		t.Errorf("Expected variety Sungold, got %q", view.Metadata.Variety)
	}
	if view.NextWatering != "2025-05-24T14:30:00Z" {
		t.Errorf("Expected next watering 2025-05-24T14:30:00Z, got %s", view.NextWatering)
	}

	// アクティビティSVG
	w = doRequest(t, server, http.MethodGet, base+"/activity.svg?type=watered", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `data-date="2025-05-21" data-count="1"`) {
		t.Error("Expected one watering today in the activity heatmap")
	}

	// 一覧
	w = doRequest(t, server, http.MethodGet, "/api/v0/tracked", nil)
	expectStatus(t, w, http.StatusOK)
	var list []garden.TrackedView
	decodeResponse(t, w, &list)
	if len(list) != 1 {
		t.Errorf("Expected 1 tracked plant, got %d", len(list))
	}

	// 削除後は404
	w = doRequest(t, server, http.MethodDelete, base, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = doRequest(t, server, http.MethodGet, base, nil)
	expectStatus(t, w, http.StatusNotFound)
	w = doRequest(t, server, http.MethodGet, base+"/activity.svg", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestTrackedPlantErrors(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		description string
		method      string
		path        string
		body        any
		code        int
	}{
		{"カタログにない植物", http.MethodPost, "/api/v0/tracked", map[string]string{"slug": "xyzzy"}, http.StatusNotFound},
		{"slugなし", http.MethodPost, "/api/v0/tracked", map[string]string{}, http.StatusBadRequest},
		{"不正な植え付け日", http.MethodPost, "/api/v0/tracked", map[string]string{"slug": "basil", "plantedDate": "May 1"}, http.StatusBadRequest},
		{"存在しないトラッキングID", http.MethodPost, "/api/v0/tracked/missing/watering", nil, http.StatusNotFound},
		{"存在しないIDへのメモ", http.MethodPost, "/api/v0/tracked/missing/timeline", map[string]string{"note": " "}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			w := doRequest(t, server, tt.method, tt.path, tt.body)
			if w.Code != tt.code {
				t.Errorf("Expected status code %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}

	// 存在するプラントへの不正な操作はバリデーションエラー
	w := doRequest(t, server, http.MethodPost, "/api/v0/tracked", map[string]string{"slug": "basil"})
	expectStatus(t, w, http.StatusCreated)
	var view garden.TrackedView
	decodeResponse(t, w, &view)
	base := "/api/v0/tracked/" + view.TrackingID

	for _, c := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, base + "/timeline", map[string]string{"note": " "}},
		{http.MethodPost, base + "/planted", map[string]string{"date": "2099-01-01"}},
		{http.MethodPut, base + "/watering-settings", map[string]any{"frequency": "hourly"}},
		{http.MethodPut, base + "/watering-settings", map[string]any{"frequency": "custom", "intervalDays": 0}},
	} {
		w := doRequest(t, server, c.method, c.path, c.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected status code %d, got %d", c.method, c.path, http.StatusBadRequest, w.Code)
		}
	}
}

func TestGardenEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodPost, "/api/v0/gardens", map[string]any{"name": "Bed", "rows": 2, "cols": 3})
	expectStatus(t, w, http.StatusCreated)
	var g model.Garden
	decodeResponse(t, w, &g)
	if g.ID == "" || g.Rows != 2 || g.Cols != 3 || len(g.Cells) != 2 || len(g.Cells[0]) != 3 {
		t.Fatalf("Unexpected garden: %+v", g)
	}
	base := "/api/v0/gardens/" + g.ID

	w = doRequest(t, server, http.MethodPut, base+"/cells/1/2", map[string]string{"slug": "basil"})
	expectStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &g)
	if g.Cells[1][2] == nil || g.Cells[1][2].Slug != "basil" {
		t.Errorf("Expected basil at (1, 2), got %+v", g.Cells[1][2])
	}

	tests := []struct {
		description string
		method      string
		path        string
		body        any
		code        int
	}{
		{"範囲外のセル", http.MethodPut, base + "/cells/5/0", map[string]string{"slug": "basil"}, http.StatusBadRequest},
		{"数値でない行", http.MethodPut, base + "/cells/x/0", map[string]string{"slug": "basil"}, http.StatusBadRequest},
		{"カタログにない植物", http.MethodPut, base + "/cells/0/0", map[string]string{"slug": "xyzzy"}, http.StatusNotFound},
		{"存在しない区画", http.MethodDelete, "/api/v0/gardens/missing/cells/0/0", nil, http.StatusNotFound},
		{"行数が0", http.MethodPost, "/api/v0/gardens", map[string]any{"name": "Empty", "rows": 0, "cols": 3}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			w := doRequest(t, server, tt.method, tt.path, tt.body)
			if w.Code != tt.code {
				t.Errorf("Expected status code %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}

	w = doRequest(t, server, http.MethodDelete, base+"/cells/1/2", nil)
	expectStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &g)
	if g.Cells[1][2] != nil {
		t.Error("Expected (1, 2) to be empty")
	}

	w = doRequest(t, server, http.MethodGet, "/api/v0/gardens", nil)
	expectStatus(t, w, http.StatusOK)
	var gardens []model.Garden
	decodeResponse(t, w, &gardens)
	if len(gardens) != 1 {
		t.Errorf("Expected 1 garden, got %d", len(gardens))
	}

	w = doRequest(t, server, http.MethodDelete, base, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = doRequest(t, server, http.MethodGet, base, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestAddedPlantEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	// 空の一覧はnullではなく空配列
	w := doRequest(t, server, http.MethodGet, "/api/v0/added-plants", nil)
	expectStatus(t, w, http.StatusOK)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected empty array, got %s", body)
	}

	for range 2 {
		w = doRequest(t, server, http.MethodPost, "/api/v0/added-plants", map[string]string{"slug": "carrots"})
		expectStatus(t, w, http.StatusCreated)
	}
	w = doRequest(t, server, http.MethodGet, "/api/v0/added-plants", nil)
	var plants []model.Plant
	decodeResponse(t, w, &plants)
	if len(plants) != 1 || plants[0].Name != "Carrots" {
		t.Errorf("Expected only Carrots, got %+v", plants)
	}

	w = doRequest(t, server, http.MethodDelete, "/api/v0/added-plants/carrots", nil)
	expectStatus(t, w, http.StatusNoContent)
	w = doRequest(t, server, http.MethodDelete, "/api/v0/added-plants/carrots", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestWateringEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	w := doRequest(t, server, http.MethodPost, "/api/v0/watering",
		map[string]any{"name": "Fern", "wateringIntervalDays": 3})
	expectStatus(t, w, http.StatusCreated)
	var entry garden.WateringView
	decodeResponse(t, w, &entry)
	if entry.ID == "" || !entry.Due {
		t.Fatalf("Expected a new entry that is due, got %+v", entry)
	}

	// 一度も水やりしていないエントリは期限到来
	w = doRequest(t, server, http.MethodGet, "/api/v0/watering/due", nil)
	expectStatus(t, w, http.StatusOK)
	var due []garden.DueItem
	decodeResponse(t, w, &due)
	if len(due) != 1 || due[0].ID != entry.ID || due[0].Kind != garden.DueCustom {
		t.Errorf("Expected the fern to be due, got %+v", due)
	}

	w = doRequest(t, server, http.MethodPost, "/api/v0/watering/"+entry.ID+"/log", nil)
	expectStatus(t, w, http.StatusOK)
	decodeResponse(t, w, &entry)
	if entry.LastWatered != "2025-05-21T14:30:00Z" || entry.Due {
		t.Errorf("Expected the entry to be watered now, got %+v", entry)
	}

	w = doRequest(t, server, http.MethodGet, "/api/v0/watering/due", nil)
	expectStatus(t, w, http.StatusOK)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected nothing due, got %s", body)
	}

	tests := []struct {
		description string
		method      string
		path        string
		body        any
		code        int
	}{
		{"名前なし", http.MethodPost, "/api/v0/watering", map[string]any{"wateringIntervalDays": 3}, http.StatusBadRequest},
		{"カタログにない植物へのリンク", http.MethodPost, "/api/v0/watering", map[string]any{"name": "X", "linkedPlantId": "xyzzy", "wateringIntervalDays": 3}, http.StatusBadRequest},
		{"存在しないエントリの記録", http.MethodPost, "/api/v0/watering/missing/log", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			w := doRequest(t, server, tt.method, tt.path, tt.body)
			if w.Code != tt.code {
				t.Errorf("Expected status code %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}

	w = doRequest(t, server, http.MethodDelete, "/api/v0/watering/"+entry.ID, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = doRequest(t, server, http.MethodDelete, "/api/v0/watering/"+entry.ID, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestResetStateEndpoint(t *testing.T) {
	server, mem := newTestServer(t)

	w := doRequest(t, server, http.MethodPost, "/api/v0/added-plants", map[string]string{"slug": "basil"})
	expectStatus(t, w, http.StatusCreated)

	w = doRequest(t, server, http.MethodDelete, "/api/v0/state", nil)
	expectStatus(t, w, http.StatusNoContent)

	if _, err := mem.LoadSnapshot(context.Background()); err == nil {
		t.Error("Expected the snapshot to be deleted")
	}
	w = doRequest(t, server, http.MethodGet, "/api/v0/added-plants", nil)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected empty list after reset, got %s", body)
	}
}
