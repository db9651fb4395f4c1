package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dealdesk/server/internal/database"
	"dealdesk/server/internal/underwriting"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thomasStBody = `{
	"property": {
		"address": "1052 E Thomas St",
		"location": "Seattle, WA 98102",
		"asking_price": "$6,950,000",
		"advertised_cap_rate": "5.07%",
		"details": "29-unit apartment • 5.07% cap rate"
	}
}`

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.SeedListings(database.DemoCatalog()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(db, underwriting.DefaultAssumptions(), nil, nil, logger)
	handler.now = func() time.Time { return time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) }

	router := gin.New()
	SetupRoutes(router, handler, []string{"http://localhost:3000"})
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	w, body := doRequest(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestGetProperties(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantCount float64
	}{
		{"all", "/api/properties", http.StatusOK, 10},
		{"by location", "/api/properties?location=tacoma", http.StatusOK, 2},
		{"by price", "/api/properties?min_price=6000000&max_price=8000000", http.StatusOK, 3},
		{"natural language", "/api/properties?q=seattle+apartments+under+%246m", http.StatusOK, 2},
		{"explicit filter wins over query", "/api/properties?q=tacoma&location=bellevue", http.StatusOK, 1},
		{"radius", "/api/properties?lat=47.6205&lng=-122.3212&radius_km=1.5", http.StatusOK, 2},
		{"partial radius", "/api/properties?lat=47.6", http.StatusBadRequest, 0},
		{"bad number", "/api/properties?min_price=cheap", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRequest(t, router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantCount, body["count"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestGetProperty(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodGet, "/api/properties/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	listing := body["listing"].(map[string]interface{})
	assert.Equal(t, "$6,950,000", listing["asking_price"])
	assert.Equal(t, "Seattle, WA 98102", listing["location"])

	w, _ = doRequest(t, router, http.MethodGet, "/api/properties/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/api/properties/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnderwrite(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/underwriting", thomasStBody)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := uuid.Parse(body["id"].(string))
	assert.NoError(t, err)

	model := body["model"].(map[string]interface{})
	assert.Equal(t, float64(352365), model["net_operating_income"])
	assert.Equal(t, float64(417000), model["annual_debt_service"])
	assert.Equal(t, "reference", model["mode"])
	assert.Len(t, model["ten_year_projection"], 10)

	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "HOLD", analysis["recommendation"])
	assert.Equal(t, "rules", analysis["source"])
	assert.Contains(t, analysis["html"], "<h2>")
}

func TestUnderwriteByID(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/underwriting", `{"property_id": 4, "mode": "strict"}`)
	require.Equal(t, http.StatusOK, w.Code)
	model := body["model"].(map[string]interface{})
	assert.Equal(t, float64(4750000), model["purchase_price"])
	assert.Equal(t, float64(8), model["unit_count"])
	assert.Equal(t, "strict", model["mode"])
}

func TestUnderwriteErrors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"malformed json", `{"property":`, http.StatusBadRequest},
		{"no property", `{}`, http.StatusBadRequest},
		{"unknown id", `{"property_id": 999}`, http.StatusNotFound},
		{"unknown mode", `{"property_id": 1, "mode": "turbo"}`, http.StatusBadRequest},
		{
			"unparseable price",
			`{"property": {"address": "x", "asking_price": "TBD", "advertised_cap_rate": "5%", "details": ""}}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRequest(t, router, http.MethodPost, "/api/underwriting", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUnderwriteBatch(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/underwriting/batch", `{
		"properties": [
			{"address": "1052 E Thomas St", "asking_price": "$6,950,000", "advertised_cap_rate": "5.07%", "details": "29-unit apartment"},
			{"address": "Broken", "asking_price": "$1,000,000", "advertised_cap_rate": "n/a", "details": ""}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	first := results[0].(map[string]interface{})
	second := results[1].(map[string]interface{})
	assert.Equal(t, "1052 E Thomas St", first["address"])
	assert.NotNil(t, first["model"])
	assert.Nil(t, second["model"])
	assert.Contains(t, second["error"], "cap rate")
}

func TestBuildWorkbook(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/underwriting/workbook", thomasStBody)
	require.Equal(t, http.StatusOK, w.Code)

	workbook := body["workbook"].(map[string]interface{})
	acquisition := workbook["acquisition"].(map[string]interface{})
	assert.Equal(t, float64(173750), acquisition["closing_costs"])
	assert.Len(t, workbook["unit_mix"], 4)
}

func TestOfferingMemorandum(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/offering-memorandum", thomasStBody)
	require.Equal(t, http.StatusOK, w.Code)

	om := body["memorandum"].(map[string]interface{})
	highlights := om["financial_highlights"].(map[string]interface{})
	assert.Equal(t, float64(282), highlights["price_per_sf"])
	summary := om["financial_summary"].(map[string]interface{})
	assert.Equal(t, float64(447711), summary["pro_forma_income"])
	assert.Len(t, om["unit_mix"], 4)
	assert.Equal(t, "rules", om["narrative_source"])
	assert.Contains(t, om["executive_summary"], "Investment Opportunity - 1052 E Thomas St")

	w, body = doRequest(t, router, http.MethodPost, "/api/offering-memorandum", `{"property_id": 8}`)
	require.Equal(t, http.StatusOK, w.Code)
	overview := body["memorandum"].(map[string]interface{})["property_overview"].(map[string]interface{})
	assert.Equal(t, "Office Building", overview["property_type"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/offering-memorandum", `{"property_id": 999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftLOI(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodPost, "/api/loi", `{"property_id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	loi := body["loi"].(map[string]interface{})
	assert.Equal(t, float64(6602500), loi["offer_price"])
	assert.Equal(t, float64(66025), loi["earnest_money"])
	assert.Equal(t, "2026-04-16T00:00:00Z", loi["closing_date"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/loi", `{"property_id": 1, "terms": {"offer_price": -5}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAssumptions(t *testing.T) {
	router := setupRouter(t)

	w, body := doRequest(t, router, http.MethodGet, "/api/assumptions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reference", body["mode"])
	assert.Equal(t, 0.08, body["debt_service_constant"])
}
