package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetpulse/internal/analyzer"
	"assetpulse/internal/model"
	"assetpulse/internal/service"
	"assetpulse/pkg/store/mysql"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore backs both the ingest and read services in memory.
type fakeStore struct {
	records    map[string]*mysql.TelemetryRecord
	aggregates []*mysql.StatusAggregate
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*mysql.TelemetryRecord)}
}

func (f *fakeStore) GetByMAC(_ context.Context, macAddress string) (*mysql.TelemetryRecord, error) {
	return f.records[macAddress], nil
}

func (f *fakeStore) Upsert(_ context.Context, record *mysql.TelemetryRecord) error {
	f.records[record.MACAddress] = record
	return nil
}

func (f *fakeStore) ListStatusAggregates(_ context.Context) ([]*mysql.StatusAggregate, error) {
	return f.aggregates, nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	var total int64
	for _, a := range f.aggregates {
		total += int64(a.Count)
	}
	return total, nil
}

type fakeSummaryCache struct {
	summary *model.HealthSummary
}

func (f *fakeSummaryCache) GetSummary(_ context.Context) (*model.HealthSummary, error) {
	return f.summary, nil
}

func (f *fakeSummaryCache) SaveSummary(_ context.Context, summary *model.HealthSummary) error {
	f.summary = summary
	return nil
}

func newTestRouter(store *fakeStore) *gin.Engine {
	ingestService := service.NewIngestService(store, nil, analyzer.New(nil), nil, nil)
	telemetryService := service.NewTelemetryService(store, &fakeSummaryCache{})
	h := NewTelemetryHandler(ingestService, telemetryService)

	r := gin.New()
	v1 := r.Group("/v1")
	{
		v1.POST("/telemetry", h.Submit)
		v1.GET("/telemetry/:mac_address", h.Get)
		v1.GET("/telemetry/:mac_address/trends", h.Trends)
		v1.GET("/health-summary", h.Summary)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func submitPayload(mac string, cpu, ram, storage float64) map[string]interface{} {
	return map[string]interface{}{
		"mac_address":     mac,
		"cpu_percent":     cpu,
		"ram_percent":     ram,
		"storage_percent": storage,
	}
}

const handlerTestMAC = "AA:BB:CC:DD:EE:FF"

func TestSubmit_Success(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, 20, 30, 40))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(100), body["health_score"])
	assert.Equal(t, "excellent", body["health_status"])
	assert.Equal(t, float64(0), body["alerts"])
	assert.Equal(t, float64(0), body["anomalies"])
}

func TestSubmit_DegradedSampleRaisesAlerts(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, 96, 50, 97))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(55), body["health_score"])
	assert.Equal(t, "warning", body["health_status"])
	assert.Equal(t, float64(2), body["alerts"])
	assert.Equal(t, float64(2), body["anomalies"])
}

func TestSubmit_InvalidJSON(t *testing.T) {
	r := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/v1/telemetry", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request payload", decodeBody(t, w)["error"])
}

func TestSubmit_MissingFields(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", map[string]interface{}{
		"mac_address": handlerTestMAC,
		"cpu_percent": 50,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing required fields: ram_percent, storage_percent", decodeBody(t, w)["error"])
}

func TestSubmit_OutOfRangeFields(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", map[string]interface{}{
		"mac_address":     handlerTestMAC,
		"cpu_percent":     250,
		"ram_percent":     -40,
		"storage_percent": 40,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "out-of-range fields: cpu_percent must be between 0 and 100, ram_percent must be between 0 and 100", decodeBody(t, w)["error"])
	assert.Empty(t, store.records)
}

func TestGet_NotFound(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/v1/telemetry/00:00:00:00:00:00", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "telemetry data not found for this asset", decodeBody(t, w)["error"])
}

func TestGet_ReturnsRecord(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, 20, 30, 40))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, 25, 35, 45))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/telemetry/"+handlerTestMAC, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record model.AssetTelemetryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, handlerTestMAC, record.MACAddress)
	require.NotNil(t, record.Current)
	assert.Equal(t, 25.0, record.Current.CPUPercent)
	require.Len(t, record.Historical, 1)
	assert.Equal(t, 20.0, record.Historical[0].CPUPercent)
	require.NotNil(t, record.HealthAnalysis)
	assert.Equal(t, 100, record.HealthAnalysis.OverallHealthScore)
}

func TestGet_PaginatesHistoryNewestFirst(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)

	for i := 0; i < 11; i++ {
		w := doJSON(t, r, http.MethodPost, "/v1/telemetry",
			submitPayload(handlerTestMAC, float64(10+i), 30, 40))
		require.Equal(t, http.StatusOK, w.Code)
	}

	// 10 historical samples, page 1 covers the 3 newest
	w := doJSON(t, r, http.MethodGet, "/v1/telemetry/"+handlerTestMAC+"?page=1&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record model.AssetTelemetryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	require.Len(t, record.Historical, 3)
	assert.Equal(t, 17.0, record.Historical[0].CPUPercent)
	assert.Equal(t, 19.0, record.Historical[2].CPUPercent)
}

func TestTrends_NotFound(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/v1/telemetry/00:00:00:00:00:00/trends", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "telemetry data not found for this asset", decodeBody(t, w)["error"])
}

func TestTrends_InsufficientData(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, 20, 30, 40))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/telemetry/"+handlerTestMAC+"/trends", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Nil(t, body["trends"])
	assert.Equal(t, "insufficient data for trend analysis", body["message"])
}

func TestTrends_Averages(t *testing.T) {
	r := newTestRouter(newFakeStore())

	for _, cpu := range []float64{30, 40, 50} {
		w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(handlerTestMAC, cpu, 30, 40))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/v1/telemetry/"+handlerTestMAC+"/trends?hours=24", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, handlerTestMAC, body["mac_address"])
	trends, ok := body["trends"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(40), trends["avg_cpu_percent"])
	assert.Equal(t, float64(3), trends["data_points"])
	assert.Equal(t, float64(24), trends["time_range_hours"])
}

func TestSummary_EmptyFleet(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/v1/health-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary model.HealthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Zero(t, summary.TotalAssets)
	assert.Zero(t, summary.CriticalCount)
}

func TestSummary_Distribution(t *testing.T) {
	store := newFakeStore()
	store.aggregates = []*mysql.StatusAggregate{
		{HealthStatus: "excellent", Count: 6, AvgScore: 96.25},
		{HealthStatus: "warning", Count: 3, AvgScore: 61.0},
		{HealthStatus: "critical", Count: 1, AvgScore: 30.0},
	}
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/v1/health-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary model.HealthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 10, summary.TotalAssets)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 6, summary.StatusCounts[model.HealthStatusExcellent].Count)
	assert.Equal(t, 96.3, summary.StatusCounts[model.HealthStatusExcellent].AvgScore)
	assert.WithinDuration(t, time.Now(), summary.Timestamp, 5*time.Second)
}

func TestSubmit_ConcurrentAssets(t *testing.T) {
	r := newTestRouter(newFakeStore())

	for i := 0; i < 5; i++ {
		mac := fmt.Sprintf("AA:BB:CC:DD:EE:%02X", i)
		w := doJSON(t, r, http.MethodPost, "/v1/telemetry", submitPayload(mac, 20, 30, 40))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/v1/telemetry/AA:BB:CC:DD:EE:03", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
