package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/handlers"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, code string) (viewer.Result, error) {
	if code == "" {
		return viewer.Result{Status: "Select a station."}, viewer.ErrNoStation
	}
	return viewer.Result{State: viewer.StateStatus, Status: "No trains currently."}, nil
}

type stubHistory struct{}

func (stubHistory) RecentQueries(context.Context, string, int) ([]models.QueryRecord, error) {
	return []models.QueryRecord{}, nil
}

func (stubHistory) HourlyDelayStats(context.Context, string, int) ([]models.DelayHourlyStat, error) {
	return []models.DelayHourlyStat{}, nil
}

func testHandlers(withHistory bool) Handlers {
	cat := catalog.New([]models.Station{{StationShortCode: "HKI", StationName: "Helsinki", PassengerTraffic: true}})
	h := Handlers{
		Board: handlers.NewBoardHandler(handlers.BoardOptions{
			Catalog: cat,
			Fetcher: stubFetcher{},
			Labels:  config.DefaultLabels(),
		}),
		Stations: handlers.NewStationHandler(cat),
		Schedule: handlers.NewScheduleHandler(stubFetcher{}, 0),
		Health:   handlers.NewHealthHandler(nil, cat),
	}
	if withHistory {
		h.History = handlers.NewHistoryHandler(stubHistory{})
	}
	return h
}

func get(router http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	router := NewRouter(testHandlers(true), []string{"*"}, logger.Nop())

	tests := []struct {
		target string
		code   int
	}{
		{"/", http.StatusOK},
		{"/?station=HKI&fetch=1", http.StatusOK},
		{"/board/HKI", http.StatusOK},
		{"/api/stations", http.StatusOK},
		{"/api/stations/HKI/schedule", http.StatusOK},
		{"/api/queries", http.StatusOK},
		{"/api/delays/stats", http.StatusOK},
		{"/health", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/api/ping", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.code, get(router, tt.target, nil).Code)
		})
	}
}

func TestRouter_HistoryDisabled(t *testing.T) {
	router := NewRouter(testHandlers(false), []string{"*"}, logger.Nop())

	assert.Equal(t, http.StatusNotFound, get(router, "/api/queries", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/api/delays/stats", nil).Code)
}

func TestRouter_CORS(t *testing.T) {
	router := NewRouter(testHandlers(false), []string{"https://example.fi"}, logger.Nop())

	rec := get(router, "/api/stations", http.Header{"Origin": {"https://example.fi"}})
	assert.Equal(t, "https://example.fi", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(router, "/api/stations", http.Header{"Origin": {"https://other.example"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	router := NewRouter(testHandlers(false), []string{"*"}, logger.FromWriter(&buf))

	get(router, "/api/ping", nil)
	get(router, "/api/stations/%20/schedule", http.Header{"CF-Connecting-IP": {"203.0.113.7"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var ok, bad map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &bad))

	assert.Equal(t, "info", ok["level"])
	assert.Equal(t, "/api/ping", ok["path"])
	assert.EqualValues(t, 200, ok["status"])
	assert.NotEmpty(t, ok["request_id"])

	assert.Equal(t, "warn", bad["level"])
	assert.EqualValues(t, 400, bad["status"])
	assert.Equal(t, "203.0.113.7", bad["ip"])
}
