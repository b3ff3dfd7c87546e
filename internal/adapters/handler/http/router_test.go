package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/dominos-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/metrics"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
	"github.com/comitanigiacomo/dominos-engine/internal/logger"
)

func newFullRouter(t *testing.T, checks map[string]adapterHTTP.HealthCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	log := logger.Discard()

	users := repository.NewKVUserRepository(store)
	habitRepo := repository.NewKVHabitRepository(store)
	diaryRepo := repository.NewKVDiaryRepository(store)
	settingsRepo := repository.NewKVSettingsRepository(store)

	calendar := services.NewCalendar(func() time.Time { return wednesday }, users, time.UTC)
	tokens := services.NewTokenService("router-test-secret-key", "dominos-test", time.Hour, users)
	habitSvc := services.NewHabitService(habitRepo, settingsRepo, calendar, nil, log)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(services.NewAuthService(users), tokens),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitSvc),
		StatsHandler:    adapterHTTP.NewStatsHandler(services.NewStatsService(habitSvc, calendar, domain.DefaultHabitCount)),
		DiaryHandler:    adapterHTTP.NewDiaryHandler(services.NewDiaryService(diaryRepo, calendar, log)),
		SettingsHandler: adapterHTTP.NewSettingsHandler(services.NewSettingsService(settingsRepo, log)),
		TokenService:    tokens,
		Metrics:         metrics.New(),
		HealthChecks:    checks,
		Log:             log,
		StartTime:       time.Now(),
	})
}

func send(router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	t.Run("All checks pass", func(t *testing.T) {
		router := newFullRouter(t, map[string]adapterHTTP.HealthCheck{"storage": ok})

		w := send(router, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"storage":"connected"`)
	})

	t.Run("A failing check degrades", func(t *testing.T) {
		router := newFullRouter(t, map[string]adapterHTTP.HealthCheck{"storage": ok, "redis": down})

		w := send(router, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.Contains(t, w.Body.String(), `"redis":"unreachable"`)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestRouter_CORSAndMetrics(t *testing.T) {
	router := newFullRouter(t, nil)

	w := send(router, http.MethodOptions, "/api/v1/habits", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	send(router, http.MethodGet, "/api/v1/habits", "", nil)

	w = send(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dominos_http_requests_total{method="GET",path="/api/v1/habits",status="401"} 1`)
}

func TestRouter_AuthenticatedFlow(t *testing.T) {
	router := newFullRouter(t, nil)

	w := send(router, http.MethodGet, "/api/v1/habits", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "flow@dominos.app", "password": "FlowPassword1!", "timezone": "Pacific/Auckland",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = send(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "FLOW@dominos.app", "password": "FlowPassword1!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// 10:00 UTC on Wednesday is already 23:00 in Auckland, still the 14th.
	w = send(router, http.MethodPut, "/api/v1/habits/1/completion", login.Token, map[string]bool{"value": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(router, http.MethodGet, "/api/v1/stats/daily", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var daily domain.DailyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &daily))
	assert.Equal(t, "2026-10-14", daily.Date)
	assert.Equal(t, 1, daily.Score)

	w = send(router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "flow@dominos.app", "password": "AnotherPassword1!",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
