package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/dominos-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
	"github.com/comitanigiacomo/dominos-engine/internal/logger"
)

const testUser = "user-1"

// wednesday 2026-10-14 falls in week 2026-W42.
var wednesday = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

// flakyStore fails every write while failWrites is set.
type flakyStore struct {
	domain.KeyValueStore
	failWrites atomic.Bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.failWrites.Load() {
		return errDiskFull
	}
	return s.KeyValueStore.Set(ctx, key, value)
}

func (s *flakyStore) RemoveMany(ctx context.Context, keys []string) error {
	if s.failWrites.Load() {
		return errDiskFull
	}
	return s.KeyValueStore.RemoveMany(ctx, keys)
}

type testApp struct {
	router *gin.Engine
	store  *flakyStore
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &flakyStore{KeyValueStore: storage.NewMemoryStore()}
	log := logger.Discard()

	habitRepo := repository.NewKVHabitRepository(store)
	diaryRepo := repository.NewKVDiaryRepository(store)
	settingsRepo := repository.NewKVSettingsRepository(store)

	calendar := services.NewCalendar(func() time.Time { return wednesday }, nil, time.UTC)

	habitSvc := services.NewHabitService(habitRepo, settingsRepo, calendar, nil, log)
	statsSvc := services.NewStatsService(habitSvc, calendar, domain.DefaultHabitCount)
	diarySvc := services.NewDiaryService(diaryRepo, calendar, log)
	settingsSvc := services.NewSettingsService(settingsRepo, log)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	adapterHTTP.NewHabitHandler(habitSvc).RegisterRoutes(api)
	adapterHTTP.NewStatsHandler(statsSvc).RegisterRoutes(api)
	adapterHTTP.NewDiaryHandler(diarySvc).RegisterRoutes(api)
	adapterHTTP.NewSettingsHandler(settingsSvc).RegisterRoutes(api)

	return &testApp{router: r, store: store}
}

// do sends body (if any) as JSON on behalf of testUser.
func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", testUser)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func findHabit(t *testing.T, habits []domain.Habit, id string) *domain.Habit {
	t.Helper()
	for i := range habits {
		if habits[i].ID == id {
			return &habits[i]
		}
	}
	t.Fatalf("habit %q not found", id)
	return nil
}
