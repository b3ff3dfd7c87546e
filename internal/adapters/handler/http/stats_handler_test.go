package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

func completeToday(t *testing.T, app *testApp, ids ...string) {
	t.Helper()
	for _, id := range ids {
		w := app.do(http.MethodPut, fmt.Sprintf("/api/v1/habits/%s/completion", id), `{"value":true}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestDailyStats(t *testing.T) {
	app := setupApp(t)
	completeToday(t, app, "1", "2", "3")

	w := app.do(http.MethodGet, "/api/v1/stats/daily", "")
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[domain.DailyStats](t, w)
	assert.Equal(t, "2026-10-14", stats.Date)
	assert.Equal(t, domain.Wednesday, stats.Day)
	assert.Equal(t, "2026-W42", stats.WeekKey)
	assert.Equal(t, 3, stats.Score)
	assert.Equal(t, domain.DefaultHabitCount, stats.Total)

	w = app.do(http.MethodGet, "/api/v1/stats/daily?date=2026-10-13", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[domain.DailyStats](t, w).Score)

	w = app.do(http.MethodGet, "/api/v1/stats/daily?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeeklyStats(t *testing.T) {
	app := setupApp(t)
	completeToday(t, app, "1", "5")

	w := app.do(http.MethodGet, "/api/v1/stats/weekly?date=2026-10-18", "")
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[domain.WeeklyStats](t, w)
	assert.Equal(t, "2026-W42", stats.WeekKey)
	assert.Equal(t, 2, stats.Score)
	assert.Equal(t, 56, stats.Max)

	w = app.do(http.MethodGet, "/api/v1/stats/weekly?date=2026-10-19", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[domain.WeeklyStats](t, w).Score, "next week starts empty")
}

func TestWeekView(t *testing.T) {
	app := setupApp(t)
	completeToday(t, app, "4")

	for _, start := range []string{"2026-W42", "2026-10-16", ""} {
		w := app.do(http.MethodGet, "/api/v1/stats/week?start="+start, "")
		require.Equal(t, http.StatusOK, w.Code, start)

		view := decode[domain.WeekView](t, w)
		assert.Equal(t, "2026-10-12", view.Start, start)
		assert.Equal(t, 1, view.Score)
		require.Len(t, view.Days, 7)
		assert.Equal(t, 1, view.Days[2].Score)
		assert.Equal(t, domain.Sunday, view.Days[6].Day)
	}

	w := app.do(http.MethodGet, "/api/v1/stats/week?start=2026-W99", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLifetimeAndDashboard(t *testing.T) {
	app := setupApp(t)
	completeToday(t, app, "1", "2", "3", "4", "5", "6", "7", "8")

	w := app.do(http.MethodGet, "/api/v1/stats/lifetime", "")
	require.Equal(t, http.StatusOK, w.Code)

	lifetime := decode[domain.LifetimeSummary](t, w)
	assert.Equal(t, 8, lifetime.TotalDominos)
	assert.Equal(t, 1, lifetime.CurrentStreak)
	assert.Equal(t, 1, lifetime.PerfectDays)
	assert.Equal(t, "8/56", lifetime.BestWeek)

	w = app.do(http.MethodGet, "/api/v1/stats/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode[domain.Dashboard](t, w)
	assert.Equal(t, 8, dash.Today.Score)
	assert.Equal(t, 8, dash.Week.Score)
	assert.Equal(t, lifetime, dash.Lifetime)
}

func TestLifetime_EmptyUser(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodGet, "/api/v1/stats/lifetime", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_dominos":0,"current_streak":0,"perfect_days":0,"best_week":"0/56"}`, w.Body.String())
}
