package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("Success: defaults then update", func(t *testing.T) {
		app := setupApp(t)

		w := app.do(http.MethodGet, "/api/v1/settings", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"soundEnabled":true,"notificationsEnabled":false}`, w.Body.String())

		w = app.do(http.MethodPut, "/api/v1/settings/soundEnabled", `{"value":false}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"soundEnabled":false,"notificationsEnabled":false}`, w.Body.String())

		w = app.do(http.MethodGet, "/api/v1/settings", "")
		assert.JSONEq(t, `{"soundEnabled":false,"notificationsEnabled":false}`, w.Body.String())
	})

	t.Run("Fail: unknown setting is 404", func(t *testing.T) {
		app := setupApp(t)

		w := app.do(http.MethodPut, "/api/v1/settings/darkMode", `{"value":true}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: missing value is 400", func(t *testing.T) {
		app := setupApp(t)

		w := app.do(http.MethodPut, "/api/v1/settings/soundEnabled", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: save failure is 503", func(t *testing.T) {
		app := setupApp(t)
		app.store.failWrites.Store(true)

		w := app.do(http.MethodPut, "/api/v1/settings/notificationsEnabled", `{"value":true}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSetup(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodGet, "/api/v1/setup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"completed":false}`, w.Body.String())

	w = app.do(http.MethodPut, "/api/v1/setup", `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/v1/setup", "")
	assert.JSONEq(t, `{"completed":true}`, w.Body.String())

	w = app.do(http.MethodPut, "/api/v1/setup", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
