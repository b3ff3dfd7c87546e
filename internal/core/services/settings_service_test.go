package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
)

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults when nothing stored", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSetting", ctx, userID, mock.Anything).Return(false, false, nil)

		settings := services.NewSettingsService(repo, discard).Get(ctx, userID)
		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("Stored values override defaults", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSetting", ctx, userID, domain.SettingSound).Return(false, true, nil)
		repo.On("GetSetting", ctx, userID, domain.SettingNotifications).Return(true, true, nil)

		settings := services.NewSettingsService(repo, discard).Get(ctx, userID)
		assert.Equal(t, domain.Settings{SoundEnabled: false, NotificationsEnabled: true}, settings)
	})

	t.Run("Read failure falls back per setting", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSetting", ctx, userID, domain.SettingSound).Return(false, false, errors.New("io"))
		repo.On("GetSetting", ctx, userID, domain.SettingNotifications).Return(true, true, nil)

		settings := services.NewSettingsService(repo, discard).Get(ctx, userID)
		assert.True(t, settings.SoundEnabled)
		assert.True(t, settings.NotificationsEnabled)
	})
}

func TestSettingsService_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("SaveSetting", ctx, userID, domain.SettingSound, false).Return(nil)
		repo.On("GetSetting", ctx, userID, domain.SettingSound).Return(false, true, nil)
		repo.On("GetSetting", ctx, userID, domain.SettingNotifications).Return(false, false, nil)

		settings, err := services.NewSettingsService(repo, discard).Set(ctx, userID, domain.SettingSound, false)
		require.NoError(t, err)
		assert.False(t, settings.SoundEnabled)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown setting", func(t *testing.T) {
		repo := new(MockSettingsRepo)

		_, err := services.NewSettingsService(repo, discard).Set(ctx, userID, "darkMode", true)
		assert.ErrorIs(t, err, domain.ErrUnknownSetting)
		repo.AssertNotCalled(t, "SaveSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Save failure propagates", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("SaveSetting", ctx, userID, domain.SettingNotifications, true).Return(errors.New("io"))

		_, err := services.NewSettingsService(repo, discard).Set(ctx, userID, domain.SettingNotifications, true)
		assert.ErrorIs(t, err, domain.ErrSaveFailed)
	})
}

func TestSettingsService_Setup(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSettingsRepo)
	repo.On("SetupCompleted", ctx, "ok").Return(true, nil)
	repo.On("SetupCompleted", ctx, "broken").Return(true, errors.New("io"))
	repo.On("SetSetupCompleted", ctx, "ok", true).Return(nil)
	repo.On("SetSetupCompleted", ctx, "broken", true).Return(errors.New("io"))
	svc := services.NewSettingsService(repo, discard)

	assert.True(t, svc.SetupCompleted(ctx, "ok"))
	assert.False(t, svc.SetupCompleted(ctx, "broken"))

	assert.NoError(t, svc.SetSetupCompleted(ctx, "ok", true))
	assert.ErrorIs(t, svc.SetSetupCompleted(ctx, "broken", true), domain.ErrSaveFailed)
}
