package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

type SettingsService struct {
	repo domain.SettingsRepository
	log  logrus.FieldLogger
}

func NewSettingsService(repo domain.SettingsRepository, log logrus.FieldLogger) *SettingsService {
	return &SettingsService{
		repo: repo,
		log:  log,
	}
}

// Get resolves every setting, using the default for values that are missing or
// could not be read.
func (s *SettingsService) Get(ctx context.Context, userID string) domain.Settings {
	settings := domain.DefaultSettings()

	for _, name := range domain.SettingNames {
		value, found, err := s.repo.GetSetting(ctx, userID, name)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "setting": name}).Warn("Failed to read setting, using default")
			continue
		}
		if found {
			settings.Apply(name, value)
		}
	}
	return settings
}

func (s *SettingsService) Set(ctx context.Context, userID, name string, value bool) (domain.Settings, error) {
	if err := domain.ValidateSettingName(name); err != nil {
		return domain.Settings{}, err
	}

	if err := s.repo.SaveSetting(ctx, userID, name, value); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "setting": name}).Error("Failed to save setting")
		return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return s.Get(ctx, userID), nil
}

// SetupCompleted reports false when the flag is missing or unreadable.
func (s *SettingsService) SetupCompleted(ctx context.Context, userID string) bool {
	done, err := s.repo.SetupCompleted(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to read onboarding flag")
		return false
	}
	return done
}

func (s *SettingsService) SetSetupCompleted(ctx context.Context, userID string, completed bool) error {
	if err := s.repo.SetSetupCompleted(ctx, userID, completed); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to save onboarding flag")
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return nil
}
