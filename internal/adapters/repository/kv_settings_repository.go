package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

var _ domain.SettingsRepository = (*KVSettingsRepository)(nil)

// KVSettingsRepository keeps flags as the literal strings "true" and "false".
type KVSettingsRepository struct {
	store domain.KeyValueStore
}

func NewKVSettingsRepository(store domain.KeyValueStore) *KVSettingsRepository {
	return &KVSettingsRepository{store: store}
}

func (r *KVSettingsRepository) getFlag(ctx context.Context, userID, key string) (bool, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := storage.Scoped(r.store, userID).Get(ctx, key)
	if err != nil {
		return false, false, err
	}
	if !found {
		return false, false, nil
	}
	return raw == "true", true, nil
}

func (r *KVSettingsRepository) setFlag(ctx context.Context, userID, key string, value bool) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return storage.Scoped(r.store, userID).Set(ctx, key, strconv.FormatBool(value))
}

func (r *KVSettingsRepository) GetSetting(ctx context.Context, userID, name string) (bool, bool, error) {
	value, found, err := r.getFlag(ctx, userID, domain.SettingKey(name))
	if err != nil {
		return false, false, fmt.Errorf("repository: get setting %q failed: %w", name, err)
	}
	return value, found, nil
}

func (r *KVSettingsRepository) SaveSetting(ctx context.Context, userID, name string, value bool) error {
	if err := r.setFlag(ctx, userID, domain.SettingKey(name), value); err != nil {
		return fmt.Errorf("repository: save setting %q failed: %w", name, err)
	}
	return nil
}

func (r *KVSettingsRepository) SetupCompleted(ctx context.Context, userID string) (bool, error) {
	value, _, err := r.getFlag(ctx, userID, domain.OnboardingKey)
	if err != nil {
		return false, fmt.Errorf("repository: get onboarding flag failed: %w", err)
	}
	return value, nil
}

func (r *KVSettingsRepository) SetSetupCompleted(ctx context.Context, userID string, completed bool) error {
	if err := r.setFlag(ctx, userID, domain.OnboardingKey, completed); err != nil {
		return fmt.Errorf("repository: save onboarding flag failed: %w", err)
	}
	return nil
}
