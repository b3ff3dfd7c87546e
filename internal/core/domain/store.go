package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoHabitData        = errors.New("no habit data stored")
	ErrMalformedHabitData = errors.New("stored habit data is malformed")
	ErrStorage            = errors.New("storage failure")
	ErrSaveFailed         = errors.New("failed to save data")
)

// KeyValueStore is the persistence boundary. Every call is atomic on its own;
// there are no cross-key transactions and no retries.
type KeyValueStore interface {
	// Get returns found=false, err=nil when the key does not exist.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	Set(ctx context.Context, key, value string) error

	// RemoveMany deletes every listed key; missing keys are not an error.
	RemoveMany(ctx context.Context, keys []string) error

	ListKeys(ctx context.Context) ([]string, error)
}

const (
	HabitsKey     = "@dominos_data"
	OnboardingKey = "@onboarding_completed"

	JournalKeyPrefix = "journal_"
	MoodKeyPrefix    = "mood_"
	SettingKeyPrefix = "setting_"
)

func JournalKey(date string) string {
	return JournalKeyPrefix + date
}

func MoodKey(date string, period MoodPeriod) string {
	return fmt.Sprintf("%s%s_%s", MoodKeyPrefix, date, period)
}

func SettingKey(name string) string {
	return SettingKeyPrefix + name
}
