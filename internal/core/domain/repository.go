package domain

import (
	"context"
)

type HabitRepository interface {
	// Load returns the user's collection. It fails with ErrNoHabitData when nothing
	// was saved yet and ErrMalformedHabitData when the stored value cannot be decoded.
	Load(ctx context.Context, userID string) ([]Habit, error)

	// Save replaces the whole collection. Concurrent savers overwrite each other.
	Save(ctx context.Context, userID string, habits []Habit) error

	// Clear removes the collection and the onboarding flag.
	Clear(ctx context.Context, userID string) error
}

type DiaryRepository interface {
	GetJournal(ctx context.Context, userID, date string) (string, bool, error)

	SaveJournal(ctx context.Context, userID, date, entry string) error

	// ListJournal returns every journal entry of the user, newest first.
	ListJournal(ctx context.Context, userID string) ([]JournalEntry, error)

	GetMood(ctx context.Context, userID, date string, period MoodPeriod) (*int, error)

	SaveMood(ctx context.Context, userID, date string, period MoodPeriod, value int) error
}

type SettingsRepository interface {
	// GetSetting reports found=false when the setting was never written.
	GetSetting(ctx context.Context, userID, name string) (value bool, found bool, err error)

	SaveSetting(ctx context.Context, userID, name string, value bool) error

	SetupCompleted(ctx context.Context, userID string) (bool, error)

	SetSetupCompleted(ctx context.Context, userID string, completed bool) error
}
