package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func TestParseMoodPeriod(t *testing.T) {
	p, err := domain.ParseMoodPeriod("evening")
	require.NoError(t, err)
	assert.Equal(t, domain.Evening, p)

	_, err = domain.ParseMoodPeriod("noon")
	assert.ErrorIs(t, err, domain.ErrInvalidMoodPeriod)
}

func TestValidateMood(t *testing.T) {
	for v := domain.MinMood; v <= domain.MaxMood; v++ {
		assert.NoError(t, domain.ValidateMood(v))
	}
	assert.ErrorIs(t, domain.ValidateMood(0), domain.ErrInvalidMood)
	assert.ErrorIs(t, domain.ValidateMood(6), domain.ErrInvalidMood)
}

func TestMoodTrend(t *testing.T) {
	days := []domain.MoodDay{
		{Date: "2026-10-12", Morning: intPtr(2), Evening: intPtr(4)},
		{Date: "2026-10-13", Morning: intPtr(3)},
		{Date: "2026-10-14"},
	}

	points := domain.MoodTrend(days)

	require.Len(t, points, 3)
	assert.Equal(t, 4, *points[0].Value, "evening wins")
	assert.Equal(t, 3, *points[1].Value, "morning fallback")
	assert.Nil(t, points[2].Value)

	assert.True(t, domain.HasMoodData(days))
	assert.False(t, domain.HasMoodData(days[2:]))
}

func TestKeyspace(t *testing.T) {
	assert.Equal(t, "journal_2026-10-18", domain.JournalKey("2026-10-18"))
	assert.Equal(t, "mood_2026-10-18_morning", domain.MoodKey("2026-10-18", domain.Morning))
	assert.Equal(t, "setting_soundEnabled", domain.SettingKey("soundEnabled"))
}

func TestSortJournal(t *testing.T) {
	entries := []domain.JournalEntry{
		{Date: "2026-10-01"}, {Date: "2026-10-18"}, {Date: "2025-12-31"},
	}
	domain.SortJournal(entries)
	assert.Equal(t, "2026-10-18", entries[0].Date)
	assert.Equal(t, "2025-12-31", entries[2].Date)
}
