package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidMood       = errors.New("invalid mood (must be 1-5)")
	ErrInvalidMoodPeriod = errors.New("invalid mood period (must be morning or evening)")
	ErrJournalTooLong    = errors.New("journal entry is too long (max 10000 chars)")
)

type MoodPeriod string

const (
	Morning MoodPeriod = "morning"
	Evening MoodPeriod = "evening"

	MinMood       = 1
	MaxMood       = 5
	MaxJournalLen = 10000
)

func ParseMoodPeriod(s string) (MoodPeriod, error) {
	switch p := MoodPeriod(s); p {
	case Morning, Evening:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMoodPeriod, s)
}

func ValidateMood(value int) error {
	if value < MinMood || value > MaxMood {
		return ErrInvalidMood
	}
	return nil
}

// MoodDay holds both check-ins of a date; nil means no check-in.
type MoodDay struct {
	Date    string `json:"date"`
	Morning *int   `json:"morning"`
	Evening *int   `json:"evening"`
}

type MoodPoint struct {
	Date  string `json:"date"`
	Value *int   `json:"value"`
}

// MoodTrend picks one value per day for the trend line: evening first, then morning.
func MoodTrend(days []MoodDay) []MoodPoint {
	points := make([]MoodPoint, 0, len(days))
	for _, d := range days {
		p := MoodPoint{Date: d.Date}
		switch {
		case d.Evening != nil:
			v := *d.Evening
			p.Value = &v
		case d.Morning != nil:
			v := *d.Morning
			p.Value = &v
		}
		points = append(points, p)
	}
	return points
}

func HasMoodData(days []MoodDay) bool {
	for _, d := range days {
		if d.Morning != nil || d.Evening != nil {
			return true
		}
	}
	return false
}

type JournalEntry struct {
	Date  string `json:"date"`
	Entry string `json:"entry"`
}

// SortJournal orders entries newest first.
func SortJournal(entries []JournalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
