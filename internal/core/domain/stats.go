package domain

import (
	"fmt"
	"time"
)

// StreakScanDays bounds the backward streak walk, today included. Streaks longer
// than this are reported as this value.
const StreakScanDays = 365

type WeekSummary struct {
	WeekKey       string `json:"week_key"`
	CompletedDays int    `json:"completed_days"`
	MissedDays    int    `json:"missed_days"`
	PerfectDays   int    `json:"perfect_days"`
}

type LifetimeSummary struct {
	TotalDominos  int    `json:"total_dominos"`
	CurrentStreak int    `json:"current_streak"`
	PerfectDays   int    `json:"perfect_days"`
	BestWeek      string `json:"best_week"`
}

type DayScore struct {
	Date  string `json:"date"`
	Day   Day    `json:"day"`
	Score int    `json:"score"`
}

type DailyStats struct {
	Date    string `json:"date"`
	Day     Day    `json:"day"`
	WeekKey string `json:"week_key"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}

type WeeklyStats struct {
	WeekKey string `json:"week_key"`
	Score   int    `json:"score"`
	Max     int    `json:"max"`
}

type WeekView struct {
	WeekSummary
	Start string     `json:"start"`
	Score int        `json:"score"`
	Days  []DayScore `json:"days"`
}

type Dashboard struct {
	Today    DailyStats      `json:"today"`
	Week     WeekView        `json:"week"`
	Lifetime LifetimeSummary `json:"lifetime"`
}

// DailyScore counts the habits completed on date.
func DailyScore(habits []Habit, date time.Time) int {
	key := WeekKey(date)
	day := DayOfWeek(date)

	score := 0
	for i := range habits {
		if habits[i].Completed(key, day) {
			score++
		}
	}
	return score
}

// WeeklyScore sums the completions of every habit in the week containing date.
func WeeklyScore(habits []Habit, date time.Time) int {
	return weekScore(habits, WeekKey(date))
}

func weekScore(habits []Habit, weekKey string) int {
	score := 0
	for i := range habits {
		score += habits[i].CompletedInWeek(weekKey)
	}
	return score
}

// WeekStats classifies the seven days of the week starting at weekStart. A day is
// completed when at least one habit is done and perfect when all of them are.
func WeekStats(habits []Habit, weekStart time.Time) WeekSummary {
	start := StartOfWeek(weekStart)
	summary := WeekSummary{WeekKey: WeekKey(start)}

	for i := 0; i < len(Days); i++ {
		score := DailyScore(habits, AddDays(start, i))

		if score > 0 {
			summary.CompletedDays++
		} else {
			summary.MissedDays++
		}

		if len(habits) > 0 && score == len(habits) {
			summary.PerfectDays++
		}
	}
	return summary
}

func WeekDays(habits []Habit, weekStart time.Time) []DayScore {
	start := StartOfWeek(weekStart)
	days := make([]DayScore, 0, len(Days))
	for i := 0; i < len(Days); i++ {
		date := AddDays(start, i)
		days = append(days, DayScore{
			Date:  DateKey(date),
			Day:   DayOfWeek(date),
			Score: DailyScore(habits, date),
		})
	}
	return days
}

// LifetimeStats aggregates the whole record. fullCount is the number of completions
// that make a day perfect and scales the best-week denominator; values <= 0 fall
// back to DefaultHabitCount.
func LifetimeStats(habits []Habit, today time.Time, fullCount int) LifetimeSummary {
	if fullCount <= 0 {
		fullCount = DefaultHabitCount
	}

	summary := LifetimeSummary{}

	weekKeys := make(map[string]struct{})
	for i := range habits {
		for key := range habits[i].CompletionStatus {
			weekKeys[key] = struct{}{}
			summary.TotalDominos += habits[i].CompletedInWeek(key)
		}
	}

	bestWeek := 0
	for key := range weekKeys {
		start, err := WeekStart(key, today.Location())
		if err != nil {
			continue
		}

		for i := 0; i < len(Days); i++ {
			if DailyScore(habits, AddDays(start, i)) == fullCount {
				summary.PerfectDays++
			}
		}

		if score := weekScore(habits, key); score > bestWeek {
			bestWeek = score
		}
	}

	summary.BestWeek = fmt.Sprintf("%d/%d", bestWeek, fullCount*len(Days))
	summary.CurrentStreak = currentStreak(habits, today, fullCount)
	return summary
}

// currentStreak walks backward one calendar day at a time. An unfinished today
// neither counts nor breaks the streak; the first imperfect day before today ends it.
func currentStreak(habits []Habit, today time.Time, fullCount int) int {
	day := StartOfDay(today)
	streak := 0

	if DailyScore(habits, day) == fullCount {
		streak++
	}

	for i := 1; i < StreakScanDays; i++ {
		day = AddDays(day, -1)
		if DailyScore(habits, day) != fullCount {
			break
		}
		streak++
	}
	return streak
}
