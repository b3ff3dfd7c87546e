package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

// HabitLister yields the user's collection, falling back to defaults on failure.
type HabitLister interface {
	List(ctx context.Context, userID string) []domain.Habit
}

type StatsService struct {
	habits    HabitLister
	calendar  *Calendar
	fullCount int
}

// NewStatsService takes the number of completions that make a perfect day;
// values <= 0 mean domain.DefaultHabitCount.
func NewStatsService(habits HabitLister, calendar *Calendar, fullCount int) *StatsService {
	if fullCount <= 0 {
		fullCount = domain.DefaultHabitCount
	}
	return &StatsService{
		habits:    habits,
		calendar:  calendar,
		fullCount: fullCount,
	}
}

func (s *StatsService) FullCount() int {
	return s.fullCount
}

func daily(habits []domain.Habit, date time.Time) domain.DailyStats {
	return domain.DailyStats{
		Date:    domain.DateKey(date),
		Day:     domain.DayOfWeek(date),
		WeekKey: domain.WeekKey(date),
		Score:   domain.DailyScore(habits, date),
		Total:   len(habits),
	}
}

func weekView(habits []domain.Habit, start time.Time) domain.WeekView {
	start = domain.StartOfWeek(start)
	return domain.WeekView{
		WeekSummary: domain.WeekStats(habits, start),
		Start:       domain.DateKey(start),
		Score:       domain.WeeklyScore(habits, start),
		Days:        domain.WeekDays(habits, start),
	}
}

// Daily scores one date; an empty date means today in the user's timezone.
func (s *StatsService) Daily(ctx context.Context, userID, date string) (domain.DailyStats, error) {
	day, err := s.calendar.Date(ctx, userID, date)
	if err != nil {
		return domain.DailyStats{}, err
	}
	return daily(s.habits.List(ctx, userID), day), nil
}

func (s *StatsService) Weekly(ctx context.Context, userID, date string) (domain.WeeklyStats, error) {
	day, err := s.calendar.Date(ctx, userID, date)
	if err != nil {
		return domain.WeeklyStats{}, err
	}

	habits := s.habits.List(ctx, userID)
	return domain.WeeklyStats{
		WeekKey: domain.WeekKey(day),
		Score:   domain.WeeklyScore(habits, day),
		Max:     len(habits) * len(domain.Days),
	}, nil
}

// Week accepts either a date inside the week or a week key; empty means this week.
func (s *StatsService) Week(ctx context.Context, userID, start string) (domain.WeekView, error) {
	var (
		day time.Time
		err error
	)
	if _, _, keyErr := domain.ParseWeekKey(start); keyErr == nil {
		day, err = domain.WeekStart(start, s.calendar.Location(ctx, userID))
	} else {
		day, err = s.calendar.Date(ctx, userID, start)
	}
	if err != nil {
		return domain.WeekView{}, err
	}
	return weekView(s.habits.List(ctx, userID), day), nil
}

func (s *StatsService) Lifetime(ctx context.Context, userID string) domain.LifetimeSummary {
	today := s.calendar.Now(ctx, userID)
	return domain.LifetimeStats(s.habits.List(ctx, userID), today, s.fullCount)
}

// Dashboard computes every view from one snapshot and one reading of the clock.
func (s *StatsService) Dashboard(ctx context.Context, userID string) domain.Dashboard {
	now := s.calendar.Now(ctx, userID)
	habits := s.habits.List(ctx, userID)

	return domain.Dashboard{
		Today:    daily(habits, now),
		Week:     weekView(habits, now),
		Lifetime: domain.LifetimeStats(habits, now, s.fullCount),
	}
}
