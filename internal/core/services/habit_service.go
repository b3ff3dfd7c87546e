package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

// StatsQueue is notified after every successful save. Implementations must not block.
type StatsQueue interface {
	Enqueue(userID string)
}

type HabitService struct {
	repo     domain.HabitRepository
	settings domain.SettingsRepository
	calendar *Calendar
	queue    StatsQueue
	log      logrus.FieldLogger
}

func NewHabitService(repo domain.HabitRepository, settings domain.SettingsRepository, calendar *Calendar, queue StatsQueue, log logrus.FieldLogger) *HabitService {
	return &HabitService{
		repo:     repo,
		settings: settings,
		calendar: calendar,
		queue:    queue,
		log:      log,
	}
}

// ToggleInput addresses one cell of the completion matrix either by WeekKey and Day
// or by Date. With neither set the toggle applies to today.
type ToggleInput struct {
	UserID  string
	HabitID string
	WeekKey string
	Day     domain.Day
	Date    string
	Value   bool
}

type EditActivityInput struct {
	UserID  string
	HabitID string
	Day     domain.Day
	Text    string
}

// List never fails: a missing, unreadable or malformed collection yields the defaults.
func (s *HabitService) List(ctx context.Context, userID string) []domain.Habit {
	habits, err := s.repo.Load(ctx, userID)
	if err == nil {
		return habits
	}

	entry := s.log.WithField("user_id", userID)
	switch {
	case errors.Is(err, domain.ErrNoHabitData):
		entry.Debug("No habit data yet, using defaults")
	case errors.Is(err, domain.ErrMalformedHabitData):
		entry.WithError(err).Warn("Stored habit data is malformed, using defaults")
	default:
		entry.WithError(err).Error("Failed to load habits, using defaults")
	}
	return domain.DefaultHabits()
}

// save returns the wrapped ErrSaveFailed so callers can surface a warning while
// still showing the state they asked for.
func (s *HabitService) save(ctx context.Context, userID string, habits []domain.Habit) error {
	if err := s.repo.Save(ctx, userID, habits); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to save habits")
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	if s.queue != nil {
		s.queue.Enqueue(userID)
	}
	return nil
}

// mutate is load, pure change, save. On a save failure the new state is returned
// together with the error.
func (s *HabitService) mutate(ctx context.Context, userID string, change func([]domain.Habit) ([]domain.Habit, error)) ([]domain.Habit, error) {
	next, err := change(s.List(ctx, userID))
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, next); err != nil {
		return next, err
	}
	return next, nil
}

func (s *HabitService) resolveCell(ctx context.Context, input ToggleInput) (string, domain.Day, error) {
	if input.WeekKey != "" {
		if _, err := domain.WeekStart(input.WeekKey, nil); err != nil {
			return "", "", err
		}
		day, err := domain.ParseDay(string(input.Day))
		if err != nil {
			return "", "", err
		}
		return input.WeekKey, day, nil
	}

	date, err := s.calendar.Date(ctx, input.UserID, input.Date)
	if err != nil {
		return "", "", err
	}
	return domain.WeekKey(date), domain.DayOfWeek(date), nil
}

func (s *HabitService) ToggleCompletion(ctx context.Context, input ToggleInput) ([]domain.Habit, error) {
	weekKey, day, err := s.resolveCell(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, input.UserID, func(habits []domain.Habit) ([]domain.Habit, error) {
		return domain.ToggleCompletion(habits, input.HabitID, weekKey, day, input.Value)
	})
}

// ResetWeek clears every flag of one week. An empty weekKey means the current week,
// computed when the call is made.
func (s *HabitService) ResetWeek(ctx context.Context, userID, weekKey string) ([]domain.Habit, error) {
	if weekKey == "" {
		weekKey = domain.WeekKey(s.calendar.Now(ctx, userID))
	} else if _, err := domain.WeekStart(weekKey, nil); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(habits []domain.Habit) ([]domain.Habit, error) {
		return domain.ResetWeek(habits, weekKey), nil
	})
}

// ResetAll restores the default collection and sends the user back through setup.
func (s *HabitService) ResetAll(ctx context.Context, userID string) ([]domain.Habit, error) {
	habits := domain.ResetAll()
	if err := s.save(ctx, userID, habits); err != nil {
		return habits, err
	}

	if err := s.settings.SetSetupCompleted(ctx, userID, false); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to reset onboarding flag")
		return habits, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return habits, nil
}

// ClearAll removes the stored collection and the onboarding flag. Journal, moods
// and settings are kept.
func (s *HabitService) ClearAll(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to clear habit data")
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	if s.queue != nil {
		s.queue.Enqueue(userID)
	}
	return nil
}

func (s *HabitService) EditActivity(ctx context.Context, input EditActivityInput) ([]domain.Habit, error) {
	day, err := domain.ParseDay(string(input.Day))
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, input.UserID, func(habits []domain.Habit) ([]domain.Habit, error) {
		return domain.EditActivity(habits, input.HabitID, day, input.Text)
	})
}

// Replace stores a whole collection sent by the client, e.g. after the setup form.
func (s *HabitService) Replace(ctx context.Context, userID string, habits []domain.Habit) ([]domain.Habit, error) {
	if err := domain.ValidateHabits(habits); err != nil {
		return nil, err
	}

	next := domain.CloneHabits(habits)
	for i := range next {
		next[i].Normalize()
	}

	if err := s.save(ctx, userID, next); err != nil {
		return next, err
	}
	return next, nil
}
