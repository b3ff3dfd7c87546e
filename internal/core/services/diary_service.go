package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

// DiaryService manages the journal and mood side-series. They never feed the
// domino statistics.
type DiaryService struct {
	repo     domain.DiaryRepository
	calendar *Calendar
	log      logrus.FieldLogger
}

func NewDiaryService(repo domain.DiaryRepository, calendar *Calendar, log logrus.FieldLogger) *DiaryService {
	return &DiaryService{
		repo:     repo,
		calendar: calendar,
		log:      log,
	}
}

func (s *DiaryService) dateKey(ctx context.Context, userID, date string) (string, error) {
	day, err := s.calendar.Date(ctx, userID, date)
	if err != nil {
		return "", err
	}
	return domain.DateKey(day), nil
}

func (s *DiaryService) SaveJournal(ctx context.Context, userID, date, entry string) (domain.JournalEntry, error) {
	key, err := s.dateKey(ctx, userID, date)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if utf8.RuneCountInString(entry) > domain.MaxJournalLen {
		return domain.JournalEntry{}, domain.ErrJournalTooLong
	}

	if err := s.repo.SaveJournal(ctx, userID, key, entry); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to save journal")
		return domain.JournalEntry{}, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return domain.JournalEntry{Date: key, Entry: entry}, nil
}

// GetJournal returns an empty entry when nothing was written or the read failed.
func (s *DiaryService) GetJournal(ctx context.Context, userID, date string) (domain.JournalEntry, error) {
	key, err := s.dateKey(ctx, userID, date)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	text, _, err := s.repo.GetJournal(ctx, userID, key)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to read journal")
	}
	return domain.JournalEntry{Date: key, Entry: text}, nil
}

func (s *DiaryService) ListJournal(ctx context.Context, userID string) []domain.JournalEntry {
	entries, err := s.repo.ListJournal(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to list journal")
		return []domain.JournalEntry{}
	}
	return entries
}

func (s *DiaryService) SaveMood(ctx context.Context, userID, date string, period domain.MoodPeriod, value int) error {
	key, err := s.dateKey(ctx, userID, date)
	if err != nil {
		return err
	}
	if _, err := domain.ParseMoodPeriod(string(period)); err != nil {
		return err
	}
	if err := domain.ValidateMood(value); err != nil {
		return err
	}

	if err := s.repo.SaveMood(ctx, userID, key, period, value); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to save mood")
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return nil
}

func (s *DiaryService) moodDay(ctx context.Context, userID, key string) domain.MoodDay {
	day := domain.MoodDay{Date: key}

	for _, period := range []domain.MoodPeriod{domain.Morning, domain.Evening} {
		value, err := s.repo.GetMood(ctx, userID, key, period)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "date": key}).Warn("Failed to read mood")
			continue
		}
		if period == domain.Morning {
			day.Morning = value
		} else {
			day.Evening = value
		}
	}
	return day
}

func (s *DiaryService) GetMood(ctx context.Context, userID, date string) (domain.MoodDay, error) {
	key, err := s.dateKey(ctx, userID, date)
	if err != nil {
		return domain.MoodDay{}, err
	}
	return s.moodDay(ctx, userID, key), nil
}

// WeekMoods returns seven consecutive days beginning at start. An empty start means
// the Monday of the current week.
func (s *DiaryService) WeekMoods(ctx context.Context, userID, start string) ([]domain.MoodDay, error) {
	first, err := s.calendar.Date(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	if start == "" {
		first = domain.StartOfWeek(first)
	}

	days := make([]domain.MoodDay, 0, len(domain.Days))
	for i := 0; i < len(domain.Days); i++ {
		days = append(days, s.moodDay(ctx, userID, domain.DateKey(domain.AddDays(first, i))))
	}
	return days, nil
}

func (s *DiaryService) MoodTrend(ctx context.Context, userID, start string) ([]domain.MoodPoint, bool, error) {
	days, err := s.WeekMoods(ctx, userID, start)
	if err != nil {
		return nil, false, err
	}
	return domain.MoodTrend(days), domain.HasMoodData(days), nil
}
