package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
	"github.com/comitanigiacomo/dominos-engine/internal/core/services"
	"github.com/comitanigiacomo/dominos-engine/internal/logger"
)

// FakeHabitRepo keeps collections in memory; simulateLoadError and
// simulateSaveError make the corresponding calls fail.
type FakeHabitRepo struct {
	store             map[string][]domain.Habit
	simulateLoadError error
	simulateSaveError error
	saves             int
}

func NewFakeHabitRepo() *FakeHabitRepo {
	return &FakeHabitRepo{store: make(map[string][]domain.Habit)}
}

func (f *FakeHabitRepo) Load(ctx context.Context, userID string) ([]domain.Habit, error) {
	if f.simulateLoadError != nil {
		return nil, f.simulateLoadError
	}
	habits, ok := f.store[userID]
	if !ok {
		return nil, domain.ErrNoHabitData
	}
	return domain.CloneHabits(habits), nil
}

func (f *FakeHabitRepo) Save(ctx context.Context, userID string, habits []domain.Habit) error {
	if f.simulateSaveError != nil {
		return f.simulateSaveError
	}
	f.saves++
	f.store[userID] = domain.CloneHabits(habits)
	return nil
}

func (f *FakeHabitRepo) Clear(ctx context.Context, userID string) error {
	if f.simulateSaveError != nil {
		return f.simulateSaveError
	}
	delete(f.store, userID)
	return nil
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) GetSetting(ctx context.Context, userID, name string) (bool, bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockSettingsRepo) SaveSetting(ctx context.Context, userID, name string, value bool) error {
	return m.Called(ctx, userID, name, value).Error(0)
}

func (m *MockSettingsRepo) SetupCompleted(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsRepo) SetSetupCompleted(ctx context.Context, userID string, completed bool) error {
	return m.Called(ctx, userID, completed).Error(0)
}

type MockDiaryRepo struct {
	mock.Mock
}

func (m *MockDiaryRepo) GetJournal(ctx context.Context, userID, date string) (string, bool, error) {
	args := m.Called(ctx, userID, date)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockDiaryRepo) SaveJournal(ctx context.Context, userID, date, entry string) error {
	return m.Called(ctx, userID, date, entry).Error(0)
}

func (m *MockDiaryRepo) ListJournal(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockDiaryRepo) GetMood(ctx context.Context, userID, date string, period domain.MoodPeriod) (*int, error) {
	args := m.Called(ctx, userID, date, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockDiaryRepo) SaveMood(ctx context.Context, userID, date string, period domain.MoodPeriod, value int) error {
	return m.Called(ctx, userID, date, period, value).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// recordingQueue collects enqueued user ids.
type recordingQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *recordingQueue) Enqueue(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, userID)
}

func (q *recordingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// mutableClock lets a test move "now" between calls.
type mutableClock struct {
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	return c.now
}

// Wednesday 2026-10-14, ISO week 2026-W42.
var wednesday = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func fixedCalendar(now time.Time) *services.Calendar {
	return services.NewCalendar(func() time.Time { return now }, nil, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

var discard = logger.Discard()
