package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrHabitTitleEmpty   = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong = errors.New("habit title is too long (max 100 chars)")
	ErrHabitIDEmpty      = errors.New("habit id cannot be empty")
	ErrHabitIDDuplicate  = errors.New("duplicate habit id")
	ErrActivityTooLong   = errors.New("activity is too long (max 500 chars)")
)

const (
	DefaultHabitCount = 8
	MaxTitleLen       = 100
	MaxActivityLen    = 500
)

var defaultTitles = [DefaultHabitCount]string{
	"Body", "Health", "Happiness", "Love", "Work", "Wealth", "Spirituality", "Soul",
}

// WeekCompletion holds the done flags of one habit for one week, keyed by day label.
type WeekCompletion map[Day]bool

// Habit is one domino. CompletionStatus is sparse: a week key appears only once a day
// in that week has been toggled, and a missing week or day reads as not completed.
type Habit struct {
	ID               string                    `json:"id"`
	Title            string                    `json:"title"`
	Activities       map[Day]string            `json:"activities"`
	CompletionStatus map[string]WeekCompletion `json:"completionStatus"`
}

func emptyActivities() map[Day]string {
	activities := make(map[Day]string, len(Days))
	for _, d := range Days {
		activities[d] = ""
	}
	return activities
}

func emptyWeek() WeekCompletion {
	week := make(WeekCompletion, len(Days))
	for _, d := range Days {
		week[d] = false
	}
	return week
}

func NewHabit(id, title string) (*Habit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrHabitIDEmpty
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrHabitTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return nil, ErrHabitTitleTooLong
	}

	return &Habit{
		ID:               id,
		Title:            title,
		Activities:       emptyActivities(),
		CompletionStatus: make(map[string]WeekCompletion),
	}, nil
}

// DefaultHabits is the canonical collection: eight habits with ids "1".."8".
func DefaultHabits() []Habit {
	habits := make([]Habit, 0, DefaultHabitCount)
	for i, title := range defaultTitles {
		habits = append(habits, Habit{
			ID:               fmt.Sprintf("%d", i+1),
			Title:            title,
			Activities:       emptyActivities(),
			CompletionStatus: make(map[string]WeekCompletion),
		})
	}
	return habits
}

// Completed is the lookup-with-default for the sparse matrix.
func (h *Habit) Completed(weekKey string, day Day) bool {
	week, ok := h.CompletionStatus[weekKey]
	if !ok {
		return false
	}
	return week[day]
}

func (h *Habit) Activity(day Day) string {
	return h.Activities[day]
}

// CompletedInWeek counts the true flags of a week. Unknown day labels are ignored.
func (h *Habit) CompletedInWeek(weekKey string) int {
	week, ok := h.CompletionStatus[weekKey]
	if !ok {
		return 0
	}
	n := 0
	for day, done := range week {
		if done && day.Valid() {
			n++
		}
	}
	return n
}

func (h Habit) Clone() Habit {
	clone := Habit{
		ID:               h.ID,
		Title:            h.Title,
		Activities:       make(map[Day]string, len(h.Activities)),
		CompletionStatus: make(map[string]WeekCompletion, len(h.CompletionStatus)),
	}
	for day, text := range h.Activities {
		clone.Activities[day] = text
	}
	for key, week := range h.CompletionStatus {
		w := make(WeekCompletion, len(week))
		for day, done := range week {
			w[day] = done
		}
		clone.CompletionStatus[key] = w
	}
	return clone
}

func CloneHabits(habits []Habit) []Habit {
	if habits == nil {
		return nil
	}
	out := make([]Habit, len(habits))
	for i := range habits {
		out[i] = habits[i].Clone()
	}
	return out
}

// Normalize restores the shape invariants after decoding: all seven activity keys
// exist and neither map is nil.
func (h *Habit) Normalize() {
	if h.Activities == nil {
		h.Activities = make(map[Day]string, len(Days))
	}
	for _, d := range Days {
		if _, ok := h.Activities[d]; !ok {
			h.Activities[d] = ""
		}
	}
	if h.CompletionStatus == nil {
		h.CompletionStatus = make(map[string]WeekCompletion)
	}
}

func ValidateHabits(habits []Habit) error {
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		id := strings.TrimSpace(h.ID)
		if id == "" {
			return ErrHabitIDEmpty
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrHabitIDDuplicate, id)
		}
		seen[id] = true

		title := strings.TrimSpace(h.Title)
		if title == "" {
			return ErrHabitTitleEmpty
		}
		if len(title) > MaxTitleLen {
			return ErrHabitTitleTooLong
		}

		for day, text := range h.Activities {
			if !day.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidDay, day)
			}
			if len(text) > MaxActivityLen {
				return ErrActivityTooLong
			}
		}
		for _, week := range h.CompletionStatus {
			for day := range week {
				if !day.Valid() {
					return fmt.Errorf("%w: %q", ErrInvalidDay, day)
				}
			}
		}
	}
	return nil
}

func indexOf(habits []Habit, habitID string) int {
	for i := range habits {
		if habits[i].ID == habitID {
			return i
		}
	}
	return -1
}

// ToggleCompletion returns a copy of habits with exactly one flag set to value.
// A week missing from the habit is created with all seven days false first.
// Past and future dates are both accepted.
func ToggleCompletion(habits []Habit, habitID, weekKey string, day Day, value bool) ([]Habit, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	idx := indexOf(habits, habitID)
	if idx < 0 {
		return nil, ErrHabitNotFound
	}

	out := CloneHabits(habits)
	h := &out[idx]
	if h.CompletionStatus == nil {
		h.CompletionStatus = make(map[string]WeekCompletion)
	}
	week, ok := h.CompletionStatus[weekKey]
	if !ok {
		week = emptyWeek()
		h.CompletionStatus[weekKey] = week
	}
	week[day] = value
	return out, nil
}

// ResetWeek clears weekKey to all-false for every habit. Activities and other
// weeks are untouched, so applying it twice equals applying it once.
func ResetWeek(habits []Habit, weekKey string) []Habit {
	out := CloneHabits(habits)
	for i := range out {
		if out[i].CompletionStatus == nil {
			out[i].CompletionStatus = make(map[string]WeekCompletion)
		}
		out[i].CompletionStatus[weekKey] = emptyWeek()
	}
	return out
}

func ResetAll() []Habit {
	return DefaultHabits()
}

func EditActivity(habits []Habit, habitID string, day Day, text string) ([]Habit, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if len(text) > MaxActivityLen {
		return nil, ErrActivityTooLong
	}
	idx := indexOf(habits, habitID)
	if idx < 0 {
		return nil, ErrHabitNotFound
	}

	out := CloneHabits(habits)
	if out[idx].Activities == nil {
		out[idx].Normalize()
	}
	out[idx].Activities[day] = text
	return out, nil
}
