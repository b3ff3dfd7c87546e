package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

const opTimeout = 3 * time.Second

var _ domain.HabitRepository = (*KVHabitRepository)(nil)

// KVHabitRepository stores the whole collection as one JSON document under
// "@dominos_data" in the user's namespace.
type KVHabitRepository struct {
	store domain.KeyValueStore
}

func NewKVHabitRepository(store domain.KeyValueStore) *KVHabitRepository {
	return &KVHabitRepository{store: store}
}

func (r *KVHabitRepository) Load(ctx context.Context, userID string) ([]domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := storage.Scoped(r.store, userID).Get(ctx, domain.HabitsKey)
	if err != nil {
		return nil, fmt.Errorf("repository: load habits failed: %w", err)
	}
	if !found {
		return nil, domain.ErrNoHabitData
	}

	if err := checkHabitShape(raw); err != nil {
		return nil, err
	}

	var habits []domain.Habit
	if err := json.Unmarshal([]byte(raw), &habits); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedHabitData, err)
	}

	for i := range habits {
		habits[i].Normalize()
	}
	return habits, nil
}

// checkHabitShape rejects documents that are valid JSON but not a list of habit objects.
func checkHabitShape(raw string) error {
	if !gjson.Valid(raw) {
		return fmt.Errorf("%w: invalid json", domain.ErrMalformedHabitData)
	}

	doc := gjson.Parse(raw)
	if !doc.IsArray() {
		return fmt.Errorf("%w: expected an array, got %s", domain.ErrMalformedHabitData, doc.Type)
	}

	var shapeErr error
	doc.ForEach(func(idx, h gjson.Result) bool {
		switch {
		case !h.IsObject():
			shapeErr = fmt.Errorf("%w: element %d is not an object", domain.ErrMalformedHabitData, idx.Int())
		case h.Get("id").Type != gjson.String:
			shapeErr = fmt.Errorf("%w: element %d has no string id", domain.ErrMalformedHabitData, idx.Int())
		case h.Get("completionStatus").Exists() && !h.Get("completionStatus").IsObject():
			shapeErr = fmt.Errorf("%w: element %d completionStatus is not an object", domain.ErrMalformedHabitData, idx.Int())
		}
		return shapeErr == nil
	})
	return shapeErr
}

func (r *KVHabitRepository) Save(ctx context.Context, userID string, habits []domain.Habit) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if habits == nil {
		habits = []domain.Habit{}
	}

	data, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("repository: marshal habits failed: %w", err)
	}

	if err := storage.Scoped(r.store, userID).Set(ctx, domain.HabitsKey, string(data)); err != nil {
		return fmt.Errorf("repository: save habits failed: %w", err)
	}
	return nil
}

func (r *KVHabitRepository) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys := []string{domain.HabitsKey, domain.OnboardingKey}
	if err := storage.Scoped(r.store, userID).RemoveMany(ctx, keys); err != nil {
		return fmt.Errorf("repository: clear habits failed: %w", err)
	}
	return nil
}
