package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

var _ domain.DiaryRepository = (*KVDiaryRepository)(nil)

type KVDiaryRepository struct {
	store domain.KeyValueStore
}

func NewKVDiaryRepository(store domain.KeyValueStore) *KVDiaryRepository {
	return &KVDiaryRepository{store: store}
}

func (r *KVDiaryRepository) GetJournal(ctx context.Context, userID, date string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	entry, found, err := storage.Scoped(r.store, userID).Get(ctx, domain.JournalKey(date))
	if err != nil {
		return "", false, fmt.Errorf("repository: get journal failed: %w", err)
	}
	return entry, found, nil
}

func (r *KVDiaryRepository) SaveJournal(ctx context.Context, userID, date, entry string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := storage.Scoped(r.store, userID).Set(ctx, domain.JournalKey(date), entry); err != nil {
		return fmt.Errorf("repository: save journal failed: %w", err)
	}
	return nil
}

func (r *KVDiaryRepository) ListJournal(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	store := storage.Scoped(r.store, userID)

	keys, err := store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: list journal keys failed: %w", err)
	}

	entries := make([]domain.JournalEntry, 0)
	for _, key := range keys {
		if !strings.HasPrefix(key, domain.JournalKeyPrefix) {
			continue
		}

		text, found, err := store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("repository: get journal %q failed: %w", key, err)
		}
		// removed between list and get
		if !found {
			continue
		}

		entries = append(entries, domain.JournalEntry{
			Date:  strings.TrimPrefix(key, domain.JournalKeyPrefix),
			Entry: text,
		})
	}

	domain.SortJournal(entries)
	return entries, nil
}

// GetMood returns nil when no value was recorded or the stored value is not a valid mood.
func (r *KVDiaryRepository) GetMood(ctx context.Context, userID, date string, period domain.MoodPeriod) (*int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := storage.Scoped(r.store, userID).Get(ctx, domain.MoodKey(date, period))
	if err != nil {
		return nil, fmt.Errorf("repository: get mood failed: %w", err)
	}
	if !found {
		return nil, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || domain.ValidateMood(value) != nil {
		return nil, nil
	}
	return &value, nil
}

func (r *KVDiaryRepository) SaveMood(ctx context.Context, userID, date string, period domain.MoodPeriod, value int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := storage.Scoped(r.store, userID).Set(ctx, domain.MoodKey(date, period), strconv.Itoa(value)); err != nil {
		return fmt.Errorf("repository: save mood failed: %w", err)
	}
	return nil
}
