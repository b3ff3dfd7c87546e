package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/comitanigiacomo/dominos-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user_email:"
)

var _ domain.UserRepository = (*KVUserRepository)(nil)

// KVUserRepository keeps user records outside every user namespace:
// "user:<id>" holds the JSON record and "user_email:<email>" the owning id.
type KVUserRepository struct {
	store domain.KeyValueStore

	// guards the email check-then-set inside one process
	mu sync.Mutex
}

func NewKVUserRepository(store domain.KeyValueStore) *KVUserRepository {
	return &KVUserRepository{store: store}
}

func (r *KVUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	emailKey := emailKeyPrefix + domain.NormalizeEmail(user.Email)

	_, taken, err := r.store.Get(ctx, emailKey)
	if err != nil {
		return fmt.Errorf("repository: create user failed: %w", err)
	}
	if taken {
		return domain.ErrEmailAlreadyExists
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("repository: marshal user failed: %w", err)
	}

	if err := r.store.Set(ctx, userKeyPrefix+user.ID, string(data)); err != nil {
		return fmt.Errorf("repository: create user failed: %w", err)
	}
	if err := r.store.Set(ctx, emailKey, user.ID); err != nil {
		_ = r.store.RemoveMany(ctx, []string{userKeyPrefix + user.ID})
		return fmt.Errorf("repository: create user failed: %w", err)
	}
	return nil
}

func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id, found, err := r.store.Get(ctx, emailKeyPrefix+domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("repository: get user by email failed: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *KVUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := r.store.Get(ctx, userKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("repository: get user by id failed: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("repository: decode user %s failed: %w", id, err)
	}
	return &user, nil
}

func (r *KVUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys, err := listWithPrefix(ctx, r.store, userKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("repository: list users failed: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, userKeyPrefix) {
			ids = append(ids, strings.TrimPrefix(k, userKeyPrefix))
		}
	}
	return ids, nil
}

func listWithPrefix(ctx context.Context, store domain.KeyValueStore, prefix string) ([]string, error) {
	if pl, ok := store.(storage.PrefixLister); ok {
		return pl.ListKeysWithPrefix(ctx, prefix)
	}
	return store.ListKeys(ctx)
}
