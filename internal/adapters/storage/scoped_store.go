package storage

import (
	"context"
	"strings"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*ScopedStore)(nil)

// PrefixLister is implemented by stores that can filter keys server side.
type PrefixLister interface {
	ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// ScopedStore confines a store to one namespace, so every user sees the plain
// keyspace ("@dominos_data", "journal_<date>", ...) without seeing anyone else's.
type ScopedStore struct {
	next   domain.KeyValueStore
	prefix string
}

func Scoped(next domain.KeyValueStore, namespace string) *ScopedStore {
	return &ScopedStore{
		next:   next,
		prefix: "u/" + namespace + "/",
	}
}

func (s *ScopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.next.Get(ctx, s.prefix+key)
}

func (s *ScopedStore) Set(ctx context.Context, key, value string) error {
	return s.next.Set(ctx, s.prefix+key, value)
}

func (s *ScopedStore) RemoveMany(ctx context.Context, keys []string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.prefix + k
	}
	return s.next.RemoveMany(ctx, scoped)
}

func (s *ScopedStore) ListKeys(ctx context.Context) ([]string, error) {
	var all []string
	var err error
	if pl, ok := s.next.(PrefixLister); ok {
		all, err = pl.ListKeysWithPrefix(ctx, s.prefix)
	} else {
		all, err = s.next.ListKeys(ctx)
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0)
	for _, k := range all {
		if strings.HasPrefix(k, s.prefix) {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
	}
	return keys, nil
}
