// Package memory is an in-memory ItemStore used by tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindvault/internal/domain"
)

// ItemStore keeps items in a slice guarded by an RWMutex. Insertion order
// is preserved, which keeps candidate ordering deterministic.
type ItemStore struct {
	mu    sync.RWMutex
	items []domain.Item
}

func NewItemStore() *ItemStore { return &ItemStore{} }

func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	s.items = append(s.items, *item)
	return nil
}

func (s *ItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Item
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ItemStore) Candidates(ctx context.Context, userID uuid.UUID) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Item
	for _, it := range s.items {
		if it.UserID == userID && len(it.Embedding) > 0 {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *ItemStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == itemID && it.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
