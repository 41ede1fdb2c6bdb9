package store

import (
	"context"
	"sync"

	"github.com/squad-ai/squadctl/internal/chat"
)

// MemStore is an in-memory MessageStore for tests and ephemeral sessions.
type MemStore struct {
	mu    sync.Mutex
	turns map[string][]chat.Turn
}

func NewMemStore() *MemStore {
	return &MemStore{turns: make(map[string][]chat.Turn)}
}

func (s *MemStore) Append(_ context.Context, conversationID string, turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[conversationID] = append(s.turns[conversationID], turn)
	return nil
}

func (s *MemStore) LoadRecent(_ context.Context, conversationID string, limit int) ([]chat.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.turns[conversationID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]chat.Turn, len(all))
	copy(out, all)
	return out, nil
}

func (s *MemStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, conversationID)
	return nil
}

func (s *MemStore) Close() error { return nil }
