// Package memstore is an in-memory store.Store implementation for tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/brandsift/pkg/brandsift/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]store.TokenStat
	runs   []store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{tokens: make(map[string]store.TokenStat)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertTokenStat inserts or replaces a token's statistics.
func (s *Store) UpsertTokenStat(ctx context.Context, st store.TokenStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[st.Token] = st
	return nil
}

// GetTokenStat returns a token's statistics.
func (s *Store) GetTokenStat(ctx context.Context, token string) (store.TokenStat, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.tokens[token]
	return st, ok, nil
}

// AllTokenStats returns every token's statistics, sorted by token.
func (s *Store) AllTokenStats(ctx context.Context) ([]store.TokenStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.TokenStat, 0, len(s.tokens))
	for _, st := range s.tokens {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

// RecordRun appends a run record.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
