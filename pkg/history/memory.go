package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-memory slice. It is intended for
// tests and embedding scenarios where nothing should touch disk.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends one run.
func (s *MemoryStore) Insert(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune deletes runs older than cutoff, then trims down to maxRecords
// keeping the newest.
func (s *MemoryStore) Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := int64(len(s.runs))

	kept := s.runs[:0]
	for _, run := range s.runs {
		if !run.CreatedAt.Before(cutoff) {
			kept = append(kept, run)
		}
	}
	s.runs = kept

	if maxRecords > 0 && int64(len(s.runs)) > maxRecords {
		sort.SliceStable(s.runs, func(i, j int) bool {
			return s.runs[i].CreatedAt.After(s.runs[j].CreatedAt)
		})
		s.runs = s.runs[:maxRecords]
	}

	return before - int64(len(s.runs)), nil
}

// Close discards all runs.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = nil
	return nil
}

// Size returns the number of stored runs (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.runs)
}
