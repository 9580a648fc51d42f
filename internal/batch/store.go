package batch

import (
	"sort"
	"sync"
)

// StatusStore collects per-file results from concurrent workers.
type StatusStore struct {
	statuses map[string]Status
	mu       sync.RWMutex
}

func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: make(map[string]Status),
	}
}

func (s *StatusStore) Get(file string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, exists := s.statuses[file]
	return status, exists
}

func (s *StatusStore) Set(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.File] = status
}

func (s *StatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.statuses)
}

// All returns a snapshot of every status, sorted by file.
func (s *StatusStore) All() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Status, 0, len(s.statuses))
	for _, v := range s.statuses {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].File < result[j].File
	})
	return result
}
