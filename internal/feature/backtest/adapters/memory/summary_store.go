// Package memory provides an in-process summary job store.
package memory

import (
	"context"
	"sync"

	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/usecase"
)

// DefaultCapacity bounds the number of jobs kept when none is given.
const DefaultCapacity = 1024

type summaryStore struct {
	mu       sync.Mutex
	jobs     map[string]entity.SummaryJob
	order    []string
	capacity int
}

var _ usecase.SummaryStore = (*summaryStore)(nil)

// NewSummaryStore keeps at most capacity jobs; the oldest job is evicted first.
func NewSummaryStore(capacity int) *summaryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &summaryStore{
		jobs:     make(map[string]entity.SummaryJob, capacity),
		capacity: capacity,
	}
}

// Save inserts a new job or overwrites an existing one.
func (s *summaryStore) Save(_ context.Context, job entity.SummaryJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.jobs, oldest)
		}
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *summaryStore) Get(_ context.Context, id string) (entity.SummaryJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	return job, ok, nil
}
