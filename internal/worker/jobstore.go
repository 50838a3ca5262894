package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

type JobState struct {
	Job        Job       `json:"job"`
	Status     Status    `json:"status"`
	Insertions int       `json:"insertions"`
	Fallback   bool      `json:"fallback"`
	Applied    bool      `json:"applied"`
	Preview    string    `json:"preview,omitempty"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type JobStore interface {
	Put(ctx context.Context, s JobState) error
	Get(ctx context.Context, id string) (JobState, error)
}

type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]JobState
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]JobState)}
}

func (m *MemoryJobStore) Put(_ context.Context, s JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	m.jobs[s.Job.ID] = s
	return nil
}

func (m *MemoryJobStore) Get(_ context.Context, id string) (JobState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.jobs[id]
	if !ok {
		return JobState{}, ErrJobNotFound
	}
	return s, nil
}
