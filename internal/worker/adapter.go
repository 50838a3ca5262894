package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Adapter is the enqueue side used by the HTTP API.
type Adapter struct {
	q     Queue
	store JobStore
}

func NewAdapter(q Queue, store JobStore) *Adapter {
	return &Adapter{q: q, store: store}
}

// Enqueue assigns the job an ID, records it as queued and pushes it.
func (a *Adapter) Enqueue(ctx context.Context, j Job) (string, error) {
	j.ID = uuid.NewString()

	if err := a.store.Put(ctx, JobState{Job: j, Status: StatusQueued}); err != nil {
		return "", fmt.Errorf("record job: %w", err)
	}
	if err := a.q.Push(ctx, j); err != nil {
		_ = a.store.Put(ctx, JobState{Job: j, Status: StatusFailed, Error: err.Error()})
		return "", fmt.Errorf("push job: %w", err)
	}
	return j.ID, nil
}

func (a *Adapter) Status(ctx context.Context, id string) (JobState, error) {
	return a.store.Get(ctx, id)
}
