package worker

import (
	"context"
	"fmt"
	"time"

	"persona-review/internal/diff"
	"persona-review/internal/document"
	"persona-review/internal/observability"
	"persona-review/internal/reviewer"
)

// Reviewer is the part of reviewer.Service the processor needs.
type Reviewer interface {
	Review(ctx context.Context, req reviewer.Request) (*reviewer.Result, error)
}

type Processor struct {
	queue    Queue
	store    JobStore
	reviewer Reviewer
	logger   *observability.Logger
	timeout  time.Duration
	backoff  time.Duration
}

func NewProcessor(
	q Queue,
	store JobStore,
	r Reviewer,
	l *observability.Logger,
) *Processor {

	return &Processor{
		queue:    q,
		store:    store,
		reviewer: r,
		logger:   l,
		timeout:  10 * time.Minute,
		backoff:  time.Second,
	}
}

func (p *Processor) Start(ctx context.Context) {

	go func() {
		for {
			job, err := p.queue.Pop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("pop job failed", "err", err, "retry_in", p.backoff)

				select {
				case <-ctx.Done():
					return
				case <-time.After(p.backoff):
				}
				continue
			}

			p.handle(ctx, job)
		}
	}()
}

func (p *Processor) handle(parent context.Context, j Job) {

	ctx, cancel := context.WithTimeout(
		parent,
		p.timeout,
	)
	defer cancel()

	p.put(ctx, JobState{Job: j, Status: StatusRunning})

	state, err := p.run(ctx, j)
	if err != nil {
		p.logger.Error("review job failed", "job", j.ID, "path", j.Path, "err", err)
		p.put(ctx, JobState{Job: j, Status: StatusFailed, Error: err.Error()})
		return
	}

	state.Job = j
	state.Status = StatusDone
	p.put(ctx, state)

	p.logger.Info("review job done",
		"job", j.ID,
		"path", j.Path,
		"insertions", state.Insertions,
		"applied", state.Applied,
	)
}

func (p *Processor) run(ctx context.Context, j Job) (JobState, error) {
	doc, err := document.Load(j.Path, j.Language)
	if err != nil {
		return JobState{}, err
	}

	res, err := p.reviewer.Review(ctx, reviewer.Request{
		Persona:   j.Persona,
		Document:  doc,
		Selection: j.Selection,
		Question:  j.Question,
	})
	if err != nil {
		return JobState{}, err
	}

	state := JobState{
		Insertions: len(res.Insertions),
		Fallback:   res.Fallback,
		Preview:    res.Preview,
	}
	if !j.Apply {
		return state, nil
	}

	lines, err := document.Apply(doc.Lines, res.Plan)
	if err != nil {
		return JobState{}, fmt.Errorf("apply plan: %w", err)
	}
	if err := doc.WithLines(lines).WriteFile(j.Path); err != nil {
		return JobState{}, err
	}

	added, _ := diff.Compute(j.Path, doc.Lines, lines).Stats()
	p.logger.Debug("applied review", "job", j.ID, "lines_added", added)
	state.Applied = true
	return state, nil
}

func (p *Processor) put(ctx context.Context, s JobState) {
	s.UpdatedAt = time.Now().UTC()
	if err := p.store.Put(ctx, s); err != nil {
		p.logger.Error("job store put failed", "job", s.Job.ID, "err", err)
	}
}
