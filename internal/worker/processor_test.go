package worker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"persona-review/internal/ai"
	"persona-review/internal/mocks"
	"persona-review/internal/ratelimit"
	"persona-review/internal/reviewer"
	"persona-review/internal/worker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProcessorSuite struct {
	suite.Suite

	ai        *mocks.Provider
	queue     *worker.MemoryQueue
	store     *worker.MemoryJobStore
	adapter   *worker.Adapter
	processor *worker.Processor
	dir       string
}

func (s *ProcessorSuite) SetupTest() {

	s.ai = mocks.NewProvider(s.T())
	s.queue = worker.NewMemoryQueue(10)
	s.store = worker.NewMemoryJobStore()
	s.adapter = worker.NewAdapter(s.queue, s.store)
	s.dir = s.T().TempDir()

	svc := reviewer.NewService(reviewer.Options{
		Provider:       s.ai,
		Limiter:        ratelimit.New(100, 100),
		DefaultPersona: "a senior engineer",
	})

	s.processor = worker.NewProcessor(
		s.queue,
		s.store,
		svc,
		nil,
	)
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorSuite))
}

func (s *ProcessorSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ProcessorSuite) runJob(j worker.Job) worker.JobState {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := s.adapter.Enqueue(ctx, j)
	s.Require().NoError(err)
	s.Require().NotEmpty(id)

	state, err := s.adapter.Status(ctx, id)
	s.Require().NoError(err)
	s.Equal(worker.StatusQueued, state.Status)

	s.processor.Start(ctx)

	s.Require().Eventually(func() bool {
		st, _ := s.adapter.Status(ctx, id)
		return st.Status == worker.StatusDone || st.Status == worker.StatusFailed
	}, 2*time.Second, 5*time.Millisecond)

	state, err = s.adapter.Status(ctx, id)
	s.Require().NoError(err)
	return state
}

func (s *ProcessorSuite) TestApplyWritesCommentsAboveTargets() {
	path := s.writeFile("calc.py", "def add(a, b):\n    return a - b\n\nprint(add(1, 2))\n")

	s.ai.
		EXPECT().
		Review(mock.Anything, mock.Anything).
		Return(ai.ReviewResponse{Content: "Line 2: subtracts instead of adds\nLine 4: magic numbers"}, nil).
		Once()

	state := s.runJob(worker.Job{Persona: "a pirate", Path: path, Apply: true})

	s.Equal(worker.StatusDone, state.Status)
	s.Equal(2, state.Insertions)
	s.True(state.Applied)

	b, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal(
		"def add(a, b):\n# subtracts instead of adds\n    return a - b\n\n# magic numbers\nprint(add(1, 2))\n",
		string(b),
	)

	fi, err := os.Stat(path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), fi.Mode().Perm())
}

func (s *ProcessorSuite) TestPreviewOnlyLeavesFileAlone() {
	content := "const x = 1;\n"
	path := s.writeFile("x.ts", content)

	s.ai.
		EXPECT().
		Review(mock.Anything, mock.Anything).
		Return(ai.ReviewResponse{Content: "Line 1: prefer let? no, const is right"}, nil).
		Once()

	state := s.runJob(worker.Job{Path: path})

	s.Equal(worker.StatusDone, state.Status)
	s.False(state.Applied)
	s.Contains(state.Preview, "// prefer let? no, const is right")

	b, _ := os.ReadFile(path)
	s.Equal(content, string(b))
}

func (s *ProcessorSuite) TestBackendErrorMarksJobFailed() {
	path := s.writeFile("main.go", "package main\n")

	s.ai.
		EXPECT().
		Review(mock.Anything, mock.Anything).
		Return(ai.ReviewResponse{}, errors.New("persona offline")).
		Once()

	state := s.runJob(worker.Job{Path: path, Apply: true})

	s.Equal(worker.StatusFailed, state.Status)
	s.Contains(state.Error, "persona offline")
}

func (s *ProcessorSuite) TestMissingFileMarksJobFailed() {
	state := s.runJob(worker.Job{Path: filepath.Join(s.dir, "gone.go")})

	s.Equal(worker.StatusFailed, state.Status)
	s.Contains(state.Error, "gone.go")
}

func (s *ProcessorSuite) TestUnknownJobID() {
	_, err := s.adapter.Status(context.Background(), "nope")
	s.ErrorIs(err, worker.ErrJobNotFound)
}
