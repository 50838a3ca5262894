package worker_test

import (
	"context"
	"os"
	"testing"
	"time"

	"persona-review/internal/document"
	"persona-review/internal/worker"

	"github.com/stretchr/testify/suite"
)

type RedisSuite struct {
	suite.Suite
	q *worker.RedisQueue
}

func (s *RedisSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s.q = worker.NewRedisQueue(addr, "persona_review_test_"+time.Now().Format("150405.000"))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := s.q.Ping(ctx); err != nil {
		s.T().Skipf("redis not available at %s: %v", addr, err)
	}
}

func (s *RedisSuite) TearDownSuite() {
	if s.q != nil {
		s.q.Close()
	}
}

func (s *RedisSuite) TestPushPop() {

	ctx := context.Background()

	job := worker.Job{ID: "j1", Persona: "pirate", Path: "main.go", Selection: &document.Selection{Start: 3, End: 9}, Apply: true}

	err := s.q.Push(ctx, job)
	s.NoError(err)

	out, err := s.q.Pop(ctx)

	s.NoError(err)
	s.Equal(job, out)
}

func TestRedis(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}
