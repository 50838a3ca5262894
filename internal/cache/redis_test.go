package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type RedisSuite struct {
	suite.Suite
	store *Redis
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s.store = NewRedis(addr, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.T().Skipf("redis not available at %s: %v", addr, err)
	}
}

func (s *RedisSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *RedisSuite) TestSetGet() {
	ctx := context.Background()
	key := Key("redis-suite", time.Now().String())

	_, ok, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Set(ctx, key, "Line 1: cached"))

	v, ok, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("Line 1: cached", v)

	ttl, err := s.store.client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}
