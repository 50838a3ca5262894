package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"persona-review/internal/retry"

	"github.com/stretchr/testify/suite"
)

type RetrySuite struct {
	suite.Suite
}

func (s *RetrySuite) Test_Eventual_Success() {

	calls := 0

	err := retry.Do(
		context.Background(),
		3,
		1*time.Millisecond,
		func() error {
			calls++
			if calls < 2 {
				return errors.New("fail")
			}
			return nil
		},
	)

	s.NoError(err)
	s.Equal(2, calls)
}

func (s *RetrySuite) Test_Returns_Last_Error() {

	calls := 0

	err := retry.Do(
		context.Background(),
		3,
		1*time.Millisecond,
		func() error {
			calls++
			return errors.New("attempt " + string(rune('0'+calls)))
		},
	)

	s.EqualError(err, "attempt 3")
	s.Equal(3, calls)
}

func (s *RetrySuite) Test_Cancel_During_Wait() {

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()

	err := retry.Do(ctx, 5, time.Hour, func() error {
		calls++
		return errors.New("fail")
	})

	s.ErrorIs(err, context.DeadlineExceeded)
	s.Equal(1, calls)
	s.Less(time.Since(start), time.Second)
}

func (s *RetrySuite) Test_Already_Cancelled() {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, 3, time.Millisecond, func() error {
		s.Fail("fn must not run")
		return nil
	})

	s.ErrorIs(err, context.Canceled)
}

func TestRetrySuite(t *testing.T) {
	suite.Run(t, new(RetrySuite))
}
