package retry

import (
	"context"
	"time"
)

type Fn func() error

// Do calls fn up to attempts times, doubling wait between failures. It
// returns early when ctx is done, including mid-wait.
func Do(ctx context.Context, attempts int, wait time.Duration, fn Fn) error {

	var err error

	for i := 0; i < attempts; i++ {

		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait = wait * 2
	}

	return err
}
