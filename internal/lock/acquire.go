package lock

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const acquireInterval = 10 * time.Millisecond

// Acquire calls l.Lock until it succeeds, retrying only while the key is held
// and for at most wait. When wait runs out ErrHeld is returned; other lock
// errors are returned immediately.
func Acquire(ctx context.Context, l Locker, key string, wait time.Duration) (func(), error) {
	if wait <= 0 {
		return l.Lock(ctx, key)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = acquireInterval
	b.MaxInterval = 200 * time.Millisecond

	return backoff.Retry(ctx, func() (func(), error) {
		unlock, err := l.Lock(ctx, key)
		if err != nil && !errors.Is(err, ErrHeld) {
			return nil, backoff.Permanent(err)
		}
		return unlock, err
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(wait))
}
