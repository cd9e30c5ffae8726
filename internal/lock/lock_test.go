package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		l := NewLocalLocker()

		unlock, err := l.Lock(ctx, "employee:email:a@b.com")
		require.NoError(t, err)

		_, err = l.Lock(ctx, "employee:email:a@b.com")
		require.ErrorIs(t, err, ErrHeld)

		unlock()
		unlock()

		again, err := l.Lock(ctx, "employee:email:a@b.com")
		require.NoError(t, err)
		again()
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := NewLocalLocker()

		u1, err := l.Lock(ctx, "a")
		require.NoError(t, err)
		u2, err := l.Lock(ctx, "b")
		require.NoError(t, err)
		u1()
		u2()
	})

	t.Run("canceled context", func(t *testing.T) {
		l := NewLocalLocker()
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := l.Lock(canceled, "a")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("only one concurrent winner", func(t *testing.T) {
		l := NewLocalLocker()
		var winners atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.Lock(ctx, "same"); err == nil {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())
	})
}

type failingLocker struct {
	calls atomic.Int32
	err   error
}

func (f *failingLocker) Lock(ctx context.Context, key string) (func(), error) {
	f.calls.Add(1)
	return nil, f.err
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("waits for release", func(t *testing.T) {
		l := NewLocalLocker()
		unlock, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		time.AfterFunc(30*time.Millisecond, unlock)

		again, err := Acquire(ctx, l, "k", time.Second)
		require.NoError(t, err)
		again()
	})

	t.Run("gives up after wait", func(t *testing.T) {
		l := NewLocalLocker()
		unlock, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		defer unlock()

		start := time.Now()
		_, err = Acquire(ctx, l, "k", 50*time.Millisecond)
		require.ErrorIs(t, err, ErrHeld)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("backend errors are not retried", func(t *testing.T) {
		l := &failingLocker{err: errors.New("redis: connection refused")}

		_, err := Acquire(ctx, l, "k", time.Second)
		require.ErrorContains(t, err, "connection refused")
		assert.Equal(t, int32(1), l.calls.Load())
	})

	t.Run("zero wait tries once", func(t *testing.T) {
		l := &failingLocker{err: ErrHeld}

		_, err := Acquire(ctx, l, "k", 0)
		require.ErrorIs(t, err, ErrHeld)
		assert.Equal(t, int32(1), l.calls.Load())
	})
}
