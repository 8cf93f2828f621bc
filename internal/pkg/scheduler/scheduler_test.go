package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler(t *testing.T) {
	t.Run("Task runs repeatedly until stopped", func(t *testing.T) {
		var runs int64
		s := New()
		s.Register(Task{
			Name:     "counter",
			Interval: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				atomic.AddInt64(&runs, 1)
				return nil
			},
		})

		s.Start()
		time.Sleep(100 * time.Millisecond)
		s.Stop()

		assert.GreaterOrEqual(t, atomic.LoadInt64(&runs), int64(3))

		after := atomic.LoadInt64(&runs)
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, after, atomic.LoadInt64(&runs))
	})

	t.Run("Panicking task does not kill the loop", func(t *testing.T) {
		var runs int64
		s := New()
		s.Register(Task{
			Name:     "panicky",
			Interval: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				atomic.AddInt64(&runs, 1)
				panic("boom")
			},
		})

		s.Start()
		time.Sleep(100 * time.Millisecond)
		s.Stop()

		assert.GreaterOrEqual(t, atomic.LoadInt64(&runs), int64(2))
	})

	t.Run("Failing task keeps its cadence", func(t *testing.T) {
		var runs int64
		s := New()
		s.Register(Task{
			Name:     "flaky",
			Interval: 10 * time.Millisecond,
			Run: func(ctx context.Context) error {
				atomic.AddInt64(&runs, 1)
				return errors.New("transient")
			},
		})

		s.Start()
		time.Sleep(100 * time.Millisecond)
		s.Stop()

		assert.GreaterOrEqual(t, atomic.LoadInt64(&runs), int64(2))
	})

	t.Run("Stop without start is a no-op", func(t *testing.T) {
		s := New()
		assert.NotPanics(t, func() { s.Stop() })
	})
}
