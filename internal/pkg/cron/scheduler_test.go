package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	var runs atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_Ticks(t *testing.T) {
	s := NewScheduler(nil)
	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("logged, not fatal")
	})

	s.Start(context.Background())
	defer s.Stop()
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(nil)
	var order []string
	s.AddJob("a", time.Hour, func(ctx context.Context) error { order = append(order, "a"); return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { order = append(order, "b"); return nil })

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	NewScheduler(nil).Stop()
}
