package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunExecutesTaskOnSchedule(t *testing.T) {
	var count int32
	s := New([]Task{
		{Name: "tick", Period: 5 * time.Millisecond, Run: func() { atomic.AddInt32(&count, 1) }},
	}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()
	<-done

	if atomic.LoadInt32(&count) < 3 {
		t.Fatalf("task ran %d times in 60ms at a 5ms period, expected several", count)
	}
}

func TestRunSerializesConcurrentTasks(t *testing.T) {
	var inFlight int32
	var sawOverlap int32
	work := func() {
		if !atomic.CompareAndSwapInt32(&inFlight, 0, 1) {
			atomic.StoreInt32(&sawOverlap, 1)
			return
		}
		time.Sleep(2 * time.Millisecond)
		atomic.StoreInt32(&inFlight, 0)
	}

	s := New([]Task{
		{Name: "a", Period: time.Millisecond, Run: work},
		{Name: "b", Period: time.Millisecond, Run: work},
		{Name: "c", Period: time.Millisecond, Run: work},
	}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if atomic.LoadInt32(&sawOverlap) != 0 {
		t.Fatal("two tasks executed concurrently; the executor must serialize all jobs")
	}
}

func TestRunRecoversPanickingTask(t *testing.T) {
	var afterPanicRuns int32
	s := New([]Task{
		{Name: "boom", Period: 5 * time.Millisecond, Run: func() { panic("tick fault") }},
		{Name: "survivor", Period: 5 * time.Millisecond, Run: func() { atomic.AddInt32(&afterPanicRuns, 1) }},
	}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if atomic.LoadInt32(&afterPanicRuns) == 0 {
		t.Fatal("a panicking task should not stop other tasks from running")
	}
}

func TestStopUnblocksRun(t *testing.T) {
	s := New([]Task{{Name: "noop", Period: time.Millisecond, Run: func() {}}}, time.Hour)

	done := make(chan struct{})
	go func() { s.Run(context.Background()); close(done) }()

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not unblock Run")
	}
}

func TestLogAndClearEmptiesAccumulatedTimes(t *testing.T) {
	s := New(nil, time.Hour)
	s.record("tick", time.Millisecond)
	s.record("tick", 2*time.Millisecond)
	s.record("other", time.Microsecond)

	s.logAndClear()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.times) != 0 {
		t.Fatalf("logAndClear left %d task(s) with accumulated times", len(s.times))
	}
}
