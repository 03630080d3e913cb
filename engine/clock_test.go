package engine

import (
	"context"
	"testing"
	"time"
)

func TestSystemClockSleep(t *testing.T) {
	clock := SystemClock{}

	t1 := clock.Now()
	if err := clock.Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if diff := clock.Now().Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms, got %v", diff)
	}
}

func TestSystemClockSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := (SystemClock{}).Sleep(ctx, time.Hour); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Expected cancelled sleep to return immediately")
	}
}

func TestManualClock(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(startTime)

	if now := clock.Now(); !now.Equal(startTime) {
		t.Errorf("Expected initial time to be %v, got %v", startTime, now)
	}

	clock.Advance(time.Hour)
	clock.Sleep(context.Background(), 30*time.Minute)

	expected := startTime.Add(90 * time.Minute)
	if now := clock.Now(); !now.Equal(expected) {
		t.Errorf("Expected time to be %v, got %v", expected, now)
	}
	if sleeps := clock.Sleeps(); len(sleeps) != 1 || sleeps[0] != 30*time.Minute {
		t.Errorf("Expected one 30m sleep, got %v", sleeps)
	}
}
