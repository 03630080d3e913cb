package engine

import (
	"context"
	"time"

	"github.com/go-errors/errors"
)

// Pacer bounds the loop to a fixed frame rate with a single deadline.
//
// Each Wait moves the deadline one interval forward and sleeps until it. After
// an overrun the deadline is left behind the clock rather than resynced, so the
// following waits return at once until it catches up; drift never exceeds one
// frame but the schedule is not strictly periodic under sustained load.
type Pacer struct {
	clock    Clock
	interval time.Duration
	deadline time.Time
	started  bool
}

// NewPacer creates a pacer for fps frames per second on the system clock
func NewPacer(fps int) (*Pacer, error) {
	return NewPacerWithClock(fps, SystemClock{})
}

// NewPacerWithClock creates a pacer on an explicit clock
func NewPacerWithClock(fps int, clock Clock) (*Pacer, error) {
	if fps <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %d", fps)
	}
	return &Pacer{
		clock:    clock,
		interval: time.Second / time.Duration(fps),
	}, nil
}

// Interval returns the frame interval
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Deadline returns the current deadline, zero before the first Wait
func (p *Pacer) Deadline() time.Time {
	return p.deadline
}

// Wait advances the deadline by one interval and blocks until it. The returned
// lag is how far the clock had already passed the new deadline, 0 when on time.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	now := p.clock.Now()
	if !p.started {
		p.deadline = now
		p.started = true
	}
	p.deadline = p.deadline.Add(p.interval)

	remaining := p.deadline.Sub(now)
	if remaining <= 0 {
		return -remaining, nil
	}
	if err := p.clock.Sleep(ctx, remaining); err != nil {
		return 0, err
	}
	return 0, nil
}
