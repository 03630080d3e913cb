package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/halfblock/canvas"
	"github.com/lixenwraith/halfblock/metrics"
	"github.com/lixenwraith/halfblock/render"
	"github.com/lixenwraith/halfblock/terminal"
)

// State is the loop state after a tick
type State int

const (
	StateRunning State = iota // Canvas presented
	StateWaiting              // Terminal too small or unavailable, nothing presented
	StateExiting              // Escape seen, loop stops
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateExiting:
		return "exiting"
	}
	return "unknown"
}

// Terminal is the raw-mode session as seen by the loop
type Terminal interface {
	Poll() ([]terminal.KeyEvent, error)
	Size() (cols, rows int, err error)
	Restore() error
}

// Pacing blocks until the next frame is due
type Pacing interface {
	Wait(ctx context.Context) (lag time.Duration, err error)
}

// KeyHandler receives every key event other than Escape, in input order
type KeyHandler func(ev terminal.KeyEvent)

// Loop drives poll, present and pace on a single goroutine
type Loop struct {
	term    Terminal
	backend render.Backend
	pacer   Pacing
	canvas  *canvas.Canvas
	log     *zap.Logger
	metrics *metrics.Metrics

	onKey KeyHandler
	state State
}

// LoopConfig collects the loop's collaborators
type LoopConfig struct {
	Terminal Terminal
	Backend  render.Backend
	Pacer    Pacing
	Canvas   *canvas.Canvas
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	OnKey    KeyHandler
}

// NewLoop creates a loop in the Running state
func NewLoop(cfg LoopConfig) *Loop {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		term:    cfg.Terminal,
		backend: cfg.Backend,
		pacer:   cfg.Pacer,
		canvas:  cfg.Canvas,
		log:     log,
		metrics: cfg.Metrics,
		onKey:   cfg.OnKey,
		state:   StateRunning,
	}
}

// State returns the state reached by the last tick
func (l *Loop) State() State {
	return l.state
}

// Run ticks until Escape or ctx cancellation. On return the terminal is
// restored exactly once and the backend session ended.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if rerr := l.term.Restore(); rerr != nil && err == nil {
			err = rerr
		}
		if eerr := l.backend.End(); eerr != nil && err == nil {
			err = eerr
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if l.Tick() == StateExiting {
			return nil
		}
		lag, werr := l.pacer.Wait(ctx)
		if werr != nil {
			// Cancelled while sleeping
			return nil
		}
		if lag > 0 {
			l.metrics.PacerOverrun(lag)
		}
	}
}

// Tick runs one poll-size-present step without pacing and returns the new state
func (l *Loop) Tick() State {
	if l.pollInput() {
		l.setState(StateExiting)
		return l.state
	}

	cols, rows, err := l.term.Size()
	if err != nil {
		l.log.Debug("terminal size unavailable", zap.Error(err))
		l.setState(StateWaiting)
		return l.state
	}
	if cols < l.canvas.Width() || rows < l.canvas.Height()/2 {
		l.setState(StateWaiting)
		return l.state
	}

	stats, err := l.backend.Present(l.canvas)
	if err != nil {
		l.log.Warn("present failed", zap.String("backend", l.backend.Name()), zap.Error(err))
		l.setState(StateWaiting)
		return l.state
	}
	l.metrics.Frame(stats.Bytes, stats.ColorChanges)
	l.setState(StateRunning)
	return l.state
}

// pollInput dispatches this tick's key events and reports whether Escape was seen.
// Events after an Escape in the same read are dropped.
func (l *Loop) pollInput() bool {
	events, err := l.term.Poll()
	if err != nil {
		l.log.Warn("input poll failed", zap.Error(err))
		return false
	}
	for _, ev := range events {
		l.metrics.Key(ev.Key.String())
		if ev.Key == terminal.KeyEscape {
			return true
		}
		if l.onKey != nil {
			l.onKey(ev)
		}
	}
	return false
}

func (l *Loop) setState(s State) {
	if s == StateWaiting {
		l.metrics.WaitingTick()
	}
	if s != l.state {
		l.log.Debug("loop state", zap.Stringer("from", l.state), zap.Stringer("to", s))
		l.state = s
		l.metrics.SetState(int(s))
	}
}
