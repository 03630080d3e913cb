//go:build unix

package render

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/terminfo"
	"github.com/go-errors/errors"
	"golang.org/x/term"
)

// Sequences written after tcell engages the screen so key input stays plain:
// cursor keys as ESC [ X and Escape as a bare ESC
const (
	seqExitKeypad      = "\x1b[?1l\x1b>" // fallback when terminfo has no rmkx
	seqDisableCSIuKeys = "\x1b[<u"       // pop kitty keyboard protocol flags
)

// NewPlatformSink returns a tcell terminfo screen on out. The screen never
// reads the terminal: input stays with terminal.Session.
func NewPlatformSink(out *os.File) (CellSink, error) {
	tty := newOutputTTY(out)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	if err != nil {
		return nil, errors.WrapPrefix(err, "create terminfo screen", 0)
	}
	sink := NewScreenSink(screen)
	sink.afterInit = func() error {
		_, err := io.WriteString(tty, plainKeysSequence(os.Getenv("TERM")))
		return err
	}
	return sink, nil
}

// plainKeysSequence undoes the keypad and keyboard protocol modes tcell enables
func plainKeysSequence(termName string) string {
	exitKeypad := seqExitKeypad
	if ti, err := terminfo.LookupTerminfo(termName); err == nil && ti.ExitKeypad != "" {
		exitKeypad = ti.ExitKeypad
	}
	return exitKeypad + seqDisableCSIuKeys
}

// outputTTY is a write-only tcell.Tty. Raw mode belongs to the session, so
// Start and Stop leave terminal settings alone and Read parks until Drain or Stop.
type outputTTY struct {
	out *os.File
	fd  int

	mu       sync.Mutex
	stopped  chan struct{}
	drained  chan struct{}
	onResize func()
	sig      chan os.Signal
}

func newOutputTTY(out *os.File) *outputTTY {
	stopped := make(chan struct{})
	close(stopped)
	return &outputTTY{
		out:     out,
		fd:      int(out.Fd()),
		stopped: stopped,
		drained: make(chan struct{}),
	}
}

func (t *outputTTY) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.stopped:
	default:
		return nil // already running
	}
	t.stopped = make(chan struct{})
	t.drained = make(chan struct{})

	t.sig = make(chan os.Signal, 1)
	signal.Notify(t.sig, syscall.SIGWINCH)
	go t.watchResize(t.sig, t.stopped)
	return nil
}

func (t *outputTTY) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.stopped:
		return nil
	default:
	}
	signal.Stop(t.sig)
	close(t.stopped)
	closeOnce(t.drained)
	return nil
}

// Drain releases a pending Read; tcell waits for its input loop before Stop
func (t *outputTTY) Drain() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	closeOnce(t.drained)
	return nil
}

func (t *outputTTY) NotifyResize(cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onResize = cb
}

func (t *outputTTY) watchResize(sig <-chan os.Signal, stopped <-chan struct{}) {
	for {
		select {
		case <-sig:
			t.mu.Lock()
			cb := t.onResize
			t.mu.Unlock()
			if cb != nil {
				cb()
			}
		case <-stopped:
			return
		}
	}
}

func (t *outputTTY) WindowSize() (tcell.WindowSize, error) {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return tcell.WindowSize{}, errors.WrapPrefix(err, "query window size", 0)
	}
	return tcell.WindowSize{Width: cols, Height: rows}, nil
}

func (t *outputTTY) Read([]byte) (int, error) {
	t.mu.Lock()
	stopped, drained := t.stopped, t.drained
	t.mu.Unlock()
	select {
	case <-stopped:
	case <-drained:
	}
	return 0, io.EOF
}

func (t *outputTTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func (t *outputTTY) Close() error { return nil }

func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
