//go:build unix

package render

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/lixenwraith/halfblock/terminal"
)

// pipeCapture collects everything written to the pipe's write end
type pipeCapture struct {
	w    *os.File
	mu   sync.Mutex
	buf  bytes.Buffer
	done chan struct{}
}

func newPipeCapture(t *testing.T) *pipeCapture {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	pc := &pipeCapture{w: w, done: make(chan struct{})}
	go func() {
		defer close(pc.done)
		chunk := make([]byte, 4096)
		for {
			n, err := r.Read(chunk)
			pc.mu.Lock()
			pc.buf.Write(chunk[:n])
			pc.mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	t.Cleanup(func() {
		w.Close()
		<-pc.done
		r.Close()
	})
	return pc
}

func (pc *pipeCapture) String() string {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.buf.String()
}

// finiWithin runs Fini and fails the test if it does not return in time
func finiWithin(t *testing.T, sink CellSink, d time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- sink.Fini() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(d):
		t.Fatalf("Fini still blocked after %v", d)
	}
}

func TestPlatformSinkFiniReturns(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	pc := newPipeCapture(t)

	sink, err := NewPlatformSink(pc.w)
	require.NoError(t, err)
	require.NoError(t, sink.Init())

	finiWithin(t, sink, 3*time.Second)
}

func TestPlatformSinkKeepsPlainKeyInput(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	pc := newPipeCapture(t)

	sink, err := NewPlatformSink(pc.w)
	require.NoError(t, err)
	require.NoError(t, sink.Init())

	// Writes from Init are synchronous on the pipe; give the reader a moment
	time.Sleep(50 * time.Millisecond)
	out := pc.String()
	finiWithin(t, sink, 3*time.Second)

	// Whatever keypad mode tcell enabled must be undone afterwards
	if i := strings.LastIndex(out, "\x1b[?1h"); i >= 0 {
		assert.Greater(t, strings.LastIndex(out, "\x1b[?1l"), i, "application cursor keys left on")
	}
	if i := strings.LastIndex(out, "\x1b[>1u"); i >= 0 {
		assert.Greater(t, strings.LastIndex(out, "\x1b[<u"), i, "kitty keyboard protocol left on")
	}
	assert.Contains(t, out, "\x1b[<u")
}

func TestPlainKeysDecode(t *testing.T) {
	seq := plainKeysSequence("xterm-256color")
	assert.True(t, strings.HasSuffix(seq, seqDisableCSIuKeys))
	assert.Contains(t, seq, "\x1b[?1l")

	// With the modes off the decoder sees the plain grammar again
	d := terminal.NewDecoder(0)
	ev := d.Feed([]byte("\x1b[A\x1b"), time.Now())
	ev = append(ev, d.Flush()...)
	require.Len(t, ev, 2)
	assert.Equal(t, terminal.KeyUp, ev[0].Key)
	assert.Equal(t, terminal.KeyEscape, ev[1].Key)
}

func TestOutputTTYDrainReleasesRead(t *testing.T) {
	pc := newPipeCapture(t)
	tty := newOutputTTY(pc.w)
	require.NoError(t, tty.Start())
	defer tty.Stop()

	done := make(chan error, 1)
	go func() {
		_, err := tty.Read(make([]byte, 16))
		done <- err
	}()

	require.NoError(t, tty.Drain())
	select {
	case err := <-done:
		assert.Equal(t, io.EOF, err)
	case <-time.After(time.Second):
		t.Fatal("Read still blocked after Drain")
	}
}

func TestOutputTTYResizeNotify(t *testing.T) {
	pc := newPipeCapture(t)
	tty := newOutputTTY(pc.w)

	resized := make(chan struct{}, 1)
	tty.NotifyResize(func() {
		select {
		case resized <- struct{}{}:
		default:
		}
	})
	require.NoError(t, tty.Start())
	defer tty.Stop()

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGWINCH))
	select {
	case <-resized:
	case <-time.After(time.Second):
		t.Fatal("resize callback not invoked on SIGWINCH")
	}
}
