package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/halfblock/canvas"
)

// writeCounter records each Write call separately
type writeCounter struct {
	bytes.Buffer
	calls int
}

func (w *writeCounter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

func fixedSize(cols, rows int) SizeFunc {
	return func() (int, int, error) { return cols, rows, nil }
}

func newCanvas(t *testing.T, w, h int) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(w, h)
	require.NoError(t, err)
	return c
}

func TestANSIFrameBytes(t *testing.T) {
	c := newCanvas(t, 2, 4)
	c.SetPixel(0, 0, canvas.RGB{R: 255})
	c.SetPixel(1, 1, canvas.RGB{G: 255})

	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(80, 24))

	stats, err := b.Present(c)
	require.NoError(t, err)

	want := "\x1b[H\x1b[J" +
		"\x1b[48;2;255;0;0m\x1b[38;2;0;0;0m▄" +
		"\x1b[48;2;0;0;0m\x1b[38;2;0;255;0m▄" +
		"\x1b[0m\n" +
		"\x1b[48;2;0;0;0m\x1b[38;2;0;0;0m▄▄" +
		"\x1b[0m\n"

	assert.Equal(t, want, out.String())
	assert.Equal(t, 1, out.calls, "frame must be a single write")
	assert.Equal(t, 4, stats.Cells)
	assert.Equal(t, len(want), stats.Bytes)
	assert.Equal(t, 6, stats.ColorChanges)
}

func TestANSIElidesRepeatedColors(t *testing.T) {
	c := newCanvas(t, 10, 10)
	c.Clear(canvas.RGB{R: 12, G: 34, B: 56})

	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(80, 24))
	stats, err := b.Present(c)
	require.NoError(t, err)

	cells := 10 * 5
	sgr := strings.Count(out.String(), "\x1b[48;2;") + strings.Count(out.String(), "\x1b[38;2;")
	assert.Less(t, sgr, 2*cells)
	// One pair per row after the per-row reset
	assert.Equal(t, 2*5, sgr)
	assert.Equal(t, sgr, stats.ColorChanges)
}

func TestANSIClipsToTerminal(t *testing.T) {
	c := newCanvas(t, 10, 10)

	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(3, 2))
	stats, err := b.Present(c)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Cells)
	assert.Equal(t, 6, strings.Count(out.String(), "▄"))
	assert.Equal(t, 2, strings.Count(out.String(), "\x1b[0m"))
}

func TestANSIBottomRowHasNoNewline(t *testing.T) {
	c := newCanvas(t, 4, 6)

	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(4, 3))
	_, err := b.Present(c)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[0m"))
}

func TestANSISizeFailure(t *testing.T) {
	out := &writeCounter{}
	b := NewANSIBackend(out, func() (int, int, error) {
		return 0, 0, errors.Errorf("ioctl failed")
	})

	_, err := b.Present(newCanvas(t, 2, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSize))
	assert.Zero(t, out.calls, "nothing is written without a size")
}

func TestANSIBufferReused(t *testing.T) {
	c := newCanvas(t, 8, 8)
	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(80, 24))

	_, err := b.Present(c)
	require.NoError(t, err)
	first := out.String()
	out.Reset()

	_, err = b.Present(c)
	require.NoError(t, err)
	assert.Equal(t, first, out.String())
	assert.Equal(t, 2, out.calls)
}

func TestANSISessionBracket(t *testing.T) {
	out := &writeCounter{}
	b := NewANSIBackend(out, fixedSize(80, 24))

	require.NoError(t, b.Begin())
	require.NoError(t, b.Begin())
	assert.Equal(t, "\x1b[?1049h\x1b[?25l", out.String())

	out.Reset()
	require.NoError(t, b.End())
	require.NoError(t, b.End())
	assert.Equal(t, "\x1b[?25h\x1b[?1049l", out.String())
	assert.Equal(t, "ansi", b.Name())
}
