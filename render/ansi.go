package render

import (
	"io"
	"unicode/utf8"

	"github.com/go-errors/errors"

	"github.com/lixenwraith/halfblock/canvas"
	"github.com/lixenwraith/halfblock/terminal"
)

// ANSIBackend renders with 24-bit SGR color sequences. Every row ends with
// ESC[0m and a newline, except that the newline after the last row is left out
// when the frame fills the terminal height, so the screen does not scroll.
type ANSIBackend struct {
	w    io.Writer
	size SizeFunc

	// Optimization: frame buffer reused across Present calls
	buf []byte

	begun bool
	ended bool
}

// NewANSIBackend creates an escape-stream backend writing to w
func NewANSIBackend(w io.Writer, size SizeFunc) *ANSIBackend {
	return &ANSIBackend{
		w:    w,
		size: size,
		buf:  make([]byte, 0, 64*1024),
	}
}

func (b *ANSIBackend) Name() string { return "ansi" }

// Begin switches to the alternate screen and hides the cursor
func (b *ANSIBackend) Begin() error {
	if b.begun {
		return nil
	}
	if _, err := b.w.Write(terminal.SeqEnterSession); err != nil {
		return errors.WrapPrefix(err, "enter alternate screen", 0)
	}
	b.begun = true
	return nil
}

// End shows the cursor and leaves the alternate screen
func (b *ANSIBackend) End() error {
	if b.ended {
		return nil
	}
	b.ended = true
	if _, err := b.w.Write(terminal.SeqExitSession); err != nil {
		return errors.WrapPrefix(err, "leave alternate screen", 0)
	}
	return nil
}

// Present encodes the visible canvas into one buffer and writes it once
func (b *ANSIBackend) Present(c *canvas.Canvas) (FrameStats, error) {
	cols, rows, err := querySize(b.size)
	if err != nil {
		return FrameStats{}, err
	}
	w, h := visibleCells(c, cols, rows)

	var stats FrameStats
	b.buf, stats = encodeFrame(b.buf[:0], c, w, h, h == rows)

	n, err := b.w.Write(b.buf)
	stats.Bytes = n
	if err != nil {
		return stats, errors.WrapPrefix(err, "write frame", 0)
	}
	return stats, nil
}

// encodeFrame appends a full frame of w×h cells to dst. Colors are tracked per
// row so a row never depends on state left by the previous one. When lastRowFills
// the final newline is dropped so the bottom line does not scroll.
func encodeFrame(dst []byte, c *canvas.Canvas, w, h int, lastRowFills bool) ([]byte, FrameStats) {
	var stats FrameStats
	dst = append(dst, terminal.SeqHomeClear...)

	for y := 0; y < h; y++ {
		upper := c.Row(2 * y)
		lower := c.Row(2*y + 1)

		var lastBg, lastFg canvas.Packed
		valid := false

		for x := 0; x < w; x++ {
			bg, fg := upper[x], lower[x]

			if !valid || bg != lastBg {
				rgb := bg.Unpack()
				dst = terminal.AppendBgRGB(dst, rgb.R, rgb.G, rgb.B)
				lastBg = bg
				stats.ColorChanges++
			}
			if !valid || fg != lastFg {
				rgb := fg.Unpack()
				dst = terminal.AppendFgRGB(dst, rgb.R, rgb.G, rgb.B)
				lastFg = fg
				stats.ColorChanges++
			}
			valid = true

			dst = utf8.AppendRune(dst, HalfBlock)
		}

		dst = append(dst, terminal.SeqReset...)
		if y < h-1 || !lastRowFills {
			dst = append(dst, '\n')
		}
	}

	stats.Cells = w * h
	return dst, stats
}
