package render

import (
	"github.com/go-errors/errors"

	"github.com/lixenwraith/halfblock/canvas"
)

// HalfBlock is the lower half block glyph: background paints the upper pixel,
// foreground the lower one
const HalfBlock = '▄'

// ErrSize wraps terminal size query failures reported by Present
var ErrSize = errors.Errorf("terminal size unavailable")

// SizeFunc reports the terminal size in character cells
type SizeFunc func() (cols, rows int, err error)

// FrameStats describes one presented frame
type FrameStats struct {
	Cells        int // Cells drawn
	Bytes        int // Bytes handed to the output
	ColorChanges int // Color switches emitted or attribute cells written
}

// Backend draws a canvas onto the terminal
type Backend interface {
	// Begin enters the drawing session (alternate screen, hidden cursor)
	Begin() error

	// Present draws the visible part of the canvas as one output operation
	Present(c *canvas.Canvas) (FrameStats, error)

	// End leaves the drawing session; calling it again is a no-op
	End() error

	// Name identifies the backend in logs and metrics
	Name() string
}

// visibleCells clips the canvas to the terminal: one column per pixel column,
// one row per pixel pair
func visibleCells(c *canvas.Canvas, cols, rows int) (int, int) {
	w := min(c.Width(), cols)
	h := min(c.Height()/2, rows)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// querySize calls size and wraps any failure in ErrSize
func querySize(size SizeFunc) (int, int, error) {
	cols, rows, err := size()
	if err != nil {
		return 0, 0, errors.WrapPrefix(errors.Join(ErrSize, err), "present", 0)
	}
	return cols, rows, nil
}
