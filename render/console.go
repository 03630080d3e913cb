package render

import (
	"github.com/go-errors/errors"

	"github.com/lixenwraith/halfblock/canvas"
)

// Cell is one console character with its attribute word
type Cell struct {
	Char rune
	Attr Attr
}

// CellSink receives whole frames of console cells
type CellSink interface {
	// Init prepares the output for cell writes
	Init() error

	// WriteCells draws a cols×rows block of cells, row-major, at the top-left corner
	WriteCells(cells []Cell, cols, rows int) error

	// Fini releases the output and restores its previous state
	Fini() error
}

// ConsoleBackend renders through console cell attributes, no escape text
type ConsoleBackend struct {
	sink CellSink
	size SizeFunc

	// Optimization: cell buffer reused across Present calls
	cells []Cell

	begun bool
	ended bool
}

// NewConsoleBackend creates an attribute backend writing through sink
func NewConsoleBackend(sink CellSink, size SizeFunc) *ConsoleBackend {
	return &ConsoleBackend{sink: sink, size: size}
}

func (b *ConsoleBackend) Name() string { return "console" }

func (b *ConsoleBackend) Begin() error {
	if b.begun {
		return nil
	}
	if err := b.sink.Init(); err != nil {
		return errors.WrapPrefix(err, "init console sink", 0)
	}
	b.begun = true
	return nil
}

func (b *ConsoleBackend) End() error {
	if b.ended || !b.begun {
		b.ended = true
		return nil
	}
	b.ended = true
	if err := b.sink.Fini(); err != nil {
		return errors.WrapPrefix(err, "release console sink", 0)
	}
	return nil
}

// Present fills the cell buffer and hands it to the sink in one call
func (b *ConsoleBackend) Present(c *canvas.Canvas) (FrameStats, error) {
	cols, rows, err := querySize(b.size)
	if err != nil {
		return FrameStats{}, err
	}
	w, h := visibleCells(c, cols, rows)

	b.cells = fillCells(b.cells[:0], c, w, h)

	stats := FrameStats{
		Cells:        w * h,
		Bytes:        len(b.cells) * cellBytes,
		ColorChanges: len(b.cells),
	}
	if err := b.sink.WriteCells(b.cells, w, h); err != nil {
		return stats, errors.WrapPrefix(err, "write cells", 0)
	}
	return stats, nil
}

// cellBytes is the size of one native CHAR_INFO record
const cellBytes = 4

func fillCells(dst []Cell, c *canvas.Canvas, w, h int) []Cell {
	for y := 0; y < h; y++ {
		upper := c.Row(2 * y)
		lower := c.Row(2*y + 1)
		for x := 0; x < w; x++ {
			dst = append(dst, Cell{Char: HalfBlock, Attr: CellAttr(upper[x], lower[x])})
		}
	}
	return dst
}
