package canvas

import (
	"github.com/go-errors/errors"
)

// Canvas is a row-major grid of packed pixels, x is the column and y the row.
// The pixel slice lives on the heap; a 300x300 canvas is 90k values.
type Canvas struct {
	width  int
	height int
	pix    []Packed
}

// New creates a black canvas of the given size
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]Packed, width*height),
	}, nil
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels
func (c *Canvas) Height() int {
	return c.height
}

// Clear sets every pixel to col
func (c *Canvas) Clear(col RGB) {
	v := Pack(col)
	for i := range c.pix {
		c.pix[i] = v
	}
}

// SetPixel writes col at (x, y); coordinates outside the canvas are ignored
func (c *Canvas) SetPixel(x, y int, col RGB) {
	c.set(x, y, Pack(col))
}

func (c *Canvas) set(x, y int, v Packed) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.pix[y*c.width+x] = v
}

// At returns the packed pixel at (x, y) and whether the coordinate is inside the canvas
func (c *Canvas) At(x, y int) (Packed, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, false
	}
	return c.pix[y*c.width+x], true
}

// Row returns row y as a slice aliasing the canvas storage, nil if out of range.
// Callers must not modify it.
func (c *Canvas) Row(y int) []Packed {
	if y < 0 || y >= c.height {
		return nil
	}
	start := y * c.width
	return c.pix[start : start+c.width : start+c.width]
}

// DrawLine rasterizes a line by sampling max(|dx|,|dy|)+1 evenly spaced points
// and truncating each toward zero. This is not Bresenham: at shallow slopes a
// sample can land on the same pixel twice or step over a diagonal neighbour.
// Both endpoints are always written.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col RGB) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(abs(dx), abs(dy))

	if steps == 0 {
		c.SetPixel(x0, y0, col)
		return
	}

	v := Pack(col)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(t*float64(dx))
		y := y0 + int(t*float64(dy))
		c.set(x, y, v)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
