package main

import (
	"github.com/lixenwraith/halfblock/canvas"
	"github.com/lixenwraith/halfblock/terminal"
)

// demo draws the fixed scene plus a marker pixel steered with the arrow keys
type demo struct {
	canvas *canvas.Canvas

	markerX, markerY int
}

var markerColor = canvas.White

func newDemo(c *canvas.Canvas) *demo {
	return &demo{canvas: c}
}

// reset redraws the scene with the marker back at the centre
func (d *demo) reset() {
	d.markerX = d.canvas.Width() / 2
	d.markerY = d.canvas.Height() / 2
	d.draw()
}

func (d *demo) draw() {
	c := d.canvas
	c.Clear(canvas.Black)
	c.SetPixel(0, 0, canvas.Red)
	c.SetPixel(2, 2, canvas.Green)
	c.DrawLine(4, 4, 40, 20, canvas.Red)
	c.SetPixel(d.markerX, d.markerY, markerColor)
}

func (d *demo) handleKey(ev terminal.KeyEvent) {
	switch ev.Key {
	case terminal.KeyUp:
		d.move(0, -1)
	case terminal.KeyDown:
		d.move(0, 1)
	case terminal.KeyLeft:
		d.move(-1, 0)
	case terminal.KeyRight:
		d.move(1, 0)
	case terminal.KeyEnter:
		d.reset()
	}
}

// move shifts the marker, stopping at the canvas edge
func (d *demo) move(dx, dy int) {
	x := min(max(d.markerX+dx, 0), d.canvas.Width()-1)
	y := min(max(d.markerY+dy, 0), d.canvas.Height()-1)
	d.markerX, d.markerY = x, y
	d.draw()
}
