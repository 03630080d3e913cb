package render

import "github.com/lixenwraith/halfblock/canvas"

// Attr is a console character attribute word in the Windows layout:
// foreground in bits 0-3, background in bits 4-7
type Attr uint16

// Foreground attribute bits; shift left by 4 for the background equivalents
const (
	AttrBlue      Attr = 0x1
	AttrGreen     Attr = 0x2
	AttrRed       Attr = 0x4
	AttrIntensity Attr = 0x8
)

const (
	channelOn     = 128 // channel strictly above sets its color bit
	intensityFrom = 200 // any channel strictly above sets intensity
)

// ColorAttr reduces a color to the four foreground attribute bits
func ColorAttr(c canvas.RGB) Attr {
	var a Attr
	if c.B > channelOn {
		a |= AttrBlue
	}
	if c.G > channelOn {
		a |= AttrGreen
	}
	if c.R > channelOn {
		a |= AttrRed
	}
	if c.R > intensityFrom || c.G > intensityFrom || c.B > intensityFrom {
		a |= AttrIntensity
	}
	return a
}

// CellAttr combines the lower pixel as foreground with the upper pixel as background
func CellAttr(upper, lower canvas.Packed) Attr {
	return ColorAttr(lower.Unpack()) | ColorAttr(upper.Unpack())<<4
}

// Foreground returns the foreground nibble
func (a Attr) Foreground() Attr { return a & 0xF }

// Background returns the background nibble, shifted down to foreground position
func (a Attr) Background() Attr { return a >> 4 & 0xF }

// PaletteIndex maps a nibble to the ANSI 16-color index with the same meaning
// (red=1, green=2, blue=4, bright=8)
func (a Attr) PaletteIndex() int {
	idx := 0
	if a&AttrRed != 0 {
		idx |= 1
	}
	if a&AttrGreen != 0 {
		idx |= 2
	}
	if a&AttrBlue != 0 {
		idx |= 4
	}
	if a&AttrIntensity != 0 {
		idx |= 8
	}
	return idx
}
