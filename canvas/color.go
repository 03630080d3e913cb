package canvas

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Packed is the decimal-packed form of an RGB value
type Packed int32

const (
	packR = 1_000_000
	packG = 1_000
)

// Common colors used by the demo scene and tests
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
	Red   = RGB{255, 0, 0}
	Green = RGB{0, 255, 0}
	Blue  = RGB{0, 0, 255}
)

// Pack returns the packed value of c
func Pack(c RGB) Packed {
	return Packed(int32(c.R)*packR + int32(c.G)*packG + int32(c.B))
}

// Unpack recovers the channels of a packed value produced by Pack
func (p Packed) Unpack() RGB {
	return RGB{
		R: uint8(p / packR),
		G: uint8((p / packG) % 1000),
		B: uint8(p % 1000),
	}
}

// Pack returns the packed value of c
func (c RGB) Pack() Packed {
	return Pack(c)
}
