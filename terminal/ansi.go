package terminal

// Pre-allocated ANSI sequence fragments
var (
	csiRIS  = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0 = []byte("\x1b[0m")

	csiCursorShow    = []byte("\x1b[?25h")
	csiAltScreenExit = []byte("\x1b[?1049l")

	csiFgRGB = []byte("\x1b[38;2;") // followed by R;G;Bm
	csiBgRGB = []byte("\x1b[48;2;") // followed by R;G;Bm
)

// Session bracket and per-frame sequences, exposed for output backends
var (
	SeqEnterSession = []byte("\x1b[?1049h\x1b[?25l")
	SeqExitSession  = []byte("\x1b[?25h\x1b[?1049l")
	SeqHomeClear    = []byte("\x1b[H\x1b[J")
	SeqReset        = csiSGR0
)

// appendInt appends a non-negative integer without allocation
// Optimized for color channels (0-255)
func appendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(dst, byte(n)+'0')
	}
	if n < 100 {
		return append(dst, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(dst, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	// Fallback for >999 (rare)
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(dst, buf[i:]...)
}

// AppendFgRGB appends a truecolor foreground SGR sequence: ESC[38;2;R;G;Bm
func AppendFgRGB(dst []byte, r, g, b uint8) []byte {
	dst = append(dst, csiFgRGB...)
	return appendRGB(dst, r, g, b)
}

// AppendBgRGB appends a truecolor background SGR sequence: ESC[48;2;R;G;Bm
func AppendBgRGB(dst []byte, r, g, b uint8) []byte {
	dst = append(dst, csiBgRGB...)
	return appendRGB(dst, r, g, b)
}

func appendRGB(dst []byte, r, g, b uint8) []byte {
	dst = appendInt(dst, int(r))
	dst = append(dst, ';')
	dst = appendInt(dst, int(g))
	dst = append(dst, ';')
	dst = appendInt(dst, int(b))
	return append(dst, 'm')
}
