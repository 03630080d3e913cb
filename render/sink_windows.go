//go:build windows

package render

import (
	"os"
	"unsafe"

	"github.com/go-errors/errors"
	"golang.org/x/sys/windows"
)

var (
	kernel32DLL = windows.NewLazySystemDLL("kernel32.dll")

	writeConsoleOutputProc = kernel32DLL.NewProc("WriteConsoleOutputW")
)

// charInfo mirrors CHAR_INFO with the UnicodeChar union member
type charInfo struct {
	Char       uint16
	Attributes uint16
}

// NativeSink writes cells with WriteConsoleOutputW, one call per frame
type NativeSink struct {
	out windows.Handle
	buf []charInfo
}

// NewPlatformSink returns the native console sink for out
func NewPlatformSink(out *os.File) (CellSink, error) {
	if err := writeConsoleOutputProc.Find(); err != nil {
		return nil, errors.WrapPrefix(err, "WriteConsoleOutputW unavailable", 0)
	}
	return &NativeSink{out: windows.Handle(out.Fd())}, nil
}

func (s *NativeSink) Init() error { return nil }

func (s *NativeSink) Fini() error { return nil }

func (s *NativeSink) WriteCells(cells []Cell, cols, rows int) error {
	n := cols * rows
	if n == 0 {
		return nil
	}
	if len(cells) < n {
		return errors.Errorf("cell buffer holds %d cells, need %d", len(cells), n)
	}

	s.buf = s.buf[:0]
	for _, c := range cells[:n] {
		s.buf = append(s.buf, charInfo{Char: uint16(c.Char), Attributes: uint16(c.Attr)})
	}

	region := windows.SmallRect{Left: 0, Top: 0, Right: int16(cols - 1), Bottom: int16(rows - 1)}
	r1, _, err := writeConsoleOutputProc.Call(
		uintptr(s.out),
		uintptr(unsafe.Pointer(&s.buf[0])),
		uintptr(packCoord(cols, rows)),
		uintptr(packCoord(0, 0)),
		uintptr(unsafe.Pointer(&region)),
	)
	if r1 == 0 {
		return errors.WrapPrefix(err, "WriteConsoleOutputW", 0)
	}
	return nil
}

// packCoord encodes a COORD for by-value passing
func packCoord(x, y int) uint32 {
	return uint32(uint16(x)) | uint32(uint16(y))<<16
}
