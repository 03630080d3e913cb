//go:build windows

package terminal

import (
	"unicode/utf8"
	"unsafe"

	"github.com/go-errors/errors"
	"golang.org/x/sys/windows"
)

var (
	kernel32DLL = windows.NewLazySystemDLL("kernel32.dll")

	readConsoleInputProc              = kernel32DLL.NewProc("ReadConsoleInputW")
	getNumberOfConsoleInputEventsProc = kernel32DLL.NewProc("GetNumberOfConsoleInputEvents")
)

const (
	keyEventType = 0x0001

	vkBack   = 0x08
	vkTab    = 0x09
	vkReturn = 0x0D
	vkShift  = 0x10
	vkCtrl   = 0x11
	vkMenu   = 0x12
	vkEscape = 0x1B
	vkLeft   = 0x25
	vkUp     = 0x26
	vkRight  = 0x27
	vkDown   = 0x28
)

// inputRecord mirrors INPUT_RECORD with the KEY_EVENT_RECORD union member
type inputRecord struct {
	EventType       uint16
	_               uint16
	KeyDown         int32
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	Char            uint16
	ControlKeyState uint32
}

type windowsBackend struct {
	in  windows.Handle
	out windows.Handle

	inMode   uint32
	outMode  uint32
	savedIn  bool
	savedOut bool

	records [32]inputRecord
}

// NewBackend returns the console backend for the standard handles
func NewBackend() Backend {
	return &windowsBackend{
		in:  windows.Handle(windows.Stdin),
		out: windows.Handle(windows.Stdout),
	}
}

func (b *windowsBackend) Enable() error {
	if err := windows.GetConsoleMode(b.in, &b.inMode); err != nil {
		return errors.New(ErrNotTerminal)
	}
	b.savedIn = true

	raw := b.inMode &^ (windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT)
	if err := windows.SetConsoleMode(b.in, raw); err != nil {
		return errors.WrapPrefix(err, "set console input mode", 0)
	}

	// Best effort: lets the ANSI backend run on conhost
	if err := windows.GetConsoleMode(b.out, &b.outMode); err == nil {
		b.savedOut = true
		_ = windows.SetConsoleMode(b.out, b.outMode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
	return nil
}

func (b *windowsBackend) Restore() error {
	var errs []error
	if b.savedIn {
		if err := windows.SetConsoleMode(b.in, b.inMode); err != nil {
			errs = append(errs, err)
		}
		b.savedIn = false
	}
	if b.savedOut {
		if err := windows.SetConsoleMode(b.out, b.outMode); err != nil {
			errs = append(errs, err)
		}
		b.savedOut = false
	}
	if err := errors.Join(errs...); err != nil {
		return errors.WrapPrefix(err, "restore console mode", 0)
	}
	return nil
}

// Read drains pending console input records and re-encodes key presses in the
// byte grammar the Decoder understands
func (b *windowsBackend) Read(p []byte) (int, error) {
	var pending uint32
	ret, _, callErr := getNumberOfConsoleInputEventsProc.Call(uintptr(b.in), uintptr(unsafe.Pointer(&pending)))
	if ret == 0 {
		return 0, errors.WrapPrefix(callErr, "GetNumberOfConsoleInputEvents", 0)
	}
	if pending == 0 {
		return 0, nil
	}

	// Worst case one record expands to a 3-byte arrow sequence
	want := min(uint32(len(b.records)), pending, uint32(len(p)/4))
	if want == 0 {
		return 0, nil
	}

	var read uint32
	ret, _, callErr = readConsoleInputProc.Call(
		uintptr(b.in),
		uintptr(unsafe.Pointer(&b.records[0])),
		uintptr(want),
		uintptr(unsafe.Pointer(&read)),
	)
	if ret == 0 {
		return 0, errors.WrapPrefix(callErr, "ReadConsoleInputW", 0)
	}

	n := 0
	for _, rec := range b.records[:read] {
		if rec.EventType != keyEventType || rec.KeyDown == 0 {
			continue
		}
		n += encodeKeyRecord(p[n:], rec)
	}
	return n, nil
}

// encodeKeyRecord writes the byte form of a key-down record into p, returns bytes written
func encodeKeyRecord(p []byte, rec inputRecord) int {
	var seq []byte
	switch rec.VirtualKeyCode {
	case vkUp:
		seq = []byte{byteEsc, '[', 'A'}
	case vkDown:
		seq = []byte{byteEsc, '[', 'B'}
	case vkRight:
		seq = []byte{byteEsc, '[', 'C'}
	case vkLeft:
		seq = []byte{byteEsc, '[', 'D'}
	case vkEscape:
		seq = []byte{byteEsc}
	case vkReturn:
		seq = []byte{byteCR}
	case vkBack:
		seq = []byte{byteDEL}
	case vkTab:
		seq = []byte{byteTab}
	case vkShift, vkCtrl, vkMenu:
		return 0
	default:
		if rec.Char == 0 {
			// No character and no mapping: surfaces as KeyUnknown
			seq = []byte{byteEsc, '[', '?'}
		} else {
			var buf [utf8.UTFMax]byte
			size := utf8.EncodeRune(buf[:], rune(rec.Char))
			seq = buf[:size]
		}
	}
	if len(seq) > len(p) {
		return 0
	}
	return copy(p, seq)
}

func (b *windowsBackend) Size() (int, int, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(b.out, &info); err != nil {
		return 0, 0, errors.WrapPrefix(err, "GetConsoleScreenBufferInfo", 0)
	}
	cols := int(info.Window.Right-info.Window.Left) + 1
	rows := int(info.Window.Bottom-info.Window.Top) + 1
	return cols, rows, nil
}
