package terminal

import (
	"time"
	"unicode/utf8"
)

const (
	byteEsc       = 0x1b
	byteBackspace = 0x08
	byteTab       = 0x09
	byteLF        = 0x0a
	byteCR        = 0x0d
	byteDEL       = 0x7f
)

// DefaultEscapeTimeout is the input silence after which a held ESC is emitted as Escape
const DefaultEscapeTimeout = 50 * time.Millisecond

// Decoder turns raw input bytes into key events. Bytes that may start an
// incomplete sequence stay queued until a later Feed completes them.
//
// A lone ESC cannot be told apart from the start of an arrow sequence until more
// bytes arrive. Held bytes are flushed once a Feed brings no new data after
// escapeTimeout of silence: the ESC becomes Escape and anything queued behind it
// decodes as literal characters. A zero timeout holds indefinitely.
//
// An ESC followed by any byte other than '[' is not held: it is emitted at once
// as Escape and the following byte decodes on its own.
type Decoder struct {
	// Persistent buffer for stream assembly across reads
	pending       []byte
	escapeTimeout time.Duration

	// lastInput is when bytes last arrived; zero when nothing is held
	lastInput time.Time
}

// NewDecoder creates a decoder with the given escape flush timeout
func NewDecoder(escapeTimeout time.Duration) *Decoder {
	if escapeTimeout < 0 {
		escapeTimeout = 0
	}
	return &Decoder{
		pending:       make([]byte, 0, 256),
		escapeTimeout: escapeTimeout,
	}
}

// Pending returns the number of queued undecoded bytes
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Feed appends data to the queue and decodes as much as possible.
// now is the time of the read that produced data.
func (d *Decoder) Feed(data []byte, now time.Time) []KeyEvent {
	var events []KeyEvent

	if len(data) > 0 {
		d.pending = append(d.pending, data...)
		d.lastInput = now
		events = d.drain(events, false)
	} else if len(d.pending) > 0 && d.escapeTimeout > 0 && now.Sub(d.lastInput) >= d.escapeTimeout {
		events = d.drain(events, true)
	}

	if len(d.pending) == 0 {
		d.lastInput = time.Time{}
	}
	return events
}

// Flush decodes everything queued, treating held bytes as complete
func (d *Decoder) Flush() []KeyEvent {
	events := d.drain(nil, true)
	d.lastInput = time.Time{}
	return events
}

// drain parses the queue and compacts consumed bytes away
func (d *Decoder) drain(events []KeyEvent, final bool) []KeyEvent {
	consumed, events := parseInput(d.pending, events, final)
	if consumed > 0 {
		if consumed >= len(d.pending) {
			d.pending = d.pending[:0]
		} else {
			n := copy(d.pending, d.pending[consumed:])
			d.pending = d.pending[:n]
		}
	}
	return events
}

// parseInput parses raw bytes into events and returns bytes consumed, stopping on an
// incomplete sequence unless final is set
func parseInput(data []byte, events []KeyEvent, final bool) (int, []KeyEvent) {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		switch {
		case b == byteEsc:
			consumed, ev, ok := parseEscape(data[i:], final)
			if !ok {
				return i, events // Wait for more data
			}
			events = append(events, ev)
			i += consumed

		case b == byteCR || b == byteLF:
			events = append(events, KeyEventOf(KeyEnter))
			i++

		case b == byteDEL || b == byteBackspace:
			events = append(events, KeyEventOf(KeyBackspace))
			i++

		case b == byteTab:
			events = append(events, KeyEventOf(KeyTab))
			i++

		case b < utf8.RuneSelf:
			events = append(events, RuneEvent(rune(b)))
			i++

		default:
			// UTF-8 multibyte
			if !utf8.FullRune(data[i:]) && !final {
				return i, events
			}
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size <= 1 {
				// Invalid or truncated, emit the byte itself
				r, size = rune(b), 1
			}
			events = append(events, RuneEvent(r))
			i += size
		}
	}
	return i, events
}

// parseEscape decodes a sequence starting at ESC. ok is false when more bytes are needed.
func parseEscape(data []byte, final bool) (consumed int, ev KeyEvent, ok bool) {
	switch {
	case len(data) >= 3 && data[1] == '[':
		return 3, KeyEventOf(lookupCSI(data[2])), true
	case len(data) >= 2 && data[1] != '[':
		// ESC followed by anything else is a standalone Escape, next byte decodes on its own
		return 1, KeyEventOf(KeyEscape), true
	case final:
		return 1, KeyEventOf(KeyEscape), true
	}
	return 0, KeyEvent{}, false
}
