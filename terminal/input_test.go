package terminal

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func expectEvents(t *testing.T, got, want []KeyEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d events %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDecodeSingleBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want KeyEvent
	}{
		{"letter", "a", RuneEvent('a')},
		{"digit", "7", RuneEvent('7')},
		{"space", " ", RuneEvent(' ')},
		{"carriage return", "\r", KeyEventOf(KeyEnter)},
		{"line feed", "\n", KeyEventOf(KeyEnter)},
		{"delete", "\x7f", KeyEventOf(KeyBackspace)},
		{"backspace control", "\x08", KeyEventOf(KeyBackspace)},
		{"tab", "\t", KeyEventOf(KeyTab)},
		{"other control", "\x01", RuneEvent(0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(0)
			expectEvents(t, d.Feed([]byte(tt.in), epoch), []KeyEvent{tt.want})
			if d.Pending() != 0 {
				t.Errorf("Expected empty queue, got %d bytes", d.Pending())
			}
		})
	}
}

func TestDecodeArrows(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[Z", KeyUnknown},
		{"\x1b[5", KeyUnknown},
	}

	for _, tt := range tests {
		d := NewDecoder(0)
		expectEvents(t, d.Feed([]byte(tt.in), epoch), []KeyEvent{KeyEventOf(tt.want)})
	}
}

func TestDecodePreservesOrder(t *testing.T) {
	d := NewDecoder(0)
	got := d.Feed([]byte("a\x1b[Ab\r\x1b[Dc"), epoch)
	expectEvents(t, got, []KeyEvent{
		RuneEvent('a'),
		KeyEventOf(KeyUp),
		RuneEvent('b'),
		KeyEventOf(KeyEnter),
		KeyEventOf(KeyLeft),
		RuneEvent('c'),
	})
}

func TestDecodeSplitSequence(t *testing.T) {
	d := NewDecoder(0)

	if got := d.Feed([]byte{byteEsc}, epoch); len(got) != 0 {
		t.Fatalf("Expected lone ESC to be held, got %v", got)
	}
	if d.Pending() != 1 {
		t.Fatalf("Expected 1 pending byte, got %d", d.Pending())
	}

	if got := d.Feed([]byte("["), epoch); len(got) != 0 {
		t.Fatalf("Expected ESC [ to be held, got %v", got)
	}
	if d.Pending() != 2 {
		t.Fatalf("Expected 2 pending bytes, got %d", d.Pending())
	}

	expectEvents(t, d.Feed([]byte("Cx"), epoch), []KeyEvent{KeyEventOf(KeyRight), RuneEvent('x')})
	if d.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d bytes", d.Pending())
	}
}

func TestDecodeHeldAfterPrefix(t *testing.T) {
	d := NewDecoder(0)
	expectEvents(t, d.Feed([]byte("ab\x1b["), epoch), []KeyEvent{RuneEvent('a'), RuneEvent('b')})
	if d.Pending() != 2 {
		t.Fatalf("Expected ESC [ held, got %d pending", d.Pending())
	}
	expectEvents(t, d.Feed([]byte("A"), epoch), []KeyEvent{KeyEventOf(KeyUp)})
}

func TestDecodeEscapeFollowedByOther(t *testing.T) {
	d := NewDecoder(0)
	expectEvents(t, d.Feed([]byte("\x1bq"), epoch), []KeyEvent{KeyEventOf(KeyEscape), RuneEvent('q')})

	d = NewDecoder(0)
	expectEvents(t, d.Feed([]byte("\x1b\x1b[B"), epoch), []KeyEvent{KeyEventOf(KeyEscape), KeyEventOf(KeyDown)})
}

func TestLoneEscapeHeldWithoutTimeout(t *testing.T) {
	d := NewDecoder(0)
	d.Feed([]byte{byteEsc}, epoch)

	// No timeout configured: the ESC waits indefinitely
	if got := d.Feed(nil, epoch.Add(time.Hour)); len(got) != 0 {
		t.Errorf("Expected no events, got %v", got)
	}
	if d.Pending() != 1 {
		t.Errorf("Expected ESC still pending, got %d", d.Pending())
	}
}

func TestLoneEscapeFlushedAfterTimeout(t *testing.T) {
	d := NewDecoder(DefaultEscapeTimeout)
	d.Feed([]byte{byteEsc}, epoch)

	if got := d.Feed(nil, epoch.Add(DefaultEscapeTimeout/2)); len(got) != 0 {
		t.Fatalf("Expected ESC held before timeout, got %v", got)
	}

	got := d.Feed(nil, epoch.Add(DefaultEscapeTimeout))
	expectEvents(t, got, []KeyEvent{KeyEventOf(KeyEscape)})
	if d.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d", d.Pending())
	}
}

func TestTimeoutFlushesPartialCSI(t *testing.T) {
	d := NewDecoder(DefaultEscapeTimeout)
	d.Feed([]byte("\x1b["), epoch)

	got := d.Feed(nil, epoch.Add(2*DefaultEscapeTimeout))
	expectEvents(t, got, []KeyEvent{KeyEventOf(KeyEscape), RuneEvent('[')})
}

func TestTimeoutMeasuredFromLastInput(t *testing.T) {
	d := NewDecoder(DefaultEscapeTimeout)
	d.Feed([]byte{byteEsc}, epoch)

	// More bytes arriving restart the silence window
	later := epoch.Add(DefaultEscapeTimeout - time.Millisecond)
	d.Feed([]byte("["), later)

	if got := d.Feed(nil, epoch.Add(DefaultEscapeTimeout)); len(got) != 0 {
		t.Fatalf("Expected held sequence, got %v", got)
	}
	expectEvents(t, d.Feed([]byte("A"), epoch.Add(DefaultEscapeTimeout)), []KeyEvent{KeyEventOf(KeyUp)})
}

func TestDecodeUTF8(t *testing.T) {
	d := NewDecoder(0)
	expectEvents(t, d.Feed([]byte("é€"), epoch), []KeyEvent{RuneEvent('é'), RuneEvent('€')})

	// Split multi-byte rune resumes on next feed
	euro := []byte("€")
	if got := d.Feed(euro[:1], epoch); len(got) != 0 {
		t.Fatalf("Expected partial rune held, got %v", got)
	}
	expectEvents(t, d.Feed(euro[1:], epoch), []KeyEvent{RuneEvent('€')})
}

func TestDecodeInvalidByte(t *testing.T) {
	d := NewDecoder(0)
	expectEvents(t, d.Feed([]byte{0xff, 'a'}, epoch), []KeyEvent{RuneEvent(0xff), RuneEvent('a')})
}

func TestFlush(t *testing.T) {
	d := NewDecoder(0)
	d.Feed([]byte("\x1b["), epoch)
	expectEvents(t, d.Flush(), []KeyEvent{KeyEventOf(KeyEscape), RuneEvent('[')})
	if d.Pending() != 0 {
		t.Errorf("Expected empty queue after Flush, got %d", d.Pending())
	}
}

func TestKeyNames(t *testing.T) {
	if got := KeyEventOf(KeyUp).String(); got != "up" {
		t.Errorf("Expected up, got %q", got)
	}
	if got := RuneEvent('x').String(); got != "'x'" {
		t.Errorf("Expected 'x', got %q", got)
	}
}
