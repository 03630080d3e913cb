package terminal

// Key identifies a decoded key. KeyRune carries a literal character in KeyEvent.Rune,
// every other value is a symbolic key.
type Key uint8

const (
	KeyRune Key = iota // Literal character (check KeyEvent.Rune)
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyBackspace
	KeyTab
	KeyUnknown // Unrecognized escape sequence
)

// KeyEvent is a single decoded key press
type KeyEvent struct {
	Key  Key
	Rune rune // Only meaningful for KeyRune
}

// RuneEvent returns the literal-character event for r
func RuneEvent(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r}
}

// KeyEventOf returns the symbolic event for k
func KeyEventOf(k Key) KeyEvent {
	return KeyEvent{Key: k}
}

// csiFinals maps the final byte of ESC [ X to its key
var csiFinals = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
}

// lookupCSI maps the final byte of a three-byte CSI sequence, KeyUnknown if unmapped
func lookupCSI(final byte) Key {
	if k, ok := csiFinals[final]; ok {
		return k
	}
	return KeyUnknown
}
