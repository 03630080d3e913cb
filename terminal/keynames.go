package terminal

import "strconv"

// keyToName maps Key constants to canonical string names
var keyToName = map[Key]string{
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyUnknown:   "unknown",
}

// String returns the canonical name, used as the metrics label
func (k Key) String() string {
	if name, ok := keyToName[k]; ok {
		return name
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// String renders literal characters quoted and symbolic keys by name
func (e KeyEvent) String() string {
	if e.Key == KeyRune {
		return strconv.QuoteRune(e.Rune)
	}
	return e.Key.String()
}
