package render

import (
	"os"
	"runtime"

	"github.com/go-errors/errors"
	"github.com/muesli/termenv"
)

// Backend names accepted by Select
const (
	NameAuto    = "auto"
	NameANSI    = "ansi"
	NameConsole = "console"
)

// ErrUnknownBackend is returned by Select for names it does not recognise
var ErrUnknownBackend = errors.Errorf("unknown render backend")

// Select builds the backend named by name, resolving "auto" once from the
// platform and the terminal's advertised color profile
func Select(name string, out *os.File, size SizeFunc) (Backend, error) {
	switch ResolveName(name, runtime.GOOS, termenv.EnvColorProfile()) {
	case NameANSI:
		return NewANSIBackend(out, size), nil
	case NameConsole:
		sink, err := NewPlatformSink(out)
		if err != nil {
			return nil, err
		}
		return NewConsoleBackend(sink, size), nil
	}
	return nil, errors.WrapPrefix(ErrUnknownBackend, name, 0)
}

// ResolveName maps a configured backend name to a concrete one. Windows
// consoles get the attribute backend; elsewhere truecolor terminals get ANSI.
func ResolveName(name, goos string, profile termenv.Profile) string {
	switch name {
	case NameANSI, NameConsole:
		return name
	case NameAuto, "":
		if goos == "windows" {
			return NameConsole
		}
		if profile == termenv.TrueColor {
			return NameANSI
		}
		return NameConsole
	}
	return name
}
