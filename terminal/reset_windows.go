//go:build windows

package terminal

import "golang.org/x/sys/windows"

// resetTerminalMode re-enables line input and echo on the console
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	in := windows.Handle(windows.Stdin)
	var mode uint32
	if err := windows.GetConsoleMode(in, &mode); err == nil {
		windows.SetConsoleMode(in, mode|windows.ENABLE_LINE_INPUT|windows.ENABLE_ECHO_INPUT|windows.ENABLE_PROCESSED_INPUT)
	}
}
