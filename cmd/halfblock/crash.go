package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/halfblock/terminal"
)

// handleCrash resets the terminal, prints the panic and stack trace, and exits 1
func handleCrash(r any) {
	if r == nil {
		return
	}

	// Restore terminal to sane state immediately
	terminal.EmergencyReset(os.Stdout)
	os.Stdout.Sync()

	// Print to stderr so it's visible after reset
	fmt.Fprintf(os.Stderr, "\n\x1b[31mHALFBLOCK CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}
