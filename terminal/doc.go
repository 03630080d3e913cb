// Package terminal provides raw keyboard input and direct ANSI terminal control.
//
// Features:
//   - Raw-mode session with guaranteed restoration (unix termios, windows console mode)
//   - Non-blocking stdin polling with a pending-byte decoder that resumes split escape sequences
//   - Truecolor SGR sequence builders with zero-alloc integer formatting
//   - Emergency reset for panic paths
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
package terminal
