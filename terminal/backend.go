package terminal

// Backend abstracts the platform-specific console handling behind a Session.
// Unix uses termios on stdin, Windows uses console modes and input records.
type Backend interface {
	// Enable saves the current input settings, then disables line buffering and
	// echo and makes reads non-blocking. Settings saved before a failure are
	// still restored by Restore.
	Enable() error

	// Restore reapplies whatever Enable saved
	Restore() error

	// Read returns immediately with whatever input bytes are available, 0 if none
	Read(p []byte) (int, error)

	// Size returns the output dimensions in character cells
	Size() (cols, rows int, err error)
}
