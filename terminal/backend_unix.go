//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package terminal

import (
	"os"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	inFd  int
	outFd int

	oldTerm     *term.State
	nonblockSet bool
}

// NewBackend returns the console backend for stdin/stdout
func NewBackend() Backend {
	// Fd() switches the descriptor to blocking mode, so take it once before Enable
	return &unixBackend{
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

func (b *unixBackend) Enable() error {
	if !term.IsTerminal(b.inFd) {
		return errors.New(ErrNotTerminal)
	}

	old, err := term.GetState(b.inFd)
	if err != nil {
		return errors.WrapPrefix(err, "save terminal state", 0)
	}
	b.oldTerm = old

	termios, err := unix.IoctlGetTermios(b.inFd, ioctlReadTermios)
	if err != nil {
		return errors.WrapPrefix(err, "read termios", 0)
	}
	// Only canonical mode and echo; output processing stays on so '\n' still returns the carriage
	termios.Lflag &^= unix.ICANON | unix.ECHO
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(b.inFd, ioctlWriteTermios, termios); err != nil {
		return errors.WrapPrefix(err, "write termios", 0)
	}

	if err := unix.SetNonblock(b.inFd, true); err != nil {
		return errors.WrapPrefix(err, "set stdin non-blocking", 0)
	}
	b.nonblockSet = true
	return nil
}

func (b *unixBackend) Restore() error {
	var errs []error
	if b.nonblockSet {
		if err := unix.SetNonblock(b.inFd, false); err != nil {
			errs = append(errs, err)
		}
		b.nonblockSet = false
	}
	if b.oldTerm != nil {
		if err := term.Restore(b.inFd, b.oldTerm); err != nil {
			errs = append(errs, err)
		}
		b.oldTerm = nil
	}
	if err := errors.Join(errs...); err != nil {
		return errors.WrapPrefix(err, "restore terminal", 0)
	}
	return nil
}

func (b *unixBackend) Read(p []byte) (int, error) {
	n, err := unix.Read(b.inFd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.WrapPrefix(err, "read stdin", 0)
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func (b *unixBackend) Size() (int, int, error) {
	cols, rows, err := term.GetSize(b.outFd)
	if err != nil {
		return 0, 0, errors.WrapPrefix(err, "query window size", 0)
	}
	return cols, rows, nil
}
