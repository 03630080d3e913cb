package terminal

import (
	"time"

	"github.com/go-errors/errors"
	"go.uber.org/zap"
)

// ErrNotTerminal is returned by Enable when stdin is not an interactive console
var ErrNotTerminal = errors.Errorf("stdin is not a terminal")

// readChunk bounds a single non-blocking read
const readChunk = 256

// Session owns the raw-mode terminal state and the pending input queue.
// Acquire with Enable and always pair with a deferred Restore.
type Session struct {
	backend Backend
	decoder *Decoder
	buf     []byte
	now     func() time.Time
	log     *zap.Logger

	enabled  bool
	attempts bool // Enable was called, Restore has work to do
	restored bool
}

// NewSession creates a session on the platform console backend
func NewSession(escapeTimeout time.Duration, log *zap.Logger) *Session {
	return NewSessionWithBackend(NewBackend(), escapeTimeout, log)
}

// NewSessionWithBackend creates a session on an explicit backend
func NewSessionWithBackend(b Backend, escapeTimeout time.Duration, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		backend: b,
		decoder: NewDecoder(escapeTimeout),
		buf:     make([]byte, readChunk),
		now:     time.Now,
		log:     log,
	}
}

// Enable switches the terminal into raw non-blocking input mode.
// Safe to call once; a second call is a no-op.
func (s *Session) Enable() error {
	if s.enabled {
		return nil
	}
	if s.restored {
		return errors.Errorf("terminal session already restored")
	}
	s.attempts = true
	if err := s.backend.Enable(); err != nil {
		s.log.Error("raw mode enable failed", zap.Error(err))
		return err
	}
	s.enabled = true
	s.log.Debug("raw mode enabled")
	return nil
}

// Restore reapplies the saved terminal settings. Idempotent: only the first call
// after Enable touches the terminal, later calls return nil.
func (s *Session) Restore() error {
	if s.restored || !s.attempts {
		return nil
	}
	s.restored = true
	s.enabled = false

	if err := s.backend.Restore(); err != nil {
		s.log.Error("raw mode restore failed", zap.Error(err))
		return err
	}
	s.log.Debug("raw mode restored")
	return nil
}

// Enabled reports whether raw mode is active
func (s *Session) Enabled() bool {
	return s.enabled
}

// Poll performs one non-blocking read and returns the key events decoded from
// it, in input order. Incomplete sequences are kept for the next Poll.
func (s *Session) Poll() ([]KeyEvent, error) {
	n, err := s.backend.Read(s.buf)
	if err != nil {
		return nil, err
	}
	return s.decoder.Feed(s.buf[:n], s.now()), nil
}

// Size returns the terminal size in cells; errors are reported, never defaulted
func (s *Session) Size() (cols, rows int, err error) {
	return s.backend.Size()
}
