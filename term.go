package kilox

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by OpenSession when input is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Terminal is what the editor needs from the device it runs on.
type Terminal interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Size() (rows, cols int, err error)
}

// Session owns the terminal while the editor runs. It switches the tty to
// raw mode and the alternate screen on open and undoes both on Close.
type Session struct {
	out    *os.File
	fd     int
	orig   unix.Termios
	active atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// OpenSession puts in into raw mode. The caller must Close the session on
// every exit path.
func OpenSession(in, out *os.File) (*Session, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	orig, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Return after 100ms without input so lone ESC can be told apart
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	s := &Session{out: out, fd: fd, orig: *orig}
	s.active.Store(true)
	// Alternate screen buffer
	if _, err := s.out.Write([]byte("\x1b[?1049h")); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Read reads raw input. It returns 0, nil when the read times out.
func (s *Session) Read(p []byte) (int, error) {
	n, err := unix.Read(s.fd, p)
	if err == unix.EAGAIN || err == unix.EINTR {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

func (s *Session) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Size returns the terminal size in character cells.
func (s *Session) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(s.out.Fd()))
	if err != nil || cols == 0 {
		cols, rows, err = term.GetSize(s.fd)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get window size: %w", err)
	}
	return rows, cols, nil
}

// Active reports whether the terminal is still in raw mode.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Close leaves the alternate screen and restores the saved terminal
// attributes. Calling it more than once, or from a signal handler while the
// editor is still running, is harmless.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.out.Write([]byte("\x1b[?1049l"))
		if err := unix.IoctlSetTermios(s.fd, ioctlWriteTermios, &s.orig); err != nil {
			s.closeErr = fmt.Errorf("restore terminal: %w", err)
		}
		s.active.Store(false)
	})
	return s.closeErr
}
