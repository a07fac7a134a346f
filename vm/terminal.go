package vm

import (
	"golang.org/x/term"
)

// RawTerminal scopes acquisition of a TTY's raw, no-echo mode to the
// lifetime of VM execution, with guaranteed restoration on every exit path
// (spec §5/§9: "scoped acquisition ... guaranteed restoration on all exit
// paths including panics/aborts").
type RawTerminal struct {
	fd    int
	state *term.State
}

// EnterRawMode puts fd into raw mode, if it is a terminal. If fd is not a
// terminal (e.g. input is piped or redirected in a test), it returns a
// no-op RawTerminal so callers don't need to branch on TTY-ness.
func EnterRawMode(fd int) (*RawTerminal, error) {
	if !term.IsTerminal(fd) {
		return &RawTerminal{fd: fd}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawTerminal{fd: fd, state: state}, nil
}

// Restore puts the terminal back into canonical mode. Safe to call on a
// no-op RawTerminal and safe to call more than once.
func (r *RawTerminal) Restore() error {
	if r == nil || r.state == nil {
		return nil
	}
	err := term.Restore(r.fd, r.state)
	r.state = nil
	return err
}
