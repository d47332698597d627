package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// rawTerminal puts stdin into raw mode and delivers each key as a rune.
type rawTerminal struct {
	fd       int
	oldState *term.State
	keys     chan rune
}

func openRawTerminal() (*rawTerminal, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	t := &rawTerminal{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan rune, 16),
	}
	go t.readLoop(os.Stdin)
	return t, nil
}

// readLoop blocks on stdin; it exits when stdin closes.
func (t *rawTerminal) readLoop(r io.Reader) {
	defer close(t.keys)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			t.keys <- rune(buf[0])
		}
		if err != nil {
			return
		}
	}
}

// Keys returns the stream of pressed keys. It is closed at end of input.
func (t *rawTerminal) Keys() <-chan rune { return t.keys }

func (t *rawTerminal) Restore() {
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// crlfWriter translates \n to \r\n, since raw mode disables output
// post-processing.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
