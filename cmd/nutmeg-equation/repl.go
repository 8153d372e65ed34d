package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/spicery/nutmeg-equation/pkg/equation"
	"github.com/spicery/nutmeg-equation/pkg/session"
)

func printBanner(w io.Writer) {
	fmt.Fprint(w, "nutmeg-equation (Ctrl+D to exit)\r\n")
	fmt.Fprint(w, "  type a/b, + - * :, single letters or digits; Enter commits\r\n")
	fmt.Fprint(w, "  Backspace deletes, Ctrl+U clears input, Ctrl+L resets the canvas\r\n\r\n")
}

// display redraws the prompt line. Renders come from the key loop and from
// the message-expiry timer, so writes are serialized and a snapshot older
// than the last one drawn is dropped.
type display struct {
	mu   sync.Mutex
	out  io.Writer
	last uint64
}

func (d *display) render(snap session.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if snap.Version < d.last {
		return
	}
	d.last = snap.Version
	fmt.Fprintf(d.out, "\r\x1b[K%s", formatPrompt(snap))
}

// formatPrompt lays out verdict, message, canvas and live input, leaving the
// live input last so the cursor sits after it.
func formatPrompt(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", snap.State)
	if snap.Message != "" {
		fmt.Fprintf(&b, " (%s)", snap.Message)
	}
	if len(snap.Canvas) > 0 {
		b.WriteString(" ")
		b.WriteString(equation.FormatSequence(snap.Canvas))
	}
	b.WriteString(" > ")
	b.WriteString(snap.LiveInput)
	return b.String()
}

// handleKey applies one key byte to the session. It returns true when the
// key ends the session.
func handleKey(sess *session.Session, b byte) bool {
	switch b {
	case 0x03, 0x04: // Ctrl+C, Ctrl+D
		return true
	case 0x0d, 0x0a: // Enter (CR or LF)
		sess.Commit()
	case 0x7f, 0x08: // Backspace (DEL or BS)
		sess.Backspace()
	case 0x15: // Ctrl+U - clear input
		sess.ClearInput()
	case 0x0c: // Ctrl+L - reset canvas
		sess.Reset()
	default:
		if b >= 0x20 && b < 0x7f {
			sess.AppendChar(rune(b))
		}
	}
	return false
}

// runRawREPL drives the session from a terminal in raw mode, one key at a
// time.
func runRawREPL(opts []session.Option) error {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	d := &display{out: os.Stdout}
	sess := session.New(append(opts, session.WithObserver(d.render))...)

	printBanner(os.Stdout)
	d.render(sess.Snapshot())

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			break
		}

		if buf[0] == 0x1b {
			// Arrow and other escape sequences: ESC [ x
			skipEscapeSequence(os.Stdin)
			continue
		}

		if handleKey(sess, buf[0]) {
			break
		}
	}

	d.mu.Lock()
	fmt.Fprint(d.out, "\r\n")
	d.mu.Unlock()
	return nil
}

func skipEscapeSequence(r io.Reader) {
	buf := make([]byte, 1)
	if n, err := r.Read(buf); err != nil || n == 0 || buf[0] != '[' {
		return
	}
	r.Read(buf)
}
