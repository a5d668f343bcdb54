package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// IO is the embedding façade's I/O vtable (§4.5 JoyIO): every
// output-producing primitive and the error/diagnostic paths route
// through it instead of touching stdio directly. The reference
// implementation expresses this as four optional C function pointers
// plus a user_data pointer; the idiomatic Go realization is closures, so
// there is no user_data parameter to thread through.
type IO interface {
	// ReadChar returns the next input character, or ok == false at EOF.
	ReadChar() (r rune, ok bool)
	// WriteChar writes a single character.
	WriteChar(r rune)
	// WriteString writes s verbatim.
	WriteString(s string)
	// OnError is invoked whenever an evaluation fails (§7 propagation).
	OnError(result Result, message, filename string, line, column int)
	// Tracef writes a GC-trace or other diagnostic line (§4.2 tracegc).
	// It is distinct from WriteString so a host can route program
	// output and diagnostics to different sinks.
	Tracef(format string, args ...interface{})
	// Err returns the first write error encountered, if any (mirrors
	// the teacher's ErrWriter: once set, writes keep failing silently
	// rather than panicking mid-evaluation).
	Err() error
}

// stdIO is the default IO implementation, used when Config.IO is nil.
// It wraps os.Stdin/os.Stdout the way the teacher's vm/io_helpers.go
// wraps an io.Writer into a runeWriter, and tracks the first write error
// exactly like internal/ngi.ErrWriter did.
type stdIO struct {
	in  *bufio.Reader
	out *bufio.Writer
	err error
}

// NewStdIO builds the default stdio-backed IO.
func NewStdIO() IO {
	return &stdIO{in: bufio.NewReader(os.Stdin), out: bufio.NewWriter(os.Stdout)}
}

// NewStdIOWith builds a stdio-shaped IO over arbitrary reader/writer,
// for tests and for the `--with file` input-stacking use case (§6).
func NewStdIOWith(r io.Reader, w io.Writer) IO {
	return &stdIO{in: bufio.NewReader(r), out: bufio.NewWriter(w)}
}

func (s *stdIO) ReadChar() (rune, bool) {
	r, _, err := s.in.ReadRune()
	if err != nil {
		return 0, false
	}
	return r, true
}

func (s *stdIO) WriteChar(r rune) {
	if s.err != nil {
		return
	}
	if _, err := s.out.WriteRune(r); err != nil {
		s.err = errors.Wrap(err, "write failed")
		return
	}
	s.out.Flush()
}

func (s *stdIO) WriteString(str string) {
	if s.err != nil {
		return
	}
	if _, err := s.out.WriteString(str); err != nil {
		s.err = errors.Wrap(err, "write failed")
		return
	}
	s.out.Flush()
}

func (s *stdIO) OnError(result Result, message, filename string, line, column int) {
	loc := ""
	if filename != "" {
		loc = fmt.Sprintf("%s:%d:%d: ", filename, line, column)
	}
	fmt.Fprintf(os.Stderr, "%s%s: %s\n", loc, result, message)
}

func (s *stdIO) Tracef(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func (s *stdIO) Err() error { return s.err }

// Callbacks lets a host supply individual hooks without implementing
// the full IO interface, the closure-based analogue of populating a
// JoyIO struct's function pointers field by field (§4.5). Any nil hook
// falls back to stdio behavior.
type Callbacks struct {
	ReadChar    func() (rune, bool)
	WriteChar   func(rune)
	WriteString func(string)
	OnError     func(result Result, message, filename string, line, column int)
}

type callbackIO struct {
	cb       Callbacks
	fallback IO
	err      error
}

// NewCallbackIO wraps Callbacks into an IO, using stdio for any hook
// left nil.
func NewCallbackIO(cb Callbacks) IO {
	return &callbackIO{cb: cb, fallback: NewStdIO()}
}

func (c *callbackIO) ReadChar() (rune, bool) {
	if c.cb.ReadChar != nil {
		return c.cb.ReadChar()
	}
	return c.fallback.ReadChar()
}

func (c *callbackIO) WriteChar(r rune) {
	if c.cb.WriteChar != nil {
		c.cb.WriteChar(r)
		return
	}
	c.fallback.WriteChar(r)
}

func (c *callbackIO) WriteString(s string) {
	if c.cb.WriteString != nil {
		c.cb.WriteString(s)
		return
	}
	c.fallback.WriteString(s)
}

func (c *callbackIO) OnError(result Result, message, filename string, line, column int) {
	if c.cb.OnError != nil {
		c.cb.OnError(result, message, filename, line, column)
		return
	}
	c.fallback.OnError(result, message, filename, line, column)
}

func (c *callbackIO) Tracef(format string, args ...interface{}) { c.fallback.Tracef(format, args...) }

func (c *callbackIO) Err() error { return c.err }

// WriteString writes s through the context's configured IO, for
// primitives (put, putchars) that produce program output.
func (ctx *Context) WriteString(s string) { ctx.io.WriteString(s) }

// WriteChar writes a single rune through the context's configured IO.
func (ctx *Context) WriteChar(r rune) { ctx.io.WriteChar(r) }

// ReadChar reads the next input rune through the context's configured
// IO, or ok == false at EOF.
func (ctx *Context) ReadChar() (r rune, ok bool) { return ctx.io.ReadChar() }
