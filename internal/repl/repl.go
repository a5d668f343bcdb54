// Package repl implements the interactive read-eval-print loop named by
// §6: one top-level phrase per top-level ".", autoput per vm.Config's
// Autoput mode, and input echo per vm.Config's Echo mode. It is
// grounded on cmd/retro/main.go's shape (a thin loop around an already
// self-contained evaluator, with the binary only wiring I/O) rather
// than on lang/retro/retro.go, whose StringCodec/ShrinkSave helpers
// serve ngaro's memory-image model and have no REPL-loop counterpart
// here. The loop itself reuses vm.Context.EvalString for execution, so
// this package only adds the interactive concerns evalFrom does not
// have: prompting, line echo, and multi-line phrase accumulation.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shakfu/joy-sub000/vm"
)

// Prompts mirrors the two prompt strings a Joy REPL conventionally
// shows: one for a fresh top-level phrase, one for a phrase still
// awaiting its terminating ".".
type Prompts struct {
	Ready      string // shown when no phrase is in progress
	Continued  string // shown while accumulating a multi-line phrase
}

// DefaultPrompts matches the reference joy binary's "joy> "/"  > " pair.
var DefaultPrompts = Prompts{Ready: "joy> ", Continued: "  > "}

// REPL drives one interactive session against a *vm.Context. It does
// not itself touch the terminal (raw mode, line editing): cmd/joy
// layers that on top the way cmd/retro/term_linux.go layers raw mode
// around a plain io.Reader.
type REPL struct {
	ctx     *vm.Context
	in      *bufio.Scanner
	out     io.Writer
	prompts Prompts
	line    int
}

// New builds a REPL reading lines from in and writing prompts/echo to
// out. The context must already have a reader installed (SetReader)
// and its primitive families registered.
func New(ctx *vm.Context, in io.Reader, out io.Writer) *REPL {
	return &REPL{ctx: ctx, in: bufio.NewScanner(in), out: out, prompts: DefaultPrompts}
}

// SetPrompts overrides the default prompt strings.
func (r *REPL) SetPrompts(p Prompts) { r.prompts = p }

// Run reads lines until EOF, accumulating each into the phrase buffer
// and evaluating the buffer as soon as a line containing a "." has been
// added. The check is textual: a "." inside a float or string literal
// also triggers evaluation. It returns nil at a clean EOF; a scan error
// from in is returned as-is.
func (r *REPL) Run() error {
	var buf strings.Builder
	for {
		fmt.Fprint(r.out, r.currentPrompt(buf.Len() > 0))
		if !r.in.Scan() {
			break
		}
		line := r.in.Text()
		r.line++
		r.echo(line)
		buf.WriteString(line)
		buf.WriteByte('\n')

		if !strings.Contains(line, ".") {
			continue
		}
		phrase := buf.String()
		buf.Reset()
		if err := r.ctx.EvalString(phrase); err != nil {
			if e, ok := err.(*vm.Error); ok && e.Recovery == vm.RecoverQuit {
				return nil
			}
			// Already reported through ctx's IO.OnError by EvalString;
			// the REPL keeps going on anything short of RecoverQuit.
		}
	}
	return r.in.Err()
}

func (r *REPL) currentPrompt(continued bool) string {
	if continued {
		return r.prompts.Continued
	}
	return r.prompts.Ready
}

// echo implements the four §6 echo modes against the raw input line,
// independent of ctx's own output (which carries evaluation results,
// not input echo).
func (r *REPL) echo(line string) {
	switch r.ctx.GetEcho() {
	case vm.EchoOff:
		return
	case vm.EchoLine:
		fmt.Fprintln(r.out, line)
	case vm.EchoLineTab:
		fmt.Fprintln(r.out, "\t"+line)
	case vm.EchoLineNumber:
		fmt.Fprintf(r.out, "%4d: %s\n", r.line, line)
	}
}
