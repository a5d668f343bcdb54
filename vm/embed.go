package vm

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// EvalString evaluates source, which may contain any number of
// '.'-terminated top-level phrases, against ctx's operand stack (§4.5
// joy_eval_string). Each phrase is read, executed, and (per
// Config.Autoput) printed in turn; evaluation stops at the first error,
// which is both returned and recorded for LastError.
func (ctx *Context) EvalString(source string) error {
	return ctx.evalFrom(bufio.NewReader(strings.NewReader(source)), "")
}

// EvalFile is the same contract as EvalString, reading phrases from r
// until EOF, with filename attached to any reported error (§4.5
// joy_eval_file).
func (ctx *Context) EvalFile(r io.Reader, filename string) error {
	return ctx.evalFrom(bufio.NewReader(r), filename)
}

// LoadStdlib evaluates the Joy source at path (or "usrlib.joy" if path
// is empty) as a one-shot EvalFile call, the idiomatic stand-in for
// joy_load_stdlib's default-path behavior.
func (ctx *Context) LoadStdlib(path string) error {
	if path == "" {
		path = "usrlib.joy"
	}
	f, err := os.Open(path)
	if err != nil {
		e := Wrapf(err, IO, "load stdlib: %s", path)
		ctx.lastError = e
		return e
	}
	defer f.Close()
	return ctx.EvalFile(f, path)
}

func (ctx *Context) evalFrom(br *bufio.Reader, filename string) error {
	if ctx.reader == nil {
		e := NewError(RUNTIME, "no reader installed: call SetReader before Eval*")
		ctx.lastError = e
		return e
	}
	for {
		phrase, err := ctx.reader.ReadPhrase(ctx, br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			e := AsError(err)
			e.Recovery = RecoverRetry
			ctx.lastError = e
			ctx.io.OnError(e.Result, e.Message, filename, e.Line, e.Column)
			return e
		}
		if err := ctx.Exec(phrase); err != nil {
			e := AsError(err)
			ctx.lastError = e
			ctx.io.OnError(e.Result, e.Message, filename, e.Line, e.Column)
			return e
		}
		ctx.lastError = nil
		ctx.Print()
	}
}
