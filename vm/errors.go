package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

// Result is the stable result code returned at the embedding boundary
// (§4.5, §7). It is the Go realization of the C API's JoyResult enum.
type Result int

// The exhaustive, stable set of result codes.
const (
	OK Result = iota
	SYNTAX
	RUNTIME
	TYPE
	STACK_UNDERFLOW
	OUT_OF_MEMORY
	IO
	QUIT
	ABORT
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case SYNTAX:
		return "syntax error"
	case RUNTIME:
		return "runtime error"
	case TYPE:
		return "type error"
	case STACK_UNDERFLOW:
		return "stack underflow"
	case OUT_OF_MEMORY:
		return "out of memory"
	case IO:
		return "io error"
	case QUIT:
		return "quit"
	case ABORT:
		return "abort"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Recovery is the error-jump recovery code (§7): whether the evaluator
// loop can resume at the next top-level phrase (Retry), must unwind to
// the embedder (Quit), or ran clean (None).
type Recovery int

const (
	RecoverNone Recovery = iota
	RecoverRetry
	RecoverQuit
)

// Error is the structured error every primitive, the evaluator and the
// reader raise instead of the reference implementation's setjmp/longjmp
// (§9: "model as a result-carrying evaluator ... the embedder's
// jump-to-recovery is replaced by a normal error return"). It mirrors
// EnvError/joy_error_* from original_source/include/internal/env_types.h
// and include/joy/joy.h.
type Error struct {
	Result   Result
	Message  string
	Line     int
	Column   int
	Recovery Recovery
	cause    error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d, col %d)", e.Result, e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Result, e.Message)
}

// Unwrap lets errors.Is/As see through to an underlying cause, when one
// was attached with Wrapf.
func (e *Error) Unwrap() error { return e.cause }

// NewError builds a RETRY-recoverable error of the given result kind.
// Memory growth failures are the one case that always escalates to
// RecoverQuit regardless of the caller's Result; NewError never does that
// implicitly, callers raising OUT_OF_MEMORY should use Fatalf.
func NewError(result Result, format string, args ...interface{}) *Error {
	return &Error{
		Result:   result,
		Message:  fmt.Sprintf(format, args...),
		Recovery: RecoverRetry,
	}
}

// Fatalf builds a QUIT-recoverable error: OUT_OF_MEMORY failures and the
// `quit`/abort primitives use this (§7: "Memory growth failures always
// behave as QUIT-equivalent").
func Fatalf(result Result, format string, args ...interface{}) *Error {
	return &Error{
		Result:   result,
		Message:  fmt.Sprintf(format, args...),
		Recovery: RecoverQuit,
	}
}

// Wrapf annotates an underlying error (typically from I/O) into a Joy
// Error, in the teacher's pkg/errors annotate-and-propagate style.
func Wrapf(cause error, result Result, format string, args ...interface{}) *Error {
	return &Error{
		Result:   result,
		Message:  errors.Wrapf(cause, format, args...).Error(),
		Recovery: RecoverRetry,
		cause:    cause,
	}
}

// AsError unwraps err into a *Error if possible, otherwise wraps it as a
// generic RUNTIME/RecoverRetry error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Result: RUNTIME, Message: err.Error(), Recovery: RecoverRetry, cause: err}
}
