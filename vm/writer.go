package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// controlEscape mirrors write.c's "btnvfr" table: backspace through
// carriage-return escape to their C-style mnemonics.
var controlEscape = "btnvfr"

// WriteFactor appends the readable-format rendering of a single factor
// to sb (§6 "write"/"print"; original_source/src/write.c:writefactor).
// USER_DEFINED and ANONYMOUS_FUNCTION render as their symbol's name, so
// a quotation containing a call prints the call by name rather than
// unrolling its definition.
func (ctx *Context) WriteFactor(sb *strings.Builder, n Node) {
	switch n.Tag {
	case USER_DEFINED:
		sb.WriteString(ctx.symtab.Entry(n.Val).Name)

	case ANONYMOUS_FUNCTION:
		sb.WriteString(ctx.symtab.Entry(n.Val).Name)

	case BOOLEAN:
		if n.Num != 0 {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case CHARACTER:
		writeCharLiteral(sb, rune(n.Num))

	case INTEGER:
		sb.WriteString(strconv.FormatInt(n.Num, 10))

	case SET:
		sb.WriteByte('{')
		first := true
		for i := 0; i < 64; i++ {
			if n.Set&(uint64(1)<<uint(i)) == 0 {
				continue
			}
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			sb.WriteString(strconv.Itoa(i))
		}
		sb.WriteByte('}')

	case STRING:
		writeStringLiteral(sb, n.Str)

	case LIST:
		sb.WriteByte('[')
		ctx.WriteTerm(sb, n.Val)
		sb.WriteByte(']')

	case FLOAT:
		sb.WriteString(formatFloat(n.Dbl))

	case FILE:
		sb.WriteString(n.Str)

	case BIGNUM:
		sb.WriteString(n.Str)

	case DICT:
		sb.WriteByte('<')
		entries := ctx.heap.dictEntries(n.Val)
		for i, e := range entries {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeStringLiteral(sb, e.Key)
			sb.WriteByte(':')
			ctx.WriteFactor(sb, ctx.heap.Node(e.Value))
		}
		sb.WriteByte('>')

	default:
		sb.WriteString(n.Tag.String())
	}
}

func writeCharLiteral(sb *strings.Builder, r rune) {
	switch {
	case r >= 8 && r <= 13:
		sb.WriteByte('\'')
		sb.WriteByte('\\')
		sb.WriteByte(controlEscape[r-8])
	case r < 32 || r == 127:
		fmt.Fprintf(sb, "'\\%03d", int(r))
	default:
		sb.WriteByte('\'')
		sb.WriteRune(r)
	}
}

func writeStringLiteral(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r >= 8 && r <= 13:
			sb.WriteByte('\\')
			sb.WriteByte(controlEscape[r-8])
		case r < 32:
			fmt.Fprintf(sb, "\\%03d", int(r))
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

// formatFloat mirrors write.c's "%g, then force a decimal point"
// post-processing so an integral float always round-trips as a FLOAT
// rather than being misread as an INTEGER.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eE") {
		if i := strings.IndexAny(s, "eE"); i >= 0 && !strings.Contains(s[:i], ".") {
			return s[:i] + ".0" + s[i:]
		}
		return s
	}
	return s + ".0"
}

// WriteTerm appends the readable-format rendering of an entire factor
// chain, space-separated, to sb (write.c:writeterm).
func (ctx *Context) WriteTerm(sb *strings.Builder, head Index) {
	for i := head; i != NilIndex; {
		n := ctx.heap.Node(i)
		ctx.WriteFactor(sb, n)
		i = n.Next
		if i != NilIndex {
			sb.WriteByte(' ')
		}
	}
}

// Sprint renders a factor chain to a string — the primitive building
// block behind the `write`/`format` builtins and behind §8's
// round-trip testable property (reading back Sprint's output of a
// quotation must reproduce an operationally equivalent quotation).
func (ctx *Context) Sprint(head Index) string {
	var sb strings.Builder
	ctx.WriteTerm(&sb, head)
	return sb.String()
}

// SprintFactor renders a single node, as the `print`/`tostring`-style
// builtins need rather than a whole chain.
func (ctx *Context) SprintFactor(n Node) string {
	var sb strings.Builder
	ctx.WriteFactor(&sb, n)
	return sb.String()
}

// Print implements the `.`-driven autoput behavior (§6;
// original_source/src/print.c): AutoputNever does nothing, AutoputPop
// writes and consumes the top of stack, AutoputAll writes the entire
// stack left intact. Anything other than AutoputNever appends a
// trailing newline once output was produced.
func (ctx *Context) Print() {
	if ctx.stack == NilIndex {
		return
	}
	switch ctx.cfg.Autoput {
	case AutoputAll:
		ctx.io.WriteString(ctx.Sprint(ctx.stack))
	case AutoputPop:
		ctx.io.WriteString(ctx.SprintFactor(ctx.heap.Node(ctx.stack)))
		ctx.stack = ctx.heap.Node(ctx.stack).Next
	default:
		return
	}
	ctx.io.WriteChar('\n')
}
