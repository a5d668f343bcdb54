// Package reader is the scanner/term-reader collaborator described in
// §6: it owns every concern of turning source text into vm.Node chains
// so vm itself never imports a parsing package. It implements
// vm.Reader, grounded on original_source/src/factor.c's readfactor/
// readterm and the LIBRA/MODULE/HIDE definition machinery spread across
// interp.c and joy.c.
package reader

import (
	"bufio"
	"io"

	"github.com/shakfu/joy-sub000/vm"
)

// Reader turns Joy source text into vm node chains, tracking the
// current module path across a stream of phrases (factor.c's enclosing
// MODULE context, scan.c's single persistent lexer state).
type Reader struct {
	shell  ShellFunc
	lex    *lexer
	module string
}

// NewReader creates a Reader. shell may be nil, in which case `$` lines
// are scanned and discarded rather than executed (scan.c's behavior
// when SHELLESCAPE support is compiled out).
func NewReader(shell ShellFunc) *Reader {
	return &Reader{shell: shell}
}

// ReadPhrase implements vm.Reader. It reads definitions (LIBRA/DEFINE,
// MODULE, HIDE) transparently, returning the node chain of the next
// ordinary top-level phrase once one is found. Definitions update
// ctx.SymbolTable() as a side effect and are not themselves returned as
// a phrase; ReadPhrase loops internally until it has either consumed a
// plain phrase or reached EOF.
func (rd *Reader) ReadPhrase(ctx *vm.Context, src *bufio.Reader) (vm.Index, error) {
	if rd.lex == nil || rd.lex.br != src {
		rd.lex = newLexer(src, rd.shell)
	}
	for {
		tok, err := rd.lex.peek()
		if err != nil {
			if err == io.EOF {
				return vm.NilIndex, io.EOF
			}
			return vm.NilIndex, toJoyError(err)
		}

		switch tok.kind {
		case tEOF:
			rd.lex.next()
			return vm.NilIndex, io.EOF

		case tLIBRA:
			rd.lex.next()
			if err := rd.readDefinitions(ctx, vm.Public); err != nil {
				return vm.NilIndex, err
			}
			continue

		case tMODULE:
			rd.lex.next()
			if err := rd.readModule(ctx); err != nil {
				return vm.NilIndex, err
			}
			continue

		case tHIDE:
			rd.lex.next()
			if err := rd.readHide(ctx); err != nil {
				return vm.NilIndex, err
			}
			continue

		case tPERIOD:
			// A bare '.' with nothing before it: skip (empty phrase).
			rd.lex.next()
			continue

		default:
			head, err := rd.readTerm(ctx, tPERIOD)
			if err != nil {
				return vm.NilIndex, err
			}
			// Consume the terminating '.'; end of input also ends the
			// last phrase.
			if _, err := rd.expect(tPERIOD); err != nil && err != io.EOF {
				return vm.NilIndex, err
			}
			return head, nil
		}
	}
}

// readDefinitions parses `name == body ; name2 == body2 ... .`, the
// body of a LIBRA/DEFINE block (factor.c's enteratom loop). Each name
// is pre-declared with a NilIndex body before its own body is parsed,
// so a definition may call itself, and any name already declared
// earlier in the same block may be called forward — a deliberate,
// reduced stand-in for the reference implementation's full two-pass
// MODULE/HIDE forward-reference scan (§9 Open Question).
func (rd *Reader) readDefinitions(ctx *vm.Context, vis vm.Visibility) error {
	for {
		nameTok, err := rd.expect(tUSR)
		if err != nil {
			return err
		}
		if _, err := rd.expect(tEQDEF); err != nil {
			return err
		}
		symIdx, _ := ctx.SymbolTable().Define(rd.module, nameTok.str, vm.NilIndex, vis)

		ctx.BeginDefinition()
		body, err := rd.readTerm(ctx, tPERIOD, tSEMI)
		if err != nil {
			ctx.EndDefinition(false)
			return err
		}
		ctx.SymbolTable().SetBody(symIdx, body)
		ctx.EndDefinition(true)

		next, err := rd.lex.peek()
		if err != nil {
			return toJoyError(err)
		}
		if next.kind == tSEMI {
			rd.lex.next()
			continue
		}
		if next.kind == tPERIOD {
			rd.lex.next()
			return nil
		}
		return rd.syntaxErrorf(next, "expected ';' or '.' after definition")
	}
}

// readModule parses `MODULE name ... END`, scoping every definition
// inside to name (§6). Nested MODULE/HIDE/LIBRA blocks are handled by
// re-entering the same dispatch used at top level.
func (rd *Reader) readModule(ctx *vm.Context) error {
	nameTok, err := rd.expect(tUSR)
	if err != nil {
		return err
	}
	outer := rd.module
	if outer == "" {
		rd.module = nameTok.str
	} else {
		rd.module = outer + "." + nameTok.str
	}
	defer func() { rd.module = outer }()

	for {
		tok, err := rd.lex.peek()
		if err != nil {
			return toJoyError(err)
		}
		switch tok.kind {
		case tPERIOD:
			rd.lex.next()
			return nil
		case tLIBRA:
			rd.lex.next()
			if err := rd.readDefinitions(ctx, vm.Public); err != nil {
				return err
			}
		case tHIDE:
			rd.lex.next()
			if err := rd.readHide(ctx); err != nil {
				return err
			}
		case tMODULE:
			rd.lex.next()
			if err := rd.readModule(ctx); err != nil {
				return err
			}
		default:
			return rd.syntaxErrorf(tok, "expected a definition inside MODULE %s", nameTok.str)
		}
	}
}

// readHide parses `HIDE defs... IN defs... END`: the first block is
// private to the enclosing module, the second is public (§6).
func (rd *Reader) readHide(ctx *vm.Context) error {
	if err := rd.readVisibilitySeq(ctx, vm.Private, tIN); err != nil {
		return err
	}
	if _, err := rd.expect(tIN); err != nil {
		return err
	}
	if err := rd.readVisibilitySeq(ctx, vm.Public, tPERIOD); err != nil {
		return err
	}
	_, err := rd.expect(tPERIOD)
	return err
}

// readVisibilitySeq parses zero or more LIBRA-less `name == body ;`
// definitions up to (but not consuming) stop, all bound at vis.
func (rd *Reader) readVisibilitySeq(ctx *vm.Context, vis vm.Visibility, stop tokenKind) error {
	for {
		tok, err := rd.lex.peek()
		if err != nil {
			return toJoyError(err)
		}
		if tok.kind == stop {
			return nil
		}
		nameTok, err := rd.expect(tUSR)
		if err != nil {
			return err
		}
		if _, err := rd.expect(tEQDEF); err != nil {
			return err
		}
		symIdx, _ := ctx.SymbolTable().Define(rd.module, nameTok.str, vm.NilIndex, vis)

		ctx.BeginDefinition()
		body, err := rd.readTerm(ctx, stop, tSEMI)
		if err != nil {
			ctx.EndDefinition(false)
			return err
		}
		ctx.SymbolTable().SetBody(symIdx, body)
		ctx.EndDefinition(true)

		next, err := rd.lex.peek()
		if err != nil {
			return toJoyError(err)
		}
		if next.kind == tSEMI {
			rd.lex.next()
			continue
		}
		if next.kind == stop {
			return nil
		}
		return rd.syntaxErrorf(next, "expected ';' in definition sequence")
	}
}

// readTerm reads a run of factors into a node chain, stopping (without
// consuming) at the first token whose kind is in stops — readfactor's
// main loop in factor.c, generalized over its several distinct
// terminators ('.', ';', ']', '}').
func (rd *Reader) readTerm(ctx *vm.Context, stops ...tokenKind) (vm.Index, error) {
	var elems []vm.Node
	for {
		tok, err := rd.lex.peek()
		if err != nil {
			if err == io.EOF && isStop(tPERIOD, stops) {
				break
			}
			return vm.NilIndex, toJoyError(err)
		}
		if isStop(tok.kind, stops) {
			break
		}

		n, err := rd.readFactor(ctx)
		if err != nil {
			return vm.NilIndex, err
		}
		elems = append(elems, n)
	}
	return ctx.SliceToList(elems), nil
}

func isStop(k tokenKind, stops []tokenKind) bool {
	for _, s := range stops {
		if k == s {
			return true
		}
	}
	return false
}

// readFactor reads exactly one factor: a literal, a [...] list, a {...}
// set, or a resolved symbol reference (factor.c:readfactor's per-token
// dispatch).
func (rd *Reader) readFactor(ctx *vm.Context) (vm.Node, error) {
	tok, err := rd.lex.next()
	if err != nil {
		return vm.Node{}, toJoyError(err)
	}

	switch tok.kind {
	case tINTEGER:
		return vm.Node{Tag: vm.INTEGER, Num: tok.num}, nil

	case tFLOAT:
		return vm.Node{Tag: vm.FLOAT, Dbl: tok.dbl}, nil

	case tCHAR:
		return vm.Node{Tag: vm.CHARACTER, Num: tok.num}, nil

	case tSTRING:
		return vm.Node{Tag: vm.STRING, Str: tok.str}, nil

	case tLBRACK:
		head, err := rd.readTerm(ctx, tRBRACK)
		if err != nil {
			return vm.Node{}, err
		}
		if _, err := rd.expect(tRBRACK); err != nil {
			return vm.Node{}, err
		}
		return vm.Node{Tag: vm.LIST, Val: head}, nil

	case tLBRACE:
		head, err := rd.readTerm(ctx, tRBRACE)
		if err != nil {
			return vm.Node{}, err
		}
		if _, err := rd.expect(tRBRACE); err != nil {
			return vm.Node{}, err
		}
		set, err := list2set(ctx, head)
		if err != nil {
			return vm.Node{}, err
		}
		return vm.Node{Tag: vm.SET, Set: set}, nil

	case tUSR:
		idx, ok := ctx.SymbolTable().Lookup(rd.module, tok.str)
		if !ok {
			return vm.Node{}, rd.syntaxErrorf(tok, "%s: undefined", tok.str)
		}
		entry := ctx.SymbolTable().Entry(idx)
		if entry.IsUser {
			return vm.Node{Tag: vm.USER_DEFINED, Val: idx, Str: entry.Name}, nil
		}
		return vm.Node{Tag: vm.ANONYMOUS_FUNCTION, Val: idx, Str: entry.Name}, nil

	default:
		return vm.Node{}, rd.syntaxErrorf(tok, "unexpected token in factor position")
	}
}

// list2set OR-folds an all-integer term into a bitset, mirroring
// factor.c's list2set: each element must be a small non-negative
// INTEGER naming a bit position 0..63.
func list2set(ctx *vm.Context, head vm.Index) (uint64, error) {
	var set uint64
	for _, n := range ctx.ListToSlice(head) {
		if n.Tag != vm.INTEGER || n.Num < 0 || n.Num > 63 {
			return 0, &vm.Error{Result: vm.SYNTAX, Message: "set literal members must be integers 0..63", Recovery: vm.RecoverRetry}
		}
		set |= uint64(1) << uint(n.Num)
	}
	return set, nil
}

func (rd *Reader) expect(kind tokenKind) (token, error) {
	tok, err := rd.lex.next()
	if err != nil {
		return token{}, toJoyError(err)
	}
	if tok.kind != kind {
		return token{}, rd.syntaxErrorf(tok, "unexpected token")
	}
	return tok, nil
}

func (rd *Reader) syntaxErrorf(tok token, format string, args ...interface{}) error {
	e := vm.NewError(vm.SYNTAX, format, args...)
	e.Line = tok.line
	e.Column = tok.col
	return e
}

func toJoyError(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	if le, ok := err.(*LexError); ok {
		return &vm.Error{Result: vm.SYNTAX, Message: le.Msg, Line: le.Line, Column: le.Col, Recovery: vm.RecoverRetry}
	}
	return vm.NewError(vm.SYNTAX, "%s", err.Error())
}
