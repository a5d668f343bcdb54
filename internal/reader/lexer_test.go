package reader

import (
	"bufio"
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []token {
	t.Helper()
	l := newLexer(bufio.NewReader(strings.NewReader(src)), nil)
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexIntegerAndFloat(t *testing.T) {
	toks := lexAll(t, "1 2.5 -3")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	if toks[0].kind != tINTEGER || toks[0].num != 1 {
		t.Fatalf("got %+v, want integer 1", toks[0])
	}
	if toks[1].kind != tFLOAT || toks[1].dbl != 2.5 {
		t.Fatalf("got %+v, want float 2.5", toks[1])
	}
	if toks[2].kind != tINTEGER || toks[2].num != -3 {
		t.Fatalf("got %+v, want integer -3", toks[2])
	}
}

func TestLexSymbolAndKeyword(t *testing.T) {
	toks := lexAll(t, "foo MODULE PRIVATE")
	if toks[0].kind != tUSR || toks[0].str != "foo" {
		t.Fatalf("got %+v, want usr foo", toks[0])
	}
	if toks[1].kind != tMODULE {
		t.Fatalf("got %+v, want MODULE", toks[1])
	}
	if toks[2].kind != tPRIVATE {
		t.Fatalf("got %+v, want PRIVATE", toks[2])
	}
}

func TestLexQualifiedName(t *testing.T) {
	toks := lexAll(t, "Math.sqrt")
	if len(toks) != 1 || toks[0].kind != tUSR || toks[0].str != "Math.sqrt" {
		t.Fatalf("got %+v, want a single qualified identifier", toks)
	}
}

func TestLexNumberThenMemberPeriod(t *testing.T) {
	toks := lexAll(t, "5.")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (the integer then a separate period)", len(toks))
	}
	if toks[0].kind != tINTEGER || toks[0].num != 5 {
		t.Fatalf("got %+v, want integer 5", toks[0])
	}
	if toks[1].kind != tPERIOD {
		t.Fatalf("got %+v, want a period token", toks[1])
	}
}

func TestLexString(t *testing.T) {
	toks := lexAll(t, `"hello\nworld"`)
	if len(toks) != 1 || toks[0].kind != tSTRING {
		t.Fatalf("got %+v, want one string token", toks)
	}
	if toks[0].str != "hello\nworld" {
		t.Fatalf("got %q, want %q", toks[0].str, "hello\nworld")
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\"b\\c"`)
	if toks[0].str != `a"b\c` {
		t.Fatalf("got %q, want %q", toks[0].str, `a"b\c`)
	}
}

func TestLexCharLiteral(t *testing.T) {
	toks := lexAll(t, `'A '\n`)
	if toks[0].kind != tCHAR || toks[0].num != 'A' {
		t.Fatalf("got %+v, want char 'A'", toks[0])
	}
	if toks[1].kind != tCHAR || toks[1].num != '\n' {
		t.Fatalf("got %+v, want char newline", toks[1])
	}
}

func TestLexBracketsAndBraces(t *testing.T) {
	toks := lexAll(t, "[ { } ]")
	kinds := []tokenKind{tLBRACK, tLBRACE, tRBRACE, tRBRACK}
	for i, k := range kinds {
		if toks[i].kind != k {
			t.Fatalf("index %d: got %v, want %v", i, toks[i].kind, k)
		}
	}
}

func TestLexLineComment(t *testing.T) {
	toks := lexAll(t, "1 # this is a comment\n2")
	if len(toks) != 2 || toks[0].num != 1 || toks[1].num != 2 {
		t.Fatalf("got %+v, want [1 2]", toks)
	}
}

func TestLexBlockComment(t *testing.T) {
	toks := lexAll(t, "1 (* skip this *) 2")
	if len(toks) != 2 || toks[0].num != 1 || toks[1].num != 2 {
		t.Fatalf("got %+v, want [1 2]", toks)
	}
}

func TestIsSafeCommand(t *testing.T) {
	if !isSafeCommand("ls -la ./foo") {
		t.Fatal("expected a plain path/flag command to be safe")
	}
	if isSafeCommand("rm -rf / ; echo pwned") {
		t.Fatal("expected a command with a shell metacharacter to be unsafe")
	}
	if isSafeCommand("echo $(whoami)") {
		t.Fatal("expected command substitution to be unsafe")
	}
}

func TestShellEscapeRequiresHandler(t *testing.T) {
	var ran string
	l := newLexer(bufio.NewReader(strings.NewReader("$ls -la\n1")), func(cmd string) error {
		ran = cmd
		return nil
	})
	tok, err := l.next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.kind != tINTEGER || tok.num != 1 {
		t.Fatalf("got %+v, want the integer after the shell line", tok)
	}
	if ran != "ls -la" {
		t.Fatalf("got %q, want %q", ran, "ls -la")
	}
}

func TestShellEscapeRejectsUnsafeCommand(t *testing.T) {
	called := false
	l := newLexer(bufio.NewReader(strings.NewReader("$rm -rf /; echo hi\n1")), func(cmd string) error {
		called = true
		return nil
	})
	if _, err := l.next(); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("expected the unsafe shell command to be rejected before invoking the handler")
	}
}
