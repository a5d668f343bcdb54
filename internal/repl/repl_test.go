package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/shakfu/joy-sub000/internal/builtins"
	"github.com/shakfu/joy-sub000/internal/reader"
	"github.com/shakfu/joy-sub000/vm"
)

func newReplCtx(t *testing.T, autoput vm.Autoput) (*vm.Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctx := vm.NewContext(vm.Config{
		Autoput: autoput,
		IO:      vm.NewStdIOWith(strings.NewReader(""), &out),
	})
	builtins.Register(ctx)
	ctx.SetReader(reader.NewReader(nil))
	return ctx, &out
}

func TestRunEvaluatesPhraseAndAutoputs(t *testing.T) {
	ctx, out := newReplCtx(t, vm.AutoputPop)
	r := New(ctx, strings.NewReader("1 2 + .\n"), &bytes.Buffer{})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "3\n" {
		t.Fatalf("got %q, want %q", got, "3\n")
	}
}

func TestRunStopsOnQuitRecovery(t *testing.T) {
	ctx, out := newReplCtx(t, vm.AutoputPop)
	r := New(ctx, strings.NewReader("quit .\n42 .\n"), &bytes.Buffer{})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "" {
		t.Fatalf("got %q, want no output: Run should stop at quit before evaluating the next phrase", out.String())
	}
}

func TestRunSkipsFaultyPhraseAndContinues(t *testing.T) {
	ctx, out := newReplCtx(t, vm.AutoputPop)
	r := New(ctx, strings.NewReader("nosuchword .\n1 .\n"), &bytes.Buffer{})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "1\n" {
		t.Fatalf("got %q, want %q (the bad phrase reported but did not abort the loop)", got, "1\n")
	}
}

func TestPromptSwitchesToContinuedMidPhrase(t *testing.T) {
	ctx, _ := newReplCtx(t, vm.AutoputNever)
	var replOut bytes.Buffer
	r := New(ctx, strings.NewReader("1 2\n+ .\n"), &replOut)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	got := replOut.String()
	if !strings.HasPrefix(got, DefaultPrompts.Ready) {
		t.Fatalf("got %q, want it to start with the Ready prompt %q", got, DefaultPrompts.Ready)
	}
	if !strings.Contains(got, DefaultPrompts.Continued) {
		t.Fatalf("got %q, want a Continued prompt after the first unterminated line", got)
	}
}

func TestSetPromptsOverridesDefaults(t *testing.T) {
	ctx, _ := newReplCtx(t, vm.AutoputNever)
	var replOut bytes.Buffer
	r := New(ctx, strings.NewReader("1 .\n"), &replOut)
	r.SetPrompts(Prompts{Ready: ">> ", Continued: ".. "})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(replOut.String(), ">> ") {
		t.Fatalf("got %q, want it to start with the overridden prompt %q", replOut.String(), ">> ")
	}
}

func TestEchoModes(t *testing.T) {
	cases := []struct {
		name string
		echo vm.Echo
		want func(string) bool
	}{
		{"off", vm.EchoOff, func(s string) bool { return !strings.Contains(s, "1 .") }},
		{"line", vm.EchoLine, func(s string) bool { return strings.Contains(s, "1 .\n") }},
		{"lineTab", vm.EchoLineTab, func(s string) bool { return strings.Contains(s, "\t1 .\n") }},
		{"lineNumber", vm.EchoLineNumber, func(s string) bool { return strings.Contains(s, "1: 1 .\n") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := newReplCtx(t, vm.AutoputNever)
			ctx.SetEcho(tc.echo)
			var replOut bytes.Buffer
			r := New(ctx, strings.NewReader("1 .\n"), &replOut)
			if err := r.Run(); err != nil {
				t.Fatal(err)
			}
			if !tc.want(replOut.String()) {
				t.Fatalf("echo mode %s: got %q", tc.name, replOut.String())
			}
		})
	}
}

func TestRunTranscriptSnapshot(t *testing.T) {
	ctx, out := newReplCtx(t, vm.AutoputPop)
	ctx.SetEcho(vm.EchoLine)
	var replOut bytes.Buffer
	r := New(ctx, strings.NewReader("1 2 + .\ndup * .\n"), &replOut)
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, "repl_transcript", replOut.String())
	snaps.MatchSnapshot(t, "repl_stack_output", out.String())
}
