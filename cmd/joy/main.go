// Command joy is the interactive/batch Joy interpreter binary named by
// §6: `joy [file] [flags]`. It mirrors cmd/retro/main.go's shape (parse
// flags, build an IO-wired interpreter, optionally switch the terminal
// to raw mode, run), swapping the teacher's plain flag package for
// spf13/cobra per SPEC_FULL.md's CLI section.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/shakfu/joy-sub000/internal/builtins"
	"github.com/shakfu/joy-sub000/internal/reader"
	"github.com/shakfu/joy-sub000/internal/repl"
	"github.com/shakfu/joy-sub000/vm"
)

var (
	flagEcho        int
	flagAutoput     int
	flagGCTrace     bool
	flagUndefError  bool
	flagLibrary     string
	flagRC          string
	flagRaw         bool
	flagEnableShell bool
)

func main() {
	root := &cobra.Command{
		Use:   "joy [file]",
		Short: "Joy concatenative language interpreter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	root.Flags().IntVar(&flagEcho, "echo", -1, "echo mode: 0 off, 1 line, 2 line+tab, 3 line+number")
	root.Flags().IntVar(&flagAutoput, "autoput", -1, "autoput mode: 0 never, 1 print+pop, 2 print all")
	root.Flags().BoolVar(&flagGCTrace, "gc-trace", false, "trace garbage collection")
	root.Flags().BoolVar(&flagUndefError, "undef-error", false, "raise on an empty user-definition body")
	root.Flags().StringVar(&flagLibrary, "with", "", "Joy source file to load before file/REPL")
	root.Flags().StringVar(&flagRC, "rc", "joyrc.yaml", "path to an optional startup config file")
	root.Flags().BoolVar(&flagRaw, "raw", false, "switch the terminal to raw mode for interactive input")
	root.Flags().BoolVar(&flagEnableShell, "enable-shell", false, "allow '$'-prefixed shell-escape lines (still allow-list gated)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	rc, err := loadRC(flagRC)
	if err != nil {
		return err
	}

	cfg := vm.Config{
		Echo:       vm.Echo(rc.Echo),
		Autoput:    vm.Autoput(rc.Autoput),
		GCTrace:    rc.GCTrace,
		UndefError: flagUndefError,
	}
	if flagEcho >= 0 {
		cfg.Echo = vm.Echo(flagEcho)
	}
	if flagAutoput >= 0 {
		cfg.Autoput = vm.Autoput(flagAutoput)
	}
	if flagGCTrace {
		cfg.GCTrace = true
	}

	ctx := vm.NewContext(cfg)
	builtins.Register(ctx)

	var shellFn reader.ShellFunc
	if flagEnableShell {
		shellFn = func(command string) error {
			c := exec.Command("/bin/sh", "-c", command)
			c.Stdout, c.Stderr = os.Stdout, os.Stderr
			return c.Run()
		}
	}
	ctx.SetReader(reader.NewReader(shellFn))

	library := flagLibrary
	if library == "" {
		library = rc.Library
	}
	if library != "" {
		if err := ctx.LoadStdlib(library); err != nil {
			return err
		}
	}

	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return ctx.EvalFile(bufio.NewReader(f), args[0])
	}

	return runREPL(ctx)
}

func runREPL(ctx *vm.Context) error {
	if flagRaw {
		restore, err := setRawIO()
		if err != nil {
			fmt.Fprintf(os.Stderr, "joy: raw mode unavailable: %v\n", err)
		} else {
			defer restore()
		}
	}
	r := repl.New(ctx, os.Stdin, os.Stdout)
	return r.Run()
}
