package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerIO wires a core subset of src/builtin/io.c's family (put, putch,
// putchars, get) against the vm.IO interface the embedding host supplies
// (vm/io.go), rather than opening real OS file handles: this interpreter's
// only I/O surface is the vm.IO the host supplies in vm.Config.IO, so
// file-handle operations (fopen/fclose/fseek/...) have no counterpart
// here. See DESIGN.md.
func registerIO(ctx *vm.Context) {
	def(ctx, "put", func(ctx *vm.Context) error {
		n, err := ctx.Pop("put")
		if err != nil {
			return err
		}
		ctx.WriteString(ctx.SprintFactor(n) + "\n")
		return nil
	})

	def(ctx, "putch", func(ctx *vm.Context) error {
		n, err := ctx.Pop("putch")
		if err != nil {
			return err
		}
		if n.Tag != vm.CHARACTER && n.Tag != vm.INTEGER {
			return vm.NewError(vm.TYPE, "putch: expected a character")
		}
		ctx.WriteChar(rune(n.Num))
		return nil
	})

	def(ctx, "putchars", func(ctx *vm.Context) error {
		s, err := ctx.PopString("putchars")
		if err != nil {
			return err
		}
		ctx.WriteString(s)
		return nil
	})

	def(ctx, "get", func(ctx *vm.Context) error {
		r, ok := ctx.ReadChar()
		if !ok {
			return vm.NewError(vm.IO, "get: end of input")
		}
		ctx.PushChar(r)
		return nil
	})

	def(ctx, "quit", func(ctx *vm.Context) error {
		return vm.Fatalf(vm.QUIT, "quit")
	})

	def(ctx, "abort", func(ctx *vm.Context) error {
		return vm.Fatalf(vm.ABORT, "abort")
	})
}
