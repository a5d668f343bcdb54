package builtins

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shakfu/joy-sub000/vm"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// registerStrings wires chr/ord/strtod/strtol (src/builtin/strings.c),
// tostring (src/builtin/tostring.c, delegated to vm.Context.SprintFactor,
// which already implements the same value-to-text rules), and upper/lower
// case-folding enrichments built on golang.org/x/text/cases, which handles
// Unicode casing correctly where strings.ToUpper/ToLower do not.
func registerStrings(ctx *vm.Context) {
	def(ctx, "chr", func(ctx *vm.Context) error {
		n, err := ctx.Pop("chr")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.INTEGER, vm.BOOLEAN, vm.CHARACTER:
			ctx.PushChar(rune(n.Num))
		default:
			return vm.NewError(vm.TYPE, "chr: expected an integer, boolean or character")
		}
		return nil
	})

	def(ctx, "ord", func(ctx *vm.Context) error {
		n, err := ctx.Pop("ord")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.CHARACTER, vm.BOOLEAN, vm.INTEGER:
			ctx.PushInt(n.Num)
		default:
			return vm.NewError(vm.TYPE, "ord: expected a character, boolean or integer")
		}
		return nil
	})

	def(ctx, "strtod", func(ctx *vm.Context) error {
		s, err := ctx.PopString("strtod")
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return vm.NewError(vm.RUNTIME, "strtod: %v", err)
		}
		ctx.PushFloat(f)
		return nil
	})

	def(ctx, "strtol", func(ctx *vm.Context) error {
		if err := ctx.Need("strtol", 2); err != nil {
			return err
		}
		base, err := ctx.PopInteger("strtol")
		if err != nil {
			return err
		}
		s, err := ctx.PopString("strtol")
		if err != nil {
			return err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), int(base), 64)
		if err != nil {
			return vm.NewError(vm.RUNTIME, "strtol: %v", err)
		}
		ctx.PushInt(v)
		return nil
	})

	def(ctx, "tostring", func(ctx *vm.Context) error {
		n, err := ctx.Pop("tostring")
		if err != nil {
			return err
		}
		ctx.PushString(ctx.SprintFactor(n))
		return nil
	})

	def(ctx, "upper", func(ctx *vm.Context) error {
		s, err := ctx.PopString("upper")
		if err != nil {
			return err
		}
		ctx.PushString(upperCaser.String(s))
		return nil
	})

	def(ctx, "lower", func(ctx *vm.Context) error {
		s, err := ctx.PopString("lower")
		if err != nil {
			return err
		}
		ctx.PushString(lowerCaser.String(s))
		return nil
	})
}
