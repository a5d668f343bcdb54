package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerDict wires dempty/dput/dget/dhas/ddel/dkeys/dvals/dsize/>dict
// (src/builtin/dict.c). DICT values are immutable from Joy's point of
// view: dput/ddel build a new DICT node rather than mutating the one
// popped, mirroring dict.c's dict_copy-before-write discipline.
func registerDict(ctx *vm.Context) {
	def(ctx, "dempty", func(ctx *vm.Context) error {
		ctx.Push(vm.Node{Tag: vm.DICT, Val: ctx.NewDict()})
		return nil
	})

	def(ctx, "dput", func(ctx *vm.Context) error {
		if err := ctx.Need("dput", 3); err != nil {
			return err
		}
		valIdx, err := ctx.PopIndex("dput")
		if err != nil {
			return err
		}
		key, err := ctx.PopString("dput")
		if err != nil {
			return err
		}
		d, err := ctx.Pop("dput")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dput: expected a dictionary")
		}
		newID := ctx.NewDict()
		for _, e := range ctx.DictEntries(d.Val) {
			ctx.DictPut(newID, e.Key, e.Value)
		}
		ctx.DictPut(newID, key, valIdx)
		ctx.Push(vm.Node{Tag: vm.DICT, Val: newID})
		return nil
	})

	def(ctx, "dget", func(ctx *vm.Context) error {
		if err := ctx.Need("dget", 2); err != nil {
			return err
		}
		key, err := ctx.PopString("dget")
		if err != nil {
			return err
		}
		d, err := ctx.Pop("dget")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dget: expected a dictionary")
		}
		val, ok := ctx.DictGet(d.Val, key)
		if !ok {
			return vm.NewError(vm.RUNTIME, "dget: key not found in dictionary")
		}
		ctx.PushIndex(val)
		return nil
	})

	def(ctx, "dhas", func(ctx *vm.Context) error {
		if err := ctx.Need("dhas", 2); err != nil {
			return err
		}
		key, err := ctx.PopString("dhas")
		if err != nil {
			return err
		}
		d, err := ctx.Pop("dhas")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dhas: expected a dictionary")
		}
		_, ok := ctx.DictGet(d.Val, key)
		ctx.PushBool(ok)
		return nil
	})

	def(ctx, "ddel", func(ctx *vm.Context) error {
		if err := ctx.Need("ddel", 2); err != nil {
			return err
		}
		key, err := ctx.PopString("ddel")
		if err != nil {
			return err
		}
		d, err := ctx.Pop("ddel")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "ddel: expected a dictionary")
		}
		newID := ctx.NewDict()
		for _, e := range ctx.DictEntries(d.Val) {
			if e.Key != key {
				ctx.DictPut(newID, e.Key, e.Value)
			}
		}
		ctx.Push(vm.Node{Tag: vm.DICT, Val: newID})
		return nil
	})

	def(ctx, "dkeys", func(ctx *vm.Context) error {
		d, err := ctx.Pop("dkeys")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dkeys: expected a dictionary")
		}
		entries := ctx.DictEntries(d.Val)
		keys := make([]vm.Node, len(entries))
		for i, e := range entries {
			keys[i] = vm.Node{Tag: vm.STRING, Str: e.Key}
		}
		ctx.PushQuotation(ctx.SliceToList(keys))
		return nil
	})

	def(ctx, "dvals", func(ctx *vm.Context) error {
		d, err := ctx.Pop("dvals")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dvals: expected a dictionary")
		}
		entries := ctx.DictEntries(d.Val)
		head := vm.NilIndex
		for i := len(entries) - 1; i >= 0; i-- {
			head = ctx.NewNodeFrom(entries[i].Value, head)
		}
		ctx.PushQuotation(head)
		return nil
	})

	def(ctx, "dsize", func(ctx *vm.Context) error {
		d, err := ctx.Pop("dsize")
		if err != nil {
			return err
		}
		if d.Tag != vm.DICT {
			return vm.NewError(vm.TYPE, "dsize: expected a dictionary")
		}
		ctx.PushInt(int64(len(ctx.DictEntries(d.Val))))
		return nil
	})

	def(ctx, ">dict", func(ctx *vm.Context) error {
		lis, err := ctx.Pop(">dict")
		if err != nil {
			return err
		}
		if lis.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, ">dict: expected a list of [key value] pairs")
		}
		newID := ctx.NewDict()
		for _, pair := range ctx.ListToSlice(lis.Val) {
			if pair.Tag != vm.LIST {
				return vm.NewError(vm.TYPE, ">dict: expected a list of [key value] pairs")
			}
			kv := ctx.ListToSlice(pair.Val)
			if len(kv) != 2 || kv[0].Tag != vm.STRING {
				return vm.NewError(vm.TYPE, ">dict: expected a [key value] pair with a string key")
			}
			ctx.DictPut(newID, kv[0].Str, ctx.Cons(kv[1], vm.NilIndex))
		}
		ctx.Push(vm.Node{Tag: vm.DICT, Val: newID})
		return nil
	})
}
