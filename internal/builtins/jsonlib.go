package builtins

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/shakfu/joy-sub000/vm"
)

// registerJSON wires json>/>json (src/builtin/json.c), built on
// github.com/tidwall/gjson to decode and github.com/tidwall/sjson to
// encode, rather than a hand-rolled recursive-descent parser/emitter like
// the original C. JSON objects map to DICT, arrays to LIST.
func registerJSON(ctx *vm.Context) {
	def(ctx, "json>", func(ctx *vm.Context) error {
		s, err := ctx.PopString("json>")
		if err != nil {
			return err
		}
		if !gjson.Valid(s) {
			return vm.NewError(vm.RUNTIME, "json>: invalid JSON")
		}
		ctx.Push(jsonToNode(ctx, gjson.Parse(s)))
		return nil
	})

	def(ctx, ">json", func(ctx *vm.Context) error {
		n, err := ctx.Pop(">json")
		if err != nil {
			return err
		}
		tree := nodeToInterface(ctx, n)
		// sjson.Set marshals arbitrary nested maps/slices/scalars as the
		// value argument; wrap under one key then pull the raw text back
		// out, since sjson itself always edits an existing document.
		wrapped, err := sjson.Set("{}", "v", tree)
		if err != nil {
			return vm.NewError(vm.RUNTIME, ">json: %v", err)
		}
		ctx.PushString(gjson.Get(wrapped, "v").Raw)
		return nil
	})
}

func jsonToNode(ctx *vm.Context, r gjson.Result) vm.Node {
	switch r.Type {
	case gjson.True, gjson.False:
		return vm.Node{Tag: vm.BOOLEAN, Num: boolToInt(r.Bool())}
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return vm.Node{Tag: vm.INTEGER, Num: int64(r.Num)}
		}
		return vm.Node{Tag: vm.FLOAT, Dbl: r.Num}
	case gjson.String:
		return vm.Node{Tag: vm.STRING, Str: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			var elems []vm.Node
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, jsonToNode(ctx, v))
				return true
			})
			return vm.Node{Tag: vm.LIST, Val: ctx.SliceToList(elems)}
		}
		id := ctx.NewDict()
		r.ForEach(func(k, v gjson.Result) bool {
			child := jsonToNode(ctx, v)
			ctx.DictPut(id, k.Str, ctx.Cons(child, vm.NilIndex))
			return true
		})
		return vm.Node{Tag: vm.DICT, Val: id}
	default:
		return vm.Node{Tag: vm.USER_DEFINED}
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// nodeToInterface walks a Joy value into the native Go shape sjson.Set
// knows how to marshal (map[string]interface{}, []interface{}, scalars).
func nodeToInterface(ctx *vm.Context, n vm.Node) interface{} {
	switch n.Tag {
	case vm.BOOLEAN:
		return n.Num != 0
	case vm.INTEGER:
		return n.Num
	case vm.FLOAT:
		return n.Dbl
	case vm.STRING:
		return n.Str
	case vm.CHARACTER:
		return string(rune(n.Num))
	case vm.LIST:
		elems := ctx.ListToSlice(n.Val)
		out := make([]interface{}, len(elems))
		for i, el := range elems {
			out[i] = nodeToInterface(ctx, el)
		}
		return out
	case vm.DICT:
		entries := ctx.DictEntries(n.Val)
		out := make(map[string]interface{}, len(entries))
		for _, e := range entries {
			out[e.Key] = nodeToInterface(ctx, ctx.NodeAt(e.Value))
		}
		return out
	case vm.USER_DEFINED, vm.ANONYMOUS_FUNCTION:
		return ctx.SprintFactor(n)
	default:
		return nil
	}
}
