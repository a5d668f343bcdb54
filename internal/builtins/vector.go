package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerVector wires the numeric-list/matrix family of src/builtin/vector.c
// (element-wise vector ops, reductions, creation, and 2D matrix ops over
// lists-of-lists). The original's optional BLAS backend (cblas_dgemm,
// cblas_dgemv, gated on JOY_BLAS) has no counterpart anywhere in the
// example pack, so mm/mv fall back to a plain triple-loop here, and det/
// inv use Gaussian/Gauss-Jordan elimination rather than an LU routine
// from a linear-algebra library; see DESIGN.md for that call.
func registerVector(ctx *vm.Context) {
	def(ctx, "v+", vecBinOp("v+", func(a, b float64) float64 { return a + b }))
	def(ctx, "v-", vecBinOp("v-", func(a, b float64) float64 { return a - b }))
	def(ctx, "v*", vecBinOp("v*", func(a, b float64) float64 { return a * b }))
	def(ctx, "v/", vecBinOp("v/", func(a, b float64) float64 { return a / b }))

	def(ctx, "vscale", func(ctx *vm.Context) error {
		if err := ctx.Need("vscale", 2); err != nil {
			return err
		}
		k, err := ctx.PopFloat("vscale")
		if err != nil {
			return err
		}
		v, err := popFloatVec(ctx, "vscale")
		if err != nil {
			return err
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = x * k
		}
		ctx.PushQuotation(floatListNode(ctx, out))
		return nil
	})

	def(ctx, "dot", func(ctx *vm.Context) error {
		a, b, err := popFloatVecPair(ctx, "dot")
		if err != nil {
			return err
		}
		var sum float64
		for i := range a {
			sum += a[i] * b[i]
		}
		ctx.PushFloat(sum)
		return nil
	})

	def(ctx, "vsum", vecReduce("vsum", 0, func(acc, x float64) float64 { return acc + x }))
	def(ctx, "vprod", vecReduce("vprod", 1, func(acc, x float64) float64 { return acc * x }))
	def(ctx, "vmin", vecReduceNonEmpty("vmin", func(a, b float64) float64 {
		if b < a {
			return b
		}
		return a
	}))
	def(ctx, "vmax", vecReduceNonEmpty("vmax", func(a, b float64) float64 {
		if b > a {
			return b
		}
		return a
	}))

	def(ctx, "vzeros", vecFill("vzeros", 0))
	def(ctx, "vones", vecFill("vones", 1))

	def(ctx, "vrange", func(ctx *vm.Context) error {
		n, err := ctx.PopInteger("vrange")
		if err != nil {
			return err
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i)
		}
		ctx.PushQuotation(floatListNode(ctx, out))
		return nil
	})

	def(ctx, "m+", matBinOp("m+", func(a, b float64) float64 { return a + b }))
	def(ctx, "m-", matBinOp("m-", func(a, b float64) float64 { return a - b }))
	def(ctx, "m*", matBinOp("m*", func(a, b float64) float64 { return a * b }))
	def(ctx, "m/", matBinOp("m/", func(a, b float64) float64 { return a / b }))

	def(ctx, "mscale", func(ctx *vm.Context) error {
		if err := ctx.Need("mscale", 2); err != nil {
			return err
		}
		k, err := ctx.PopFloat("mscale")
		if err != nil {
			return err
		}
		m, err := popFloatMatrix(ctx, "mscale")
		if err != nil {
			return err
		}
		for i := range m {
			for j := range m[i] {
				m[i][j] *= k
			}
		}
		ctx.PushQuotation(floatMatrixNode(ctx, m))
		return nil
	})

	def(ctx, "transpose", func(ctx *vm.Context) error {
		m, err := popFloatMatrix(ctx, "transpose")
		if err != nil {
			return err
		}
		ctx.PushQuotation(floatMatrixNode(ctx, transpose(m)))
		return nil
	})

	def(ctx, "trace", func(ctx *vm.Context) error {
		m, err := popFloatMatrix(ctx, "trace")
		if err != nil {
			return err
		}
		var sum float64
		for i := 0; i < len(m) && i < len(m[0]); i++ {
			sum += m[i][i]
		}
		ctx.PushFloat(sum)
		return nil
	})

	def(ctx, "meye", func(ctx *vm.Context) error {
		n, err := ctx.PopInteger("meye")
		if err != nil {
			return err
		}
		m := make([][]float64, n)
		for i := range m {
			m[i] = make([]float64, n)
			m[i][i] = 1
		}
		ctx.PushQuotation(floatMatrixNode(ctx, m))
		return nil
	})

	def(ctx, "mm", func(ctx *vm.Context) error {
		b, a, err := popMatrixPair(ctx, "mm")
		if err != nil {
			return err
		}
		if len(a) == 0 || len(b) == 0 || len(a[0]) != len(b) {
			return vm.NewError(vm.RUNTIME, "mm: incompatible matrix dimensions")
		}
		out := make([][]float64, len(a))
		for i := range a {
			out[i] = make([]float64, len(b[0]))
			for j := range out[i] {
				var sum float64
				for k := range b {
					sum += a[i][k] * b[k][j]
				}
				out[i][j] = sum
			}
		}
		ctx.PushQuotation(floatMatrixNode(ctx, out))
		return nil
	})

	def(ctx, "mv", func(ctx *vm.Context) error {
		if err := ctx.Need("mv", 2); err != nil {
			return err
		}
		v, err := popFloatVec(ctx, "mv")
		if err != nil {
			return err
		}
		m, err := popFloatMatrix(ctx, "mv")
		if err != nil {
			return err
		}
		if len(m) == 0 || len(m[0]) != len(v) {
			return vm.NewError(vm.RUNTIME, "mv: incompatible matrix/vector dimensions")
		}
		out := make([]float64, len(m))
		for i := range m {
			var sum float64
			for j := range v {
				sum += m[i][j] * v[j]
			}
			out[i] = sum
		}
		ctx.PushQuotation(floatListNode(ctx, out))
		return nil
	})

	def(ctx, "det", func(ctx *vm.Context) error {
		m, err := popFloatMatrix(ctx, "det")
		if err != nil {
			return err
		}
		d, err := determinant(m)
		if err != nil {
			return err
		}
		ctx.PushFloat(d)
		return nil
	})

	def(ctx, "inv", func(ctx *vm.Context) error {
		m, err := popFloatMatrix(ctx, "inv")
		if err != nil {
			return err
		}
		out, err := invert(m)
		if err != nil {
			return err
		}
		ctx.PushQuotation(floatMatrixNode(ctx, out))
		return nil
	})
}

func vecBinOp(op string, f func(a, b float64) float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		a, b, err := popFloatVecPair(ctx, op)
		if err != nil {
			return err
		}
		out := make([]float64, len(a))
		for i := range a {
			out[i] = f(a[i], b[i])
		}
		ctx.PushQuotation(floatListNode(ctx, out))
		return nil
	}
}

func vecReduce(op string, id float64, f func(acc, x float64) float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		v, err := popFloatVec(ctx, op)
		if err != nil {
			return err
		}
		acc := id
		for _, x := range v {
			acc = f(acc, x)
		}
		ctx.PushFloat(acc)
		return nil
	}
}

func vecReduceNonEmpty(op string, f func(a, b float64) float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		v, err := popFloatVec(ctx, op)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return vm.NewError(vm.RUNTIME, "%s: empty vector", op)
		}
		acc := v[0]
		for _, x := range v[1:] {
			acc = f(acc, x)
		}
		ctx.PushFloat(acc)
		return nil
	}
}

func vecFill(op string, val float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		n, err := ctx.PopInteger(op)
		if err != nil {
			return err
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = val
		}
		ctx.PushQuotation(floatListNode(ctx, out))
		return nil
	}
}

func matBinOp(op string, f func(a, b float64) float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		b, a, err := popMatrixPair(ctx, op)
		if err != nil {
			return err
		}
		if len(a) != len(b) {
			return vm.NewError(vm.RUNTIME, "%s: matrices of equal shape required", op)
		}
		out := make([][]float64, len(a))
		for i := range a {
			if len(a[i]) != len(b[i]) {
				return vm.NewError(vm.RUNTIME, "%s: matrices of equal shape required", op)
			}
			out[i] = make([]float64, len(a[i]))
			for j := range a[i] {
				out[i][j] = f(a[i][j], b[i][j])
			}
		}
		ctx.PushQuotation(floatMatrixNode(ctx, out))
		return nil
	}
}

func popFloatVecPair(ctx *vm.Context, op string) (a, b []float64, err error) {
	if err = ctx.Need(op, 2); err != nil {
		return
	}
	b, err = popFloatVec(ctx, op)
	if err != nil {
		return
	}
	a, err = popFloatVec(ctx, op)
	if err != nil {
		return
	}
	if len(a) != len(b) {
		return nil, nil, vm.NewError(vm.RUNTIME, "%s: lists of equal length required", op)
	}
	return
}

func popFloatVec(ctx *vm.Context, op string) ([]float64, error) {
	agg, err := ctx.Pop(op)
	if err != nil {
		return nil, err
	}
	if agg.Tag != vm.LIST {
		return nil, vm.NewError(vm.TYPE, "%s: expected a numeric list", op)
	}
	elems := ctx.ListToSlice(agg.Val)
	out := make([]float64, len(elems))
	for i, el := range elems {
		if !isNumeric(el) {
			return nil, vm.NewError(vm.TYPE, "%s: expected a numeric list", op)
		}
		out[i] = numVal(el)
	}
	return out, nil
}

func popFloatMatrix(ctx *vm.Context, op string) ([][]float64, error) {
	agg, err := ctx.Pop(op)
	if err != nil {
		return nil, err
	}
	if agg.Tag != vm.LIST {
		return nil, vm.NewError(vm.TYPE, "%s: expected a matrix (list of lists)", op)
	}
	rows := ctx.ListToSlice(agg.Val)
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if row.Tag != vm.LIST {
			return nil, vm.NewError(vm.TYPE, "%s: expected a matrix (list of lists)", op)
		}
		elems := ctx.ListToSlice(row.Val)
		out[i] = make([]float64, len(elems))
		for j, el := range elems {
			if !isNumeric(el) {
				return nil, vm.NewError(vm.TYPE, "%s: expected a numeric matrix", op)
			}
			out[i][j] = numVal(el)
		}
	}
	return out, nil
}

func popMatrixPair(ctx *vm.Context, op string) (b, a [][]float64, err error) {
	if err = ctx.Need(op, 2); err != nil {
		return
	}
	b, err = popFloatMatrix(ctx, op)
	if err != nil {
		return
	}
	a, err = popFloatMatrix(ctx, op)
	return
}

func floatListNode(ctx *vm.Context, v []float64) vm.Index {
	elems := make([]vm.Node, len(v))
	for i, x := range v {
		elems[i] = vm.Node{Tag: vm.FLOAT, Dbl: x}
	}
	return ctx.SliceToList(elems)
}

func floatMatrixNode(ctx *vm.Context, m [][]float64) vm.Index {
	rows := make([]vm.Node, len(m))
	for i, row := range m {
		rows[i] = vm.Node{Tag: vm.LIST, Val: floatListNode(ctx, row)}
	}
	return ctx.SliceToList(rows)
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for j := range out {
		out[j] = make([]float64, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// determinant uses Gaussian elimination with partial pivoting, adequate
// for the modest matrix sizes this embeddable interpreter is expected to
// see (§10: no BLAS dependency is present anywhere in the example pack).
func determinant(m [][]float64) (float64, error) {
	n := len(m)
	for _, row := range m {
		if len(row) != n {
			return 0, vm.NewError(vm.RUNTIME, "det: matrix must be square")
		}
	}
	a := make([][]float64, n)
	for i := range m {
		a[i] = append([]float64{}, m[i]...)
	}
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs64(a[r][col]) > abs64(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return 0, nil
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			det = -det
		}
		det *= a[col][col]
		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}
	return det, nil
}

// invert uses Gauss-Jordan elimination with partial pivoting against an
// augmented [m | I] matrix, the same no-BLAS tradeoff as determinant.
func invert(m [][]float64) ([][]float64, error) {
	n := len(m)
	for _, row := range m {
		if len(row) != n {
			return nil, vm.NewError(vm.RUNTIME, "inv: matrix must be square")
		}
	}
	a := make([][]float64, n)
	for i := range m {
		a[i] = make([]float64, 2*n)
		copy(a[i], m[i])
		a[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs64(a[r][col]) > abs64(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return nil, vm.NewError(vm.RUNTIME, "inv: matrix is singular")
		}
		a[pivot], a[col] = a[col], a[pivot]
		pv := a[col][col]
		for c := 0; c < 2*n; c++ {
			a[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			for c := 0; c < 2*n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64{}, a[i][n:]...)
	}
	return out, nil
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
