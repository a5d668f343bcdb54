package builtins

import (
	"database/sql"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/shakfu/joy-sub000/vm"
)

// registerSession restores the persistent-session subsystem of
// src/builtin/session.c (guarded there behind -DJOY_SESSION), backed by
// modernc.org/sqlite through database/sql rather than libsqlite3 + cgo.
// Session state lives in a side table keyed by *vm.Context rather than a
// new vm.Context field, since persistence is an optional primitive
// family rather than a core interpreter concern.
//
// session-merge/session-diff/session-take from the original are not
// implemented; see DESIGN.md.
func registerSession(ctx *vm.Context) {
	def(ctx, "session", func(ctx *vm.Context) error {
		name, err := ctx.PopString("session")
		if err != nil {
			return err
		}
		return openSession(ctx, name)
	})

	def(ctx, "session-close", func(ctx *vm.Context) error {
		closeSession(ctx)
		return nil
	})

	def(ctx, "sessions", func(ctx *vm.Context) error {
		s := currentSession(ctx)
		if s == nil {
			ctx.PushQuotation(vm.NilIndex)
			return nil
		}
		rows, err := s.db.Query("SELECT name FROM symbols ORDER BY name")
		if err != nil {
			return vm.NewError(vm.IO, "sessions: %v", err)
		}
		defer rows.Close()
		var names []vm.Node
		for rows.Next() {
			var n string
			if err := rows.Scan(&n); err != nil {
				return vm.NewError(vm.IO, "sessions: %v", err)
			}
			names = append(names, vm.Node{Tag: vm.STRING, Str: n})
		}
		ctx.PushQuotation(ctx.SliceToList(names))
		return nil
	})

	def(ctx, "snapshot", func(ctx *vm.Context) error {
		name, err := ctx.PopString("snapshot")
		if err != nil {
			return err
		}
		s := currentSession(ctx)
		if s == nil {
			return vm.NewError(vm.RUNTIME, "snapshot: no open session")
		}
		return s.snapshot(ctx, name)
	})

	def(ctx, "restore", func(ctx *vm.Context) error {
		name, err := ctx.PopString("restore")
		if err != nil {
			return err
		}
		s := currentSession(ctx)
		if s == nil {
			return vm.NewError(vm.RUNTIME, "restore: no open session")
		}
		return s.restore(ctx, name)
	})

	def(ctx, "snapshots", func(ctx *vm.Context) error {
		s := currentSession(ctx)
		if s == nil {
			ctx.PushQuotation(vm.NilIndex)
			return nil
		}
		rows, err := s.db.Query("SELECT DISTINCT name FROM snapshots ORDER BY name")
		if err != nil {
			return vm.NewError(vm.IO, "snapshots: %v", err)
		}
		defer rows.Close()
		var names []vm.Node
		for rows.Next() {
			var n string
			if err := rows.Scan(&n); err != nil {
				return vm.NewError(vm.IO, "snapshots: %v", err)
			}
			names = append(names, vm.Node{Tag: vm.STRING, Str: n})
		}
		ctx.PushQuotation(ctx.SliceToList(names))
		return nil
	})

	def(ctx, "sql", func(ctx *vm.Context) error {
		if err := ctx.Need("sql", 2); err != nil {
			return err
		}
		params, err := ctx.PopQuotation("sql")
		if err != nil {
			return err
		}
		query, err := ctx.PopString("sql")
		if err != nil {
			return err
		}
		s := currentSession(ctx)
		if s == nil {
			return vm.NewError(vm.RUNTIME, "sql: no open session")
		}
		return s.query(ctx, query, ctx.ListToSlice(params))
	})
}

type joySession struct {
	db *sql.DB
}

var (
	sessionMu    sync.Mutex
	sessionTable = map[*vm.Context]*joySession{}
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS symbols (
	name TEXT PRIMARY KEY,
	body TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT,
	symbol_name TEXT,
	body TEXT,
	PRIMARY KEY (name, symbol_name)
);
`

func openSession(ctx *vm.Context, name string) error {
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return vm.NewError(vm.IO, "session: %v", err)
	}
	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return vm.NewError(vm.IO, "session: %v", err)
	}
	sessionMu.Lock()
	sessionTable[ctx] = &joySession{db: db}
	sessionMu.Unlock()
	return nil
}

func closeSession(ctx *vm.Context) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if s, ok := sessionTable[ctx]; ok {
		s.db.Close()
		delete(sessionTable, ctx)
	}
}

func currentSession(ctx *vm.Context) *joySession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return sessionTable[ctx]
}

func (s *joySession) snapshot(ctx *vm.Context, name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return vm.NewError(vm.IO, "snapshot: %v", err)
	}
	if _, err := tx.Exec("DELETE FROM snapshots WHERE name = ?", name); err != nil {
		tx.Rollback()
		return vm.NewError(vm.IO, "snapshot: %v", err)
	}
	rows, err := tx.Query("SELECT name, body FROM symbols")
	if err != nil {
		tx.Rollback()
		return vm.NewError(vm.IO, "snapshot: %v", err)
	}
	type pair struct{ name, body string }
	var all []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.name, &p.body); err != nil {
			rows.Close()
			tx.Rollback()
			return vm.NewError(vm.IO, "snapshot: %v", err)
		}
		all = append(all, p)
	}
	rows.Close()
	for _, p := range all {
		if _, err := tx.Exec("INSERT INTO snapshots (name, symbol_name, body) VALUES (?, ?, ?)", name, p.name, p.body); err != nil {
			tx.Rollback()
			return vm.NewError(vm.IO, "snapshot: %v", err)
		}
	}
	return tx.Commit()
}

func (s *joySession) restore(ctx *vm.Context, name string) error {
	rows, err := s.db.Query("SELECT symbol_name, body FROM snapshots WHERE name = ?", name)
	if err != nil {
		return vm.NewError(vm.IO, "restore: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var symName, body string
		if err := rows.Scan(&symName, &body); err != nil {
			return vm.NewError(vm.IO, "restore: %v", err)
		}
		idx, fresh := ctx.SymbolTable().Define("", symName, deserialize(ctx, body), vm.Public)
		if !fresh {
			ctx.SymbolTable().SetBody(idx, deserialize(ctx, body))
		}
	}
	return nil
}

func (s *joySession) query(ctx *vm.Context, query string, params []vm.Node) error {
	args := make([]interface{}, len(params))
	for i, p := range params {
		switch p.Tag {
		case vm.INTEGER:
			args[i] = p.Num
		case vm.FLOAT:
			args[i] = p.Dbl
		case vm.STRING:
			args[i] = p.Str
		case vm.BOOLEAN:
			args[i] = p.Num != 0
		default:
			args[i] = ctx.SprintFactor(p)
		}
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return vm.NewError(vm.IO, "sql: %v", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return vm.NewError(vm.IO, "sql: %v", err)
	}
	var resultRows []vm.Node
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return vm.NewError(vm.IO, "sql: %v", err)
		}
		rowNodes := make([]vm.Node, len(cols))
		for i, v := range vals {
			rowNodes[i] = sqlValueToNode(v)
		}
		resultRows = append(resultRows, vm.Node{Tag: vm.LIST, Val: ctx.SliceToList(rowNodes)})
	}
	ctx.PushQuotation(ctx.SliceToList(resultRows))
	return nil
}

func sqlValueToNode(v interface{}) vm.Node {
	switch val := v.(type) {
	case int64:
		return vm.Node{Tag: vm.INTEGER, Num: val}
	case float64:
		return vm.Node{Tag: vm.FLOAT, Dbl: val}
	case string:
		return vm.Node{Tag: vm.STRING, Str: val}
	case []byte:
		return vm.Node{Tag: vm.STRING, Str: string(val)}
	case bool:
		return vm.Node{Tag: vm.BOOLEAN, Num: boolToInt(val)}
	default:
		return vm.Node{Tag: vm.STRING, Str: ""}
	}
}

// deserialize mirrors session.c's deserialize_value: try integer, then
// float, falling back to a plain string.
func deserialize(ctx *vm.Context, s string) vm.Index {
	t := strings.TrimSpace(s)
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return ctx.Cons(vm.Node{Tag: vm.INTEGER, Num: n}, vm.NilIndex)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return ctx.Cons(vm.Node{Tag: vm.FLOAT, Dbl: f}, vm.NilIndex)
	}
	return ctx.Cons(vm.Node{Tag: vm.STRING, Str: t}, vm.NilIndex)
}
