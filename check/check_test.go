package check

import (
	"testing"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/parser"
	"github.com/adan-lang/adango/types"
	"github.com/ztrue/tracerr"
)

type fakeEnv struct {
	globals  map[string]Kind
	funcs    map[string]Signature
	included []string
}

func (f *fakeEnv) Variable(name string) (Kind, bool) {
	kind, ok := f.globals[name]
	return kind, ok
}

func (f *fakeEnv) Signature(callee string, at types.Span) (Signature, error) {
	if sig, ok := f.funcs[callee]; ok {
		return sig, nil
	}
	return Signature{}, errors.UnresolvedFunction{Function: callee, Location: at}
}

func (f *fakeEnv) Include(path string, at types.Span) error {
	f.included = append(f.included, path)
	return nil
}

func (f *fakeEnv) DeclareFunction(decl *ast.FunctionDecl) {
	sig := Signature{Result: Float}
	for _, param := range decl.Params {
		t := param.Type
		sig.Params = append(sig.Params, StorageKind(&t))
	}
	f.funcs[decl.Name] = sig
}

func newEnv() *fakeEnv {
	return &fakeEnv{
		globals: map[string]Kind{"io.level": Int},
		funcs: map[string]Signature{
			"io.out":    {Params: []Kind{Any}, Result: Any},
			"io.flush":  {Result: Void},
			"math.sqrt": {Params: []Kind{Float}, Result: Float},
		},
	}
}

func checkSource(t *testing.T, src string) (*ast.FunctionDecl, *Info, error) {
	t.Helper()
	stmts, err := parser.ParseString(src, "test.adn")
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	decl := stmts[0].(*ast.Function).Decl
	info, err := Function(decl, newEnv())
	return decl, info, tracerr.Unwrap(err)
}

func TestKinds(t *testing.T) {
	decl, info, err := checkSource(t, `
program -> f(n: i64, s: String) {
	local x: f64 -> 7.5;
	local b: Boolean -> x < 2.0;
	x -> x % 2.0;
	return n + n;
}`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	init := decl.Body[0].(*ast.VarDecl).Init
	if got := info.KindOf(init); got != Float {
		t.Errorf("literal kind: got %s", got)
	}
	cmp := decl.Body[1].(*ast.VarDecl).Init
	if got := info.KindOf(cmp); got != Bool {
		t.Errorf("comparison kind: got %s", got)
	}
	assign := decl.Body[2].(*ast.ExpressionStmt).Expr
	if got := info.KindOf(assign); got != Float {
		t.Errorf("assignment kind: got %s", got)
	}
	sum := decl.Body[3].(*ast.Return).Value
	if got := info.KindOf(sum); got != Int {
		t.Errorf("int sum kind: got %s", got)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{
			name:  "undeclared",
			input: "program -> f { return y; }",
			check: func(err error) bool { e, ok := err.(errors.UndeclaredVariable); return ok && e.Name == "y" },
		},
		{
			name:  "assign undeclared",
			input: "program -> f { y -> 1; }",
			check: func(err error) bool { _, ok := err.(errors.UndeclaredVariable); return ok },
		},
		{
			name:  "mixed arithmetic",
			input: "program -> f(n: i64) { return n + 1; }",
			check: func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok },
		},
		{
			name:  "string arithmetic",
			input: `program -> f { local s: String -> "a"; s -> s + s; }`,
			check: func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok },
		},
		{
			name:  "negate int",
			input: "program -> f(n: i64) { return -n; }",
			check: func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok },
		},
		{
			name:  "string into float",
			input: `program -> f { local x: f64 -> "a"; }`,
			check: func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok },
		},
		{
			name:  "unresolved",
			input: "program -> f { foo.bar(); }",
			check: func(err error) bool { _, ok := err.(errors.UnresolvedFunction); return ok },
		},
		{
			name:  "arity",
			input: "program -> f { math.sqrt(1, 2); }",
			check: func(err error) bool { e, ok := err.(errors.ArityMismatch); return ok && e.Expected == 1 && e.Got == 2 },
		},
		{
			name:  "void value",
			input: "program -> f { local x: f64 -> io.flush(); }",
			check: func(err error) bool { _, ok := err.(errors.VoidValue); return ok },
		},
		{
			name:  "scope does not leak",
			input: "program -> f { { local inner: f64 -> 1; } return inner; }",
			check: func(err error) bool { _, ok := err.(errors.UndeclaredVariable); return ok },
		},
		{
			name:  "return string",
			input: `program -> f { return "s"; }`,
			check: func(err error) bool { _, ok := err.(errors.TypeMismatch); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, info, err := checkSource(t, tt.input)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if info != nil {
				t.Errorf("expected no info on failure")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error %#v", err)
			}
		})
	}
}

func TestAccepted(t *testing.T) {
	tests := []string{
		`program -> f { io.out("hi"); io.out(1); io.flush(); }`,
		`program -> f { local s: String -> nil; if (s == nil) { return 1; } }`,
		`program -> f { local s: String -> "a"; return s == "b"; }`,
		`program -> f { global g: f64 -> 1; { g -> 2; } return g; }`,
		`program -> f { return io.level + io.level; }`,
		`program -> f { program -> g(a: f64) { return a; } return g(2); }`,
		`program -> f { include math; return math.sqrt(4); }`,
		`program -> f { local b: Boolean -> !true; return b; }`,
		`program -> f { local y: f64 -> io.out(1.5); return io.out(y); }`,
		`program -> f { local n: i64 -> 3.0; while (n) { n -> n - n; } }`,
	}

	for _, src := range tests {
		if _, _, err := checkSource(t, src); err != nil {
			t.Errorf("%s: unexpected error %s", src, err)
		}
	}
}
