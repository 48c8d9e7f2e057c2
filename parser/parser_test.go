package parser

import (
	"strings"
	"testing"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/errors"
	"github.com/alecthomas/repr"
	"github.com/kr/pretty"
	"github.com/ztrue/tracerr"
)

func mustParse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	stmts, err := ParseString(src, "test.adn")
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	return stmts
}

func TestVarDecl(t *testing.T) {
	stmts := mustParse(t, "local x: f64 -> 7.5; global y: ; local s: String;")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %s", repr.String(stmts))
	}

	x := stmts[0].(*ast.VarDecl)
	if x.Name != "x" || x.Global || x.Type == nil || *x.Type != ast.TypeF64 {
		t.Errorf("unexpected declaration %s", repr.String(x))
	}
	if lit, ok := x.Init.(*ast.Literal); !ok || lit.Value != ast.Number(7.5) {
		t.Errorf("unexpected initializer %s", repr.String(x.Init))
	}

	y := stmts[1].(*ast.VarDecl)
	if !y.Global || y.Type != nil || y.Init != nil {
		t.Errorf("unexpected declaration %s", repr.String(y))
	}

	s := stmts[2].(*ast.VarDecl)
	if s.Type == nil || *s.Type != ast.TypeString {
		t.Errorf("unexpected declaration %s", repr.String(s))
	}
}

func TestInclude(t *testing.T) {
	stmts := mustParse(t, "include adan.std.math; include io;")
	var got []string
	for _, stmt := range stmts {
		got = append(got, stmt.(*ast.Include).Path)
	}
	if diff := pretty.Diff(got, []string{"adan.std.math", "io"}); len(diff) > 0 {
		t.Errorf("include paths differ: %v", diff)
	}
}

func TestFunction(t *testing.T) {
	stmts := mustParse(t, `
program -> add(a: f64, b: f64) {
	return a + b;
}

program -> main {
	io.out(add(1, 2));
}`)

	add := stmts[0].(*ast.Function).Decl
	want := []ast.Param{{Name: "a", Type: ast.TypeF64}, {Name: "b", Type: ast.TypeF64}}
	if diff := pretty.Diff(add.Params, want); len(diff) > 0 {
		t.Errorf("params differ: %v", diff)
	}
	if len(add.Body) != 1 {
		t.Fatalf("expected a single statement body, got %s", repr.String(add.Body))
	}
	ret := add.Body[0].(*ast.Return)
	if got := ast.ExprString(ret.Value); got != "(a + b)" {
		t.Errorf("got %s", got)
	}

	main := stmts[1].(*ast.Function).Decl
	if main.Name != "main" || len(main.Params) != 0 {
		t.Errorf("unexpected main %s", repr.String(main))
	}
	call := main.Body[0].(*ast.ExpressionStmt).Expr.(*ast.Call)
	if call.Callee != "io.out" || len(call.Args) != 1 {
		t.Errorf("unexpected call %s", repr.String(call))
	}
}

func TestControlFlow(t *testing.T) {
	stmts := mustParse(t, `
if (x) { return 1.0; } else { return 0.0; }
while (n > 0) { n -> n - 1; }
if (y) { }`)

	ifStmt := stmts[0].(*ast.If)
	if ifStmt.Else == nil || len(ifStmt.Then.Body) != 1 {
		t.Errorf("unexpected if %s", repr.String(ifStmt))
	}

	while := stmts[1].(*ast.While)
	if got := ast.ExprString(while.Cond); got != "(n > 0)" {
		t.Errorf("got condition %s", got)
	}
	body := while.Body.(*ast.Block)
	if got := ast.ExprString(body.Body[0].(*ast.ExpressionStmt).Expr); got != "(n -> (n - 1))" {
		t.Errorf("got body %s", got)
	}

	if stmts[2].(*ast.If).Else != nil {
		t.Errorf("expected no else branch")
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"1 - 2 - 3;", "((1 - 2) - 3)"},
		{"7.5 % 2;", "(7.5 % 2)"},
		{"-a * b;", "((-a) * b)"},
		{"!a == b;", "((!a) == b)"},
		{"a < b == c >= d;", "((a < b) == (c >= d))"},
		{"a -> b -> 1 + 1;", "(a -> (b -> (1 + 1)))"},
		{"math.pow(a, 2) / 4;", "(math.pow(a, 2) / 4)"},
		{`x == "s";`, `(x == "s")`},
		{"a.b.c;", "a.b.c"},
		{"f();", "f()"},
		{"true != nil;", "(true != nil)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmts := mustParse(t, tt.input)
			got := ast.ExprString(stmts[0].(*ast.ExpressionStmt).Expr)
			if got != tt.want {
				t.Errorf("got %s, expected %s", got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{
			name:  "missing semicolon",
			input: "local x: f64 -> 1",
			check: func(err error) bool { _, ok := err.(errors.ExpectedKindGotKind); return ok },
		},
		{
			name:  "unterminated block",
			input: "program -> main { return 1;",
			check: func(err error) bool { _, ok := err.(errors.UnexpectedEOF); return ok },
		},
		{
			name:  "lexer error",
			input: "local x: f64 -> @;",
			check: func(err error) bool {
				e, ok := err.(errors.UnexpectedToken)
				return ok && strings.Contains(e.Error(), "unexpected character: @")
			},
		},
		{
			name:  "bad assignment target",
			input: "f() -> 1;",
			check: func(err error) bool { _, ok := err.(errors.InvalidAssignTarget); return ok },
		},
		{
			name:  "missing parameter type",
			input: "program -> f(a) { }",
			check: func(err error) bool { _, ok := err.(errors.ExpectedKindGotKind); return ok },
		},
		{
			name:  "while without block",
			input: "while (x) x -> 1;",
			check: func(err error) bool { _, ok := err.(errors.ExpectedKindGotKind); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := ParseString(tt.input, "test.adn")
			if err == nil {
				t.Fatalf("expected an error, got %s", repr.String(stmts))
			}
			if stmts != nil {
				t.Errorf("expected no partial result")
			}
			if !tt.check(tracerr.Unwrap(err)) {
				t.Errorf("unexpected error %#v", tracerr.Unwrap(err))
			}
		})
	}
}
