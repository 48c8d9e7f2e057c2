package check

import (
	"fmt"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/types"
	"github.com/ztrue/tracerr"
)

// Env is what the checker needs to know about the world outside the function
// being checked.
type Env interface {
	// Variable resolves a name that is not declared inside the function, such
	// as module-level storage.
	Variable(name string) (Kind, bool)
	// Signature resolves a possibly dotted callee.
	Signature(callee string, at types.Span) (Signature, error)
	// Include makes the modules named by an include statement resolvable.
	Include(path string, at types.Span) error
	// DeclareFunction makes a nested declaration callable by name.
	DeclareFunction(decl *ast.FunctionDecl)
}

// Info is the typed view of a checked function.
type Info struct {
	Kinds map[ast.Expr]Kind
}

func (i *Info) KindOf(e ast.Expr) Kind {
	return i.Kinds[e]
}

type checker struct {
	env    Env
	info   *Info
	scopes []map[string]Kind
}

// Function checks a declaration's body. Parameters are in scope with their
// declared storage kinds.
func Function(decl *ast.FunctionDecl, env Env) (info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				info = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	c := &checker{
		env:  env,
		info: &Info{Kinds: make(map[ast.Expr]Kind)},
	}

	c.pushScope()
	for _, param := range decl.Params {
		t := param.Type
		c.top()[param.Name] = StorageKind(&t)
	}
	for _, stmt := range decl.Body {
		c.statement(stmt)
	}
	c.popScope()

	return c.info, nil
}

func (c *checker) pushScope() {
	c.scopes = append(c.scopes, make(map[string]Kind))
}

func (c *checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *checker) top() map[string]Kind {
	return c.scopes[len(c.scopes)-1]
}

func (c *checker) lookup(name string, at types.Span) Kind {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if kind, ok := c.scopes[i][name]; ok {
			return kind
		}
	}
	if kind, ok := c.env.Variable(name); ok {
		return kind
	}

	panic(errors.UndeclaredVariable{Name: name, Location: at})
}

func mismatch(at types.Span, msg string, fmts ...interface{}) errors.TypeMismatch {
	return errors.TypeMismatch{Message: fmt.Sprintf(msg, fmts...), Location: at}
}

func (c *checker) statement(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		c.expr(stmt.Expr)
	case *ast.VarDecl:
		kind := StorageKind(stmt.Type)
		if stmt.Init != nil {
			if init := c.value(stmt.Init); !Assignable(kind, init) {
				panic(mismatch(stmt.Span, "cannot initialize %s '%s' with a %s", kind, stmt.Name, init))
			}
		}
		if stmt.Global {
			c.scopes[0][stmt.Name] = kind
		} else {
			c.top()[stmt.Name] = kind
		}
	case *ast.Block:
		c.pushScope()
		for _, inner := range stmt.Body {
			c.statement(inner)
		}
		c.popScope()
	case *ast.If:
		c.condition(stmt.Cond)
		c.statement(stmt.Then)
		if stmt.Else != nil {
			c.statement(stmt.Else)
		}
	case *ast.While:
		c.condition(stmt.Cond)
		c.statement(stmt.Body)
	case *ast.Function:
		// nested programs are checked on their own when they are lowered
		c.env.DeclareFunction(stmt.Decl)
	case *ast.Return:
		if stmt.Value != nil {
			if kind := c.value(stmt.Value); !Assignable(Float, kind) {
				panic(mismatch(stmt.Span, "cannot return a %s", kind))
			}
		}
	case *ast.Include:
		if err := c.env.Include(stmt.Path, stmt.Span); err != nil {
			panic(err)
		}
	default:
		panic("unhandled")
	}
}

func (c *checker) condition(e ast.Expr) {
	c.value(e)
}

// value checks an expression whose result is used.
func (c *checker) value(e ast.Expr) Kind {
	kind := c.expr(e)
	if kind == Void {
		callee := ""
		if call, ok := e.(*ast.Call); ok {
			callee = call.Callee
		}
		panic(errors.VoidValue{Function: callee, Location: e.Pos()})
	}
	return kind
}

func (c *checker) expr(e ast.Expr) Kind {
	kind := c.kindOf(e)
	c.info.Kinds[e] = kind
	return kind
}

func (c *checker) kindOf(e ast.Expr) Kind {
	switch expr := e.(type) {
	case *ast.Literal:
		switch expr.Value.(type) {
		case ast.Number:
			return Float
		case ast.String:
			return Pointer
		case ast.Bool:
			return Bool
		case ast.Nil:
			return Nil
		}
	case *ast.Variable:
		return c.lookup(expr.Name, expr.Span)
	case *ast.Assign:
		value := c.value(expr.Value)
		slot := c.lookup(expr.Name, expr.Span)
		if !Assignable(slot, value) {
			panic(mismatch(expr.Span, "cannot assign a %s to %s '%s'", value, slot, expr.Name))
		}
		return slot
	case *ast.Unary:
		right := c.value(expr.Right)
		switch expr.Op {
		case ast.Negate:
			if right != Float {
				panic(mismatch(expr.Span, "cannot negate a %s", right))
			}
		case ast.Not:
			if right != Int && right != Bool {
				panic(mismatch(expr.Span, "cannot apply '!' to a %s", right))
			}
		}
		return right
	case *ast.Binary:
		return c.binary(expr)
	case *ast.Call:
		return c.call(expr)
	}

	panic("unhandled")
}

func (c *checker) binary(expr *ast.Binary) Kind {
	left := c.value(expr.Left)
	right := c.value(expr.Right)

	switch expr.Op {
	case ast.Equal, ast.NotEqual:
		switch {
		case left == right && left != Invalid:
			return Bool
		case left == Pointer && right == Nil, left == Nil && right == Pointer:
			return Bool
		}
	case ast.Less, ast.LessEqual, ast.Greater, ast.GreaterEqual:
		if left == right && left.IsNumeric() {
			return Bool
		}
	default:
		if left == right && left.IsNumeric() {
			return left
		}
	}

	panic(mismatch(expr.Span, "operator '%s' is not defined for %s and %s", expr.Op, left, right))
}

func (c *checker) call(expr *ast.Call) Kind {
	sig, err := c.env.Signature(expr.Callee, expr.Span)
	if err != nil {
		panic(err)
	}

	if len(expr.Args) != len(sig.Params) && !sig.Variadic {
		panic(errors.ArityMismatch{
			Function: expr.Callee,
			Expected: len(sig.Params),
			Got:      len(expr.Args),
			Location: expr.Span,
		})
	}

	var first Kind
	for idx, arg := range expr.Args {
		kind := c.value(arg)
		if idx == 0 {
			first = kind
		}

		if param := sig.Param(idx); !Assignable(param, kind) {
			panic(mismatch(arg.Pos(), "argument %d of '%s' is a %s, not a %s", idx, expr.Callee, kind, param))
		}
	}

	if sig.Result == Any {
		if len(expr.Args) == 0 {
			return Void
		}
		return first
	}
	return sig.Result
}
