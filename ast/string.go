package ast

import (
	"fmt"
	"strconv"
	"strings"
)

var opNames = map[Operation]string{
	Add:          "+",
	Subtract:     "-",
	Multiply:     "*",
	Divide:       "/",
	Modulo:       "%",
	Negate:       "-",
	Not:          "!",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
}

func (o Operation) String() string {
	return opNames[o]
}

func typeToString(t *TypeName) string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// Signature renders the declaration header the way it is written in source,
// followed by the lowered return type.
func (f *FunctionDecl) Signature() string {
	var args []string
	for _, arg := range f.Params {
		args = append(args, fmt.Sprintf("%s: %s", arg.Name, arg.Type))
	}
	return fmt.Sprintf("program -> %s(%s) f64", f.Name, strings.Join(args, ", "))
}

// ExprString renders an expression fully parenthesized.
func ExprString(e Expr) string {
	switch expr := e.(type) {
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", ExprString(expr.Left), expr.Op, ExprString(expr.Right))
	case *Unary:
		return fmt.Sprintf("(%s%s)", expr.Op, ExprString(expr.Right))
	case *Assign:
		return fmt.Sprintf("(%s -> %s)", expr.Name, ExprString(expr.Value))
	case *Call:
		var args []string
		for _, arg := range expr.Args {
			args = append(args, ExprString(arg))
		}
		return fmt.Sprintf("%s(%s)", expr.Callee, strings.Join(args, ", "))
	case *Literal:
		switch lit := expr.Value.(type) {
		case Number:
			return strconv.FormatFloat(float64(lit), 'g', -1, 64)
		case String:
			return strconv.Quote(string(lit))
		case Bool:
			return strconv.FormatBool(bool(lit))
		case Nil:
			return "nil"
		}
	case *Variable:
		if expr.Type != nil {
			return fmt.Sprintf("%s: %s", expr.Name, typeToString(expr.Type))
		}
		return expr.Name
	case nil:
		return ""
	}

	panic("unhandled")
}
