package codegen

import (
	"fmt"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/check"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

var floatPredicates = map[ast.Operation]enum.FPred{
	ast.Equal:        enum.FPredOEQ,
	ast.NotEqual:     enum.FPredONE,
	ast.Less:         enum.FPredOLT,
	ast.LessEqual:    enum.FPredOLE,
	ast.Greater:      enum.FPredOGT,
	ast.GreaterEqual: enum.FPredOGE,
}

var intPredicates = map[ast.Operation]enum.IPred{
	ast.Equal:        enum.IPredEQ,
	ast.NotEqual:     enum.IPredNE,
	ast.Less:         enum.IPredSLT,
	ast.LessEqual:    enum.IPredSLE,
	ast.Greater:      enum.IPredSGT,
	ast.GreaterEqual: enum.IPredSGE,
}

// expr lowers e at the current block. Calls without a result yield nil.
func (c *Context) expr(e ast.Expr) value.Value {
	switch expr := e.(type) {
	case *ast.Literal:
		return c.literal(expr.Value)
	case *ast.Variable:
		slot := c.lookup(expr.Name, expr.Span)
		return c.block.NewLoad(slot.Type, slot.Ptr)
	case *ast.Assign:
		val := c.expr(expr.Value)
		slot := c.lookup(expr.Name, expr.Span)
		val = c.convert(val, c.info.KindOf(expr.Value), slot.Kind)
		c.block.NewStore(val, slot.Ptr)
		return val
	case *ast.Unary:
		right := c.expr(expr.Right)
		switch expr.Op {
		case ast.Negate:
			return c.block.NewFNeg(right)
		case ast.Not:
			if c.info.KindOf(expr.Right) == check.Bool {
				return c.block.NewXor(right, constant.True)
			}
			return c.block.NewXor(right, constant.NewInt(Int, -1))
		}
	case *ast.Binary:
		return c.binary(expr)
	case *ast.Call:
		return c.call(expr)
	}

	panic(fmt.Sprintf("unhandled expression %T", e))
}

func (c *Context) literal(lit ast.LiteralValue) value.Value {
	switch v := lit.(type) {
	case ast.Number:
		return constant.NewFloat(Float, float64(v))
	case ast.String:
		return c.StringConstant(string(v))
	case ast.Bool:
		if v {
			return constant.True
		}
		return constant.False
	case ast.Nil:
		return constant.NewNull(Pointer)
	}
	panic("unhandled literal")
}

func (c *Context) binary(expr *ast.Binary) value.Value {
	left := c.expr(expr.Left)
	right := c.expr(expr.Right)
	lk, rk := c.info.KindOf(expr.Left), c.info.KindOf(expr.Right)
	b := c.block

	switch {
	case lk == check.Nil || rk == check.Nil:
		return b.NewICmp(intPredicates[expr.Op], left, right)
	case lk == check.Pointer:
		cmp := b.NewCall(c.HostFunc("strcmp"), left, right)
		return b.NewICmp(intPredicates[expr.Op], cmp, constant.NewInt(types.I32, 0))
	case lk == check.Float:
		if expr.Op.IsComparison() {
			return b.NewFCmp(floatPredicates[expr.Op], left, right)
		}
		switch expr.Op {
		case ast.Add:
			return b.NewFAdd(left, right)
		case ast.Subtract:
			return b.NewFSub(left, right)
		case ast.Multiply:
			return b.NewFMul(left, right)
		case ast.Divide:
			return b.NewFDiv(left, right)
		case ast.Modulo:
			return b.NewCall(c.HostFunc("fmod"), left, right)
		}
	default:
		if expr.Op.IsComparison() {
			return b.NewICmp(intPredicates[expr.Op], left, right)
		}
		switch expr.Op {
		case ast.Add:
			return b.NewAdd(left, right)
		case ast.Subtract:
			return b.NewSub(left, right)
		case ast.Multiply:
			return b.NewMul(left, right)
		case ast.Divide:
			return b.NewSDiv(left, right)
		case ast.Modulo:
			return b.NewSRem(left, right)
		}
	}

	panic(fmt.Sprintf("unhandled operator %s", expr.Op))
}

func (c *Context) call(expr *ast.Call) value.Value {
	fn, err := c.resolve(expr.Callee, c.current.Name, expr.Span)
	if err != nil {
		panic(err)
	}
	sig := fn.Signature()

	args := make([]value.Value, len(expr.Args))
	for i, arg := range expr.Args {
		args[i] = c.convert(c.expr(arg), c.info.KindOf(arg), sig.Param(i))
	}

	switch callee := fn.(type) {
	case *SourceFunction:
		target := c.lowerFunction(callee.Decl, callee.Module)
		return c.block.NewCall(target, args...)
	case *NativeFunction:
		res, err := callee.Emit(c, args)
		if err != nil {
			panic(err)
		}
		v, _ := res.Value()
		return v
	}
	panic("unhandled callee")
}

// truthy lowers a condition to an i1 that is set when the value is non-zero.
func (c *Context) truthy(e ast.Expr) value.Value {
	v := c.expr(e)

	switch kind := c.info.KindOf(e); kind {
	case check.Float:
		return c.block.NewFCmp(enum.FPredONE, v, zeroValue(kind))
	case check.Int, check.Bool:
		return c.block.NewICmp(enum.IPredNE, v, zeroValue(kind))
	default:
		return c.block.NewICmp(enum.IPredNE, v, constant.NewNull(Pointer))
	}
}
