package codegen

import (
	"fmt"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/check"
	"github.com/adan-lang/adango/errors"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

var (
	Float   = types.Double
	Int     = types.I64
	Boolean = types.I1
	Pointer = types.I8Ptr
)

func llvmType(kind check.Kind) types.Type {
	switch kind {
	case check.Float:
		return Float
	case check.Int:
		return Int
	case check.Bool:
		return Boolean
	case check.Pointer, check.Nil:
		return Pointer
	}
	panic(fmt.Sprintf("no storage type for %s", kind))
}

func zeroValue(kind check.Kind) constant.Constant {
	switch kind {
	case check.Float:
		return constant.NewFloat(Float, 0)
	case check.Int:
		return constant.NewInt(Int, 0)
	case check.Bool:
		return constant.False
	}
	return constant.NewNull(Pointer)
}

// convert emits the conversion of v from one kind to another. The checker has
// already rejected every pair that is not handled here.
func (c *Context) convert(v value.Value, from, to check.Kind) value.Value {
	if from == to || to == check.Any {
		return v
	}

	switch to {
	case check.Float:
		switch from {
		case check.Int:
			return c.block.NewSIToFP(v, Float)
		case check.Bool:
			return c.block.NewUIToFP(v, Float)
		}
	case check.Int:
		switch from {
		case check.Float:
			return c.block.NewFPToSI(v, Int)
		case check.Bool:
			return c.block.NewZExt(v, Int)
		}
	case check.Pointer:
		if from == check.Nil {
			return v
		}
	}

	panic(fmt.Sprintf("cannot convert %s to %s", from, to))
}

// globalInitializer folds a top-level declaration's literal initializer into
// a constant of the storage kind.
func (c *Context) globalInitializer(decl *ast.VarDecl, kind check.Kind) constant.Constant {
	if decl.Init == nil {
		return zeroValue(kind)
	}

	sign := 1.0
	init := decl.Init
	if unary, ok := init.(*ast.Unary); ok && unary.Op == ast.Negate {
		sign = -1
		init = unary.Right
	}
	lit, ok := init.(*ast.Literal)
	if !ok {
		panic(errors.NonConstantGlobal{Name: decl.Name, Location: decl.Span})
	}

	var number float64
	switch v := lit.Value.(type) {
	case ast.Number:
		number = sign * float64(v)
	case ast.Bool:
		if sign < 0 {
			panic(errors.NonConstantGlobal{Name: decl.Name, Location: decl.Span})
		}
		if v {
			number = 1
		}
	case ast.String:
		if kind == check.Pointer && sign > 0 {
			return c.StringConstant(string(v))
		}
		panic(errors.TypeMismatch{Message: fmt.Sprintf("cannot initialize %s '%s' with a string", kind, decl.Name), Location: decl.Span})
	case ast.Nil:
		if kind == check.Pointer && sign > 0 {
			return constant.NewNull(Pointer)
		}
		panic(errors.TypeMismatch{Message: fmt.Sprintf("cannot initialize %s '%s' with nil", kind, decl.Name), Location: decl.Span})
	}

	switch kind {
	case check.Float:
		return constant.NewFloat(Float, number)
	case check.Int:
		return constant.NewInt(Int, int64(number))
	}
	panic(errors.TypeMismatch{Message: fmt.Sprintf("cannot initialize %s '%s' with a number", kind, decl.Name), Location: decl.Span})
}
