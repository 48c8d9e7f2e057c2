package codegen

import (
	"fmt"

	"github.com/adan-lang/adango/errors"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

type blockSet map[*ir.Block]bool

func (s blockSet) has(target interface{}) bool {
	b, ok := target.(*ir.Block)
	return ok && s[b]
}

// verify checks the structural rules of a lowered function: terminated
// blocks, local branch targets, typed returns, stores and calls.
func verify(fn *ir.Func) error {
	fail := func(msg string, fmts ...interface{}) error {
		return errors.VerificationFailed{Function: fn.Name(), Reason: fmt.Sprintf(msg, fmts...)}
	}

	blocks := make(blockSet)
	for _, b := range fn.Blocks {
		blocks[b] = true
	}

	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			switch inst := inst.(type) {
			case *ir.InstStore:
				ptr, ok := inst.Dst.Type().(*types.PointerType)
				if !ok || !ptr.ElemType.Equal(inst.Src.Type()) {
					return fail("block %s stores %s into %s", b.Name(), inst.Src.Type(), inst.Dst.Type())
				}
			case *ir.InstLoad:
				ptr, ok := inst.Src.Type().(*types.PointerType)
				if !ok || !ptr.ElemType.Equal(inst.ElemType) {
					return fail("block %s loads %s from %s", b.Name(), inst.ElemType, inst.Src.Type())
				}
			case *ir.InstCall:
				callee, ok := inst.Callee.(*ir.Func)
				if !ok {
					continue
				}
				params := callee.Sig.Params
				if len(inst.Args) < len(params) || (len(inst.Args) > len(params) && !callee.Sig.Variadic) {
					return fail("call to %s with %d arguments", callee.Name(), len(inst.Args))
				}
				for i, param := range params {
					if !param.Equal(inst.Args[i].Type()) {
						return fail("argument %d of %s is %s, not %s", i, callee.Name(), inst.Args[i].Type(), param)
					}
				}
			}
		}

		switch term := b.Term.(type) {
		case nil:
			return fail("block %s has no terminator", b.Name())
		case *ir.TermRet:
			if term.X == nil {
				if !types.IsVoid(fn.Sig.RetType) {
					return fail("block %s returns nothing from a %s function", b.Name(), fn.Sig.RetType)
				}
			} else if !term.X.Type().Equal(fn.Sig.RetType) {
				return fail("block %s returns %s, not %s", b.Name(), term.X.Type(), fn.Sig.RetType)
			}
		case *ir.TermBr:
			if !blocks.has(term.Target) {
				return fail("block %s branches out of the function", b.Name())
			}
		case *ir.TermCondBr:
			if !blocks.has(term.TargetTrue) || !blocks.has(term.TargetFalse) {
				return fail("block %s branches out of the function", b.Name())
			}
			if !term.Cond.Type().Equal(types.I1) {
				return fail("block %s branches on a %s", b.Name(), term.Cond.Type())
			}
		}
	}

	return nil
}
