// Package interp executes the subset of LLVM IR emitted by codegen, so
// programs can be run and tested without a native toolchain.
package interp

import (
	"fmt"
	"io"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"
)

// DefaultMaxSteps bounds the instructions executed by one Call.
const DefaultMaxSteps = 10_000_000

// Value is a float64, an int64 or a Pointer. Integers of every width are
// held as int64 truncated to their width.
type Value interface{}

type cell struct {
	v Value
}

type stringData struct {
	bytes []byte
}

// Pointer addresses a scalar slot or constant string data. The zero Pointer
// is null.
type Pointer struct {
	cell *cell
	str  *stringData
}

func (p Pointer) IsNull() bool {
	return p.cell == nil && p.str == nil
}

type Interpreter struct {
	MaxSteps int

	m       *ir.Module
	stdout  io.Writer
	funcs   map[string]*ir.Func
	globals map[*ir.Global]Pointer
	steps   int
}

func New(m *ir.Module, stdout io.Writer) *Interpreter {
	in := &Interpreter{
		MaxSteps: DefaultMaxSteps,
		m:        m,
		stdout:   stdout,
		funcs:    make(map[string]*ir.Func),
		globals:  make(map[*ir.Global]Pointer),
	}
	for _, fn := range m.Funcs {
		in.funcs[fn.Name()] = fn
	}
	return in
}

// Call runs the named function with Go float64 or int64 arguments.
func (in *Interpreter) Call(name string, args ...Value) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			result = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	fn, ok := in.funcs[name]
	if !ok {
		return nil, tracerr.Wrap(UnknownFunction{Name: name})
	}
	if len(args) != len(fn.Params) {
		return nil, tracerr.Wrap(RuntimeError{Function: name, Message: fmt.Sprintf("takes %d arguments, got %d", len(fn.Params), len(args))})
	}

	in.steps = 0
	return in.call(fn, args), nil
}

// Global reads the current value of a scalar global.
func (in *Interpreter) Global(name string) (Value, bool) {
	for _, g := range in.m.Globals {
		if g.Name() == name {
			p := in.global(g)
			if p.cell == nil {
				return nil, false
			}
			return p.cell.v, true
		}
	}
	return nil, false
}

func (in *Interpreter) tick(fn *ir.Func) {
	in.steps++
	if in.MaxSteps > 0 && in.steps > in.MaxSteps {
		panic(StepLimitExceeded{Function: fn.Name(), Limit: in.MaxSteps})
	}
}

func (in *Interpreter) global(g *ir.Global) Pointer {
	if p, ok := in.globals[g]; ok {
		return p
	}

	var p Pointer
	switch init := g.Init.(type) {
	case *constant.CharArray:
		p = Pointer{str: &stringData{bytes: init.X}}
	default:
		p = Pointer{cell: &cell{v: in.constant(init)}}
	}
	in.globals[g] = p
	return p
}

func (in *Interpreter) constant(v value.Value) Value {
	switch k := v.(type) {
	case *constant.Float:
		f, _ := k.X.Float64()
		return f
	case *constant.Int:
		return k.X.Int64()
	case *constant.Null:
		return Pointer{}
	case *constant.ExprBitCast:
		return in.constant(k.From)
	case *ir.Global:
		return in.global(k)
	}
	panic(RuntimeError{Message: fmt.Sprintf("unsupported constant %s", v.Ident())})
}

type frame struct {
	in     *Interpreter
	fn     *ir.Func
	locals map[value.Value]Value
}

func (f *frame) eval(v value.Value) Value {
	if r, ok := f.locals[v]; ok {
		return r
	}
	return f.in.constant(v)
}

func (f *frame) fail(msg string, fmts ...interface{}) {
	panic(RuntimeError{Function: f.fn.Name(), Message: fmt.Sprintf(msg, fmts...)})
}

func (in *Interpreter) call(fn *ir.Func, args []Value) Value {
	if len(fn.Blocks) == 0 {
		return in.host(fn, args)
	}

	f := &frame{in: in, fn: fn, locals: make(map[value.Value]Value)}
	for i, param := range fn.Params {
		f.locals[param] = args[i]
	}

	block := fn.Blocks[0]
	for {
		for _, inst := range block.Insts {
			in.tick(fn)
			f.exec(inst)
		}
		in.tick(fn)

		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return nil
			}
			return f.eval(term.X)
		case *ir.TermBr:
			block = asBlock(term.Target)
		case *ir.TermCondBr:
			if f.eval(term.Cond).(int64) != 0 {
				block = asBlock(term.TargetTrue)
			} else {
				block = asBlock(term.TargetFalse)
			}
		default:
			f.fail("unsupported terminator in block %s", block.Name())
		}
	}
}

func asBlock(target interface{}) *ir.Block {
	return target.(*ir.Block)
}

func truncate(x int64, t types.Type) int64 {
	it, ok := t.(*types.IntType)
	if !ok {
		return x
	}
	switch it.BitSize {
	case 1:
		return x & 1
	case 8:
		return int64(int8(x))
	case 16:
		return int64(int16(x))
	case 32:
		return int64(int32(x))
	}
	return x
}

func boolean(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func zero(t types.Type) Value {
	switch t.(type) {
	case *types.FloatType:
		return 0.0
	case *types.IntType:
		return int64(0)
	}
	return Pointer{}
}

func (f *frame) float(v value.Value) float64 {
	return f.eval(v).(float64)
}

func (f *frame) int(v value.Value) int64 {
	return f.eval(v).(int64)
}

func (f *frame) pointer(v value.Value) Pointer {
	return f.eval(v).(Pointer)
}

func (f *frame) exec(inst ir.Instruction) {
	switch inst := inst.(type) {
	case *ir.InstAlloca:
		f.locals[inst] = Pointer{cell: &cell{v: zero(inst.ElemType)}}
	case *ir.InstLoad:
		p := f.pointer(inst.Src)
		if p.cell == nil {
			f.fail("load through %s", inst.Src.Ident())
		}
		f.locals[inst] = p.cell.v
	case *ir.InstStore:
		p := f.pointer(inst.Dst)
		if p.cell == nil {
			f.fail("store through %s", inst.Dst.Ident())
		}
		p.cell.v = f.eval(inst.Src)

	case *ir.InstFAdd:
		f.locals[inst] = f.float(inst.X) + f.float(inst.Y)
	case *ir.InstFSub:
		f.locals[inst] = f.float(inst.X) - f.float(inst.Y)
	case *ir.InstFMul:
		f.locals[inst] = f.float(inst.X) * f.float(inst.Y)
	case *ir.InstFDiv:
		f.locals[inst] = f.float(inst.X) / f.float(inst.Y)
	case *ir.InstFRem:
		f.locals[inst] = math.Mod(f.float(inst.X), f.float(inst.Y))
	case *ir.InstFNeg:
		f.locals[inst] = -f.float(inst.X)

	case *ir.InstAdd:
		f.locals[inst] = truncate(f.int(inst.X)+f.int(inst.Y), inst.Type())
	case *ir.InstSub:
		f.locals[inst] = truncate(f.int(inst.X)-f.int(inst.Y), inst.Type())
	case *ir.InstMul:
		f.locals[inst] = truncate(f.int(inst.X)*f.int(inst.Y), inst.Type())
	case *ir.InstSDiv:
		y := f.int(inst.Y)
		if y == 0 {
			f.fail("integer division by zero")
		}
		f.locals[inst] = truncate(f.int(inst.X)/y, inst.Type())
	case *ir.InstSRem:
		y := f.int(inst.Y)
		if y == 0 {
			f.fail("integer division by zero")
		}
		f.locals[inst] = truncate(f.int(inst.X)%y, inst.Type())
	case *ir.InstXor:
		f.locals[inst] = truncate(f.int(inst.X)^f.int(inst.Y), inst.Type())

	case *ir.InstICmp:
		f.locals[inst] = boolean(f.icmp(inst.Pred, f.eval(inst.X), f.eval(inst.Y)))
	case *ir.InstFCmp:
		f.locals[inst] = boolean(fcmp(inst.Pred, f.float(inst.X), f.float(inst.Y)))

	case *ir.InstZExt:
		x := f.int(inst.From)
		if it, ok := inst.From.Type().(*types.IntType); ok && it.BitSize < 64 {
			x &= 1<<it.BitSize - 1
		}
		f.locals[inst] = x
	case *ir.InstSIToFP:
		f.locals[inst] = float64(f.int(inst.From))
	case *ir.InstUIToFP:
		f.locals[inst] = float64(uint64(f.int(inst.From)))
	case *ir.InstFPToSI:
		f.locals[inst] = truncate(int64(f.float(inst.From)), inst.To)
	case *ir.InstBitCast:
		f.locals[inst] = f.eval(inst.From)
	case *ir.InstSelect:
		if f.int(inst.Cond) != 0 {
			f.locals[inst] = f.eval(inst.ValueTrue)
		} else {
			f.locals[inst] = f.eval(inst.ValueFalse)
		}

	case *ir.InstCall:
		callee, ok := inst.Callee.(*ir.Func)
		if !ok {
			f.fail("indirect call through %s", inst.Callee.Ident())
		}
		args := make([]Value, len(inst.Args))
		for i, arg := range inst.Args {
			args[i] = f.eval(arg)
		}
		result := f.in.call(callee, args)
		if !types.IsVoid(callee.Sig.RetType) {
			f.locals[inst] = result
		}
	default:
		f.fail("unsupported instruction %s", inst.LLString())
	}
}

func (f *frame) icmp(pred enum.IPred, x, y Value) bool {
	if px, ok := x.(Pointer); ok {
		py := y.(Pointer)
		switch pred {
		case enum.IPredEQ:
			return px == py
		case enum.IPredNE:
			return px != py
		}
		f.fail("pointer comparison %s", pred)
	}

	a, b := x.(int64), y.(int64)
	switch pred {
	case enum.IPredEQ:
		return a == b
	case enum.IPredNE:
		return a != b
	case enum.IPredSLT:
		return a < b
	case enum.IPredSLE:
		return a <= b
	case enum.IPredSGT:
		return a > b
	case enum.IPredSGE:
		return a >= b
	case enum.IPredULT:
		return uint64(a) < uint64(b)
	case enum.IPredULE:
		return uint64(a) <= uint64(b)
	case enum.IPredUGT:
		return uint64(a) > uint64(b)
	case enum.IPredUGE:
		return uint64(a) >= uint64(b)
	}
	f.fail("unsupported predicate %s", pred)
	return false
}

func fcmp(pred enum.FPred, a, b float64) bool {
	unordered := math.IsNaN(a) || math.IsNaN(b)
	switch pred {
	case enum.FPredOEQ:
		return !unordered && a == b
	case enum.FPredONE:
		return !unordered && a != b
	case enum.FPredOLT:
		return !unordered && a < b
	case enum.FPredOLE:
		return !unordered && a <= b
	case enum.FPredOGT:
		return !unordered && a > b
	case enum.FPredOGE:
		return !unordered && a >= b
	case enum.FPredORD:
		return !unordered
	case enum.FPredUNO:
		return unordered
	case enum.FPredUEQ:
		return unordered || a == b
	case enum.FPredUNE:
		return unordered || a != b
	case enum.FPredTrue:
		return true
	}
	return false
}
