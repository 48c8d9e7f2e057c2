package interp

import (
	"bytes"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/ztrue/tracerr"
)

// counter builds `double count(double n)`, which loops n times.
func counter(m *ir.Module) *ir.Func {
	n := ir.NewParam("n", types.Double)
	fn := m.NewFunc("count", types.Double, n)

	entry := fn.NewBlock("entry")
	cond := fn.NewBlock("cond")
	body := fn.NewBlock("body")
	end := fn.NewBlock("end")

	slot := entry.NewAlloca(types.Double)
	entry.NewStore(n, slot)
	steps := entry.NewAlloca(types.I64)
	entry.NewStore(constant.NewInt(types.I64, 0), steps)
	entry.NewBr(cond)

	current := cond.NewLoad(types.Double, slot)
	cond.NewCondBr(cond.NewFCmp(enum.FPredOGT, current, constant.NewFloat(types.Double, 0)), body, end)

	body.NewStore(body.NewFSub(body.NewLoad(types.Double, slot), constant.NewFloat(types.Double, 1)), slot)
	body.NewStore(body.NewAdd(body.NewLoad(types.I64, steps), constant.NewInt(types.I64, 1)), steps)
	body.NewBr(cond)

	end.NewRet(end.NewSIToFP(end.NewLoad(types.I64, steps), types.Double))
	return fn
}

func TestLoop(t *testing.T) {
	m := ir.NewModule()
	counter(m)

	got, err := New(m, nil).Call("count", 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.0 {
		t.Errorf("got %v", got)
	}
}

func TestStepLimit(t *testing.T) {
	m := ir.NewModule()
	counter(m)

	in := New(m, nil)
	in.MaxSteps = 50
	_, err := in.Call("count", 1000.0)
	if _, ok := tracerr.Unwrap(err).(StepLimitExceeded); !ok {
		t.Errorf("unexpected error %#v", err)
	}

	// the budget applies per call
	if _, err := in.Call("count", 2.0); err != nil {
		t.Errorf("unexpected error %s", err)
	}
}

func TestHostRoutines(t *testing.T) {
	m := ir.NewModule()
	printf := m.NewFunc("printf", types.I32, ir.NewParam("", types.I8Ptr))
	printf.Sig.Variadic = true
	puts := m.NewFunc("puts", types.I32, ir.NewParam("", types.I8Ptr))
	fmod := m.NewFunc("fmod", types.Double, ir.NewParam("", types.Double), ir.NewParam("", types.Double))
	strcmp := m.NewFunc("strcmp", types.I32, ir.NewParam("", types.I8Ptr), ir.NewParam("", types.I8Ptr))

	str := func(s string) constant.Constant {
		g := m.NewGlobalDef("", constant.NewCharArrayFromString(s+"\x00"))
		g.Immutable = true
		return constant.NewBitCast(g, types.I8Ptr)
	}
	format := str("%g %lld %s%%\n")
	hello := str("hello")
	other := str("hellp")

	fn := m.NewFunc("f", types.Double)
	entry := fn.NewBlock("entry")
	rem := entry.NewCall(fmod, constant.NewFloat(types.Double, 7.5), constant.NewFloat(types.Double, 2))
	entry.NewCall(printf, format, rem, constant.NewInt(types.I64, 42), hello)
	entry.NewCall(puts, hello)
	cmp := entry.NewCall(strcmp, hello, other)
	entry.NewRet(entry.NewSIToFP(cmp, types.Double))

	var out bytes.Buffer
	got, err := New(m, &out).Call("f")
	if err != nil {
		t.Fatal(err)
	}
	if got != -1.0 {
		t.Errorf("strcmp gave %v", got)
	}
	if out.String() != "1.5 42 hello%\nhello\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestErrors(t *testing.T) {
	m := ir.NewModule()
	fn := m.NewFunc("div", types.Double, ir.NewParam("a", types.I64))
	entry := fn.NewBlock("entry")
	q := entry.NewSDiv(constant.NewInt(types.I64, 1), fn.Params[0])
	entry.NewRet(entry.NewSIToFP(q, types.Double))

	in := New(m, nil)
	if _, err := in.Call("missing"); err == nil {
		t.Errorf("expected an unknown function error")
	}
	if _, err := in.Call("div"); err == nil {
		t.Errorf("expected an arity error")
	}
	if _, err := in.Call("div", int64(0)); err == nil {
		t.Errorf("expected a division error")
	} else if _, ok := tracerr.Unwrap(err).(RuntimeError); !ok {
		t.Errorf("unexpected error %#v", err)
	}
}
