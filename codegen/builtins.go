package codegen

import (
	"fmt"

	"github.com/adan-lang/adango/check"
	"github.com/adan-lang/adango/errors"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// nativeModules are the modules that are registered on first use.
var nativeModules = map[string]func(*Context){
	"io":   addIO,
	"math": addMath,
}

func variadic(t *types.FuncType) *types.FuncType {
	t.Variadic = true
	return t
}

var (
	unaryDouble  = types.NewFunc(types.Double, types.Double)
	binaryDouble = types.NewFunc(types.Double, types.Double, types.Double)
)

// hostRoutines are the C library functions lowered code may call.
var hostRoutines = map[string]*types.FuncType{
	"fmod":   binaryDouble,
	"pow":    binaryDouble,
	"fmin":   binaryDouble,
	"fmax":   binaryDouble,
	"sqrt":   unaryDouble,
	"floor":  unaryDouble,
	"ceil":   unaryDouble,
	"round":  unaryDouble,
	"fabs":   unaryDouble,
	"sin":    unaryDouble,
	"cos":    unaryDouble,
	"tan":    unaryDouble,
	"exp":    unaryDouble,
	"log":    unaryDouble,
	"strcmp": types.NewFunc(types.I32, types.I8Ptr, types.I8Ptr),
	"puts":   types.NewFunc(types.I32, types.I8Ptr),
	"printf": variadic(types.NewFunc(types.I32, types.I8Ptr)),
}

// HostFunc declares a C library function in the module on first use.
func (c *Context) HostFunc(name string) *ir.Func {
	if fn, ok := c.hostFuncs[name]; ok {
		return fn
	}

	sig, ok := hostRoutines[name]
	if !ok {
		panic(fmt.Sprintf("unknown host routine %s", name))
	}

	var params []*ir.Param
	for i, t := range sig.Params {
		params = append(params, ir.NewParam(fmt.Sprintf("p%d", i), t))
	}
	fn := c.Module.NewFunc(name, sig.RetType, params...)
	fn.Sig.Variadic = sig.Variadic

	c.hostFuncs[name] = fn
	return fn
}

func addIO(c *Context) {
	echo := check.Signature{Params: []check.Kind{check.Any}, Result: check.Any}

	c.RegisterNative("io", "out", echo, func(c *Context, args []value.Value) (Result, error) {
		return c.printValue(args[0], true)
	})
	c.RegisterNative("io", "print", echo, func(c *Context, args []value.Value) (Result, error) {
		return c.printValue(args[0], false)
	})
}

// printValue prints v with printf, choosing the format from its LLVM type.
func (c *Context) printValue(v value.Value, newline bool) (Result, error) {
	b := c.block
	suffix := ""
	if newline {
		suffix = "\n"
	}
	printf := c.HostFunc("printf")

	if _, ok := v.(*constant.Null); ok {
		b.NewCall(printf, c.StringConstant("nil"+suffix))
		return ValueResult(v), nil
	}

	switch t := v.Type(); {
	case t.Equal(types.Double):
		b.NewCall(printf, c.StringConstant("%g"+suffix), v)
	case t.Equal(types.I64):
		b.NewCall(printf, c.StringConstant("%lld"+suffix), v)
	case t.Equal(types.I1):
		b.NewCall(printf, c.StringConstant("%lld"+suffix), b.NewZExt(v, types.I64))
	case t.Equal(types.I8Ptr):
		isNil := b.NewICmp(enum.IPredEQ, v, constant.NewNull(types.I8Ptr))
		text := b.NewSelect(isNil, c.StringConstant("nil"), v)
		if newline {
			b.NewCall(c.HostFunc("puts"), text)
		} else {
			b.NewCall(printf, c.StringConstant("%s"), text)
		}
	default:
		return Result{}, errors.UnprintableValue{Type: t.String()}
	}

	return ValueResult(v), nil
}

func floats(n int) check.Signature {
	sig := check.Signature{Result: check.Float}
	for i := 0; i < n; i++ {
		sig.Params = append(sig.Params, check.Float)
	}
	return sig
}

func host(name string) NativeEmitter {
	return func(c *Context, args []value.Value) (Result, error) {
		return ValueResult(c.block.NewCall(c.HostFunc(name), args...)), nil
	}
}

func addMath(c *Context) {
	unary := map[string]string{
		"sqrt":  "sqrt",
		"floor": "floor",
		"ceil":  "ceil",
		"round": "round",
		"abs":   "fabs",
		"sin":   "sin",
		"cos":   "cos",
		"tan":   "tan",
		"exp":   "exp",
		"log":   "log",
	}
	for name, routine := range unary {
		c.RegisterNative("math", name, floats(1), host(routine))
	}

	c.RegisterNative("math", "pow", floats(2), host("pow"))
	c.RegisterNative("math", "min", floats(2), host("fmin"))
	c.RegisterNative("math", "max", floats(2), host("fmax"))

	c.RegisterNative("math", "clamp", floats(3), func(c *Context, args []value.Value) (Result, error) {
		b := c.block
		low := b.NewCall(c.HostFunc("fmax"), args[0], args[1])
		return ValueResult(b.NewCall(c.HostFunc("fmin"), low, args[2])), nil
	})
	c.RegisterNative("math", "lerp", floats(3), func(c *Context, args []value.Value) (Result, error) {
		b := c.block
		span := b.NewFSub(args[1], args[0])
		return ValueResult(b.NewFAdd(args[0], b.NewFMul(span, args[2]))), nil
	})
}
