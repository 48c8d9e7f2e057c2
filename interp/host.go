package interp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/llir/llvm/ir"
)

type UnknownFunction struct {
	Name string
}

func (e UnknownFunction) Error() string {
	return fmt.Sprintf("no function named '%s'", e.Name)
}

type RuntimeError struct {
	Function string
	Message  string
}

func (e RuntimeError) Error() string {
	if e.Function == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

type StepLimitExceeded struct {
	Function string
	Limit    int
}

func (e StepLimitExceeded) Error() string {
	return fmt.Sprintf("%s: gave up after %d steps", e.Function, e.Limit)
}

var unaryMath = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": math.Round,
	"fabs":  math.Abs,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"log":   math.Log,
}

var binaryMath = map[string]func(float64, float64) float64{
	"fmod": math.Mod,
	"pow":  math.Pow,
	"fmin": math.Min,
	"fmax": math.Max,
}

// host runs a declared C library function.
func (in *Interpreter) host(fn *ir.Func, args []Value) Value {
	name := fn.Name()
	if op, ok := unaryMath[name]; ok {
		return op(args[0].(float64))
	}
	if op, ok := binaryMath[name]; ok {
		return op(args[0].(float64), args[1].(float64))
	}

	switch name {
	case "strcmp":
		return int64(bytes.Compare(in.cString(name, args[0]), in.cString(name, args[1])))
	case "puts":
		fmt.Fprintf(in.stdout, "%s\n", in.cString(name, args[0]))
		return int64(0)
	case "printf":
		out := in.format(in.cString(name, args[0]), args[1:])
		fmt.Fprint(in.stdout, out)
		return int64(len(out))
	}

	panic(RuntimeError{Function: name, Message: "no host implementation"})
}

func (in *Interpreter) cString(fn string, v Value) []byte {
	p, ok := v.(Pointer)
	if !ok || p.str == nil {
		panic(RuntimeError{Function: fn, Message: "argument is not a string"})
	}
	if idx := bytes.IndexByte(p.str.bytes, 0); idx >= 0 {
		return p.str.bytes[:idx]
	}
	return p.str.bytes
}

// format implements the printf conversions emitted by the io module.
func (in *Interpreter) format(spec []byte, args []Value) string {
	var out bytes.Buffer
	next := 0
	arg := func() Value {
		if next >= len(args) {
			panic(RuntimeError{Function: "printf", Message: "too few arguments"})
		}
		next++
		return args[next-1]
	}

	for i := 0; i < len(spec); i++ {
		if spec[i] != '%' || i+1 >= len(spec) {
			out.WriteByte(spec[i])
			continue
		}

		switch rest := spec[i+1:]; {
		case bytes.HasPrefix(rest, []byte("%")):
			out.WriteByte('%')
			i++
		case bytes.HasPrefix(rest, []byte("g")):
			out.WriteString(strconv.FormatFloat(arg().(float64), 'g', 6, 64))
			i++
		case bytes.HasPrefix(rest, []byte("lld")):
			out.WriteString(strconv.FormatInt(arg().(int64), 10))
			i += 3
		case bytes.HasPrefix(rest, []byte("s")):
			out.Write(in.cString("printf", arg()))
			i++
		default:
			panic(RuntimeError{Function: "printf", Message: fmt.Sprintf("unsupported format %q", spec)})
		}
	}

	return out.String()
}
