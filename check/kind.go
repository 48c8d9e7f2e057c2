// Package check decides the kind of every expression in a function before it
// is lowered, so that lowering never has to inspect produced values to choose
// an operation.
package check

import "github.com/adan-lang/adango/ast"

type Kind int

const (
	Invalid Kind = iota
	Float
	Int
	Bool
	Pointer
	Nil
	Void

	// Any only appears in native signatures and accepts every value kind.
	Any
)

var kindNames = map[Kind]string{
	Invalid: "invalid",
	Float:   "float",
	Int:     "int",
	Bool:    "bool",
	Pointer: "pointer",
	Nil:     "nil",
	Void:    "void",
	Any:     "any",
}

func (k Kind) String() string {
	return kindNames[k]
}

func (k Kind) IsNumeric() bool {
	return k == Float || k == Int
}

// StorageKind maps a declared type to the kind of its storage slot. A missing
// type is stored as an integer.
func StorageKind(t *ast.TypeName) Kind {
	if t == nil {
		return Int
	}

	switch *t {
	case ast.TypeF32, ast.TypeF64:
		return Float
	case ast.TypeString, ast.TypeArray, ast.TypeObject:
		return Pointer
	}
	return Int
}

// Assignable reports whether a value of kind src can be stored into a slot of
// kind dst, possibly after a numeric conversion.
func Assignable(dst, src Kind) bool {
	if src == Void || src == Invalid {
		return false
	}

	switch dst {
	case Any:
		return true
	case Float, Int:
		return src == Float || src == Int || src == Bool
	case Pointer:
		return src == Pointer || src == Nil
	}
	return dst == src
}

// Signature describes a callable. Variadic signatures accept any number of
// arguments, each checked against the last parameter kind. An Any result
// echoes the kind of the first argument.
type Signature struct {
	Params   []Kind
	Variadic bool
	Result   Kind
}

// Param returns the kind expected for argument idx.
func (s Signature) Param(idx int) Kind {
	switch {
	case idx < len(s.Params):
		return s.Params[idx]
	case len(s.Params) > 0:
		return s.Params[len(s.Params)-1]
	}
	return Any
}
