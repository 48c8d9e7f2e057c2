package ast

import "github.com/adan-lang/adango/types"

// TypeName is a declared type as written in source, eg. `f64` or `String`.
type TypeName string

const (
	TypeString  TypeName = "String"
	TypeBoolean TypeName = "Boolean"
	TypeChar    TypeName = "Char"
	TypeArray   TypeName = "Array"
	TypeObject  TypeName = "Object"
	TypeI8      TypeName = "i8"
	TypeI32     TypeName = "i32"
	TypeI64     TypeName = "i64"
	TypeU8      TypeName = "u8"
	TypeU32     TypeName = "u32"
	TypeU64     TypeName = "u64"
	TypeF32     TypeName = "f32"
	TypeF64     TypeName = "f64"
)

type Operation int

const (
	Add Operation = iota
	Subtract
	Multiply
	Divide
	Modulo
	Negate
	Not
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

// IsComparison reports whether the operation yields a boolean.
func (o Operation) IsComparison() bool {
	return o >= Equal
}

type Expr interface {
	is_Expr()
	Pos() types.Span
}

type Binary struct {
	Left  Expr
	Op    Operation
	Right Expr
	Span  types.Span
}

func (v *Binary) is_Expr()        {}
func (v *Binary) Pos() types.Span { return v.Span }

type Unary struct {
	Op    Operation
	Right Expr
	Span  types.Span
}

func (v *Unary) is_Expr()        {}
func (v *Unary) Pos() types.Span { return v.Span }

type Assign struct {
	Name  string
	Value Expr
	Span  types.Span
}

func (v *Assign) is_Expr()        {}
func (v *Assign) Pos() types.Span { return v.Span }

// Call invokes Callee, which may be a dotted `module.function` path.
type Call struct {
	Callee string
	Args   []Expr
	Span   types.Span
}

func (v *Call) is_Expr()        {}
func (v *Call) Pos() types.Span { return v.Span }

type Literal struct {
	Value LiteralValue
	Span  types.Span
}

func (v *Literal) is_Expr()        {}
func (v *Literal) Pos() types.Span { return v.Span }

// Variable references a slot by its (possibly dotted) name.
type Variable struct {
	Name string
	Type *TypeName
	Span types.Span
}

func (v *Variable) is_Expr()        {}
func (v *Variable) Pos() types.Span { return v.Span }

type LiteralValue interface {
	is_LiteralValue()
}

type Number float64

func (v Number) is_LiteralValue() {}

type String string

func (v String) is_LiteralValue() {}

type Bool bool

func (v Bool) is_LiteralValue() {}

type Nil struct{}

func (v Nil) is_LiteralValue() {}

type Statement interface {
	is_Statement()
	Pos() types.Span
}

type ExpressionStmt struct {
	Expr Expr
}

func (v *ExpressionStmt) is_Statement()   {}
func (v *ExpressionStmt) Pos() types.Span { return v.Expr.Pos() }

// VarDecl declares a variable. Global is set for `global` declarations.
type VarDecl struct {
	Name   string
	Global bool
	Type   *TypeName
	Init   Expr
	Span   types.Span
}

func (v *VarDecl) is_Statement()   {}
func (v *VarDecl) Pos() types.Span { return v.Span }

type Block struct {
	Body []Statement
	Span types.Span
}

func (v *Block) is_Statement()   {}
func (v *Block) Pos() types.Span { return v.Span }

type If struct {
	Cond Expr
	Then *Block
	Else *Block
	Span types.Span
}

func (v *If) is_Statement()   {}
func (v *If) Pos() types.Span { return v.Span }

type While struct {
	Cond Expr
	Body Statement
	Span types.Span
}

func (v *While) is_Statement()   {}
func (v *While) Pos() types.Span { return v.Span }

type Function struct {
	Decl *FunctionDecl
}

func (v *Function) is_Statement()   {}
func (v *Function) Pos() types.Span { return v.Decl.Span }

type Return struct {
	Value Expr
	Span  types.Span
}

func (v *Return) is_Statement()   {}
func (v *Return) Pos() types.Span { return v.Span }

// Include names a module by its dotted path. The path is not resolved by the
// parser.
type Include struct {
	Path string
	Span types.Span
}

func (v *Include) is_Statement()   {}
func (v *Include) Pos() types.Span { return v.Span }

type Param struct {
	Name string
	Type TypeName
}

type FunctionDecl struct {
	Name   string
	Params []Param
	Body   []Statement
	Span   types.Span
}
