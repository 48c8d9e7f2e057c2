package errors

import (
	"fmt"

	"github.com/adan-lang/adango/types"
)

type ExpectedKindGotKind struct {
	Expected types.TokenKind
	Got      types.Token
	Location types.Span
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("got %s, expected %s. %s", e.Got, e.Expected, e.Location)
}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.Token
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}

// UnexpectedToken is raised when no grammar rule starts with the token. Lexer
// errors reach the user through this error.
type UnexpectedToken struct {
	Context  string
	Got      types.Token
	Location types.Span
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected %s in %s. %s", e.Got, e.Context, e.Location)
}

// UnexpectedEOF is raised when input ends inside a construct, such as a block
// missing its closing brace.
type UnexpectedEOF struct {
	Context string
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("unexpected end of input in %s", e.Context)
}

type InvalidAssignTarget struct {
	Location types.Span
}

func (e InvalidAssignTarget) Error() string {
	return fmt.Sprintf("the left side of '->' must be a variable name. %s", e.Location)
}

type UndeclaredVariable struct {
	Name     string
	Location types.Span
}

func (e UndeclaredVariable) Error() string {
	return fmt.Sprintf("variable not declared: %s. %s", e.Name, e.Location)
}

type UnresolvedModule struct {
	Module   string
	Location types.Span
}

func (e UnresolvedModule) Error() string {
	return fmt.Sprintf("module not found: %s. %s", e.Module, e.Location)
}

type UnresolvedFunction struct {
	Module   string
	Function string
	Location types.Span
}

func (e UnresolvedFunction) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("function '%s' not found. %s", e.Function, e.Location)
	}
	return fmt.Sprintf("function '%s' not defined in module '%s'. %s", e.Function, e.Module, e.Location)
}

type TypeMismatch struct {
	Message  string
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: %s. %s", e.Message, e.Location)
}

type ArityMismatch struct {
	Function string
	Expected int
	Got      int
	Location types.Span
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("function '%s' takes %d arguments, got %d. %s", e.Function, e.Expected, e.Got, e.Location)
}

type VoidValue struct {
	Function string
	Location types.Span
}

func (e VoidValue) Error() string {
	return fmt.Sprintf("call to '%s' produces no value. %s", e.Function, e.Location)
}

type MissingInclude struct {
	Path     string
	Searched []string
	Location types.Span
}

func (e MissingInclude) Error() string {
	return fmt.Sprintf("include file not found: %s (searched %v). %s", e.Path, e.Searched, e.Location)
}

type IncludeCycle struct {
	Path     string
	Location types.Span
}

func (e IncludeCycle) Error() string {
	return fmt.Sprintf("include cycle through module '%s'. %s", e.Path, e.Location)
}

type TopLevelStatement struct {
	Location types.Span
}

func (e TopLevelStatement) Error() string {
	return fmt.Sprintf("only includes, declarations and programs are allowed at the top level. %s", e.Location)
}

type NonConstantGlobal struct {
	Name     string
	Location types.Span
}

func (e NonConstantGlobal) Error() string {
	return fmt.Sprintf("global '%s' must be initialized with a literal. %s", e.Name, e.Location)
}

type VerificationFailed struct {
	Function string
	Reason   string
}

func (e VerificationFailed) Error() string {
	return fmt.Sprintf("function verification failed for '%s': %s", e.Function, e.Reason)
}

// Redeclared is raised when a module already has a different program with
// the same name.
type Redeclared struct {
	Name     string
	Location types.Span
}

func (e Redeclared) Error() string {
	return fmt.Sprintf("program '%s' is already declared in this module. %s", e.Name, e.Location)
}

type ReservedName struct {
	Name     string
	Location types.Span
}

func (e ReservedName) Error() string {
	return fmt.Sprintf("'%s' is reserved for a host routine and cannot name a program. %s", e.Name, e.Location)
}

type UnprintableValue struct {
	Type string
}

func (e UnprintableValue) Error() string {
	return fmt.Sprintf("cannot print a value of type %s", e.Type)
}
