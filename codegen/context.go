// Package codegen lowers parsed AdaN programs to LLVM IR.
//
// A Context owns one *ir.Module together with everything lowering needs to
// know across functions: the module registry used to resolve dotted calls,
// the memo of already lowered functions and the interned string constants.
package codegen

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/check"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/types"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"
)

// Slot is addressable storage: a stack slot or a module global.
type Slot struct {
	Ptr  value.Value
	Type lltypes.Type
	Kind check.Kind
}

type funcKey struct {
	module   string
	function string
}

// Context is the state of one compilation.
type Context struct {
	Module *ir.Module

	name    string
	dir     string
	roots   []string
	library bool
	natives map[string]func(*Context)

	modules         map[string]*Module
	lowered         map[funcKey]*ir.Func
	including       map[string]bool
	hostFuncs       map[string]*ir.Func
	stringConstants map[string]constant.Constant
	blockCount      int

	// state of the function being lowered
	fn      *ir.Func
	block   *ir.Block
	info    *check.Info
	current *Module
	scopes  []map[string]*Slot
}

type Option func(*Context)

// WithSourceDir sets the directory of the root file. It is searched first
// for includes made by the root file.
func WithSourceDir(dir string) Option {
	return func(c *Context) {
		c.dir = dir
	}
}

// WithIncludeRoots adds directories searched for source includes.
func WithIncludeRoots(roots ...string) Option {
	return func(c *Context) {
		c.roots = append(c.roots, roots...)
	}
}

// WithNativeModule makes a native module known by name. The routine runs the
// first time the module is included or called through.
func WithNativeModule(name string, routine func(*Context)) Option {
	return func(c *Context) {
		c.natives[name] = routine
	}
}

// AsLibrary skips the C entry point and embeds the exports table instead.
func AsLibrary() Option {
	return func(c *Context) {
		c.library = true
	}
}

func NewContext(name string, opts ...Option) *Context {
	c := &Context{
		Module:          ir.NewModule(),
		name:            name,
		natives:         make(map[string]func(*Context)),
		modules:         make(map[string]*Module),
		lowered:         make(map[funcKey]*ir.Func),
		including:       make(map[string]bool),
		hostFuncs:       make(map[string]*ir.Func),
		stringConstants: make(map[string]constant.Constant),
	}
	c.Module.SourceFilename = name

	for module, routine := range nativeModules {
		c.natives[module] = routine
	}
	for _, opt := range opts {
		opt(c)
	}

	root := newModule("", c.dir)
	c.modules[""] = root
	c.current = root

	return c
}

// Compile lowers a parsed file into a fresh module.
func Compile(name string, stmts []ast.Statement, opts ...Option) (*ir.Module, error) {
	c := NewContext(name, opts...)
	if err := c.Program(stmts); err != nil {
		return nil, err
	}
	return c.Module, nil
}

// Block is the block instructions are currently appended to.
func (c *Context) Block() *ir.Block {
	return c.block
}

func recoverError(err *error) {
	if r := recover(); r != nil {
		rerr, ok := r.(error)
		if !ok {
			panic(r)
		}
		*err = tracerr.Wrap(rerr)
	}
}

type funcState struct {
	fn      *ir.Func
	block   *ir.Block
	info    *check.Info
	current *Module
	scopes  []map[string]*Slot
}

func (c *Context) save() funcState {
	return funcState{c.fn, c.block, c.info, c.current, c.scopes}
}

func (c *Context) restore(s funcState) {
	c.fn, c.block, c.info, c.current, c.scopes = s.fn, s.block, s.info, s.current, s.scopes
}

func (c *Context) pushScope() {
	c.scopes = append(c.scopes, make(map[string]*Slot))
}

func (c *Context) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) top() map[string]*Slot {
	return c.scopes[len(c.scopes)-1]
}

func (c *Context) lookup(name string, at types.Span) *Slot {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if slot, ok := c.scopes[i][name]; ok {
			return slot
		}
	}
	if slot := c.moduleVariable(name); slot != nil {
		return slot
	}

	panic(errors.UndeclaredVariable{Name: name, Location: at})
}

func (c *Context) newBlock(prefix string) *ir.Block {
	c.blockCount++
	return c.fn.NewBlock(prefix + "." + strconv.Itoa(c.blockCount))
}

// alloca places a slot in the entry block so loops do not grow the stack.
func (c *Context) alloca(kind check.Kind) *Slot {
	typ := llvmType(kind)
	return &Slot{Ptr: c.fn.Blocks[0].NewAlloca(typ), Type: typ, Kind: kind}
}

func hash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

// StringConstant interns s as an immutable NUL-terminated global and returns
// it as an i8*.
func (c *Context) StringConstant(s string) constant.Constant {
	if k, ok := c.stringConstants[s]; ok {
		return k
	}

	g := c.Module.NewGlobalDef(fmt.Sprintf("_str_%s_%d", hash(s), len(c.stringConstants)), constant.NewCharArrayFromString(s+"\x00"))
	g.Immutable = true

	k := constant.NewBitCast(g, lltypes.I8Ptr)
	c.stringConstants[s] = k
	return k
}
