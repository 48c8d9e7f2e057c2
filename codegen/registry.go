package codegen

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/check"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/parser"
	"github.com/adan-lang/adango/report"
	"github.com/adan-lang/adango/types"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"
)

// Module is a namespace of callables and module-level storage. The root file
// is the module named "".
type Module struct {
	Name      string
	Dir       string
	Native    bool
	Functions map[string]Function
	Variables map[string]*Slot
}

func newModule(name, dir string) *Module {
	return &Module{
		Name:      name,
		Dir:       dir,
		Functions: make(map[string]Function),
		Variables: make(map[string]*Slot),
	}
}

// Function is either a *SourceFunction or a *NativeFunction.
type Function interface {
	Signature() check.Signature
	is_Function()
}

// SourceFunction is a declaration that is lowered the first time it is
// called.
type SourceFunction struct {
	Decl   *ast.FunctionDecl
	Module *Module
}

func (f *SourceFunction) is_Function() {}

func (f *SourceFunction) Signature() check.Signature {
	sig := check.Signature{Result: check.Float}
	for _, param := range f.Decl.Params {
		t := param.Type
		sig.Params = append(sig.Params, check.StorageKind(&t))
	}
	return sig
}

// NativeEmitter emits the body of a native call at the current block. Args
// are already converted to the parameter kinds, except for Any parameters.
type NativeEmitter func(c *Context, args []value.Value) (Result, error)

type NativeFunction struct {
	Module string
	Name   string
	Sig    check.Signature
	Emit   NativeEmitter
}

func (f *NativeFunction) is_Function() {}

func (f *NativeFunction) Signature() check.Signature {
	return f.Sig
}

// Result is the outcome of a native call: a value, or nothing.
type Result struct {
	value value.Value
}

func ValueResult(v value.Value) Result {
	return Result{value: v}
}

func VoidResult() Result {
	return Result{}
}

func (r Result) Value() (value.Value, bool) {
	return r.value, r.value != nil
}

// RegisterNative adds a native function to module, creating the module if
// needed. Arguments are not checked here; calls are checked against sig.
func (c *Context) RegisterNative(module, name string, sig check.Signature, emit NativeEmitter) {
	mod, ok := c.modules[module]
	if !ok {
		mod = newModule(module, "")
		mod.Native = true
		c.modules[module] = mod
	}

	mod.Functions[name] = &NativeFunction{
		Module: module,
		Name:   name,
		Sig:    sig,
		Emit:   emit,
	}
}

// registerNativeModule runs the registration routine of a known native
// module once.
func (c *Context) registerNativeModule(name string) *Module {
	if mod, ok := c.modules[name]; ok {
		return mod
	}

	mod := newModule(name, "")
	mod.Native = true
	c.modules[name] = mod

	report.Verbose("Native", "registering module '%s'", name)
	c.natives[name](c)

	return mod
}

// Resolve finds the function named by a possibly dotted callee, as seen from
// the module named from.
func (c *Context) Resolve(dotted, from string) (Function, error) {
	fn, err := c.resolve(dotted, from, types.Span{})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return fn, nil
}

func (c *Context) resolve(dotted, from string, at types.Span) (Function, error) {
	idx := strings.LastIndex(dotted, ".")
	if idx < 0 {
		for _, key := range []string{from, ""} {
			if mod, ok := c.modules[key]; ok {
				if fn, ok := mod.Functions[dotted]; ok {
					return fn, nil
				}
			}
		}
		return nil, errors.UnresolvedFunction{Function: dotted, Location: at}
	}

	key, name := dotted[:idx], dotted[idx+1:]
	mod, ok := c.modules[key]
	if !ok {
		native := nativeName(key)
		if _, known := c.natives[native]; !known {
			return nil, errors.UnresolvedModule{Module: key, Location: at}
		}
		mod = c.registerNativeModule(native)
		c.modules[key] = mod
	}

	fn, ok := mod.Functions[name]
	if !ok {
		return nil, errors.UnresolvedFunction{Module: key, Function: name, Location: at}
	}
	return fn, nil
}

// Include makes a module available to the root file.
func (c *Context) Include(path string) (err error) {
	defer recoverError(&err)

	if err := c.include(path, c.modules[""], types.Span{}); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

func (c *Context) include(path string, from *Module, at types.Span) error {
	if _, ok := c.modules[path]; ok {
		return nil
	}

	name := nativeName(path)
	if _, ok := c.natives[name]; ok {
		c.modules[path] = c.registerNativeModule(name)
		return nil
	}

	if c.including[path] {
		return errors.IncludeCycle{Path: path, Location: at}
	}

	file, searched := c.findInclude(name, from)
	if file == "" {
		return errors.MissingInclude{Path: path, Searched: searched, Location: at}
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	stmts, err := parser.ParseSource(f, file)
	if err != nil {
		return err
	}

	c.including[path] = true
	defer delete(c.including, path)

	report.Verbose("Include", "module '%s' from %s", path, file)

	mod := newModule(path, filepath.Dir(file))
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Function:
			c.declareFunction(mod, s.Decl.Clone())
		case *ast.VarDecl:
			c.declareGlobal(mod, s.Name, check.StorageKind(s.Type), nil, s.Span)
		case *ast.Include:
			if err := c.include(s.Path, mod, s.Span); err != nil {
				return err
			}
		default:
			report.Warn("%s: ignoring top-level statement in module '%s'", stmt.Pos(), path)
		}
	}

	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Function); ok {
			c.hoistGlobals(mod, fn.Decl.Body)
		}
	}

	c.modules[path] = mod
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		if _, taken := c.modules[path[idx+1:]]; !taken {
			c.modules[path[idx+1:]] = mod
		}
	}
	return nil
}

// nativeName strips the standard library prefixes from a module path.
func nativeName(path string) string {
	return strings.TrimPrefix(strings.TrimPrefix(path, "adan."), "std.")
}

// findInclude maps a dotted module name to a file, searching the including
// module's directory before the include roots.
func (c *Context) findInclude(name string, from *Module) (string, []string) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/") + ".adn")

	var dirs []string
	if from != nil && from.Dir != "" {
		dirs = append(dirs, from.Dir)
	}
	dirs = append(dirs, c.roots...)
	if len(dirs) == 0 {
		dirs = append(dirs, ".")
	}

	var searched []string
	for _, dir := range dirs {
		candidate := filepath.Join(dir, rel)
		searched = append(searched, candidate)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, searched
		}
	}
	return "", searched
}

func globalName(module, name string) string {
	if module == "" {
		return "global." + name
	}
	return "global." + module + "." + name
}

// declareGlobal returns the module-level slot for name, creating it with init
// or the zero value of kind.
func (c *Context) declareGlobal(mod *Module, name string, kind check.Kind, init constant.Constant, at types.Span) *Slot {
	if slot, ok := mod.Variables[name]; ok {
		if slot.Kind != kind {
			panic(errors.TypeMismatch{Message: "global '" + name + "' redeclared as a " + kind.String(), Location: at})
		}
		return slot
	}

	if init == nil {
		init = zeroValue(kind)
	}
	g := c.Module.NewGlobalDef(globalName(mod.Name, name), init)

	slot := &Slot{Ptr: g, Type: llvmType(kind), Kind: kind}
	mod.Variables[name] = slot
	return slot
}

// declareFunction adds a source program to mod. Declaring the same program
// again is a no-op; a different program under a taken name is not.
func (c *Context) declareFunction(mod *Module, decl *ast.FunctionDecl) *SourceFunction {
	// root programs are emitted under their own names, next to the host routines
	if _, ok := hostRoutines[decl.Name]; ok && mod.Name == "" {
		panic(errors.ReservedName{Name: decl.Name, Location: decl.Span})
	}

	if existing, ok := mod.Functions[decl.Name]; ok {
		if src, ok := existing.(*SourceFunction); ok && src.Decl == decl {
			return src
		}
		panic(errors.Redeclared{Name: decl.Name, Location: decl.Span})
	}

	fn := &SourceFunction{Decl: decl, Module: mod}
	mod.Functions[decl.Name] = fn
	return fn
}

// hoistGlobals declares the globals a program body declares, at any depth, so
// that every program of the module can use them whatever the lowering order.
func (c *Context) hoistGlobals(mod *Module, body []ast.Statement) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if s.Global {
				c.declareGlobal(mod, s.Name, check.StorageKind(s.Type), nil, s.Span)
			}
		case *ast.Block:
			c.hoistGlobals(mod, s.Body)
		case *ast.If:
			c.hoistGlobals(mod, s.Then.Body)
			if s.Else != nil {
				c.hoistGlobals(mod, s.Else.Body)
			}
		case *ast.While:
			c.hoistGlobals(mod, []ast.Statement{s.Body})
		case *ast.Function:
			c.hoistGlobals(mod, s.Decl.Body)
		}
	}
}

// moduleVariable resolves a name against the current module, the root module
// and then dotted module paths.
func (c *Context) moduleVariable(name string) *Slot {
	if c.current != nil {
		if slot, ok := c.current.Variables[name]; ok {
			return slot
		}
	}
	if slot, ok := c.modules[""].Variables[name]; ok {
		return slot
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		if mod, ok := c.modules[name[:idx]]; ok {
			return mod.Variables[name[idx+1:]]
		}
	}
	return nil
}

// env exposes the registry to the checker for the function being lowered.
type env struct {
	c *Context
}

func (e env) Variable(name string) (check.Kind, bool) {
	if slot := e.c.moduleVariable(name); slot != nil {
		return slot.Kind, true
	}
	return check.Invalid, false
}

func (e env) Signature(callee string, at types.Span) (check.Signature, error) {
	fn, err := e.c.resolve(callee, e.c.current.Name, at)
	if err != nil {
		return check.Signature{}, err
	}
	return fn.Signature(), nil
}

func (e env) Include(path string, at types.Span) error {
	return e.c.include(path, e.c.current, at)
}

func (e env) DeclareFunction(decl *ast.FunctionDecl) {
	e.c.declareFunction(e.c.current, decl)
}
