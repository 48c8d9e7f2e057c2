package codegen

import (
	"fmt"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/check"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/report"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Program lowers a whole file: includes and globals in order, the globals
// declared inside programs, then every top-level function.
func (c *Context) Program(stmts []ast.Statement) (err error) {
	defer recoverError(&err)

	root := c.modules[""]
	c.current = root

	// forward declaration pass
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Function); ok {
			c.declareFunction(root, fn.Decl)
		}
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Include:
			if err := c.include(s.Path, root, s.Span); err != nil {
				panic(err)
			}
		case *ast.VarDecl:
			kind := check.StorageKind(s.Type)
			c.declareGlobal(root, s.Name, kind, c.globalInitializer(s, kind), s.Span)
		case *ast.Function:
		default:
			panic(errors.TopLevelStatement{Location: stmt.Pos()})
		}
	}

	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Function); ok {
			c.hoistGlobals(root, fn.Decl.Body)
		}
	}

	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Function); ok {
			c.lowerFunction(fn.Decl, root)
		}
	}

	if c.library {
		c.emitExports()
	} else {
		c.emitEntry()
	}
	return nil
}

// LowerFunction lowers decl as a member of the named module.
func (c *Context) LowerFunction(decl *ast.FunctionDecl, module string) (fn *ir.Func, err error) {
	defer recoverError(&err)

	mod, ok := c.modules[module]
	if !ok {
		mod = newModule(module, "")
		c.modules[module] = mod
	}
	c.declareFunction(mod, decl)
	c.hoistGlobals(mod, decl.Body)

	return c.lowerFunction(decl, mod), nil
}

func symbolName(module, function string) string {
	if module == "" {
		if function == "main" {
			return "adan.main"
		}
		return function
	}
	return module + "." + function
}

func (c *Context) lowerFunction(decl *ast.FunctionDecl, mod *Module) *ir.Func {
	key := funcKey{module: mod.Name, function: decl.Name}
	if fn, ok := c.lowered[key]; ok {
		return fn
	}

	kinds := make([]check.Kind, len(decl.Params))
	params := make([]*ir.Param, len(decl.Params))
	for i, param := range decl.Params {
		t := param.Type
		kinds[i] = check.StorageKind(&t)
		params[i] = ir.NewParam(param.Name, llvmType(kinds[i]))
	}

	fn := c.Module.NewFunc(symbolName(mod.Name, decl.Name), Float, params...)
	// recursive calls see the function while it is being lowered
	c.lowered[key] = fn

	report.Verbose("Lower", "%s as @%s", decl.Signature(), fn.Name())

	saved := c.save()
	defer c.restore(saved)

	c.fn = fn
	c.current = mod
	c.scopes = nil
	c.block = fn.NewBlock("entry")

	info, err := check.Function(decl, env{c})
	if err != nil {
		panic(err)
	}
	c.info = info

	c.pushScope()
	for i, param := range decl.Params {
		slot := c.alloca(kinds[i])
		c.block.NewStore(fn.Params[i], slot.Ptr)
		c.top()[param.Name] = slot
	}
	for _, stmt := range decl.Body {
		c.statement(stmt)
	}
	c.popScope()

	if c.block.Term == nil {
		c.block.NewRet(zeroValue(check.Float))
	}

	if err := verify(fn); err != nil {
		panic(err)
	}
	return fn
}

// emitEntry wraps the program's main in a C entry point.
func (c *Context) emitEntry() {
	fn, ok := c.modules[""].Functions["main"].(*SourceFunction)
	if !ok {
		report.Warn("%s has no main program; no entry point emitted", c.name)
		return
	}
	if len(fn.Decl.Params) != 0 {
		panic(errors.TypeMismatch{Message: "main cannot take parameters", Location: fn.Decl.Span})
	}

	adanMain := c.lowerFunction(fn.Decl, fn.Module)

	entry := c.Module.NewFunc("main", types.I32)
	bloc := entry.NewBlock("entry")
	result := bloc.NewCall(adanMain)
	bloc.NewRet(bloc.NewFPToSI(result, types.I32))
}

func (c *Context) statement(s ast.Statement) {
	// anything after a return lands in a block nothing jumps to
	if c.block.Term != nil {
		c.block = c.newBlock("dead")
	}

	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		c.expr(stmt.Expr)
	case *ast.VarDecl:
		c.varDecl(stmt)
	case *ast.Block:
		c.pushScope()
		for _, inner := range stmt.Body {
			c.statement(inner)
		}
		c.popScope()
	case *ast.If:
		c.ifStatement(stmt)
	case *ast.While:
		c.whileStatement(stmt)
	case *ast.Function:
		c.lowerFunction(stmt.Decl, c.current)
	case *ast.Return:
		var ret value.Value = zeroValue(check.Float)
		if stmt.Value != nil {
			ret = c.convert(c.expr(stmt.Value), c.info.KindOf(stmt.Value), check.Float)
		}
		c.block.NewRet(ret)
	case *ast.Include:
		if err := c.include(stmt.Path, c.current, stmt.Span); err != nil {
			panic(err)
		}
	default:
		panic(fmt.Sprintf("unhandled statement %T", s))
	}
}

func (c *Context) varDecl(stmt *ast.VarDecl) {
	kind := check.StorageKind(stmt.Type)

	var init value.Value = zeroValue(kind)
	if stmt.Init != nil {
		init = c.convert(c.expr(stmt.Init), c.info.KindOf(stmt.Init), kind)
	}

	var slot *Slot
	if stmt.Global {
		slot = c.declareGlobal(c.current, stmt.Name, kind, nil, stmt.Span)
		c.scopes[0][stmt.Name] = slot
	} else {
		slot = c.alloca(kind)
		c.top()[stmt.Name] = slot
	}

	c.block.NewStore(init, slot.Ptr)
}

func (c *Context) ifStatement(stmt *ast.If) {
	cond := c.truthy(stmt.Cond)
	from := c.block

	then := c.newBlock("if.then")
	c.block = then
	c.statement(stmt.Then)
	thenEnd := c.block

	var els, elseEnd *ir.Block
	if stmt.Else != nil {
		els = c.newBlock("if.else")
		c.block = els
		c.statement(stmt.Else)
		elseEnd = c.block
	}

	merge := c.newBlock("if.merge")
	if els != nil {
		from.NewCondBr(cond, then, els)
	} else {
		from.NewCondBr(cond, then, merge)
	}

	if thenEnd.Term == nil {
		thenEnd.NewBr(merge)
	}
	if elseEnd != nil && elseEnd.Term == nil {
		elseEnd.NewBr(merge)
	}

	c.block = merge
}

func (c *Context) whileStatement(stmt *ast.While) {
	cond := c.newBlock("while.cond")
	c.block.NewBr(cond)

	c.block = cond
	test := c.truthy(stmt.Cond)
	condEnd := c.block

	body := c.newBlock("while.body")
	c.block = body
	c.statement(stmt.Body)
	if c.block.Term == nil {
		c.block.NewBr(cond)
	}

	merge := c.newBlock("while.end")
	condEnd.NewCondBr(test, body, merge)

	c.block = merge
}
