package ast

// Clone deep-copies the declaration so a module can own its own copy of the
// body.
func (f *FunctionDecl) Clone() *FunctionDecl {
	ret := &FunctionDecl{
		Name:   f.Name,
		Params: append([]Param(nil), f.Params...),
		Span:   f.Span,
	}
	for _, stmt := range f.Body {
		ret.Body = append(ret.Body, CloneStatement(stmt))
	}
	return ret
}

func cloneType(t *TypeName) *TypeName {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	ret := &Block{Span: b.Span}
	for _, stmt := range b.Body {
		ret.Body = append(ret.Body, CloneStatement(stmt))
	}
	return ret
}

func CloneStatement(s Statement) Statement {
	switch stmt := s.(type) {
	case *ExpressionStmt:
		return &ExpressionStmt{Expr: CloneExpr(stmt.Expr)}
	case *VarDecl:
		return &VarDecl{
			Name:   stmt.Name,
			Global: stmt.Global,
			Type:   cloneType(stmt.Type),
			Init:   CloneExpr(stmt.Init),
			Span:   stmt.Span,
		}
	case *Block:
		return cloneBlock(stmt)
	case *If:
		return &If{
			Cond: CloneExpr(stmt.Cond),
			Then: cloneBlock(stmt.Then),
			Else: cloneBlock(stmt.Else),
			Span: stmt.Span,
		}
	case *While:
		return &While{
			Cond: CloneExpr(stmt.Cond),
			Body: CloneStatement(stmt.Body),
			Span: stmt.Span,
		}
	case *Function:
		return &Function{Decl: stmt.Decl.Clone()}
	case *Return:
		return &Return{Value: CloneExpr(stmt.Value), Span: stmt.Span}
	case *Include:
		return &Include{Path: stmt.Path, Span: stmt.Span}
	case nil:
		return nil
	}

	panic("unhandled")
}

func CloneExpr(e Expr) Expr {
	switch expr := e.(type) {
	case *Binary:
		return &Binary{Left: CloneExpr(expr.Left), Op: expr.Op, Right: CloneExpr(expr.Right), Span: expr.Span}
	case *Unary:
		return &Unary{Op: expr.Op, Right: CloneExpr(expr.Right), Span: expr.Span}
	case *Assign:
		return &Assign{Name: expr.Name, Value: CloneExpr(expr.Value), Span: expr.Span}
	case *Call:
		ret := &Call{Callee: expr.Callee, Span: expr.Span}
		for _, arg := range expr.Args {
			ret.Args = append(ret.Args, CloneExpr(arg))
		}
		return ret
	case *Literal:
		return &Literal{Value: expr.Value, Span: expr.Span}
	case *Variable:
		return &Variable{Name: expr.Name, Type: cloneType(expr.Type), Span: expr.Span}
	case nil:
		return nil
	}

	panic("unhandled")
}
