package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/errors"
	"github.com/adan-lang/adango/lexer"
	"github.com/adan-lang/adango/types"
	"github.com/ztrue/tracerr"
)

type Parser struct {
	tokens []types.Token
	pos    int
}

func NewParser(tokens []types.Token) Parser {
	return Parser{tokens: tokens}
}

// Parse turns a token sequence into statements. Nothing of a failed parse is
// returned.
func Parse(tokens []types.Token) ([]ast.Statement, error) {
	p := NewParser(tokens)
	return p.Parse()
}

// ParseSource lexes and parses a whole source file.
func ParseSource(r io.Reader, filename string) ([]ast.Statement, error) {
	return Parse(lexer.Tokenize(r, filename))
}

func ParseString(src, filename string) ([]ast.Statement, error) {
	return ParseSource(strings.NewReader(src), filename)
}

func (p *Parser) Parse() (stmts []ast.Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				stmts = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	for !p.PeekIs(types.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts, nil
}

func (p *Parser) Peek() types.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	var end types.Position
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].Location.To
	}
	return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(end)}
}

func (p *Parser) PeekIs(k ...types.TokenKind) bool {
	token := p.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (p *Parser) Lex() types.Token {
	tok := p.Peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// last returns the most recently consumed token.
func (p *Parser) last() types.Token {
	if p.pos == 0 {
		return p.Peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) spanFrom(from types.Token) types.Span {
	return types.Span{From: from.Location.From, To: p.last().Location.To}
}

func (p *Parser) LexExpecting(k ...types.TokenKind) types.Token {
	token := p.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	if len(k) == 1 {
		panic(errors.ExpectedKindGotKind{
			Expected: k[0],
			Got:      token,
			Location: token.Location,
		})
	}
	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token,
		Location: token.Location,
	})
}

// accept consumes the next token if it is of the given kind.
func (p *Parser) accept(k types.TokenKind) bool {
	if p.PeekIs(k) {
		p.Lex()
		return true
	}
	return false
}

func (p *Parser) parseStatement() ast.Statement {
	tok := p.Peek()

	switch tok.Kind {
	case types.INCLUDE:
		return p.parseInclude()
	case types.LOCAL, types.GLOBAL:
		return p.parseVarDecl()
	case types.WHILE:
		return p.parseWhile()
	case types.IF:
		return p.parseIf()
	case types.PROGRAM:
		return &ast.Function{Decl: p.parseFunction()}
	case types.RETURN:
		return p.parseReturn()
	case types.LBRACE:
		return p.parseBlock()
	}

	expr := p.parseExpression()
	p.LexExpecting(types.SEMICOLON)
	return &ast.ExpressionStmt{Expr: expr}
}

func (p *Parser) parseInclude() ast.Statement {
	from := p.LexExpecting(types.INCLUDE)

	var path strings.Builder
	path.WriteString(p.LexExpecting(types.IDENT).Text)
	for p.accept(types.PERIOD) {
		path.WriteByte('.')
		path.WriteString(p.LexExpecting(types.IDENT).Text)
	}
	p.LexExpecting(types.SEMICOLON)

	return &ast.Include{Path: path.String(), Span: p.spanFrom(from)}
}

func (p *Parser) parseVarDecl() ast.Statement {
	from := p.LexExpecting(types.LOCAL, types.GLOBAL)
	name := p.LexExpecting(types.IDENT)
	p.LexExpecting(types.COLON)

	decl := &ast.VarDecl{
		Name:   name.Text,
		Global: from.Kind == types.GLOBAL,
	}
	if p.PeekIs(types.TYPE) {
		t := ast.TypeName(p.Lex().Text)
		decl.Type = &t
	}
	if p.accept(types.ASSIGN) {
		decl.Init = p.parseExpression()
	}
	p.LexExpecting(types.SEMICOLON)

	decl.Span = p.spanFrom(from)
	return decl
}

func (p *Parser) parseWhile() ast.Statement {
	from := p.LexExpecting(types.WHILE)
	p.LexExpecting(types.LPAREN)
	cond := p.parseExpression()
	p.LexExpecting(types.RPAREN)
	body := p.parseBlock()

	return &ast.While{Cond: cond, Body: body, Span: p.spanFrom(from)}
}

func (p *Parser) parseIf() ast.Statement {
	from := p.LexExpecting(types.IF)
	p.LexExpecting(types.LPAREN)
	cond := p.parseExpression()
	p.LexExpecting(types.RPAREN)

	stmt := &ast.If{Cond: cond, Then: p.parseBlock()}
	if p.accept(types.ELSE) {
		stmt.Else = p.parseBlock()
	}

	stmt.Span = p.spanFrom(from)
	return stmt
}

func (p *Parser) parseFunction() *ast.FunctionDecl {
	from := p.LexExpecting(types.PROGRAM)
	p.LexExpecting(types.ASSIGN)
	name := p.LexExpecting(types.IDENT)

	decl := &ast.FunctionDecl{Name: name.Text}
	if p.accept(types.LPAREN) {
		for !p.accept(types.RPAREN) {
			param := p.LexExpecting(types.IDENT)
			p.LexExpecting(types.COLON)
			kind := p.LexExpecting(types.TYPE)
			p.accept(types.COMMA)

			decl.Params = append(decl.Params, ast.Param{
				Name: param.Text,
				Type: ast.TypeName(kind.Text),
			})
		}
	}

	decl.Body = p.parseBlock().Body
	decl.Span = p.spanFrom(from)
	return decl
}

func (p *Parser) parseReturn() ast.Statement {
	from := p.LexExpecting(types.RETURN)

	stmt := &ast.Return{}
	if !p.PeekIs(types.SEMICOLON) {
		stmt.Value = p.parseExpression()
	}
	p.LexExpecting(types.SEMICOLON)

	stmt.Span = p.spanFrom(from)
	return stmt
}

func (p *Parser) parseBlock() *ast.Block {
	from := p.LexExpecting(types.LBRACE)

	block := &ast.Block{}
	for !p.accept(types.RBRACE) {
		if p.PeekIs(types.EOF) {
			panic(errors.UnexpectedEOF{Context: "block starting at " + from.Location.From.String()})
		}
		block.Body = append(block.Body, p.parseStatement())
	}

	block.Span = p.spanFrom(from)
	return block
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	from := p.Peek()
	target := p.parseEquality()

	if !p.PeekIs(types.ASSIGN) {
		return target
	}
	arrow := p.Lex()

	v, ok := target.(*ast.Variable)
	if !ok {
		panic(errors.InvalidAssignTarget{Location: arrow.Location})
	}

	value := p.parseAssignment()
	return &ast.Assign{Name: v.Name, Value: value, Span: p.spanFrom(from)}
}

var binaryOps = map[types.TokenKind]ast.Operation{
	types.PLUS:      ast.Add,
	types.MINUS:     ast.Subtract,
	types.STAR:      ast.Multiply,
	types.SLASH:     ast.Divide,
	types.PERCENT:   ast.Modulo,
	types.EQEQ:      ast.Equal,
	types.NOTEQ:     ast.NotEqual,
	types.LESS:      ast.Less,
	types.LESSEQ:    ast.LessEqual,
	types.GREATER:   ast.Greater,
	types.GREATEREQ: ast.GreaterEqual,
}

// parseLeftAssoc parses `next (op next)*` for the given operator tokens.
func (p *Parser) parseLeftAssoc(next func() ast.Expr, ops ...types.TokenKind) ast.Expr {
	from := p.Peek()
	left := next()

	for p.PeekIs(ops...) {
		op := p.Lex()
		right := next()
		left = &ast.Binary{
			Left:  left,
			Op:    binaryOps[op.Kind],
			Right: right,
			Span:  p.spanFrom(from),
		}
	}

	return left
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseLeftAssoc(p.parseComparison, types.EQEQ, types.NOTEQ)
}

func (p *Parser) parseComparison() ast.Expr {
	return p.parseLeftAssoc(p.parseAdditive, types.LESS, types.LESSEQ, types.GREATER, types.GREATEREQ)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseLeftAssoc(p.parseTerm, types.PLUS, types.MINUS)
}

func (p *Parser) parseTerm() ast.Expr {
	return p.parseLeftAssoc(p.parseUnary, types.STAR, types.SLASH, types.PERCENT)
}

func (p *Parser) parseUnary() ast.Expr {
	if p.PeekIs(types.MINUS, types.BANG) {
		op := p.Lex()
		right := p.parseUnary()

		unary := &ast.Unary{Op: ast.Negate, Right: right, Span: p.spanFrom(op)}
		if op.Kind == types.BANG {
			unary.Op = ast.Not
		}
		return unary
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.Lex()

	switch tok.Kind {
	case types.NUMBER:
		parsed, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(err)
		}
		return &ast.Literal{Value: ast.Number(parsed), Span: tok.Location}
	case types.STRING:
		return &ast.Literal{Value: ast.String(tok.Text), Span: tok.Location}
	case types.TRUE, types.FALSE:
		return &ast.Literal{Value: ast.Bool(tok.Kind == types.TRUE), Span: tok.Location}
	case types.NIL:
		return &ast.Literal{Value: ast.Nil{}, Span: tok.Location}
	case types.LPAREN:
		expr := p.parseExpression()
		p.LexExpecting(types.RPAREN)
		return expr
	case types.IDENT:
		name := tok.Text
		for p.accept(types.PERIOD) {
			name += "." + p.LexExpecting(types.IDENT).Text
		}

		if !p.accept(types.LPAREN) {
			return &ast.Variable{Name: name, Span: p.spanFrom(tok)}
		}

		var args []ast.Expr
		if !p.accept(types.RPAREN) {
			for {
				args = append(args, p.parseExpression())
				if p.LexExpecting(types.COMMA, types.RPAREN).Kind == types.RPAREN {
					break
				}
			}
		}

		return &ast.Call{Callee: name, Args: args, Span: p.spanFrom(tok)}
	case types.EOF:
		panic(errors.UnexpectedEOF{Context: "expression"})
	}

	panic(errors.UnexpectedToken{
		Context:  "expression",
		Got:      tok,
		Location: tok.Location,
	})
}
