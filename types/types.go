package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ERROR

	// symbols
	SEMICOLON
	COLON
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	PERIOD
	COMMA
	QUOTE

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	EQEQ
	NOTEQ
	LESS
	LESSEQ
	GREATER
	GREATEREQ

	NUMBER
	STRING
	IDENT

	// keywords
	ASSIGN
	INCLUDE
	LOCAL
	GLOBAL
	PROGRAM
	WHILE
	IF
	ELSE
	RETURN
	TRUE
	FALSE
	NIL

	// type names
	TYPE
)

var kindNames = map[TokenKind]string{
	EOF:       "EOF",
	ERROR:     "ERROR",
	SEMICOLON: "';'",
	COLON:     "':'",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	PERIOD:    "'.'",
	COMMA:     "','",
	QUOTE:     "'''",
	PLUS:      "'+'",
	MINUS:     "'-'",
	STAR:      "'*'",
	SLASH:     "'/'",
	PERCENT:   "'%'",
	BANG:      "'!'",
	EQEQ:      "'=='",
	NOTEQ:     "'!='",
	LESS:      "'<'",
	LESSEQ:    "'<='",
	GREATER:   "'>'",
	GREATEREQ: "'>='",
	NUMBER:    "number",
	STRING:    "string",
	IDENT:     "identifier",
	ASSIGN:    "'->'",
	INCLUDE:   "include",
	LOCAL:     "local",
	GLOBAL:    "global",
	PROGRAM:   "program",
	WHILE:     "while",
	IF:        "if",
	ELSE:      "else",
	RETURN:    "return",
	TRUE:      "true",
	FALSE:     "false",
	NIL:       "nil",
	TYPE:      "type name",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// IsKeyword reports whether the kind is one of the reserved words, including
// the `->` assignment keyword.
func (t TokenKind) IsKeyword() bool {
	return t >= ASSIGN && t <= NIL
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is a single lexeme. Text holds the literal for identifiers, numbers,
// strings, keywords and type names, and the message for ERROR tokens.
type Token struct {
	Kind     TokenKind
	Text     string
	Location Span
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, NUMBER, TYPE:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case STRING:
		return fmt.Sprintf("string %q", t.Text)
	case ERROR:
		return "error: " + t.Text
	}
	return t.Kind.String()
}
