package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/adan-lang/adango/types"
)

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// Tokenize lexes the whole input. It never fails: bad input shows up as ERROR
// tokens, and the end of input terminates the sequence without being part of it.
func Tokenize(reader io.Reader, filename string) []types.Token {
	return NewLexer(reader, filename).lexToEOF()
}

// TokenizeString is Tokenize over an in-memory source.
func TokenizeString(src, filename string) []types.Token {
	return Tokenize(strings.NewReader(src), filename)
}

var keywords = map[string]types.TokenKind{
	"include": types.INCLUDE,
	"local":   types.LOCAL,
	"global":  types.GLOBAL,
	"program": types.PROGRAM,
	"while":   types.WHILE,
	"if":      types.IF,
	"else":    types.ELSE,
	"return":  types.RETURN,
	"true":    types.TRUE,
	"false":   types.FALSE,
	"nil":     types.NIL,
}

var typeNames = map[string]struct{}{
	"String":  {},
	"Boolean": {},
	"Char":    {},
	"Array":   {},
	"Object":  {},
	"i8":      {},
	"i32":     {},
	"i64":     {},
	"u8":      {},
	"u32":     {},
	"u64":     {},
	"f32":     {},
	"f64":     {},
}

var symbols = map[rune]types.TokenKind{
	';':  types.SEMICOLON,
	':':  types.COLON,
	'(':  types.LPAREN,
	')':  types.RPAREN,
	'{':  types.LBRACE,
	'}':  types.RBRACE,
	'.':  types.PERIOD,
	',':  types.COMMA,
	'\'': types.QUOTE,
	'+':  types.PLUS,
	'*':  types.STAR,
	'%':  types.PERCENT,
}

// Reserved returns every word the lexer classifies as a keyword or type name.
func Reserved() map[string]types.TokenKind {
	ret := make(map[string]types.TokenKind, len(keywords)+len(typeNames))
	for word, kind := range keywords {
		ret[word] = kind
	}
	for word := range typeNames {
		ret[word] = types.TYPE
	}
	return ret
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

// read consumes one rune, keeping the position current.
func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}

	if r == '\n' {
		l.newline()
	} else {
		l.pos.Column++
	}
	return r, true
}

func (l *Lexer) peek() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}
	return r, true
}

// peekIs reports whether the next rune is r, consuming it if so.
func (l *Lexer) peekIs(r rune) bool {
	next, ok := l.peek()
	if ok && next == r {
		l.read()
		return true
	}
	return false
}

func (l *Lexer) kinded(t types.TokenKind, text string, from types.Position) types.Token {
	return types.Token{
		Kind:     t,
		Text:     text,
		Location: types.Span{From: from, To: l.pos},
	}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func (l *Lexer) readWhile(first rune, cond func(rune) bool) string {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, ok := l.peek()
		if !ok || !cond(r) {
			return sb.String()
		}
		l.read()
		sb.WriteRune(r)
	}
}

func (l *Lexer) lexNumber(first rune) string {
	lit := l.readWhile(first, unicode.IsDigit)

	// a fractional part needs a digit after the period, otherwise the period
	// belongs to whatever follows
	byt, _ := l.reader.Peek(2)
	if len(byt) == 2 && byt[0] == '.' && byt[1] >= '0' && byt[1] <= '9' {
		l.read()
		r, _ := l.read()
		lit += "." + l.readWhile(r, unicode.IsDigit)
	}

	return lit
}

func (l *Lexer) lexString() (string, bool) {
	var sb strings.Builder
	for {
		r, ok := l.read()
		if !ok {
			return sb.String(), false
		}

		switch r {
		case '"':
			return sb.String(), true
		case '\\':
			esc, ok := l.read()
			if !ok {
				return sb.String(), false
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *Lexer) skipLine() {
	for {
		r, ok := l.read()
		if !ok || r == '\n' {
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	for {
		r, ok := l.read()
		if !ok {
			return
		}
		if r == '*' && l.peekIs('/') {
			return
		}
	}
}

// Lex returns the next token, or an EOF token once the input is exhausted.
func (l *Lexer) Lex() types.Token {
	for {
		r, ok := l.read()
		if !ok {
			return l.kinded(types.EOF, "", l.pos)
		}
		from := l.pos

		if unicode.IsSpace(r) {
			continue
		}

		switch r {
		case '/':
			if l.peekIs('/') {
				l.skipLine()
				continue
			}
			if l.peekIs('*') {
				l.skipBlockComment()
				continue
			}
			return l.kinded(types.SLASH, "/", from)
		case '-':
			if l.peekIs('>') {
				return l.kinded(types.ASSIGN, "->", from)
			}
			return l.kinded(types.MINUS, "-", from)
		case '=':
			if l.peekIs('=') {
				return l.kinded(types.EQEQ, "==", from)
			}
			return l.kinded(types.ERROR, "unexpected character: =", from)
		case '!':
			if l.peekIs('=') {
				return l.kinded(types.NOTEQ, "!=", from)
			}
			return l.kinded(types.BANG, "!", from)
		case '<':
			if l.peekIs('=') {
				return l.kinded(types.LESSEQ, "<=", from)
			}
			return l.kinded(types.LESS, "<", from)
		case '>':
			if l.peekIs('=') {
				return l.kinded(types.GREATEREQ, ">=", from)
			}
			return l.kinded(types.GREATER, ">", from)
		case '"':
			lit, closed := l.lexString()
			if !closed {
				return l.kinded(types.ERROR, "unterminated string literal", from)
			}
			return l.kinded(types.STRING, lit, from)
		}

		if kind, ok := symbols[r]; ok {
			return l.kinded(kind, string(r), from)
		}

		switch {
		case unicode.IsDigit(r):
			return l.kinded(types.NUMBER, l.lexNumber(r), from)
		case firstChar(r):
			lit := l.readWhile(r, otherChar)

			if kind, ok := keywords[lit]; ok {
				return l.kinded(kind, lit, from)
			}
			if _, ok := typeNames[lit]; ok {
				return l.kinded(types.TYPE, lit, from)
			}
			return l.kinded(types.IDENT, lit, from)
		}

		return l.kinded(types.ERROR, fmt.Sprintf("unexpected character: %c", r), from)
	}
}

func (l *Lexer) lexToEOF() (ret []types.Token) {
	t := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, t)
		t = l.Lex()
	}
	return
}
