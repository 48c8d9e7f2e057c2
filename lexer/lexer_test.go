package lexer

import (
	"reflect"
	"testing"

	"github.com/adan-lang/adango/types"
	"github.com/alecthomas/repr"
)

func kinds(toks []types.Token) []types.TokenKind {
	var ret []types.TokenKind
	for _, tok := range toks {
		ret = append(ret, tok.Kind)
	}
	return ret
}

func TestReservedWords(t *testing.T) {
	for word, kind := range Reserved() {
		toks := TokenizeString(word, "stdin")
		if len(toks) != 1 {
			t.Fatalf("%s: expected one token, got %s", word, repr.String(toks))
		}
		if toks[0].Kind != kind || toks[0].Text != word {
			t.Errorf("%s: got %s, expected %s", word, toks[0], kind)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	for _, word := range []string{"foo", "Local", "whiles", "x1", "snake_case", "f65", "string"} {
		toks := TokenizeString(word, "stdin")
		if len(toks) != 1 || toks[0].Kind != types.IDENT || toks[0].Text != word {
			t.Errorf("%s: expected identifier, got %s", word, repr.String(toks))
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.TokenKind
	}{
		{
			name:  "declaration",
			input: "local x: f64 -> 7.5;",
			want:  []types.TokenKind{types.LOCAL, types.IDENT, types.COLON, types.TYPE, types.ASSIGN, types.NUMBER, types.SEMICOLON},
		},
		{
			name:  "line comment",
			input: "a // b c d\n e",
			want:  []types.TokenKind{types.IDENT, types.IDENT},
		},
		{
			name:  "block comment",
			input: "a /* b \n c */ e",
			want:  []types.TokenKind{types.IDENT, types.IDENT},
		},
		{
			name:  "symbols",
			input: ";:(){}.,'",
			want: []types.TokenKind{types.SEMICOLON, types.COLON, types.LPAREN, types.RPAREN, types.LBRACE,
				types.RBRACE, types.PERIOD, types.COMMA, types.QUOTE},
		},
		{
			name:  "operators",
			input: "+ - * / % ! == != < <= > >=",
			want: []types.TokenKind{types.PLUS, types.MINUS, types.STAR, types.SLASH, types.PERCENT, types.BANG,
				types.EQEQ, types.NOTEQ, types.LESS, types.LESSEQ, types.GREATER, types.GREATEREQ},
		},
		{
			name:  "dotted call",
			input: `io.out("hi");`,
			want:  []types.TokenKind{types.IDENT, types.PERIOD, types.IDENT, types.LPAREN, types.STRING, types.RPAREN, types.SEMICOLON},
		},
		{
			name:  "unexpected character",
			input: "a @ b",
			want:  []types.TokenKind{types.IDENT, types.ERROR, types.IDENT},
		},
		{
			name:  "empty",
			input: "  \n\t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(TokenizeString(tt.input, "stdin"))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"12", []string{"12"}},
		{"12.5", []string{"12.5"}},
		{"3.", []string{"3", "."}},
		{"a.b", []string{"a", ".", "b"}},
	}

	for _, tt := range tests {
		var got []string
		for _, tok := range TokenizeString(tt.input, "stdin") {
			got = append(got, tok.Text)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %v, expected %v", tt.input, got, tt.want)
		}
	}
}

func TestStrings(t *testing.T) {
	toks := TokenizeString(`"a\tb\n\"c\""`, "stdin")
	if len(toks) != 1 || toks[0].Kind != types.STRING {
		t.Fatalf("expected a string token, got %s", repr.String(toks))
	}
	if toks[0].Text != "a\tb\n\"c\"" {
		t.Errorf("got %q", toks[0].Text)
	}

	toks = TokenizeString(`"open`, "stdin")
	if len(toks) != 1 || toks[0].Kind != types.ERROR {
		t.Fatalf("expected an error token, got %s", repr.String(toks))
	}
}

func TestPositions(t *testing.T) {
	toks := TokenizeString("a\n  bc", "main.adn")
	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %s", repr.String(toks))
	}
	from := toks[1].Location.From
	if from.Line != 2 || from.Column != 3 || from.Filename != "main.adn" {
		t.Errorf("unexpected position %s", from)
	}
}

func TestIdempotent(t *testing.T) {
	src := `include io; program -> main { local n: f64 -> 3; while (n > 0) { io.out(n); n -> n - 1; } }`
	first := TokenizeString(src, "stdin")
	second := TokenizeString(src, "stdin")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("lexing is not deterministic:\n%s\n%s", repr.String(first), repr.String(second))
	}
}
