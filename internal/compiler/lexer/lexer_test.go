package lexer

import (
	"testing"

	"github.com/cadenzalang/cadenza/internal/compiler/token"
)

func nextOrFatal(t *testing.T, l *Lexer) token.Token {
	t.Helper()
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	return tok
}

func TestBasicTokens(t *testing.T) {
	input := `= + - ! * / % < > ( ) { } [ ] : , . ; ?`

	expected := []token.Type{
		token.ASSIGN, token.PLUS, token.MINUS, token.BANG, token.ASTERISK,
		token.SLASH, token.PERCENT, token.LT, token.GT, token.LPAREN, token.RPAREN,
		token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.COLON, token.COMMA, token.DOT, token.SEMICOLON, token.QUESTION,
		token.EOF,
	}

	l := New(input)
	for i, exp := range expected {
		tok := nextOrFatal(t, l)
		if tok.Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (lexeme=%q)", i, exp, tok.Type, tok.Lexeme)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	input := `== != <= >= && || -> =>`

	expected := []struct {
		typ token.Type
		lit string
	}{
		{token.EQ, "=="}, {token.NOT_EQ, "!="}, {token.LT_EQ, "<="},
		{token.GT_EQ, ">="}, {token.AND, "&&"}, {token.OR, "||"},
		{token.ARROW, "->"}, {token.FAT_ARROW, "=>"},
	}

	l := New(input)
	for i, exp := range expected {
		tok := nextOrFatal(t, l)
		if tok.Type != exp.typ || tok.Lexeme != exp.lit {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tok.Type, tok.Lexeme)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `function pure return if else let guard match uses module import export from Result Ok Error Some None Option List true false`

	expected := []token.Type{
		token.FUNCTION, token.PURE, token.RETURN, token.IF, token.ELSE,
		token.LET, token.GUARD, token.MATCH, token.USES, token.MODULE,
		token.IMPORT, token.EXPORT, token.FROM, token.RESULT, token.OK,
		token.ERRORK, token.SOME, token.NONE, token.OPTION, token.LIST,
		token.TRUE, token.FALSE,
	}

	l := New(input)
	for i, exp := range expected {
		tok := nextOrFatal(t, l)
		if tok.Type != exp {
			t.Fatalf("test[%d] - expected %s, got %s(%q)", i, exp, tok.Type, tok.Lexeme)
		}
	}
}

func TestEffectKeywords(t *testing.T) {
	input := `Database Network Logging FileSystem Memory IO`
	expected := []token.Type{
		token.EFFECT_DATABASE, token.EFFECT_NETWORK, token.EFFECT_LOGGING,
		token.EFFECT_FILESYSTEM, token.EFFECT_MEMORY, token.EFFECT_IO,
	}

	l := New(input)
	for i, exp := range expected {
		tok := nextOrFatal(t, l)
		if tok.Type != exp {
			t.Fatalf("test[%d] - expected %s, got %s", i, exp, tok.Type)
		}
		if !token.IsEffectName(tok.Type) {
			t.Fatalf("test[%d] - %s should be recognized as an effect name", i, tok.Type)
		}
	}
}

func TestStrings(t *testing.T) {
	input := `"hello world" "escaped \"quote\"" "line\nbreak" "tab\there" "drop\qthis"`

	l := New(input)

	tests := []string{
		"hello world",
		`escaped "quote"`,
		"line\nbreak",
		"tab\there",
		"dropqthis",
	}

	for i, want := range tests {
		tok := nextOrFatal(t, l)
		if tok.Type != token.STRING || tok.Literal != want {
			t.Fatalf("test %d - got %s(%q)", i, tok.Type, tok.Literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	input := `42 3.14 0 100.5`

	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.INT || tok.Literal != int64(42) {
		t.Fatalf("test 1 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = nextOrFatal(t, l)
	if tok.Type != token.DECIMAL || tok.Literal != 3.14 {
		t.Fatalf("test 2 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = nextOrFatal(t, l)
	if tok.Type != token.INT || tok.Literal != int64(0) {
		t.Fatalf("test 3 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = nextOrFatal(t, l)
	if tok.Type != token.DECIMAL || tok.Literal != 100.5 {
		t.Fatalf("test 4 - got %s(%v)", tok.Type, tok.Literal)
	}
}

func TestNumberFollowedByDot(t *testing.T) {
	input := "5 5."
	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.INT || tok.Literal != int64(5) {
		t.Fatalf("expected INT 5, got %s %v", tok.Type, tok.Literal)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.INT || tok.Literal != int64(5) {
		t.Fatalf("expected INT 5, got %s %v", tok.Type, tok.Literal)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.DOT {
		t.Fatalf("expected DOT after 5, got %s", tok.Type)
	}
}

func TestLineComments(t *testing.T) {
	input := "let x // this is a comment\nlet y"

	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.LET {
		t.Fatalf("expected LET, got %s", tok.Type)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.IDENT || tok.Lexeme != "x" {
		t.Fatalf("expected x, got %s(%q)", tok.Type, tok.Lexeme)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.LET {
		t.Fatalf("expected LET after comment, got %s", tok.Type)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.IDENT || tok.Lexeme != "y" {
		t.Fatalf("expected y, got %s(%q)", tok.Type, tok.Lexeme)
	}
}

func TestBlockComments(t *testing.T) {
	input := "let /* this\nis\na comment */ x"

	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.LET {
		t.Fatalf("expected LET, got %s", tok.Type)
	}
	tok = nextOrFatal(t, l)
	if tok.Type != token.IDENT || tok.Lexeme != "x" {
		t.Fatalf("expected x, got %s(%q)", tok.Type, tok.Lexeme)
	}
}

func TestSpecBlock(t *testing.T) {
	input := `/*spec
intent: "add two numbers"
spec*/
function add(a: int, b: int) -> int { return a + b }`

	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.SPEC {
		t.Fatalf("expected SPEC, got %s", tok.Type)
	}
	body, ok := tok.Literal.(string)
	if !ok {
		t.Fatalf("SPEC literal is not a string: %#v", tok.Literal)
	}
	if want := "\nintent: \"add two numbers\"\n"; body != want {
		t.Fatalf("SPEC body = %q, want %q", body, want)
	}

	tok = nextOrFatal(t, l)
	if tok.Type != token.FUNCTION {
		t.Fatalf("expected FUNCTION after spec block, got %s", tok.Type)
	}
}

func TestPlainBlockCommentIsNotSpec(t *testing.T) {
	input := "/* not a spec block */ let x"
	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.LET {
		t.Fatalf("expected LET, got %s(%q)", tok.Type, tok.Lexeme)
	}
}

func TestInterpolatedString(t *testing.T) {
	input := `$"hello {name}, count={n + 1}"`

	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.ISTRING {
		t.Fatalf("expected ISTRING, got %s", tok.Type)
	}
	parts, ok := tok.Literal.([]token.InterpPart)
	if !ok {
		t.Fatalf("ISTRING literal is not []InterpPart: %#v", tok.Literal)
	}
	want := []token.InterpPart{
		{IsExpr: false, Text: "hello "},
		{IsExpr: true, Text: "name"},
		{IsExpr: false, Text: ", count="},
		{IsExpr: true, Text: "n + 1"},
	}
	if len(parts) != len(want) {
		t.Fatalf("got %d parts, want %d: %#v", len(parts), len(want), parts)
	}
	for i, w := range want {
		if parts[i].IsExpr != w.IsExpr || parts[i].Text != w.Text {
			t.Fatalf("part %d = %+v, want %+v", i, parts[i], w)
		}
	}
}

func TestInterpolatedStringNestedBraces(t *testing.T) {
	input := `$"{match r { Ok(v) -> v, Error(e) -> 0 }}"`
	l := New(input)

	tok := nextOrFatal(t, l)
	if tok.Type != token.ISTRING {
		t.Fatalf("expected ISTRING, got %s", tok.Type)
	}
	parts := tok.Literal.([]token.InterpPart)
	if len(parts) != 1 || !parts[0].IsExpr {
		t.Fatalf("expected a single expression part, got %#v", parts)
	}
	if want := `match r { Ok(v) -> v, Error(e) -> 0 }`; parts[0].Text != want {
		t.Fatalf("expr text = %q, want %q", parts[0].Text, want)
	}
}

func TestPositionTracking(t *testing.T) {
	input := "let x\nlet y"

	l := New(input)

	tok := nextOrFatal(t, l) // let
	if tok.Pos.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Pos.Line)
	}
	nextOrFatal(t, l)      // x
	tok = nextOrFatal(t, l) // let (line 2)
	if tok.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Pos.Line)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	input := `let café = "french"
let 日本語 = "japanese"`

	l := New(input)

	nextOrFatal(t, l) // let
	tok := nextOrFatal(t, l)
	if tok.Type != token.IDENT || tok.Lexeme != "café" {
		t.Fatalf("expected café, got %s(%q)", tok.Type, tok.Lexeme)
	}
	nextOrFatal(t, l) // =
	tok = nextOrFatal(t, l)
	if tok.Type != token.STRING || tok.Literal != "french" {
		t.Fatalf("expected french, got %s(%v)", tok.Type, tok.Literal)
	}
	nextOrFatal(t, l) // let
	tok = nextOrFatal(t, l)
	if tok.Type != token.IDENT || tok.Lexeme != "日本語" {
		t.Fatalf("expected 日本語, got %s(%q)", tok.Type, tok.Lexeme)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an unterminated string error")
	}
}

func TestUnterminatedInterpolation(t *testing.T) {
	l := New(`$"hello {name`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an unterminated interpolation error")
	}
}

func TestUnterminatedSpecBlock(t *testing.T) {
	l := New(`/*spec
intent: "oops"`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an unterminated specification block error")
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("let x = $ 5")

	nextOrFatal(t, l) // let
	nextOrFatal(t, l) // x
	nextOrFatal(t, l) // =
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an illegal-character error for bare $")
	}
}

func TestSingleAmpersandIsIllegal(t *testing.T) {
	l := New("a & b")
	nextOrFatal(t, l) // a
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected single & to be illegal")
	}
}

func TestSinglePipeIsIllegal(t *testing.T) {
	l := New("a | b")
	nextOrFatal(t, l) // a
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected single | to be illegal")
	}
}

func TestNegativeNumberIsMinusThenInt(t *testing.T) {
	input := "-5 -3.14"
	l := New(input)

	tests := []struct {
		typ token.Type
		lit any
	}{
		{token.MINUS, nil},
		{token.INT, int64(5)},
		{token.MINUS, nil},
		{token.DECIMAL, 3.14},
	}
	for i, tt := range tests {
		tok := nextOrFatal(t, l)
		if tok.Type != tt.typ {
			t.Fatalf("test[%d] - expected %s, got %s", i, tt.typ, tok.Type)
		}
		if tt.lit != nil && tok.Literal != tt.lit {
			t.Fatalf("test[%d] - expected literal %v, got %v", i, tt.lit, tok.Literal)
		}
	}
}

func TestLexFullFunction(t *testing.T) {
	input := `function f(x: int) -> Result<int, string> {
  let y = g(x)?
  return Ok(y + 1)
}`
	l := New(input)

	tokenCount := 0
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tokenCount++
		if tok.Type == token.EOF {
			break
		}
		if tokenCount > 200 {
			t.Fatal("too many tokens, possible infinite loop")
		}
	}
}
