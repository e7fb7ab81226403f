package lexer_test

import (
	"testing"

	"sysyplus/internal/lexer"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string, opts lexer.Options) *lexer.Lexer {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sy", []byte(input))
	file := fs.Get(fileID)
	return lexer.New(file, lexer.Track(file, nil), opts)
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks := makeTestLexer(input, lexer.Options{}).All()
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestLexDeclaration(t *testing.T) {
	toks := expectKinds(t, "const int N = 10;",
		token.KwConst, token.KwInt, token.Ident, token.Assign, token.IntLit, token.Semicolon)
	if toks[2].Text != "N" || toks[4].Text != "10" {
		t.Fatalf("unexpected texts %q %q", toks[2].Text, toks[4].Text)
	}
}

func TestLexOperators(t *testing.T) {
	expectKinds(t, "p->x++ += a-- <= b >> 1 && !c || d != e",
		token.Ident, token.Arrow, token.Ident, token.PlusPlus, token.PlusAssign,
		token.Ident, token.MinusMinus, token.LtEq, token.Ident, token.Shr, token.IntLit,
		token.AndAnd, token.Bang, token.Ident, token.OrOr, token.Ident, token.BangEq, token.Ident)
}

func TestLexNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want token.Kind
	}{
		{"0", token.IntLit},
		{"017", token.IntLit},
		{"0x1F", token.IntLit},
		{"3.14", token.FloatLit},
		{".5", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"0x1.8p3", token.FloatLit},
		{"9abc", token.Invalid},
		{"1.0f", token.Invalid},
	}
	for _, tc := range cases {
		toks := makeTestLexer(tc.in, lexer.Options{}).All()
		if len(toks) != 2 || toks[0].Kind != tc.want || toks[0].Text != tc.in {
			t.Fatalf("%q: got %v %q", tc.in, toks[0].Kind, toks[0].Text)
		}
	}
}

func TestLexLiteralsAndComments(t *testing.T) {
	toks := expectKinds(t, "putf(\"%d\\n\", 'a'); // done\n/* block */ x",
		token.Ident, token.LParen, token.StringLit, token.Comma, token.CharLit,
		token.RParen, token.Semicolon, token.Ident)
	last := toks[7]
	// ' ', "// done", '\n', "/* block */", ' '
	if len(last.Leading) != 5 {
		t.Fatalf("expected 5 trivia, got %d", len(last.Leading))
	}
	if last.Leading[1].Kind != token.TriviaLineComment || last.Leading[3].Kind != token.TriviaBlockComment {
		t.Fatalf("unexpected trivia kinds: %v, %v", last.Leading[1].Kind, last.Leading[3].Kind)
	}
}

func TestLexUnterminatedStringIsInvalid(t *testing.T) {
	toks := expectKinds(t, "s = \"abc\nx;",
		token.Ident, token.Assign, token.Invalid, token.Ident, token.Semicolon)
	if toks[2].Text != "\"abc" {
		t.Fatalf("invalid literal text = %q", toks[2].Text)
	}
}

func TestLexNonASCIIIsInvalid(t *testing.T) {
	toks := expectKinds(t, "a ç b", token.Ident, token.Invalid, token.Ident)
	if toks[1].Text != "ç" {
		t.Fatalf("invalid token must cover the rune, got %q", toks[1].Text)
	}
}

func TestLexCustomKeywordTable(t *testing.T) {
	kw := token.DefaultKeywords()
	delete(kw, "null")
	toks := makeTestLexer("null int", lexer.Options{Keywords: kw}).All()
	if toks[0].Kind != token.Ident || toks[1].Kind != token.KwInt {
		t.Fatalf("got %v", kinds(toks))
	}
}

func TestLexSpansAreSlices(t *testing.T) {
	input := "while (i < n) { i = i + 1; }"
	for _, tok := range makeTestLexer(input, lexer.Options{}).All() {
		if tok.Kind == token.EOF {
			continue
		}
		if input[tok.Span.Start:tok.Span.End] != tok.Text {
			t.Fatalf("span %v does not match text %q", tok.Span, tok.Text)
		}
	}
}

func TestLexPeekDoesNotConsume(t *testing.T) {
	lx := makeTestLexer("a b", lexer.Options{})
	if lx.Peek().Text != "a" || lx.Next().Text != "a" || lx.Next().Text != "b" {
		t.Fatalf("Peek must not consume")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}
