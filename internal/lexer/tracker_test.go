package lexer_test

import (
	"strings"
	"testing"

	"sysyplus/internal/diag"
	"sysyplus/internal/lexer"
	"sysyplus/internal/source"
)

func track(t *testing.T, input string) (*lexer.Tracker, *source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(input))
	bag := diag.NewBag(0)
	tr := lexer.Track(fs.Get(id), diag.BagReporter{Bag: bag})
	return tr, fs, bag
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTrackerBalancedInput(t *testing.T) {
	src := "int main() {\n  int a[3] = {1, 2, 3};\n  if (a[0]) { putint(a[1]); }\n  return 0;\n}\n"
	tr, _, bag := track(t, src)
	if !tr.Balanced() || len(tr.Pending()) != 0 {
		t.Fatalf("expected balanced input, pending=%v", tr.Pending())
	}
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(bag))
	}
}

func TestTrackerLoneOpenBrace(t *testing.T) {
	tr, fs, bag := track(t, "{")
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.DelMissingBrace || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if !strings.Contains(d.Message, "missing matching closer") {
		t.Fatalf("unexpected message %q", d.Message)
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 || start.Col != 1 {
		t.Fatalf("expected 1:1, got %d:%d", start.Line, start.Col)
	}
	if p := tr.Pending(); len(p) != 1 || p[0].Kind != lexer.DelimBrace {
		t.Fatalf("pending = %+v", p)
	}
}

func TestTrackerExtraCloserIsImmediate(t *testing.T) {
	tr, fs, bag := track(t, "}\nint x;\n{")
	got := codes(bag)
	if len(got) != 2 || got[0] != diag.DelExtraBrace || got[1] != diag.DelMissingBrace {
		t.Fatalf("codes = %v", got)
	}
	start, _ := fs.Resolve(bag.Items()[0].Primary)
	if start != (source.LineCol{Line: 1, Col: 1}) {
		t.Fatalf("extra closer at %+v", start)
	}
	if len(tr.ExtraClosers()) != 1 {
		t.Fatalf("extra closers = %v", tr.ExtraClosers())
	}
}

func TestTrackerStacksAreIndependent(t *testing.T) {
	_, _, bag := track(t, "f(a];")
	got := codes(bag)
	if len(got) != 2 || got[0] != diag.DelExtraBracket || got[1] != diag.DelMissingParen {
		t.Fatalf("codes = %v", got)
	}
}

func TestTrackerIgnoresDelimitersInLiteralsAndComments(t *testing.T) {
	src := "char *s = \"{(\"; char c = '['; // }}}\n/* ) ] */ int x;"
	tr, _, bag := track(t, src)
	if bag.Len() != 0 || !tr.Balanced() {
		t.Fatalf("delimiters inside literals/comments must not count: %v", codes(bag))
	}
}

func TestTrackerModes(t *testing.T) {
	src := "a \"s\" 'c' // l\n/* b */ x"
	tr, _, _ := track(t, src)
	cases := []struct {
		off  uint32
		want lexer.Mode
	}{
		{0, lexer.ModeNormal},
		{2, lexer.ModeString},
		{3, lexer.ModeString},
		{4, lexer.ModeString},
		{5, lexer.ModeNormal},
		{7, lexer.ModeChar},
		{11, lexer.ModeLineComment},
		{14, lexer.ModeNormal}, // '\n'
		{16, lexer.ModeBlockComment},
		{23, lexer.ModeNormal},
	}
	for _, tc := range cases {
		if got := tr.Mode(tc.off); got != tc.want {
			t.Fatalf("Mode(%d) = %v, want %v", tc.off, got, tc.want)
		}
	}
}

func TestTrackerQuoteRules(t *testing.T) {
	// '"' внутри char не открывает строку, "'" внутри строки не открывает char
	tr, _, bag := track(t, "char q = '\"'; char *p = \"it's\"; char *e = \"a\\\"b\";")
	if bag.Len() != 0 || !tr.Balanced() {
		t.Fatalf("unexpected diagnostics %v", codes(bag))
	}
}

func TestTrackerUnterminatedStringAtNewline(t *testing.T) {
	tr, _, bag := track(t, "char *s = \"abc\nint x;")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.LexUnterminatedString {
		t.Fatalf("codes = %v", got)
	}
	if len(tr.Pending()) != 0 {
		t.Fatalf("quote must be popped at newline: %+v", tr.Pending())
	}
	if tr.Mode(16) != lexer.ModeNormal {
		t.Fatalf("next line must be normal")
	}
}

func TestTrackerUnterminatedAtEOF(t *testing.T) {
	tr, _, bag := track(t, "char c = 'a")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.DelMissingQuote {
		t.Fatalf("codes = %v", got)
	}
	if p := tr.Pending(); len(p) != 1 || p[0].Open != '\'' {
		t.Fatalf("pending = %+v", p)
	}
}

func TestTrackerUnterminatedBlockComment(t *testing.T) {
	_, fs, bag := track(t, "int x;\n/* { never closed")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.LexUnterminatedBlockComment {
		t.Fatalf("codes = %v", got)
	}
	start, _ := fs.Resolve(bag.Items()[0].Primary)
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("position %+v", start)
	}
}

func TestTrackerIllegalCharacters(t *testing.T) {
	_, fs, bag := track(t, "int é = 1; // é ok\nchar *s = \"é\";")
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one illegal character, got %v", codes(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.LexIllegalChar {
		t.Fatalf("code = %v", d.Code)
	}
	if !strings.Contains(d.Message, "LATIN SMALL LETTER E WITH ACUTE") {
		t.Fatalf("message lacks rune name: %q", d.Message)
	}
	if d.Primary.Len() != 2 {
		t.Fatalf("span must cover the whole rune, got %d bytes", d.Primary.Len())
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Col != 5 {
		t.Fatalf("column = %d, want 5", start.Col)
	}
}

func TestTrackerNoNestedBlockComments(t *testing.T) {
	// первый "*/" закрывает комментарий, дальше обычный код
	_, _, bag := track(t, "/* /* */ } */")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.DelExtraBrace {
		t.Fatalf("codes = %v", got)
	}
}
