package lsp

import (
	"strings"
	"testing"

	"sysyplus/internal/source"
)

func testFile(text string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("t.sy", []byte(text)))
}

func TestUTF16SpanMapping(t *testing.T) {
	src := "int main() {\n  putf(\"e\u0301\U0001F642\"); int n = 1;\n}\n"
	file := testFile(src)

	off := uint32(strings.Index(src, "int n")) // #nosec G115
	pos := positionForOffsetInFile(file, off)
	// `  putf("` = 8, e + U+0301 = 2, 🙂 = 2, `"); ` = 4
	want := position{Line: 1, Character: 16}
	if pos != want {
		t.Fatalf("position: got %+v, want %+v", pos, want)
	}
	if back := offsetForPositionInFile(file, pos); back != off {
		t.Fatalf("offset: got %d, want %d", back, off)
	}

	// середина суррогатной пары округляется вниз
	emoji := uint32(strings.Index(src, "\U0001F642")) // #nosec G115
	if got := offsetForPositionInFile(file, position{Line: 1, Character: 11}); got != emoji {
		t.Fatalf("inside surrogate pair: got %d, want %d", got, emoji)
	}

	if got := offsetForPositionInFile(file, position{Line: 0, Character: 99}); got != 12 {
		t.Fatalf("past line end: got %d", got)
	}
	if got := offsetForPositionInFile(file, position{Line: 9, Character: 0}); got != uint32(len(src)) { // #nosec G115
		t.Fatalf("past EOF: got %d", got)
	}
	if got := positionForOffsetInFile(file, uint32(len(src))); got != (position{Line: 3}) { // #nosec G115
		t.Fatalf("EOF position: got %+v", got)
	}
}

func TestApplyChanges(t *testing.T) {
	text := "int a;\nint 🙂b;\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{Line: 1, Character: 4}, End: position{Line: 1, Character: 6}}, Text: ""},
		{Range: &lspRange{Start: position{Line: 0, Character: 4}, End: position{Line: 0, Character: 5}}, Text: "x"},
	})
	if got != "int x;\nint b;\n" {
		t.Fatalf("incremental: got %q", got)
	}
	if got := applyChanges(text, []textDocumentContentChangeEvent{{Text: "full"}}); got != "full" {
		t.Fatalf("full sync: got %q", got)
	}
}

func TestURIRoundTrip(t *testing.T) {
	uri := pathToURI("/tmp/dir with space/main.sy")
	if uri != "file:///tmp/dir%20with%20space/main.sy" {
		t.Fatalf("pathToURI: %q", uri)
	}
	if got := uriToPath(uri); got != "/tmp/dir with space/main.sy" {
		t.Fatalf("uriToPath: %q", got)
	}
	if got := canonicalURI("file:///tmp/a/../b.sy"); got != "file:///tmp/b.sy" {
		t.Fatalf("canonicalURI: %q", got)
	}
	if got := canonicalURI("untitled:Untitled-1"); got != "untitled:Untitled-1" {
		t.Fatalf("untitled kept: %q", got)
	}
}
