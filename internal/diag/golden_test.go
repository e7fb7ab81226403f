package diag

import (
	"testing"

	"sysyplus/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.sy", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     StyUnusedVar,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     DclDuplicateVar,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error DCL3003 testdata/golden/sample.sy:1:1 first line second\n" +
		"note DCL3003 testdata/golden/sample.sy:2:1 note line\n" +
		"warning STY5001 testdata/golden/sample.sy:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsDetectionOrder(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.sy", []byte("x\ny\n"))
	diags := []Diagnostic{
		NewWarning(StyUnusedVar, source.Span{File: id, Start: 2, End: 3}, "later"),
		NewError(RefUndefinedIdent, source.Span{File: id, Start: 0, End: 1}, "earlier"),
	}
	want := "warning STY5001 mem.sy:2:1 later\nerror REF4001 mem.sy:1:1 earlier"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
