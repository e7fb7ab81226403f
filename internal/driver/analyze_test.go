package driver

import (
	"context"
	"testing"

	"sysyplus/internal/diag"
)

func codes(r *Result) []diag.Code {
	out := make([]diag.Code, 0, r.Bag.Len())
	for _, d := range r.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyzeDetectionOrder(t *testing.T) {
	src := "int main() {\n  int x = 1;\n  int x = 2;\n  return y;\n}\n"
	r := Analyze(src, DefaultConfig())

	want := []diag.Code{diag.DclDuplicateVar, diag.RefUndefinedIdent, diag.StyUnusedVar}
	got := codes(r)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diag %d: expected %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}

	ds := r.Diagnostics()
	if ds[0].StartLine != 3 || ds[0].StartCol != 7 || ds[0].EndCol != 8 {
		t.Fatalf("duplicate at %d:%d-%d", ds[0].StartLine, ds[0].StartCol, ds[0].EndCol)
	}
	if ds[1].StartLine != 4 || ds[1].Message != "undefined identifier 'y'" {
		t.Fatalf("unexpected second diagnostic %+v", ds[1])
	}
	if ds[2].Severity != diag.SevWarning || ds[2].StartLine != 2 {
		t.Fatalf("unused warning should point at the first x: %+v", ds[2])
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	r := Analyze("", DefaultConfig())
	if r.Bag.Len() != 0 {
		t.Fatalf("empty text must be clean, got %v", codes(r))
	}
	if r.Table == nil || r.Table.Scopes.Len() != 1 {
		t.Fatalf("expected only the global scope")
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	src := "int a[2];\nint main() { a[5] = 1; const int c = 1; c = 2; return 0; }\n"
	first := Analyze(src, DefaultConfig()).Diagnostics()
	second := Analyze(src, DefaultConfig()).Diagnostics()
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected identical non-empty output, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("diag %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestFilters(t *testing.T) {
	src := "int main() {\n  int unused;\n  return 0;\n}\n"

	cfg := DefaultConfig()
	if r := Analyze(src, cfg); r.Bag.Len() != 1 || r.Bag.Items()[0].Severity != diag.SevWarning {
		t.Fatalf("expected a single warning, got %v", codes(r))
	}

	cfg.WarningsAsErrors = true
	if r := Analyze(src, cfg); !r.Bag.HasErrors() {
		t.Fatalf("warning should be promoted")
	}

	cfg = DefaultConfig()
	cfg.IgnoreWarnings = true
	if r := Analyze(src, cfg); r.Bag.Len() != 0 {
		t.Fatalf("warnings should be dropped, got %v", codes(r))
	}

	cfg = DefaultConfig()
	cfg.WarnUnused = false
	if r := Analyze(src, cfg); r.Bag.Len() != 0 {
		t.Fatalf("WarnUnused=false should silence, got %v", codes(r))
	}
}

func TestMaxDiagnostics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDiagnostics = 2
	r := Analyze("}}}}", cfg)
	if r.Bag.Len() != 2 {
		t.Fatalf("expected the bag to stop at 2, got %d", r.Bag.Len())
	}
}

func TestTimingsAndCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timings = true
	r := Analyze("int main() { return 0; }", cfg)
	if r.Timing == nil || len(r.Timing.Phases) != 4 {
		t.Fatalf("expected 4 timed phases, got %+v", r.Timing)
	}
	names := []string{"track", "lex", "parse", "sema"}
	for i, p := range r.Timing.Phases {
		if p.Name != names[i] {
			t.Fatalf("phase %d: expected %s, got %s", i, names[i], p.Name)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := r.FileSet
	id := fs.AddVirtual("b.sy", []byte("int x;"))
	c := AnalyzeFile(ctx, fs, id, DefaultConfig())
	if !c.Canceled || c.Table != nil {
		t.Fatalf("canceled analysis must stop before sema")
	}
}

func TestGeneration(t *testing.T) {
	var g Generation
	if g.IsLatest(0) {
		t.Fatalf("0 is never latest")
	}
	a := g.Next()
	b := g.Next()
	if g.IsLatest(a) || !g.IsLatest(b) || g.Current() != b {
		t.Fatalf("expected %d to be superseded by %d", a, b)
	}
}

func TestFingerprint(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.ExtraBuiltins = []string{"printf"}
	if a.Fingerprint() != DefaultConfig().Fingerprint() {
		t.Fatalf("fingerprint must be stable")
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("extra builtins must change the fingerprint")
	}
	b = DefaultConfig()
	b.Timings = true
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("timings must not change the fingerprint")
	}
}
