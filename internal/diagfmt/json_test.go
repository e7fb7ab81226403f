package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"sysyplus/internal/diag"
	"sysyplus/internal/driver"
	"sysyplus/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.sy", []byte("int main() {\n  return y;\n}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.RefUndefinedIdent, source.Span{File: id, Start: 22, End: 23}, "undefined identifier 'y'").
		WithFix("declare 'y' as int", diag.InsertAt(id, 13, "  int y;\n")))
	bag.Add(diag.NewWarning(diag.StyInfiniteLoop, source.Span{File: id, Start: 0, End: 3}, "possible infinite loop: no break or return in loop body"))
	return bag, fs
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true, IncludePreviews: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Diagnostics[0].Code != "REF4001" || out.Diagnostics[1].Severity != "WARNING" {
		t.Fatalf("unexpected output %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Category != "ReferenceError" || d.Location.StartLine != 2 || d.Location.StartCol != 10 || d.Location.EndCol != 11 {
		t.Fatalf("unexpected location %+v", d)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "  int y;\n" {
		t.Fatalf("fix missing: %+v", d.Fixes)
	}
	if got := d.Fixes[0].Edits[0].AfterLines; len(got) != 2 || got[0] != "  int y;" {
		t.Fatalf("unexpected preview %q", got)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag()
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("expected 1 diagnostic without positions, got %+v", out)
	}
}

func TestYAMLOutput(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := YAML(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if !strings.Contains(buf.String(), "code: REF4001") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
	var out DiagnosticsOutput
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if out.Count != 2 || out.Diagnostics[0].Location.StartLine != 2 {
		t.Fatalf("unexpected round trip %+v", out)
	}
}

func TestSarifOutput(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "sysy", ToolVersion: "test"}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid sarif: %v", err)
	}
	run := log.Runs[0]
	if log.Version != "2.1.0" || len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected sarif %+v", log)
	}
	if run.Tool.Driver.Rules[0].ID != "REF4001" || run.Results[1].Level != "warning" {
		t.Fatalf("rules must be sorted by code: %+v", run.Tool.Driver.Rules)
	}
	if r := run.Results[0].Locations[0].PhysicalLocation.Region; r.StartLine != 2 || r.StartColumn != 10 {
		t.Fatalf("unexpected region %+v", r)
	}
}

func TestShortOutput(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatalf("Short: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "REF4001 m.sy:2:10 undefined identifier 'y'") {
		t.Fatalf("unexpected short output:\n%s", buf.String())
	}
}

func TestScopes(t *testing.T) {
	src := "const int N = 4;\nint add(int a, int b[]) {\n  int s[N];\n  { int t; }\n  return a;\n}\n"
	r := driver.Analyze(src, driver.DefaultConfig())

	tree := BuildScopeTree(r.Table, r.File, false)
	if tree.Kind != "global" || len(tree.Funcs) != 1 || len(tree.Vars) != 1 || len(tree.Children) != 1 {
		t.Fatalf("unexpected global scope %+v", tree)
	}
	fn := tree.Children[0]
	if fn.Kind != "function" || fn.Name != "add" || len(fn.Vars) != 3 || len(fn.Children) != 1 {
		t.Fatalf("unexpected function scope %+v", fn)
	}
	if fn.Vars[2].Dims[0] != 4 {
		t.Fatalf("const dimension should be folded, got %v", fn.Vars[2].Dims)
	}

	var buf bytes.Buffer
	if err := FormatScopesPretty(&buf, r.Table, r.File, false); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"global 1:1-7:1\n",
		"  func int add(int a, int b[]) :2\n",
		"  const N int :1\n",
		"  function add 2:8-6:2\n",
		"    param b int[] :2\n",
		"    var s int[4] :3 (unused, uninit)\n",
		"    block 4:3-4:13\n",
		"      var t int :4 (unused, uninit)\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := FormatScopesJSON(&buf, r.Table, r.File, true); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back ScopeJSON
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(back.Funcs) < 10 {
		t.Fatalf("builtins should be listed, got %d funcs", len(back.Funcs))
	}
}
