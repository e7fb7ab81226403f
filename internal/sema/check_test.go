package sema_test

import (
	"strings"
	"testing"

	"sysyplus/internal/diag"
	"sysyplus/internal/lexer"
	"sysyplus/internal/parser"
	"sysyplus/internal/sema"
	"sysyplus/internal/source"
)

type analysis struct {
	fs   *source.FileSet
	file *source.File
	bag  *diag.Bag
	res  sema.Result
}

// runSema прогоняет трекер, лексер, парсер и проверку с одним Bag.
func runSema(t *testing.T, src string) analysis {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sy", []byte(src)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	tracker := lexer.Track(file, rep)
	toks := lexer.Tokenize(file, tracker, lexer.Options{})
	tree := parser.ParseFile(file, toks, parser.Options{Reporter: rep, WarnMissingSemicolon: true})
	opts := sema.DefaultOptions()
	opts.Reporter = rep
	res := sema.Check(file, tree, opts)
	if err := res.Table.Validate(); err != nil {
		t.Fatalf("table invariants: %v", err)
	}
	return analysis{fs: fs, file: file, bag: bag, res: res}
}

func collectCodes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	codes := make([]diag.Code, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.Code)
	}
	return codes
}

func expectCodes(t *testing.T, src string, want ...diag.Code) analysis {
	t.Helper()
	a := runSema(t, src)
	got := collectCodes(a.bag)
	if len(got) != len(want) {
		t.Fatalf("%q:\n got %v\nwant %v\n%s", src, got, want, diag.FormatShortDiagnostics(a.bag.Items(), a.fs, false))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: diagnostic %d is %v, want %v\n%s", src, i, got[i], want[i], diag.FormatShortDiagnostics(a.bag.Items(), a.fs, false))
		}
	}
	return a
}

func (a analysis) line(i int) uint32 {
	return a.file.Position(a.bag.Items()[i].Primary.Start).Line
}

func TestDuplicateVariableCitesFirstLine(t *testing.T) {
	a := expectCodes(t, "int a;\nint a;\n", diag.DclDuplicateVar)
	d := a.bag.Items()[0]
	if a.line(0) != 2 {
		t.Fatalf("duplicate reported on line %d, want 2", a.line(0))
	}
	if !strings.Contains(d.Message, "line 1") {
		t.Fatalf("message %q does not cite line 1", d.Message)
	}
	if len(d.Notes) != 1 || a.file.Position(d.Notes[0].Span.Start).Line != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestShadowingBindsInnerDeclaration(t *testing.T) {
	a := expectCodes(t, "int x;\n{ int x; x = 2; }\n")
	var found bool
	for _, ref := range a.res.Refs {
		if ref.Decl || ref.Name != "x" {
			continue
		}
		v := a.res.Table.Var(ref.Var)
		if v.Line != 2 || v.Scope == a.res.Table.Global() {
			t.Fatalf("assignment bound to %+v", v)
		}
		if !v.Initialized {
			t.Fatalf("inner x should be initialized by the assignment")
		}
		found = true
	}
	if !found {
		t.Fatalf("no reference recorded for x")
	}
}

func TestIndexOutOfRange(t *testing.T) {
	a := expectCodes(t, "int arr[3];\narr[5] = 1;\n", diag.RefIndexOutOfRange)
	msg := a.bag.Items()[0].Message
	if !strings.Contains(msg, "5") || !strings.Contains(msg, "[0, 2]") {
		t.Fatalf("message = %q", msg)
	}
	expectCodes(t, "int arr[3];\narr[2] = 1;\narr[-1] = 0;\n", diag.RefIndexOutOfRange)
}

func TestIndexAgainstFoldedConstant(t *testing.T) {
	a := expectCodes(t, "const int N = 4;\nint a[N * 2];\nint main() {\n  a[8] = 1;\n  return 0;\n}\n", diag.RefIndexOutOfRange)
	if !strings.Contains(a.bag.Items()[0].Message, "[0, 7]") {
		t.Fatalf("message = %q", a.bag.Items()[0].Message)
	}
}

func TestAssignToConst(t *testing.T) {
	a := expectCodes(t, "const int c = 1;\nc = 2;\n", diag.RefAssignConst)
	if a.line(0) != 2 {
		t.Fatalf("reported on line %d", a.line(0))
	}
	expectCodes(t, "int main() {\n  const int k = 1;\n  k++;\n  return k;\n}\n", diag.RefAssignConst)
}

func TestUndefinedIdentifier(t *testing.T) {
	a := expectCodes(t, "x = 1;\n", diag.RefUndefinedIdent)
	if !strings.Contains(a.bag.Items()[0].Message, "undefined identifier") {
		t.Fatalf("message = %q", a.bag.Items()[0].Message)
	}

	a = expectCodes(t, "int main() {\n  x = 1;\n  return 0;\n}\n", diag.RefUndefinedIdent)
	fixes := a.bag.Items()[0].Fixes
	if len(fixes) != 1 {
		t.Fatalf("fixes = %+v", fixes)
	}
	edit := fixes[0].Edits[0]
	if edit.NewText != "  int x;\n" || a.file.Position(edit.Span.Start) != (source.LineCol{Line: 2, Col: 1}) {
		t.Fatalf("fix edit = %+v", edit)
	}
}

func TestUsedBeforeDeclaration(t *testing.T) {
	expectCodes(t, "int main() {\n  y = 1;\n  int y;\n  return y;\n}\n",
		diag.RefUsedBeforeDecl, diag.StyUninitialized)
}

func TestNameChecks(t *testing.T) {
	a := expectCodes(t, "int main() {\n  int while = 1;\n  return 0;\n}\n", diag.DclKeywordName)
	fix := a.bag.Items()[0].Fixes
	if len(fix) != 1 || fix[0].Edits[0].NewText != "while_var" {
		t.Fatalf("rename fix = %+v", fix)
	}
	expectCodes(t, "int 2x;\n", diag.DclInvalidIdent)

	a = expectCodes(t, "int = 3;\n", diag.DclInvalidIdent)
	if sp := a.bag.Items()[0].Primary; sp.Start != 0 || sp.End != 3 {
		t.Fatalf("missing name reported at %v, want the type", sp)
	}
}

func TestDeclarationErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"const without init", "const int c;\n", []diag.Code{diag.DclConstNoInit}},
		{"void variable", "void v;\n", []diag.Code{diag.DclVoidVariable}},
		{"bad dimension", "int a[0];\n", []diag.Code{diag.DclBadArrayDim}},
		{"duplicate function", "int f() { return 0; }\nint f() { return 1; }\n", []diag.Code{diag.DclDuplicateFunc}},
		{"variable after function", "int f() { return 0; }\nint f;\n", []diag.Code{diag.DclVarFuncConflict}},
		{"function after variable", "int g;\nint g() { return 0; }\n", []diag.Code{diag.DclVarFuncConflict}},
		{"struct duplicates", "struct P { int x; int x; };\nstruct P { int y; };\n", []diag.Code{diag.DclDuplicateMember, diag.DclDuplicateStruct}},
		{"struct in block", "int main() {\n  struct Q { int a; };\n  return 0;\n}\n", []diag.Code{diag.DclStructNotGlobal}},
		{"duplicate parameter", "int f(int a, int a) { return a; }\n", []diag.Code{diag.DclDuplicateVar}},
		{"builtin can be redefined", "void putint(int x) { }\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectCodes(t, tc.src, tc.want...)
		})
	}
}

func TestReferenceErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"undefined function", "int main() {\n  foo(1);\n  putint(2);\n  return 0;\n}\n", []diag.Code{diag.RefUndefinedFunc}},
		{"not an array", "int main() {\n  int a = 0;\n  a[1] = 2;\n  return a;\n}\n", []diag.Code{diag.RefNotArray}},
		{"array undefined", "int main() {\n  b[0] = 1;\n  return 0;\n}\n", []diag.Code{diag.RefArrayUndefined}},
		{"empty assignment", "int main() {\n  int a = 1;\n  a = ;\n  return a;\n}\n", []diag.Code{diag.RefEmptyAssign}},
		{"undefined struct", "struct Z z;\n", []diag.Code{diag.RefUndefinedStruct}},
		{"no member", "struct P { int x; };\nstruct P p;\nint main() {\n  p.x = 1;\n  p.y = 2;\n  return 0;\n}\n", []diag.Code{diag.RefNoMember}},
		{"malformed number", "int main() {\n  int a = 9abc;\n  return a;\n}\n", []diag.Code{diag.LexBadNumber}},
		{"parameters resolve", "int f(int p, int q[]) {\n  return p + q[0];\n}\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectCodes(t, tc.src, tc.want...)
		})
	}
}

func TestStyleWarnings(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"unused local", "int main() {\n  int unused = 1;\n  return 0;\n}\n", []diag.Code{diag.StyUnusedVar}},
		{"unused param is fine", "int f(int p) {\n  return 0;\n}\n", nil},
		{"uninitialized read", "int main() {\n  int a;\n  int b = a + 1;\n  return b;\n}\n", []diag.Code{diag.StyUninitialized}},
		{"self assignment reads old value", "int main() {\n  int a;\n  a = a + 1;\n  return a;\n}\n", []diag.Code{diag.StyUninitialized}},
		{"assigned before read", "int main() {\n  int a;\n  a = 1;\n  return a;\n}\n", nil},
		{"compound assignment initializes", "int main() {\n  int x;\n  x += 1;\n  int y = x;\n  return y;\n}\n", []diag.Code{diag.StyUninitialized}},
		{"while true", "int main() {\n  while (1) {\n    putint(1);\n  }\n  return 0;\n}\n", []diag.Code{diag.StyInfiniteLoop}},
		{"while true with break", "int main() {\n  while (true) {\n    break;\n  }\n  return 0;\n}\n", nil},
		{"endless for", "int main() {\n  for (;;) {\n    putint(1);\n  }\n}\n", []diag.Code{diag.StyInfiniteLoop}},
		{"for with return", "int main() {\n  for (;;) { return 1; }\n}\n", nil},
		{"missing semicolon", "int main() {\n  int a = 1\n  return a;\n}\n", []diag.Code{diag.StyMissingSemicolon}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectCodes(t, tc.src, tc.want...)
		})
	}
}

func TestDelimiterProperties(t *testing.T) {
	a := expectCodes(t, "{", diag.DelMissingBrace)
	pos := a.file.Position(a.bag.Items()[0].Primary.Start)
	if pos.Line != 1 || pos.Col != 1 {
		t.Fatalf("missing closer at %d:%d", pos.Line, pos.Col)
	}

	a = runSema(t, "int main() {\n  return 0;\n}\n}\nint x = (1;\n")
	items := a.bag.Items()
	if len(items) == 0 || items[0].Code != diag.DelExtraBrace {
		t.Fatalf("first diagnostic = %+v", items)
	}
	if a.line(0) != 4 {
		t.Fatalf("extra brace on line %d", a.line(0))
	}
}

func TestStrayClosersOnly(t *testing.T) {
	expectCodes(t, ")\n]\n", diag.DelExtraParen, diag.DelExtraBracket)
	expectCodes(t, "int main() {\n  return 0;\n});\n", diag.DelExtraParen)
}

func TestUnterminatedLiteralEndsStatement(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"char literal", "int main() {\n  char c = 'ab\n  int a = 1;\n  putch(c);\n  return a;\n}\n", []diag.Code{diag.LexUnterminatedChar}},
		{"string inside call", "int main() {\n  putint(\"abc);\n  int a = 1;\n  return a;\n}\n", []diag.Code{diag.LexUnterminatedString, diag.DelMissingParen}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := expectCodes(t, tc.src, tc.want...)
			if a.line(0) != 2 {
				t.Fatalf("literal reported on line %d", a.line(0))
			}
		})
	}
}

func TestForScopeAdoptsBody(t *testing.T) {
	expectCodes(t, "int main() {\n  int s = 0;\n  for (int i = 0; i < 3; i++) {\n    s = s + i;\n  }\n  return s;\n}\n")
	expectCodes(t, "int main() {\n  for (int i = 0; i < 3; i++) { }\n  return i;\n}\n", diag.RefUndefinedIdent)
}

func TestScopeTreeAndQueries(t *testing.T) {
	src := "int g;\nint add(int a, int b) {\n  int s = a + b;\n  return s;\n}\n"
	a := expectCodes(t, src)
	table := a.res.Table

	off := uint32(strings.Index(src, "return s")) // #nosec G115 -- small test input
	scope := table.ScopeAt(off)
	sc := table.Scope(scope)
	if sc.Kind.String() != "function" || sc.Name != "add" {
		t.Fatalf("scope at return = %+v", sc)
	}
	names := map[string]bool{}
	for _, id := range table.VisibleVars(off) {
		names[table.Var(id).Name] = true
	}
	for _, want := range []string{"g", "a", "b", "s"} {
		if !names[want] {
			t.Fatalf("%s not visible at return: %v", want, names)
		}
	}

	useOff := off + uint32(len("return ")) // #nosec G115
	ref, ok := a.res.ReferenceAt(useOff)
	if !ok || ref.Name != "s" || ref.Decl {
		t.Fatalf("reference at use = %+v", ref)
	}
	def, ok := a.res.Definition(ref)
	if !ok || a.file.Position(def.Start).Line != 3 {
		t.Fatalf("definition = %v", def)
	}
}

func TestIdempotent(t *testing.T) {
	src := "int a;\nint a;\nint main() {\n  int u;\n  x = u;\n  while (1) { }\n  return arr[1];\n}\n"
	base := runSema(t, src)
	first := diag.FormatShortDiagnostics(base.bag.Items(), base.fs, true)
	if first == "" {
		t.Fatalf("expected diagnostics")
	}
	for range 3 {
		a := runSema(t, src)
		if got := diag.FormatShortDiagnostics(a.bag.Items(), a.fs, true); got != first {
			t.Fatalf("non-deterministic output:\n%s\nvs\n%s", got, first)
		}
	}
}
