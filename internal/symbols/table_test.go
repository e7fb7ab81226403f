package symbols

import (
	"testing"

	"sysyplus/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestTableGlobalScope(t *testing.T) {
	table := NewTable(Hints{}, span(0, 100))
	global := table.Global()
	if !global.IsValid() {
		t.Fatalf("expected valid global scope")
	}
	if sc := table.Scope(global); sc.Kind != ScopeGlobal || sc.Parent.IsValid() {
		t.Fatalf("unexpected global scope %+v", sc)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestManagerPushPop(t *testing.T) {
	table := NewTable(Hints{}, span(0, 100))
	m := NewManager(table)

	fn := m.Push(ScopeFunction, span(10, 90))
	blk := m.Push(ScopeBlock, span(20, 40))
	if m.Current() != blk || m.Depth() != 3 {
		t.Fatalf("current = %d depth = %d", m.Current(), m.Depth())
	}
	chain := m.Chain()
	if len(chain) != 3 || chain[0] != blk || chain[1] != fn || chain[2] != table.Global() {
		t.Fatalf("chain = %v", chain)
	}
	m.Pop(40)
	m.Pop(90)
	if !m.AtGlobal() {
		t.Fatalf("expected global after pops")
	}
	// extra pop stays at global
	m.Pop(95)
	if m.Current() != table.Global() {
		t.Fatalf("pop at global changed current to %d", m.Current())
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLookupShadowing(t *testing.T) {
	table := NewTable(Hints{}, span(0, 100))
	m := NewManager(table)
	outer := table.DeclareVar(m.Current(), Variable{Name: "x", Span: span(4, 5)})
	inner := m.Push(ScopeBlock, span(10, 50))
	innerX := table.DeclareVar(inner, Variable{Name: "x", Span: span(16, 17)})

	if got, ok := table.LookupVar(inner, "x"); !ok || got != innerX {
		t.Fatalf("inner lookup = %d, want %d", got, innerX)
	}
	m.Pop(50)
	if got, ok := table.LookupVar(m.Current(), "x"); !ok || got != outer {
		t.Fatalf("outer lookup = %d, want %d", got, outer)
	}
	if _, ok := table.LookupLocal(inner, "y"); ok {
		t.Fatalf("unexpected y")
	}
}

func TestScopeAtAndVisible(t *testing.T) {
	table := NewTable(Hints{}, span(0, 100))
	m := NewManager(table)
	table.DeclareVar(m.Current(), Variable{Name: "g", Span: span(4, 5)})
	blk := m.Push(ScopeBlock, span(10, 50))
	table.DeclareVar(blk, Variable{Name: "a", Span: span(15, 16)})
	table.DeclareVar(blk, Variable{Name: "b", Span: span(30, 31)})
	m.Pop(50)

	if got := table.ScopeAt(20); got != blk {
		t.Fatalf("ScopeAt(20) = %d, want %d", got, blk)
	}
	if got := table.ScopeAt(60); got != table.Global() {
		t.Fatalf("ScopeAt(60) = %d, want global", got)
	}
	vis := table.VisibleVars(20)
	names := map[string]bool{}
	for _, id := range vis {
		names[table.Var(id).Name] = true
	}
	if !names["a"] || !names["g"] || names["b"] {
		t.Fatalf("visible at 20 = %v", names)
	}
}

func TestPreludeCanBeHidden(t *testing.T) {
	table := NewTable(Hints{}, span(0, 10))
	table.InstallPrelude([]string{"printf"})
	id, ok := table.LookupFunc("putint")
	if !ok || !table.Func(id).Builtin {
		t.Fatalf("putint missing from prelude")
	}
	if _, ok := table.LookupFunc("printf"); !ok {
		t.Fatalf("extra builtin missing")
	}
	user := table.DeclareFunc(Function{Name: "putint", ReturnType: "void", HasBody: true})
	if got, _ := table.LookupFunc("putint"); got != user {
		t.Fatalf("user function should hide builtin")
	}
}

func TestSignature(t *testing.T) {
	f := Function{Name: "add", ReturnType: "int", Params: []Param{{Name: "a", Type: "int"}, {Name: "b", Type: "int", IsArray: true}}}
	if got := f.Signature(); got != "int add(int a, int b[])" {
		t.Fatalf("signature = %q", got)
	}
	putf := Function{Name: "putf", ReturnType: "void", Params: []Param{{Name: "fmt", Type: "char", IsArray: true}}, Variadic: true}
	if got := putf.Signature(); got != "void putf(char fmt[], ...)" {
		t.Fatalf("signature = %q", got)
	}
}
