package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"sysyplus/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Vars uint }

// Table aggregates the scope tree and declaration arenas of one document.
// It is rebuilt from scratch on every analysis and read-only afterwards.
type Table struct {
	Scopes  *Scopes
	vars    *arena[Variable]
	funcs   *arena[Function]
	structs *arena[Struct]
	global  ScopeID
}

// NewTable builds a fresh table whose global scope covers span.
func NewTable(h Hints, span source.Span) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	varCap, err := safecast.Conv[uint32](h.Vars)
	if err != nil {
		panic(fmt.Errorf("var capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		vars:    newArena[Variable](varCap),
		funcs:   newArena[Function](0),
		structs: newArena[Struct](0),
	}
	t.global = t.Scopes.New(ScopeGlobal, NoScopeID, span)
	return t
}

// Global returns the root scope.
func (t *Table) Global() ScopeID { return t.global }

func (t *Table) Var(id VarID) *Variable     { return t.vars.get(uint32(id)) }
func (t *Table) Func(id FuncID) *Function   { return t.funcs.get(uint32(id)) }
func (t *Table) Struct(id StructID) *Struct { return t.structs.get(uint32(id)) }
func (t *Table) Scope(id ScopeID) *Scope    { return t.Scopes.Get(id) }

// Counts reports the number of recorded declarations.
func (t *Table) Counts() (vars, funcs, structs int) {
	return t.vars.len(), t.funcs.len(), t.structs.len()
}

// DeclareVar inserts v into scope. Duplicate checks are the caller's job.
func (t *Table) DeclareVar(scope ScopeID, v Variable) VarID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		panic(fmt.Errorf("declare %q in invalid scope %d", v.Name, scope))
	}
	v.Scope = scope
	id := VarID(t.vars.add(v))
	sc.Vars = append(sc.Vars, id)
	return id
}

// DeclareFunc records f in the global scope.
func (t *Table) DeclareFunc(f Function) FuncID {
	id := FuncID(t.funcs.add(f))
	sc := t.Scopes.Get(t.global)
	sc.Funcs = append(sc.Funcs, id)
	return id
}

// DeclareStruct records s in the global scope.
func (t *Table) DeclareStruct(s Struct) StructID {
	id := StructID(t.structs.add(s))
	sc := t.Scopes.Get(t.global)
	sc.Structs = append(sc.Structs, id)
	return id
}

// LookupLocal finds a variable declared directly in scope; the most recent
// declaration wins.
func (t *Table) LookupLocal(scope ScopeID, name string) (VarID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoVarID, false
	}
	for i := len(sc.Vars) - 1; i >= 0; i-- {
		if t.vars.get(uint32(sc.Vars[i])).Name == name {
			return sc.Vars[i], true
		}
	}
	return NoVarID, false
}

// LookupVar resolves name innermost-first along the chain of scope.
func (t *Table) LookupVar(scope ScopeID, name string) (VarID, bool) {
	for _, id := range t.Chain(scope) {
		if v, ok := t.LookupLocal(id, name); ok {
			return v, true
		}
	}
	return NoVarID, false
}

// LookupFunc returns the latest function with this name. A user definition
// recorded after a runtime builtin of the same name hides it.
func (t *Table) LookupFunc(name string) (FuncID, bool) {
	sc := t.Scopes.Get(t.global)
	for i := len(sc.Funcs) - 1; i >= 0; i-- {
		if t.funcs.get(uint32(sc.Funcs[i])).Name == name {
			return sc.Funcs[i], true
		}
	}
	return NoFuncID, false
}

// LookupStruct returns the struct type with this name.
func (t *Table) LookupStruct(name string) (StructID, bool) {
	sc := t.Scopes.Get(t.global)
	for i := len(sc.Structs) - 1; i >= 0; i-- {
		if t.structs.get(uint32(sc.Structs[i])).Name == name {
			return sc.Structs[i], true
		}
	}
	return NoStructID, false
}

// Chain yields scope, its parent, its parent's parent, ... ending at global.
func (t *Table) Chain(scope ScopeID) []ScopeID {
	out := make([]ScopeID, 0, 4)
	for id := scope; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc == nil {
			break
		}
		out = append(out, id)
		id = sc.Parent
	}
	return out
}

// ScopeAt returns the innermost scope whose span contains off.
func (t *Table) ScopeAt(off uint32) ScopeID {
	cur := t.global
	for {
		next := NoScopeID
		for _, child := range t.Scopes.Get(cur).Children {
			sp := t.Scopes.Get(child).Span
			if off >= sp.Start && off < sp.End {
				next = child
				break
			}
		}
		if !next.IsValid() {
			return cur
		}
		cur = next
	}
}

// VisibleVars lists variables visible at off: the chain of ScopeAt(off),
// declared before off, inner declarations shadowing outer ones.
func (t *Table) VisibleVars(off uint32) []VarID {
	seen := make(map[string]struct{})
	var out []VarID
	for _, scope := range t.Chain(t.ScopeAt(off)) {
		sc := t.Scopes.Get(scope)
		for i := len(sc.Vars) - 1; i >= 0; i-- {
			v := t.vars.get(uint32(sc.Vars[i]))
			if v.Span.Start > off {
				continue
			}
			if _, dup := seen[v.Name]; dup {
				continue
			}
			seen[v.Name] = struct{}{}
			out = append(out, sc.Vars[i])
		}
	}
	return out
}

// Funcs returns all recorded functions in declaration order.
func (t *Table) Funcs() []FuncID {
	return slices.Clone(t.Scopes.Get(t.global).Funcs)
}

// Structs returns all recorded struct types in declaration order.
func (t *Table) Structs() []StructID {
	return slices.Clone(t.Scopes.Get(t.global).Structs)
}

// AllVars returns every variable in allocation (detection) order.
func (t *Table) AllVars() []VarID {
	out := make([]VarID, 0, t.vars.len())
	for i := 1; i <= t.vars.len(); i++ {
		out = append(out, VarID(i)) // #nosec G115 -- bounded by arena size
	}
	return out
}
