package symbols

import (
	"sysyplus/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // permanent root of the document
	ScopeFunction           // function body, holds the parameters
	ScopeBlock              // generic block scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy. Declarations
// keep insertion order.
type Scope struct {
	ID       ScopeID
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span // от '{' до '}' включительно
	Name     string      // имя функции для ScopeFunction
	Vars     []VarID
	Funcs    []FuncID
	Structs  []StructID
	Children []ScopeID
}
