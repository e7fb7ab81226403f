package sema

import (
	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
)

// RefKind tells what a Reference points at.
type RefKind uint8

const (
	RefVar RefKind = iota + 1
	RefFunc
	RefStruct
	RefMember
)

func (k RefKind) String() string {
	switch k {
	case RefVar:
		return "variable"
	case RefFunc:
		return "function"
	case RefStruct:
		return "struct"
	case RefMember:
		return "member"
	default:
		return "unknown"
	}
}

// Reference is one identifier occurrence bound to its declaration.
type Reference struct {
	Name   string
	Span   source.Span
	Kind   RefKind
	Decl   bool // the occurrence is the declaration itself
	Var    symbols.VarID
	Func   symbols.FuncID
	Struct symbols.StructID
	Member string
}

func (c *checker) record(ref Reference) {
	c.refs = append(c.refs, ref)
}

// ReferenceAt returns the reference covering off.
func (r Result) ReferenceAt(off uint32) (Reference, bool) {
	for _, ref := range r.Refs {
		if off >= ref.Span.Start && off < ref.Span.End {
			return ref, true
		}
	}
	return Reference{}, false
}

// Definition returns the declaration span of what ref points at. Builtins
// have no definition.
func (r Result) Definition(ref Reference) (source.Span, bool) {
	switch ref.Kind {
	case RefVar:
		if v := r.Table.Var(ref.Var); v != nil {
			return v.Span, true
		}
	case RefFunc:
		if f := r.Table.Func(ref.Func); f != nil && !f.Builtin {
			return f.Span, true
		}
	case RefStruct:
		if s := r.Table.Struct(ref.Struct); s != nil {
			return s.Span, true
		}
	case RefMember:
		if s := r.Table.Struct(ref.Struct); s != nil {
			if m, ok := s.Member(ref.Member); ok {
				return m.Span, true
			}
		}
	}
	return source.Span{}, false
}
