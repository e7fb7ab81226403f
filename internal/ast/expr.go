package ast

import (
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// Expr is a half-open range [Start, End) of token indices into File.Tokens.
// Expressions are not parsed further; consumers walk the tokens.
type Expr struct {
	Start uint32
	End   uint32
}

func (e Expr) Empty() bool { return e.Start >= e.End }
func (e Expr) Len() int {
	if e.Empty() {
		return 0
	}
	return int(e.End - e.Start)
}

// Name is an identifier position in a declaration. Kind is token.Ident for a
// well-formed name; a keyword kind or Invalid/IntLit otherwise.
// Text == "" means the name is missing.
type Name struct {
	Text string
	Span source.Span
	Kind token.Kind
	Tok  uint32
}

func (n Name) Present() bool { return n.Text != "" }
func (n Name) Valid() bool   { return n.Kind == token.Ident }

// TypeRef is a declared type: a primitive keyword or struct <Name>.
type TypeRef struct {
	Kind     token.Kind // KwInt, KwFloat, KwChar, KwVoid, KwStruct; Invalid when absent
	Name     string     // имя структуры для KwStruct
	NameSpan source.Span
	Span     source.Span
}

func (t TypeRef) Present() bool { return t.Kind != token.Invalid }
func (t TypeRef) IsStruct() bool {
	return t.Kind == token.KwStruct
}

func (t TypeRef) String() string {
	switch t.Kind {
	case token.KwInt:
		return "int"
	case token.KwFloat:
		return "float"
	case token.KwChar:
		return "char"
	case token.KwVoid:
		return "void"
	case token.KwStruct:
		return "struct " + t.Name
	default:
		return "?"
	}
}

// Dim is one bracketed array dimension. Size is empty for "[]".
type Dim struct {
	Size Expr
	Span source.Span
}
