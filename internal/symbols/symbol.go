package symbols

import (
	"strconv"

	"sysyplus/internal/source"
)

// UnknownDim marks an array dimension whose size is not a constant ("int a[]", "int a[n]").
const UnknownDim = -1

// Variable is a declared variable or function parameter.
type Variable struct {
	Name        string
	Type        string // "int", "struct P", ...
	Struct      string // имя структуры, если тип struct
	IsConst     bool
	IsArray     bool
	Dims        []int
	Span        source.Span // имя в объявлении
	Line        uint32
	Scope       ScopeID
	Initialized bool
	IsParam     bool
	Used        bool
	// Value holds the folded initializer of an integer constant.
	Value    int64
	HasValue bool
}

// Decl renders the declaration: "const int N", "int a[4][]".
func (v *Variable) Decl() string {
	out := v.Type + " " + v.Name
	if v.IsConst {
		out = "const " + out
	}
	for _, d := range v.Dims {
		if d == UnknownDim {
			out += "[]"
			continue
		}
		out += "[" + strconv.Itoa(d) + "]"
	}
	return out
}

// Param is one entry of a function signature.
type Param struct {
	Name    string
	Type    string
	IsArray bool
	Span    source.Span
}

// Function is a user-declared or runtime library function.
type Function struct {
	Name       string
	ReturnType string
	Params     []Param
	Span       source.Span
	Line       uint32
	HasBody    bool
	Builtin    bool
	// Variadic is set for runtime functions like putf.
	Variadic bool
}

// Signature renders "int add(int a, int b)".
func (f *Function) Signature() string {
	out := f.ReturnType + " " + f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			out += ", "
		}
		out += p.Type
		if p.Name != "" {
			out += " " + p.Name
		}
		if p.IsArray {
			out += "[]"
		}
	}
	if f.Variadic {
		if len(f.Params) > 0 {
			out += ", "
		}
		out += "..."
	}
	return out + ")"
}

// Member is a field of a struct.
type Member struct {
	Name string
	Type string
	Span source.Span
	Line uint32
}

// Struct is a struct type; members never enter any scope.
type Struct struct {
	Name    string
	Members []Member
	Span    source.Span
	Line    uint32
}

// Member looks up a field by name.
func (s *Struct) Member(name string) (*Member, bool) {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i], true
		}
	}
	return nil, false
}
