package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
)

// ScopeJSON is one node of the scope tree dump.
type ScopeJSON struct {
	Kind      string       `json:"kind"`
	Name      string       `json:"name,omitempty"`
	StartLine uint32       `json:"start_line"`
	StartCol  uint32       `json:"start_col"`
	EndLine   uint32       `json:"end_line"`
	EndCol    uint32       `json:"end_col"`
	Vars      []VarJSON    `json:"vars,omitempty"`
	Funcs     []FuncJSON   `json:"funcs,omitempty"`
	Structs   []StructJSON `json:"structs,omitempty"`
	Children  []ScopeJSON  `json:"children,omitempty"`
}

type VarJSON struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Line        uint32 `json:"line"`
	Const       bool   `json:"const,omitempty"`
	Param       bool   `json:"param,omitempty"`
	Dims        []int  `json:"dims,omitempty"`
	Initialized bool   `json:"initialized"`
	Used        bool   `json:"used"`
}

type FuncJSON struct {
	Signature string `json:"signature"`
	Line      uint32 `json:"line,omitempty"`
	Builtin   bool   `json:"builtin,omitempty"`
}

type StructJSON struct {
	Name    string   `json:"name"`
	Line    uint32   `json:"line"`
	Members []string `json:"members,omitempty"`
}

// BuildScopeTree converts the table into a nested tree rooted at the
// global scope. Runtime builtins are listed only when withBuiltins is set.
func BuildScopeTree(t *symbols.Table, f *source.File, withBuiltins bool) ScopeJSON {
	return buildScope(t, f, t.Global(), withBuiltins)
}

func buildScope(t *symbols.Table, f *source.File, id symbols.ScopeID, withBuiltins bool) ScopeJSON {
	sc := t.Scope(id)
	start, end := f.Position(sc.Span.Start), f.Position(sc.Span.End)
	out := ScopeJSON{
		Kind:      sc.Kind.String(),
		Name:      sc.Name,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}
	for _, sid := range sc.Structs {
		st := t.Struct(sid)
		sj := StructJSON{Name: st.Name, Line: st.Line}
		for _, m := range st.Members {
			sj.Members = append(sj.Members, m.Type+" "+m.Name)
		}
		out.Structs = append(out.Structs, sj)
	}
	for _, fid := range sc.Funcs {
		fn := t.Func(fid)
		if fn.Builtin && !withBuiltins {
			continue
		}
		out.Funcs = append(out.Funcs, FuncJSON{Signature: fn.Signature(), Line: fn.Line, Builtin: fn.Builtin})
	}
	for _, vid := range sc.Vars {
		v := t.Var(vid)
		out.Vars = append(out.Vars, VarJSON{
			Name:        v.Name,
			Type:        v.Type,
			Line:        v.Line,
			Const:       v.IsConst,
			Param:       v.IsParam,
			Dims:        v.Dims,
			Initialized: v.Initialized,
			Used:        v.Used,
		})
	}
	for _, child := range sc.Children {
		out.Children = append(out.Children, buildScope(t, f, child, withBuiltins))
	}
	return out
}

// FormatScopesJSON writes the tree as indented JSON.
func FormatScopesJSON(w io.Writer, t *symbols.Table, f *source.File, withBuiltins bool) error {
	return writeJSON(w, BuildScopeTree(t, f, withBuiltins))
}

// FormatScopesPretty writes an indented outline:
//
//	global 1:1-9:1
//	  func int main() :1
//	  function main 1:11-9:2
//	    var x int :2
func FormatScopesPretty(w io.Writer, t *symbols.Table, f *source.File, withBuiltins bool) error {
	var sb strings.Builder
	writeScope(&sb, BuildScopeTree(t, f, withBuiltins), 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeScope(sb *strings.Builder, s ScopeJSON, depth int) {
	indent := strings.Repeat("  ", depth)
	head := s.Kind
	if s.Name != "" {
		head += " " + s.Name
	}
	fmt.Fprintf(sb, "%s%s %d:%d-%d:%d\n", indent, head, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
	inner := indent + "  "
	for _, st := range s.Structs {
		fmt.Fprintf(sb, "%sstruct %s {%s} :%d\n", inner, st.Name, strings.Join(st.Members, "; "), st.Line)
	}
	for _, fn := range s.Funcs {
		if fn.Builtin {
			fmt.Fprintf(sb, "%sfunc %s builtin\n", inner, fn.Signature)
			continue
		}
		fmt.Fprintf(sb, "%sfunc %s :%d\n", inner, fn.Signature, fn.Line)
	}
	for _, v := range s.Vars {
		fmt.Fprintf(sb, "%s%s %s %s%s :%d%s\n", inner, varWord(v), v.Name, v.Type, dimsText(v.Dims), v.Line, varFlags(v))
	}
	for _, c := range s.Children {
		writeScope(sb, c, depth+1)
	}
}

func varWord(v VarJSON) string {
	switch {
	case v.Param:
		return "param"
	case v.Const:
		return "const"
	default:
		return "var"
	}
}

func dimsText(dims []int) string {
	var sb strings.Builder
	for _, d := range dims {
		if d == symbols.UnknownDim {
			sb.WriteString("[]")
			continue
		}
		fmt.Fprintf(&sb, "[%d]", d)
	}
	return sb.String()
}

func varFlags(v VarJSON) string {
	var flags []string
	if !v.Used {
		flags = append(flags, "unused")
	}
	if !v.Initialized {
		flags = append(flags, "uninit")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}
