package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"sysyplus/internal/driver"
	"sysyplus/internal/sema"
	"sysyplus/internal/symbols"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok || v.current() == nil {
		return s.sendResponse(msg.ID, nil)
	}
	h := buildHover(v.current(), params.Position)
	if h == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, h)
}

func buildHover(res *driver.Result, pos position) *hover {
	if res == nil || res.Table == nil {
		return nil
	}
	off := offsetForPositionInFile(res.File, pos)
	sr := res.Sema()
	ref, ok := sr.ReferenceAt(off)
	if !ok {
		return nil
	}
	text := hoverText(sr, ref)
	if text == "" {
		return nil
	}
	rng := rangeForSpan(res.File, ref.Span)
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: text},
		Range:    &rng,
	}
}

func hoverText(sr sema.Result, ref sema.Reference) string {
	var code, extra string
	switch ref.Kind {
	case sema.RefVar:
		v := sr.Table.Var(ref.Var)
		if v == nil {
			return ""
		}
		code = v.Decl()
		switch {
		case v.IsParam:
			extra = "parameter"
		case v.HasValue && v.IsConst:
			extra = fmt.Sprintf("constant, value %d", v.Value)
		case sr.Table.Scope(v.Scope).Kind == symbols.ScopeGlobal:
			extra = "global variable"
		default:
			extra = "local variable"
		}
		extra += fmt.Sprintf(", declared on line %d", v.Line)
	case sema.RefFunc:
		f := sr.Table.Func(ref.Func)
		if f == nil {
			return ""
		}
		code = f.Signature()
		if f.Builtin {
			extra = "runtime library function"
		} else {
			extra = fmt.Sprintf("declared on line %d", f.Line)
		}
	case sema.RefStruct:
		st := sr.Table.Struct(ref.Struct)
		if st == nil {
			return ""
		}
		var sb strings.Builder
		sb.WriteString("struct " + st.Name + " {\n")
		for _, m := range st.Members {
			sb.WriteString("    " + m.Type + " " + m.Name + ";\n")
		}
		sb.WriteString("}")
		code = sb.String()
	case sema.RefMember:
		st := sr.Table.Struct(ref.Struct)
		if st == nil {
			return ""
		}
		m, ok := st.Member(ref.Member)
		if !ok {
			return ""
		}
		code = m.Type + " " + m.Name
		extra = "member of struct " + st.Name
	default:
		return ""
	}
	out := "```sysy\n" + code + "\n```"
	if extra != "" {
		out += "\n\n" + extra
	}
	return out
}
