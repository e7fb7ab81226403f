package lsp

import (
	"encoding/json"
	"sort"

	"sysyplus/internal/driver"
	"sysyplus/internal/symbols"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
	}
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok || v.current() == nil {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	return s.sendResponse(msg.ID, buildDocumentSymbols(v.current()))
}

// buildDocumentSymbols outlines global variables, structs with their members
// and user functions with their parameters, in source order.
func buildDocumentSymbols(res *driver.Result) []documentSymbol {
	out := []documentSymbol{}
	if res == nil || res.Table == nil {
		return out
	}
	t, file := res.Table, res.File
	global := t.Scope(t.Global())

	for _, id := range global.Vars {
		v := t.Var(id)
		kind := symbolKindVariable
		if v.IsConst {
			kind = symbolKindConstant
		}
		rng := rangeForSpan(file, v.Span)
		out = append(out, documentSymbol{Name: v.Name, Detail: v.Decl(), Kind: kind, Range: rng, SelectionRange: rng})
	}
	for _, id := range t.Structs() {
		st := t.Struct(id)
		sym := documentSymbol{
			Name:           st.Name,
			Detail:         "struct",
			Kind:           symbolKindStruct,
			Range:          rangeForSpan(file, st.Span),
			SelectionRange: rangeForSpan(file, st.Span),
		}
		for _, m := range st.Members {
			rng := rangeForSpan(file, m.Span)
			sym.Children = append(sym.Children, documentSymbol{Name: m.Name, Detail: m.Type, Kind: symbolKindField, Range: rng, SelectionRange: rng})
		}
		out = append(out, sym)
	}
	for _, id := range t.Funcs() {
		f := t.Func(id)
		if f.Builtin {
			continue
		}
		sel := rangeForSpan(file, f.Span)
		sym := documentSymbol{Name: f.Name, Detail: f.Signature(), Kind: symbolKindFunction, Range: sel, SelectionRange: sel}
		if sc := functionScope(t, f); sc != nil {
			sym.Range = rangeForSpan(file, f.Span.Cover(sc.Span))
			for _, vid := range sc.Vars {
				p := t.Var(vid)
				if !p.IsParam {
					continue
				}
				rng := rangeForSpan(file, p.Span)
				sym.Children = append(sym.Children, documentSymbol{Name: p.Name, Detail: p.Decl(), Kind: symbolKindVariable, Range: rng, SelectionRange: rng})
			}
		}
		out = append(out, sym)
	}
	sort.SliceStable(out, func(i, j int) bool { return positionLess(out[i].Range.Start, out[j].Range.Start) })
	return out
}

// functionScope finds the scope opened right after the function name.
func functionScope(t *symbols.Table, f *symbols.Function) *symbols.Scope {
	var best *symbols.Scope
	for _, child := range t.Scope(t.Global()).Children {
		sc := t.Scope(child)
		if sc.Kind != symbols.ScopeFunction || sc.Name != f.Name || sc.Span.Start < f.Span.End {
			continue
		}
		if best == nil || sc.Span.Start < best.Span.Start {
			best = sc
		}
	}
	return best
}
