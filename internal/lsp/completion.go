package lsp

import (
	"encoding/json"
	"sort"

	"sysyplus/internal/driver"
	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
	"sysyplus/internal/token"
)

const mainSnippet = "int main() {\n\t$0\n\treturn 0;\n}"

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, completionList{Items: []completionItem{}})
	}
	s.mu.Lock()
	kw := s.cfg.Keywords
	s.mu.Unlock()
	return s.sendResponse(msg.ID, buildCompletion(v, params.Position, kw))
}

// buildCompletion offers struct members after "ident.", otherwise keywords,
// visible variables, functions and structs and a main() snippet at global
// scope. A stale analysis is used as is: offsets before the edit point
// rarely move while typing.
func buildCompletion(v docView, pos position, kw token.Keywords) completionList {
	// смещения таблицы считаются по нормализованному тексту (без BOM и \r)
	norm, _ := source.Normalize([]byte(v.text))
	text := string(norm)
	off := offsetForPosition(text, pos)
	prefixStart := off
	for prefixStart > 0 && isIdentByte(text[prefixStart-1]) {
		prefixStart--
	}

	res := v.res
	if res != nil && res.Table != nil && prefixStart > 0 && text[prefixStart-1] == '.' {
		return completionList{Items: memberItems(res, text, prefixStart-1)}
	}

	items := keywordItems(kw)
	global := true
	if res != nil && res.Table != nil {
		at := uint32(prefixStart) // #nosec G115 -- document size fits a FileSet
		global = res.Table.ScopeAt(at) == res.Table.Global()
		items = append(items, symbolItems(res, at)...)
	}
	if global {
		items = append(items, completionItem{
			Label:            "main",
			Kind:             completionKindSnippet,
			Detail:           "int main() { ... }",
			InsertText:       mainSnippet,
			InsertTextFormat: insertTextFormatSnippet,
			SortText:         "0main",
		})
	}
	return completionList{Items: items}
}

func keywordItems(kw token.Keywords) []completionItem {
	if kw == nil {
		kw = token.DefaultKeywords()
	}
	words := kw.Words()
	sort.Strings(words)
	out := make([]completionItem, 0, len(words))
	for _, w := range words {
		out = append(out, completionItem{Label: w, Kind: completionKindKeyword, SortText: "3" + w})
	}
	return out
}

func symbolItems(res *driver.Result, off uint32) []completionItem {
	t := res.Table
	var out []completionItem
	for _, id := range t.VisibleVars(off) {
		v := t.Var(id)
		kind := completionKindVariable
		if v.IsConst {
			kind = completionKindConstant
		}
		out = append(out, completionItem{Label: v.Name, Kind: kind, Detail: v.Decl(), SortText: "1" + v.Name})
	}
	for _, id := range t.Funcs() {
		f := t.Func(id)
		out = append(out, completionItem{Label: f.Name, Kind: completionKindFunction, Detail: f.Signature(), SortText: "2" + f.Name})
	}
	for _, id := range t.Structs() {
		st := t.Struct(id)
		out = append(out, completionItem{Label: st.Name, Kind: completionKindStruct, Detail: "struct " + st.Name, SortText: "2" + st.Name})
	}
	return out
}

// memberItems completes "p." when p is a struct variable visible at dot.
func memberItems(res *driver.Result, text string, dot int) []completionItem {
	end := dot
	start := end
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	out := []completionItem{}
	if start == end {
		return out
	}
	name := text[start:end]
	st := structOf(res.Table, uint32(dot), name) // #nosec G115 -- document size fits a FileSet
	if st == nil {
		return out
	}
	for _, m := range st.Members {
		out = append(out, completionItem{Label: m.Name, Kind: completionKindField, Detail: m.Type + " " + m.Name})
	}
	return out
}

func structOf(t *symbols.Table, off uint32, name string) *symbols.Struct {
	for _, id := range t.VisibleVars(off) {
		v := t.Var(id)
		if v.Name != name || v.Struct == "" {
			continue
		}
		if sid, ok := t.LookupStruct(v.Struct); ok {
			return t.Struct(sid)
		}
	}
	return nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
