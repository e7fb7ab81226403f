package lsp

import (
	"encoding/json"
	"sort"

	"sysyplus/internal/driver"
	"sysyplus/internal/sema"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok || v.current() == nil {
		return s.sendResponse(msg.ID, []location{})
	}
	return s.sendResponse(msg.ID, buildDefinition(v.current(), v.uri, params.Position))
}

func buildDefinition(res *driver.Result, uri string, pos position) []location {
	if res == nil || res.Table == nil {
		return []location{}
	}
	sr := res.Sema()
	ref, ok := sr.ReferenceAt(offsetForPositionInFile(res.File, pos))
	if !ok {
		return []location{}
	}
	span, ok := sr.Definition(ref)
	if !ok {
		return []location{}
	}
	return []location{{URI: uri, Range: rangeForSpan(res.File, span)}}
}

func (s *Server) handleReferences(msg *rpcMessage) error {
	var params referenceParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok || v.current() == nil {
		return s.sendResponse(msg.ID, []location{})
	}
	return s.sendResponse(msg.ID, buildReferences(v.current(), v.uri, params.Position, params.Context.IncludeDeclaration))
}

// buildReferences lists every occurrence bound to the same symbol as the
// identifier under pos, in source order.
func buildReferences(res *driver.Result, uri string, pos position, withDecl bool) []location {
	out := []location{}
	if res == nil || res.Table == nil {
		return out
	}
	sr := res.Sema()
	target, ok := sr.ReferenceAt(offsetForPositionInFile(res.File, pos))
	if !ok {
		return out
	}
	var hits []sema.Reference
	for _, ref := range sr.Refs {
		if !sameSymbol(target, ref) || (ref.Decl && !withDecl) {
			continue
		}
		hits = append(hits, ref)
	}
	// Refs идут в порядке обнаружения, не по позиции
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Span.Start < hits[j].Span.Start })
	for _, ref := range hits {
		out = append(out, location{URI: uri, Range: rangeForSpan(res.File, ref.Span)})
	}
	return out
}

func sameSymbol(a, b sema.Reference) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case sema.RefVar:
		return a.Var == b.Var
	case sema.RefFunc:
		return a.Func == b.Func
	case sema.RefStruct:
		return a.Struct == b.Struct
	case sema.RefMember:
		return a.Struct == b.Struct && a.Member == b.Member
	}
	return false
}
