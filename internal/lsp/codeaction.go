package lsp

import (
	"encoding/json"

	"sysyplus/internal/driver"
)

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok || v.current() == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	return s.sendResponse(msg.ID, buildCodeActions(v.current(), v.uri, params.Range))
}

// buildCodeActions turns fixes of diagnostics touching rng into quick fixes.
// Only a result matching the buffer is used: fix offsets must be exact.
func buildCodeActions(res *driver.Result, uri string, rng lspRange) []codeAction {
	out := []codeAction{}
	if res == nil || res.Bag == nil {
		return out
	}
	items := res.Bag.Items()
	for i := range items {
		d := &items[i]
		if len(d.Fixes) == 0 {
			continue
		}
		ld := toLSPDiagnostic(uri, res, d)
		if !rangesOverlap(ld.Range, rng) {
			continue
		}
		for j, f := range d.Fixes {
			edits := make([]textEdit, 0, len(f.Edits))
			for _, e := range f.Edits {
				if e.Span.File != res.File.ID {
					continue
				}
				edits = append(edits, textEdit{Range: rangeForSpan(res.File, e.Span), NewText: e.NewText})
			}
			if len(edits) == 0 {
				continue
			}
			out = append(out, codeAction{
				Title:       f.Title,
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{ld},
				IsPreferred: j == 0,
				Edit:        &workspaceEdit{Changes: map[string][]textEdit{uri: edits}},
			})
		}
	}
	return out
}
