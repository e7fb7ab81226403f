package lsp

import (
	"encoding/json"
	"sort"

	"sysyplus/internal/driver"
	"sysyplus/internal/lexer"
	"sysyplus/internal/token"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
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
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(v.current()))
}

// buildFoldingRanges folds brace pairs and block comments spanning lines.
// The closing line stays visible.
func buildFoldingRanges(res *driver.Result) []foldingRange {
	ranges := []foldingRange{}
	if res == nil || res.File == nil {
		return ranges
	}
	file := res.File
	line := func(off uint32) int { return positionForOffsetInFile(file, off).Line }

	var stack []int
	for _, tok := range res.Tokens() {
		switch tok.Kind {
		case token.LBrace:
			stack = append(stack, line(tok.Span.Start))
		case token.RBrace:
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if end := line(tok.Span.Start) - 1; end > open {
				ranges = append(ranges, foldingRange{StartLine: open, EndLine: end})
			}
		}
	}
	if res.Tracker != nil {
		for _, r := range res.Tracker.Regions() {
			if r.Mode != lexer.ModeBlockComment {
				continue
			}
			start, end := line(r.Span.Start), line(r.Span.End)
			if end > start {
				ranges = append(ranges, foldingRange{StartLine: start, EndLine: end, Kind: "comment"})
			}
		}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}
