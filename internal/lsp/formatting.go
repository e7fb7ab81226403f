package lsp

import (
	"encoding/json"

	"sysyplus/internal/format"
	"sysyplus/internal/source"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	v, ok := s.view(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	edits, err := buildFormatting(v.text, params.Options)
	if err != nil {
		return s.sendError(msg.ID, codeInvalidParams, err.Error())
	}
	return s.sendResponse(msg.ID, edits)
}

// buildFormatting returns one edit replacing the whole buffer, or none when
// the text is already formatted.
func buildFormatting(text string, opts formattingOptions) ([]textEdit, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<buffer>", []byte(text)))
	out, err := format.FormatFile(file, formatOptions(opts))
	if err != nil {
		return nil, err
	}
	if string(out) == text {
		return []textEdit{}, nil
	}
	// диапазон считается по исходному тексту: в нём могут быть \r\n
	end := endPosition(text)
	return []textEdit{{
		Range:   lspRange{Start: position{}, End: end},
		NewText: string(out),
	}}, nil
}

func endPosition(text string) position {
	line, last := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			last = i + 1
		}
	}
	units := 0
	for _, r := range text[last:] {
		units += utf16Units(r)
	}
	return position{Line: line, Character: units}
}
