package format

import (
	"fmt"

	"sysyplus/internal/lexer"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// CheckRoundTrip formats sf and verifies the token stream did not change.
// msg describes the first difference.
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	out, err := FormatFile(sf, opt)
	if err != nil {
		return false, err.Error()
	}
	fs := source.NewFileSet()
	formatted := fs.Get(fs.AddVirtual(sf.Path, out))

	before := significant(lexer.Tokenize(sf, nil, lexer.Options{}))
	after := significant(lexer.Tokenize(formatted, nil, lexer.Options{}))
	for i := 0; i < len(before) && i < len(after); i++ {
		if before[i].Kind != after[i].Kind || before[i].Text != after[i].Text {
			pos := sf.Position(before[i].Span.Start)
			return false, fmt.Sprintf("fmt-check: token %d at %d:%d changed from %q to %q",
				i, pos.Line, pos.Col, before[i].Text, after[i].Text)
		}
	}
	if len(before) != len(after) {
		return false, fmt.Sprintf("fmt-check: token count changed from %d to %d", len(before), len(after))
	}
	return true, ""
}

func significant(toks []token.Token) []token.Token {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		return toks[:n-1]
	}
	return toks
}
