package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

type TokenOutput struct {
	Kind      string   `json:"kind"`
	Text      string   `json:"text,omitempty"`
	StartByte uint32   `json:"start_byte"`
	EndByte   uint32   `json:"end_byte"`
	Line      uint32   `json:"line"`
	Col       uint32   `json:"col"`
	Leading   []string `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, 0, len(tok.Leading))
	for _, trivia := range tok.Leading {
		out = append(out, trivia.Kind.String())
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if leading := leadingKinds(tok); len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := fs.Get(tok.Span.File).Position(tok.Span.Start)
		output = append(output, TokenOutput{
			Kind:      tok.Kind.String(),
			Text:      tok.Text,
			StartByte: tok.Span.Start,
			EndByte:   tok.Span.End,
			Line:      pos.Line,
			Col:       pos.Col,
			Leading:   leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return writeJSON(w, output)
}
