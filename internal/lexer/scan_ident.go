package lexer

import (
	"sysyplus/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]* и классифицирует по таблице
// ключевых слов из Options. Token.Text: ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if k, ok := lx.opts.Keywords.Lookup(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanIllegal consumes one non-ASCII rune as an Invalid token.
func (lx *Lexer) scanIllegal() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanLiteral emits a string or char literal covering a tracker region.
// Unterminated literals become Invalid; the tracker has reported them.
func (lx *Lexer) scanLiteral(r Region) token.Token {
	lx.cursor.Off = r.Span.End
	kind := token.StringLit
	if r.Mode == ModeChar {
		kind = token.CharLit
	}
	if !r.Terminated {
		kind = token.Invalid
	}
	return token.Token{Kind: kind, Span: r.Span, Text: lx.text(r.Span)}
}
