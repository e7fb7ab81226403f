package lexer

import (
	"sysyplus/internal/token"
)

// Поддержка: 0, 123, 017 (octal), 0x1F, 1.5, .5, 1e-3, 1.0E+10, 0x1.8p3.
// Число, за которым вплотную идут буквы или '_' ("9abc", "1.0f"), целиком
// становится Invalid; диагностику выдаёт тот, кто знает контекст.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	hex := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		hex = true
		lx.cursor.Skip(2)
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// дробная часть
	if lx.cursor.Peek() == '.' {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || (hex && isHex(lx.cursor.Peek())) {
			lx.cursor.Bump()
		}
	}

	// экспонента
	exp := lx.cursor.Peek()
	if (!hex && (exp == 'e' || exp == 'E')) || (hex && (exp == 'p' || exp == 'P')) {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else {
			lx.cursor.Reset(mark)
		}
	}

	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		kind = token.Invalid
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
