package parser

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/token"
)

type scanMode uint8

const (
	scanStmt  scanMode = iota // до ';' на нулевой глубине
	scanInit                  // инициализатор: '{...}' внутри, ',' завершает
	scanGroup                 // условие и части for(...): до ')' или ';'
	scanDim                   // размер массива: до ']'
)

// scanExpr collects a token range without building a tree. The terminator
// is left for the caller. '{', '}' and ';' at the top level always end the
// range, except that scanInit admits brace-enclosed lists. In statement and
// initializer modes a line break between a token that can end an expression
// and one that can start a statement ends the range too. After an
// unterminated literal the line break ends the range even inside parens.
func (p *Parser) scanExpr(mode scanMode) ast.Expr {
	start := p.pos
	depth := 0 // () и [] внутри выражения
	braces := 0
	for {
		tok := p.peek()
		top := depth == 0 && braces == 0
		switch tok.Kind {
		case token.EOF:
			return ast.Expr{Start: start, End: p.pos}
		case token.Semicolon:
			if braces == 0 {
				return ast.Expr{Start: start, End: p.pos}
			}
		case token.Comma:
			if top && mode == scanInit {
				return ast.Expr{Start: start, End: p.pos}
			}
		case token.LBrace:
			if mode != scanInit {
				return ast.Expr{Start: start, End: p.pos}
			}
			braces++
		case token.RBrace:
			if braces == 0 {
				return ast.Expr{Start: start, End: p.pos}
			}
			braces--
		case token.LParen, token.LBracket:
			depth++
		case token.RParen:
			if depth == 0 {
				return ast.Expr{Start: start, End: p.pos}
			}
			depth--
		case token.RBracket:
			if depth == 0 {
				return ast.Expr{Start: start, End: p.pos}
			}
			depth--
		}
		if p.pos > start && (top || unterminated(p.toks[p.pos-1])) && (mode == scanStmt || mode == scanInit) && p.breaksLine() {
			return ast.Expr{Start: start, End: p.pos}
		}
		p.advance()
	}
}

// breaksLine: предыдущий токен может закончить выражение, текущий начинает
// инструкцию и стоит на более поздней строке.
func (p *Parser) breaksLine() bool {
	prev := p.toks[p.pos-1]
	cur := p.peek()
	if (!endsExpr(prev.Kind) && !unterminated(prev)) || !startsStmt(cur.Kind) {
		return false
	}
	return p.line(cur.Span) > p.line(prev.Span)
}

func endsExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.CharLit, token.StringLit,
		token.RParen, token.RBracket, token.RBrace, token.PlusPlus, token.MinusMinus,
		token.KwTrue, token.KwFalse, token.KwNull:
		return true
	default:
		return false
	}
}

// unterminated: литерал, оборванный переводом строки или EOF.
func unterminated(tok token.Token) bool {
	return tok.Kind == token.Invalid && tok.Text != "" && (tok.Text[0] == '"' || tok.Text[0] == '\'')
}

func startsStmt(k token.Kind) bool {
	switch k {
	case token.Ident, token.KwInt, token.KwFloat, token.KwChar, token.KwVoid,
		token.KwConst, token.KwStruct, token.KwIf, token.KwWhile, token.KwFor,
		token.KwReturn, token.KwBreak, token.KwContinue:
		return true
	default:
		return false
	}
}
