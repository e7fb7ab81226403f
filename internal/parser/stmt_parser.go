package parser

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/token"
)

// parseStmt разбирает одну инструкцию и всегда съедает хотя бы один токен
// (кроме EOF и '}', которые обрабатывает вызывающий).
func (p *Parser) parseStmt() ast.StmtID {
	tok := p.peek()
	switch tok.Kind {
	case token.EOF, token.RBrace:
		return ast.NoStmtID
	case token.LBrace:
		return p.parseBlock()
	case token.KwConst, token.KwInt, token.KwFloat, token.KwChar, token.KwVoid:
		return p.parseDeclaration()
	case token.KwStruct:
		if p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.LBrace {
			return p.parseStructDecl()
		}
		return p.parseDeclaration()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.Semicolon:
		p.advance()
		return p.nodes.NewSimple(ast.StmtEmpty, tok.Span)
	case token.Hash:
		return p.skipDirective()
	case token.KwElse:
		// висячий else без if
		p.advance()
		return p.nodes.NewSimple(ast.StmtEmpty, tok.Span)
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() ast.StmtID {
	start := p.pos
	lb := p.advance() // '{'
	blk := ast.BlockStmt{LBrace: lb.Span}
	for !p.atOr(token.RBrace, token.EOF) {
		if id := p.parseStmt(); id.IsValid() {
			blk.Stmts = append(blk.Stmts, id)
		}
	}
	if rb, ok := p.eat(token.RBrace); ok {
		blk.RBrace = rb.Span
		blk.Closed = true
	}
	return p.nodes.NewBlock(p.spanFrom(start), blk)
}

func (p *Parser) parseExprStmt() ast.StmtID {
	start := p.pos
	expr := p.scanExpr(scanStmt)
	if expr.Empty() {
		// мусор вроде ')' или ']': съедаем, чтобы двигаться дальше.
		// трекер уже сообщил о лишнем закрывающем, без ';' молчим
		p.advance()
		expr = ast.Expr{Start: start, End: p.pos}
		p.eat(token.Semicolon)
		return p.nodes.NewExpr(p.spanFrom(start), ast.ExprStmt{Expr: expr})
	}
	p.endStatement()
	return p.nodes.NewExpr(p.spanFrom(start), ast.ExprStmt{Expr: expr})
}

func (p *Parser) parseReturn() ast.StmtID {
	start := p.pos
	p.advance()
	value := p.scanExpr(scanStmt)
	p.endStatement()
	return p.nodes.NewReturn(p.spanFrom(start), ast.ReturnStmt{Value: value})
}

func (p *Parser) parseJump() ast.StmtID {
	start := p.pos
	kw := p.advance()
	p.endStatement()
	kind := ast.StmtBreak
	if kw.Kind == token.KwContinue {
		kind = ast.StmtContinue
	}
	return p.nodes.NewSimple(kind, p.spanFrom(start))
}

// skipDirective пропускает строку препроцессора (#include ...).
func (p *Parser) skipDirective() ast.StmtID {
	start := p.pos
	hash := p.advance()
	line := p.line(hash.Span)
	for !p.at(token.EOF) && p.line(p.peek().Span) == line {
		p.advance()
	}
	return p.nodes.NewSimple(ast.StmtEmpty, p.spanFrom(start))
}

// endStatement съедает ';'. Если его нет, а дальше новая строка, '}' или EOF,
// выдаёт предупреждение с исправлением. Мусор на той же строке не трогается.
func (p *Parser) endStatement() {
	if _, ok := p.eat(token.Semicolon); ok {
		return
	}
	if !p.opts.WarnMissingSemicolon || p.inHeader > 0 || p.pos == 0 {
		return
	}
	if unterminated(p.toks[p.pos-1]) {
		// о литерале уже сообщил трекер
		return
	}
	last := p.prevSpan()
	next := p.peek()
	if next.Kind != token.EOF && next.Kind != token.RBrace && p.line(next.Span) == p.line(last) {
		return
	}
	diag.ReportWarning(p.opts.Reporter, diag.StyMissingSemicolon, last, "missing semicolon ';'").
		WithFix("insert ';'", diag.InsertAt(last.File, last.End, ";")).
		Emit()
}
