package parser

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/token"
)

func (p *Parser) parseIf() ast.StmtID {
	start := p.pos
	p.advance() // if
	cond := p.parseCondition()
	st := ast.IfStmt{Cond: cond}
	st.Then = p.parseBody()
	if _, ok := p.eat(token.KwElse); ok {
		st.Else = p.parseBody()
	}
	return p.nodes.NewIf(p.spanFrom(start), st)
}

func (p *Parser) parseWhile() ast.StmtID {
	start := p.pos
	p.advance() // while
	cond := p.parseCondition()
	st := ast.WhileStmt{Cond: cond, Header: p.spanFrom(start)}
	st.Body = p.parseBody()
	return p.nodes.NewWhile(p.spanFrom(start), st)
}

// parseFor: for ( init ; cond ; post ) body.
// init может быть объявлением: "for (int i = 0; ...)".
func (p *Parser) parseFor() ast.StmtID {
	start := p.pos
	p.advance() // for
	st := ast.ForStmt{}
	if _, ok := p.eat(token.LParen); ok {
		st.Paren = true
		p.inHeader++
		switch {
		case p.at(token.Semicolon):
			p.advance()
		case p.atDeclStart():
			st.Init = p.parseDeclaration()
		default:
			initStart := p.pos
			e := p.scanExpr(scanGroup)
			if !e.Empty() {
				st.Init = p.nodes.NewExpr(p.spanFrom(initStart), ast.ExprStmt{Expr: e})
			}
			p.eat(token.Semicolon)
		}
		st.Cond = p.scanExpr(scanGroup)
		p.eat(token.Semicolon)
		st.Post = p.scanExpr(scanGroup)
		p.eat(token.RParen)
		p.inHeader--
	}
	st.Header = p.spanFrom(start)
	st.Body = p.parseBody()
	return p.nodes.NewFor(p.spanFrom(start), st)
}

// parseCondition reads "( expr )". Without '(' the condition runs up to the
// body; a missing ')' is left to the tracker.
func (p *Parser) parseCondition() ast.Expr {
	if _, ok := p.eat(token.LParen); !ok {
		return p.scanExpr(scanGroup)
	}
	cond := p.scanExpr(scanGroup)
	p.eat(token.RParen)
	return cond
}

// parseBody: тело if/while/for; пусто, если дальше '}' или EOF.
func (p *Parser) parseBody() ast.StmtID {
	if p.atOr(token.RBrace, token.EOF) {
		return ast.NoStmtID
	}
	return p.parseStmt()
}

func (p *Parser) atDeclStart() bool {
	switch p.peek().Kind {
	case token.KwConst, token.KwInt, token.KwFloat, token.KwChar, token.KwVoid, token.KwStruct:
		return true
	default:
		return false
	}
}
