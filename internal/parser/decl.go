package parser

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// parseDeclaration handles "[const] type declarators ;" and function
// definitions or prototypes "type name ( params ) body|;".
func (p *Parser) parseDeclaration() ast.StmtID {
	start := p.pos
	decl := ast.VarDeclStmt{}
	if tok, ok := p.eat(token.KwConst); ok {
		decl.Const = true
		decl.ConstSpan = tok.Span
	}
	decl.Type = p.parseType()

	mark := p.pos
	name := p.parseName()
	if !decl.Const && name.Present() && p.at(token.LParen) {
		return p.parseFunc(start, decl.Type, name)
	}
	p.pos = mark
	return p.parseDeclarators(start, decl)
}

// parseType reads a primitive keyword or "struct Name". A missing type
// yields a TypeRef with Kind Invalid and consumes nothing.
func (p *Parser) parseType() ast.TypeRef {
	tok := p.peek()
	switch tok.Kind {
	case token.KwInt, token.KwFloat, token.KwChar, token.KwVoid:
		p.advance()
		return ast.TypeRef{Kind: tok.Kind, Span: tok.Span}
	case token.KwStruct:
		p.advance()
		ref := ast.TypeRef{Kind: token.KwStruct, Span: tok.Span}
		if name, ok := p.eat(token.Ident); ok {
			ref.Name = name.Text
			ref.NameSpan = name.Span
			ref.Span = tok.Span.Cover(name.Span)
		}
		return ref
	default:
		return ast.TypeRef{Span: source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start}}
	}
}

// parseName reads a declared name. A keyword standing where a name must be
// ("int if;") and malformed identifiers like "2x" are accepted so that the
// checker can report them; a leading '*' is skipped.
func (p *Parser) parseName() ast.Name {
	for p.at(token.Star) {
		p.advance()
	}
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
	case tok.IsKeyword() && nameFollower(p.peekN(1).Kind):
	case tok.Kind == token.IntLit || tok.Kind == token.FloatLit || tok.Kind == token.Invalid:
	default:
		return ast.Name{Span: source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start}}
	}
	idx := p.pos
	p.advance()
	return ast.Name{Text: tok.Text, Span: tok.Span, Kind: tok.Kind, Tok: idx}
}

func nameFollower(k token.Kind) bool {
	switch k {
	case token.Semicolon, token.Assign, token.LBracket, token.Comma, token.LParen, token.RParen:
		return true
	default:
		return false
	}
}

// parseDeclarators: "a, b[3] = {...}, c = 1" и завершающая ';'.
func (p *Parser) parseDeclarators(start uint32, decl ast.VarDeclStmt) ast.StmtID {
	for {
		d, ok := p.parseDeclarator()
		if ok {
			decl.Decls = append(decl.Decls, d)
		}
		if _, more := p.eat(token.Comma); !more {
			break
		}
	}
	p.endStatement()
	return p.nodes.NewVarDecl(p.spanFrom(start), decl)
}

func (p *Parser) parseDeclarator() (ast.Declarator, bool) {
	start := p.pos
	d := ast.Declarator{Name: p.parseName()}
	d.Dims = p.parseDims()
	if tok, ok := p.eat(token.Assign); ok {
		d.HasInit = true
		d.Assign = tok.Span
		d.Init = p.scanExpr(scanInit)
	}
	d.Span = p.spanFrom(start)
	return d, p.pos > start
}

func (p *Parser) parseDims() []ast.Dim {
	var dims []ast.Dim
	for p.at(token.LBracket) {
		start := p.pos
		p.advance()
		size := p.scanExpr(scanDim)
		p.eat(token.RBracket)
		dims = append(dims, ast.Dim{Size: size, Span: p.spanFrom(start)})
	}
	return dims
}

func (p *Parser) parseFunc(start uint32, ret ast.TypeRef, name ast.Name) ast.StmtID {
	fn := ast.FuncDeclStmt{Return: ret, Name: name}
	lp := p.advance() // '('
	fn.Params = p.parseParams()
	p.eat(token.RParen)
	fn.Parens = lp.Span.Cover(p.prevSpan())
	switch {
	case p.at(token.LBrace):
		fn.Body = p.parseBlock()
	case p.at(token.Semicolon):
		p.advance()
	default:
		p.endStatement()
	}
	return p.nodes.NewFuncDecl(p.spanFrom(start), fn)
}

// parseParams reads the list up to ')'. "(void)" is an empty list.
func (p *Parser) parseParams() []ast.Param {
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
		return nil
	}
	var params []ast.Param
	for !p.atOr(token.RParen, token.LBrace, token.Semicolon, token.EOF) {
		start := p.pos
		p.eat(token.KwConst)
		param := ast.Param{Type: p.parseType(), Name: p.parseName()}
		param.Dims = p.parseDims()
		param.IsArray = len(param.Dims) > 0
		if p.pos == start {
			p.advance() // мусор в списке параметров
			continue
		}
		param.Span = p.spanFrom(start)
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok && !p.at(token.RParen) {
			if p.atOr(token.LBrace, token.Semicolon, token.EOF) {
				break
			}
			p.advance()
		}
	}
	return params
}

// parseStructDecl: "struct Name { members } [declarators] ;".
func (p *Parser) parseStructDecl() ast.StmtID {
	start := p.pos
	kw := p.advance() // struct
	nameTok := p.advance()
	st := ast.StructDeclStmt{
		Name: ast.Name{Text: nameTok.Text, Span: nameTok.Span, Kind: nameTok.Kind, Tok: start + 1},
	}
	lb := p.advance() // '{'
	st.LBrace = lb.Span
	for !p.atOr(token.RBrace, token.EOF) {
		if id := p.parseStmt(); id.IsValid() {
			st.Members = append(st.Members, id)
		}
	}
	if rb, ok := p.eat(token.RBrace); ok {
		st.RBrace = rb.Span
		st.Closed = true
	}
	if p.at(token.Ident) || p.at(token.Star) {
		// за телом сразу идут переменные этого типа
		typ := ast.TypeRef{Kind: token.KwStruct, Name: nameTok.Text, NameSpan: nameTok.Span, Span: kw.Span.Cover(nameTok.Span)}
		st.Vars = p.parseDeclarators(p.pos, ast.VarDeclStmt{Type: typ})
	} else {
		p.endStatement()
	}
	return p.nodes.NewStructDecl(p.spanFrom(start), st)
}
