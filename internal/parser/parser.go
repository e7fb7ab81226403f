package parser

import (
	"slices"

	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	// WarnMissingSemicolon enables the missing-terminator heuristic.
	WarnMissingSemicolon bool
}

// Parser: состояние парсера на один файл
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      uint32
	nodes    *ast.Builder
	opts     Options
	inHeader int // >0 внутри заголовка for(...): там ';' не проверяем
}

// ParseFile: входная точка для разбора одного файла. toks must end with EOF.
// Parsing never fails: unknown constructs become expression statements and
// delimiter errors are left to the tracker.
func ParseFile(file *source.File, toks []token.Token, opts Options) *ast.File {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := uint32(len(file.Content)) // #nosec G115 -- file size fits FileSet limits
		toks = append(slices.Clip(toks), token.Token{Kind: token.EOF, Span: source.Span{File: file.ID, Start: end, End: end}})
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	p := &Parser{
		file:  file,
		toks:  toks,
		nodes: ast.NewBuilder(ast.Hints{Stmts: uint(len(toks)/4 + 1)}),
		opts:  opts,
	}
	out := &ast.File{
		Source: file.ID,
		Tokens: toks,
		Nodes:  p.nodes,
	}
	out.Items = p.parseItems()
	out.Span = source.Span{File: file.ID, Start: 0, End: toks[len(toks)-1].Span.End}
	return out
}

// parseItems: основной цикл верхнего уровня: пока не EOF: parseStmt.
// Лишняя '}' на верхнем уровне пропускается: трекер о ней уже сообщил.
func (p *Parser) parseItems() []ast.StmtID {
	items := make([]ast.StmtID, 0, 16)
	for !p.at(token.EOF) {
		if p.at(token.RBrace) {
			p.advance()
			continue
		}
		if id := p.parseStmt(); id.IsValid() {
			items = append(items, id)
		}
	}
	return items
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekN(n uint32) token.Token {
	i := p.pos + n
	if int(i) >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает текущий токен; EOF не съедается никогда.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// prevSpan returns the span of the last consumed token.
func (p *Parser) prevSpan() source.Span {
	if p.pos == 0 {
		return source.Span{File: p.file.ID}
	}
	return p.toks[p.pos-1].Span
}

func (p *Parser) spanFrom(start uint32) source.Span {
	first := p.toks[start].Span
	if p.pos <= start {
		return source.Span{File: first.File, Start: first.Start, End: first.Start}
	}
	return first.Cover(p.prevSpan())
}

func (p *Parser) line(sp source.Span) uint32 {
	return p.file.Position(sp.Start).Line
}
