package ast

import (
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// File is the statement tree of one document.
type File struct {
	Source source.FileID
	Span   source.Span
	Tokens []token.Token // последний всегда EOF
	Items  []StmtID
	Nodes  *Builder
}

// Tok returns the token at index i, or the trailing EOF when out of range.
func (f *File) Tok(i uint32) token.Token {
	if int(i) >= len(f.Tokens) {
		return f.Tokens[len(f.Tokens)-1]
	}
	return f.Tokens[i]
}

// ExprTokens returns the tokens of an expression range. READONLY.
func (f *File) ExprTokens(e Expr) []token.Token {
	if e.Empty() || int(e.End) > len(f.Tokens) {
		return nil
	}
	return f.Tokens[e.Start:e.End]
}

// ExprSpan covers all tokens of e; empty ranges yield an empty span.
func (f *File) ExprSpan(e Expr) source.Span {
	toks := f.ExprTokens(e)
	if len(toks) == 0 {
		return source.Span{File: f.Source}
	}
	return toks[0].Span.Cover(toks[len(toks)-1].Span)
}

// Inspect walks statements depth-first in source order. Returning false from
// fn skips the children of that statement.
func (f *File) Inspect(fn func(id StmtID, st *Stmt) bool) {
	for _, id := range f.Items {
		f.inspect(id, fn)
	}
}

// Walk is Inspect rooted at a single statement.
func (f *File) Walk(id StmtID, fn func(id StmtID, st *Stmt) bool) {
	f.inspect(id, fn)
}

func (f *File) inspect(id StmtID, fn func(StmtID, *Stmt) bool) {
	st := f.Nodes.Stmt(id)
	if st == nil || !fn(id, st) {
		return
	}
	b := f.Nodes
	switch st.Kind {
	case StmtBlock:
		blk, _ := b.Block(id)
		for _, child := range blk.Stmts {
			f.inspect(child, fn)
		}
	case StmtFuncDecl:
		fd, _ := b.FuncDecl(id)
		f.inspect(fd.Body, fn)
	case StmtStructDecl:
		sd, _ := b.StructDecl(id)
		for _, m := range sd.Members {
			f.inspect(m, fn)
		}
		f.inspect(sd.Vars, fn)
	case StmtIf:
		is, _ := b.If(id)
		f.inspect(is.Then, fn)
		f.inspect(is.Else, fn)
	case StmtWhile:
		ws, _ := b.While(id)
		f.inspect(ws.Body, fn)
	case StmtFor:
		fs, _ := b.For(id)
		f.inspect(fs.Init, fn)
		f.inspect(fs.Body, fn)
	}
}
