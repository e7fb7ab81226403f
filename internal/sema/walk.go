package sema

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/symbols"
)

func (c *checker) walkStmts(ids []ast.StmtID) {
	for _, id := range ids {
		c.walkStmt(id)
	}
}

// walkStmt visits one statement in source order. Blocks push a scope; a
// for statement pushes one scope for its header and adopts the body block.
func (c *checker) walkStmt(id ast.StmtID) {
	nodes := c.file.Nodes
	st := nodes.Stmt(id)
	if st == nil {
		return
	}
	c.stmtStart = st.Span.Start
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := nodes.Block(id)
		c.scopes.Push(symbols.ScopeBlock, st.Span)
		c.walkStmts(blk.Stmts)
		c.scopes.Pop(st.Span.End)
	case ast.StmtVarDecl:
		vd, _ := nodes.VarDecl(id)
		c.declareVars(vd)
	case ast.StmtFuncDecl:
		fd, _ := nodes.FuncDecl(id)
		c.declareFunc(fd)
	case ast.StmtStructDecl:
		sd, _ := nodes.StructDecl(id)
		c.declareStruct(sd)
	case ast.StmtIf:
		s, _ := nodes.If(id)
		c.resolveExpr(s.Cond, nil)
		c.walkStmt(s.Then)
		c.walkStmt(s.Else)
	case ast.StmtWhile:
		s, _ := nodes.While(id)
		c.resolveExpr(s.Cond, nil)
		if c.alwaysTrue(s.Cond) {
			c.checkInfinite(s.Header, s.Body)
		}
		c.walkStmt(s.Body)
	case ast.StmtFor:
		s, _ := nodes.For(id)
		c.scopes.Push(symbols.ScopeBlock, st.Span)
		c.walkStmt(s.Init)
		c.resolveExpr(s.Cond, nil)
		c.resolveExpr(s.Post, nil)
		if s.Paren && (s.Cond.Empty() || c.alwaysTrue(s.Cond)) {
			c.checkInfinite(s.Header, s.Body)
		}
		c.walkAdopted(s.Body)
		c.scopes.Pop(st.Span.End)
	case ast.StmtExpr:
		s, _ := nodes.ExprStmt(id)
		c.resolveExpr(s.Expr, nil)
	case ast.StmtReturn:
		s, _ := nodes.Return(id)
		c.resolveExpr(s.Value, nil)
	}
}

// walkAdopted walks a body whose scope was already pushed by its owner.
func (c *checker) walkAdopted(id ast.StmtID) {
	if blk, ok := c.file.Nodes.Block(id); ok {
		c.walkStmts(blk.Stmts)
		return
	}
	c.walkStmt(id)
}
