package ast

import (
	"sysyplus/internal/source"
)

type Hints struct{ Stmts uint }

// Builder owns the statement arena and the per-kind payload arenas.
type Builder struct {
	Stmts   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Vars    *Arena[VarDeclStmt]
	Funcs   *Arena[FuncDeclStmt]
	Structs *Arena[StructDeclStmt]
	Ifs     *Arena[IfStmt]
	Whiles  *Arena[WhileStmt]
	Fors    *Arena[ForStmt]
	Exprs   *Arena[ExprStmt]
	Returns *Arena[ReturnStmt]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	small := hints.Stmts/8 + 1
	return &Builder{
		Stmts:   NewArena[Stmt](hints.Stmts),
		Blocks:  NewArena[BlockStmt](small),
		Vars:    NewArena[VarDeclStmt](small),
		Funcs:   NewArena[FuncDeclStmt](small),
		Structs: NewArena[StructDeclStmt](small),
		Ifs:     NewArena[IfStmt](small),
		Whiles:  NewArena[WhileStmt](small),
		Fors:    NewArena[ForStmt](small),
		Exprs:   NewArena[ExprStmt](hints.Stmts),
		Returns: NewArena[ReturnStmt](small),
	}
}

func (b *Builder) newStmt(kind StmtKind, sp source.Span, payload uint32) StmtID {
	return StmtID(b.Stmts.Allocate(Stmt{Kind: kind, Span: sp, Payload: PayloadID(payload)}))
}

func (b *Builder) NewBlock(sp source.Span, blk BlockStmt) StmtID {
	return b.newStmt(StmtBlock, sp, b.Blocks.Allocate(blk))
}

func (b *Builder) NewVarDecl(sp source.Span, v VarDeclStmt) StmtID {
	return b.newStmt(StmtVarDecl, sp, b.Vars.Allocate(v))
}

func (b *Builder) NewFuncDecl(sp source.Span, f FuncDeclStmt) StmtID {
	return b.newStmt(StmtFuncDecl, sp, b.Funcs.Allocate(f))
}

func (b *Builder) NewStructDecl(sp source.Span, s StructDeclStmt) StmtID {
	return b.newStmt(StmtStructDecl, sp, b.Structs.Allocate(s))
}

func (b *Builder) NewIf(sp source.Span, s IfStmt) StmtID {
	return b.newStmt(StmtIf, sp, b.Ifs.Allocate(s))
}

func (b *Builder) NewWhile(sp source.Span, s WhileStmt) StmtID {
	return b.newStmt(StmtWhile, sp, b.Whiles.Allocate(s))
}

func (b *Builder) NewFor(sp source.Span, s ForStmt) StmtID {
	return b.newStmt(StmtFor, sp, b.Fors.Allocate(s))
}

func (b *Builder) NewExpr(sp source.Span, e ExprStmt) StmtID {
	return b.newStmt(StmtExpr, sp, b.Exprs.Allocate(e))
}

func (b *Builder) NewReturn(sp source.Span, r ReturnStmt) StmtID {
	return b.newStmt(StmtReturn, sp, b.Returns.Allocate(r))
}

// NewSimple allocates a payload-free statement (break, continue, empty).
func (b *Builder) NewSimple(kind StmtKind, sp source.Span) StmtID {
	return b.newStmt(kind, sp, 0)
}

func (b *Builder) Stmt(id StmtID) *Stmt {
	return b.Stmts.Get(uint32(id))
}

// SetSpan updates the span of an allocated statement.
func (b *Builder) SetSpan(id StmtID, sp source.Span) {
	if st := b.Stmt(id); st != nil {
		st.Span = sp
	}
}

func (b *Builder) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := b.Stmt(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (b *Builder) Block(id StmtID) (*BlockStmt, bool) {
	p, ok := b.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return b.Blocks.Get(p), true
}

func (b *Builder) VarDecl(id StmtID) (*VarDeclStmt, bool) {
	p, ok := b.payload(id, StmtVarDecl)
	if !ok {
		return nil, false
	}
	return b.Vars.Get(p), true
}

func (b *Builder) FuncDecl(id StmtID) (*FuncDeclStmt, bool) {
	p, ok := b.payload(id, StmtFuncDecl)
	if !ok {
		return nil, false
	}
	return b.Funcs.Get(p), true
}

func (b *Builder) StructDecl(id StmtID) (*StructDeclStmt, bool) {
	p, ok := b.payload(id, StmtStructDecl)
	if !ok {
		return nil, false
	}
	return b.Structs.Get(p), true
}

func (b *Builder) If(id StmtID) (*IfStmt, bool) {
	p, ok := b.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return b.Ifs.Get(p), true
}

func (b *Builder) While(id StmtID) (*WhileStmt, bool) {
	p, ok := b.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return b.Whiles.Get(p), true
}

func (b *Builder) For(id StmtID) (*ForStmt, bool) {
	p, ok := b.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return b.Fors.Get(p), true
}

func (b *Builder) ExprStmt(id StmtID) (*ExprStmt, bool) {
	p, ok := b.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return b.Exprs.Get(p), true
}

func (b *Builder) Return(id StmtID) (*ReturnStmt, bool) {
	p, ok := b.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return b.Returns.Get(p), true
}
