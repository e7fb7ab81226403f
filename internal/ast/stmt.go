package ast

import (
	"sysyplus/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtVarDecl
	StmtFuncDecl
	StmtStructDecl
	StmtIf
	StmtWhile
	StmtFor
	StmtExpr
	StmtReturn
	StmtBreak
	StmtContinue
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtVarDecl:
		return "var"
	case StmtFuncDecl:
		return "func"
	case StmtStructDecl:
		return "struct"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtFor:
		return "for"
	case StmtExpr:
		return "expr"
	case StmtReturn:
		return "return"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	case StmtEmpty:
		return "empty"
	default:
		return "invalid"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts  []StmtID
	LBrace source.Span
	RBrace source.Span // пустой, если блок не закрыт
	Closed bool
}

type Declarator struct {
	Name    Name
	Dims    []Dim
	Init    Expr
	HasInit bool
	Assign  source.Span
	Span    source.Span
}

type VarDeclStmt struct {
	Const     bool
	ConstSpan source.Span
	Type      TypeRef
	Decls     []Declarator
}

type Param struct {
	Type    TypeRef
	Name    Name
	Dims    []Dim
	IsArray bool
	Span    source.Span
}

type FuncDeclStmt struct {
	Return TypeRef
	Name   Name
	Params []Param
	Body   StmtID // NoStmtID для прототипа
	Parens source.Span
}

type StructDeclStmt struct {
	Name    Name
	Members []StmtID
	LBrace  source.Span
	RBrace  source.Span
	Closed  bool
	Vars    StmtID // "struct S {...} a, b;"
}

type IfStmt struct {
	Cond Expr
	Then StmtID
	Else StmtID
}

type WhileStmt struct {
	Cond   Expr
	Body   StmtID
	Header source.Span // "while (...)"
}

type ForStmt struct {
	Init   StmtID
	Cond   Expr
	Post   Expr
	Body   StmtID
	Header source.Span // "for (...)"
	Paren  bool        // заголовок в скобках
}

type ExprStmt struct {
	Expr Expr
}

type ReturnStmt struct {
	Value Expr
}
