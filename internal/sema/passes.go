package sema

import (
	"fmt"

	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

// collectDeclLines records where every variable name is declared, so that
// an undefined use can be told apart from a use before a later declaration.
func (c *checker) collectDeclLines() {
	c.declLines = make(map[string][]source.Span)
	add := func(id ast.StmtID) {
		vd, ok := c.file.Nodes.VarDecl(id)
		if !ok {
			return
		}
		for _, d := range vd.Decls {
			if d.Name.Valid() {
				c.declLines[d.Name.Text] = append(c.declLines[d.Name.Text], d.Name.Span)
			}
		}
	}
	c.file.Inspect(func(id ast.StmtID, st *ast.Stmt) bool {
		switch st.Kind {
		case ast.StmtVarDecl:
			add(id)
		case ast.StmtStructDecl:
			// члены структуры: не переменные
			sd, _ := c.file.Nodes.StructDecl(id)
			add(sd.Vars)
			return false
		}
		return true
	})
}

// finish runs the end-of-document passes: unused variables first, then
// reads of possibly uninitialized variables in the order they were seen.
func (c *checker) finish() {
	global := c.table.Global()
	if c.opts.WarnUnused {
		for _, id := range c.table.AllVars() {
			v := c.table.Var(id)
			if v.Used || v.IsParam || v.Scope == global {
				continue
			}
			diag.ReportWarning(c.rep, diag.StyUnusedVar, v.Span,
				fmt.Sprintf("variable '%s' declared but never used", v.Name)).Emit()
		}
	}
	if c.opts.WarnUninitialized {
		for _, u := range c.usages {
			v := c.table.Var(u.Var)
			diag.ReportWarning(c.rep, diag.StyUninitialized, u.Span,
				fmt.Sprintf("variable '%s' may be used uninitialized", v.Name)).
				WithNote(v.Span, fmt.Sprintf("declared at line %d without initializer", v.Line)).
				Emit()
		}
	}
}
