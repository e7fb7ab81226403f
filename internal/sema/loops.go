package sema

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// alwaysTrue matches "1", "true" and the same in redundant parentheses.
func (c *checker) alwaysTrue(e ast.Expr) bool {
	toks := c.file.ExprTokens(e)
	for len(toks) >= 3 && toks[0].Kind == token.LParen && toks[len(toks)-1].Kind == token.RParen {
		toks = toks[1 : len(toks)-1]
	}
	if len(toks) != 1 {
		return false
	}
	switch toks[0].Kind {
	case token.KwTrue:
		return true
	case token.IntLit:
		n, ok := parseIntLit(toks[0].Text)
		return ok && n != 0
	default:
		return false
	}
}

// checkInfinite warns when a loop with a constant-true condition has no
// break or return anywhere in its body.
func (c *checker) checkInfinite(header source.Span, body ast.StmtID) {
	if !c.opts.WarnInfiniteLoop || c.hasExit(body) {
		return
	}
	diag.ReportWarning(c.rep, diag.StyInfiniteLoop, header,
		"possible infinite loop: no break or return in loop body").Emit()
}

func (c *checker) hasExit(body ast.StmtID) bool {
	found := false
	c.file.Walk(body, func(_ ast.StmtID, st *ast.Stmt) bool {
		if st.Kind == ast.StmtBreak || st.Kind == ast.StmtReturn {
			found = true
		}
		return !found
	})
	return found
}
