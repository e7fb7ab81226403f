package sema

import (
	"fmt"
	"strings"

	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
	"sysyplus/internal/token"
)

// skipSet: имя -> строка, на которой оно объявлено в текущей инструкции.
type skipSet map[string]uint32

// resolveExpr walks the tokens of e left to right and checks every
// identifier against the current scope chain. Plain assignments mark their
// targets initialized only after the whole expression is read, so that
// "x = x + 1" still sees the old state of x.
func (c *checker) resolveExpr(e ast.Expr, skip skipSet) {
	toks := c.file.ExprTokens(e)
	if len(toks) == 0 {
		return
	}
	var assigned []symbols.VarID
	for i, tok := range toks {
		switch tok.Kind {
		case token.Invalid:
			c.checkMalformed(tok)
			continue
		case token.Ident:
		default:
			continue
		}
		if line, ok := skip[tok.Text]; ok && c.line(tok.Span) == line {
			continue
		}
		prev := kindAt(toks, i-1)
		if prev == token.Dot || prev == token.Arrow {
			c.checkMember(toks, i)
			continue
		}
		if prev == token.KwStruct {
			c.checkStructType(ast.TypeRef{Kind: token.KwStruct, Name: tok.Text, NameSpan: tok.Span})
			continue
		}
		if id, ok := c.table.LookupVar(c.scopes.Current(), tok.Text); ok {
			if c.useVar(toks, i, id) {
				assigned = append(assigned, id)
			}
			continue
		}
		if fid, ok := c.table.LookupFunc(tok.Text); ok {
			c.record(Reference{Name: tok.Text, Span: tok.Span, Kind: RefFunc, Func: fid})
			continue
		}
		switch kindAt(toks, i+1) {
		case token.LParen:
			diag.ReportError(c.rep, diag.RefUndefinedFunc, tok.Span,
				fmt.Sprintf("undefined function '%s'", tok.Text)).Emit()
		case token.LBracket:
			diag.ReportError(c.rep, diag.RefArrayUndefined, tok.Span,
				fmt.Sprintf("array '%s' is not defined", tok.Text)).Emit()
		default:
			c.reportUndefined(tok)
		}
	}
	for _, id := range assigned {
		c.table.Var(id).Initialized = true
	}
}

// useVar records a resolved occurrence of a variable and validates how it is
// used. It returns true for the target of any assignment; a compound
// assignment also reads the old value.
func (c *checker) useVar(toks []token.Token, i int, id symbols.VarID) bool {
	v := c.table.Var(id)
	v.Used = true
	tok := toks[i]
	c.record(Reference{Name: tok.Text, Span: tok.Span, Kind: RefVar, Var: id})

	if kindAt(toks, i+1) == token.LBracket {
		c.checkSubscript(toks, i, v)
	}
	j := skipPostfix(toks, i+1)
	op := kindAt(toks, j)
	switch {
	case (token.Token{Kind: op}).IsAssignOp():
		if isExprEnd(kindAt(toks, j+1)) {
			diag.ReportError(c.rep, diag.RefEmptyAssign, toks[j].Span,
				fmt.Sprintf("missing value after '%s'", toks[j].Text)).Emit()
		}
		if v.IsConst {
			diag.ReportError(c.rep, diag.RefAssignConst, tok.Span,
				fmt.Sprintf("cannot assign to const '%s'", tok.Text)).Emit()
			return false
		}
		if op != token.Assign {
			c.noteRead(id, tok.Span)
		}
		return true
	case op == token.PlusPlus || op == token.MinusMinus,
		kindAt(toks, i-1) == token.PlusPlus || kindAt(toks, i-1) == token.MinusMinus:
		if v.IsConst {
			diag.ReportError(c.rep, diag.RefAssignConst, tok.Span,
				fmt.Sprintf("cannot assign to const '%s'", tok.Text)).Emit()
		}
	}
	c.noteRead(id, tok.Span)
	return false
}

// noteRead remembers reads of locals that have not been initialized on an
// earlier line. Globals, parameters, arrays and struct values are exempt.
func (c *checker) noteRead(id symbols.VarID, sp source.Span) {
	v := c.table.Var(id)
	if v.Initialized || v.IsParam || v.IsArray || v.Struct != "" || v.Scope == c.table.Global() {
		return
	}
	if c.line(sp) <= v.Line {
		return
	}
	c.usages = append(c.usages, usage{Var: id, Span: sp})
}

// checkSubscript validates "name[...]" for a resolved variable. Only a
// literal index (optionally negated) is checked against the first dimension.
func (c *checker) checkSubscript(toks []token.Token, i int, v *symbols.Variable) {
	name := toks[i]
	if !v.IsArray {
		diag.ReportError(c.rep, diag.RefNotArray, name.Span,
			fmt.Sprintf("'%s' is not an array", name.Text)).Emit()
		return
	}
	end := matchBracket(toks, i+1)
	if end < 0 || len(v.Dims) == 0 || v.Dims[0] == symbols.UnknownDim {
		return
	}
	index := toks[i+2 : end]
	neg := false
	if len(index) == 2 && index[0].Kind == token.Minus {
		neg = true
		index = index[1:]
	}
	if len(index) != 1 || index[0].Kind != token.IntLit {
		return
	}
	n, ok := parseIntLit(index[0].Text)
	if !ok {
		return
	}
	if neg {
		n = -n
	}
	size := int64(v.Dims[0])
	if n >= 0 && n < size {
		return
	}
	sp := toks[i+2].Span.Cover(toks[end-1].Span)
	diag.ReportError(c.rep, diag.RefIndexOutOfRange, sp,
		fmt.Sprintf("array index %d out of range for '%s': valid range [0, %d]", n, name.Text, size-1)).Emit()
}

// checkMember validates "base.m" / "base->m" when base is a variable of a known struct type.
func (c *checker) checkMember(toks []token.Token, i int) {
	if i < 2 || toks[i-2].Kind != token.Ident {
		return
	}
	base, ok := c.table.LookupVar(c.scopes.Current(), toks[i-2].Text)
	if !ok {
		return
	}
	v := c.table.Var(base)
	if v.Struct == "" {
		return
	}
	sid, ok := c.table.LookupStruct(v.Struct)
	if !ok {
		return
	}
	member := toks[i]
	if _, found := c.table.Struct(sid).Member(member.Text); !found {
		diag.ReportError(c.rep, diag.RefNoMember, member.Span,
			fmt.Sprintf("struct '%s' has no member '%s'", v.Struct, member.Text)).Emit()
		return
	}
	c.record(Reference{Name: member.Text, Span: member.Span, Kind: RefMember, Struct: sid, Member: member.Text})
}

func (c *checker) reportUndefined(tok token.Token) {
	line := c.line(tok.Span)
	for _, sp := range c.declLines[tok.Text] {
		if c.line(sp) > line {
			diag.ReportError(c.rep, diag.RefUsedBeforeDecl, tok.Span,
				fmt.Sprintf("'%s' used before declaration", tok.Text)).
				WithNote(sp, fmt.Sprintf("declared later at line %d", c.line(sp))).
				Emit()
			return
		}
	}
	at, indent := c.stmtLineStart()
	diag.ReportError(c.rep, diag.RefUndefinedIdent, tok.Span,
		fmt.Sprintf("undefined identifier '%s'", tok.Text)).
		WithFix(fmt.Sprintf("declare '%s' as int", tok.Text),
			diag.InsertAt(tok.Span.File, at, indent+"int "+tok.Text+";\n")).
		Emit()
}

// stmtLineStart returns the start of the line holding the current statement
// and that line's indentation.
func (c *checker) stmtLineStart() (uint32, string) {
	pos := c.src.Position(c.stmtStart)
	start := c.src.Offset(source.LineCol{Line: pos.Line, Col: 1})
	text := c.src.GetLine(pos.Line)
	indent := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
	return start, indent
}

// checkMalformed reports number-like Invalid tokens such as "9abc". Other
// Invalid tokens were already reported by the tracker.
func (c *checker) checkMalformed(tok token.Token) {
	t := tok.Text
	if t == "" {
		return
	}
	if isDigit(t[0]) || (t[0] == '.' && len(t) > 1 && isDigit(t[1])) {
		diag.ReportError(c.rep, diag.LexBadNumber, tok.Span,
			fmt.Sprintf("malformed number literal '%s'", t)).Emit()
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func kindAt(toks []token.Token, i int) token.Kind {
	if i < 0 || i >= len(toks) {
		return token.EOF
	}
	return toks[i].Kind
}

// isExprEnd: после оператора присваивания нет значения.
func isExprEnd(k token.Kind) bool {
	switch k {
	case token.EOF, token.Semicolon, token.Comma, token.RParen, token.RBracket, token.RBrace:
		return true
	default:
		return false
	}
}

// skipPostfix steps over "[...]" subscripts and ".m" / "->m" selectors.
func skipPostfix(toks []token.Token, j int) int {
	for j < len(toks) {
		switch toks[j].Kind {
		case token.LBracket:
			end := matchBracket(toks, j)
			if end < 0 {
				return len(toks)
			}
			j = end + 1
		case token.Dot, token.Arrow:
			if kindAt(toks, j+1) != token.Ident {
				return j
			}
			j += 2
		default:
			return j
		}
	}
	return j
}

// matchBracket returns the index of the ']' closing toks[open], or -1.
func matchBracket(toks []token.Token, open int) int {
	depth := 0
	for k := open; k < len(toks); k++ {
		switch toks[k].Kind {
		case token.LBracket:
			depth++
		case token.RBracket:
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}
