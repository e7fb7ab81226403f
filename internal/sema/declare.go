package sema

import (
	"fmt"

	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/symbols"
	"sysyplus/internal/token"
)

// declareVars handles a variable declaration statement outside struct bodies.
func (c *checker) declareVars(vd *ast.VarDeclStmt) {
	if len(vd.Decls) == 0 {
		return
	}
	c.checkStructType(vd.Type)
	skip := c.declaredNames(vd.Decls)
	for i := range vd.Decls {
		d := &vd.Decls[i]
		for _, dim := range d.Dims {
			c.resolveExpr(dim.Size, skip)
		}
		c.declareVar(vd, d)
		if d.HasInit {
			c.resolveExpr(d.Init, skip)
		}
	}
}

func (c *checker) declareVar(vd *ast.VarDeclStmt, d *ast.Declarator) {
	name := d.Name
	if !name.Present() {
		c.reportMissingName(vd)
		return
	}
	if !c.checkName(name) {
		return
	}
	scope := c.scopes.Current()
	if prev, ok := c.table.LookupLocal(scope, name.Text); ok {
		pv := c.table.Var(prev)
		diag.ReportError(c.rep, diag.DclDuplicateVar, name.Span,
			fmt.Sprintf("duplicate variable '%s' (first defined at line %d)", name.Text, pv.Line)).
			WithNote(pv.Span, "first defined here").
			Emit()
		return
	}
	if fid, ok := c.table.LookupFunc(name.Text); ok && !c.table.Func(fid).Builtin {
		fn := c.table.Func(fid)
		diag.ReportError(c.rep, diag.DclVarFuncConflict, name.Span,
			fmt.Sprintf("'%s' conflicts with function declared at line %d", name.Text, fn.Line)).
			WithNote(fn.Span, "function declared here").
			Emit()
		return
	}
	if vd.Const && !d.HasInit {
		diag.ReportError(c.rep, diag.DclConstNoInit, name.Span,
			fmt.Sprintf("constant '%s' must be initialized", name.Text)).Emit()
	}
	if vd.Type.Kind == token.KwVoid {
		diag.ReportError(c.rep, diag.DclVoidVariable, name.Span,
			fmt.Sprintf("variable '%s' cannot have type void", name.Text)).Emit()
	}
	v := symbols.Variable{
		Name:        name.Text,
		Type:        typeName(vd.Type),
		Struct:      structName(vd.Type),
		IsConst:     vd.Const,
		IsArray:     len(d.Dims) > 0,
		Dims:        c.evalDims(d.Dims),
		Span:        name.Span,
		Line:        c.line(name.Span),
		Initialized: d.HasInit,
	}
	if vd.Const && d.HasInit && !v.IsArray {
		v.Value, v.HasValue = c.evalConst(d.Init)
	}
	id := c.table.DeclareVar(scope, v)
	c.record(Reference{Name: name.Text, Span: name.Span, Kind: RefVar, Decl: true, Var: id})
}

// reportMissingName: "int = 3;" объявляет значение без имени.
func (c *checker) reportMissingName(vd *ast.VarDeclStmt) {
	diag.ReportError(c.rep, diag.DclInvalidIdent, vd.Type.Span,
		fmt.Sprintf("expected a variable name after '%s'", typeName(vd.Type))).Emit()
}

// checkName rejects keywords and malformed identifiers in name position.
func (c *checker) checkName(name ast.Name) bool {
	switch {
	case name.Valid():
		return true
	case name.Kind.IsKeyword():
		diag.ReportError(c.rep, diag.DclKeywordName, name.Span,
			fmt.Sprintf("'%s' is a keyword, cannot be used as a name", name.Text)).
			WithFix(fmt.Sprintf("rename to '%s_var'", name.Text), diag.Replace(name.Span, name.Text+"_var")).
			Emit()
	default:
		diag.ReportError(c.rep, diag.DclInvalidIdent, name.Span,
			fmt.Sprintf("invalid identifier '%s'", name.Text)).Emit()
	}
	return false
}

func (c *checker) evalDims(dims []ast.Dim) []int {
	if len(dims) == 0 {
		return nil
	}
	out := make([]int, 0, len(dims))
	for _, d := range dims {
		if d.Size.Empty() {
			out = append(out, symbols.UnknownDim)
			continue
		}
		n, ok := c.evalConst(d.Size)
		switch {
		case !ok:
			out = append(out, symbols.UnknownDim)
		case n <= 0:
			diag.ReportError(c.rep, diag.DclBadArrayDim, c.file.ExprSpan(d.Size),
				fmt.Sprintf("array dimension must be positive, got %d", n)).Emit()
			out = append(out, symbols.UnknownDim)
		default:
			out = append(out, int(n))
		}
	}
	return out
}

// checkStructType reports "struct S" types whose struct is not declared.
func (c *checker) checkStructType(t ast.TypeRef) {
	if !t.IsStruct() || t.Name == "" {
		return
	}
	if id, ok := c.table.LookupStruct(t.Name); ok {
		c.record(Reference{Name: t.Name, Span: t.NameSpan, Kind: RefStruct, Struct: id})
		return
	}
	diag.ReportError(c.rep, diag.RefUndefinedStruct, t.NameSpan,
		fmt.Sprintf("undefined struct '%s'", t.Name)).Emit()
}

func (c *checker) declareFunc(fd *ast.FuncDeclStmt) {
	name := fd.Name
	c.checkStructType(fd.Return)
	for _, p := range fd.Params {
		c.checkStructType(p.Type)
	}
	if name.Present() && c.checkName(name) {
		c.recordFunc(fd)
	}
	if !fd.Body.IsValid() {
		return
	}
	body := c.file.Nodes.Stmt(fd.Body)
	scope := c.scopes.Push(symbols.ScopeFunction, fd.Parens.Cover(body.Span))
	c.table.Scope(scope).Name = name.Text
	for i := range fd.Params {
		c.declareParam(&fd.Params[i])
	}
	c.walkAdopted(fd.Body)
	c.scopes.Pop(body.Span.End)
}

func (c *checker) recordFunc(fd *ast.FuncDeclStmt) {
	name := fd.Name
	if prev, ok := c.table.LookupFunc(name.Text); ok && !c.table.Func(prev).Builtin {
		pf := c.table.Func(prev)
		diag.ReportError(c.rep, diag.DclDuplicateFunc, name.Span,
			fmt.Sprintf("duplicate function '%s' (first defined at line %d)", name.Text, pf.Line)).
			WithNote(pf.Span, "first defined here").
			Emit()
		return
	}
	if gv, ok := c.table.LookupLocal(c.table.Global(), name.Text); ok {
		v := c.table.Var(gv)
		diag.ReportError(c.rep, diag.DclVarFuncConflict, name.Span,
			fmt.Sprintf("'%s' conflicts with variable declared at line %d", name.Text, v.Line)).
			WithNote(v.Span, "variable declared here").
			Emit()
		return
	}
	fn := symbols.Function{
		Name:       name.Text,
		ReturnType: typeName(fd.Return),
		Span:       name.Span,
		Line:       c.line(name.Span),
		HasBody:    fd.Body.IsValid(),
	}
	for _, p := range fd.Params {
		fn.Params = append(fn.Params, symbols.Param{
			Name:    p.Name.Text,
			Type:    typeName(p.Type),
			IsArray: p.IsArray,
			Span:    p.Span,
		})
	}
	id := c.table.DeclareFunc(fn)
	c.record(Reference{Name: name.Text, Span: name.Span, Kind: RefFunc, Decl: true, Func: id})
}

// declareParam materializes a parameter as an initialized variable of the
// function scope.
func (c *checker) declareParam(p *ast.Param) {
	name := p.Name
	if !name.Present() || !c.checkName(name) {
		return
	}
	scope := c.scopes.Current()
	if prev, ok := c.table.LookupLocal(scope, name.Text); ok {
		pv := c.table.Var(prev)
		diag.ReportError(c.rep, diag.DclDuplicateVar, name.Span,
			fmt.Sprintf("duplicate variable '%s' (first defined at line %d)", name.Text, pv.Line)).
			WithNote(pv.Span, "first defined here").
			Emit()
		return
	}
	for _, d := range p.Dims {
		c.resolveExpr(d.Size, nil)
	}
	id := c.table.DeclareVar(scope, symbols.Variable{
		Name:        name.Text,
		Type:        typeName(p.Type),
		Struct:      structName(p.Type),
		IsArray:     p.IsArray,
		Dims:        c.evalDims(p.Dims),
		Span:        name.Span,
		Line:        c.line(name.Span),
		Initialized: true,
		IsParam:     true,
	})
	c.record(Reference{Name: name.Text, Span: name.Span, Kind: RefVar, Decl: true, Var: id})
}

// declareStruct records a struct type. Its body pushes no scope: member
// declarations go to the struct's own list.
func (c *checker) declareStruct(sd *ast.StructDeclStmt) {
	name := sd.Name
	if !c.scopes.AtGlobal() {
		diag.ReportError(c.rep, diag.DclStructNotGlobal, name.Span,
			fmt.Sprintf("struct '%s' must be declared at global scope", name.Text)).Emit()
	}
	st := &symbols.Struct{Name: name.Text, Span: name.Span, Line: c.line(name.Span)}
	id := symbols.NoStructID
	if prev, ok := c.table.LookupStruct(name.Text); ok {
		ps := c.table.Struct(prev)
		diag.ReportError(c.rep, diag.DclDuplicateStruct, name.Span,
			fmt.Sprintf("duplicate struct '%s' (first defined at line %d)", name.Text, ps.Line)).
			WithNote(ps.Span, "first defined here").
			Emit()
	} else {
		id = c.table.DeclareStruct(*st)
		c.record(Reference{Name: name.Text, Span: name.Span, Kind: RefStruct, Decl: true, Struct: id})
	}
	for _, m := range sd.Members {
		vd, ok := c.file.Nodes.VarDecl(m)
		if !ok {
			c.walkStmt(m)
			continue
		}
		c.checkStructType(vd.Type)
		for i := range vd.Decls {
			c.declareMember(st, vd, &vd.Decls[i])
		}
	}
	if id.IsValid() {
		c.table.Struct(id).Members = st.Members
	}
	c.walkStmt(sd.Vars)
}

// declareMember appends to the working copy of the struct; members of a
// duplicate definition are checked but not kept.
func (c *checker) declareMember(st *symbols.Struct, vd *ast.VarDeclStmt, d *ast.Declarator) {
	name := d.Name
	if d.HasInit {
		c.resolveExpr(d.Init, nil)
	}
	if !name.Present() || !c.checkName(name) {
		return
	}
	if prev, ok := st.Member(name.Text); ok {
		diag.ReportError(c.rep, diag.DclDuplicateMember, name.Span,
			fmt.Sprintf("duplicate member '%s' in struct '%s' (first defined at line %d)", name.Text, st.Name, prev.Line)).
			WithNote(prev.Span, "first defined here").
			Emit()
		return
	}
	st.Members = append(st.Members, symbols.Member{
		Name: name.Text,
		Type: typeName(vd.Type),
		Span: name.Span,
		Line: c.line(name.Span),
	})
}

// declaredNames maps each declared name to its line, so that the names of
// a declaration are not resolved as references on the same line.
func (c *checker) declaredNames(decls []ast.Declarator) skipSet {
	out := make(skipSet, len(decls))
	for _, d := range decls {
		if d.Name.Present() {
			out[d.Name.Text] = c.line(d.Name.Span)
		}
	}
	return out
}

func typeName(t ast.TypeRef) string {
	if !t.Present() {
		return "int"
	}
	return t.String()
}

func structName(t ast.TypeRef) string {
	if t.IsStruct() {
		return t.Name
	}
	return ""
}
