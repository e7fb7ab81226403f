package sema

import (
	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Prelude installs the SysY runtime library before traversal.
	Prelude       bool
	ExtraBuiltins []string

	WarnUnused        bool
	WarnUninitialized bool
	WarnInfiniteLoop  bool
}

// DefaultOptions enables the prelude and every warning.
func DefaultOptions() Options {
	return Options{
		Prelude:           true,
		WarnUnused:        true,
		WarnUninitialized: true,
		WarnInfiniteLoop:  true,
	}
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Table *symbols.Table
	// Refs lists every declaration site and resolved identifier in
	// detection order.
	Refs []Reference
}

// Check builds the scope tree of file and resolves every identifier in
// one top-down pass. Diagnostics go to opts.Reporter in detection order;
// the end-of-document warnings come last. Check never fails: malformed
// statements are skipped and the partial table is returned.
func Check(src *source.File, file *ast.File, opts Options) Result {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	table := symbols.NewTable(symbols.Hints{Scopes: 16, Vars: 32}, file.Span)
	if opts.Prelude {
		table.InstallPrelude(opts.ExtraBuiltins)
	}
	c := &checker{
		src:    src,
		file:   file,
		table:  table,
		scopes: symbols.NewManager(table),
		opts:   opts,
		rep:    opts.Reporter,
	}
	c.collectDeclLines()
	c.walkStmts(file.Items)
	// незакрытые блоки доживают до конца файла
	c.scopes.CloseAll(file.Span.End)
	c.finish()
	return Result{Table: table, Refs: c.refs}
}

type checker struct {
	src    *source.File
	file   *ast.File
	table  *symbols.Table
	scopes *symbols.Manager
	opts   Options
	rep    diag.Reporter

	refs   []Reference
	usages []usage
	// declLines: имя переменной -> места всех её объявлений в документе
	declLines map[string][]source.Span
	stmtStart uint32
}

// usage is a read of a variable that was not initialized yet.
type usage struct {
	Var  symbols.VarID
	Span source.Span
}

func (c *checker) line(sp source.Span) uint32 {
	return c.src.Position(sp.Start).Line
}
