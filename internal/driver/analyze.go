package driver

import (
	"context"
	"fmt"
	"os"

	"sysyplus/internal/ast"
	"sysyplus/internal/diag"
	"sysyplus/internal/lexer"
	"sysyplus/internal/observ"
	"sysyplus/internal/parser"
	"sysyplus/internal/sema"
	"sysyplus/internal/source"
	"sysyplus/internal/symbols"
	"sysyplus/internal/token"
	"sysyplus/internal/trace"
)

// Result is everything one analysis produced for one document.
type Result struct {
	// Generation is the request sequence the caller tagged the analysis
	// with; 0 for one-shot runs.
	Generation uint64
	FileSet    *source.FileSet
	File       *source.File
	Tracker    *lexer.Tracker
	AST        *ast.File
	Bag        *diag.Bag
	Table      *symbols.Table
	Refs       []sema.Reference
	Timing     *observ.Report
	// Canceled is set when ctx ended before sema; later fields are nil.
	Canceled bool
}

// Diagnostic is a diagnostic with resolved positions. Lines and columns
// are 1-based, columns count bytes, End is exclusive.
type Diagnostic struct {
	Severity  diag.Severity
	Code      diag.Code
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Message   string
}

// Diagnostics resolves the bag in detection order.
func (r *Result) Diagnostics() []Diagnostic {
	if r == nil || r.Bag == nil {
		return nil
	}
	items := r.Bag.Items()
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		start := r.File.Position(d.Primary.Start)
		end := r.File.Position(d.Primary.End)
		out = append(out, Diagnostic{
			Severity:  d.Severity,
			Code:      d.Code,
			StartLine: start.Line,
			StartCol:  start.Col,
			EndLine:   end.Line,
			EndCol:    end.Col,
			Message:   d.Message,
		})
	}
	return out
}

// Tokens returns the significant tokens, EOF last. READONLY.
func (r *Result) Tokens() []token.Token {
	if r == nil || r.AST == nil {
		return nil
	}
	return r.AST.Tokens
}

// Sema exposes the table and references for presentation queries.
func (r *Result) Sema() sema.Result {
	return sema.Result{Table: r.Table, Refs: r.Refs}
}

// Analyze runs the engine over text in a fresh FileSet. It is a pure
// function of text and cfg.
func Analyze(text string, cfg Config) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(text))
	return AnalyzeFile(context.Background(), fs, id, cfg)
}

// AnalyzePath loads path into a new FileSet and analyzes it.
func AnalyzePath(ctx context.Context, path string, cfg Config) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return AnalyzeFile(ctx, fs, id, cfg), nil
}

// AnalyzeFile runs tracker, lexer, parser and checker over one file of fs.
// fs is only read, so distinct files may be analyzed concurrently.
func AnalyzeFile(ctx context.Context, fs *source.FileSet, id source.FileID, cfg Config) *Result {
	file := fs.Get(id)
	ctx, fileSpan := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)

	var timer *observ.Timer
	if cfg.Timings {
		timer = observ.NewTimer()
	}
	bag := diag.NewBag(cfg.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	res := &Result{FileSet: fs, File: file, Bag: bag}

	finish := func(detail string) *Result {
		applyFilters(bag, cfg)
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
		}
		fileSpan.WithExtra("diags", fmt.Sprint(bag.Len())).End(detail)
		return res
	}

	end := beginPhase(ctx, timer, "track")
	res.Tracker = lexer.Track(file, rep)
	end(fmt.Sprintf("regions=%d", len(res.Tracker.Regions())))

	end = beginPhase(ctx, timer, "lex")
	toks := lexer.Tokenize(file, res.Tracker, lexer.Options{Keywords: cfg.keywords()})
	end(fmt.Sprintf("tokens=%d", len(toks)))
	if ctx.Err() != nil {
		res.Canceled = true
		return finish("canceled")
	}

	end = beginPhase(ctx, timer, "parse")
	res.AST = parser.ParseFile(file, toks, parser.Options{
		Reporter:             rep,
		WarnMissingSemicolon: cfg.WarnMissingSemicolon,
	})
	end(fmt.Sprintf("items=%d", len(res.AST.Items)))
	if ctx.Err() != nil {
		res.Canceled = true
		return finish("canceled")
	}

	end = beginPhase(ctx, timer, "sema")
	sr := sema.Check(file, res.AST, sema.Options{
		Reporter:          rep,
		Prelude:           cfg.Prelude,
		ExtraBuiltins:     cfg.ExtraBuiltins,
		WarnUnused:        cfg.WarnUnused,
		WarnUninitialized: cfg.WarnUninitialized,
		WarnInfiniteLoop:  cfg.WarnInfiniteLoop,
	})
	res.Table, res.Refs = sr.Table, sr.Refs
	vars, funcs, _ := sr.Table.Counts()
	end(fmt.Sprintf("scopes=%d vars=%d funcs=%d", sr.Table.Scopes.Len(), vars, funcs))

	// отладочная проверка арен, включается переменной окружения
	if os.Getenv("SYSY_VALIDATE") != "" {
		if err := sr.Table.Validate(); err != nil {
			panic(fmt.Errorf("scope tree invariant: %w", err))
		}
	}
	return finish("")
}

// beginPhase opens a pass span and a timer phase; the returned func closes both.
func beginPhase(ctx context.Context, timer *observ.Timer, name string) func(note string) {
	_, span := trace.Start(ctx, trace.ScopePass, name)
	idx := timer.Begin(name)
	return func(note string) {
		timer.End(idx, note)
		span.End(note)
	}
}

// applyFilters drops or promotes warnings in place. Order is preserved.
func applyFilters(bag *diag.Bag, cfg Config) {
	if cfg.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity >= diag.SevError
		})
	}
	if cfg.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
}
