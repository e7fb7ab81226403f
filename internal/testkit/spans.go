package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sysyplus/internal/ast"
	"sysyplus/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within the content and points at sf
// 2) tokens are ordered and do not overlap
// 3) every statement span is well-formed and inside file.Span
// 4) a non-empty child statement lies inside its parent
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.Start > f.Span.End || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prevEnd uint32
	for i, tok := range f.Tokens {
		if tok.Span.Start > tok.Span.End || tok.Span.End > lenContent {
			return fmt.Errorf("token %d %q has bad span %v", i, tok.Text, tok.Span)
		}
		if tok.Span.Start < prevEnd {
			return fmt.Errorf("token %d %q at %v overlaps previous token ending at %d", i, tok.Text, tok.Span, prevEnd)
		}
		prevEnd = tok.Span.End
	}

	var firstErr error
	f.Inspect(func(id ast.StmtID, st *ast.Stmt) bool {
		if firstErr != nil {
			return false
		}
		if err := checkStmt(st, f.Span, sf.ID); err != nil {
			firstErr = fmt.Errorf("stmt %d (%s): %w", id, st.Kind, err)
			return false
		}
		if st.Span.Empty() {
			return true
		}
		// потомки внутри родителя
		f.Walk(id, func(child ast.StmtID, cs *ast.Stmt) bool {
			if firstErr != nil || child == id || cs.Span.Empty() {
				return firstErr == nil
			}
			if cs.Span.Start < st.Span.Start || cs.Span.End > st.Span.End {
				firstErr = fmt.Errorf("stmt %d (%s) span %v is outside parent %d (%s) span %v",
					child, cs.Kind, cs.Span, id, st.Kind, st.Span)
				return false
			}
			return true
		})
		return firstErr == nil
	})
	return firstErr
}

func checkStmt(st *ast.Stmt, file source.Span, id source.FileID) error {
	sp := st.Span
	if sp.File != id {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, id)
	}
	if sp.Start > sp.End {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.Start < file.Start || sp.End > file.End {
		return fmt.Errorf("span %v is outside file span %v", sp, file)
	}
	return nil
}
