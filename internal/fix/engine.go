package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeAll  ApplyMode = iota // every fix that does not conflict
	ApplyModeOnce                  // первый по позиции
	ApplyModeCode                  // only fixes of diagnostics with Code
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
	Code string // "STY5004"
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Line      uint32
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Code   diag.Code
	Reason string
}

// ApplyResult is the rewritten content plus what was applied and skipped.
type ApplyResult struct {
	Content []byte
	Applied []AppliedFix
	Skipped []SkippedFix
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply selects fixes of diagnostics that target file and applies them to a
// copy of its content. All edits refer to the original text: they are
// checked for overlap first and spliced back to front, so earlier offsets
// stay valid. file itself is not modified.
func Apply(file *source.File, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{Content: file.Content}

	candidates := gatherCandidates(file.ID, diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)
	selected := selectCandidates(candidates, opts)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	var accepted []diag.FixEdit
	for _, cand := range selected {
		reason := checkEdits(file, accepted, cand.fix.Edits)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Code: cand.diag.Code, Reason: reason})
			continue
		}
		accepted = append(accepted, cand.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Line:      file.Position(cand.diag.Primary.Start).Line,
			EditCount: len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	result.Content = splice(file.Content, accepted)
	return result, nil
}

// gatherCandidates keeps fixes whose edits all target file, in detection order.
func gatherCandidates(file source.FileID, diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0)
	order := 0
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 || !allInFile(file, f.Edits) {
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands
}

func allInFile(file source.FileID, edits []diag.FixEdit) bool {
	for _, e := range edits {
		if e.Span.File != file {
			return false
		}
	}
	return true
}

// sortCandidates orders by primary span, then by detection order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) []candidate {
	switch opts.Mode {
	case ApplyModeOnce:
		return candidates[:1]
	case ApplyModeCode:
		out := make([]candidate, 0, len(candidates))
		for _, c := range candidates {
			if c.diag.Code.ID() == opts.Code {
				out = append(out, c)
			}
		}
		return out
	default:
		return candidates
	}
}

// checkEdits returns a skip reason, or "" when edits can join accepted.
func checkEdits(file *source.File, accepted, edits []diag.FixEdit) string {
	for i, e := range edits {
		if int(e.Span.End) > len(file.Content) || e.Span.End < e.Span.Start {
			return "edit span out of range"
		}
		for _, prev := range accepted {
			if prev == e {
				// одна и та же вставка от двух диагностик ("int y;" дважды)
				return "duplicate of an applied edit"
			}
			if spansConflict(prev, e) {
				return fmt.Sprintf("conflicts with an applied edit at offset %d", prev.Span.Start)
			}
		}
		for _, other := range edits[:i] {
			if spansConflict(other, e) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is within that span (Start < pos < End).
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// splice applies non-overlapping edits from the last to the first.
// Insertions at one offset keep their relative order.
func splice(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	out := append([]byte(nil), content...)
	// вставки в одну точку идут в обратном порядке, чтобы первая оказалась левее
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Span.Start == sorted[i].Span.Start {
			j++
		}
		group := sorted[i:j]
		for k := len(group) - 1; k >= 0; k-- {
			e := group[k]
			tail := append([]byte(nil), out[e.Span.End:]...)
			out = append(append(out[:e.Span.Start], e.NewText...), tail...)
		}
		i = j
	}
	return out
}

// WriteFile replaces path with content, keeping the file mode.
func WriteFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
