package fuzztests

import (
	"testing"

	"sysyplus/internal/diag"
	"sysyplus/internal/lexer"
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

func FuzzTrackerAndLexer(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sy", clampInput(input)))

		bag := diag.NewBag(64)
		tr := lexer.Track(file, diag.BagReporter{Bag: bag})
		toks := lexer.Tokenize(file, tr, lexer.Options{})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}
		var prev uint32
		for _, r := range tr.Regions() {
			if r.Span.Start < prev || r.Span.End > uint32(len(file.Content)) { // #nosec G115 -- clamped input
				t.Fatalf("region %v out of order or range", r.Span)
			}
			prev = r.Span.End
		}
		if tr.Balanced() != (len(tr.Pending()) == 0 && len(tr.ExtraClosers()) == 0) {
			t.Fatalf("Balanced disagrees with Pending/ExtraClosers")
		}
	})
}
