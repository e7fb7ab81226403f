package fuzztests

import (
	"testing"
	"time"

	"sysyplus/internal/driver"
	"sysyplus/internal/testkit"
)

// analyzeTimeout is the maximum time allowed for one input; longer means
// a recovery loop that does not progress.
const analyzeTimeout = 5 * time.Second

func FuzzAnalyze(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("int main() { int x = 1\nint y = 2; }"))
	f.Add([]byte("for (;;"))
	f.Add([]byte("struct"))
	f.Add([]byte("}}}"))

	cfg := driver.DefaultConfig()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan *driver.Result, 1)
		go func() {
			done <- driver.Analyze(string(input), cfg)
		}()

		var res *driver.Result
		select {
		case res = <-done:
		case <-time.After(analyzeTimeout):
			t.Fatalf("analysis hang detected after %v\ninput (%d bytes): %q",
				analyzeTimeout, len(input), truncateForLog(input, 200))
		}

		if err := testkit.CheckSpanInvariants(res.AST, res.File); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		size := uint32(len(res.File.Content)) // #nosec G115 -- clamped input
		for _, d := range res.Bag.Items() {
			if d.Primary.Start > d.Primary.End || d.Primary.End > size {
				t.Fatalf("%s span %v outside document of %d bytes", d.Code.ID(), d.Primary, size)
			}
		}
		if res.Table == nil || res.Table.Scope(res.Table.Global()) == nil {
			t.Fatalf("analysis must always produce a global scope")
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
