package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

var languageSeeds = []string{
	"",
	"int main() { return 0; }\n",
	"const int N = 10;\nint a[N][2] = {{1, 2}, {3}};\n",
	"struct P { int x; int y; } p;\nint main() { p.x = 1; return p->y; }\n",
	"int add(int a, int b) { return a + b; }\nint main() { putint(add(1, 2)); }\n",
	"int main() { while (1) { } }\n",
	"int main() {\n  for (int i = 0; i < 10; i++) { if (i) continue; else break; }\n}\n",
	"int main() { int x = 1\n  return x }\n",
	"int int = 3;\nvoid f(int a int b) {}\n",
	"int main() { putstr(\"unterminated\n); char c = 'ab; }\n",
	"/* never closed\nint x;\n",
	"int main() { { { { } } } ) ] }\n",
	"#include <stdio.h>\nint x; // trailing\n",
	"int main() { int é = 1; return 0; }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.sy file under ../../testdata, if present.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".sy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
