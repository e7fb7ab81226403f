package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"sysyplus/internal/diagfmt"
	"sysyplus/internal/driver"
)

func newTestRoot(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "sysy"}
	addPersistentFlags(root)
	if err := root.PersistentFlags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestResolveConfigLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sysy.toml"), "[analysis]\nmax_diagnostics = 7\nwarn_unused = false\n")
	src := filepath.Join(dir, "a.sy")
	writeFile(t, src, "int main() { return 0; }\n")

	cfg, manifest, err := resolveConfig(newTestRoot(t), src)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if manifest == nil || cfg.MaxDiagnostics != 7 || cfg.WarnUnused || !cfg.WarnUninitialized {
		t.Fatalf("manifest not applied: %+v", cfg)
	}

	cfg, _, err = resolveConfig(newTestRoot(t, "--max-diagnostics", "3", "--timings"), src)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.MaxDiagnostics != 3 || !cfg.Timings {
		t.Fatalf("flags must override manifest: %+v", cfg)
	}
}

func TestResolveConfigWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, manifest, err := resolveConfig(newTestRoot(t), dir)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if manifest != nil && strings.HasPrefix(manifest.Path, dir) {
		t.Fatalf("unexpected manifest %s", manifest.Path)
	}
	if manifest == nil && cfg.MaxDiagnostics != 100 {
		t.Fatalf("default max-diagnostics = %d", cfg.MaxDiagnostics)
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[analysis]\nbogus = 1\n")
	if _, _, err := resolveConfig(newTestRoot(t, "--config", bad), dir); err == nil {
		t.Fatal("unknown manifest keys must fail")
	}
}

func TestDiagnoseOnceJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.sy"), "int main() {\n  return x;\n}\n")
	writeFile(t, filepath.Join(dir, "ok.sy"), "int main() {\n  return 0;\n}\n")

	var out bytes.Buffer
	hasErrors, err := diagnoseOnce(context.Background(), &out, []string{dir}, driver.DefaultConfig(), diagOptions{format: diagfmt.FormatJSON})
	if err != nil {
		t.Fatalf("diagnoseOnce: %v", err)
	}
	if !hasErrors {
		t.Fatal("bad.sy should report errors")
	}
	var files map[string]diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &files); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %s", len(files), out.String())
	}
	for path, data := range files {
		switch filepath.Base(path) {
		case "bad.sy":
			if data.Count == 0 || data.Diagnostics[0].Code != "REF4001" {
				t.Fatalf("bad.sy: %+v", data)
			}
		case "ok.sy":
			if data.Count != 0 {
				t.Fatalf("ok.sy: %+v", data)
			}
		}
	}
}

func TestDiagnoseOnceMissingFile(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.sy")
	hasErrors, err := diagnoseOnce(context.Background(), &out, []string{missing}, driver.DefaultConfig(), diagOptions{format: diagfmt.FormatPretty})
	if err != nil {
		t.Fatalf("diagnoseOnce: %v", err)
	}
	if !hasErrors || !strings.Contains(out.String(), "IO6001") || !strings.Contains(out.String(), "nope.sy") {
		t.Fatalf("missing file output:\n%s", out.String())
	}
}

func TestWatchFilters(t *testing.T) {
	if !isWatched("/x/a.sy") || !isWatched("/x/sysy.toml") || isWatched("/x/a.go") {
		t.Fatal("isWatched mismatch")
	}
	dir := t.TempDir()
	file := filepath.Join(dir, "a.sy")
	writeFile(t, file, "")
	roots := watchRoots([]string{dir, file})
	if len(roots) != 1 {
		t.Fatalf("roots = %v", roots)
	}
}
