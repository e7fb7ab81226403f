package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyplus/internal/driver"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	src := filepath.Join(nested, "main.sy")
	require.NoError(t, os.WriteFile(src, []byte("int main(){return 0;}"), 0o600))

	for _, start := range []string{nested, src} {
		got, ok, err := FindManifest(start)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	dir, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, root, dir)
}

func TestDiscoverWithoutManifest(t *testing.T) {
	_, err := Discover(t.TempDir())
	// выше TempDir тоже может лежать sysy.toml, но не в тестовом окружении
	assert.ErrorIs(t, err, ErrNoManifest)
}

func TestLoadAppliesToConfig(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[analysis]
max_diagnostics = 50
prelude = false
warn_unused = false
extra_builtins = ["printf", "memset"]

[lsp]
debounce_ms = 120
`)
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)

	cfg := driver.DefaultConfig()
	m.ApplyTo(&cfg)
	assert.Equal(t, 50, cfg.MaxDiagnostics)
	assert.False(t, cfg.Prelude)
	assert.False(t, cfg.WarnUnused)
	assert.True(t, cfg.WarnUninitialized, "unset keys keep defaults")
	assert.Equal(t, []string{"printf", "memset"}, cfg.ExtraBuiltins)
	assert.Equal(t, 120*time.Millisecond, m.Debounce(time.Second))
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":   "[analysis\n",
		"unknown":  "[analysis]\nwarn_everything = true\n",
		"negative": "[analysis]\nmax_diagnostics = -1\n",
		"builtin":  "[analysis]\nextra_builtins = [\"9lives\"]\n",
		"debounce": "[lsp]\ndebounce_ms = -5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeManifest(t, t.TempDir(), body))
			assert.Error(t, err)
		})
	}
}

func TestNilManifest(t *testing.T) {
	var m *Manifest
	cfg := driver.DefaultConfig()
	m.ApplyTo(&cfg)
	assert.Equal(t, driver.DefaultConfig().MaxDiagnostics, cfg.MaxDiagnostics)
	assert.Equal(t, 300*time.Millisecond, m.Debounce(300*time.Millisecond))
}
