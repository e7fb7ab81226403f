package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"sysyplus/internal/driver"
)

// ErrNoManifest is returned by Discover when no sysy.toml is found.
var ErrNoManifest = errors.New("sysy.toml not found")

// Analysis mirrors the [analysis] table. Nil pointers mean "not set".
type Analysis struct {
	MaxDiagnostics       *int     `toml:"max_diagnostics"`
	Prelude              *bool    `toml:"prelude"`
	WarnUnused           *bool    `toml:"warn_unused"`
	WarnUninitialized    *bool    `toml:"warn_uninitialized"`
	WarnInfiniteLoop     *bool    `toml:"warn_infinite_loop"`
	WarnMissingSemicolon *bool    `toml:"warn_missing_semicolon"`
	ExtraBuiltins        []string `toml:"extra_builtins"`
}

// LSP mirrors the [lsp] table.
type LSP struct {
	DebounceMS *int `toml:"debounce_ms"`
}

// Manifest is a decoded sysy.toml.
type Manifest struct {
	Path     string   `toml:"-"`
	Analysis Analysis `toml:"analysis"`
	LSP      LSP      `toml:"lsp"`
}

// Load parses the manifest at path. Unknown keys are an error.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return &m, nil
}

// Discover finds and loads the manifest governing startDir.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return Load(path)
}

func (m *Manifest) validate() error {
	if v := m.Analysis.MaxDiagnostics; v != nil && *v < 0 {
		return fmt.Errorf("analysis.max_diagnostics must be >= 0, got %d", *v)
	}
	if v := m.LSP.DebounceMS; v != nil && *v < 0 {
		return fmt.Errorf("lsp.debounce_ms must be >= 0, got %d", *v)
	}
	for _, name := range m.Analysis.ExtraBuiltins {
		if !isIdent(name) {
			return fmt.Errorf("analysis.extra_builtins: invalid name %q", name)
		}
	}
	return nil
}

// ApplyTo overlays the values set in the manifest onto cfg.
func (m *Manifest) ApplyTo(cfg *driver.Config) {
	if m == nil || cfg == nil {
		return
	}
	a := m.Analysis
	if a.MaxDiagnostics != nil {
		cfg.MaxDiagnostics = *a.MaxDiagnostics
	}
	setBool(&cfg.Prelude, a.Prelude)
	setBool(&cfg.WarnUnused, a.WarnUnused)
	setBool(&cfg.WarnUninitialized, a.WarnUninitialized)
	setBool(&cfg.WarnInfiniteLoop, a.WarnInfiniteLoop)
	setBool(&cfg.WarnMissingSemicolon, a.WarnMissingSemicolon)
	if len(a.ExtraBuiltins) > 0 {
		cfg.ExtraBuiltins = append([]string(nil), a.ExtraBuiltins...)
	}
}

// Debounce returns lsp.debounce_ms, or def when unset.
func (m *Manifest) Debounce(def time.Duration) time.Duration {
	if m == nil || m.LSP.DebounceMS == nil {
		return def
	}
	return time.Duration(*m.LSP.DebounceMS) * time.Millisecond
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
