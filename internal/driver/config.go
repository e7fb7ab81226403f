package driver

import (
	"fmt"
	"sort"
	"strings"

	"sysyplus/internal/token"
)

// Config is the resolved analysis configuration: flags over manifest over
// defaults. The zero value is usable but disables every warning; start
// from DefaultConfig.
type Config struct {
	Keywords       token.Keywords // nil means token.DefaultKeywords
	MaxDiagnostics int            // <= 0 is unlimited

	Prelude       bool
	ExtraBuiltins []string

	WarnUnused           bool
	WarnUninitialized    bool
	WarnInfiniteLoop     bool
	WarnMissingSemicolon bool

	IgnoreWarnings   bool
	WarningsAsErrors bool

	// Timings records per-phase durations into Result.Timing. It does not
	// change diagnostics and is not part of the fingerprint.
	Timings bool
}

// DefaultConfig enables the runtime prelude and every warning.
func DefaultConfig() Config {
	return Config{
		Keywords:             token.DefaultKeywords(),
		Prelude:              true,
		WarnUnused:           true,
		WarnUninitialized:    true,
		WarnInfiniteLoop:     true,
		WarnMissingSemicolon: true,
	}
}

func (c Config) keywords() token.Keywords {
	if c.Keywords == nil {
		return token.DefaultKeywords()
	}
	return c.Keywords
}

// Fingerprint is a stable rendering of everything that changes the output
// for a given text. Cache keys include it.
func (c Config) Fingerprint() string {
	words := c.keywords().Words()
	sort.Strings(words)
	extra := append([]string(nil), c.ExtraBuiltins...)
	sort.Strings(extra)
	return fmt.Sprintf("v%d|kw=%s|max=%d|prelude=%t|extra=%s|warn=%t%t%t%t|ign=%t|wae=%t",
		diskCacheSchemaVersion,
		strings.Join(words, ","),
		c.MaxDiagnostics,
		c.Prelude,
		strings.Join(extra, ","),
		c.WarnUnused, c.WarnUninitialized, c.WarnInfiniteLoop, c.WarnMissingSemicolon,
		c.IgnoreWarnings, c.WarningsAsErrors,
	)
}
