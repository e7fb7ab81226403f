package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sysyplus/internal/driver"
	"sysyplus/internal/project"
)

func errInvalidFlag(name, value, expected string) error {
	return fmt.Errorf("invalid --%s value %q (expected %s)", name, value, expected)
}

// resolveConfig layers defaults, the manifest and the command-line flags.
// The manifest comes from --config or is discovered upward from target;
// a missing manifest is not an error.
func resolveConfig(cmd *cobra.Command, target string) (driver.Config, *project.Manifest, error) {
	cfg := driver.DefaultConfig()
	flags := cmd.Root().PersistentFlags()

	manifestPath, err := flags.GetString("config")
	if err != nil {
		return cfg, nil, err
	}
	var manifest *project.Manifest
	if manifestPath != "" {
		manifest, err = project.Load(manifestPath)
	} else {
		manifest, err = project.Discover(startDirOf(target))
		if errors.Is(err, project.ErrNoManifest) {
			manifest, err = nil, nil
		}
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}
	manifest.ApplyTo(&cfg)

	// флаги приоритетнее манифеста, но только если заданы явно
	if flags.Changed("max-diagnostics") || manifest == nil || manifest.Analysis.MaxDiagnostics == nil {
		if cfg.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return cfg, nil, err
		}
	}
	if cfg.Timings, err = flags.GetBool("timings"); err != nil {
		return cfg, nil, err
	}
	if cfg.MaxDiagnostics < 0 {
		return cfg, nil, fmt.Errorf("--max-diagnostics must be >= 0, got %d", cfg.MaxDiagnostics)
	}
	return cfg, manifest, nil
}

func startDirOf(target string) string {
	if target == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}
