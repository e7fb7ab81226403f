package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sysyplus/internal/diag"
	"sysyplus/internal/diagfmt"
	"sysyplus/internal/driver"
	"sysyplus/internal/observ"
	"sysyplus/internal/source"
	"sysyplus/internal/version"
)

// errDiagnostics is returned when errors were reported; they are already printed.
var errDiagnostics = errors.New("diagnostics reported errors")

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.sy|directory> [more...]",
	Short: "Run diagnostics on SysY+ files or directories",
	Long:  `Run delimiter, syntax, declaration and reference checks on SysY+ sources or on every *.sy file within a directory`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif|yaml)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "show before/after lines for each fix")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("disk-cache", false, "reuse diagnostics of unchanged files from the user cache directory")
	diagCmd.Flags().Bool("watch", false, "re-run diagnostics when files change")
	diagCmd.Flags().Duration("debounce", 250*time.Millisecond, "delay before re-running in watch mode")
	diagCmd.Flags().String("ui", "off", "progress UI for directory runs (auto|on|off)")
}

// diagOptions is the parsed flag set of the diag command.
type diagOptions struct {
	format   diagfmt.Format
	jobs     int
	notes    bool
	fixes    bool
	preview  bool
	pathMode diagfmt.PathMode
	color    bool
	tui      bool
	cache    *driver.DiskCache
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	opts := diagOptions{format: format}
	if opts.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.notes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	opts.fixes = suggest || opts.preview
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	if opts.color, err = useColor(cmd, os.Stdout); err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	// TUI пишет в stderr и не мешает машинным форматам в stdout
	opts.tui = shouldUseTUI(mode)

	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if diskCache {
		if opts.cache, err = driver.OpenDiskCache("sysy"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	loadConfig := func() (driver.Config, error) {
		cfg, _, err := resolveConfig(cmd, args[0])
		if err != nil {
			return cfg, err
		}
		cfg.IgnoreWarnings = noWarnings
		cfg.WarningsAsErrors = warningsAsErrors
		return cfg, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if watch {
		cmd.SilenceUsage = true
		return watchPaths(cmd.Context(), args, debounce, func(changed []string) {
			if len(changed) > 0 {
				fmt.Fprintf(os.Stderr, "watch: %d file(s) changed, re-running\n", len(changed))
				// манифест мог измениться
				next, err := loadConfig()
				if err != nil {
					fmt.Fprintf(os.Stderr, "watch: %v\n", err)
					return
				}
				cfg = next
			}
			if _, err := diagnoseOnce(cmd.Context(), os.Stdout, args, cfg, opts); err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			}
		})
	}

	hasErrors, err := diagnoseOnce(cmd.Context(), os.Stdout, args, cfg, opts)
	if err != nil {
		return err
	}
	if hasErrors {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

// diagnoseOnce analyzes paths, renders every result to w and reports
// whether any file has errors.
func diagnoseOnce(ctx context.Context, w io.Writer, paths []string, cfg driver.Config, opts diagOptions) (bool, error) {
	dirOpts := driver.DirOptions{Jobs: opts.jobs, Cache: opts.cache}

	var (
		fs      *source.FileSet
		results []driver.FileResult
		err     error
	)
	if opts.tui {
		fs, results, err = diagnoseWithUI(ctx, paths, cfg, dirOpts)
	} else {
		fs, results, err = driver.DiagnoseDir(ctx, paths, cfg, dirOpts)
	}
	if err != nil {
		return false, fmt.Errorf("diagnosis failed: %w", err)
	}

	if err := writeResults(w, fs, results, opts); err != nil {
		return false, err
	}
	if cfg.Timings {
		printTimings(os.Stderr, results)
	}

	for _, r := range results {
		if r.Bag.HasErrors() {
			return true, nil
		}
	}
	return false, nil
}

func writeResults(w io.Writer, fs *source.FileSet, results []driver.FileResult, opts diagOptions) error {
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         opts.pathMode,
		IncludeNotes:     opts.notes,
		IncludeFixes:     opts.fixes,
		IncludePreviews:  opts.preview,
	}

	switch opts.format {
	case diagfmt.FormatPretty:
		prettyOpts := diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     2,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.notes,
			ShowFixes:   opts.fixes,
			ShowPreview: opts.preview,
		}
		printed := 0
		for _, r := range results {
			if r.Bag.Len() == 0 {
				continue
			}
			if printed > 0 {
				fmt.Fprintln(w)
			}
			printed++
			diagfmt.Pretty(w, r.Bag, fs, prettyOpts)
		}
		return nil
	case diagfmt.FormatShort:
		for _, r := range results {
			if err := diagfmt.Short(w, r.Bag, fs, opts.notes); err != nil {
				return err
			}
		}
		return nil
	case diagfmt.FormatJSON, diagfmt.FormatYAML:
		if len(results) == 1 {
			if opts.format == diagfmt.FormatYAML {
				return diagfmt.YAML(w, results[0].Bag, fs, jsonOpts)
			}
			return diagfmt.JSON(w, results[0].Bag, fs, jsonOpts)
		}
		files := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			files[displayPath(fs, r, opts.pathMode)] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
		}
		if opts.format == diagfmt.FormatYAML {
			return diagfmt.YAMLFiles(w, files)
		}
		return diagfmt.JSONFiles(w, files)
	case diagfmt.FormatSarif:
		bags := make([]*diag.Bag, 0, len(results))
		for _, r := range results {
			bags = append(bags, r.Bag)
		}
		return diagfmt.SarifBags(w, bags, fs, diagfmt.SarifRunMeta{
			ToolName:       "sysy",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
}

func displayPath(fs *source.FileSet, r driver.FileResult, mode diagfmt.PathMode) string {
	if r.File == nil {
		return r.Path
	}
	switch mode {
	case diagfmt.PathModeAbsolute:
		return r.File.FormatPath("absolute", "")
	default:
		return r.File.FormatPath("relative", fs.BaseDir())
	}
}

func printTimings(w io.Writer, results []driver.FileResult) {
	var total observ.Report
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
		if r.Timing != nil {
			total.Add(*r.Timing)
		}
	}
	fmt.Fprint(w, total.Summary())
	if cached > 0 {
		fmt.Fprintf(w, "  cached files: %d\n", cached)
	}
}
