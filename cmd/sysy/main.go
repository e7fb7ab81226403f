package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sysyplus/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sysy",
	Short: "SysY+ static analyzer",
	Long:  `sysy checks SysY+ sources for delimiter, syntax, declaration and reference errors`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		finish()
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)
}

// main runs the root command; any returned error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		finish()
		os.Exit(1)
	}
}

// finish flushes the tracer and the profilers; PersistentPostRun is skipped on error.
func finish() {
	flushTracing()
	stopProfiling()
}

// addPersistentFlags registers the global flags on root.
func addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	flags.Bool("timings", false, "show timing information")
	flags.String("config", "", "path to sysy.toml (default: discovered upward from the input)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- fd fits in int
}

// useColor resolves --color for output going to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, errInvalidFlag("color", colorFlag, "auto|on|off")
	}
}
