package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sysyplus/internal/driver"
	"sysyplus/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.sy>",
	Short: "Apply available quick fixes to a source file",
	Long:  "Run diagnostics and apply the attached fixes: missing semicolons, keyword renames and declarations of undefined names.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("write", false, "rewrite the file in place instead of printing it")
	fixCmd.Flags().Bool("once", false, "apply only the first fix")
	fixCmd.Flags().String("code", "", "apply only fixes of diagnostics with this code (e.g. STY5004)")
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	once, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	code, err := cmd.Flags().GetString("code")
	if err != nil {
		return err
	}
	if once && code != "" {
		return fmt.Errorf("--once and --code are mutually exclusive")
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeAll}
	switch {
	case once:
		opts.Mode = fix.ApplyModeOnce
	case code != "":
		opts = fix.ApplyOptions{Mode: fix.ApplyModeCode, Code: code}
	}

	cfg, _, err := resolveConfig(cmd, path)
	if err != nil {
		return err
	}
	result, err := driver.AnalyzePath(cmd.Context(), path, cfg)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	res, err := fix.Apply(result.File, result.Bag.Items(), opts)
	if err != nil {
		if errors.Is(err, fix.ErrNoFixes) {
			fmt.Fprintln(os.Stderr, "fix: nothing to apply")
			return nil
		}
		return fmt.Errorf("fix: %w", err)
	}
	reportFixes(os.Stderr, path, res)

	if !write {
		_, err = os.Stdout.Write(res.Content)
		return err
	}
	if len(res.Applied) == 0 {
		return nil
	}
	if err := fix.WriteFile(path, res.Content); err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	return nil
}

func reportFixes(w io.Writer, path string, res *fix.ApplyResult) {
	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(w, "  %s:%d: %s [%s] (%d edits)\n", path, item.Line, item.Title, item.Code.ID(), item.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, skip.Code.ID(), skip.Reason)
		}
	}
}
