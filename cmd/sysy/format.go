package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyplus/internal/fix"
	"sysyplus/internal/format"
	"sysyplus/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file.sy> [file...]",
	Short: "Reindent SysY+ source files by brace depth",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "rewrite files in place instead of printing to stdout")
	fmtCmd.Flags().Bool("check", false, "exit with status 1 if any file is not formatted")
	fmtCmd.Flags().Int("indent", 4, "spaces per indentation level")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs")
	fmtCmd.Flags().Int("max-blank-lines", 0, "squeeze runs of blank lines (0 keeps all)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	if write && check {
		return fmt.Errorf("fmt: --write cannot be used with --check")
	}
	var opt format.Options
	if opt.IndentWidth, err = cmd.Flags().GetInt("indent"); err != nil {
		return err
	}
	if opt.UseTabs, err = cmd.Flags().GetBool("tabs"); err != nil {
		return err
	}
	if opt.MaxBlankLines, err = cmd.Flags().GetInt("max-blank-lines"); err != nil {
		return err
	}

	fs := source.NewFileSet()
	unformatted := 0
	for _, path := range args {
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("fmt: %w", err)
		}
		file := fs.Get(id)
		out, err := format.FormatFile(file, opt)
		if err != nil {
			return fmt.Errorf("fmt: %s: %w", path, err)
		}
		if ok, msg := format.CheckRoundTrip(file, opt); !ok {
			return fmt.Errorf("fmt: %s: formatting would change tokens: %s", path, msg)
		}
		changed := !bytes.Equal(out, file.Content)
		switch {
		case check:
			if changed {
				unformatted++
				fmt.Fprintln(os.Stdout, path)
			}
		case write:
			if !changed {
				continue
			}
			if err := fix.WriteFile(path, out); err != nil {
				return fmt.Errorf("fmt: %w", err)
			}
			fmt.Fprintf(os.Stderr, "formatted %s\n", path)
		default:
			if _, err := os.Stdout.Write(out); err != nil {
				return err
			}
		}
	}
	if unformatted > 0 {
		cmd.SilenceErrors = true
		return fmt.Errorf("fmt: %d file(s) need formatting", unformatted)
	}
	return nil
}
