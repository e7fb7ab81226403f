package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyplus/internal/diag"
	"sysyplus/internal/diagfmt"
	"sysyplus/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.sy",
	Short: "Tokenize a SysY+ source file",
	Long:  `Tokenize breaks a SysY+ source file into tokens; lexical and delimiter errors go to stderr`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg, _, err := resolveConfig(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.AnalyzePath(cmd.Context(), filePath, cfg)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// в stderr только то, что касается токенов
	lexical := diag.NewBag(0)
	for _, d := range result.Bag.Items() {
		switch d.Code.Category() {
		case "LexicalError", "DelimiterImbalance":
			lexical.Add(d)
		}
	}
	if lexical.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stderr, lexical, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2})
	}

	if format == "json" {
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens(), result.FileSet)
	}
	return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens(), result.FileSet)
}
