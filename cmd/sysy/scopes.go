package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyplus/internal/diagfmt"
	"sysyplus/internal/driver"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] file.sy",
	Short: "Print the scope tree of a SysY+ source file",
	Long:  `Scopes prints every scope with its variables, functions and structs, the way the analyzer built them`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scopesCmd.Flags().Bool("builtins", false, "include runtime library functions")
}

func runScopes(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withBuiltins, err := cmd.Flags().GetBool("builtins")
	if err != nil {
		return fmt.Errorf("failed to get builtins flag: %w", err)
	}
	cfg, _, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	result, err := driver.AnalyzePath(cmd.Context(), args[0], cfg)
	if err != nil {
		return err
	}
	if result.Table == nil {
		return fmt.Errorf("scopes: analysis was canceled")
	}

	switch format {
	case "pretty":
		return diagfmt.FormatScopesPretty(os.Stdout, result.Table, result.File, withBuiltins)
	case "json":
		return diagfmt.FormatScopesJSON(os.Stdout, result.Table, result.File, withBuiltins)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
