package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysyplus/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the SysY+ language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before analyzing an edit (0 = manifest or 300ms)")
	lspCmd.Flags().Bool("trace-lsp", false, "log JSON-RPC traffic to stderr")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	traceLSP, err := cmd.Flags().GetBool("trace-lsp")
	if err != nil {
		return err
	}
	// манифест ищется рядом с каждым документом, флаги задают базу
	cfg, _, err := resolveConfig(cmd, "")
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:     debounce,
		Config:       cfg,
		UseManifests: true,
		Trace:        traceLSP,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
