// Command vpfm is VPFM's CLI: train player ratings and context boosters
// from historical data, then simulate a fixture's remaining minutes.
// With flags it dispatches through cobra; with none it falls back to an
// interactive bufio prompt menu, the same direct, prompt-driven feel
// the teacher's own main.go uses for its driver-pricing tool.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/venomio/vpfm/internal/config"
	"github.com/venomio/vpfm/internal/logging"
	"github.com/venomio/vpfm/internal/store"
)

func main() {
	if len(os.Args) == 1 {
		runInteractive()
		return
	}

	root := &cobra.Command{
		Use:   "vpfm",
		Short: "VPFM trains player ratings and simulates match outcomes",
	}
	root.PersistentFlags().String("config", "", "path to vpfm.toml (defaults to ./vpfm.toml)")
	root.PersistentFlags().Bool("debug", false, "enable debug-level logging")

	root.AddCommand(newTrainCmd(), newSimulateCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadStore(cmd *cobra.Command) (*store.SQLStore, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	st, err := store.Open(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logging.New(debug)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecasting UI (out of scope — stub only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("serve is a stub: the UI layer is out of scope for vpfm's core")
		},
	}
}
