// Package cmd is stash's command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stash/config"
	"stash/host"
	"stash/logging"
	"stash/sim"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

// worldFlags pick the world whose folders a command works on.
type worldFlags struct {
	save   string
	server string
}

func (w *worldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.save, "world", "", "Singleplayer save directory name")
	cmd.Flags().StringVar(&w.server, "mp", "", "Multiplayer server name")
}

func (w *worldFlags) info() host.WorldInfo {
	info := sim.NewHost(0, 0).World
	if w.server != "" {
		return host.WorldInfo{Multiplayer: true, ServerName: w.server}
	}
	if w.save != "" {
		info.SaveDir = w.save
	}
	return info
}

// loadConfig reads the config files and points the log sink at the data dir.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	err = logging.Configure(logging.Options{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.JSON,
		Dir:   config.LogDir(cfg.DataDir()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	run := newRunCmd()
	root := &cobra.Command{
		Use:           "stash",
		Short:         "Ingredient folders for recipe viewers",
		Long:          "Stash keeps per-world folders of bookmarked ingredients next to JEI, EMI or REI.\nWithout a subcommand it starts the terminal demo host.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(
		run,
		newFoldersCmd(),
		newWorldIDCmd(),
		newSchemaCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	// A .env next to the binary may carry STASH_* overrides.
	_ = godotenv.Load()

	err := NewRootCmd().Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
