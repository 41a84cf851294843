// QuantPilot is a guided setup shell for quantitative trading. It walks
// the user through a ten-step workflow, persists every choice, and hands
// the finished configuration to an external quant service for training
// and backtesting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quantpilot/internal/config"
	"quantpilot/internal/logging"
	"quantpilot/internal/quant"
	"quantpilot/internal/workflow"
)

var (
	cfgFile  string
	stateDir string
	verbose  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quantpilot",
	Short: "Guided setup for quantitative trading strategies",
	Long: `QuantPilot walks you through a ten-step guided setup for a
quantitative trading strategy, saving progress after every step so an
interrupted run can be resumed. Completed configurations are submitted
to the external quant service for model training and backtesting.

Run without arguments to start the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if stateDir != "" {
			cfg.App.StateDir = stateDir
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Format = "console"
		}
		return logging.Init(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			File:   cfg.Logging.File,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: quantpilot.yaml, configs/quantpilot.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "",
		"workflow state directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"debug logging on the console")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(statusCmd)
}

// openStores opens the JSON state store and the SQLite history index under
// the configured state directory. The caller closes the history.
func openStores() (*workflow.Store, *workflow.History, error) {
	store, err := workflow.NewStore(cfg.App.StateDir)
	if err != nil {
		return nil, nil, err
	}
	hist, err := workflow.NewHistory(cfg.HistoryPath())
	if err != nil {
		return nil, nil, err
	}
	return store, hist, nil
}

func quantClient() *quant.Client {
	return quant.NewClient(cfg.Quant.BaseURL, cfg.QuantTimeout())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
