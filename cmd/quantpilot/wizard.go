package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quantpilot/internal/wizard"
	"quantpilot/internal/workflow"
)

var answersFile string

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Start a new guided setup",
	Long: `Starts the ten-step guided setup: market, asset type, target return,
risk level, capital, broker, risk limits, reporting and a final
confirmation. Progress is saved after every step; an interrupted run can
be picked up later with "quantpilot resume".

Pass --answers to feed canned answers (one per line) instead of reading
from stdin, for demos and scripted runs.`,
	Args: cobra.NoArgs,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVar(&answersFile, "answers", "",
		"file with canned answers, one per line")
}

func runWizard(cmd *cobra.Command, args []string) error {
	store, hist, err := openStores()
	if err != nil {
		return err
	}
	defer hist.Close()

	in := io.Reader(os.Stdin)
	if answersFile != "" {
		data, err := os.ReadFile(answersFile)
		if err != nil {
			return fmt.Errorf("failed to read answers file: %w", err)
		}
		in = bytes.NewReader(data)
	}

	st, err := wizard.NewEngine(in, cmd.OutOrStdout(), store, hist).Start()
	if errors.Is(err, wizard.ErrPaused) {
		fmt.Fprintf(cmd.OutOrStdout(), "Progress saved. Resume with: quantpilot resume %s\n", st.ID)
		return nil
	}
	return err
}

var resumeCmd = &cobra.Command{
	Use:   "resume [workflow-id]",
	Short: "Resume a paused guided setup",
	Long: `Continues a paused guided setup from its saved step. Without an id the
most recent unfinished workflow is resumed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, hist, err := openStores()
		if err != nil {
			return err
		}
		defer hist.Close()

		var st *workflow.State
		if len(args) == 1 {
			st, err = store.Load(args[0])
		} else {
			st, err = store.LatestIncomplete()
			if errors.Is(err, workflow.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No resumable workflow found.")
				return nil
			}
		}
		if err != nil {
			return err
		}

		st, err = wizard.NewEngine(os.Stdin, cmd.OutOrStdout(), store, hist).Resume(st)
		if errors.Is(err, wizard.ErrPaused) {
			fmt.Fprintf(cmd.OutOrStdout(), "Progress saved. Resume with: quantpilot resume %s\n", st.ID)
			return nil
		}
		return err
	},
}

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List saved workflow runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, hist, err := openStores()
		if err != nil {
			return err
		}
		defer hist.Close()
		return printWorkflows(cmd.OutOrStdout(), hist)
	},
}

var workflowsShowCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Print the saved state of a workflow run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := workflow.NewStore(cfg.App.StateDir)
		if err != nil {
			return err
		}
		st, err := store.Load(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(store.Path(st.ID))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bytes.TrimSpace(data)))
		return nil
	},
}

func init() {
	workflowsCmd.AddCommand(workflowsShowCmd)
}
