package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"quantpilot/internal/doccheck"
	"quantpilot/internal/menu"
	"quantpilot/internal/quant"
	"quantpilot/internal/wizard"
	"quantpilot/internal/workflow"
)

// runMenu is the default command: the interactive main menu. The menu and
// the wizard share one buffered stdin reader so no input bytes are lost
// between them.
func runMenu(cmd *cobra.Command, args []string) error {
	store, hist, err := openStores()
	if err != nil {
		return err
	}
	defer hist.Close()

	client := quantClient()
	in := bufio.NewReader(os.Stdin)
	out := cmd.OutOrStdout()

	actions := menu.Actions{
		Status: func() error {
			return printStatus(out, hist, client)
		},
		NewSetup: func() error {
			st, err := wizard.NewEngine(in, out, store, hist).Start()
			if errors.Is(err, wizard.ErrPaused) {
				fmt.Fprintf(out, "Progress saved. Workflow %s can be resumed from the menu.\n", st.ID)
				return nil
			}
			return err
		},
		Resume: func() error {
			st, err := store.LatestIncomplete()
			if errors.Is(err, workflow.ErrNotFound) {
				fmt.Fprintln(out, "No resumable workflow found. Start a new guided setup first.")
				return nil
			}
			if err != nil {
				return err
			}
			st, err = wizard.NewEngine(in, out, store, hist).Resume(st)
			if errors.Is(err, wizard.ErrPaused) {
				fmt.Fprintf(out, "Progress saved. Workflow %s can be resumed from the menu.\n", st.ID)
				return nil
			}
			return err
		},
		List: func() error {
			return printWorkflows(out, hist)
		},
		Train: func() error {
			st, err := latestComplete(store)
			if err != nil {
				return err
			}
			treq, err := quant.TrainRequestFrom(st)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), cfg.QuantTimeout())
			defer cancel()
			resp, err := client.TrainModel(ctx, treq)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Training job %s submitted (%s) for workflow %s.\n",
				resp.JobID, resp.Status, st.ID)
			return nil
		},
		Backtest: func() error {
			st, err := latestComplete(store)
			if err != nil {
				return err
			}
			breq, err := quant.BacktestRequestFrom(st)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), cfg.QuantTimeout())
			defer cancel()
			res, err := client.RunBacktest(ctx, breq)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Backtest for %s: return %.2f%%, max drawdown %.2f%%, sharpe %.2f, %d trades.\n",
				st.ID, res.TotalReturnPct, res.MaxDrawdownPct, res.SharpeRatio, res.Trades)
			return nil
		},
		DocCheck: func() error {
			paths := defaultDocPaths()
			if len(paths) == 0 {
				fmt.Fprintln(out, "No markdown files found (looked for README.md and docs/*.md).")
				return nil
			}
			reports, err := doccheck.Check(context.Background(), paths,
				defaultDocRequirements(), doccheck.DefaultJobs)
			if err != nil {
				return err
			}
			printDocReports(out, reports)
			return nil
		},
	}

	m, err := menu.New(in, out, actions)
	if err != nil {
		return err
	}
	return m.Run()
}

// latestComplete returns the newest fully configured workflow.
func latestComplete(store *workflow.Store) (*workflow.State, error) {
	states, err := store.List()
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if s.IsComplete() {
			return s, nil
		}
	}
	return nil, errors.New("no completed workflow yet; finish the guided setup first")
}

func printWorkflows(w io.Writer, hist *workflow.History) error {
	runs, err := hist.List(20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No workflows yet.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-11s  %5s  %-9s  %s\n",
		"ID", "CREATED", "STATUS", "STEP", "MARKET", "BROKER")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-11s  %2d/%d  %-9s  %s\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.CurrentStep, workflow.StepCount,
			r.Market,
			r.Broker)
	}
	return nil
}

func printStatus(w io.Writer, hist *workflow.History, client *quant.Client) error {
	fmt.Fprintf(w, "App:        %s\n", cfg.App.Name)
	source := cfg.Source
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(w, "Config:     %s\n", source)
	fmt.Fprintf(w, "State dir:  %s\n", cfg.App.StateDir)

	total, complete, err := hist.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Workflows:  %d total, %d complete, %d in progress\n",
		total, complete, total-complete)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(w, "Quant:      unreachable (%v)\n", err)
	} else {
		fmt.Fprintf(w, "Quant:      ok (%s)\n", cfg.Quant.BaseURL)
	}
	return nil
}

func defaultDocPaths() []string {
	var paths []string
	if fi, err := os.Stat("README.md"); err == nil && !fi.IsDir() {
		paths = append(paths, "README.md")
	}
	matches, _ := filepath.Glob(filepath.Join("docs", "*.md"))
	return append(paths, matches...)
}
