// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/inscrap/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded with --history",
	Long: `History lists the most recent runs stored in the SQLite history database.
With --run it prints the per-target outcomes of one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("history", "", "SQLite history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show the targets of this run id")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := stringSetting(cmd, "history", keyHistory)
	if path == "" {
		return fmt.Errorf("no history database: pass --history or set %s in the config", keyHistory)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		targets, err := store.Targets(cmd.Context(), runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tFOUND\tFILES\tERROR")
		for _, t := range targets {
			fmt.Fprintf(tw, "%s\t%v\t%d\t%s\n", t.ID, t.Found, len(t.Files), t.FetchError)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "RUN\tSTARTED\tINPUT\tTARGETS\tMISSING\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Started.Local().Format(time.DateTime), r.Input, r.Targets, r.Missing, r.OutputDir)
	}
	return nil
}
