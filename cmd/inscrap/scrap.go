// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/inscrap/internal/batch"
	"github.com/pdiddy/inscrap/internal/fetch"
	"github.com/pdiddy/inscrap/internal/history"
	"github.com/pdiddy/inscrap/internal/scrap"
	"github.com/pdiddy/inscrap/internal/target"
	"github.com/pdiddy/inscrap/pkg/types"
)

// rejectedError marks a run that stopped during input resolution. The
// batch driver has already told the user why.
type rejectedError struct{ err error }

func (e *rejectedError) Error() string { return e.err.Error() }
func (e *rejectedError) Unwrap() error { return e.err }

var scrapCmd = &cobra.Command{
	Use:   "scrap <input> <output-folder>",
	Short: "Download datasheets for one identifier or a file of identifiers",
	Long: `Scrap resolves <input> to a list of INRS datasheet identifiers and downloads
the PDF linked from each datasheet page into <output-folder>.

<input> is either an existing file with one identifier per line (lines that
are not integers are skipped) or a single decimal identifier. The output
folder is created if missing (parent directories are not) and receives
inscrap.log alongside the documents.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			cmd.Usage()
			return fmt.Errorf("expected <input> and <output-folder>, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runScrap,
}

func init() {
	addFetchFlags(scrapCmd)
	scrapCmd.Flags().String("report", "", "write a YAML run summary to this path")
	scrapCmd.Flags().String("history", "", "record the run in this SQLite database")
	scrapCmd.Flags().Bool("fail-on-missing", false, "exit non-zero when any target yields no document")

	rootCmd.AddCommand(scrapCmd)
}

func runScrap(cmd *cobra.Command, args []string) error {
	input, outDir := args[0], args[1]

	cfg, err := scrapConfig(cmd, outDir)
	if err != nil {
		return err
	}
	slog.Debug("effective configuration", "fetcher", cfg.Fetcher, "base_url", cfg.BaseURL,
		"timeout", cfg.Timeout, "browser_path", cfg.BrowserPath, "history", cfg.HistoryPath)

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	fetcher, err := fetch.New(client, cfg.FetchConfig)
	if err != nil {
		return err
	}
	scraper := scrap.New(client, fetcher, cfg.FetchConfig, slog.Default())

	opts := batch.Options{
		OutputDir:  cfg.OutputDir,
		ReportPath: cfg.ReportPath,
		Logger:     slog.Default(),
	}
	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.History = store
	}

	res, err := batch.Run(cmd.Context(), scraper, input, opts, cmd.OutOrStdout())
	if err != nil {
		if errors.Is(err, target.ErrInputParse) || errors.Is(err, target.ErrNoTargets) {
			return &rejectedError{err: err}
		}
		return err
	}

	failOnMissing, _ := cmd.Flags().GetBool("fail-on-missing")
	if failOnMissing && res.HasMissing() {
		return fmt.Errorf("%d of %d target(s) yielded no document", len(res.Missing), len(res.Pages))
	}
	return nil
}

// scrapConfig layers flags, config, and defaults into the run configuration.
func scrapConfig(cmd *cobra.Command, outDir string) (types.ScrapConfig, error) {
	fc, err := fetchConfig(cmd)
	if err != nil {
		return types.ScrapConfig{}, err
	}
	report, _ := cmd.Flags().GetString("report")
	return types.ScrapConfig{
		FetchConfig: fc,
		OutputDir:   outDir,
		ReportPath:  report,
		HistoryPath: stringSetting(cmd, "history", keyHistory),
	}, nil
}
