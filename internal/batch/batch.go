// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives a scraping run over every identifier named by the
// input specifier, writes inscrap.log, and reports identifiers for which no
// document was found.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/inscrap/internal/target"
	"github.com/pdiddy/inscrap/pkg/types"
)

// Scraper processes one identifier. *scrap.Scraper satisfies it.
type Scraper interface {
	Scrap(ctx context.Context, id types.Identifier, outDir string) types.PageResult
}

// Recorder persists a finished run. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, outDir string, res types.RunResult) (int64, error)
}

// Options configures a run.
type Options struct {
	// OutputDir receives documents and the run log. It is created, one level
	// only, when missing.
	OutputDir string

	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string

	// History, when set, records the run.
	History Recorder

	// Logger receives diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Run resolves input into a target set and processes each identifier in
// order. It returns an error only when the run is rejected (see
// target.ErrInputParse and target.ErrNoTargets) or the output directory or
// run log cannot be set up, or ctx is cancelled; an interrupted run returns
// ctx.Err() and only the targets actually processed. Per-target failures are
// reported in the result.
func Run(ctx context.Context, s Scraper, input string, opts Options, w io.Writer) (types.RunResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	res := types.RunResult{Started: time.Now()}

	if err := ensureDir(opts.OutputDir); err != nil {
		return res, err
	}

	set, err := target.Resolve(input)
	if err != nil {
		switch {
		case errors.Is(err, target.ErrInputParse):
			fmt.Fprintf(w, "[!] Can't parse %s as a valid input\n", input)
		case errors.Is(err, target.ErrNoTargets):
			fmt.Fprintf(w, "[!] No valid target found in %s\n", input)
		default:
			fmt.Fprintf(w, "[!] %v\n", err)
		}
		return res, err
	}
	res.Targets = set
	logger.Debug("input resolved", "kind", set.Kind, "targets", len(set.IDs), "skipped", len(set.Skipped()))

	rl, err := createRunLog(filepath.Join(opts.OutputDir, LogName))
	if err != nil {
		return res, err
	}

	switch set.Kind {
	case types.InputSingle:
		rl.Info("Identify input as a single target : %s", input)
	case types.InputFile:
		rl.Info("Identify input as a file : %s", input)
		for _, l := range set.Lines {
			if l.Parsed {
				rl.Info("Load target %s from file : %s", strings.TrimRightFunc(l.Text, unicode.IsSpace), input)
			}
		}
	}

	for i, id := range set.IDs {
		if ctx.Err() != nil {
			break
		}
		page := s.Scrap(ctx, id, opts.OutputDir)
		if ctx.Err() != nil && !page.Found() {
			// Interrupted mid-target: the identifier was not really tried.
			break
		}
		res.Pages = append(res.Pages, page)

		if page.FetchErr != nil {
			rl.Fail("Fetch failed for compound %s : %v", id, page.FetchErr)
		}
		for _, d := range page.Downloads {
			if !d.OK() {
				rl.Fail("Download failed for compound %s : %s : %v", id, d.URL, d.Err)
			}
		}

		if page.Found() {
			rl.Info("Files found for compound %s", id)
			fmt.Fprintf(w, "[%d/%d] %s: %d file(s)\n", i+1, len(set.IDs), id, len(page.Files()))
		} else {
			rl.Fail("No files found for compound %s", id)
			fmt.Fprintf(w, "[%d/%d] %s: nothing found\n", i+1, len(set.IDs), id)
			res.Missing = append(res.Missing, id)
		}
	}

	res.Finished = time.Now()
	interrupted := ctx.Err()
	if interrupted != nil {
		rl.Fail("Run interrupted after %d of %d target(s) : %v", len(res.Pages), len(set.IDs), interrupted)
	}
	if err := rl.Close(); err != nil {
		logger.Warn("closing run log", "error", err)
	}

	for _, id := range res.Missing {
		fmt.Fprintf(w, "[WARNING] No document found for target %s\n", id)
	}
	if interrupted != nil {
		fmt.Fprintf(w, "[!] Run interrupted after %d of %d target(s)\n", len(res.Pages), len(set.IDs))
		return res, interrupted
	}

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, res); err != nil {
			fmt.Fprintf(w, "warning: report write failed: %v\n", err)
		}
	}
	if opts.History != nil {
		runID, err := opts.History.Record(ctx, opts.OutputDir, res)
		if err != nil {
			fmt.Fprintf(w, "warning: history record failed: %v\n", err)
		} else {
			logger.Debug("run recorded", "run_id", runID)
		}
	}

	logger.Info("run finished", "targets", len(set.IDs), "found", res.Found(),
		"missing", len(res.Missing), "duration", res.Finished.Sub(res.Started))
	return res, nil
}

// ensureDir creates dir when it does not exist. Parent directories are not
// created.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking output directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
