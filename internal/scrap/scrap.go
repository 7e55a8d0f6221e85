// Package scrap fetches one datasheet page and downloads the documents it
// links to.
package scrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/inscrap/internal/extract"
	"github.com/pdiddy/inscrap/internal/fetch"
	"github.com/pdiddy/inscrap/internal/httputil"
	"github.com/pdiddy/inscrap/pkg/types"
)

// DownloadError wraps a failure to retrieve or write one document.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Scraper combines a Fetcher with the document downloader.
type Scraper struct {
	client  *http.Client
	fetcher fetch.Fetcher
	cfg     types.FetchConfig
	logger  *slog.Logger
}

// New returns a Scraper. Documents are downloaded with client; pages are
// retrieved with fetcher. A nil logger uses slog.Default().
func New(client *http.Client, fetcher fetch.Fetcher, cfg types.FetchConfig, logger *slog.Logger) *Scraper {
	cfg = fetch.WithDefaults(cfg)
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{client: client, fetcher: fetcher, cfg: cfg, logger: logger}
}

// Scrap fetches the datasheet for id and downloads its documents into
// outDir. Failures are recorded in the returned PageResult rather than
// returned, so a caller iterating over many identifiers always gets a result.
func (s *Scraper) Scrap(ctx context.Context, id types.Identifier, outDir string) types.PageResult {
	start := time.Now()
	res := types.PageResult{ID: id, PageURL: fetch.PageURL(s.cfg.BaseURL, id)}

	s.logger.Debug("fetching page", "id", id, "url", res.PageURL)
	content, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		res.FetchErr = err
		res.Duration = time.Since(start)
		s.logger.Debug("fetch failed", "id", id, "error", err)
		return res
	}

	page, err := s.DownloadPage(ctx, content, outDir)
	if err != nil {
		res.FetchErr = err
	}
	res.Candidates = page.Candidates
	res.Downloads = page.Downloads
	res.Duration = time.Since(start)
	s.logger.Debug("page done", "id", id, "candidates", len(res.Candidates),
		"saved", len(res.Files()), "duration", res.Duration)
	return res
}

// DownloadPage extracts download links from content and saves every
// accepted document into outDir, overwriting files of the same name. One
// failed download does not stop the others.
func (s *Scraper) DownloadPage(ctx context.Context, content, outDir string) (types.PageResult, error) {
	var res types.PageResult

	cands, err := extract.Links(content, s.cfg.BaseURL)
	if err != nil {
		return res, err
	}
	res.Candidates = cands

	for _, c := range extract.Accepted(cands) {
		dest := filepath.Join(outDir, c.Filename)
		out := types.DownloadOutcome{URL: c.URL, Filename: c.Filename, Path: dest}
		if err := s.downloadFile(ctx, c.URL, dest); err != nil {
			out.Err = &DownloadError{URL: c.URL, Err: err}
			s.logger.Debug("download failed", "url", c.URL, "error", err)
		}
		res.Downloads = append(res.Downloads, out)
	}
	return res, nil
}

// downloadFile fetches url to destPath using a temporary file in the same
// directory, renamed over destPath on success.
func (s *Scraper) downloadFile(ctx context.Context, url, destPath string) error {
	resp, err := httputil.Get(ctx, s.client, url, s.cfg.UserAgent, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".inscrap-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
