package types

import "time"

// HTTPConfig holds shared HTTP settings used by the fetch and download steps.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Also bounds a browser page load.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "inscrap/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetcherKind selects how datasheet pages are retrieved.
type FetcherKind string

const (
	// FetcherHTTP issues a plain GET and returns the raw response body.
	FetcherHTTP FetcherKind = "http"

	// FetcherBrowser drives headless Chrome over the DevTools protocol and
	// returns the rendered DOM.
	FetcherBrowser FetcherKind = "browser"

	// FetcherExec runs a browser binary with --dump-dom and returns stdout.
	FetcherExec FetcherKind = "exec"
)

// Valid reports whether k names a known fetch strategy.
func (k FetcherKind) Valid() bool {
	switch k {
	case FetcherHTTP, FetcherBrowser, FetcherExec:
		return true
	}
	return false
}

// FetchConfig holds settings for page retrieval.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the site root used both for the datasheet URL template and
	// for resolving relative download links (default "https://www.inrs.fr").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Fetcher selects the retrieval strategy: http, browser, or exec.
	Fetcher FetcherKind `json:"fetcher" yaml:"fetcher"`

	// BrowserPath is the browser executable used by the browser and exec
	// strategies. Empty means chromedp discovery (browser) or "chromium" on
	// PATH (exec).
	BrowserPath string `json:"browser_path,omitempty" yaml:"browser_path,omitempty"`
}

// ScrapConfig groups everything a batch run needs.
type ScrapConfig struct {
	FetchConfig `yaml:",inline"`

	// OutputDir receives downloaded files and inscrap.log.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// HistoryPath, when set, is a SQLite database that records every run.
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"`
}
