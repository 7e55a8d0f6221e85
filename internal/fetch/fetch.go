// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves datasheet pages from the INRS toxicology database.
// Three interchangeable strategies sit behind Fetcher: a direct HTTP GET, a
// headless Chrome session driven over the DevTools protocol, and a browser
// binary invoked with --dump-dom.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/inscrap/pkg/types"
)

const (
	// DefaultBaseURL is the INRS site root.
	DefaultBaseURL   = "https://www.inrs.fr"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "inscrap/0.1"

	pagePath = "/publications/bdd/fichetox/fiche.html?refINRS=FICHETOX_"
)

// Fetcher returns the textual content of the datasheet page for an
// identifier.
type Fetcher interface {
	Fetch(ctx context.Context, id types.Identifier) (string, error)
}

// Error is returned by every Fetcher when the page could not be retrieved.
// It is distinct from a page that loaded but carries no download link.
type Error struct {
	ID  types.Identifier
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// PageURL builds the datasheet URL for id under baseURL.
func PageURL(baseURL string, id types.Identifier) string {
	return strings.TrimRight(baseURL, "/") + pagePath + id.String()
}

// WithDefaults fills zero fields of cfg with the documented defaults.
func WithDefaults(cfg types.FetchConfig) types.FetchConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Fetcher == "" {
		cfg.Fetcher = types.FetcherHTTP
	}
	return cfg
}

// New returns the Fetcher selected by cfg.Fetcher. The HTTP strategy uses
// client; the others ignore it.
func New(client *http.Client, cfg types.FetchConfig) (Fetcher, error) {
	cfg = WithDefaults(cfg)
	switch cfg.Fetcher {
	case types.FetcherHTTP:
		return NewHTTP(client, cfg), nil
	case types.FetcherBrowser:
		return NewBrowser(cfg), nil
	case types.FetcherExec:
		return NewExec(cfg)
	default:
		return nil, fmt.Errorf("unknown fetcher %q (want http, browser, or exec)", cfg.Fetcher)
	}
}
