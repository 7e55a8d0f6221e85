// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"

	"github.com/pdiddy/inscrap/internal/httputil"
	"github.com/pdiddy/inscrap/pkg/types"
)

// HTTP fetches the raw page body with a single GET.
type HTTP struct {
	client *http.Client
	cfg    types.FetchConfig
}

// NewHTTP returns an HTTP fetcher. A nil client gets one bounded by
// cfg.Timeout.
func NewHTTP(client *http.Client, cfg types.FetchConfig) *HTTP {
	cfg = WithDefaults(cfg)
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTP{client: client, cfg: cfg}
}

func (f *HTTP) Fetch(ctx context.Context, id types.Identifier) (string, error) {
	url := PageURL(f.cfg.BaseURL, id)
	body, err := httputil.GetBody(ctx, f.client, url, f.cfg.UserAgent, "text/html")
	if err != nil {
		return "", &Error{ID: id, URL: url, Err: err}
	}
	return string(body), nil
}
