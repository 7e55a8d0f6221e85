// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/inscrap/pkg/types"
)

// Browser loads the page in headless Chrome so client-side scripts run
// before the DOM is serialized. Each Fetch starts and stops its own browser.
type Browser struct {
	cfg types.FetchConfig
}

func NewBrowser(cfg types.FetchConfig) *Browser {
	return &Browser{cfg: WithDefaults(cfg)}
}

// allocatorOptions returns the exec allocator options for cfg.
func (f *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.UserAgent(f.cfg.UserAgent))
	if f.cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.BrowserPath))
	}
	return opts
}

func (f *Browser) Fetch(ctx context.Context, id types.Identifier) (string, error) {
	url := PageURL(f.cfg.BaseURL, id)

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{ID: id, URL: url, Err: err}
	}
	return html, nil
}
