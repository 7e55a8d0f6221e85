// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/inscrap/internal/fetch"
	"github.com/pdiddy/inscrap/pkg/types"
)

// Config keys shared by flags, the config file, and INSCRAP_* variables.
const (
	keyBaseURL     = "base_url"
	keyTimeout     = "timeout"
	keyUserAgent   = "user_agent"
	keyFetcher     = "fetcher"
	keyBrowserPath = "browser_path"
	keyHistory     = "history"
)

// addFetchFlags registers the flags that shape page retrieval.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("fetcher", "", "page retrieval strategy: http, browser, or exec (default http)")
	cmd.Flags().String("browser-path", "", "browser executable for the browser and exec fetchers")
	cmd.Flags().Duration("timeout", 0, "HTTP request and page load timeout (default 60s)")
	cmd.Flags().String("base-url", "", "site root (default https://www.inrs.fr)")
	cmd.Flags().String("user-agent", "", "User-Agent header (default inscrap/0.1)")
}

// stringSetting returns the flag value when set on the command line, and the
// config/environment value otherwise.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	return viper.GetDuration(key)
}

// fetchConfig layers flags over config over defaults.
func fetchConfig(cmd *cobra.Command) (types.FetchConfig, error) {
	cfg := fetch.WithDefaults(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "timeout", keyTimeout),
			UserAgent: stringSetting(cmd, "user-agent", keyUserAgent),
		},
		BaseURL:     stringSetting(cmd, "base-url", keyBaseURL),
		Fetcher:     types.FetcherKind(stringSetting(cmd, "fetcher", keyFetcher)),
		BrowserPath: stringSetting(cmd, "browser-path", keyBrowserPath),
	})
	if !cfg.Fetcher.Valid() {
		return cfg, fmt.Errorf("unknown fetcher %q (want http, browser, or exec)", cfg.Fetcher)
	}
	return cfg, nil
}
