// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/inscrap/internal/extract"
	"github.com/pdiddy/inscrap/internal/fetch"
	"github.com/pdiddy/inscrap/internal/target"
)

var linksCmd = &cobra.Command{
	Use:   "links <identifier>",
	Short: "List the download links on one datasheet without downloading",
	Long: `Links fetches the datasheet page for <identifier> and prints every download
button link with whether it would be downloaded. Compare --fetcher http with
--fetcher browser to check whether the links need client-side rendering.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	addFetchFlags(linksCmd)
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	id, err := target.ParseIdentifier(args[0])
	if err != nil {
		return err
	}

	cfg, err := fetchConfig(cmd)
	if err != nil {
		return err
	}
	fetcher, err := fetch.New(&http.Client{Timeout: cfg.Timeout}, cfg)
	if err != nil {
		return err
	}

	content, err := fetcher.Fetch(cmd.Context(), id)
	if err != nil {
		return err
	}
	cands, err := extract.Links(content, cfg.BaseURL)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n", fetch.PageURL(cfg.BaseURL, id))
	if len(cands) == 0 {
		fmt.Fprintln(w, "no download links found")
		return nil
	}
	for _, c := range cands {
		status := "skip"
		if c.Accepted {
			status = "pdf "
		}
		fmt.Fprintf(w, "  %s  %s\n", status, c.URL)
	}
	return nil
}
