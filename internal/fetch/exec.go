// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/pdiddy/inscrap/pkg/types"
)

const defaultBrowserBin = "chromium"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var defaultExec executor = &osExecutor{}

// Exec runs a browser binary in headless mode and reads the rendered DOM
// from its standard output.
type Exec struct {
	bin  string
	cfg  types.FetchConfig
	exec executor
}

// NewExec resolves the browser binary (cfg.BrowserPath, or chromium on PATH)
// and fails early when it cannot be found.
func NewExec(cfg types.FetchConfig) (*Exec, error) {
	return newExec(cfg, defaultExec)
}

func newExec(cfg types.FetchConfig, ex executor) (*Exec, error) {
	cfg = WithDefaults(cfg)
	bin := cfg.BrowserPath
	if bin == "" {
		bin = defaultBrowserBin
	}
	path, err := ex.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("browser %s not available: %w", bin, err)
	}
	return &Exec{bin: path, cfg: cfg, exec: ex}, nil
}

func (f *Exec) args(url string) []string {
	return []string{
		"--headless",
		"--disable-gpu",
		"--user-agent=" + f.cfg.UserAgent,
		"--dump-dom",
		url,
	}
}

func (f *Exec) Fetch(ctx context.Context, id types.Identifier) (string, error) {
	url := PageURL(f.cfg.BaseURL, id)

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	out, err := f.exec.Output(ctx, f.bin, f.args(url)...)
	if err != nil {
		return "", &Error{ID: id, URL: url, Err: fmt.Errorf("running %s: %w", f.bin, err)}
	}
	return string(out), nil
}
