// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/inscrap/internal/fetch"
	"github.com/pdiddy/inscrap/internal/scrap"
	"github.com/pdiddy/inscrap/internal/target"
	"github.com/pdiddy/inscrap/pkg/types"
)

// stubScraper returns canned results and records the identifiers it saw.
type stubScraper struct {
	found map[types.Identifier]bool
	fail  map[types.Identifier]bool
	seen  []types.Identifier

	// onScrap, when set, runs before the result is built.
	onScrap func(id types.Identifier)
}

func (s *stubScraper) Scrap(ctx context.Context, id types.Identifier, outDir string) types.PageResult {
	s.seen = append(s.seen, id)
	if s.onScrap != nil {
		s.onScrap(id)
	}
	res := types.PageResult{ID: id}
	switch {
	case ctx.Err() != nil:
		res.FetchErr = &fetch.Error{ID: id, URL: "http://x", Err: ctx.Err()}
	case s.fail[id]:
		res.FetchErr = &fetch.Error{ID: id, URL: "http://x", Err: errors.New("connection refused")}
	case s.found[id]:
		res.Downloads = []types.DownloadOutcome{{URL: "http://x/a.pdf", Filename: "a.pdf", Path: filepath.Join(outDir, "a.pdf")}}
	}
	return res
}

type stubRecorder struct {
	calls int
	got   types.RunResult
}

func (r *stubRecorder) Record(_ context.Context, _ string, res types.RunResult) (int64, error) {
	r.calls++
	r.got = res
	return 1, nil
}

func readLog(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, LogName))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SingleTargetFound(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	s := &stubScraper{found: map[types.Identifier]bool{87: true}}
	var buf bytes.Buffer

	res, err := Run(context.Background(), s, "87", Options{OutputDir: out}, &buf)
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{87}, s.seen)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 1, res.Found())
	assert.Equal(t, []string{
		"[+] Identify input as a single target : 87",
		"[+] Files found for compound 87",
	}, readLog(t, out))
	assert.NotContains(t, buf.String(), "WARNING")
}

func TestRun_FileInputWithMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	input := writeTargets(t, "87\nabc\n12\n")
	s := &stubScraper{found: map[types.Identifier]bool{87: true}}
	var buf bytes.Buffer

	res, err := Run(context.Background(), s, input, Options{OutputDir: out}, &buf)
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{87, 12}, s.seen)
	assert.Equal(t, []types.Identifier{12}, res.Missing)
	assert.Equal(t, []string{
		"[+] Identify input as a file : " + input,
		"[+] Load target 87 from file : " + input,
		"[+] Load target 12 from file : " + input,
		"[+] Files found for compound 87",
		"[!] No files found for compound 12",
	}, readLog(t, out))
	assert.Contains(t, buf.String(), "[WARNING] No document found for target 12\n")
	assert.NotContains(t, buf.String(), "abc")
}

func TestRun_LogsRawLineText(t *testing.T) {
	out := t.TempDir()
	input := writeTargets(t, "007 \n")

	_, err := Run(context.Background(), &stubScraper{}, input, Options{OutputDir: out}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, readLog(t, out), "[+] Load target 007 from file : "+input)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	out := t.TempDir()
	input := writeTargets(t, "87\n87\n87\n")
	s := &stubScraper{}
	var buf bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, s, input, Options{OutputDir: out}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, s.seen)
	assert.Empty(t, res.Pages)
	assert.Empty(t, res.Missing)
	assert.NotContains(t, buf.String(), "WARNING")
	assert.Contains(t, buf.String(), "[!] Run interrupted after 0 of 3 target(s)")

	lines := readLog(t, out)
	assert.Contains(t, lines, "[!] Run interrupted after 0 of 3 target(s) : context canceled")
	for _, l := range lines {
		assert.NotContains(t, l, "No files found")
		assert.NotContains(t, l, "Fetch failed")
	}
}

func TestRun_CancelledMidRun(t *testing.T) {
	out := t.TempDir()
	input := writeTargets(t, "1\n2\n3\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &stubScraper{
		found: map[types.Identifier]bool{1: true, 2: true, 3: true},
		onScrap: func(id types.Identifier) {
			if id == 2 {
				cancel()
			}
		},
	}
	var buf bytes.Buffer

	res, err := Run(ctx, s, input, Options{OutputDir: out}, &buf)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []types.Identifier{1, 2}, s.seen)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, types.Identifier(1), res.Pages[0].ID)
	assert.Empty(t, res.Missing)
	assert.NotContains(t, buf.String(), "WARNING")
	assert.Contains(t, readLog(t, out), "[+] Files found for compound 1")
	assert.NotContains(t, readLog(t, out), "[!] No files found for compound 2")
}

func TestRun_FetchFailureContinues(t *testing.T) {
	out := t.TempDir()
	input := writeTargets(t, "1\n2\n")
	s := &stubScraper{
		fail:  map[types.Identifier]bool{1: true},
		found: map[types.Identifier]bool{2: true},
	}

	res, err := Run(context.Background(), s, input, Options{OutputDir: out}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{1, 2}, s.seen)
	assert.Equal(t, []types.Identifier{1}, res.Missing)

	lines := readLog(t, out)
	assert.Contains(t, lines, "[!] Fetch failed for compound 1 : fetching http://x: connection refused")
	assert.Contains(t, lines, "[!] No files found for compound 1")
	assert.Contains(t, lines, "[+] Files found for compound 2")
}

func TestRun_RejectsUnparseableInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	s := &stubScraper{}
	var buf bytes.Buffer

	_, err := Run(context.Background(), s, "benzene", Options{OutputDir: out}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, target.ErrInputParse)

	assert.Equal(t, "[!] Can't parse benzene as a valid input\n", buf.String())
	assert.Empty(t, s.seen)
	_, statErr := os.Stat(filepath.Join(out, LogName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_RejectsEmptyFile(t *testing.T) {
	out := t.TempDir()
	input := writeTargets(t, "")
	var buf bytes.Buffer

	_, err := Run(context.Background(), &stubScraper{}, input, Options{OutputDir: out}, &buf)
	assert.ErrorIs(t, err, target.ErrNoTargets)
	assert.Equal(t, fmt.Sprintf("[!] No valid target found in %s\n", input), buf.String())

	_, statErr := os.Stat(filepath.Join(out, LogName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_OutputDirSingleLevel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "out")

	_, err := Run(context.Background(), &stubScraper{}, "1", Options{OutputDir: out}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_OutputPathIsFile(t *testing.T) {
	out := writeTargets(t, "1\n")

	_, err := Run(context.Background(), &stubScraper{}, "1", Options{OutputDir: out}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_WritesReportAndHistory(t *testing.T) {
	out := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "report.yaml")
	input := writeTargets(t, "3\nxx\n4\n")
	rec := &stubRecorder{}
	s := &stubScraper{found: map[types.Identifier]bool{3: true}}

	_, err := Run(context.Background(), s, input, Options{OutputDir: out, ReportPath: reportPath, History: rec}, &bytes.Buffer{})
	require.NoError(t, err)

	rep, err := ReadReport(reportPath)
	require.NoError(t, err)
	assert.Equal(t, types.InputFile, rep.Kind)
	assert.Equal(t, 2, rep.Summary.Targets)
	assert.Equal(t, 1, rep.Summary.Found)
	assert.Equal(t, []types.Identifier{4}, rep.Summary.Missing)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, "xx", rep.Skipped[0].Text)
	require.Len(t, rep.Targets, 2)
	assert.True(t, rep.Targets[0].Found)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []types.Identifier{4}, rec.got.Missing)
}

// End to end against a fake INRS site.

func fakeSite(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/publications/bdd/fichetox/fiche.html":
			if r.URL.Query().Get("refINRS") == "FICHETOX_87" {
				fmt.Fprint(w, `<html><body><a class="boutonImportant orange" href="dms/sheet.pdf">PDF</a></body></html>`)
				return
			}
			fmt.Fprint(w, `<html><body><a class="boutonImportant orange" href="dms/report.PDF">PDF</a></body></html>`)
		case "/dms/sheet.pdf":
			fmt.Fprint(w, "%PDF-1.4 sheet")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_EndToEndRerunOverwrites(t *testing.T) {
	ts := fakeSite(t)
	cfg := types.FetchConfig{BaseURL: ts.URL}
	s := scrap.New(ts.Client(), fetch.NewHTTP(ts.Client(), cfg), cfg, nil)
	out := filepath.Join(t.TempDir(), "out")

	for i := 0; i < 2; i++ {
		res, err := Run(context.Background(), s, "87", Options{OutputDir: out}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Empty(t, res.Missing)
	}

	assert.Equal(t, []string{
		"[+] Identify input as a single target : 87",
		"[+] Files found for compound 87",
	}, readLog(t, out))

	data, err := os.ReadFile(filepath.Join(out, "sheet.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 sheet", string(data))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun_EndToEndUppercaseExtension(t *testing.T) {
	ts := fakeSite(t)
	cfg := types.FetchConfig{BaseURL: ts.URL}
	s := scrap.New(ts.Client(), fetch.NewHTTP(ts.Client(), cfg), cfg, nil)
	out := t.TempDir()
	var buf bytes.Buffer

	res, err := Run(context.Background(), s, "9", Options{OutputDir: out}, &buf)
	require.NoError(t, err)

	assert.Equal(t, []types.Identifier{9}, res.Missing)
	assert.Contains(t, buf.String(), "[WARNING] No document found for target 9")
	assert.Contains(t, readLog(t, out), "[!] No files found for compound 9")
}
