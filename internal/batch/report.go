// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inscrap/pkg/types"
)

// Report is the on-disk YAML summary of a run.
type Report struct {
	Input    string              `yaml:"input"`
	Kind     types.InputKind     `yaml:"kind"`
	Started  time.Time           `yaml:"started"`
	Finished time.Time           `yaml:"finished"`
	Summary  ReportSummary       `yaml:"summary"`
	Skipped  []types.LineOutcome `yaml:"skipped,omitempty"`
	Targets  []TargetReport      `yaml:"targets"`
}

// ReportSummary holds run counts.
type ReportSummary struct {
	Targets int                `yaml:"targets"`
	Found   int                `yaml:"found"`
	Missing []types.Identifier `yaml:"missing"`
}

// TargetReport describes one identifier's outcome.
type TargetReport struct {
	ID             types.Identifier `yaml:"id"`
	PageURL        string           `yaml:"page_url"`
	Found          bool             `yaml:"found"`
	Files          []string         `yaml:"files,omitempty"`
	Rejected       []string         `yaml:"rejected,omitempty"`
	FetchError     string           `yaml:"fetch_error,omitempty"`
	DownloadErrors []string         `yaml:"download_errors,omitempty"`
}

// NewReport builds a Report from a finished run.
func NewReport(res types.RunResult) Report {
	r := Report{
		Input:    res.Targets.Input,
		Kind:     res.Targets.Kind,
		Started:  res.Started,
		Finished: res.Finished,
		Skipped:  res.Targets.Skipped(),
		Summary: ReportSummary{
			Targets: len(res.Pages),
			Found:   res.Found(),
			Missing: res.Missing,
		},
	}
	for _, p := range res.Pages {
		tr := TargetReport{
			ID:      p.ID,
			PageURL: p.PageURL,
			Found:   p.Found(),
			Files:   p.Files(),
		}
		if p.FetchErr != nil {
			tr.FetchError = p.FetchErr.Error()
		}
		for _, c := range p.Candidates {
			if !c.Accepted {
				tr.Rejected = append(tr.Rejected, c.URL)
			}
		}
		for _, d := range p.Downloads {
			if !d.OK() {
				tr.DownloadErrors = append(tr.DownloadErrors, d.Err.Error())
			}
		}
		r.Targets = append(r.Targets, tr)
	}
	return r
}

// WriteReport saves the run summary to a YAML file.
func WriteReport(path string, res types.RunResult) error {
	rep := NewReport(res)
	data, err := yaml.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously written report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rep Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}
