// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Candidate is one download link matched on a datasheet page.
type Candidate struct {
	// Href is the raw link target as written in the page.
	Href string `json:"href" yaml:"href"`

	// URL is Href resolved against the site root.
	URL string `json:"url" yaml:"url"`

	// Filename is the last path segment of URL.
	Filename string `json:"filename" yaml:"filename"`

	// Accepted reports whether Filename carries the exact "pdf" extension.
	Accepted bool `json:"accepted" yaml:"accepted"`
}

// DownloadOutcome records one download attempt. Err is nil on success.
type DownloadOutcome struct {
	URL      string `json:"url" yaml:"url"`
	Filename string `json:"filename" yaml:"filename"`
	Path     string `json:"path" yaml:"path"`
	Err      error  `json:"-" yaml:"-"`
}

// OK reports whether the file was written.
func (d DownloadOutcome) OK() bool {
	return d.Err == nil
}

// PageResult is the outcome of fetching one datasheet and downloading its
// documents.
type PageResult struct {
	ID         Identifier        `json:"id" yaml:"id"`
	PageURL    string            `json:"page_url" yaml:"page_url"`
	FetchErr   error             `json:"-" yaml:"-"`
	Candidates []Candidate       `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Downloads  []DownloadOutcome `json:"downloads,omitempty" yaml:"downloads,omitempty"`
	Duration   time.Duration     `json:"duration" yaml:"duration"`
}

// Found reports whether at least one document was saved.
func (r PageResult) Found() bool {
	for _, d := range r.Downloads {
		if d.OK() {
			return true
		}
	}
	return false
}

// Files returns the paths of the documents that were saved.
func (r PageResult) Files() []string {
	var out []string
	for _, d := range r.Downloads {
		if d.OK() {
			out = append(out, d.Path)
		}
	}
	return out
}

// RunResult holds the outcome of a batch run.
type RunResult struct {
	Targets  TargetSet    `json:"targets" yaml:"targets"`
	Pages    []PageResult `json:"pages" yaml:"pages"`
	Missing  []Identifier `json:"missing" yaml:"missing"`
	Started  time.Time    `json:"started" yaml:"started"`
	Finished time.Time    `json:"finished" yaml:"finished"`
}

// Found returns the number of targets for which at least one document was
// saved.
func (r RunResult) Found() int {
	return len(r.Pages) - len(r.Missing)
}

// HasMissing reports whether any target yielded no document.
func (r RunResult) HasMissing() bool {
	return len(r.Missing) > 0
}
