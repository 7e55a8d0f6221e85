// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds document download links on a datasheet page.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/inscrap/pkg/types"
)

// ButtonClass is the class attribute carried by download buttons on INRS
// datasheet pages.
const ButtonClass = "boutonImportant orange"

// DocumentExt is the only extension that is downloaded. Matching is exact
// and case-sensitive.
const DocumentExt = "pdf"

// Links parses content and returns, in document order, every distinct
// download link whose anchor carries ButtonClass. Relative links are
// resolved against baseURL. Candidates whose filename does not end in
// ".pdf" are returned with Accepted == false.
func Links(content, baseURL string) ([]types.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var out []types.Candidate
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if normalizeClass(class) != ButtonClass {
			return
		}
		href, _ := s.Attr("href")
		abs := Resolve(baseURL, href)
		if seen[abs] {
			return
		}
		seen[abs] = true

		name := Filename(abs)
		out = append(out, types.Candidate{
			Href:     href,
			URL:      abs,
			Filename: name,
			Accepted: HasDocumentExt(name),
		})
	})
	return out, nil
}

// Accepted filters candidates down to those that will be downloaded.
func Accepted(cands []types.Candidate) []types.Candidate {
	var out []types.Candidate
	for _, c := range cands {
		if c.Accepted {
			out = append(out, c)
		}
	}
	return out
}

// Resolve returns href unchanged when it is an absolute URL. A
// protocol-relative href ("//host/path") takes the scheme of baseURL. Any
// other href is joined to baseURL with exactly one slash between them.
func Resolve(baseURL, href string) string {
	if u, err := url.Parse(href); err == nil {
		if u.IsAbs() {
			return href
		}
		if u.Host != "" {
			if base, err := url.Parse(baseURL); err == nil {
				return base.ResolveReference(u).String()
			}
		}
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}

// Filename returns everything after the last slash of rawURL.
func Filename(rawURL string) string {
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}

// HasDocumentExt reports whether name ends in "." + DocumentExt.
func HasDocumentExt(name string) bool {
	i := strings.LastIndex(name, ".")
	return i >= 0 && name[i+1:] == DocumentExt
}

func normalizeClass(class string) string {
	return strings.Join(strings.Fields(class), " ")
}
