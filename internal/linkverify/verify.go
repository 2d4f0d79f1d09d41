// Package linkverify checks that the internal links of the built pages point
// at registered documents.
//
// Pages reference documents by the path the registry returned, possibly
// before those documents were declared. Verification runs after the whole
// site is declared and before anything is written.
package linkverify

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// Broken is an internal link without a registered target.
type Broken struct {
	Document string // path of the page containing the link
	URL      string // link as written
	Target   string // resolved document path that is missing
	Tag      string
}

// Verify scans every HTML document in deps and returns the links that
// resolve below baseURL but name no document in deps.
func Verify(deps []document.Document, baseURL string) ([]Broken, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.ValidationError("invalid base URL").
			WithContext("base_url", baseURL).
			Build()
	}

	registered := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		registered[d.Path] = struct{}{}
	}

	var broken []Broken
	for _, d := range deps {
		if d.Content.IsRaw() || !strings.HasSuffix(d.Path, ".html") {
			continue
		}
		page, err := ExtractLinks(bytes.NewReader(d.Content.Bytes()))
		if err != nil {
			if ce, ok := errors.AsClassified(err); ok {
				return nil, ce.WithContext("path", d.Path)
			}
			return nil, err
		}

		pageBase := documentBase(base, d.Path)
		if page.Base != "" {
			if u, err := pageBase.Parse(page.Base); err == nil {
				pageBase = u
			}
		}

		for _, l := range page.Links {
			if !ShouldVerifyLink(l.URL) {
				continue
			}
			target, internal := Resolve(base, pageBase, l.URL)
			if !internal {
				continue
			}
			if _, ok := registered[target]; !ok {
				broken = append(broken, Broken{Document: d.Path, URL: l.URL, Target: target, Tag: l.Tag})
			}
		}
	}
	return broken, nil
}

// Resolve maps a link found on a page to the document path it names. The
// second result is false for links outside the site.
func Resolve(site, pageBase *url.URL, raw string) (string, bool) {
	u, err := pageBase.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != site.Scheme && !(isHTTP(u.Scheme) && isHTTP(site.Scheme)) {
		return "", false
	}
	if !strings.EqualFold(u.Host, site.Host) {
		return "", false
	}

	sitePath := site.Path
	if !strings.HasSuffix(sitePath, "/") {
		sitePath += "/"
	}
	p := u.Path
	if p+"/" == sitePath {
		p = sitePath
	}
	if !strings.HasPrefix(p, sitePath) {
		return "", false
	}

	rel := strings.TrimPrefix(p, sitePath)
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return path.Clean(rel), true
}

// documentBase is the URL a page at docPath is served from.
func documentBase(site *url.URL, docPath string) *url.URL {
	dir := path.Dir(docPath)
	if dir == "." {
		return site
	}
	u, err := site.Parse(dir + "/")
	if err != nil {
		return site
	}
	return u
}

func isHTTP(scheme string) bool {
	return scheme == "http" || scheme == "https"
}
