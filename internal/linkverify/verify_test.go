package linkverify

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	ferrors "github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

const site = "https://i.love.software/"

func TestExtractLinks(t *testing.T) {
	page, err := ExtractLinks(strings.NewReader(`<!doctype html><html><head>
<base href="https://i.love.software/">
<link rel="icon" href="favicon-32x32.png?v=abc">
<script async src="js/calc-results.js"></script>
</head><body>
<a href="blog/">Blog</a><img src="images/x.png" alt="x"><a>no href</a>
</body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "https://i.love.software/", page.Base)
	require.Len(t, page.Links, 4)
	assert.Equal(t, Link{URL: "favicon-32x32.png?v=abc", Tag: "link", Attribute: "href"}, page.Links[0])
	assert.Equal(t, "script", page.Links[1].Tag)
	assert.Equal(t, "blog/", page.Links[2].URL)
	assert.Equal(t, "img", page.Links[3].Tag)
}

func TestShouldVerifyLink(t *testing.T) {
	tests := map[string]bool{
		"":                        false,
		"#top":                    false,
		"mailto:me@example.com":   false,
		"data:image/png;base64,x": false,
		"javascript:void(0)":      false,
		"blog/":                   true,
		"https://example.com/":    true,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ShouldVerifyLink(in))
		})
	}
}

func TestResolve(t *testing.T) {
	siteURL, err := url.Parse(site)
	require.NoError(t, err)
	sub, err := url.Parse("https://example.com/sub/")
	require.NoError(t, err)

	tests := []struct {
		name     string
		site     *url.URL
		base     string
		link     string
		want     string
		internal bool
	}{
		{"directory", siteURL, site, "blog/", "blog/index.html", true},
		{"root", siteURL, site, "", "index.html", true},
		{"query stripped", siteURL, site, "favicon.ico?v=1", "favicon.ico", true},
		{"fragment stripped", siteURL, site, "blog/hello/#intro", "blog/hello/index.html", true},
		{"absolute same host", siteURL, site, "https://i.love.software/CNAME", "CNAME", true},
		{"relative to page", siteURL, site + "blog/hello/", "../other/", "blog/other/index.html", true},
		{"external", siteURL, site, "https://github.com/davherrmann", "", false},
		{"sub path root", sub, "https://example.com/sub/", "https://example.com/sub", "index.html", true},
		{"outside sub path", sub, "https://example.com/sub/", "/elsewhere", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := url.Parse(tt.base)
			require.NoError(t, err)
			got, internal := Resolve(tt.site, base, tt.link)
			assert.Equal(t, tt.internal, internal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify(t *testing.T) {
	deps := []document.Document{
		document.New("index.html").WithText(`<base href="` + site + `"><a href="blog/">Blog</a><a href="blog/missing/">x</a>`),
		document.New("blog/index.html").WithText(`<base href="` + site + `"><a href="">Home</a><a href="#top">top</a>`),
		document.New("favicon.ico").WithRaw([]byte{0, 1, 2}),
		document.New("css/theme.css").WithText(`a{background:url(missing.png)}`),
	}

	broken, err := Verify(deps, site)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, Broken{Document: "index.html", URL: "blog/missing/", Target: "blog/missing/index.html", Tag: "a"}, broken[0])
}

func TestVerify_RelativeLinksWithoutBase(t *testing.T) {
	deps := []document.Document{
		document.New("blog/hello/index.html").WithText(`<a href="../">up</a>`),
		document.New("blog/index.html").WithText(`ok`),
	}

	broken, err := Verify(deps, site)
	require.NoError(t, err)
	assert.Empty(t, broken)
}

func TestVerify_InvalidBaseURL(t *testing.T) {
	_, err := Verify(nil, "not a url")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
