package site

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/factory"
	ferrors "github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/registry"
	"github.com/davherrmann/davherrmann.github.io/internal/source"
)

// SourceTree returns a minimal but complete source root.
func sourceTree() fstest.MapFS {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff}
	return fstest.MapFS{
		"blog/hello.md":               {Data: []byte("---\ntitle: \"Hello\"\ndate: 2020-01-01\n---\n# Hi\n")},
		"blog/second-post.md":         {Data: []byte("---\ndate: 2021-03-04\n---\nMore *words*.\n")},
		"css/theme.css":               {Data: []byte("body {\n  color: #ff0000;\n}\n")},
		"js/calc-results.js":          {Data: []byte("console.log('hi')\n")},
		"images/heart-o.svg":          {Data: []byte(`<svg viewBox="0 0 1 1"></svg>`)},
		"apple-touch-icon.png":        {Data: png},
		"favicon-32x32.png":           {Data: png},
		"favicon-16x16.png":           {Data: png},
		"favicon.ico":                 {Data: png},
		"manifest.json":               {Data: []byte(`{"name":"site"}`)},
		"safari-pinned-tab.svg":       {Data: []byte(`<svg></svg>`)},
		"CNAME":                       {Data: []byte("i.love.software")},
		"google01a0df28d4492e88.html": {Data: []byte("google-site-verification: google01a0df28d4492e88.html")},
		"mstile-150x150.png":          {Data: png},
		"android-chrome-192x192.png":  {Data: png},
		"android-chrome-512x512.png":  {Data: png},
	}
}

func declare(t *testing.T, fsys fstest.MapFS) (*registry.Registry, error) {
	t.Helper()
	cfg := config.Example()
	f := factory.New(&cfg)
	reg := registry.New()
	s := New(f, reg, source.NewRoot(fsys), nil)
	return reg, s.Declare(context.Background())
}

func find(t *testing.T, reg *registry.Registry, p string) document.Document {
	t.Helper()
	for _, d := range reg.Dependencies() {
		if d.Path == p {
			return d
		}
	}
	t.Fatalf("%s not registered; have %v", p, reg.Paths())
	return document.Document{}
}

func TestDeclare_RegistersEveryArtifact(t *testing.T) {
	reg, err := declare(t, sourceTree())
	require.NoError(t, err)

	want := []string{
		"blog/index.html",
		"index.html",
		"blog/hello/index.html",
		"blog/second-post/index.html",
		"apple-touch-icon.png",
		"favicon-32x32.png",
		"favicon-16x16.png",
		"manifest.json",
		"safari-pinned-tab.svg",
		"favicon.ico",
		"js/calc-results.js",
		"CNAME",
		"google01a0df28d4492e88.html",
		"mstile-150x150.png",
		"android-chrome-192x192.png",
		"android-chrome-512x512.png",
	}
	assert.ElementsMatch(t, want, reg.Paths())

	// Inlined sources are built but never published.
	assert.False(t, reg.Has("images/heart-o.svg"))
	assert.False(t, reg.Has("css/theme.css"))
	assert.False(t, reg.Has("blog/hello.md"))
}

func TestDeclare_PostPermalinkPage(t *testing.T) {
	reg, err := declare(t, sourceTree())
	require.NoError(t, err)

	page := find(t, reg, "blog/hello/index.html")
	html := page.Content.String()
	assert.Equal(t, "Hello", page.Meta.String("title"))
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Hi")
	assert.Contains(t, html, "January 1, 2020")
	assert.NotContains(t, html, "# Hi")
	assert.NotRegexp(t, `\s\s`, html)
	assert.Contains(t, html, "SOFTWARE")
	assert.Contains(t, html, "favicon.ico?v=aljv5RGPao")
	assert.Contains(t, html, "https://i.love.software/")
	assert.Contains(t, html, "body{")
}

func TestDeclare_HomeListsPostsNewestFirst(t *testing.T) {
	reg, err := declare(t, sourceTree())
	require.NoError(t, err)

	home := find(t, reg, "index.html").Content.String()
	second := strings.Index(home, "blog/second-post/")
	hello := strings.Index(home, "blog/hello/")
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, hello)
	assert.Less(t, second, hello)

	// Title falls back to the file name.
	assert.Contains(t, home, "Second Post")
	assert.NotContains(t, home, "index.html\"")
}

func TestDeclare_BlogListLinksPermalinks(t *testing.T) {
	reg, err := declare(t, sourceTree())
	require.NoError(t, err)

	list := find(t, reg, "blog/index.html")
	assert.Equal(t, "Blog", list.Meta.String("title"))
	assert.Contains(t, list.Content.String(), `<a href="blog/hello/">Hello</a>`)
	assert.Contains(t, list.Content.String(), "March 4, 2021")
	assert.Contains(t, list.Content.String(), "Blog &middot; I ♡ SOFTWARE")
	assert.Contains(t, list.Content.String(), `<svg viewBox="0 0 1 1"></svg>`)
	assert.Contains(t, list.Content.String(), `<a href="blog/">Blog</a>`)
}

func TestDeclare_BinaryAssetsStayByteIdentical(t *testing.T) {
	fsys := sourceTree()
	reg, err := declare(t, fsys)
	require.NoError(t, err)

	icon := find(t, reg, "favicon.ico")
	assert.True(t, icon.Content.IsRaw())
	assert.Equal(t, fsys["favicon.ico"].Data, icon.Content.Bytes())
}

func TestDeclare_MissingAssetIsFatal(t *testing.T) {
	fsys := sourceTree()
	delete(fsys, "manifest.json")

	_, err := declare(t, fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ferrors.ErrSourceRead)
}

func TestDeclare_MalformedFrontMatterIsTransformError(t *testing.T) {
	fsys := sourceTree()
	fsys["blog/broken.md"] = &fstest.MapFile{Data: []byte("---\ntitle: broken\n")}

	_, err := declare(t, fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ferrors.ErrTransform)
}

func TestDeclare_UntitledPostGetsFallbackTitle(t *testing.T) {
	reg, err := declare(t, sourceTree())
	require.NoError(t, err)

	page := find(t, reg, "blog/second-post/index.html")
	assert.Equal(t, "Second Post", page.Meta.String("title"))
}

func TestPostTitle(t *testing.T) {
	assert.Equal(t, "Given", postTitle(document.Meta{"title": "Given"}, "blog/x.md"))
	assert.Equal(t, "Hello World", postTitle(document.Meta{}, "blog/hello-world.md"))
	assert.Equal(t, "Snake Case", postTitle(nil, "blog/snake_case.md"))
}
