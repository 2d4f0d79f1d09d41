package factory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	ferrors "github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin/transforms"
	"github.com/davherrmann/davherrmann.github.io/internal/source"
)

func newFactory(t *testing.T) *Factory {
	t.Helper()
	cfg := config.Example()
	return New(&cfg)
}

// counting returns a text plugin that appends suffix and counts invocations.
func counting(name, suffix string, calls *atomic.Int32) plugin.Plugin {
	return plugin.TextFunc(name, func(pc plugin.Context) (document.Document, error) {
		calls.Add(1)
		return pc.File.WithText(pc.File.Content.String() + suffix), nil
	})
}

func TestBuild_PathSourceStartsEmpty(t *testing.T) {
	f := newFactory(t)

	doc, err := f.Path(context.Background(), "./blog/../about.html")
	require.NoError(t, err)
	assert.Equal(t, "about.html", doc.Path)
	assert.Equal(t, "", doc.Content.String())
	assert.Empty(t, doc.Meta)
	assert.NotEmpty(t, doc.Key())
}

func TestBuild_InvalidPathIsSourceError(t *testing.T) {
	f := newFactory(t)

	for _, p := range []string{"", "/etc/passwd", "../outside.html"} {
		t.Run(p, func(t *testing.T) {
			_, err := f.Path(context.Background(), p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ferrors.ErrSourceRead)
		})
	}
}

func TestBuild_MemoizesIdenticalRequests(t *testing.T) {
	f := newFactory(t)
	var calls atomic.Int32

	first, err := f.Path(context.Background(), "a.html", counting("side", "x", &calls))
	require.NoError(t, err)
	second, err := f.Path(context.Background(), "a.html", counting("side", "x", &calls))
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, first.Equal(second))
	assert.Equal(t, Stats{Builds: 1, Hits: 1}, f.Stats())
	if diff := cmp.Diff(first.Meta, second.Meta); diff != "" {
		t.Errorf("meta differs between identical builds (-first +second):\n%s", diff)
	}
}

func TestBuild_DifferentChainsAreDistinct(t *testing.T) {
	f := newFactory(t)
	var calls atomic.Int32

	a, err := f.Path(context.Background(), "a.html", counting("x", "x", &calls))
	require.NoError(t, err)
	b, err := f.Path(context.Background(), "a.html", counting("y", "y", &calls))
	require.NoError(t, err)
	c, err := f.Path(context.Background(), "b.html", counting("x", "x", &calls))
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "x", a.Content.String())
	assert.Equal(t, "y", b.Content.String())
	assert.Equal(t, "b.html", c.Path)
}

func TestBuild_BuiltSourceRunsOnlyNewChain(t *testing.T) {
	f := newFactory(t)
	var first, second atomic.Int32

	content, err := f.Path(context.Background(), "post.md", counting("phase1", "1", &first))
	require.NoError(t, err)

	page, err := f.From(context.Background(), content, counting("phase2", "2", &second))
	require.NoError(t, err)
	assert.Equal(t, "12", page.Content.String())

	again, err := f.From(context.Background(), content, counting("phase2", "2", &second))
	require.NoError(t, err)
	assert.True(t, page.Equal(again))

	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestBuild_ForeignDocumentsKeyOnContent(t *testing.T) {
	f := newFactory(t)
	var calls atomic.Int32

	a := document.New("x.html").WithText("a")
	b := document.New("x.html").WithText("b")

	_, err := f.From(context.Background(), a, counting("p", "", &calls))
	require.NoError(t, err)
	_, err = f.From(context.Background(), b, counting("p", "", &calls))
	require.NoError(t, err)
	_, err = f.From(context.Background(), a, counting("p", "", &calls))
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestBuild_EditedDocumentIsNotServedFromCache(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	render := plugin.Render("a", func(plugin.Context) (string, error) { return "A", nil })
	echo := plugin.TextFunc("echo", func(pc plugin.Context) (document.Document, error) {
		return pc.File.WithText("echo:" + pc.File.Content.String()), nil
	})

	base, err := f.Path(ctx, "a.html", render)
	require.NoError(t, err)
	page, err := f.From(ctx, base, echo)
	require.NoError(t, err)
	require.Equal(t, "echo:A", page.Content.String())

	edited := base.WithText("B")
	assert.Empty(t, edited.Key())
	page, err = f.From(ctx, edited, echo)
	require.NoError(t, err)
	assert.Equal(t, "echo:B", page.Content.String())

	retitled := base.Clone()
	retitled.Meta["title"] = "changed"
	page, err = f.From(ctx, retitled, plugin.Func("title", func(pc plugin.Context) (document.Document, error) {
		return pc.File.WithText(pc.File.Meta.String("title")), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "changed", page.Content.String())

	assert.Equal(t, Stats{Builds: 4, Hits: 0}, f.Stats())
}

func TestBuild_ReturnedMetaIsDetached(t *testing.T) {
	f := newFactory(t)

	doc, err := f.Path(context.Background(), "a.html", plugin.Title("A"))
	require.NoError(t, err)
	doc.Meta["title"] = "mutated"

	again, err := f.Path(context.Background(), "a.html", plugin.Title("A"))
	require.NoError(t, err)
	assert.Equal(t, "A", again.Meta.String("title"))
}

func TestBuild_FailuresAreNotCached(t *testing.T) {
	f := newFactory(t)
	fsys := fstest.MapFS{}
	root := source.NewRoot(fsys)

	_, err := f.Path(context.Background(), "late.md", transforms.Read(root))
	require.Error(t, err)
	assert.ErrorIs(t, err, ferrors.ErrSourceRead)

	fsys["late.md"] = &fstest.MapFile{Data: []byte("now here")}
	doc, err := f.Path(context.Background(), "late.md", transforms.Read(root))
	require.NoError(t, err)
	assert.Equal(t, "now here", doc.Content.String())
}

func TestBuild_DetectsCycles(t *testing.T) {
	f := newFactory(t)

	var self plugin.Plugin
	self = plugin.Render("self", func(pc plugin.Context) (string, error) {
		doc, err := f.Path(pc.Context, "loop.html", self)
		return doc.Content.String(), err
	})

	_, err := f.Path(context.Background(), "loop.html", self)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
	assert.ErrorIs(t, err, ferrors.ErrTransform)
}

func TestBuild_NestedBuildsShareTheCache(t *testing.T) {
	f := newFactory(t)
	var partial atomic.Int32

	page := func(name string) plugin.Plugin {
		return plugin.Render(name, func(pc plugin.Context) (string, error) {
			doc, err := f.Path(pc.Context, "partial.html", counting("partial", "<p>shared</p>", &partial))
			return name + doc.Content.String(), err
		})
	}

	a, err := f.Path(context.Background(), "a.html", page("a"))
	require.NoError(t, err)
	b, err := f.Path(context.Background(), "b.html", page("b"))
	require.NoError(t, err)

	assert.Equal(t, "a<p>shared</p>", a.Content.String())
	assert.Equal(t, "b<p>shared</p>", b.Content.String())
	assert.Equal(t, int32(1), partial.Load())
}

func TestBuild_ConcurrentRequestsRunOnce(t *testing.T) {
	f := newFactory(t)
	var calls atomic.Int32

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Path(context.Background(), "hot.html", counting("hot", "!", &calls))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestKeyIsStructural(t *testing.T) {
	src := document.FromPath("a.html")
	assert.Equal(t, Key(src, plugin.Index(), plugin.Title("A")), Key(src, plugin.Index(), plugin.Title("A")))
	assert.NotEqual(t, Key(src, plugin.Index(), plugin.Title("A")), Key(src, plugin.Title("A"), plugin.Index()))
	assert.Equal(t, `path:a.html|index,title("A")`, Key(src, plugin.Index(), plugin.Title("A")))
}
