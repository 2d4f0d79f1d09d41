package site

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/frontmatter"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// PostPattern selects the post sources below the source root.
const PostPattern = "blog/*.md"

// DateLayout is how post dates are shown.
const DateLayout = "January 2, 2006"

// Post is a loaded and rendered post body, not yet wrapped in a page.
type Post struct {
	Content document.Document
	Source  string
	Title   string
	Date    time.Time
}

// Posts loads every post, newest first. Posts of the same day are ordered by
// source path.
func (s *Site) Posts(ctx context.Context) ([]Post, error) {
	paths, err := s.root.Glob(PostPattern)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(paths))
	for _, p := range paths {
		content, err := s.Content(ctx, p)
		if err != nil {
			return nil, err
		}
		date, _ := postDate(content.Meta)
		posts = append(posts, Post{
			Content: content,
			Source:  p,
			Title:   content.Meta.String("title"),
			Date:    date,
		})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Source < posts[j].Source
	})
	return posts, nil
}

// Content builds the content-only document of a post.
func (s *Site) Content(ctx context.Context, p string) (document.Document, error) {
	return s.factory.Path(ctx, p, s.read, s.frontMatter, s.markdown, fallbackTitle(p))
}

// fallbackTitle sets meta.title from the source file name unless front
// matter provided one.
func fallbackTitle(source string) plugin.Plugin {
	return plugin.Func("fallbackTitle", func(pc plugin.Context) (document.Document, error) {
		if pc.File.Meta.String("title") != "" {
			return pc.File, nil
		}
		return pc.File.OverrideMeta("title", postTitle(pc.File.Meta, source)), nil
	})
}

// Permalink wraps a post's content in a full page, registers it and returns
// the link to it.
func (s *Site) Permalink(ctx context.Context, post Post) (string, error) {
	href, err := s.registry.Link(ctx, s.factory, document.FromDocument(post.Content), s.PagePlugins()...)
	if err != nil {
		return "", err
	}
	s.logger.Debug("Linked post", logfields.Path(href))
	return plugin.Normalise(href), nil
}

// PagePlugins turns a post's content document into its permalink page.
func (s *Site) PagePlugins() []plugin.Plugin {
	return []plugin.Plugin{s.render("post"), s.render("frame"), plugin.Index(), s.minifyHTML}
}

func postDate(meta document.Meta) (time.Time, bool) {
	v, ok := meta["date"]
	if !ok {
		return time.Time{}, false
	}
	t, err := frontmatter.ParseDate(v)
	return t, err == nil
}

func formatDate(meta document.Meta) string {
	t, ok := postDate(meta)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// postTitle falls back to the file name, title cased, when front matter has no title.
func postTitle(meta document.Meta, p string) string {
	if t := meta.String("title"); t != "" {
		return t
	}
	slug := strings.TrimSuffix(path.Base(p), path.Ext(p))
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(words)
}
