package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templates holds the parsed layouts. The functions below only declare the
// names; Site.funcs binds them per execution so nested builds see the
// caller's context.
var templates = template.Must(template.New("site").Funcs(template.FuncMap{
	"cacheBust": func(string) string { return "" },
	"linkRaw":   unbound,
	"linkRead":  unbound,
	"inline":    unbound,
	"inlineCSS": unbound,
	"posts":     func() (string, error) { return "", nil },
	"postItems": func() (string, error) { return "", nil },
}).ParseFS(templateFS, "templates/*.tmpl"))

func unbound(string) (string, error) { return "", nil }

// view is the data a layout renders.
type view struct {
	Config    *config.Config
	Path      string
	Meta      document.Meta
	Body      string
	Heading   string
	PageTitle string
	Date      string
	Permalink string
}

func (s *Site) newView(pc plugin.Context) view {
	heading := pc.File.Meta.String("title")
	pageTitle := s.cfg.Title
	if heading != "" {
		pageTitle = heading + " &middot; " + s.cfg.Title
	}
	return view{
		Config:    pc.Config,
		Path:      pc.File.Path,
		Meta:      pc.File.Meta,
		Body:      pc.File.Content.String(),
		Heading:   heading,
		PageTitle: pageTitle,
		Date:      formatDate(pc.File.Meta),
	}
}

// render is the render plugin for a named layout.
func (s *Site) render(name string) plugin.Plugin {
	return plugin.Render(name, func(pc plugin.Context) (string, error) {
		return s.execute(pc.Context, name, s.newView(pc))
	})
}

// renderLinked renders a post whose heading links to its permalink.
func (s *Site) renderLinked(name string, post Post) plugin.Plugin {
	return plugin.Render(name+"(linked)", func(pc plugin.Context) (string, error) {
		href, err := s.Permalink(pc.Context, post)
		if err != nil {
			return "", err
		}
		v := s.newView(pc)
		v.Permalink = href
		return s.execute(pc.Context, name, v)
	})
}

func (s *Site) execute(ctx context.Context, name string, v view) (string, error) {
	t, err := templates.Clone()
	if err != nil {
		return "", fmt.Errorf("clone templates: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Funcs(s.funcs(ctx)).ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *Site) funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"cacheBust": s.cacheBust,
		"linkRaw": func(p string) (string, error) {
			return s.registry.LinkPath(ctx, s.factory, p, s.raw)
		},
		"linkRead": func(p string) (string, error) {
			return s.registry.LinkPath(ctx, s.factory, p, s.read)
		},
		"inline": func(p string) (string, error) {
			doc, err := s.factory.Path(ctx, p, s.read)
			return doc.Content.String(), err
		},
		"inlineCSS": func(p string) (string, error) {
			doc, err := s.factory.Path(ctx, p, s.read, s.minifyCSS)
			return doc.Content.String(), err
		},
		"posts": func() (string, error) {
			return s.renderPosts(ctx)
		},
		"postItems": func() (string, error) {
			return s.renderPostItems(ctx)
		},
	}
}

func (s *Site) cacheBust(url string) string {
	if s.cfg == nil || s.cfg.CacheBust == "" {
		return url
	}
	return url + "?v=" + s.cfg.CacheBust
}

// renderPosts renders every post for the home page, each linking to its permalink.
func (s *Site) renderPosts(ctx context.Context) (string, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, post := range posts {
		doc, err := s.factory.From(ctx, post.Content, s.renderLinked("post", post), s.minifyHTML)
		if err != nil {
			return "", err
		}
		b.WriteString(doc.Content.String())
	}
	return b.String(), nil
}

// renderPostItems renders the blog list entries.
func (s *Site) renderPostItems(ctx context.Context) (string, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, post := range posts {
		doc, err := s.factory.From(ctx, post.Content, s.renderLinked("postListItem", post))
		if err != nil {
			return "", err
		}
		b.WriteString(doc.Content.String())
	}
	return b.String(), nil
}
