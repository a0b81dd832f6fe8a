package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type stubSource struct {
	docs []*interfaces.Document
	err  error
}

func (s *stubSource) Load(_ context.Context, includeDrafts bool) ([]*interfaces.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*interfaces.Document
	for _, doc := range s.docs {
		if doc.FrontMatter.Draft && !includeDrafts {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

type stubRenderer struct {
	layouts map[string]struct{}
}

func newStubRenderer(layouts ...string) *stubRenderer {
	known := map[string]struct{}{}
	for _, layout := range layouts {
		known[layout] = struct{}{}
	}
	return &stubRenderer{layouts: known}
}

func (r *stubRenderer) Has(name string) bool {
	_, ok := r.layouts[name]
	return ok
}

func (r *stubRenderer) Render(name string, data any) ([]byte, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %s", themes.ErrLayoutUnknown, name)
	}
	tctx, ok := data.(TemplateContext)
	if !ok {
		return nil, fmt.Errorf("unexpected data type %T", data)
	}
	html := fmt.Sprintf("<html><title>%s</title>%s</html>", tctx.Page.Title, tctx.Page.Content)
	return []byte(html), nil
}

// brokenRenderer mimics a renderer whose template discovery failed: every
// layout reads as unknown, and Ready surfaces the underlying load error.
type brokenRenderer struct {
	loadErr error
}

func (r *brokenRenderer) Ready() error { return r.loadErr }

func (r *brokenRenderer) Has(string) bool { return false }

func (r *brokenRenderer) Render(name string, _ any) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", themes.ErrLayoutUnknown, name)
}

type cleanRecorder struct {
	calls int
}

func (c *cleanRecorder) Clean(context.Context) error {
	c.calls++
	return nil
}

func newTestService(tb testing.TB, store *storage.MemoryStore, docs []*interfaces.Document, cfg Config) Service {
	tb.Helper()
	return NewService(cfg, Dependencies{
		Source:   &stubSource{docs: docs},
		Markdown: markdown.NewGoldmarkParser(interfaces.ParseOptions{Extensions: []string{"gfm"}}),
		Renderer: newStubRenderer("post"),
		Stores:   func() (storage.Store, error) { return store, nil },
	})
}

func defaultBuildConfig() Config {
	return Config{
		SiteTitle:       "Recursing Works",
		SiteDescription: "Notes on recursion",
		BaseURL:         "https://example.com",
		GenerateSitemap: true,
		GenerateRobots:  true,
		GenerateFeeds:   true,
		CopyAssets:      true,
		Workers:         1,
	}
}

func TestBuildPublishesPermalinkTree(t *testing.T) {
	store := storage.NewMemoryStore()
	docs := []*interfaces.Document{
		testDocument("posts/how-recursing-works.md", "how-recursing-works",
			time.Date(2024, 4, 8, 8, 0, 0, 0, time.UTC)),
		testDocument("posts/welcome.md", "welcome",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "notes"),
	}
	svc := newTestService(t, store, docs, defaultBuildConfig())

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected 2 pages built, got %d", result.PagesBuilt)
	}

	page, ok := store.Published("2024/04/08/how-recursing-works/index.html")
	if !ok {
		t.Fatalf("expected dated permalink output, have %v", store.PublishedPaths())
	}
	if !strings.Contains(string(page), "<title>Title</title>") {
		t.Fatalf("unexpected page content %q", page)
	}
	if _, ok := store.Published("notes/2024/03/01/welcome/index.html"); !ok {
		t.Fatalf("expected category permalink output, have %v", store.PublishedPaths())
	}

	sitemap, ok := store.Published("sitemap.xml")
	if !ok {
		t.Fatal("expected sitemap.xml")
	}
	if !strings.Contains(string(sitemap), "https://example.com/2024/04/08/how-recursing-works/") {
		t.Fatalf("sitemap missing permalink: %s", sitemap)
	}

	robots, ok := store.Published("robots.txt")
	if !ok {
		t.Fatal("expected robots.txt")
	}
	if !strings.Contains(string(robots), "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("robots missing sitemap reference: %s", robots)
	}

	rss, ok := store.Published("feed.xml")
	if !ok {
		t.Fatal("expected feed.xml")
	}
	if !strings.Contains(string(rss), "<title>Recursing Works</title>") {
		t.Fatalf("feed missing site title: %s", rss)
	}

	if _, ok := store.Published("feed.atom.xml"); !ok {
		t.Fatal("expected feed.atom.xml")
	}
	if _, ok := store.Published(manifestFileName); !ok {
		t.Fatal("expected build manifest to be published")
	}
}

func TestBuildPathCollisionWritesNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	date := time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)
	docs := []*interfaces.Document{
		testDocument("posts/a.md", "same", date),
		testDocument("posts/b.md", "same", date),
	}
	svc := newTestService(t, store, docs, defaultBuildConfig())

	_, err := svc.Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrPathCollision) {
		t.Fatalf("expected ErrPathCollision, got %v", err)
	}
	if paths := store.PublishedPaths(); len(paths) != 0 {
		t.Fatalf("expected nothing published, got %v", paths)
	}
}

func TestBuildUnknownLayoutPublishesNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	doc := testDocument("posts/missing.md", "missing", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC))
	doc.FrontMatter.Layout = "gallery"
	svc := newTestService(t, store, []*interfaces.Document{doc}, defaultBuildConfig())

	result, err := svc.Build(context.Background(), BuildOptions{})
	if !errors.Is(err, themes.ErrLayoutUnknown) {
		t.Fatalf("expected ErrLayoutUnknown, got %v", err)
	}
	if result == nil || len(result.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", result)
	}
	if paths := store.PublishedPaths(); len(paths) != 0 {
		t.Fatalf("expected nothing published, got %v", paths)
	}
}

func TestBuildSurfacesTemplateLoadError(t *testing.T) {
	store := storage.NewMemoryStore()
	doc := testDocument("posts/a.md", "alpha", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC))
	loadErr := fmt.Errorf("%w: themes/default", themes.ErrNoTemplates)
	svc := NewService(defaultBuildConfig(), Dependencies{
		Source:   &stubSource{docs: []*interfaces.Document{doc}},
		Markdown: markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		Renderer: &brokenRenderer{loadErr: loadErr},
		Stores:   func() (storage.Store, error) { return store, nil },
	})

	_, err := svc.Build(context.Background(), BuildOptions{})
	if !errors.Is(err, themes.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
	if errors.Is(err, themes.ErrLayoutUnknown) {
		t.Fatalf("template load failure must not read as unknown layout: %v", err)
	}
	if paths := store.PublishedPaths(); len(paths) != 0 {
		t.Fatalf("expected nothing published, got %v", paths)
	}
}

func TestBuildDryRunSkipsWrites(t *testing.T) {
	store := storage.NewMemoryStore()
	docs := []*interfaces.Document{
		testDocument("posts/a.md", "alpha", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)),
	}
	svc := newTestService(t, store, docs, defaultBuildConfig())

	result, err := svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !result.DryRun || result.PagesBuilt != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Rendered) != 1 {
		t.Fatalf("expected rendered page in result, got %d", len(result.Rendered))
	}
	if paths := store.PublishedPaths(); len(paths) != 0 {
		t.Fatalf("dry run must not publish, got %v", paths)
	}
}

func TestBuildSkipsDraftsUnlessRequested(t *testing.T) {
	store := storage.NewMemoryStore()
	draft := testDocument("drafts/wip.md", "wip", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC))
	draft.FrontMatter.Draft = true
	svc := newTestService(t, store, []*interfaces.Document{draft}, defaultBuildConfig())

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt != 0 {
		t.Fatalf("expected draft to be excluded, built %d", result.PagesBuilt)
	}

	store2 := storage.NewMemoryStore()
	svc2 := newTestService(t, store2, []*interfaces.Document{draft}, defaultBuildConfig())
	result, err = svc2.Build(context.Background(), BuildOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("Build with drafts: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected draft to be built, got %d", result.PagesBuilt)
	}
}

func TestBuildIncrementalSkipsUnchangedPages(t *testing.T) {
	doc := testDocument("posts/stable.md", "stable", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC))
	doc.Checksum = []byte{0xde, 0xad, 0xbe, 0xef}

	cfg := defaultBuildConfig()
	first := storage.NewMemoryStore()
	svc := newTestService(t, first, []*interfaces.Document{doc}, cfg)
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	second := storage.NewMemoryStore()
	for _, path := range first.PublishedPaths() {
		data, _ := first.Published(path)
		second.Seed(path, data)
	}

	cfg.Incremental = true
	svc = newTestService(t, second, []*interfaces.Document{doc}, cfg)
	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if result.PagesSkipped != 1 || result.PagesBuilt != 0 {
		t.Fatalf("expected unchanged page skipped, got built=%d skipped=%d", result.PagesBuilt, result.PagesSkipped)
	}
	// The carried forward page must still be part of the published tree.
	if _, ok := second.Published("2024/04/08/stable/index.html"); !ok {
		t.Fatalf("expected skipped page carried forward, have %v", second.PublishedPaths())
	}
	sitemap, ok := second.Published("sitemap.xml")
	if !ok || !strings.Contains(string(sitemap), "/2024/04/08/stable/") {
		t.Fatalf("expected skipped page in sitemap, got %s", sitemap)
	}
}

func TestCleanDelegates(t *testing.T) {
	recorder := &cleanRecorder{}
	svc := NewService(Config{}, Dependencies{
		Source:   &stubSource{},
		Markdown: markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		Renderer: newStubRenderer(),
		Stores:   func() (storage.Store, error) { return storage.NewMemoryStore(), nil },
		Cleaner:  recorder,
	})
	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if recorder.calls != 1 {
		t.Fatalf("expected one clean call, got %d", recorder.calls)
	}
}
