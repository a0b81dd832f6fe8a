package generator

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	categoryPage     = "page"
	categoryAsset    = "asset"
	categorySitemap  = "sitemap"
	categoryRobots   = "robots"
	categoryFeed     = "feed"
	categoryManifest = "manifest"
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	SiteTitle       string
	SiteDescription string
	BaseURL         string
	ThemeVariant    string
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	AssetRetries    int
	Markdown        interfaces.ParseOptions
	Theming         ThemingConfig
}

// ContentSource supplies parsed documents for a build.
type ContentSource interface {
	Load(ctx context.Context, includeDrafts bool) ([]*interfaces.Document, error)
}

// StoreFactory opens a fresh staging store for one build. Each build consumes
// its store through Publish or Discard.
type StoreFactory func() (storage.Store, error)

// Cleaner removes the published destination tree.
type Cleaner interface {
	Clean(ctx context.Context) error
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Source   ContentSource
	Markdown interfaces.MarkdownParser
	Renderer interfaces.LayoutRenderer
	Theme    *themes.Theme
	Selector *themes.Selector
	// ThemeFS reads theme asset files; usually os.DirFS(theme.Path).
	ThemeFS fs.FS
	// StaticFS overlays files copied verbatim to the publish root. Optional.
	StaticFS fs.FS
	Stores   StoreFactory
	Cleaner  Cleaner
	Routes   *RouteResolver
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}
	if s.deps.Markdown == nil {
		return nil, errMarkdownRequired
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	// A renderer that failed template discovery reports every layout as
	// unknown; surface the load error itself before rendering starts.
	if probe, ok := s.deps.Renderer.(interface{ Ready() error }); ok {
		if err := probe.Ready(); err != nil {
			return nil, err
		}
	}
	if s.deps.Stores == nil {
		return nil, errStoreRequired
	}

	start := time.Now()
	generatedAt := s.now().UTC()

	docs, err := s.deps.Source.Load(ctx, opts.IncludeDrafts)
	if err != nil {
		return nil, err
	}
	if err := detectCollisions(docs); err != nil {
		return nil, err
	}

	var selection *gotheme.Selection
	if s.deps.Selector != nil && s.deps.Theme != nil {
		selection, err = s.deps.Selector.Selection(s.deps.Theme, s.cfg.ThemeVariant)
		if err != nil {
			return nil, err
		}
	}
	themeCtx := buildThemeContext(selection, s.cfg.Theming)

	store, err := s.deps.Stores()
	if err != nil {
		return nil, err
	}
	published := false
	defer func() {
		if !published {
			if discardErr := store.Discard(); discardErr != nil {
				s.logger.Warn("failed to discard staging area", "error", discardErr)
			}
		}
	}()

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	manifest := newBuildManifest()
	if s.cfg.Incremental {
		previous, err := s.loadManifest(ctx, store, baseDir)
		if err != nil {
			s.logger.Warn("previous manifest unreadable, rebuilding everything", "error", err)
		} else if previous != nil {
			manifest = previous
		}
	}

	siteMeta := SiteMetadata{
		Title:       s.cfg.SiteTitle,
		Description: s.cfg.SiteDescription,
		BaseURL:     trimBaseURL(s.cfg.BaseURL),
		Metadata:    map[string]any{},
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		GeneratedAt: generatedAt,
		Diagnostics: make([]RenderDiagnostic, 0, len(docs)),
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(docs))
		errorsSlice []error
		pageKeys    = map[string]struct{}{}
	)

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.diagnostic.PageID != uuid.Nil {
			pageKeys[manifest.pageKey(outcome.diagnostic.PageID)] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	buildMeta := BuildMetadata{GeneratedAt: generatedAt, Options: opts}

	workerCount := s.effectiveWorkerCount(opts.Workers, len(docs))
	if workerCount <= 1 || len(docs) <= 1 {
		for _, doc := range docs {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, siteMeta, buildMeta, themeCtx, doc, manifest, baseDir))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, siteMeta, buildMeta, themeCtx, docs, workerCount, manifest, baseDir, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		result.Duration = time.Since(start)
		return result, errors.Join(errorsSlice...)
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		s.logBuildSummary(result)
		return result, nil
	}

	if err := s.persistPages(ctx, store, rendered, manifest, pageKeys, baseDir); err != nil {
		result.Errors = append(result.Errors, err)
		result.Duration = time.Since(start)
		return result, err
	}

	assetKeys := map[string]struct{}{}
	if s.cfg.CopyAssets {
		summary, err := s.copyAssets(ctx, store, selection, manifest, assetKeys, baseDir)
		if err != nil {
			result.Errors = append(result.Errors, err)
			result.Duration = time.Since(start)
			return result, err
		}
		result.AssetsBuilt = summary.Built
		result.AssetsSkipped = summary.Skipped
	}

	sitemapPages := s.mergeRenderedPages(rendered, manifest, pageKeys)

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, store, siteMeta, sitemapPages, generatedAt, baseDir); err != nil {
			result.Errors = append(result.Errors, err)
			result.Duration = time.Since(start)
			return result, err
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, store, siteMeta, generatedAt, baseDir); err != nil {
			result.Errors = append(result.Errors, err)
			result.Duration = time.Since(start)
			return result, err
		}
	}

	if s.cfg.GenerateFeeds {
		if err := s.writeFeeds(ctx, store, siteMeta, sitemapPages, generatedAt, baseDir); err != nil {
			result.Errors = append(result.Errors, err)
			result.Duration = time.Since(start)
			return result, err
		}
	}

	manifest.GeneratedAt = generatedAt
	manifest.prunePages(pageKeys)
	manifest.pruneAssets(assetKeys)
	if err := s.persistManifest(ctx, store, manifest, baseDir); err != nil {
		result.Errors = append(result.Errors, err)
		result.Duration = time.Since(start)
		return result, err
	}

	if err := store.Publish(ctx); err != nil {
		result.Errors = append(result.Errors, err)
		result.Duration = time.Since(start)
		return result, err
	}
	published = true

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logBuildSummary(result)
	return result, nil
}

// Clean removes the published destination tree.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Cleaner == nil {
		return fmt.Errorf("generator: cleaner not configured")
	}
	return s.deps.Cleaner.Clean(ctx)
}

func (s *service) renderConcurrently(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildMeta BuildMetadata,
	themeCtx ThemeContext,
	docs []*interfaces.Document,
	workers int,
	manifest *buildManifest,
	baseDir string,
	collect func(renderOutcome),
) error {
	jobs := make(chan *interfaces.Document)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{
							PageID: doc.ID,
							Source: doc.FilePath,
							Err:    ctx.Err(),
						},
						err: ctx.Err(),
					})
					return
				default:
					collect(s.renderPage(ctx, siteMeta, buildMeta, themeCtx, doc, manifest, baseDir))
				}
			}
		}()
	}

	var dispatchErr error
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
		case jobs <- doc:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()
	return dispatchErr
}

func (s *service) renderPage(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildMeta BuildMetadata,
	themeCtx ThemeContext,
	doc *interfaces.Document,
	manifest *buildManifest,
	baseDir string,
) renderOutcome {
	destRel := buildOutputPath(doc)
	route := routeForOutput(destRel)
	output := joinOutputPath(baseDir, destRel)
	layout := strings.TrimSpace(doc.FrontMatter.Layout)

	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			PageID: doc.ID,
			Source: doc.FilePath,
			Route:  route,
			Layout: layout,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	sourceHash := hex.EncodeToString(doc.Checksum)
	if s.cfg.Incremental && manifest.shouldSkipPage(doc.ID, sourceHash, output) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		return outcome
	}

	if !s.deps.Renderer.Has(layout) {
		err := fmt.Errorf("generator: document %s: %w: %s", doc.FilePath, themes.ErrLayoutUnknown, layout)
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	start := time.Now()
	bodyHTML, err := s.deps.Markdown.ParseWithOptions(doc.Body, s.cfg.Markdown)
	if err != nil {
		wrapped := fmt.Errorf("generator: parse markdown for %s: %w", doc.FilePath, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	templateCtx := TemplateContext{
		Site: siteMeta,
		Page: PageContext{
			Title:      doc.FrontMatter.Title,
			Summary:    doc.FrontMatter.Summary,
			Slug:       doc.FrontMatter.Slug,
			Route:      route,
			Layout:     layout,
			Source:     doc.FilePath,
			Date:       doc.FrontMatter.Date,
			Categories: append([]string(nil), doc.FrontMatter.Categories...),
			Draft:      doc.FrontMatter.Draft,
			Content:    string(bodyHTML),
			Params:     doc.FrontMatter.Custom,
		},
		Build:   buildMeta,
		Theme:   themeCtx,
		Helpers: newTemplateHelpers(siteMeta.BaseURL),
	}

	renderedHTML, err := s.deps.Renderer.Render(layout, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s with layout %q: %w", doc.FilePath, layout, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	pageLogger := logging.WithBuildContext(s.logger, doc.FilePath, layout, "render")
	pageLogger.Debug("page rendered", "output_path", output, "duration_ms", duration.Milliseconds())

	outcome.page = RenderedPage{
		PageID:       doc.ID,
		Source:       doc.FilePath,
		Slug:         doc.FrontMatter.Slug,
		Route:        route,
		Output:       output,
		Layout:       layout,
		Title:        doc.FrontMatter.Title,
		Summary:      doc.FrontMatter.Summary,
		PublishedAt:  doc.FrontMatter.Date,
		LastModified: doc.LastModified,
		HTML:         string(renderedHTML),
		SourceHash:   sourceHash,
		Checksum:     computeHashFromString(string(renderedHTML)),
		Duration:     duration,
	}
	return outcome
}

func (s *service) persistPages(
	ctx context.Context,
	store storage.Store,
	pages []RenderedPage,
	manifest *buildManifest,
	pageKeys map[string]struct{},
	baseDir string,
) error {
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := store.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}

	for i := range pages {
		page := pages[i]
		if err := ensureDir(ctx, store, dirCache, path.Dir(page.Output)); err != nil {
			return err
		}
		metadata := map[string]string{
			"page_id": page.PageID.String(),
			"route":   page.Route,
			"layout":  page.Layout,
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := storage.WriteRequest{
			Path:        page.Output,
			Content:     strings.NewReader(page.HTML),
			Size:        int64(len(page.HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    page.Checksum,
			Metadata:    metadata,
		}
		if err := store.WriteFile(ctx, req); err != nil {
			return err
		}
		manifest.setPage(manifestPage{
			PageID:       page.PageID.String(),
			Source:       page.Source,
			Route:        page.Route,
			Output:       page.Output,
			Layout:       page.Layout,
			Hash:         page.SourceHash,
			Checksum:     page.Checksum,
			Title:        page.Title,
			Summary:      page.Summary,
			PublishedAt:  page.PublishedAt,
			LastModified: page.LastModified,
			RenderedAt:   s.now().UTC(),
		})
	}

	// Carry skipped incremental outputs forward so the staged tree is complete.
	written := map[string]struct{}{}
	for _, page := range pages {
		written[manifest.pageKey(page.PageID)] = struct{}{}
	}
	for key := range pageKeys {
		if _, ok := written[key]; ok {
			continue
		}
		entry, ok := manifest.Pages[key]
		if !ok {
			continue
		}
		if err := store.CopyPublished(ctx, entry.Output); err != nil {
			return fmt.Errorf("generator: carry forward %s: %w", entry.Output, err)
		}
	}
	return nil
}

type assetCopySummary struct {
	Built   int
	Skipped int
}

func (s *service) copyAssets(
	ctx context.Context,
	store storage.Store,
	selection *gotheme.Selection,
	manifest *buildManifest,
	assetKeys map[string]struct{},
	baseDir string,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	dirCache := map[string]struct{}{}

	specs, err := s.collectAssetSpecs(selection)
	if err != nil {
		return summary, err
	}

	for _, spec := range specs {
		sourceFS := s.deps.ThemeFS
		if spec.Scope == assetSourceStatic {
			sourceFS = s.deps.StaticFS
		}
		if sourceFS == nil {
			continue
		}

		fullPath := joinOutputPath(baseDir, spec.Output)
		key := manifest.assetKey(spec.Scope, spec.Source)
		assetKeys[key] = struct{}{}

		data, err := s.readAssetWithRetry(ctx, sourceFS, spec.Source)
		if err != nil {
			return summary, err
		}
		checksum := computeHash(data)

		if s.cfg.Incremental && manifest.shouldSkipAsset(spec.Scope, spec.Source, checksum, fullPath) {
			if err := store.CopyPublished(ctx, fullPath); err != nil {
				return summary, fmt.Errorf("generator: carry forward asset %s: %w", fullPath, err)
			}
			summary.Skipped++
			continue
		}

		if err := ensureDir(ctx, store, dirCache, path.Dir(fullPath)); err != nil {
			return summary, err
		}
		if err := s.writeAssetWithRetry(ctx, store, spec, fullPath, data, checksum); err != nil {
			return summary, err
		}
		summary.Built++
		manifest.setAsset(manifestAsset{
			Key:      key,
			Scope:    string(spec.Scope),
			Source:   spec.Source,
			Output:   fullPath,
			Checksum: checksum,
			Size:     int64(len(data)),
			CopiedAt: s.now().UTC(),
		})
	}
	return summary, nil
}

func (s *service) collectAssetSpecs(selection *gotheme.Selection) ([]assetSpec, error) {
	var specs []assetSpec
	if selection != nil && s.deps.ThemeFS != nil {
		for _, asset := range collectThemeAssets(selection) {
			specs = append(specs, assetSpec{
				Scope:  assetSourceTheme,
				Source: asset,
				Output: path.Join("assets", asset),
			})
		}
	}
	if s.deps.StaticFS != nil {
		statics, err := collectStaticAssets(s.deps.StaticFS)
		if err != nil {
			return nil, fmt.Errorf("generator: walk static dir: %w", err)
		}
		for _, asset := range statics {
			specs = append(specs, assetSpec{
				Scope:  assetSourceStatic,
				Source: asset,
				Output: asset,
			})
		}
	}
	return specs, nil
}

func (s *service) readAssetWithRetry(ctx context.Context, sourceFS fs.FS, source string) ([]byte, error) {
	attempts := s.cfg.AssetRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(sourceFS, source)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, &AssetCopyError{Source: source, Attempts: attempts, Err: lastErr}
}

func (s *service) writeAssetWithRetry(
	ctx context.Context,
	store storage.Store,
	spec assetSpec,
	fullPath string,
	data []byte,
	checksum string,
) error {
	attempts := s.cfg.AssetRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := store.WriteFile(ctx, storage.WriteRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(fullPath),
			Checksum:    checksum,
			Metadata: map[string]string{
				"scope":  string(spec.Scope),
				"source": spec.Source,
			},
		})
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.Warn("asset write failed, retrying", "asset", spec.Source, "attempt", attempt+1, "error", err)
	}
	return &AssetCopyError{Source: spec.Source, Attempts: attempts, Err: lastErr}
}

// mergeRenderedPages combines freshly rendered pages with manifest entries
// for skipped ones so sitemap and feeds always describe the full site.
func (s *service) mergeRenderedPages(
	rendered []RenderedPage,
	manifest *buildManifest,
	pageKeys map[string]struct{},
) []RenderedPage {
	merged := append([]RenderedPage(nil), rendered...)
	seen := map[string]struct{}{}
	for _, page := range rendered {
		seen[manifest.pageKey(page.PageID)] = struct{}{}
	}
	for key := range pageKeys {
		if _, ok := seen[key]; ok {
			continue
		}
		entry, ok := manifest.Pages[key]
		if !ok {
			continue
		}
		pageID, err := uuid.Parse(entry.PageID)
		if err != nil {
			continue
		}
		merged = append(merged, RenderedPage{
			PageID:       pageID,
			Source:       entry.Source,
			Route:        entry.Route,
			Output:       entry.Output,
			Layout:       entry.Layout,
			Title:        entry.Title,
			Summary:      entry.Summary,
			PublishedAt:  entry.PublishedAt,
			LastModified: entry.LastModified,
			SourceHash:   entry.Hash,
			Checksum:     entry.Checksum,
		})
	}
	return merged
}

func (s *service) writeSitemap(
	ctx context.Context,
	store storage.Store,
	siteMeta SiteMetadata,
	pages []RenderedPage,
	generatedAt time.Time,
	baseDir string,
) error {
	content := buildSitemap(siteMeta.BaseURL, pages, generatedAt)
	fullPath := joinOutputPath(baseDir, "sitemap.xml")
	if err := ensureDir(ctx, store, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return store.WriteFile(ctx, storage.WriteRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(
	ctx context.Context,
	store storage.Store,
	siteMeta SiteMetadata,
	generatedAt time.Time,
	baseDir string,
) error {
	content := buildRobots(siteMeta.BaseURL, s.cfg.GenerateSitemap)
	fullPath := joinOutputPath(baseDir, "robots.txt")
	if err := ensureDir(ctx, store, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return store.WriteFile(ctx, storage.WriteRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeFeeds(
	ctx context.Context,
	store storage.Store,
	siteMeta SiteMetadata,
	pages []RenderedPage,
	generatedAt time.Time,
	baseDir string,
) error {
	items := buildFeedItems(siteMeta, pages, s.deps.Routes, generatedAt)
	if len(items) == 0 {
		return nil
	}

	rssContent := buildRSSFeed(siteMeta, items, generatedAt)
	rssPath := joinOutputPath(baseDir, "feed.xml")
	if err := ensureDir(ctx, store, map[string]struct{}{}, path.Dir(rssPath)); err != nil {
		return err
	}
	if err := store.WriteFile(ctx, storage.WriteRequest{
		Path:        rssPath,
		Content:     strings.NewReader(rssContent),
		Size:        int64(len(rssContent)),
		Category:    categoryFeed,
		ContentType: "application/rss+xml",
		Checksum:    computeHashFromString(rssContent),
		Metadata:    feedMetadata("rss", generatedAt),
	}); err != nil {
		return err
	}

	atomContent := buildAtomFeed(siteMeta, items, generatedAt)
	atomPath := joinOutputPath(baseDir, "feed.atom.xml")
	if err := ensureDir(ctx, store, map[string]struct{}{}, path.Dir(atomPath)); err != nil {
		return err
	}
	return store.WriteFile(ctx, storage.WriteRequest{
		Path:        atomPath,
		Content:     strings.NewReader(atomContent),
		Size:        int64(len(atomContent)),
		Category:    categoryFeed,
		ContentType: "application/atom+xml",
		Checksum:    computeHashFromString(atomContent),
		Metadata:    feedMetadata("atom", generatedAt),
	})
}

func feedMetadata(feedType string, generatedAt time.Time) map[string]string {
	return map[string]string{
		"generated_at": generatedAt.UTC().Format(time.RFC3339),
		"feed_type":    feedType,
	}
}

func (s *service) loadManifest(ctx context.Context, store storage.Store, baseDir string) (*buildManifest, error) {
	target := joinOutputPath(baseDir, manifestFileName)
	data, err := store.ReadPublished(ctx, target)
	if err != nil {
		if errors.Is(err, storage.ErrNotPublished) {
			return newBuildManifest(), nil
		}
		return nil, err
	}
	return parseManifest(data)
}

func (s *service) persistManifest(ctx context.Context, store storage.Store, manifest *buildManifest, baseDir string) error {
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := joinOutputPath(baseDir, manifestFileName)
	if err := ensureDir(ctx, store, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return store.WriteFile(ctx, storage.WriteRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

func (s *service) effectiveWorkerCount(override, docCount int) int {
	workers := s.cfg.Workers
	if override > 0 {
		workers = override
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if docCount > 0 && workers > docCount {
		return docCount
	}
	return workers
}

func (s *service) logBuildSummary(result *BuildResult) {
	s.logger.Info("build complete",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"assets_skipped", result.AssetsSkipped,
		"duration_ms", result.Duration.Milliseconds(),
		"dry_run", result.DryRun,
	)
}
