// Package sitegen builds static sites from Markdown sources: it loads and
// validates content, renders it through theme layouts, and publishes the
// output tree atomically with optional sitemap, feed, and build history
// support.
package sitegen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/internal/buildlog"
	"github.com/goliatone/go-sitegen/internal/commands"
	sitecmd "github.com/goliatone/go-sitegen/internal/commands/site"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/console"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/internal/validation"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrBuildLogDisabled indicates build history was requested but not configured.
var ErrBuildLogDisabled = errors.New("sitegen: build log is disabled")

// BuildOptions narrows the scope of a generator run.
type BuildOptions = generator.BuildOptions

// BuildResult reports aggregated build metadata.
type BuildResult = generator.BuildResult

// RenderedPage describes a single generated page.
type RenderedPage = generator.RenderedPage

// BuildRecord captures the outcome of one recorded generator run.
type BuildRecord = buildlog.BuildRecord

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// Module is the top level sitegen runtime facade. Construct one with New and
// drive builds through Build, Clean, and History.
type Module struct {
	cfg          Config
	provider     interfaces.LoggerProvider
	generator    generator.Service
	buildHandler *sitecmd.BuildSiteHandler
	cleanHandler *sitecmd.CleanSiteHandler
	history      buildlog.Service
	db           *bun.DB
	incremental  bool
}

// New wires a module from the provided configuration. The configuration is
// validated before any collaborator is constructed.
func New(cfg Config) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := newLoggerProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}

	theme := themes.NewTheme(cfg.Theme.BasePath, cfg.Theme.Name)
	selector := themes.NewSelector(themes.SelectorConfig{
		DefaultTheme:   cfg.Theme.Name,
		DefaultVariant: cfg.Theme.Variant,
	}, nil)

	renderer, err := themes.NewRenderer(theme.Path)
	if err != nil {
		return nil, fmt.Errorf("sitegen: theme %s: %w", cfg.Theme.Name, err)
	}

	source, err := newLoaderSource(cfg)
	if err != nil {
		return nil, err
	}

	// Incremental manifests only apply when the destination survives between
	// runs; a clean build always renders from scratch.
	incremental := cfg.Generator.Incremental && !cfg.Generator.CleanBuild

	// The stager already roots writes at the destination directory, so the
	// generator writes to the store root.
	genCfg := generator.Config{
		SiteTitle:       cfg.Site.Title,
		SiteDescription: cfg.Site.Description,
		BaseURL:         cfg.Site.BaseURL,
		ThemeVariant:    cfg.Theme.Variant,
		Incremental:     incremental,
		CopyAssets:      cfg.Generator.CopyAssets,
		GenerateSitemap: cfg.Generator.GenerateSitemap,
		GenerateRobots:  cfg.Generator.GenerateRobots,
		GenerateFeeds:   cfg.Generator.GenerateFeeds,
		Workers:         cfg.Generator.Workers,
		AssetRetries:    cfg.Generator.AssetRetries,
		Markdown: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}

	deps := generator.Dependencies{
		Source:   source,
		Markdown: markdown.NewGoldmarkParser(genCfg.Markdown),
		Renderer: renderer,
		Theme:    theme,
		Selector: selector,
		ThemeFS:  os.DirFS(theme.Path),
		StaticFS: staticFS(cfg.Site.StaticDir),
		Stores: func() (storage.Store, error) {
			return storage.NewStager(cfg.Site.DestinationDir)
		},
		Cleaner: destinationCleaner{dir: cfg.Site.DestinationDir},
		Routes:  generator.NewRouteResolver(cfg.Routes),
		Logger:  logging.AssembleLogger(provider),
	}

	m := &Module{
		cfg:         cfg,
		provider:    provider,
		generator:   generator.NewService(genCfg, deps),
		incremental: incremental,
	}

	commandLogger := logging.ModuleLogger(provider, "sitegen.commands")
	var buildOpts []commands.HandlerOption[sitecmd.BuildSiteCommand]
	if timeout := cfg.Generator.RenderTimeout; timeout > 0 {
		buildOpts = append(buildOpts, commands.WithTimeout[sitecmd.BuildSiteCommand](timeout))
	}
	m.buildHandler = sitecmd.NewBuildSiteHandler(m.generator, commandLogger, buildOpts...)
	m.cleanHandler = sitecmd.NewCleanSiteHandler(m.generator, commandLogger)

	if cfg.BuildLog.Enabled {
		if err := m.openBuildLog(cfg.BuildLog); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Build runs a full generator pass and returns the aggregated result. The
// outcome is recorded in the build history when it is enabled.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	startedAt := time.Now().UTC()

	var result *generator.BuildResult
	err := m.buildHandler.Execute(ctx, sitecmd.BuildSiteCommand{
		DryRun:         opts.DryRun,
		IncludeDrafts:  opts.IncludeDrafts,
		Workers:        opts.Workers,
		ResultCallback: func(envelope sitecmd.ResultEnvelope) { result = envelope.Result },
	})
	m.recordBuild(ctx, startedAt, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clean removes the published destination tree.
func (m *Module) Clean(ctx context.Context) error {
	return m.cleanHandler.Execute(ctx, sitecmd.CleanSiteCommand{})
}

// History returns the most recent recorded builds, newest first.
func (m *Module) History(ctx context.Context, limit int) ([]*BuildRecord, error) {
	if m.history == nil {
		return nil, ErrBuildLogDisabled
	}
	return m.history.History(ctx, limit)
}

// Generator exposes the underlying generator service for advanced integrations.
func (m *Module) Generator() GeneratorService {
	return m.generator
}

// Close releases resources held by the module, currently the build log database.
func (m *Module) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *Module) openBuildLog(cfg BuildLogConfig) error {
	db, err := buildlog.OpenSQLite(cfg.Path)
	if err != nil {
		return err
	}
	if err := buildlog.EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return err
	}

	var repo buildlog.Repository
	if cfg.Cache {
		cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("sitegen: build log cache: %w", err)
		}
		repo = buildlog.NewBunBuildRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	} else {
		repo = buildlog.NewBunBuildRepository(db)
	}

	m.db = db
	m.history = buildlog.NewService(repo, logging.BuildLogLogger(m.provider))
	return nil
}

func (m *Module) recordBuild(ctx context.Context, startedAt time.Time, result *generator.BuildResult, buildErr error) {
	if m.history == nil {
		return
	}

	record := &buildlog.BuildRecord{
		Site:        m.siteKey(),
		Incremental: m.incremental,
		StartedAt:   startedAt,
	}
	switch {
	case buildErr != nil:
		record.Status = buildlog.StatusFailed
		message := buildErr.Error()
		record.Error = &message
	case result != nil && result.DryRun:
		record.Status = buildlog.StatusDryRun
	default:
		record.Status = buildlog.StatusSucceeded
	}
	if result != nil {
		record.PagesBuilt = result.PagesBuilt
		record.PagesSkipped = result.PagesSkipped
		record.AssetsBuilt = result.AssetsBuilt
		record.AssetsSkipped = result.AssetsSkipped
		record.DurationMS = result.Duration.Milliseconds()
		record.FinishedAt = startedAt.Add(result.Duration)
	}

	if _, err := m.history.RecordBuild(ctx, record); err != nil {
		logging.BuildLogLogger(m.provider).Warn("build history record failed", "error", err)
	}
}

func (m *Module) siteKey() string {
	if base := strings.TrimSpace(m.cfg.Site.BaseURL); base != "" {
		return base
	}
	if title := strings.TrimSpace(m.cfg.Site.Title); title != "" {
		return title
	}
	return m.cfg.Site.DestinationDir
}

// loaderSource adapts the content loader to the generator's per-build draft
// toggle. A fresh loader is constructed per run so filesystem changes between
// builds are always visible.
type loaderSource struct {
	root          string
	pattern       string
	recursive     bool
	includeDrafts bool
	schema        content.SchemaValidator
}

func newLoaderSource(cfg Config) (*loaderSource, error) {
	source := &loaderSource{
		root:          cfg.Site.SourceDir,
		pattern:       cfg.Content.Pattern,
		recursive:     cfg.Content.Recursive,
		includeDrafts: cfg.Content.IncludeDrafts,
	}
	if schemaPath := strings.TrimSpace(cfg.Content.SchemaPath); schemaPath != "" {
		validator, err := validation.LoadFrontMatterValidator(schemaPath)
		if err != nil {
			return nil, err
		}
		source.schema = validator
	}
	return source, nil
}

func (s *loaderSource) Load(ctx context.Context, includeDrafts bool) ([]*interfaces.Document, error) {
	loader := content.NewLoader(os.DirFS(s.root), content.LoaderConfig{
		Pattern:       s.pattern,
		Recursive:     s.recursive,
		IncludeDrafts: s.includeDrafts || includeDrafts,
		Schema:        s.schema,
	})
	return loader.LoadDirectory(ctx, ".")
}

// destinationCleaner removes the published tree outside of a build cycle.
type destinationCleaner struct {
	dir string
}

func (c destinationCleaner) Clean(ctx context.Context) error {
	stager, err := storage.NewStager(c.dir)
	if err != nil {
		return err
	}
	defer func() { _ = stager.Discard() }()
	return stager.Clean(ctx)
}

func staticFS(dir string) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		opts := console.Options{}
		if level, ok := consoleLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("sitegen: unsupported logging provider %q", cfg.Provider)
	}
}

func consoleLevel(level string) (console.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace, true
	case "debug":
		return console.LevelDebug, true
	case "info":
		return console.LevelInfo, true
	case "warn", "warning":
		return console.LevelWarn, true
	case "error":
		return console.LevelError, true
	case "fatal":
		return console.LevelFatal, true
	default:
		return console.LevelInfo, false
	}
}
