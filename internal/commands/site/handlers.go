package sitecmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	buildOperation = "site.build"
	cleanOperation = "site.clean"
)

var (
	_ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)
	_ command.Commander[CleanSiteCommand] = (*CleanSiteHandler)(nil)
)

// BuildSiteHandler orchestrates site builds via the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied generator
// service. Results flow back through the message's ResultCallback when set.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Build(ctx, generator.BuildOptions{
			DryRun:        msg.DryRun,
			IncludeDrafts: msg.IncludeDrafts,
			Workers:       msg.Workers,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"pages_built":    result.PagesBuilt,
				"pages_skipped":  result.PagesSkipped,
				"assets_built":   result.AssetsBuilt,
				"assets_skipped": result.AssetsSkipped,
				"duration_ms":    result.Duration.Milliseconds(),
				"dry_run":        msg.DryRun,
			}).Info("site.command.build.completed")
			if msg.ResultCallback != nil {
				msg.ResultCallback(ResultEnvelope{
					Result: result,
					Metadata: map[string]any{
						"operation": buildOperation,
						"dry_run":   msg.DryRun,
					},
				})
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if msg.Workers > 0 {
				fields["workers"] = msg.Workers
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler removes the published tree via the shared command handler foundation.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler creates a handler bound to the supplied generator service.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := service.Clean(ctx); err != nil {
			return err
		}
		baseLogger.Info("site.command.clean.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand](cleanOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
