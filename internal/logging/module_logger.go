package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	rootModule     = "sitegen"
	contentModule  = "sitegen.content"
	renderModule   = "sitegen.render"
	assembleModule = "sitegen.assemble"
	buildlogModule = "sitegen.buildlog"
	cliModule      = "sitegen.cli"
)

const (
	fieldSourcePath = "source_path"
	fieldLayout     = "layout"
	fieldStage      = "stage"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for the content loader.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// RenderLogger returns the logger namespace reserved for markdown and layout
// rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// AssembleLogger returns the logger namespace reserved for the site assembler.
func AssembleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assembleModule)
}

// BuildLogLogger returns the logger namespace reserved for build history.
func BuildLogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, buildlogModule)
}

// CLILogger returns the logger namespace reserved for command line entrypoints.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithBuildContext enriches the provided logger with common build fields such
// as source path, layout name, and pipeline stage. Empty values are ignored.
func WithBuildContext(logger interfaces.Logger, path, layout, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(layout); trimmed != "" {
		fields[fieldLayout] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
