package sitecmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitegen/internal/generator"
)

const (
	buildSiteMessageType = "sitegen.site.build"
	cleanSiteMessageType = "sitegen.site.clean"
)

// ResultCallback receives the build result produced by a generator run. The
// callback is optional and is invoked synchronously from the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command execution.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand triggers a full site build. Options map directly onto
// generator.BuildOptions, letting callers preview output or include drafts
// without changing service configuration.
type BuildSiteCommand struct {
	// DryRun renders every page but skips all writes to the destination.
	DryRun bool `json:"dry_run,omitempty"`
	// IncludeDrafts renders documents marked as drafts in front matter.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// Workers overrides the configured render worker count when positive.
	Workers int `json:"workers,omitempty"`

	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects malformed build parameters before handlers execute.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Workers, validation.Min(0)),
	)
}

// CleanSiteCommand removes the published destination tree.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }
