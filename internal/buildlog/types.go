package buildlog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// StatusSucceeded marks a build that published its output tree.
	StatusSucceeded = "succeeded"
	// StatusFailed marks a build that aborted without publishing.
	StatusFailed = "failed"
	// StatusDryRun marks a validation pass that skipped publishing.
	StatusDryRun = "dry_run"
)

// BuildRecord captures the outcome of one generator run.
type BuildRecord struct {
	bun.BaseModel `bun:"table:build_records,alias:br"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Site          string    `bun:"site,notnull" json:"site"`
	Status        string    `bun:"status,notnull" json:"status"`
	Incremental   bool      `bun:"incremental,notnull,default:false" json:"incremental"`
	PagesBuilt    int       `bun:"pages_built,notnull,default:0" json:"pages_built"`
	PagesSkipped  int       `bun:"pages_skipped,notnull,default:0" json:"pages_skipped"`
	AssetsBuilt   int       `bun:"assets_built,notnull,default:0" json:"assets_built"`
	AssetsSkipped int       `bun:"assets_skipped,notnull,default:0" json:"assets_skipped"`
	DurationMS    int64     `bun:"duration_ms,notnull,default:0" json:"duration_ms"`
	Error         *string   `bun:"error" json:"error,omitempty"`
	StartedAt     time.Time `bun:"started_at,notnull" json:"started_at"`
	FinishedAt    time.Time `bun:"finished_at,nullzero" json:"finished_at"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// NotFoundError indicates the requested build record does not exist.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("build record %s not found", e.Key)
}
