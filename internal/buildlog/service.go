package buildlog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, record *BuildRecord) (*BuildRecord, error)
	Recent(ctx context.Context, limit int) ([]*BuildRecord, error)
}

// Service records build outcomes and serves build history.
type Service interface {
	RecordBuild(ctx context.Context, record *BuildRecord) (*BuildRecord, error)
	History(ctx context.Context, limit int) ([]*BuildRecord, error)
}

type service struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
}

// NewService wires the build history service.
func NewService(repo Repository, logger interfaces.Logger) Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *service) RecordBuild(ctx context.Context, record *BuildRecord) (*BuildRecord, error) {
	if record.ID == uuid.Nil {
		startedAt := record.StartedAt
		if startedAt.IsZero() {
			startedAt = s.now().UTC()
			record.StartedAt = startedAt
		}
		record.ID = identity.BuildUUID(record.Site, startedAt.UTC().Format(time.RFC3339Nano))
	}
	if strings.TrimSpace(record.Status) == "" {
		record.Status = StatusSucceeded
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = s.now().UTC()
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("build recorded",
		"build_id", created.ID.String(),
		"status", created.Status,
		"pages_built", created.PagesBuilt,
	)
	return created, nil
}

func (s *service) History(ctx context.Context, limit int) ([]*BuildRecord, error) {
	return s.repo.Recent(ctx, limit)
}
