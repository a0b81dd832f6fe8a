package buildlog

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunBuildRepository persists build records through go-repository-bun with
// optional read caching.
type BunBuildRepository struct {
	repo repository.Repository[*BuildRecord]
}

// NewBunBuildRepository creates a build record repository without caching.
func NewBunBuildRepository(db *bun.DB) *BunBuildRepository {
	return NewBunBuildRepositoryWithCache(db, nil, nil)
}

// NewBunBuildRepositoryWithCache creates a build record repository with caching support.
func NewBunBuildRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunBuildRepository {
	base := NewBuildRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunBuildRepository{repo: base}
}

func (r *BunBuildRepository) Create(ctx context.Context, record *BuildRecord) (*BuildRecord, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("buildlog: record build: %w", err)
	}
	return created, nil
}

func (r *BunBuildRepository) GetByID(ctx context.Context, id uuid.UUID) (*BuildRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

// Recent returns the most recent builds, newest first.
func (r *BunBuildRepository) Recent(ctx context.Context, limit int) ([]*BuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.started_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("buildlog: list builds: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("buildlog repository error: %w", err)
}
