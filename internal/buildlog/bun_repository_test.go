package buildlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/buildlog"
)

func newTestRepository(t *testing.T) *buildlog.BunBuildRepository {
	t.Helper()
	db, err := buildlog.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := buildlog.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return buildlog.NewBunBuildRepository(db)
}

func TestBunBuildRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	now := time.Date(2024, 4, 8, 10, 0, 0, 0, time.UTC)

	record := &buildlog.BuildRecord{
		ID:         uuid.MustParse("00000000-0000-0000-0000-00000000b001"),
		Site:       "https://example.com",
		Status:     buildlog.StatusSucceeded,
		PagesBuilt: 4,
		DurationMS: 128,
		StartedAt:  now,
		FinishedAt: now.Add(128 * time.Millisecond),
	}
	created, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if created.ID != record.ID {
		t.Fatalf("expected id %s, got %s", record.ID, created.ID)
	}

	byID, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.PagesBuilt != 4 || byID.Status != buildlog.StatusSucceeded {
		t.Fatalf("unexpected record %+v", byID)
	}
}

func TestBunBuildRepositoryRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2024, 4, 8, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &buildlog.BuildRecord{
			ID:        uuid.MustParse(uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i)}).String()),
			Site:      "https://example.com",
			Status:    buildlog.StatusSucceeded,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create record %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if !recent[0].StartedAt.After(recent[1].StartedAt) {
		t.Fatalf("expected newest first, got %v then %v", recent[0].StartedAt, recent[1].StartedAt)
	}
}

func TestBunBuildRepositoryNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), uuid.MustParse("00000000-0000-0000-0000-00000000dead"))
	var notFound *buildlog.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
