package buildlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubRepository struct {
	created []*BuildRecord
	recent  []*BuildRecord
}

func (s *stubRepository) Create(_ context.Context, record *BuildRecord) (*BuildRecord, error) {
	s.created = append(s.created, record)
	return record, nil
}

func (s *stubRepository) Recent(context.Context, int) ([]*BuildRecord, error) {
	return s.recent, nil
}

func TestRecordBuildAssignsDeterministicID(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, nil)
	startedAt := time.Date(2024, 4, 8, 10, 0, 0, 0, time.UTC)

	first, err := svc.RecordBuild(context.Background(), &BuildRecord{
		Site:      "https://example.com",
		StartedAt: startedAt,
	})
	if err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected assigned build ID")
	}
	if first.Status != StatusSucceeded {
		t.Fatalf("expected default status, got %q", first.Status)
	}
	if first.FinishedAt.IsZero() {
		t.Fatal("expected finished timestamp to be set")
	}

	second, err := svc.RecordBuild(context.Background(), &BuildRecord{
		Site:      "https://example.com",
		StartedAt: startedAt,
	})
	if err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected identical site and start time to derive the same ID")
	}
}

func TestRecordBuildKeepsExplicitFields(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, nil)
	id := uuid.MustParse("00000000-0000-0000-0000-00000000c001")

	record, err := svc.RecordBuild(context.Background(), &BuildRecord{
		ID:         id,
		Site:       "https://example.com",
		Status:     StatusFailed,
		StartedAt:  time.Date(2024, 4, 8, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 4, 8, 10, 0, 1, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if record.ID != id || record.Status != StatusFailed {
		t.Fatalf("explicit fields overwritten: %+v", record)
	}
}
