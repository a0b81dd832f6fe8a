package buildlog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewBuildRecordRepository creates a repository for build records.
func NewBuildRecordRepository(db *bun.DB) repository.Repository[*BuildRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*BuildRecord]{
		NewRecord:          func() *BuildRecord { return &BuildRecord{} },
		GetID:              func(record *BuildRecord) uuid.UUID { return record.ID },
		SetID:              func(record *BuildRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "site" },
		GetIdentifierValue: func(record *BuildRecord) string { return record.Site },
	})
}
