package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotPublished indicates the requested artifact does not exist in the
// published destination tree.
var ErrNotPublished = errors.New("storage: artifact not published")

// WriteRequest describes a single artifact write routed through a Store.
type WriteRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// Store receives build artifacts into an isolated staging area and swaps them
// into the published destination once the build succeeds. Reads always target
// the currently published tree so incremental builds can inspect previous
// outputs while a new build is in flight.
type Store interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteRequest) error
	// ReadPublished returns the contents of a previously published artifact.
	ReadPublished(ctx context.Context, path string) ([]byte, error)
	// CopyPublished carries a previously published artifact into the staging
	// area unchanged. Incremental builds use this for skipped outputs.
	CopyPublished(ctx context.Context, path string) error
	// Publish atomically replaces the published tree with the staged one.
	Publish(ctx context.Context) error
	// Discard drops the staging area, leaving the published tree untouched.
	Discard() error
}
