package generator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrPathCollision indicates two source documents resolve to the same
	// output file. The build aborts before anything is written.
	ErrPathCollision = errors.New("generator: output path collision")
	// ErrAssetCopy indicates an asset could not be copied after exhausting
	// its retry budget.
	ErrAssetCopy = errors.New("generator: asset copy failed")
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")

	errSourceRequired   = errors.New("generator: content source is required")
	errMarkdownRequired = errors.New("generator: markdown parser is required")
	errRendererRequired = errors.New("generator: layout renderer is required")
	errStoreRequired    = errors.New("generator: artifact store is required")
)

// PathCollisionError reports the output path and every source document that
// claimed it.
type PathCollisionError struct {
	Output  string
	Sources []string
}

func (e *PathCollisionError) Error() string {
	sources := append([]string(nil), e.Sources...)
	sort.Strings(sources)
	return fmt.Sprintf("%s: %s claimed by %s", ErrPathCollision.Error(), e.Output, strings.Join(sources, ", "))
}

func (e *PathCollisionError) Unwrap() error {
	return ErrPathCollision
}

// AssetCopyError records the failing asset and how many attempts were made.
type AssetCopyError struct {
	Source   string
	Attempts int
	Err      error
}

func (e *AssetCopyError) Error() string {
	return fmt.Sprintf("%s: %s after %d attempts: %v", ErrAssetCopy.Error(), e.Source, e.Attempts, e.Err)
}

func (e *AssetCopyError) Unwrap() error {
	return ErrAssetCopy
}
