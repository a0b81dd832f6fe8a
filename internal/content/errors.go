package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFrontMatterMalformed = errors.New("content: front matter is not well-formed")
	ErrLayoutRequired       = errors.New("content: layout is required")
	ErrTitleRequired        = errors.New("content: title is required")
	ErrDateRequired         = errors.New("content: date is required")
	ErrSlugInvalid          = errors.New("content: slug contains invalid characters")
	ErrSchemaInvalid        = errors.New("content: front matter schema validation failed")
)

// DocumentError ties a loader failure to the source file that produced it so
// callers can report the offending path without string matching.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e == nil {
		return "content: document error"
	}
	path := strings.TrimSpace(e.Path)
	if path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", path, e.Err.Error())
}

func (e *DocumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
