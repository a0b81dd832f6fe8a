package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	codeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
	codeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

// wrap tags err with a category and text code unless a previous layer
// already categorised it.
func wrap(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "command validation failed", codeValidationFailed)
}

func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "command execution cancelled", codeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded", codeContextTimeout)
	default:
		return wrap(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "command execution failed", codeExecutionFailed)
}
