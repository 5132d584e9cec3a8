package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by wrapped engine command errors, for hosts that route
// failures by code rather than message.
const (
	CodeValidationFailed = "PAGEKIT_CMD_VALIDATION_FAILED"
	CodeCanceled         = "PAGEKIT_CMD_CANCELED"
	CodeDeadlineExceeded = "PAGEKIT_CMD_DEADLINE_EXCEEDED"
	CodeContextError     = "PAGEKIT_CMD_CONTEXT_ERROR"
	CodeExecutionFailed  = "PAGEKIT_CMD_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "engine command rejected its message").
		WithTextCode(CodeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "engine command canceled").
			WithTextCode(CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "engine command deadline exceeded").
			WithTextCode(CodeDeadlineExceeded)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "engine command context error").
			WithTextCode(CodeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "engine command failed").
		WithTextCode(CodeExecutionFailed)
}
