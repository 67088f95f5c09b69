package errors

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	ErrSinkUnavailable   = errors.New("sink unavailable")
	ErrCancelled         = errors.New("run cancelled")
)

const (
	ExitFailure   = 1
	ExitBadInput  = 2
	ExitSink      = 3
	ExitCancelled = 130
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// Malformed reports a persisted line that does not have the expected shape.
func Malformed(path string, line int, format string, args ...any) *AppError {
	return &AppError{
		Err:      ErrMalformedRecord,
		Message:  fmt.Sprintf("%s:%d: %s", path, line, fmt.Sprintf(format, args...)),
		ExitCode: ExitBadInput,
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, ErrMalformedRecord), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidVocabulary):
		return ExitBadInput
	case errors.Is(err, ErrSinkUnavailable):
		return ExitSink
	default:
		return ExitFailure
	}
}
