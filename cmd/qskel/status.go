package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/QTest-hq/qskel/internal/generator"
)

// Process exit statuses
const (
	ExitOK                = 0
	ExitInternal          = 1
	ExitUsage             = 2
	ExitInputNotFound     = 3
	ExitNothingToGenerate = 4
)

// usageError marks errors caused by the invocation itself
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit status
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, generator.ErrNothingToGenerate):
		return ExitNothingToGenerate
	case errors.Is(err, fs.ErrNotExist):
		return ExitInputNotFound
	case errors.As(err, &ue),
		errors.Is(err, generator.ErrUnknownStrategy),
		errors.Is(err, generator.ErrUnknownEmitter),
		errors.Is(err, generator.ErrUnsupportedInput):
		return ExitUsage
	default:
		return ExitInternal
	}
}
