// Package errdefs defines the error categories surfaced by the ingestion
// pipeline. Callers should match with errors.As (or the Is* helpers) rather
// than comparing messages.
package errdefs

import (
	"errors"
	"fmt"
)

// ValidationError means the request itself is malformed: no statement file
// supplied, file too large, or nothing across the whole batch could be
// processed. Maps to a user-facing "bad request".
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ExtractionError means one file could not yield any transaction. The file's
// contribution is empty; sibling files continue.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("extracting %s: no transactions found", e.File)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConfigurationError means a required external collaborator is unavailable,
// e.g. unstructured input with no AI credential configured. It fails only the
// affected file, never the whole batch.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// ParseError means a ledger read recovered zero transactions from non-empty
// input. Unlike per-row drops this is surfaced directly: a merge cannot
// proceed without a usable baseline.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Configuration(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

func Parse(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsExtraction(err error) bool {
	var e *ExtractionError
	return errors.As(err, &e)
}

func IsConfiguration(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

func IsParse(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}
