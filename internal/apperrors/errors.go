// Package apperrors holds the error kinds surfaced by the recordkeeping
// engine. Callers classify with errors.Is against the Err* sentinels.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
	ErrParse      = errors.New("parse error")
)

type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil && e.msg == "" {
		return e.err.Error()
	}
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func (e *kindError) Unwrap() error {
	return e.err
}

// NotFound renders as "<Entity> <id> not found".
func NotFound(entity string, id any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf("%s %v not found", entity, id)}
}

func Validation(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Storage(err error) error {
	if err == nil || errors.Is(err, ErrStorage) {
		return err
	}
	return &kindError{kind: ErrStorage, err: err}
}

func Parse(err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: ErrParse, err: err}
}

// Message returns the innermost kind message, without the context layers
// added while the error travelled up through logging.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsCallerError reports whether err comes from the request rather than the
// store: a missing record, invalid input or an unreadable upload.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrParse)
}
