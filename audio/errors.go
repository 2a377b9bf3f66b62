// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches any *FormatError via errors.Is.
	ErrFormat = errors.New("malformed audio container")
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("audio file not found")
	// ErrUnsupportedFormat is returned when no prober is registered for an extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// FormatError reports a container that is not valid for its format: a bad
// RIFF/WAVE signature, a missing fmt or data sub-chunk, or a header that
// makes duration undefined.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// NotFoundError reports a path that does not exist or cannot be read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: not found: %v", e.Path, e.Err)
	}
	return e.Path + ": not found"
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewFormatError builds a FormatError without a path; callers that know the
// path fill it in with WithPath.
func NewFormatError(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}

// WithPath attaches path to err when it is a FormatError that does not yet
// carry one. Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		cp := *fe
		cp.Path = path
		return &cp
	}
	return err
}
