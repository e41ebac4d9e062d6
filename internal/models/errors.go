package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation result taxonomy. Handlers map these to
// HTTP statuses; lenient read paths swallow ErrNotFound into defaults.
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate value")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// AttachmentError reports a file-persistence failure. The primary mutation
// may still have applied, so callers surface it as a partial success.
type AttachmentError struct {
	Name string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %q could not be stored: %v", e.Name, e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }
