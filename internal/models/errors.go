package models

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInput marks requests that cannot be processed at all,
// such as an upload that is not a multipart form.
var ErrUnsupportedInput = errors.New("unsupported input")

// RemoteServiceError wraps any failure of the remote text-generation call.
type RemoteServiceError struct {
	Provider string
	Err      error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service %s: %v", e.Provider, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// FileReadError wraps failures to persist or read back an uploaded file.
type FileReadError struct {
	Name string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read file %s: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
