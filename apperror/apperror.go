package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrImageValidation = errors.New("image validation error")
	ErrStorageUpload   = errors.New("storage upload error")
	ErrConfiguration   = errors.New("configuration error")
)

type AppError struct {
	Err     error  // sentinel for classification
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ImageValidation marks an upload that is not a decodable image. Handlers map
// this to 400, never 500.
func ImageValidation(message string) *AppError {
	return &AppError{
		Err:     ErrImageValidation,
		Message: message,
	}
}

// StorageUpload marks a failure of the upstream storage backend. Handlers map
// this to 502 so callers can tell it apart from their own bad input.
func StorageUpload(message string, cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrStorageUpload, cause),
		Message: message,
	}
}

// Configuration marks a misconfigured storage backend. Fatal at startup.
func Configuration(message string) *AppError {
	return &AppError{
		Err:     ErrConfiguration,
		Message: message,
	}
}
