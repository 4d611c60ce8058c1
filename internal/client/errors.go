package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes a failed call to the detection service
type ErrorType string

const (
	// ErrTypeConfiguration indicates an unusable client configuration
	ErrTypeConfiguration ErrorType = "configuration"

	// ErrTypeInput indicates the pending file could not be read
	ErrTypeInput ErrorType = "input"

	// ErrTypeNetwork indicates the request never got a response
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeStatus indicates a non-2xx response
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates a response body that is not a usable report
	ErrTypeDecode ErrorType = "decode"
)

// ServiceError describes why a request to the detection service failed.
// The UI reports every type the same way; the type only feeds logs.
type ServiceError struct {
	Type       ErrorType
	Message    string
	Endpoint   string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is matches another *ServiceError by type
func (e *ServiceError) Is(target error) bool {
	if se, ok := target.(*ServiceError); ok {
		return e.Type == se.Type
	}
	return false
}

func newServiceError(errType ErrorType, endpoint, message string, cause error) *ServiceError {
	return &ServiceError{
		Type:     errType,
		Message:  message,
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// ErrorTypeOf returns the ServiceError type carried by err, or "" if none
func ErrorTypeOf(err error) ErrorType {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Type
	}
	return ""
}
