// Package domain defines the core domain models for lanbind.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Codes have the form LB-<AREA>-<NNNN>. The numeric part follows HTTP-ish
// classes: 4xxx for invalid input, 5xxx for failures while acting on the host.
type DomainError struct {
	Code    string // Error code (e.g., "LB-CFG-5001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Configuration surfaces
// ============================================================================

var (
	// ErrConfigWrite indicates the daemon's persisted config could not be written.
	ErrConfigWrite = NewDomainError("LB-CFG-5001", "write daemon config file")

	// ErrConfigRead indicates the daemon's persisted config exists but could not be read.
	ErrConfigRead = NewDomainError("LB-CFG-5002", "read daemon config file")

	// ErrInvalidSettings indicates the tool configuration failed validation.
	ErrInvalidSettings = NewDomainError("LB-CFG-4001", "invalid settings")

	// ErrEnvFileWrite indicates the exported environment file could not be written.
	ErrEnvFileWrite = NewDomainError("LB-ENV-5001", "write environment file")

	// ErrProfileWrite indicates the shell profile could not be updated.
	ErrProfileWrite = NewDomainError("LB-PRF-5001", "update shell profile")
)

// ============================================================================
// Daemon lifecycle
// ============================================================================

var (
	// ErrDaemonLaunch indicates the daemon's serve command could not be started.
	ErrDaemonLaunch = NewDomainError("LB-SVC-5002", "launch daemon")
)
