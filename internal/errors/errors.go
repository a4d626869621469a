// Package errors defines the coded error types used across harerace.
//
// Asset and rendering failures are never fatal on their own: callers match
// the code with Is and degrade to "missing visual, simulation continues".
// Only SURFACE errors abort startup.
//
//	frames, err := sprites.Prepare(path, size)
//	if errors.Is(err, errors.ErrCodeMissingAsset) {
//	    // keep going without the sprite
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeMissingAsset       Code = "MISSING_ASSET"
	ErrCodeDecode             Code = "DECODE"
	ErrCodeSpriteRegistration Code = "SPRITE_REGISTRATION"
	ErrCodeSurface            Code = "SURFACE"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeCache              Code = "CACHE"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
