package errors

import (
	stderrors "errors"
	"fmt"
)

// BuddyError is the structured error type for dev-session-buddy.
// It provides rich context for error handling, logging, and user presentation.
type BuddyError struct {
	// Code is the unique error code (e.g., "ERR_104_CONFIG_LOAD").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Command, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Sentinels for errors.Is checks against the error kinds callers care about.
var (
	ErrConfigLoad          = &BuddyError{Code: ErrCodeConfigLoad}
	ErrConfigSave          = &BuddyError{Code: ErrCodeConfigSave}
	ErrCopy                = &BuddyError{Code: ErrCodeCopyFailed}
	ErrTemplateApplication = &BuddyError{Code: ErrCodeTemplateApplication}
	ErrUnknownPreset       = &BuddyError{Code: ErrCodeUnknownPreset}
	ErrCommandFailed       = &BuddyError{Code: ErrCodeCommandFailed}
)

// Error implements the error interface.
func (e *BuddyError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BuddyError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with BuddyError.
func (e *BuddyError) Is(target error) bool {
	if t, ok := target.(*BuddyError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *BuddyError) WithDetail(key, value string) *BuddyError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *BuddyError) WithSuggestion(suggestion string) *BuddyError {
	e.Suggestion = suggestion
	return e
}

// New creates a new BuddyError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *BuddyError {
	return &BuddyError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a BuddyError from an existing error.
// The error's message becomes the BuddyError message.
func Wrap(code string, err error) *BuddyError {
	if err == nil {
		return nil
	}
	return New(code, MessageOf(err), err)
}

// MessageOf returns the human-readable message of err without the code prefix
// that BuddyError.Error adds.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if be, ok := err.(*BuddyError); ok {
		return be.Message
	}
	return err.Error()
}

// ConfigLoadError reports a configuration document that could not be read or parsed.
func ConfigLoadError(cause error) *BuddyError {
	return New(ErrCodeConfigLoad, "failed to load configuration: "+MessageOf(cause), cause)
}

// ConfigSaveError reports a configuration document that could not be serialized or written.
func ConfigSaveError(cause error) *BuddyError {
	return New(ErrCodeConfigSave, "failed to save configuration: "+MessageOf(cause), cause)
}

// CopyError reports a failed directory or file copy.
func CopyError(cause error) *BuddyError {
	return New(ErrCodeCopyFailed, "failed to copy: "+MessageOf(cause), cause)
}

// TemplateApplicationError is the single error kind returned when materializing a
// template fails at any stage. A suggestion on the cause is carried over.
func TemplateApplicationError(cause error) *BuddyError {
	be := New(ErrCodeTemplateApplication, "failed to apply template: "+MessageOf(cause), cause)
	var inner *BuddyError
	if stderrors.As(cause, &inner) {
		be.Suggestion = inner.Suggestion
	}
	return be
}

// CommandError reports a failed external command.
func CommandError(message string, cause error) *BuddyError {
	return New(ErrCodeCommandFailed, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *BuddyError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *BuddyError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ReadError reports a file or directory that exists but could not be read.
func ReadError(message string, cause error) *BuddyError {
	return New(ErrCodeReadFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *BuddyError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *BuddyError {
	return New(ErrCodeInternal, message, cause)
}

// GetCode extracts the error code from the outermost BuddyError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var be *BuddyError
	if stderrors.As(err, &be) {
		return be.Code
	}
	return ""
}

// GetCategory extracts the category from the outermost BuddyError in the chain.
// Returns empty string if there is none.
func GetCategory(err error) Category {
	var be *BuddyError
	if stderrors.As(err, &be) {
		return be.Category
	}
	return ""
}
