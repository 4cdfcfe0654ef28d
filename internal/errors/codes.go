// Package errors provides structured error handling for dev-session-buddy.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, directory copy)
//   - 3XX: External command errors
//   - 4XX: Validation errors
//   - 5XX: Internal and template application errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory I/O errors.
	CategoryIO Category = "IO"
	// CategoryCommand indicates failures of external commands.
	CategoryCommand Category = "COMMAND"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"
	ErrCodeConfigLoad       = "ERR_104_CONFIG_LOAD"
	ErrCodeConfigSave       = "ERR_105_CONFIG_SAVE"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeCopyFailed     = "ERR_203_COPY_FAILED"
	ErrCodeReadFailed     = "ERR_204_READ_FAILED"

	// Command errors (300-399)
	ErrCodeCommandFailed = "ERR_301_COMMAND_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput       = "ERR_401_INVALID_INPUT"
	ErrCodeUnknownPreset      = "ERR_402_UNKNOWN_PRESET"
	ErrCodeInvalidProjectName = "ERR_403_INVALID_PROJECT_NAME"

	// Internal errors (500-599)
	ErrCodeInternal            = "ERR_501_INTERNAL"
	ErrCodeTemplateApplication = "ERR_502_TEMPLATE_APPLICATION"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "104" from "ERR_104_CONFIG_LOAD")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryCommand
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeFilePermission, ErrCodeConfigPermission:
		return SeverityFatal
	case ErrCodeCommandFailed:
		// Missing tools are reported routinely; the caller decides.
		return SeverityWarning
	default:
		return SeverityError
	}
}
