package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Naming errors
	ErrInvalidName           ErrorCode = "INVALID_NAME"
	ErrInvalidRepositoryName ErrorCode = "INVALID_REPOSITORY_NAME"
	ErrNoTarget              ErrorCode = "NO_TARGET"

	// Repository errors
	ErrDirtyRepository ErrorCode = "DIRTY_REPOSITORY"
	ErrInvalidPath     ErrorCode = "INVALID_PATH"
	ErrImport          ErrorCode = "IMPORT"
	ErrSymlinksParse   ErrorCode = "SYMLINKS_PARSE"

	// Persisted state errors
	ErrStateRead    ErrorCode = "STATE_READ"
	ErrStateWrite   ErrorCode = "STATE_WRITE"
	ErrStateInvalid ErrorCode = "STATE_INVALID"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Subprocess errors
	ErrVCSCommand     ErrorCode = "VCS_COMMAND"
	ErrHookExecute    ErrorCode = "HOOK_EXECUTE"
	ErrCommandExecute ErrorCode = "COMMAND_EXECUTE"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// DottyError represents a structured error with code and details
type DottyError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DottyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DottyError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DottyError) Is(target error) bool {
	var targetErr *DottyError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DottyError with the given code and message
func New(code ErrorCode, message string) *DottyError {
	return &DottyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DottyError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DottyError {
	return &DottyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DottyError
func Wrap(err error, code ErrorCode, message string) *DottyError {
	if err == nil {
		return nil
	}
	return &DottyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DottyError {
	if err == nil {
		return nil
	}
	return &DottyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DottyError) WithDetail(key string, value interface{}) *DottyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dottyErr *DottyError
	if errors.As(err, &dottyErr) {
		return dottyErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DottyError
func GetErrorCode(err error) ErrorCode {
	var dottyErr *DottyError
	if errors.As(err, &dottyErr) {
		return dottyErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DottyError
func GetErrorDetails(err error) map[string]interface{} {
	var dottyErr *DottyError
	if errors.As(err, &dottyErr) {
		return dottyErr.Details
	}
	return nil
}

// ExitCode returns the exit status the process should end with: the status
// of the innermost failed subprocess in err's chain, else 1.
func ExitCode(err error) int {
	code := 1
	for err != nil {
		var dottyErr *DottyError
		if !errors.As(err, &dottyErr) {
			break
		}
		if c, ok := dottyErr.Details["exitCode"].(int); ok && c > 0 {
			code = c
		}
		err = dottyErr.Wrapped
	}
	return code
}

// UserMessage renders err for the terminal: the outermost message without
// its code prefix, followed by the root cause when one exists.
func UserMessage(err error) string {
	var dottyErr *DottyError
	if !errors.As(err, &dottyErr) {
		return err.Error()
	}
	if dottyErr.Wrapped == nil {
		return dottyErr.Message
	}
	return fmt.Sprintf("%s: %s", dottyErr.Message, UserMessage(dottyErr.Wrapped))
}
