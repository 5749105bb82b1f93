// Package errors defines the structured error type shared by vuelens packages.
//
// Most failures in vuelens are non-fatal: a single unreadable inherited config
// or unloadable plugin is reported and skipped. LensError carries the code and
// location needed to report those failures through a logger without aborting
// the surrounding operation.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeModule     ErrorType = "module"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeConfigUnreadable    = "ERR_CONFIG_UNREADABLE"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeExtendsUnresolvable = "ERR_EXTENDS_UNRESOLVABLE"
	ErrCodePluginUnloadable    = "ERR_PLUGIN_UNLOADABLE"
	ErrCodeModuleUnresolvable  = "ERR_MODULE_UNRESOLVABLE"
	ErrCodeTemplateMissing     = "ERR_TEMPLATE_MISSING"
	ErrCodeComponentNotFound   = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeInvalidPath         = "ERR_INVALID_PATH"
	ErrCodeOverlappingEdits    = "ERR_OVERLAPPING_EDITS"
	ErrCodeInternalError       = "ERR_INTERNAL"
	ErrCodeValidationFailed    = "ERR_VALIDATION_FAILED"
)

// LensError is a structured error type with context.
type LensError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *LensError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LensError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code.
func (e *LensError) Is(target error) bool {
	var t *LensError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *LensError) WithContext(key string, value interface{}) *LensError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error refers to.
func (e *LensError) WithFile(filePath string) *LensError {
	e.FilePath = filePath

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *LensError {
	return &LensError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *LensError {
	return &LensError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *LensError {
	return &LensError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewModuleError creates an error for a module that could not be resolved
// or loaded. Module errors never abort a resolution.
func NewModuleError(code, message string, cause error) *LensError {
	return &LensError{
		Type:        ErrorTypeModule,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var le *LensError
	if errors.As(err, &le) {
		return le.Recoverable
	}

	return false
}

// HasCode reports whether err (or anything it wraps) is a LensError with code.
func HasCode(err error, code string) bool {
	var le *LensError
	for err != nil {
		if !errors.As(err, &le) {
			return false
		}
		if le.Code == code {
			return true
		}
		err = le.Cause
	}

	return false
}

// ErrConfigUnreadable reports a config file that could not be read or parsed.
func ErrConfigUnreadable(path string, cause error) *LensError {
	return NewConfigError(ErrCodeConfigUnreadable, "failed to read config", cause).WithFile(path)
}

// ErrExtendsUnresolvable reports an extends entry that did not resolve.
func ErrExtendsUnresolvable(path, entry string, cause error) *LensError {
	return NewModuleError(ErrCodeExtendsUnresolvable, "cannot resolve extends: "+entry, cause).
		WithFile(path).
		WithContext("entry", entry)
}

// ErrPluginUnloadable reports a plugin that did not resolve or load.
func ErrPluginUnloadable(path, plugin string, cause error) *LensError {
	return NewModuleError(ErrCodePluginUnloadable, "load plugin failed: "+plugin, cause).
		WithFile(path).
		WithContext("plugin", plugin)
}

// ErrModuleUnresolvable reports a hook or language module path that did not resolve.
func ErrModuleUnresolvable(path, module string, cause error) *LensError {
	return NewModuleError(ErrCodeModuleUnresolvable, "failed to resolve path: "+module, cause).
		WithFile(path).
		WithContext("module", module)
}

// ErrTemplateMissing reports a document without a template block.
func ErrTemplateMissing(path string) *LensError {
	return &LensError{
		Type:        ErrorTypeTemplate,
		Code:        ErrCodeTemplateMissing,
		Message:     "document has no <template> block",
		FilePath:    path,
		Recoverable: true,
	}
}

// ErrComponentNotFound creates a component not found error.
func ErrComponentNotFound(name string) *LensError {
	return NewValidationError(ErrCodeComponentNotFound, "component not found: "+name)
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *LensError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}
