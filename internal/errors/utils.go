package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a LensError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *LensError {
	if err == nil {
		return nil
	}

	// If it's already a LensError, preserve its properties but update the message
	var le *LensError
	if errors.As(err, &le) {
		return &LensError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       le,
			Context:     le.Context,
			FilePath:    le.FilePath,
			Recoverable: le.Recoverable,
		}
	}

	return &LensError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeModule,
	}
}

// WrapConfig wraps an error as a configuration error for path
func WrapConfig(err error, code, message, path string) *LensError {
	le := Wrap(err, ErrorTypeConfig, code, message)
	if le != nil {
		le.FilePath = path
	}
	return le
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *LensError {
	le := Wrap(err, ErrorTypeIO, code, message)
	if le != nil {
		le.Recoverable = false
	}
	return le
}

// GetErrorCode extracts the error code from a LensError
func GetErrorCode(err error) string {
	var le *LensError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// GetErrorType extracts the error type from a LensError
func GetErrorType(err error) ErrorType {
	var le *LensError
	if errors.As(err, &le) {
		return le.Type
	}
	return ""
}

// WithOperationContext records the operation an error occurred in.
// Errors that are not LensErrors are wrapped as internal errors.
func WithOperationContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}

	le, ok := err.(*LensError)
	if !ok {
		le = Wrap(err, ErrorTypeInternal, ErrCodeInternalError, err.Error())
	}
	le.WithContext("operation", operation)
	for k, v := range context {
		le.WithContext(k, v)
	}

	return le
}

// GetErrorChain returns all errors in the chain from outermost to innermost
func GetErrorChain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		err = errors.Unwrap(err)
	}
	return chain
}

// GetRootCause returns the deepest underlying error in the chain
func GetRootCause(err error) error {
	chain := GetErrorChain(err)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

// HasErrorType checks if any error in the chain has the specified type
func HasErrorType(err error, errType ErrorType) bool {
	for _, e := range GetErrorChain(err) {
		if le, ok := e.(*LensError); ok && le.Type == errType {
			return true
		}
	}
	return false
}
