package errors

import (
	stderrors "errors"

	"github.com/louisbranch/dicenotation/internal/platform/errors/i18n"
)

// Domain is the error domain for dice notation errors.
const Domain = "github.com/louisbranch/dicenotation"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		Cause:    cause,
	}
}

// GetCode returns the code of the first domain error in err's chain, or
// CodeUnknown when there is none.
func GetCode(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// GetMetadata returns the metadata of the first domain error in err's chain.
func GetMetadata(err error) map[string]string {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Metadata
	}
	return nil
}

// Localize renders the user-facing message for locale. Codes without a
// catalog entry fall back to the internal message.
func (e *Error) Localize(locale string) string {
	catalog := i18n.GetCatalog(locale)
	message := catalog.Format(string(e.Code), e.Metadata)
	if message == string(e.Code) {
		return e.Message
	}
	return message
}

// LocalizedMessage renders err for locale when it carries a domain error and
// returns err.Error() otherwise.
func LocalizedMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Localize(locale)
	}
	return err.Error()
}
