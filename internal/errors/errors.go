package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotInstalled     = "NOT_INSTALLED"
	ErrCodeProviderNotFound = "PROVIDER_NOT_FOUND"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeNullCursor       = "NULL_CURSOR"
	ErrCodeQueryFailed      = "QUERY_FAILED"
	ErrCodeUpdateFailed     = "UPDATE_FAILED"
	ErrCodeSchemaMismatch   = "SCHEMA_MISMATCH"
	ErrCodeFieldNotFound    = "FIELD_NOT_FOUND"
	ErrCodeNoteNotFound     = "NOTE_NOT_FOUND"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnknown          = "UNKNOWN"
)

// AppError represents a provider or bridge failure with a stable code
type AppError struct {
	Code    string // Error code (e.g., "NOTE_NOT_FOUND", "SCHEMA_MISMATCH")
	Message string // Human-readable error message
	Detail  any    // Structured detail (column names, field names, cause text)
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by code, so errors.Is works against the
// package-level sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	NotInstalled     = &AppError{Code: ErrCodeNotInstalled}
	ProviderNotFound = &AppError{Code: ErrCodeProviderNotFound}
	PermissionDenied = &AppError{Code: ErrCodePermissionDenied}
	NullCursor       = &AppError{Code: ErrCodeNullCursor}
	QueryFailed      = &AppError{Code: ErrCodeQueryFailed}
	UpdateFailed     = &AppError{Code: ErrCodeUpdateFailed}
	SchemaMismatch   = &AppError{Code: ErrCodeSchemaMismatch}
	FieldNotFound    = &AppError{Code: ErrCodeFieldNotFound}
	NoteNotFound     = &AppError{Code: ErrCodeNoteNotFound}
	InvalidArgument  = &AppError{Code: ErrCodeInvalidArgument}
)

// NewNotInstalledError reports that the flashcard app package is absent.
func NewNotInstalledError() *AppError {
	return &AppError{
		Code:    ErrCodeNotInstalled,
		Message: "AnkiDroid is not installed",
		Status:  http.StatusServiceUnavailable,
	}
}

// NewProviderNotFoundError reports that the content provider authority does not resolve.
func NewProviderNotFoundError() *AppError {
	return &AppError{
		Code:    ErrCodeProviderNotFound,
		Message: "AnkiDroid content provider not found",
		Status:  http.StatusServiceUnavailable,
	}
}

// NewPermissionDeniedError wraps a permission failure raised by the provider.
func NewPermissionDeniedError(message string, err error) *AppError {
	e := &AppError{
		Code:    ErrCodePermissionDenied,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// NewNullCursorError reports a query that produced no cursor at all.
func NewNullCursorError() *AppError {
	return &AppError{
		Code:    ErrCodeNullCursor,
		Message: "provider returned null cursor",
		Status:  http.StatusBadGateway,
	}
}

// NewQueryFailedError wraps a provider query failure; the cause text becomes the detail.
func NewQueryFailedError(message string, err error) *AppError {
	e := &AppError{
		Code:    ErrCodeQueryFailed,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// NewUpdateFailedError wraps a failed note write.
func NewUpdateFailedError(message string, err error) *AppError {
	e := &AppError{
		Code:    ErrCodeUpdateFailed,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// NewSchemaMismatchError reports an unexpected provider schema.
func NewSchemaMismatchError(message string, detail any) *AppError {
	return &AppError{
		Code:    ErrCodeSchemaMismatch,
		Message: message,
		Detail:  detail,
		Status:  http.StatusBadGateway,
	}
}

// NewFieldNotFoundError carries the resolved field names as detail.
func NewFieldNotFoundError(key string, names []string) *AppError {
	return &AppError{
		Code:    ErrCodeFieldNotFound,
		Message: fmt.Sprintf("field not found in model: %s", key),
		Detail:  names,
		Status:  http.StatusUnprocessableEntity,
	}
}

// NewNoteNotFoundError creates a new NOTE_NOT_FOUND error
func NewNoteNotFoundError(id int64) *AppError {
	return &AppError{
		Code:    ErrCodeNoteNotFound,
		Message: fmt.Sprintf("note not found: %d", id),
		Status:  http.StatusNotFound,
	}
}

// NewInvalidArgumentError creates a new INVALID_ARGUMENT error
func NewInvalidArgumentError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewUnknownError wraps a failure that carries no code of its own.
func NewUnknownError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// From returns err as an *AppError, wrapping anything else as UNKNOWN.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewUnknownError(err)
}
