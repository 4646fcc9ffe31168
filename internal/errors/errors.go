package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError with the same type and code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(2),
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the type of the first AppError in err's chain, or
// ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show to a client.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error at a level chosen by its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Request error", appErr.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", appErr.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors, for matching with errors.Is
var (
	ErrInvalidInput = New(ErrorTypeValidation, "VALIDATION", "Invalid input provided")
	ErrNotFound     = New(ErrorTypeNotFound, "NOT_FOUND", "Resource not found")
)

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: "VALIDATION", Message: message, Source: caller(2)}
}

func NewNotFoundError(resource, id string) *AppError {
	return (&AppError{
		Type:    ErrorTypeNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Source:  caller(2),
	}).WithContext("resource", resource).WithContext("id", id)
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Code: "CONFLICT", Message: message, Source: caller(2)}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{Type: ErrorTypeDatabase, Code: "DB_ERROR", Message: "Database operation failed", Internal: err, Source: caller(2)}
}

func NewExternalAPIError(err error, api string) *AppError {
	return (&AppError{
		Type:     ErrorTypeExternal,
		Code:     "EXTERNAL_API",
		Message:  fmt.Sprintf("%s API error", api),
		Internal: err,
		Source:   caller(2),
	}).WithContext("api", api)
}

func NewInternalError(err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: "INTERNAL", Message: "Internal server error", Internal: err, Source: caller(2)}
}
