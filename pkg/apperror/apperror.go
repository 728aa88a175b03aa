package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	MsgNoProfile   = "There is no profile for this user"
	MsgServerError = "Server Error"
)

// FieldError is one failed validation rule, shaped the way API clients
// already read them: {"param": "status", "msg": "Status is Required"}.
type FieldError struct {
	Field   string `json:"param"`
	Message string `json:"msg"`
}

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
	Fields    []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.BaseError, e.Err}
	}
	return []error{e.BaseError}
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

// NewProfileNotFound is the single not-found shape for every profile lookup,
// whether the identifier was absent or malformed.
func NewProfileNotFound(identifier string) *AppError {
	details := fmt.Sprintf("profile for user '%s' was not found", identifier)
	return NewAppError(ErrNotFound, MsgNoProfile, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewValidation(fields []FieldError) *AppError {
	e := NewAppError(ErrInvalidInput, "Validation failed", fmt.Sprintf("%d field(s) failed validation", len(fields)), nil)
	e.Fields = fields
	return e
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Token is not valid", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

// IsExpected reports whether err is a caller mistake rather than a failure
// of the service. Expected errors are not logged as failures.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrPermission)
}

// ToHTTPStatus maps an error to its status code. Missing profiles are a 400,
// not a 404: existing clients branch on that.
func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ToJSON renders err for the client. Internal details never leave the process.
func ToJSON(err error) gin.H {
	var appErr *AppError
	if !errors.As(err, &appErr) || !IsExpected(err) && !errors.Is(err, ErrConflict) {
		return gin.H{"msg": MsgServerError}
	}
	if len(appErr.Fields) > 0 {
		return gin.H{"errors": appErr.Fields}
	}
	return gin.H{"msg": appErr.Message}
}
