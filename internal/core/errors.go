// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrInternal     = errors.New("internal error")
)

const validationMessage = "The given data was invalid."

// AppError is an error that already knows how it should be rendered.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Fields     map[string][]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(
	err error,
	message string,
	statusCode int,
	code string,
) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", capitalize(resource)),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	appErr := NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("The %s has already been taken.", field),
		http.StatusConflict,
		"DUPLICATE",
	)
	appErr.Fields = map[string][]string{
		field: {fmt.Sprintf("The %s has already been taken.", field)},
	}
	return appErr
}

// ValidationError builds a 422 carrying field-keyed messages.
func ValidationError(fields map[string][]string) *AppError {
	appErr := NewAppError(
		ErrInvalidInput,
		validationMessage,
		http.StatusUnprocessableEntity,
		"VALIDATION_FAILED",
	)
	appErr.Fields = fields
	return appErr
}

func FieldError(field, message string) *AppError {
	return ValidationError(map[string][]string{field: {message}})
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "Token expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "Token revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Unauthorized", http.StatusUnauthorized, "TOKEN_INVALID")
}

func InternalError(err error, message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return NewAppError(err, message, http.StatusInternalServerError, "INTERNAL_ERROR")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
